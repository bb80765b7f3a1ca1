package classify_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/classify"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
)

func completionServer(t *testing.T, status int, content string) (*httptest.Server, *int) {
	t.Helper()

	var calls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if status != http.StatusOK {
			http.Error(w, "upstream unavailable", status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func completion(url string) *classify.CompletionClassifier {
	return classify.NewCompletionClassifier(classify.CompletionConfig{
		APIKey:  "test-key",
		BaseURL: url,
		Timeout: time.Second,
	})
}

func TestClassifier_Suggest(t *testing.T) {
	type testCase struct {
		name        string
		description string
		status      int
		completion  string
		want        classify.Suggestion
		wantCalls   int
	}

	tests := []testCase{
		{
			name:        "TooShort",
			description: " ab ",
			want:        classify.Suggestion{Category: expense.CategoryOther, Confidence: 0, Reasoning: "Description too short to analyze"},
		},
		{
			name:        "KeywordTravel",
			description: "Uber to the airport",
			want:        classify.Suggestion{Category: expense.CategoryTravel, Confidence: 90, Reasoning: "Matched travel keywords"},
		},
		{
			name:        "KeywordOrderMatters",
			description: "Coffee at the hotel",
			want:        classify.Suggestion{Category: expense.CategoryTravel, Confidence: 90, Reasoning: "Matched travel keywords"},
		},
		{
			name:        "FallsBackToCompletion",
			description: "Quarterly audit by Smith & Co",
			status:      http.StatusOK,
			completion:  "Category: services\nConfidence: 88\nReasoning: An audit is a professional service.",
			want:        classify.Suggestion{Category: expense.CategoryServices, Confidence: 88, Reasoning: "An audit is a professional service."},
			wantCalls:   1,
		},
		{
			name:        "CompletionDefaults",
			description: "Quarterly audit by Smith & Co",
			status:      http.StatusOK,
			completion:  "Category: spaceships\nConfidence: lots",
			want:        classify.Suggestion{Category: expense.CategoryOther, Confidence: 70, Reasoning: "Categorized by AI"},
			wantCalls:   1,
		},
		{
			name:        "CompletionUnavailable",
			description: "Quarterly audit by Smith & Co",
			status:      http.StatusBadGateway,
			want:        classify.Suggestion{Category: expense.CategoryOther, Confidence: 0, Reasoning: "AI service temporarily unavailable"},
			wantCalls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := completionServer(t, tt.status, tt.completion)

			c := classify.New(classify.NewKeywordMatcher(nil), completion(srv.URL))
			got := c.Suggest(context.Background(), tt.description)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCalls, *calls)
		})
	}
}

func TestClassifier_SuggestWithoutCompletion(t *testing.T) {
	c := classify.New(classify.NewKeywordMatcher(nil))

	got := c.Suggest(context.Background(), "Quarterly audit by Smith & Co")
	assert.Equal(t, expense.CategoryOther, got.Category)
	assert.Zero(t, got.Confidence)
}

func TestClassifier_LearnedRuleWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rules := classify.NewMockRuleRepository(ctrl)
	rules.EXPECT().
		FindRule(gomock.Any(), "Figma team plan").
		Return(&classify.Rule{Pattern: "figma", Category: expense.CategorySubscriptions}, nil)

	c := classify.New(classify.NewKeywordMatcher(rules))
	got := c.Suggest(context.Background(), "Figma team plan")

	assert.Equal(t, expense.CategorySubscriptions, got.Category)
	assert.Equal(t, 95, got.Confidence)
}

func TestClassifier_RuleLookupFailureFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rules := classify.NewMockRuleRepository(ctrl)
	rules.EXPECT().FindRule(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	srv, _ := completionServer(t, http.StatusOK, "Category: food\nConfidence: 80\nReasoning: Lunch.")

	c := classify.New(classify.NewKeywordMatcher(rules), completion(srv.URL))
	got := c.Suggest(context.Background(), "Team offsite lunch")

	assert.Equal(t, expense.CategoryFood, got.Category)
	assert.Equal(t, 80, got.Confidence)
}

func TestClassifier_SuggestBatch(t *testing.T) {
	c := classify.New(classify.NewKeywordMatcher(nil))

	descriptions := []string{
		"Flight to Lisbon",
		"x",
		"New laptop",
		"Printer paper",
		"Concert tickets",
		"Electricity bill",
		"Team dinner",
	}

	got := c.SuggestBatch(context.Background(), descriptions)
	require.Len(t, got, len(descriptions))

	want := []expense.Category{
		expense.CategoryTravel,
		expense.CategoryOther,
		expense.CategoryEquipment,
		expense.CategorySupplies,
		expense.CategoryEntertainment,
		expense.CategoryUtilities,
		expense.CategoryFood,
	}

	for i, w := range want {
		assert.Equal(t, w, got[i].Category, descriptions[i])
	}
}

type memCache struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func (m *memCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", false, m.err
	}

	v, ok := m.data[key]

	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.data[key] = value

	return nil
}

func TestCachedStrategy(t *testing.T) {
	srv, calls := completionServer(t, http.StatusOK, "Category: services\nConfidence: 75\nReasoning: Audit.")

	cache := &memCache{data: map[string]string{}}
	c := classify.New(classify.NewCachedStrategy(completion(srv.URL), cache, time.Hour))

	first := c.Suggest(context.Background(), "Quarterly audit")
	second := c.Suggest(context.Background(), "  QUARTERLY AUDIT ")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, *calls)
	require.Len(t, cache.data, 1)

	for _, v := range cache.data {
		var s classify.Suggestion
		require.NoError(t, json.Unmarshal([]byte(v), &s))
		assert.Equal(t, expense.CategoryServices, s.Category)
	}
}

func TestCachedStrategy_FailsOpen(t *testing.T) {
	srv, calls := completionServer(t, http.StatusOK, "Category: services\nConfidence: 75\nReasoning: Audit.")

	cache := &memCache{data: map[string]string{}, err: errors.New("redis down")}
	c := classify.New(classify.NewCachedStrategy(completion(srv.URL), cache, time.Hour))

	got := c.Suggest(context.Background(), "Quarterly audit")
	assert.Equal(t, expense.CategoryServices, got.Category)

	c.Suggest(context.Background(), "Quarterly audit")
	assert.Equal(t, 2, *calls)
}

func TestRuleService_Learn(t *testing.T) {
	type testCase struct {
		name      string
		pattern   string
		category  expense.Category
		setupMock func(m *classify.MockRuleRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			pattern:  " figma ",
			category: expense.CategorySubscriptions,
			setupMock: func(m *classify.MockRuleRepository) {
				m.EXPECT().
					CreateRule(gomock.Any(), &classify.Rule{Pattern: "figma", Category: expense.CategorySubscriptions}).
					Return(nil)
			},
		},
		{name: "PatternTooShort", pattern: "f", category: expense.CategoryFood, wantErr: apperr.ErrValidation},
		{name: "UnknownCategory", pattern: "figma", category: "software", wantErr: apperr.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := classify.NewMockRuleRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := classify.NewRuleService(repo).Learn(context.Background(), tt.pattern, tt.category)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "figma", got.Pattern)
		})
	}
}
