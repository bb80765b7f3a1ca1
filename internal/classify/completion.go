package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/teamspend/internal/expense"
)

const (
	defaultCompletionURL   = "https://api.openai.com/v1"
	defaultCompletionModel = "gpt-3.5-turbo"
	defaultConfidence      = 70

	systemPrompt = "You are an expense categorization assistant. Analyze expense descriptions and suggest the most appropriate category. Be concise and accurate."
)

var errEmptyCompletion = errors.New("no response from completion API")

type CompletionConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// CompletionClassifier asks an OpenAI-compatible chat completion endpoint.
type CompletionClassifier struct {
	client  *http.Client
	apiKey  string
	model   string
	baseURL string
}

func NewCompletionClassifier(cfg CompletionConfig) *CompletionClassifier {
	if cfg.Model == "" {
		cfg.Model = defaultCompletionModel
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultCompletionURL
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &CompletionClassifier{
		client:  &http.Client{Timeout: cfg.Timeout},
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (c *CompletionClassifier) Name() string { return "completion" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *CompletionClassifier) Classify(ctx context.Context, description string) (Suggestion, bool, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(description)},
		},
		Temperature: 0.3,
		MaxTokens:   150,
	})
	if err != nil {
		return Suggestion{}, false, fmt.Errorf("encoding completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Suggestion{}, false, fmt.Errorf("building completion request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return Suggestion{}, false, fmt.Errorf("calling completion API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Suggestion{}, false, fmt.Errorf("completion API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Suggestion{}, false, fmt.Errorf("decoding completion response: %w", err)
	}

	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return Suggestion{}, false, errEmptyCompletion
	}

	return parseCompletion(out.Choices[0].Message.Content), true, nil
}

// parseCompletion reads the "Category:", "Confidence:" and "Reasoning:" lines.
// Missing or invalid lines keep their defaults.
func parseCompletion(text string) Suggestion {
	s := Suggestion{
		Category:   expense.CategoryOther,
		Confidence: defaultConfidence,
		Reasoning:  "Categorized by AI",
	}

	for line := range strings.SplitSeq(text, "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), ":")
		if !found {
			continue
		}

		value = strings.TrimSpace(value)

		switch strings.ToLower(key) {
		case "category":
			if c := expense.Category(strings.ToLower(value)); c.Valid() {
				s.Category = c
			}
		case "confidence":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 && n <= 100 {
				s.Confidence = n
			}
		case "reasoning":
			s.Reasoning = value
		}
	}

	return s
}

func buildPrompt(description string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this expense description carefully and categorize it into ONE category.\n\n")
	fmt.Fprintf(&b, "Description: %q\n\n", description)
	b.WriteString("Available categories:\n")

	for _, c := range expense.Categories {
		fmt.Fprintf(&b, "- %s: %s\n", c, categoryHints[c])
	}

	b.WriteString("\nRespond ONLY in this exact format:\n")
	b.WriteString("Category: [one word category]\n")
	b.WriteString("Confidence: [number 0-100]\n")
	b.WriteString("Reasoning: [one sentence explaining your choice]\n")

	return b.String()
}

var categoryHints = map[expense.Category]string{
	expense.CategoryTravel:        "flights, hotels, car rentals, taxi, uber, parking, gas, train tickets",
	expense.CategoryFood:          "restaurants, meals, lunch, dinner, breakfast, coffee, snacks, catering",
	expense.CategorySupplies:      "office supplies, paper, pens, notebooks, folders, stationery",
	expense.CategoryEquipment:     "computers, laptops, monitors, software, hardware, electronics",
	expense.CategoryMarketing:     "advertising, social media, content creation, SEO, PPC campaigns",
	expense.CategorySubscriptions: "software subscriptions, SaaS, streaming services, memberships",
	expense.CategoryServices:      "consulting, legal, accounting, professional services, freelancers",
	expense.CategoryRentals:       "equipment rentals, vehicle rentals, storage units",
	expense.CategoryUtilities:     "electricity, water, internet, phone, gas bills",
	expense.CategoryEntertainment: "movies, concerts, sports events, games",
	expense.CategoryOther:         "anything that doesn't clearly fit above categories",
}
