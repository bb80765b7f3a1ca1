package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/teamspend/internal/http/auth"
)

const secret = "test-secret"

func TestGenerateAndParse(t *testing.T) {
	token, err := auth.GenerateToken("ops-lead", secret, time.Hour)
	require.NoError(t, err)

	claims, err := auth.Parse(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "ops-lead", claims.Subject)
	assert.Equal(t, "teamspend", claims.Issuer)

	_, err = auth.Parse(token, "other-secret")
	assert.Error(t, err)

	expired, err := auth.GenerateToken("ops-lead", secret, -time.Minute)
	require.NoError(t, err)

	_, err = auth.Parse(expired, secret)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	valid, err := auth.GenerateToken("ops-lead", secret, time.Hour)
	require.NoError(t, err)

	var gotSubject string

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject, _ = auth.Subject(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	type testCase struct {
		name       string
		secret     string
		header     string
		wantStatus int
		wantSub    string
	}

	tests := []testCase{
		{name: "Disabled", secret: "", wantStatus: http.StatusNoContent},
		{name: "Missing", secret: secret, wantStatus: http.StatusUnauthorized},
		{name: "WrongScheme", secret: secret, header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "Garbage", secret: secret, header: "Bearer not-a-token", wantStatus: http.StatusUnauthorized},
		{name: "Valid", secret: secret, header: "Bearer " + valid, wantStatus: http.StatusNoContent, wantSub: "ops-lead"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSubject = ""

			req := httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			auth.Middleware(tt.secret)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantSub, gotSubject)

			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"success":false,"error":"`+errorText(tt.header)+`"}`, rec.Body.String())
			}
		})
	}
}

func errorText(header string) string {
	switch header {
	case "":
		return "missing bearer token"
	case "Basic abc":
		return "invalid authorization header format"
	}

	return "invalid or expired token"
}
