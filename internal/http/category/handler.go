package category

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/classify"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/http/respond"
)

const maxBatch = 100

type Handler struct {
	classifier *classify.Classifier
	rules      *classify.RuleService
}

func NewHandler(classifier *classify.Classifier, rules *classify.RuleService) *Handler {
	return &Handler{classifier: classifier, rules: rules}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/rules", h.listRules)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/suggest", h.suggest)
		r.Post("/suggest/batch", h.suggestBatch)
		r.Post("/rules", h.learn)
	})
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	respond.List(w, expense.Categories)
}

type suggestRequest struct {
	Description string `json:"description"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		respond.Error(w, r, apperr.Invalid("description", "is required"))
		return
	}

	respond.JSON(w, http.StatusOK, h.classifier.Suggest(r.Context(), req.Description))
}

type batchRequest struct {
	Descriptions []string `json:"descriptions"`
}

func (h *Handler) suggestBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	switch {
	case len(req.Descriptions) == 0:
		respond.Error(w, r, apperr.Invalid("descriptions", "is required"))
		return
	case len(req.Descriptions) > maxBatch:
		respond.Error(w, r, apperr.Invalid("descriptions", "must have at most %d entries", maxBatch))
		return
	}

	respond.List(w, h.classifier.SuggestBatch(r.Context(), req.Descriptions))
}

type ruleRequest struct {
	Pattern  string           `json:"pattern"`
	Category expense.Category `json:"category"`
}

type ruleResponse struct {
	ID        uuid.UUID        `json:"id"`
	Pattern   string           `json:"pattern"`
	Category  expense.Category `json:"category"`
	CreatedAt time.Time        `json:"created_at"`
}

func toRuleResponse(rule *classify.Rule) ruleResponse {
	return ruleResponse{
		ID:        rule.ID,
		Pattern:   rule.Pattern,
		Category:  rule.Category,
		CreatedAt: rule.CreatedAt,
	}
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	rule, err := h.rules.Learn(r.Context(), req.Pattern, req.Category)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toRuleResponse(rule))
}

func (h *Handler) listRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.rules.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]ruleResponse, len(rules))
	for i, rule := range rules {
		resp[i] = toRuleResponse(rule)
	}

	respond.List(w, resp)
}
