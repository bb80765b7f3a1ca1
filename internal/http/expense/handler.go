package expense

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/http/respond"
	"github.com/MrJamesThe3rd/teamspend/internal/money"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

type Handler struct {
	svc *expense.Service
}

func NewHandler(svc *expense.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Patch("/{id}", h.update)
	})
}

type createExpenseRequest struct {
	TeamID      string           `json:"team_id"`
	Amount      money.Amount     `json:"amount"`
	Description string           `json:"description"`
	Category    expense.Category `json:"category"`
	Status      expense.Status   `json:"status"`
	Date        string           `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	var teamID uuid.UUID

	if req.TeamID != "" {
		id, err := team.ParseID(req.TeamID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		teamID = id
	}

	var date time.Time

	if req.Date != "" {
		d, err := parseDate("date", req.Date)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		date = d
	}

	e, err := h.svc.Create(r.Context(), expense.CreateParams{
		TeamID:      teamID,
		Amount:      req.Amount.Cents(),
		Description: req.Description,
		Category:    req.Category,
		Status:      req.Status,
		Date:        date,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	list, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.List(w, toResponseList(list))
}

func parseFilter(r *http.Request) (expense.ListFilter, error) {
	q := r.URL.Query()

	var filter expense.ListFilter

	if s := q.Get("team_id"); s != "" {
		id, err := team.ParseID(s)
		if err != nil {
			return filter, err
		}

		filter.TeamID = &id
	}

	if s := q.Get("category"); s != "" {
		filter.Category = new(expense.Category(s))
	}

	if s := q.Get("status"); s != "" {
		filter.Status = new(expense.Status(s))
	}

	filter.Search = strings.TrimSpace(q.Get("search"))

	if s := q.Get("start_date"); s != "" {
		t, err := parseDate("start_date", s)
		if err != nil {
			return filter, err
		}

		filter.StartDate = &t
	}

	if s := q.Get("end_date"); s != "" {
		t, err := parseDate("end_date", s)
		if err != nil {
			return filter, err
		}

		// A bare date includes the whole day.
		if len(s) == len(time.DateOnly) {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}

		filter.EndDate = &t
	}

	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		s := q.Get(name)
		if s == "" {
			continue
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			return filter, apperr.Invalid(name, "must be a whole number")
		}

		*dst = n
	}

	return filter, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := expense.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(e))
}

type updateExpenseRequest struct {
	TeamID      json.RawMessage   `json:"team_id,omitempty"`
	Amount      *money.Amount     `json:"amount,omitempty"`
	Description *string           `json:"description,omitempty"`
	Category    *expense.Category `json:"category,omitempty"`
	Status      *expense.Status   `json:"status,omitempty"`
	Date        *string           `json:"date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := expense.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateExpenseRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if req.TeamID != nil {
		respond.Error(w, r, apperr.Invalid("team_id", "cannot be changed"))
		return
	}

	params := expense.UpdateParams{
		Description: req.Description,
		Category:    req.Category,
		Status:      req.Status,
	}

	if req.Amount != nil {
		params.Amount = new(req.Amount.Cents())
	}

	if req.Date != nil {
		d, err := parseDate("date", *req.Date)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		params.Date = &d
	}

	e, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := expense.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	e, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(e))
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(field, s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	return time.Time{}, apperr.Invalid(field, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}
