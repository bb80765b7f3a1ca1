package export

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/export"
	"github.com/MrJamesThe3rd/teamspend/internal/http/respond"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts under /teams.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}/report", h.report)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	id, err := team.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	period, err := parsePeriod(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	if format != "csv" && format != "text" {
		respond.Error(w, r, apperr.Invalid("format", "must be csv or text"))
		return
	}

	rep, err := h.svc.Report(r.Context(), id, period)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if format == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if _, err := io.WriteString(w, rep.Summary()); err != nil {
			slog.Error("failed to write report", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", rep.Filename()))

	if err := rep.WriteCSV(w); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}

func parsePeriod(r *http.Request) (export.Period, error) {
	var p export.Period

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return p, apperr.Invalid("start_date", "must be a date (YYYY-MM-DD)")
		}

		p.Start = &t
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return p, apperr.Invalid("end_date", "must be a date (YYYY-MM-DD)")
		}

		p.End = new(t.AddDate(0, 0, 1).Add(-time.Nanosecond))
	}

	return p, nil
}
