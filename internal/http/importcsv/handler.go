package importcsv

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/encoding"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/http/respond"
	"github.com/MrJamesThe3rd/teamspend/internal/importer"
	"github.com/MrJamesThe3rd/teamspend/internal/money"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	teamSvc   *team.Service
}

func NewHandler(importSvc *importer.Service, teamSvc *team.Service) *Handler {
	return &Handler{importSvc: importSvc, teamSvc: teamSvc}
}

// Routes mounts under /teams.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/{id}/import", h.importCSV)
}

type expenseResponse struct {
	ID          uuid.UUID        `json:"id"`
	Amount      money.Amount     `json:"amount"`
	Description string           `json:"description"`
	Category    expense.Category `json:"category"`
	Status      expense.Status   `json:"status"`
	Date        time.Time        `json:"date"`
}

type importResponse struct {
	Profile    string            `json:"profile"`
	Charset    encoding.Charset  `json:"charset"`
	Imported   int               `json:"imported"`
	Expenses   []expenseResponse `json:"expenses"`
	Duplicates []importer.Issue  `json:"duplicates"`
	Failed     []importer.Issue  `json:"failed"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	teamID, err := team.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if _, err := h.teamSvc.Get(r.Context(), teamID); err != nil {
		respond.Error(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, r, apperr.Invalid("file", "failed to parse form: %v", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, apperr.Invalid("file", "is required"))
		return
	}
	defer file.Close()

	res, err := h.importSvc.Import(r.Context(), teamID, file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	status := http.StatusOK
	if len(res.Created) > 0 {
		status = http.StatusCreated
	}

	respond.JSON(w, status, toImportResponse(res))
}

func toImportResponse(res *importer.Result) importResponse {
	resp := importResponse{
		Profile:    res.Profile,
		Charset:    res.Charset,
		Imported:   len(res.Created),
		Expenses:   make([]expenseResponse, 0, len(res.Created)),
		Duplicates: nonNil(res.Duplicates),
		Failed:     nonNil(res.Failed),
	}

	for _, e := range res.Created {
		resp.Expenses = append(resp.Expenses, expenseResponse{
			ID:          e.ID,
			Amount:      money.Amount(e.Amount),
			Description: e.Description,
			Category:    e.Category,
			Status:      e.Status,
			Date:        e.Date,
		})
	}

	return resp
}

func nonNil(issues []importer.Issue) []importer.Issue {
	if issues == nil {
		return []importer.Issue{}
	}

	return issues
}
