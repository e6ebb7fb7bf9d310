/*
handlers.go - HTTP API handlers for the limit tracking service

PURPOSE:
  Exposes the tracking engine via REST. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Limits:
    GET    /api/limits                 List limits (optional ?category=)
    POST   /api/limits                 Create limit
    GET    /api/limits/{id}            Get limit details
    PUT    /api/limits/{id}            Edit name/quota/units/icon
    DELETE /api/limits/{id}            Delete limit (cascades)

  Logging & progress:
    POST   /api/limits/{id}/logs       Append a consumption delta
    GET    /api/limits/{id}/progress   Derived figures (optional ?day=)

  Game:
    GET    /api/game                   Aggregate mood, score, clean time
    POST   /api/game/clean-date        Reset the global clean date

  Portability:
    POST   /api/export                 Encrypted archive of selected limits
    POST   /api/import                 Restore limits from an archive

REQUEST FLOW:
  1. Parse and validate input
  2. Load the collection from the repository
  3. Apply domain logic
  4. Persist mutations (best effort, no rollback)
  5. Serialize response

ERROR HANDLING:
  - 400: Validation errors, invalid input
  - 404: Limit not found
  - 409: Duplicate name
  - 500: Storage failures
*/
package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/greenclean/serene/portability"
	"github.com/greenclean/serene/tracking"
)

const dayLayout = "2006-01-02"

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Repo tracking.Repository

	// now is swappable for tests.
	now func() time.Time
}

// NewHandler creates a handler backed by the given repository.
func NewHandler(repo tracking.Repository) *Handler {
	return &Handler{Repo: repo, now: time.Now}
}

func (h *Handler) loadCollection(w http.ResponseWriter, r *http.Request) (*tracking.Collection, bool) {
	c, err := tracking.LoadCollection(r.Context(), h.Repo)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load limits", err)
		return nil, false
	}
	return c, true
}

// =============================================================================
// LIMIT HANDLERS
// =============================================================================

// ListLimits returns all limits, optionally filtered by category.
// GET /api/limits?category=drug
func (h *Handler) ListLimits(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCollection(w, r)
	if !ok {
		return
	}

	limits := c.Limits
	if tag := r.URL.Query().Get("category"); tag != "" {
		category, err := tracking.ParseCategory(tag)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid category", err)
			return
		}
		limits = c.ByCategory(category)
	}

	dtos := make([]LimitDTO, len(limits))
	for i, l := range limits {
		dtos[i] = toLimitDTO(l)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLimit creates a new limit.
// POST /api/limits
func (h *Handler) CreateLimit(w http.ResponseWriter, r *http.Request) {
	var req CreateLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	category, err := tracking.ParseCategory(req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category", err)
		return
	}
	timing, err := tracking.ParseTiming(req.Timing)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timing", err)
		return
	}
	quota, err := decimal.NewFromString(req.Quota)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quota", err)
		return
	}

	limit, err := tracking.NewLimit(req.Name, category, req.UnitsName, quota, timing, h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid limit", err)
		return
	}
	limit.IconName = req.IconName

	c, ok := h.loadCollection(w, r)
	if !ok {
		return
	}

	// Uniqueness runs before any persistence write.
	if err := c.Add(limit); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.Repo.SaveLimit(r.Context(), limit); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save limit", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLimitDTO(limit))
}

// GetLimit returns a single limit.
// GET /api/limits/{id}
func (h *Handler) GetLimit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCollection(w, r)
	if !ok {
		return
	}

	limit, found := c.FindByID(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "Limit not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toLimitDTO(limit))
}

// UpdateLimit edits a limit's name, quota, units name, or icon.
// PUT /api/limits/{id}
func (h *Handler) UpdateLimit(w http.ResponseWriter, r *http.Request) {
	var req UpdateLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, ok := h.loadCollection(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	limit, found := c.FindByID(id)
	if !found {
		writeError(w, http.StatusNotFound, "Limit not found", nil)
		return
	}

	if req.Name != "" {
		if err := c.Rename(id, req.Name); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	if req.Quota != "" {
		quota, err := decimal.NewFromString(req.Quota)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid quota", err)
			return
		}
		if err := limit.SetQuota(quota); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	if req.UnitsName != "" {
		limit.UnitsName = req.UnitsName
	}
	if req.IconName != "" {
		limit.IconName = req.IconName
	}

	if err := h.Repo.SaveLimit(r.Context(), limit); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save limit", err)
		return
	}
	writeJSON(w, http.StatusOK, toLimitDTO(limit))
}

// DeleteLimit removes a limit with all of its day ledgers and logs.
// DELETE /api/limits/{id}
func (h *Handler) DeleteLimit(w http.ResponseWriter, r *http.Request) {
	err := h.Repo.DeleteLimit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LOG & PROGRESS HANDLERS
// =============================================================================

// AppendLog records a consumption delta against a day's ledger.
// POST /api/limits/{id}/logs
func (h *Handler) AppendLog(w http.ResponseWriter, r *http.Request) {
	var req AppendLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	c, ok := h.loadCollection(w, r)
	if !ok {
		return
	}
	limit, found := c.FindByID(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "Limit not found", nil)
		return
	}

	now := h.now()
	day := now
	if req.Day != "" {
		day, err = time.ParseInLocation(dayLayout, req.Day, now.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid day", err)
			return
		}
	}

	if req.Reduce {
		// FindDay, not DayFor: a clamp computation must not lazily create
		// a ledger that is never persisted.
		total := decimal.Zero
		if ledger, found := limit.FindDay(day); found {
			total = ledger.UnitsLogged()
		}
		amount = tracking.ReductionDelta(total, amount)
	}

	entry := tracking.NewLogEntry(amount, now)
	entry.PhotoRef = req.PhotoRef
	if req.Location != nil {
		entry.Location = &tracking.Coordinate{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
		}
	}

	appended := limit.AppendLog(day, entry)
	if appended == nil {
		// Zero amount: nothing recorded, nothing saved, no ledger created.
		// Respond with a transient view of the day instead.
		ledger, found := limit.FindDay(day)
		if !found {
			ledger = tracking.NewDay(day, limit.Quota)
		}
		writeJSON(w, http.StatusOK, toProgressDTO(limit, ledger, now))
		return
	}

	if err := h.Repo.SaveLimit(r.Context(), limit); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save limit", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProgressDTO(limit, limit.DayFor(day), now))
}

// GetProgress returns all derived figures for a day.
// GET /api/limits/{id}/progress?day=2025-03-01
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCollection(w, r)
	if !ok {
		return
	}
	limit, found := c.FindByID(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "Limit not found", nil)
		return
	}

	now := h.now()
	day := now
	if q := r.URL.Query().Get("day"); q != "" {
		parsed, err := time.ParseInLocation(dayLayout, q, now.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid day", err)
			return
		}
		day = parsed
	}

	ledger, existed := limit.FindDay(day)
	if !existed {
		// Reading a fresh day lazily creates its ledger, which is a write.
		ledger = limit.DayFor(day)
		if err := h.Repo.SaveLimit(r.Context(), limit); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save limit", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, toProgressDTO(limit, ledger, now))
}

// =============================================================================
// GAME HANDLERS
// =============================================================================

// GetGame returns the aggregate mood, score, and clean time.
// GET /api/game
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCollection(w, r)
	if !ok {
		return
	}

	now := h.now()
	dto := GameDTO{
		Mood:        string(c.GameMood(now)),
		Score:       c.GameScore(now),
		ScoreString: c.GameScoreString(now),
		CleanTime:   c.CleanTimeString(now),
	}
	if date, has := c.CleanDate(); has {
		dto.CleanDate = date.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, dto)
}

// ResetCleanDate moves the global clean marker.
// POST /api/game/clean-date
func (h *Handler) ResetCleanDate(w http.ResponseWriter, r *http.Request) {
	var req ResetCleanDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	now := h.now()
	date := now
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
		date = parsed
	}

	c, ok := h.loadCollection(w, r)
	if !ok {
		return
	}
	if err := c.ResetCleanDate(date, now); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.Repo.AppendCleanDate(r.Context(), date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save clean date", err)
		return
	}
	writeJSON(w, http.StatusOK, GameDTO{
		Mood:        string(c.GameMood(now)),
		Score:       c.GameScore(now),
		ScoreString: c.GameScoreString(now),
		CleanDate:   date.Format(time.RFC3339),
		CleanTime:   c.CleanTimeString(now),
	})
}

// =============================================================================
// PORTABILITY HANDLERS
// =============================================================================

// ExportLimits returns an encrypted archive of the selected limits.
// POST /api/export
func (h *Handler) ExportLimits(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, ok := h.loadCollection(w, r)
	if !ok {
		return
	}

	selected := c.Limits
	if len(req.LimitIDs) > 0 {
		selected = nil
		for _, id := range req.LimitIDs {
			limit, found := c.FindByID(id)
			if !found {
				writeError(w, http.StatusNotFound, "Limit not found", errors.New(id))
				return
			}
			selected = append(selected, limit)
		}
	}

	data, err := portability.Export(selected, req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Export failed", err)
		return
	}
	writeJSON(w, http.StatusOK, ExportResponse{
		FileName: "limits" + portability.FileExtension,
		Data:     base64.StdEncoding.EncodeToString(data),
	})
}

// ImportLimits restores limits from an encrypted archive. Name collisions
// are skipped, not overwritten.
// POST /api/import
func (h *Handler) ImportLimits(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid archive encoding", err)
		return
	}

	imported, err := portability.Import(raw, req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Import failed", err)
		return
	}

	c, ok := h.loadCollection(w, r)
	if !ok {
		return
	}

	var resp ImportResponse
	for _, limit := range imported {
		if err := c.Add(limit); err != nil {
			resp.Skipped = append(resp.Skipped, limit.Name)
			continue
		}
		if err := h.Repo.SaveLimit(r.Context(), limit); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save imported limit", err)
			return
		}
		resp.Imported = append(resp.Imported, limit.Name)
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func toLimitDTO(l *tracking.Limit) LimitDTO {
	return LimitDTO{
		ID:           l.ID,
		Name:         l.Name,
		Category:     l.Category.String(),
		UnitsName:    l.UnitsName,
		Quota:        l.Quota.String(),
		Timing:       l.Timing.String(),
		IconName:     l.IconName,
		CreationDate: l.CreationDate.Format(time.RFC3339),
		DayCount:     len(l.Days),
	}
}

func toProgressDTO(l *tracking.Limit, day *tracking.Day, now time.Time) ProgressDTO {
	period := l.Timing.PeriodFor(day.Date)

	logs := make([]LogEntryDTO, len(day.Logs))
	for i, entry := range day.Logs {
		logs[i] = LogEntryDTO{
			ID:       entry.ID,
			Amount:   entry.Amount.String(),
			At:       entry.At.Format(time.RFC3339),
			PhotoRef: entry.PhotoRef,
		}
		if entry.Location != nil {
			logs[i].Location = &CoordinateDTO{
				Latitude:  entry.Location.Latitude,
				Longitude: entry.Location.Longitude,
			}
		}
	}

	dto := ProgressDTO{
		Day:              day.Date.Format(dayLayout),
		UnitsLogged:      day.UnitsLogged().String(),
		UnitsRemaining:   l.UnitsRemaining(day).String(),
		ProgressRatio:    l.ProgressRatio(day).String(),
		ProgressPercent:  l.ProgressPercentString(day),
		Status:           string(l.StatusForDay(day)),
		ProgressString:   l.ProgressString(day),
		PeriodStart:      period.Start.Format(dayLayout),
		PeriodEnd:        period.End.Format(dayLayout),
		Logs:             logs,
		DaysSinceRelapse: l.DaysSinceRelapse(day),
		PointsForDay:     l.PointsForDay(day, now).String(),
		TotalPoints:      l.TotalPoints(now).String(),
	}
	if relapse, has := l.LastOverLimitDate(day); has {
		dto.LastRelapseDate = relapse.Format(dayLayout)
	}
	return dto
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracking.ErrDuplicateName):
		writeError(w, http.StatusConflict, "Duplicate limit name", err)
	case tracking.IsValidation(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	case tracking.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Limit not found", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
