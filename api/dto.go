/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the tracking domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

Amounts travel as decimal strings in both directions so clients never see
floating-point drift.
*/
package api

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// LIMITS
// =============================================================================

// LimitDTO represents a limit in API responses.
type LimitDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	UnitsName    string `json:"units_name"`
	Quota        string `json:"quota"`
	Timing       string `json:"timing"`
	IconName     string `json:"icon_name,omitempty"`
	CreationDate string `json:"creation_date"`
	DayCount     int    `json:"day_count"`
}

// CreateLimitRequest is the request to create a limit.
type CreateLimitRequest struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	UnitsName string `json:"units_name"`
	Quota     string `json:"quota"`
	Timing    string `json:"timing"`
	IconName  string `json:"icon_name"`
}

// UpdateLimitRequest edits a limit. Empty fields are left unchanged.
type UpdateLimitRequest struct {
	Name      string `json:"name,omitempty"`
	Quota     string `json:"quota,omitempty"`
	UnitsName string `json:"units_name,omitempty"`
	IconName  string `json:"icon_name,omitempty"`
}

// =============================================================================
// LOGS
// =============================================================================

// CoordinateDTO is an optional geolocation on a log entry.
type CoordinateDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AppendLogRequest records a signed consumption delta. Day defaults to the
// current day when omitted. Reduce marks the amount as a reduction request
// to be clamped against the day's running total.
type AppendLogRequest struct {
	Amount   string         `json:"amount"`
	Day      string         `json:"day,omitempty"` // 2006-01-02
	Reduce   bool           `json:"reduce,omitempty"`
	PhotoRef string         `json:"photo_ref,omitempty"`
	Location *CoordinateDTO `json:"location,omitempty"`
}

// LogEntryDTO represents one log entry in API responses.
type LogEntryDTO struct {
	ID       string         `json:"id"`
	Amount   string         `json:"amount"`
	At       string         `json:"at"`
	PhotoRef string         `json:"photo_ref,omitempty"`
	Location *CoordinateDTO `json:"location,omitempty"`
}

// =============================================================================
// PROGRESS & STREAK
// =============================================================================

// ProgressDTO is the derived standing of one limit on one day.
type ProgressDTO struct {
	Day              string        `json:"day"`
	UnitsLogged      string        `json:"units_logged"`
	UnitsRemaining   string        `json:"units_remaining"`
	ProgressRatio    string        `json:"progress_ratio"`
	ProgressPercent  string        `json:"progress_percent"`
	Status           string        `json:"status"`
	ProgressString   string        `json:"progress_string"`
	PeriodStart      string        `json:"period_start"`
	PeriodEnd        string        `json:"period_end"`
	Logs             []LogEntryDTO `json:"logs"`
	DaysSinceRelapse int           `json:"days_since_relapse"`
	LastRelapseDate  string        `json:"last_relapse_date,omitempty"`
	PointsForDay     string        `json:"points_for_day"`
	TotalPoints      string        `json:"total_points"`
}

// =============================================================================
// GAME
// =============================================================================

// GameDTO is the aggregate status across all limits.
type GameDTO struct {
	Mood        string `json:"mood"`
	Score       int64  `json:"score"`
	ScoreString string `json:"score_string"`
	CleanDate   string `json:"clean_date,omitempty"`
	CleanTime   string `json:"clean_time,omitempty"`
}

// ResetCleanDateRequest moves the global clean marker.
type ResetCleanDateRequest struct {
	Date string `json:"date"` // RFC 3339; empty means now
}

// =============================================================================
// EXPORT / IMPORT
// =============================================================================

// ExportRequest selects limits for an encrypted archive. Empty IDs means
// all limits.
type ExportRequest struct {
	LimitIDs []string `json:"limit_ids,omitempty"`
	Password string   `json:"password"`
}

// ExportResponse carries the archive as base64.
type ExportResponse struct {
	FileName string `json:"file_name"`
	Data     string `json:"data"`
}

// ImportRequest restores limits from an archive. Limits whose names
// collide with existing ones are skipped and reported.
type ImportRequest struct {
	Data     string `json:"data"` // base64 archive
	Password string `json:"password"`
}

// ImportResponse reports what was restored.
type ImportResponse struct {
	Imported []string `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}
