package protocol

import (
	"strings"
	"time"
)

const (
	ResultStatusPending  = "pending"
	ResultStatusComplete = "complete"
	ResultStatusError    = "error"
)

func NormalizeResultStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

func IsTerminalResultStatus(status string) bool {
	switch NormalizeResultStatus(status) {
	case ResultStatusComplete, ResultStatusError:
		return true
	default:
		return false
	}
}

// StatusForResult derives the stored status of a completed upload.
func StatusForResult(rs ResultSet) string {
	if strings.TrimSpace(rs.ErrorMessage) != "" {
		return ResultStatusError
	}
	return ResultStatusComplete
}

type ResultRecord struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Submitter  string    `json:"submitter,omitempty"`
	CreatedUTC time.Time `json:"created_utc"`
	UpdatedUTC time.Time `json:"updated_utc"`
	Result     ResultSet `json:"result"`
}

type ResultSummary struct {
	ID              string    `json:"id"`
	Status          string    `json:"status"`
	Submitter       string    `json:"submitter,omitempty"`
	StudentFilename string    `json:"student_filename,omitempty"`
	Score           *float64  `json:"score,omitempty"`
	MaxScore        *float64  `json:"max_score,omitempty"`
	UpdatedUTC      time.Time `json:"updated_utc"`
}

func SummarizeResult(rec ResultRecord) ResultSummary {
	return ResultSummary{
		ID:              rec.ID,
		Status:          rec.Status,
		Submitter:       rec.Submitter,
		StudentFilename: rec.Result.StudentFilename,
		Score:           rec.Result.Score,
		MaxScore:        rec.Result.MaxScore,
		UpdatedUTC:      rec.UpdatedUTC,
	}
}
