package domain

import (
	"fmt"
	"time"
)

const PopulateSuccessMessage = "Database populated successfully"

// PopulateResult is the summary returned by a successful population run.
type PopulateResult struct {
	Message     string `json:"message"`
	GamesCount  int    `json:"gamesCount"`
	TimeElapsed string `json:"timeElapsed"`
}

// PopulateError reports a failed population run together with the time it took.
type PopulateError struct {
	Err     error
	Elapsed time.Duration
}

func (e *PopulateError) Error() string {
	return fmt.Sprintf("populate games: %v", e.Err)
}

func (e *PopulateError) Unwrap() error {
	return e.Err
}

// Details returns the underlying failure text, without the populate prefix.
func (e *PopulateError) Details() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *PopulateError) TimeElapsed() string {
	return FormatElapsed(e.Elapsed)
}

// FormatElapsed renders a duration as whole milliseconds, e.g. "42ms".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// PopulationRun is the ledger entry written for every populate attempt.
type PopulationRun struct {
	ID         int64     `db:"id" json:"id"`
	Status     RunStatus `db:"status" json:"status"`
	GamesCount int       `db:"games_count" json:"gamesCount"`
	DurationMs int64     `db:"duration_ms" json:"durationMs"`
	Error      *string   `db:"error" json:"error,omitempty"`
	StartedAt  time.Time `db:"started_at" json:"startedAt"`
}
