package history

import "time"

const SchemaVersion = 2

// Run is one recorded batch invocation. FirstIndex/LastIndex hold the
// resolved range after defaulting, so a nil "through the end" request is
// stored with the concrete final index it covered.
type Run struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	InputPath   string    `json:"input_path,omitempty"`
	OutputPath  string    `json:"output_path,omitempty"`
	FirstIndex  int       `json:"first_index"`
	LastIndex   int       `json:"last_index"`
	Attempted   int       `json:"attempted"`
	Succeeded   int       `json:"succeeded"`
	SuccessRate float64   `json:"success_rate"`
	Interrupted bool      `json:"interrupted"`
}
