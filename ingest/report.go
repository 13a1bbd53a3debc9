package ingest

import "errors"

// ErrSourceMissing is returned by a parser whose source file or directory
// does not exist. The coordinator treats it as a warning, not a failure.
var ErrSourceMissing = errors.New("ingest: source missing")

// Report tallies the outcome of one parsing stage. Row-level and file-level
// failures are absorbed here; they never abort the stage.
type Report struct {
	Stage      string   `json:"stage"`
	Files      int      `json:"files"`
	Rows       int      `json:"rows"`
	Skipped    int      `json:"skipped"`
	FileErrors []string `json:"file_errors,omitempty"`
}

// Summary is the aggregate outcome of one LoadIfEmpty run.
type Summary struct {
	Loaded bool      `json:"loaded"`
	Stages []*Report `json:"stages,omitempty"`
}
