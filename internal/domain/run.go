package domain

import "time"

// SplitResult is the outcome of writing the listing of one split.
type SplitResult struct {
	Split      string `json:"split"`
	Source     string `json:"source"`
	Utterances int    `json:"utterances"`
	ScpPath    string `json:"scp_path"`
	UttIDsPath string `json:"uttids_path"`
}

// PrepResult is the outcome of one staging run.
type PrepResult struct {
	DataDir   string `json:"data_dir"`
	CorpusDir string `json:"corpus_dir"`
	CorpusURL string `json:"corpus_url"`

	// Cloned is false when the corpus directory already existed.
	Cloned bool `json:"cloned"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	Splits []SplitResult `json:"splits"`
}

// TotalUtterances sums the utterance counts of all splits.
func (r PrepResult) TotalUtterances() int {
	n := 0
	for _, s := range r.Splits {
		n += s.Utterances
	}
	return n
}

// Duration is the wall time of the run, or 0 when timestamps are missing.
func (r PrepResult) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// PrepArtifact is what gets persisted for a staging run.
type PrepArtifact struct {
	ID string `json:"id"`
	PrepResult
}
