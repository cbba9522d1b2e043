package usecase

import (
	"path/filepath"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/ports"
)

// SplitStatus describes what is staged for one split.
type SplitStatus struct {
	Split      string
	Dir        string
	Staged     bool
	Utterances int
	Err        error // set when list files exist but cannot be read
}

type Status struct {
	listings ports.ListingStore
}

func NewStatus(ls ports.ListingStore) *Status {
	return &Status{listings: ls}
}

// Execute reads the listings of every split under dataDir. A split with no
// list files is reported as not staged rather than as an error.
func (uc *Status) Execute(dataDir string, splits []string) []SplitStatus {
	out := make([]SplitStatus, 0, len(splits))
	for _, split := range splits {
		dir := filepath.Join(dataDir, split)
		st := SplitStatus{Split: split, Dir: dir}

		l, err := uc.listings.Read(dir, split)
		switch {
		case err == nil:
			st.Staged = true
			st.Utterances = l.Len()
		case domain.IsKind(err, domain.KindNotFound):
		default:
			st.Err = err
		}
		out = append(out, st)
	}
	return out
}
