package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// WavExt is the extension of the audio files listed in wavs.scp.
const WavExt = ".wav"

// Names of the two list files written per split.
const (
	ScpFile    = "wavs.scp"
	UttIDsFile = "uttids"
)

// CorpusSpec describes where the corpus is cloned from and how it is laid out.
// Dir is relative to the data directory; SplitsDir is relative to Dir.
type CorpusSpec struct {
	URL       string
	Dir       string
	SplitsDir string
	Splits    []string
}

// Validate checks that s can drive a staging run.
func (s CorpusSpec) Validate() error {
	switch {
	case strings.TrimSpace(s.URL) == "":
		return invalidSpec("corpus.url", "url is required")
	case strings.TrimSpace(s.Dir) == "":
		return invalidSpec("corpus.dir", "dir is required")
	case len(s.Splits) == 0:
		return invalidSpec("corpus.splits", "at least one split is required")
	}

	seen := map[string]bool{}
	for i, sp := range s.Splits {
		name := strings.TrimSpace(sp)
		field := fmt.Sprintf("corpus.splits[%d]", i)
		if name == "" {
			return invalidSpec(field, "split name is empty")
		}
		if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return invalidSpec(field, fmt.Sprintf("split %q must be a plain directory name", name))
		}
		if seen[name] {
			return invalidSpec(field, fmt.Sprintf("duplicate split %q", name))
		}
		seen[name] = true
	}
	return nil
}

// Utterance is one entry of a wavs.scp file.
type Utterance struct {
	ID   string
	Path string
}

// Line renders the utterance as a wavs.scp line (without newline).
func (u Utterance) Line() string {
	return u.ID + " " + u.Path
}

// UttIDFromPath derives the utterance id from a wav path: the basename
// with the .wav extension stripped.
func UttIDFromPath(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, WavExt)
}

// ValidateUttID rejects ids that cannot round-trip through a scp line:
// empty ids and ids containing whitespace.
func ValidateUttID(id string) error {
	if id == "" {
		return errors.New("empty utterance id")
	}
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return fmt.Errorf("utterance id %q contains whitespace", id)
	}
	return nil
}

// ParseScpLine parses "<uttid> <path>". The path may contain spaces.
func ParseScpLine(line string) (Utterance, error) {
	line = strings.TrimRight(line, "\r\n")
	id, path, ok := strings.Cut(line, " ")
	if !ok || id == "" || strings.TrimSpace(path) == "" {
		return Utterance{}, fmt.Errorf("malformed scp line %q", line)
	}
	return Utterance{ID: id, Path: path}, nil
}

// SplitListing is the sorted, deduplicated set of utterances of one split.
type SplitListing struct {
	Split      string
	Utterances []Utterance
}

// NewListing builds a listing from wav paths. Lines are sorted in byte
// order and identical lines are dropped.
func NewListing(split string, wavPaths []string) SplitListing {
	utts := make([]Utterance, 0, len(wavPaths))
	for _, p := range wavPaths {
		utts = append(utts, Utterance{ID: UttIDFromPath(p), Path: p})
	}
	sort.Slice(utts, func(i, j int) bool {
		return utts[i].Line() < utts[j].Line()
	})

	out := SplitListing{Split: split, Utterances: make([]Utterance, 0, len(utts))}
	for i, u := range utts {
		if i > 0 && u.Line() == utts[i-1].Line() {
			continue
		}
		out.Utterances = append(out.Utterances, u)
	}
	return out
}

// Len returns the number of utterances.
func (l SplitListing) Len() int {
	return len(l.Utterances)
}

// ScpContent renders wavs.scp.
func (l SplitListing) ScpContent() string {
	var b strings.Builder
	for _, u := range l.Utterances {
		b.WriteString(u.Line())
		b.WriteByte('\n')
	}
	return b.String()
}

// UttIDsContent renders uttids: the first column of wavs.scp, same order.
func (l SplitListing) UttIDsContent() string {
	var b strings.Builder
	for _, u := range l.Utterances {
		b.WriteString(u.ID)
		b.WriteByte('\n')
	}
	return b.String()
}

// IDs returns the utterance ids in listing order.
func (l SplitListing) IDs() []string {
	out := make([]string, 0, len(l.Utterances))
	for _, u := range l.Utterances {
		out = append(out, u.ID)
	}
	return out
}

func invalidSpec(field, msg string) error {
	return &OpError{
		Op:   "corpus.validate",
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, ErrInvalidConfig),
	}
}

var errEmptyListing = errors.New("listing has no utterances")

// RequireUtterances returns an error when the listing is empty.
func (l SplitListing) RequireUtterances() error {
	if len(l.Utterances) == 0 {
		return &OpError{
			Op:   "corpus.listing",
			Kind: KindNotFound,
			Err:  fmt.Errorf("split %s: %w", l.Split, errEmptyListing),
		}
	}
	return nil
}
