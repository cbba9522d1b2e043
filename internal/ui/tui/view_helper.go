package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/usecase"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func renderStatus(t Theme, dataDir string, rows []usecase.SplitStatus) string {
	var b strings.Builder
	b.WriteString("Data dir: ")
	b.WriteString(dataDir)
	b.WriteString("\n\n")

	if len(rows) == 0 {
		b.WriteString("(no splits configured)\n")
		return b.String()
	}

	for _, r := range rows {
		switch {
		case r.Err != nil:
			b.WriteString(t.Broken.Render(fmt.Sprintf("  ✗ %-8s %s", r.Split, userMessage(r.Err))))
		case r.Staged:
			b.WriteString(t.Staged.Render(fmt.Sprintf("  ✓ %-8s %d utterances", r.Split, r.Utterances)))
		default:
			b.WriteString(t.Unstaged.Render(fmt.Sprintf("  · %-8s not staged", r.Split)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderPrep(res domain.PrepResult, id string) string {
	var b strings.Builder

	action := "reused"
	if res.Cloned {
		action = "cloned"
	}
	fmt.Fprintf(&b, "Corpus: %s (%s)\n\n", res.CorpusDir, action)
	for _, s := range res.Splits {
		fmt.Fprintf(&b, "  - %-8s %d utterances\n", s.Split, s.Utterances)
	}
	fmt.Fprintf(&b, "\nTotal: %d utterances in %s\n", res.TotalUtterances(), res.Duration().Round(time.Millisecond))
	if id != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", id)
	}
	return b.String()
}

func renderSummary(s usecase.ModelSummary) string {
	var b strings.Builder
	if s.Name != "" {
		fmt.Fprintf(&b, "Model: %s\n\n", s.Name)
	}

	width := len("layer")
	for _, l := range s.Layers {
		if n := utf8.RuneCountInString(l.Name); n > width {
			width = n
		}
	}
	for _, l := range s.Layers {
		fmt.Fprintf(&b, "  %-*s %5d → %-5d %-9s %d\n", width, l.Name, l.In, l.Out, l.Activation, l.Params())
	}
	fmt.Fprintf(&b, "\nParameters: %d\n", s.Params)
	return b.String()
}
