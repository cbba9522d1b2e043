package tui

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/srinivasaraghavankm/beer/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {

		case domain.KindNotFound:
			switch {
			case strings.HasPrefix(oe.Op, "listing.scan"):
				return "Split directory not found"
			case strings.HasPrefix(oe.Op, "listing.read"):
				return "List files not found"
			case strings.HasPrefix(oe.Op, "prep.corpus"):
				return "Corpus not found"
			case strings.HasPrefix(oe.Op, "modelyaml"), strings.HasPrefix(oe.Op, "model."):
				return "Model config not found"
			case strings.HasPrefix(oe.Op, "workspacefinder"):
				return "Workspace not found"
			}
			return "Not found"

		case domain.KindMissingVar:
			v := extractMissingVarName(err.Error())
			if v == "" {
				return "Missing variable"
			}
			return "Missing variable " + v

		case domain.KindInvalidConfig:
			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}

			line := extractLine(err.Error())
			if line != "" {
				return "Invalid YAML at " + base + " line " + line
			}

			if looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base
			}
			return "Invalid config"

		case domain.KindExecution:
			if strings.HasPrefix(oe.Op, "gitfetch") {
				return "Clone failed (see logs)"
			}
			return "Unexpected error (see logs)"

		default:
			return "Unexpected error (see logs)"
		}
	}

	if looksLikeYAMLProblem(err.Error()) {
		line := extractLine(err.Error())
		if line != "" {
			return "Invalid YAML line " + line
		}
		return "Invalid YAML"
	}

	return "Unexpected error (see logs)"
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}

func extractMissingVarName(s string) string {
	ls := strings.ToLower(s)

	i := strings.LastIndex(ls, "missing variable:")
	if i < 0 {
		return ""
	}
	fields := strings.Fields(s[i+len("missing variable:"):])
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], " .,:;\"'")
}
