package tui

import (
	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/usecase"
)

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type statusLoadedMsg struct {
	dataDir string
	rows    []usecase.SplitStatus
}

type modelSummaryMsg struct {
	path    string
	summary usecase.ModelSummary
	err     error
}

type prepDoneMsg struct {
	res domain.PrepResult
	id  string
	err error
}
