package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/usecase"
)

// prepTimeout bounds a staging run started from the TUI; the clone itself
// is further bounded by the configured clone timeout.
const prepTimeout = 2 * time.Hour

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		return workspaceRefreshedMsg{cwd: wd, found: true, root: root, err: nil}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := usecase.NewInitWorkspace(deps.WorkspaceInitializer).Execute(root, false)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

func cmdLoadStatus(deps Deps) tea.Cmd {
	return func() tea.Msg {
		rows := usecase.NewStatus(deps.Listings).Execute(deps.DataDir, deps.Config.Corpus.Splits)
		return statusLoadedMsg{dataDir: deps.DataDir, rows: rows}
	}
}

func cmdSummarizeModel(deps Deps) tea.Cmd {
	return func() tea.Msg {
		uc := usecase.NewModelConfigs(deps.ModelLoader, deps.ModelRenderer)
		s, err := uc.Summarize(deps.ModelPath, nil)
		return modelSummaryMsg{path: deps.ModelPath, summary: s, err: err}
	}
}

func listenPrep(ch <-chan prepDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return prepDoneMsg{err: errors.New("prep channel closed")}
		}
		return msg
	}
}

// startPrepAsync runs the staging use case off the UI goroutine and
// delivers its outcome as a prepDoneMsg.
func startPrepAsync(deps Deps) (chan prepDoneMsg, tea.Cmd) {
	ch := make(chan prepDoneMsg, 1)

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	go func() {
		defer close(ch)

		log.Info("tui.prep.start", "data_dir", deps.DataDir, "debug", deps.Debug)

		uc := usecase.NewPrepareCorpus(deps.Fetcher, deps.Listings, deps.Store, usecase.WithLogger(log))

		ctx, cancel := context.WithTimeout(context.Background(), prepTimeout)
		defer cancel()

		res, id, err := uc.Execute(ctx, deps.DataDir, deps.Config.Corpus)
		if err != nil {
			log.Error("tui.prep.failed", "err", err, "kind", string(domain.KindOf(err)))
		} else {
			log.Info("tui.prep.ok", "saved_id", id, "utterances", res.TotalUtterances())
		}

		ch <- prepDoneMsg{res: res, id: id, err: err}
	}()

	return ch, listenPrep(ch)
}
