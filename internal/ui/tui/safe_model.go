package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const crashNotice = "beerprep hit an internal error; listings from an interrupted prep may be partial (see .beerprep/logs)"

// safeModel keeps a panic in the menu, a prep run or the model summary from
// tearing down the terminal. The model falls back to the home screen.
type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd { return s.m.Init() }

func (s safeModel) Update(msg tea.Msg) (out tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.report("update", r, "msg", fmt.Sprintf("%T", msg))
			s.m = s.m.recovered()
			out, cmd = s, nil
		}
	}()

	next, c := s.m.Update(msg)
	switch v := next.(type) {
	case model:
		s.m = v
	case safeModel:
		s = v
	}
	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.report("view", r)
			out = crashNotice
		}
	}()
	return s.m.View()
}

func (s safeModel) report(phase string, r any, attrs ...any) {
	args := append([]any{
		"phase", phase,
		"screen", s.m.scr,
		"prep_running", s.m.running,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	}, attrs...)
	s.log.Error("tui.panic", args...)
}

// recovered returns the model reset to the home screen with any in-flight
// prep marked as finished.
func (m model) recovered() model {
	m.scr = screenHome
	m.running = false
	m.toast = crashNotice
	return m
}

var _ tea.Model = safeModel{}
