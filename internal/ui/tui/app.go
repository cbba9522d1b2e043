package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/usecase"
)

type screen int

const (
	screenHome screen = iota
	screenStatus
	screenPrep
	screenModel
)

const (
	actionPrep   = "Prepare corpus"
	actionStatus = "Status"
	actionModel  = "Model summary"
	actionInit   = "Init workspace"
	actionQuit   = "Quit"
)

type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type model struct {
	theme Theme
	deps  Deps

	scr     screen
	menu    list.Model
	spinner spinner.Model

	workspaceFound bool
	workspaceRoot  string
	cwd            string

	running bool
	prep    *prepDoneMsg

	status  []usecase.SplitStatus
	summary *modelSummaryMsg

	toast string
}

func Run(deps Deps) error {
	m := wrapSafe(newModel(deps), deps.Logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	items := []list.Item{
		menuItem{actionPrep, "Clone the corpus if needed and write wavs.scp/uttids"},
		menuItem{actionStatus, "Show staged splits and utterance counts"},
		menuItem{actionModel, "Layer shapes and parameter estimate of the model config"},
		menuItem{actionInit, "Create beerprep.yaml and templates here"},
		menuItem{actionQuit, "Exit beerprep"},
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "beerprep"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		theme:   t,
		deps:    deps,
		scr:     screenHome,
		menu:    l,
		spinner: sp,
	}
}

func (m model) Init() tea.Cmd {
	return cmdRefreshWorkspace(m.deps)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.menu.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case workspaceRefreshedMsg:
		m.cwd = msg.cwd
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		return m, nil

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.toast = "Init failed: " + userMessage(msg.err)
			return m, nil
		}
		m.toast = "Workspace initialized at " + msg.root
		return m, cmdRefreshWorkspace(m.deps)

	case statusLoadedMsg:
		m.status = msg.rows
		return m, nil

	case modelSummaryMsg:
		m.summary = &msg
		return m, nil

	case prepDoneMsg:
		m.running = false
		m.prep = &msg
		if msg.err != nil {
			m.toast = "Prep failed: " + userMessage(msg.err)
		} else {
			m.toast = fmt.Sprintf("Staged %d utterances", msg.res.TotalUtterances())
		}
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.scr == screenHome {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "q":
		if m.scr == screenHome {
			return m, tea.Quit
		}
		if !m.running {
			m.scr = screenHome
		}
		return m, nil

	case "esc", "b":
		if m.scr != screenHome && !m.running {
			m.scr = screenHome
			return m, nil
		}

	case "r":
		switch m.scr {
		case screenStatus:
			return m, cmdLoadStatus(m.deps)
		case screenModel:
			return m, cmdSummarizeModel(m.deps)
		}

	case "enter":
		if m.scr == screenHome {
			it, ok := m.menu.SelectedItem().(menuItem)
			if !ok {
				return m, nil
			}
			return m.open(it.title)
		}
	}

	if m.scr == screenHome {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) open(action string) (tea.Model, tea.Cmd) {
	m.toast = ""
	switch action {
	case actionQuit:
		return m, tea.Quit

	case actionStatus:
		m.scr = screenStatus
		return m, cmdLoadStatus(m.deps)

	case actionModel:
		m.scr = screenModel
		m.summary = nil
		return m, cmdSummarizeModel(m.deps)

	case actionInit:
		root := m.cwd
		if root == "" {
			root = "."
		}
		return m, cmdInitWorkspaceHere(m.deps, root)

	case actionPrep:
		m.scr = screenPrep
		if m.running {
			return m, nil
		}
		m.running = true
		m.prep = nil
		_, listen := startPrepAsync(m.deps)
		return m, tea.Batch(listen, m.spinner.Tick)
	}
	return m, nil
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("beerprep") + "\n" +
		m.theme.Subtitle.Render("Mboshi corpus staging and VAE model configuration") + "\n"

	var banner string
	if m.workspaceFound {
		banner = m.theme.Help.Render(fmt.Sprintf("Workspace: %s", m.workspaceRoot))
	} else {
		banner = m.theme.Card.Render("No beerprep.yaml found, defaults apply.\n\nUse \"" + actionInit + "\" to create one.")
	}

	toast := ""
	if m.toast != "" {
		toast = "\n" + m.theme.Toast.Render(m.toast)
	}

	var body string
	switch m.scr {
	case screenHome:
		help := m.theme.Help.Render("↑/↓ navigate • enter open • / search • q quit")
		body = m.theme.Card.Render(m.menu.View()) + "\n" + help

	case screenStatus:
		body = m.card(actionStatus, renderStatus(m.theme, m.deps.DataDir, m.status), "r refresh • esc/b back")

	case screenModel:
		content := "Loading…"
		if m.summary != nil {
			if m.summary.err != nil {
				content = userMessage(m.summary.err) + "\n\n" + clampString(m.summary.err.Error(), 200)
			} else {
				content = renderSummary(m.summary.summary)
			}
		}
		body = m.card(actionModel, content, "r reload • esc/b back")

	case screenPrep:
		content := m.spinner.View() + " Staging " + m.deps.DataDir + " (" + splitsLabel(m.deps.Config) + ")…"
		if !m.running && m.prep != nil {
			if m.prep.err != nil {
				content = userMessage(m.prep.err) + "\n\n" + clampString(m.prep.err.Error(), 200)
			} else {
				content = renderPrep(m.prep.res, m.prep.id)
			}
		}
		body = m.card(actionPrep, content, "esc/b back")

	default:
		body = "unknown state"
	}

	return wrap.Render(header + "\n" + banner + "\n\n" + body + toast)
}

func (m model) card(title, content, help string) string {
	return m.theme.Card.Render(
		strings.Join([]string{
			m.theme.Title.Render(title),
			content,
			m.theme.Help.Render(help),
		}, "\n\n"),
	)
}

func splitsLabel(cfg domain.Config) string {
	return strings.Join(cfg.Corpus.Splits, ", ")
}
