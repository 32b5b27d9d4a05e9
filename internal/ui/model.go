package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
	"flagkeeper/internal/services"
	"flagkeeper/internal/theme"
)

// progressStep is how much + and - move progress
const progressStep = 10

// boardNote is stored with checks recorded from the board
const boardNote = "updated from board"

type uiState int

const (
	stateList uiState = iota
	stateAddingLog
	stateConfirmingDelete
)

// Model is the interactive flag board
type Model struct {
	ctx      context.Context
	help     help.Model
	keys     KeyMap
	list     list.Model
	logInput textinput.Model
	message  string
	state    uiState
	store    *services.FlagStore
	width    int
}

// NewModel creates a board over store
func NewModel(ctx context.Context, store *services.FlagStore) *Model {
	l := list.New(toItems(store.List(services.ListFilter{})), flagDelegate{}, 0, 0)
	l.Title = "Flags"
	l.Styles.Title = theme.TitleStyle
	l.SetShowHelp(false)
	l.SetStatusBarItemName("flag", "flags")

	input := textinput.New()
	input.Placeholder = "What did you do?"
	input.CharLimit = 500

	return &Model{
		ctx:      ctx,
		help:     help.New(),
		keys:     NewKeyMap(),
		list:     l,
		logInput: input,
		state:    stateList,
		store:    store,
	}
}

// Run starts the board in the alternate screen and blocks until it quits
func Run(ctx context.Context, store *services.FlagStore) error {
	p := tea.NewProgram(NewModel(ctx, store), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.help.Width = size.Width
		// Footer: message line + help line
		m.list.SetSize(size.Width, max(size.Height-3, 4))
		return m, nil
	}

	switch m.state {
	case stateAddingLog:
		return m.updateAddingLog(msg)
	case stateConfirmingDelete:
		return m.updateConfirmingDelete(msg)
	}
	return m.updateList(msg)
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	// While filtering every key belongs to the filter input
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Bump):
		m.adjustProgress(progressStep)
		return m, nil
	case key.Matches(keyMsg, m.keys.Drop):
		m.adjustProgress(-progressStep)
		return m, nil
	case key.Matches(keyMsg, m.keys.Complete):
		m.complete()
		return m, nil
	case key.Matches(keyMsg, m.keys.AddLog):
		if _, ok := m.selected(); ok {
			m.state = stateAddingLog
			m.logInput.SetValue("")
			return m, m.logInput.Focus()
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.Delete):
		if f, ok := m.selected(); ok {
			m.state = stateConfirmingDelete
			m.message = fmt.Sprintf("Delete '%s'? (y/N)", f.Title)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) updateAddingLog(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.logInput.Blur()
			m.state = stateList
			m.message = ""
			return m, nil
		case tea.KeyEnter:
			m.logInput.Blur()
			m.state = stateList
			m.addLog(strings.TrimSpace(m.logInput.Value()))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.logInput, cmd = m.logInput.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirmingDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.state = stateList
	if !key.Matches(keyMsg, m.keys.Confirm) {
		m.message = "Cancelled"
		return m, nil
	}

	f, ok := m.selected()
	if !ok {
		return m, nil
	}
	if err := m.store.Delete(m.ctx, f.ID); err != nil {
		m.setError(err)
		return m, nil
	}
	m.refresh(fmt.Sprintf("Deleted '%s'", f.Title))
	return m, nil
}

func (m *Model) selected() (domain.Flag, bool) {
	item, ok := m.list.SelectedItem().(FlagItem)
	if !ok {
		return domain.Flag{}, false
	}
	return item.Flag, true
}

func (m *Model) adjustProgress(delta int) {
	f, ok := m.selected()
	if !ok {
		return
	}

	logging.Logger.Debug("Board progress change", "id", f.ID, "delta", delta)
	if err := m.store.UpdateProgress(m.ctx, f.ID, f.Progress+delta, boardNote); err != nil {
		m.setError(err)
		return
	}
	updated, err := m.store.Get(f.ID)
	if err != nil {
		m.setError(err)
		return
	}
	m.refresh(fmt.Sprintf("'%s' is %s at %d%%", updated.Title, updated.Status, updated.Progress))
}

func (m *Model) complete() {
	f, ok := m.selected()
	if !ok {
		return
	}
	if err := m.store.UpdateStatus(m.ctx, f.ID, domain.StatusCompleted); err != nil {
		m.setError(err)
		return
	}
	m.refresh(fmt.Sprintf("'%s' completed", f.Title))
}

func (m *Model) addLog(content string) {
	if content == "" {
		m.message = "Empty log entry ignored"
		return
	}
	f, ok := m.selected()
	if !ok {
		return
	}
	if _, err := m.store.AddLog(m.ctx, f.ID, content); err != nil {
		m.setError(err)
		return
	}
	m.refresh(fmt.Sprintf("Log added to '%s'", f.Title))
}

// refresh reloads the list from the store and reports persistence failures
func (m *Model) refresh(message string) {
	m.list.SetItems(toItems(m.store.List(services.ListFilter{})))
	m.message = message
	if err := m.store.PersistErr(); err != nil {
		m.setError(err)
	}
}

func (m *Model) setError(err error) {
	logging.Logger.Error("Board action failed", "error", err)
	m.message = theme.ErrorStyle.Render("Error: " + err.Error())
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n")

	switch m.state {
	case stateAddingLog:
		b.WriteString(theme.LabelStyle.Render("Log: ") + m.logInput.View())
	default:
		b.WriteString(m.message)
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Message returns the status line shown under the list
func (m *Model) Message() string {
	return m.message
}
