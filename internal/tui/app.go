package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tabs in display order.
type tabID int

const (
	tabMessages tabID = iota
	tabSend
	tabConfiguration
	tabConnection
	tabCount
)

var tabNames = [tabCount]string{"Messages", "Send", "Configuration", "Connection"}

type pollTickMsg struct{}

type appModel struct {
	deps *deps

	width, height int
	activeTab     tabID

	messages   messagesModel
	send       sendModel
	resources  resourcesModel
	connection connectionModel
}

func newAppModel(d *deps) appModel {
	return appModel{
		deps:       d,
		messages:   newMessagesModel(d),
		send:       newSendModel(d),
		resources:  newResourcesModel(d),
		connection: newConnectionModel(d),
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		m.messages.Init(),
		m.resources.Init(),
		m.connection.Init(),
		m.pollTick(),
	)
}

func (m appModel) pollTick() tea.Cmd {
	return tea.Tick(m.deps.cfg.PollInterval, func(_ time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

// capturesInput reports whether the active tab currently owns the keyboard,
// which suspends single-key tab switching.
func (m appModel) capturesInput() bool {
	switch m.activeTab {
	case tabMessages:
		return m.messages.searchMode || m.messages.facetMode || m.messages.confirmDelete
	case tabSend:
		return m.send.focus == focusSender || m.send.focus == focusBody
	case tabConfiguration:
		return m.resources.creating
	}
	return false
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+n":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "ctrl+p":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		}

		if !m.capturesInput() {
			switch msg.String() {
			case "1":
				m.activeTab = tabMessages
				return m, nil
			case "2":
				m.activeTab = tabSend
				return m, nil
			case "3":
				m.activeTab = tabConfiguration
				return m, nil
			case "4":
				m.activeTab = tabConnection
				return m, nil
			}
		}

		return m.updateActive(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Tabs size against the area below the header
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 2}
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.messages, cmd = m.messages.Update(inner)
		cmds = append(cmds, cmd)
		m.send, cmd = m.send.Update(inner)
		cmds = append(cmds, cmd)
		m.resources, cmd = m.resources.Update(inner)
		cmds = append(cmds, cmd)
		m.connection, cmd = m.connection.Update(inner)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case pollTickMsg:
		// Every tab refreshes through the cache, so a tick only costs a
		// request when the entry has actually gone stale.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.messages, cmd = m.messages.Update(msg)
		cmds = append(cmds, cmd)
		m.resources, cmd = m.resources.Update(msg)
		cmds = append(cmds, cmd)
		m.connection, cmd = m.connection.Update(msg)
		cmds = append(cmds, cmd)
		cmds = append(cmds, m.pollTick())
		return m, tea.Batch(cmds...)

	case itemsLoadedMsg:
		// The destination tree feeds both the messages view and the send form.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.messages, cmd = m.messages.Update(msg)
		cmds = append(cmds, cmd)
		m.send, cmd = m.send.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	default:
		return m.updateAll(msg)
	}
}

// updateActive routes a key to the tab that owns the screen.
func (m appModel) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabMessages:
		m.messages, cmd = m.messages.Update(msg)
	case tabSend:
		m.send, cmd = m.send.Update(msg)
	case tabConfiguration:
		m.resources, cmd = m.resources.Update(msg)
	case tabConnection:
		m.connection, cmd = m.connection.Update(msg)
	}
	return m, cmd
}

// updateAll routes async results to every tab; each one picks out the
// message types it understands.
func (m appModel) updateAll(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.messages, cmd = m.messages.Update(msg)
	cmds = append(cmds, cmd)
	m.send, cmd = m.send.Update(msg)
	cmds = append(cmds, cmd)
	m.resources, cmd = m.resources.Update(msg)
	cmds = append(cmds, cmd)
	m.connection, cmd = m.connection.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m appModel) View() string {
	if m.width == 0 {
		return "Starting busmon..."
	}

	header := m.renderTabBar()

	var body string
	switch m.activeTab {
	case tabMessages:
		body = m.messages.View()
	case tabSend:
		body = m.send.View()
	case tabConfiguration:
		body = m.resources.View()
	case tabConnection:
		body = m.connection.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (m appModel) renderTabBar() string {
	parts := make([]string, 0, tabCount+1)
	parts = append(parts, headerStyle.Render("busmon"))
	for i := tabID(0); i < tabCount; i++ {
		label := tabNames[i]
		if i == m.activeTab {
			parts = append(parts, activeTabStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	parts = append(parts, mutedStyle.Render(" 1-4 switch"))
	return strings.Join(parts, " ")
}
