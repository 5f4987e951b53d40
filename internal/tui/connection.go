package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/epalmerini/busmon/internal/api"
)

type statusProbedMsg struct {
	status  api.Status
	latency time.Duration
	err     error
}

type namespacesLoadedMsg struct {
	namespaces []api.Namespace
}

type connectionModel struct {
	deps *deps

	width, height int

	status     api.Status
	latency    time.Duration
	probedAt   time.Time
	probeErr   error
	namespaces []api.Namespace
	nsErr      error
}

func newConnectionModel(d *deps) connectionModel {
	return connectionModel{deps: d}
}

func (m connectionModel) Init() tea.Cmd {
	return tea.Batch(m.probeCmd(), m.loadNamespaces())
}

func (m connectionModel) probeCmd() tea.Cmd {
	d := m.deps
	return func() tea.Msg {
		start := time.Now()
		status, err := d.client.CheckStatus(context.Background())
		return statusProbedMsg{status: status, latency: time.Since(start), err: err}
	}
}

func (m connectionModel) loadNamespaces() tea.Cmd {
	d := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PollInterval)
		defer cancel()
		namespaces, err := d.client.Namespaces(ctx)
		if err != nil {
			return errorMsg{origin: errOriginConnection, err: err}
		}
		return namespacesLoadedMsg{namespaces: namespaces}
	}
}

func (m connectionModel) Update(msg tea.Msg) (connectionModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "r" {
			return m, tea.Batch(m.probeCmd(), m.loadNamespaces())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case pollTickMsg:
		return m, m.probeCmd()

	case statusProbedMsg:
		m.status = msg.status
		m.latency = msg.latency
		m.probedAt = time.Now()
		m.probeErr = msg.err

	case namespacesLoadedMsg:
		m.namespaces = msg.namespaces
		m.nsErr = nil

	case errorMsg:
		if msg.origin == errOriginConnection {
			m.nsErr = msg.err
		}
	}

	return m, nil
}

func (m connectionModel) View() string {
	d := m.deps

	var lines []string
	lines = append(lines, fieldNameStyle.Render("CONNECTION"))
	lines = append(lines, dividerStyle.Render(strings.Repeat("─", 50)))
	lines = append(lines, fieldNameStyle.Render("Endpoint: ")+d.client.BaseURL())
	lines = append(lines, fieldNameStyle.Render("Provider: ")+d.cfg.Provider)
	lines = append(lines, fieldNameStyle.Render("Poll interval: ")+d.cfg.PollInterval.String())
	lines = append(lines, "")

	switch {
	case m.probedAt.IsZero():
		lines = append(lines, mutedStyle.Render("Probing backend..."))
	case m.probeErr != nil:
		lines = append(lines, disconnectedStyle.Render("● DISCONNECTED")+"  "+errorStyle.Render(userMessage(m.probeErr)))
	case m.status.Healthy():
		lines = append(lines, connectedStyle.Render("● CONNECTED")+
			mutedStyle.Render(fmt.Sprintf("  latency %dms, checked %s", m.latency.Milliseconds(), formatRelativeTime(m.probedAt))))
		if m.status.Version != "" {
			lines = append(lines, fieldNameStyle.Render("Backend version: ")+m.status.Version)
		}
	default:
		lines = append(lines, disconnectedStyle.Render("● UNHEALTHY")+"  status: "+m.status.Status)
	}

	lines = append(lines, "")
	lines = append(lines, fieldNameStyle.Render("NAMESPACES"))
	lines = append(lines, dividerStyle.Render(strings.Repeat("─", 50)))
	switch {
	case m.nsErr != nil:
		lines = append(lines, errorStyle.Render(userMessage(m.nsErr)))
	case len(m.namespaces) == 0:
		lines = append(lines, mutedStyle.Render("(none reported)"))
	}
	for _, ns := range m.namespaces {
		lines = append(lines, "  "+ns.Name)
	}

	lines = append(lines, "")
	lines = append(lines, fieldNameStyle.Render("SESSION"))
	lines = append(lines, dividerStyle.Render(strings.Repeat("─", 50)))
	rate, avgBatch, lastFetch := d.statsSnapshot()
	lines = append(lines, fieldNameStyle.Render("Fetch rate: ")+formatRate(rate))
	lines = append(lines, fieldNameStyle.Render("Avg batch: ")+fmt.Sprintf("%d messages", avgBatch))
	if !lastFetch.IsZero() {
		lines = append(lines, fieldNameStyle.Render("Last fetch: ")+formatRelativeTime(lastFetch))
	}

	lines = append(lines, "")
	lines = append(lines, helpStyle.Render("r probe now"))

	content := strings.Join(lines, "\n")
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}
