package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/epalmerini/busmon/internal/api"
	"github.com/epalmerini/busmon/internal/cache"
)

const resourcesKey = "resources"

type resourcesLoadedMsg struct {
	resources []api.Resource
}

type resourceCreatedMsg struct {
	resource api.Resource
	err      error
}

type resourcesModel struct {
	deps *deps

	width, height int

	resources   []api.Resource
	selectedIdx int

	// Create form
	creating  bool
	nameInput textinput.Model
	kindIdx   int // 0 queue, 1 topic
	provIdx   int // 0 azure, 1 aws
	formFocus int // 0 name, 1 kind, 2 provider
	saving    bool

	statusMsg string
	err       error
}

var resourceKinds = []string{"queue", "topic"}
var resourceProviders = []string{api.ProviderAzure, api.ProviderAWS}

func newResourcesModel(d *deps) resourcesModel {
	name := textinput.New()
	name.Placeholder = "resource-name"
	name.CharLimit = 64
	name.Width = 30

	m := resourcesModel{deps: d, nameInput: name}
	for i, p := range resourceProviders {
		if p == d.cfg.Provider {
			m.provIdx = i
		}
	}
	return m
}

func (m resourcesModel) Init() tea.Cmd {
	return m.loadResources()
}

func (m resourcesModel) loadResources() tea.Cmd {
	d := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PollInterval)
		defer cancel()

		resources, err := cache.Get(ctx, d.cache, resourcesKey, func(ctx context.Context) ([]api.Resource, error) {
			return d.client.Resources(ctx)
		})
		if err != nil {
			if resources != nil {
				return resourcesLoadedMsg{resources: resources}
			}
			return errorMsg{origin: errOriginResources, err: err}
		}
		return resourcesLoadedMsg{resources: resources}
	}
}

func (m resourcesModel) createCmd() tea.Cmd {
	d := m.deps
	resource := api.Resource{
		Provider: resourceProviders[m.provIdx],
		Kind:     resourceKinds[m.kindIdx],
		Name:     m.nameInput.Value(),
		Status:   "active",
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PollInterval)
		defer cancel()
		created, err := d.client.CreateResource(ctx, resource)
		if err == nil {
			// New resource changes the catalog and the destination tree.
			d.cache.Invalidate(resourcesKey)
			d.cache.Invalidate(configKey(d.cfg.Provider))
		}
		return resourceCreatedMsg{resource: created, err: err}
	}
}

func (m resourcesModel) Update(msg tea.Msg) (resourcesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case pollTickMsg:
		return m, m.loadResources()

	case resourcesLoadedMsg:
		m.resources = msg.resources
		m.err = nil
		if m.selectedIdx >= len(m.resources) {
			m.selectedIdx = len(m.resources) - 1
		}
		if m.selectedIdx < 0 {
			m.selectedIdx = 0
		}

	case resourceCreatedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.creating = false
		m.nameInput.SetValue("")
		m.statusMsg = "Created " + msg.resource.Name
		return m, m.loadResources()

	case errorMsg:
		if msg.origin == errOriginResources {
			m.err = msg.err
		}
	}

	return m, nil
}

func (m resourcesModel) handleKey(msg tea.KeyMsg) (resourcesModel, tea.Cmd) {
	key := msg.String()

	if m.creating {
		switch key {
		case "esc":
			m.creating = false
			m.nameInput.Blur()
			return m, nil
		case "tab":
			m.formFocus = (m.formFocus + 1) % 3
			if m.formFocus == 0 {
				return m, m.nameInput.Focus()
			}
			m.nameInput.Blur()
			return m, nil
		case "enter":
			if m.saving {
				return m, nil
			}
			if strings.TrimSpace(m.nameInput.Value()) == "" {
				m.err = fmt.Errorf("name is required")
				return m, nil
			}
			m.saving = true
			return m, m.createCmd()
		}

		switch m.formFocus {
		case 0:
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			return m, cmd
		case 1:
			if key == "left" || key == "right" || key == "h" || key == "l" || key == " " {
				m.kindIdx = (m.kindIdx + 1) % len(resourceKinds)
			}
		case 2:
			if key == "left" || key == "right" || key == "h" || key == "l" || key == " " {
				m.provIdx = (m.provIdx + 1) % len(resourceProviders)
			}
		}
		return m, nil
	}

	switch key {
	case "j", "down":
		if m.selectedIdx < len(m.resources)-1 {
			m.selectedIdx++
		}
	case "k", "up":
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}
	case "n":
		m.creating = true
		m.formFocus = 0
		m.err = nil
		m.statusMsg = ""
		return m, m.nameInput.Focus()
	case "r":
		m.deps.cache.Invalidate(resourcesKey)
		return m, m.loadResources()
	}

	return m, nil
}

func (m resourcesModel) View() string {
	listWidth := m.width * 3 / 5
	if listWidth < 30 {
		listWidth = 30
	}
	panelWidth := m.width - listWidth - 1
	if panelWidth < 24 {
		panelWidth = 24
	}
	contentHeight := m.height - 6
	if contentHeight < 5 {
		contentHeight = 5
	}

	list := m.renderCatalog(listWidth, contentHeight)

	var panel string
	if m.creating {
		panel = m.renderCreateForm(panelWidth, contentHeight)
	} else {
		panel = m.renderResourceDetail(panelWidth, contentHeight)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, list, panel)

	var status string
	switch {
	case m.err != nil:
		status = errorStyle.Render(userMessage(m.err))
	case m.statusMsg != "":
		status = confirmationStyle.Render(m.statusMsg)
	}

	help := helpStyle.Render("j/k navigate │ n new resource │ r refresh")
	return lipgloss.JoinVertical(lipgloss.Left, content, status, help)
}

func (m resourcesModel) renderCatalog(width, height int) string {
	var lines []string
	lines = append(lines, fieldNameStyle.Render(fmt.Sprintf("%-20s %-6s %-8s %s", "NAME", "TYPE", "PROVIDER", "STATUS")))
	lines = append(lines, dividerStyle.Render(strings.Repeat("─", width-4)))

	if len(m.resources) == 0 {
		lines = append(lines, mutedStyle.Render("No resources defined"))
	}

	maxRows := height - 4
	for i, r := range m.resources {
		if i >= maxRows {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("... %d more", len(m.resources)-maxRows)))
			break
		}

		status := r.Status
		if status == "active" {
			status = confirmationStyle.Render(status)
		} else {
			status = mutedStyle.Render(status)
		}

		line := fmt.Sprintf("%-20s %-6s %-8s %s", truncate(r.Name, 20), r.Kind, r.Provider, status)
		if i == m.selectedIdx {
			line = selectedRowStyle.Render("> " + line)
		} else {
			line = normalRowStyle.Render("  " + line)
		}
		lines = append(lines, line)
	}

	return listStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m resourcesModel) renderResourceDetail(width, height int) string {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.resources) {
		return detailPanelStyle.Width(width).Height(height).Render(
			mutedStyle.Render("No resource selected"),
		)
	}

	r := m.resources[m.selectedIdx]
	lines := []string{
		fieldNameStyle.Render("RESOURCE"),
		dividerStyle.Render(strings.Repeat("─", width-6)),
		fieldNameStyle.Render("Name: ") + r.Name,
		fieldNameStyle.Render("Type: ") + r.Kind,
		fieldNameStyle.Render("Provider: ") + r.Provider,
		fieldNameStyle.Render("Status: ") + r.Status,
	}
	if r.ID != "" {
		lines = append(lines, fieldNameStyle.Render("ID: ")+r.ID)
	}

	return detailPanelStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m resourcesModel) renderCreateForm(width, height int) string {
	focus := func(idx int, s string) string {
		if m.formFocus == idx {
			return selectedRowStyle.Render("> " + s)
		}
		return "  " + s
	}

	lines := []string{
		fieldNameStyle.Render("NEW RESOURCE"),
		dividerStyle.Render(strings.Repeat("─", width-6)),
		focus(0, fieldNameStyle.Render("Name: ")+m.nameInput.View()),
		focus(1, fieldNameStyle.Render("Type: ")+m.renderPicker(resourceKinds, m.kindIdx)),
		focus(2, fieldNameStyle.Render("Provider: ")+m.renderPicker(resourceProviders, m.provIdx)),
		"",
	}
	if m.saving {
		lines = append(lines, mutedStyle.Render("Creating..."))
	} else {
		lines = append(lines, helpStyle.Render("Enter create │ Tab next field │ Esc cancel"))
	}

	return detailPanelStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m resourcesModel) renderPicker(options []string, active int) string {
	parts := make([]string, 0, len(options))
	for i, o := range options {
		if i == active {
			parts = append(parts, facetActiveStyle.Render("["+o+"]"))
		} else {
			parts = append(parts, facetInactiveStyle.Render(" "+o+" "))
		}
	}
	return strings.Join(parts, " ")
}
