package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/epalmerini/busmon/internal/api"
	"github.com/epalmerini/busmon/internal/selector"
)

// Form focus order for the send tab.
const (
	focusDestination = iota
	focusSubscription
	focusSender
	focusDisposition
	focusBody
	focusCount
)

type sendResultMsg struct {
	id  string
	err error
}

type receiveResultMsg struct {
	msgs []api.TrackedMessage
	err  error
}

type sendModel struct {
	deps *deps

	width, height int

	items      []selector.Item
	primaryIdx int
	subIdx     int

	senderInput textinput.Model
	bodyInput   textarea.Model
	dispIdx     int

	focus   int
	sending bool

	statusMsg string
	err       error
	received  []api.TrackedMessage
}

func newSendModel(d *deps) sendModel {
	sender := textinput.New()
	sender.Placeholder = "sender-id"
	sender.CharLimit = 64
	sender.Width = 30

	body := textarea.New()
	body.Placeholder = `{"example": "payload"}`
	body.SetHeight(8)
	body.CharLimit = 0

	return sendModel{
		deps:        d,
		senderInput: sender,
		bodyInput:   body,
		subIdx:      -1,
	}
}

func (m sendModel) Init() tea.Cmd {
	return nil
}

func (m *sendModel) setItems(items []selector.Item) {
	m.items = items
	if m.primaryIdx >= len(items) {
		m.primaryIdx = 0
	}
}

func (m sendModel) resolvedDestination() *selector.Selection {
	if m.primaryIdx < 0 || m.primaryIdx >= len(m.items) {
		return nil
	}
	primary := m.items[m.primaryIdx].Name
	override := ""
	if subs := selector.SubscriptionsFor(m.items, primary); m.subIdx >= 0 && m.subIdx < len(subs) {
		override = subs[m.subIdx]
	}
	return selector.Resolve(m.items, primary, override, true)
}

func (m sendModel) sendCmd() tea.Cmd {
	d := m.deps
	sel := m.resolvedDestination()
	if sel == nil {
		return func() tea.Msg {
			return sendResultMsg{err: fmt.Errorf("no destination selected")}
		}
	}

	req := api.SendRequest{
		Destination: api.Destination{
			Kind:         sel.Kind,
			Name:         sel.Name,
			Namespace:    sel.Namespace,
			Subscription: sel.Subscription,
		},
		Body:        m.bodyInput.Value(),
		SenderID:    m.senderInput.Value(),
		Disposition: api.Dispositions[m.dispIdx],
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PollInterval)
		defer cancel()
		sent, err := d.client.SendMessage(ctx, d.cfg.Provider, req)
		if err == nil {
			d.cache.Invalidate(messagesKey(d.cfg.Provider))
		}
		return sendResultMsg{id: sent.ID, err: err}
	}
}

func (m sendModel) receiveCmd() tea.Cmd {
	d := m.deps
	sel := m.resolvedDestination()
	receiver := m.senderInput.Value()
	if sel == nil {
		return func() tea.Msg {
			return receiveResultMsg{err: fmt.Errorf("no destination selected")}
		}
	}

	req := api.ReceiveRequest{
		Destination: api.Destination{
			Kind:         sel.Kind,
			Name:         sel.Name,
			Namespace:    sel.Namespace,
			Subscription: sel.Subscription,
		},
		Receiver: receiver,
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PollInterval)
		defer cancel()
		msgs, err := d.client.ReceiveMessages(ctx, d.cfg.Provider, req)
		if err == nil {
			d.cache.Invalidate(messagesKey(d.cfg.Provider))
		}
		return receiveResultMsg{msgs: msgs, err: err}
	}
}

func (m sendModel) Update(msg tea.Msg) (sendModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bodyInput.SetWidth(msg.Width - 10)

	case itemsLoadedMsg:
		m.setItems(msg.items)

	case sendResultMsg:
		m.sending = false
		if msg.err != nil {
			m.err = msg.err
			m.statusMsg = ""
			return m, nil
		}
		m.err = nil
		m.statusMsg = "Sent message " + msg.id
		return m, nil

	case receiveResultMsg:
		m.sending = false
		if msg.err != nil {
			m.err = msg.err
			m.statusMsg = ""
			return m, nil
		}
		m.err = nil
		m.received = msg.msgs
		m.statusMsg = fmt.Sprintf("Received %d message(s)", len(msg.msgs))
		return m, nil
	}

	return m, nil
}

func (m sendModel) handleKey(msg tea.KeyMsg) (sendModel, tea.Cmd) {
	key := msg.String()

	switch key {
	case "tab":
		m.blurFocused()
		m.focus = (m.focus + 1) % focusCount
		return m, m.focusCurrent()
	case "shift+tab":
		m.blurFocused()
		m.focus = (m.focus - 1 + focusCount) % focusCount
		return m, m.focusCurrent()
	case "ctrl+s":
		if m.sending {
			return m, nil
		}
		m.sending = true
		return m, m.sendCmd()
	case "ctrl+e":
		if m.sending {
			return m, nil
		}
		m.sending = true
		return m, m.receiveCmd()
	}

	switch m.focus {
	case focusDestination:
		switch key {
		case "left", "h":
			if len(m.items) > 0 {
				m.primaryIdx = (m.primaryIdx - 1 + len(m.items)) % len(m.items)
				m.subIdx = -1
			}
		case "right", "l", "enter", " ":
			if len(m.items) > 0 {
				m.primaryIdx = (m.primaryIdx + 1) % len(m.items)
				m.subIdx = -1
			}
		}
	case focusSubscription:
		subs := m.currentSubs()
		switch key {
		case "left", "h":
			if len(subs) > 0 {
				m.subIdx--
				if m.subIdx < -1 {
					m.subIdx = len(subs) - 1
				}
			}
		case "right", "l", "enter", " ":
			if len(subs) > 0 {
				m.subIdx++
				if m.subIdx >= len(subs) {
					m.subIdx = -1
				}
			}
		}
	case focusSender:
		var cmd tea.Cmd
		m.senderInput, cmd = m.senderInput.Update(msg)
		return m, cmd
	case focusDisposition:
		switch key {
		case "left", "h":
			m.dispIdx = (m.dispIdx - 1 + len(api.Dispositions)) % len(api.Dispositions)
		case "right", "l", "enter", " ":
			m.dispIdx = (m.dispIdx + 1) % len(api.Dispositions)
		}
	case focusBody:
		var cmd tea.Cmd
		m.bodyInput, cmd = m.bodyInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *sendModel) blurFocused() {
	switch m.focus {
	case focusSender:
		m.senderInput.Blur()
	case focusBody:
		m.bodyInput.Blur()
	}
}

func (m *sendModel) focusCurrent() tea.Cmd {
	switch m.focus {
	case focusSender:
		return m.senderInput.Focus()
	case focusBody:
		return m.bodyInput.Focus()
	}
	return nil
}

func (m sendModel) currentSubs() []string {
	if m.primaryIdx < 0 || m.primaryIdx >= len(m.items) {
		return nil
	}
	return selector.SubscriptionsFor(m.items, m.items[m.primaryIdx].Name)
}

func (m sendModel) View() string {
	var lines []string

	label := func(idx int, name string) string {
		if m.focus == idx {
			return selectedRowStyle.Render("> " + name)
		}
		return fieldNameStyle.Render("  " + name)
	}

	destination := "(none)"
	if m.primaryIdx >= 0 && m.primaryIdx < len(m.items) {
		item := m.items[m.primaryIdx]
		destination = fmt.Sprintf("%s/%s (%s)", item.Namespace, item.Name, item.Kind)
	}
	lines = append(lines, label(focusDestination, "Destination:")+" "+destination)

	if sel := m.resolvedDestination(); sel != nil && sel.Kind == selector.KindTopic {
		sub := sel.Subscription
		if m.subIdx < 0 {
			sub += mutedStyle.Render(" (auto)")
		}
		lines = append(lines, label(focusSubscription, "Subscription:")+" "+sub)
	} else if subs := m.currentSubs(); len(subs) == 0 && m.primaryIdx >= 0 && m.primaryIdx < len(m.items) && m.items[m.primaryIdx].Kind == selector.KindTopic {
		lines = append(lines, label(focusSubscription, "Subscription:")+" "+errorStyle.Render("(none available)"))
	} else {
		lines = append(lines, label(focusSubscription, "Subscription:")+" "+mutedStyle.Render("n/a"))
	}

	lines = append(lines, label(focusSender, "Sender ID:")+" "+m.senderInput.View())
	lines = append(lines, label(focusDisposition, "Disposition:")+" "+m.renderDispositionPicker())
	lines = append(lines, label(focusBody, "Body:"))
	lines = append(lines, m.bodyInput.View())
	lines = append(lines, "")

	switch {
	case m.sending:
		lines = append(lines, mutedStyle.Render("Working..."))
	case m.err != nil:
		lines = append(lines, errorStyle.Render(userMessage(m.err)))
	case m.statusMsg != "":
		lines = append(lines, confirmationStyle.Render(m.statusMsg))
	}

	if len(m.received) > 0 {
		lines = append(lines, "", fieldNameStyle.Render("Last receive:"))
		max := len(m.received)
		if max > 5 {
			max = 5
		}
		for _, rm := range m.received[:max] {
			lines = append(lines, "  "+truncate(rm.SenderID+": "+rm.Body, m.width-8))
		}
	}

	lines = append(lines, "", helpStyle.Render("Tab cycle fields │ Ctrl+S send │ Ctrl+E receive (sender id as receiver)"))

	content := strings.Join(lines, "\n")
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

func (m sendModel) renderDispositionPicker() string {
	parts := make([]string, 0, len(api.Dispositions))
	for i, d := range api.Dispositions {
		if i == m.dispIdx {
			parts = append(parts, facetActiveStyle.Render("["+d+"]"))
		} else {
			parts = append(parts, facetInactiveStyle.Render(" "+d+" "))
		}
	}
	return strings.Join(parts, " ")
}
