package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/epalmerini/busmon/internal/api"
	"github.com/epalmerini/busmon/internal/cache"
	"github.com/epalmerini/busmon/internal/selector"
	"github.com/epalmerini/busmon/internal/table"
)

// Cache keys for the messages view.
func configKey(provider string) string   { return "config:" + provider }
func messagesKey(provider string) string { return "messages:" + provider }

// Tea messages
type itemsLoadedMsg struct {
	items []selector.Item
}

type messagesLoadedMsg struct {
	msgs []api.TrackedMessage
}

type deleteResultMsg struct {
	id  string
	err error
}

type replayResultMsg struct {
	err error
}

// errorMsg carries a failed fetch to the tab that issued it. Results are
// broadcast to every tab, so the origin keeps one tab's backend failure
// from showing up on another.
type errorMsg struct {
	origin string
	err    error
}

const (
	errOriginMessages   = "messages"
	errOriginResources  = "resources"
	errOriginConnection = "connection"
)

type clearStatusMsg struct{}

type messagesModel struct {
	deps *deps

	width, height int

	// Destination selector state
	items      []selector.Item
	primaryIdx int // -1 = all destinations
	subIdx     int // -1 = auto-select
	selection  *selector.Selection

	// Table
	table       *table.Model
	msgs        []api.TrackedMessage
	byID        map[string]api.TrackedMessage
	selectedIdx int
	scrollOff   int

	// Search
	searchMode  bool
	searchInput textinput.Model

	// Facet mode (disposition filter)
	facetMode bool

	// Detail panel
	showDetail   bool
	bodyExpanded bool

	// Delete confirmation
	confirmDelete bool

	// UI state
	splitRatio  float64
	compactMode bool
	showHelp    bool
	vimKeys     VimKeyState

	loading   bool
	err       error
	inlineErr string

	spinner       spinner.Model
	statusMsg     string
	statusMsgTime time.Time
}

func messageColumns() []table.Column {
	return []table.Column{
		{Title: "Time", Key: "time", Width: 10},
		{Title: "Sender", Key: "sender", Width: 16},
		{Title: "Receiver", Key: "receiver", Width: 16},
		{Title: "Disposition", Key: "disposition", Width: 12, FilterOptions: api.Dispositions},
		{Title: "Body", Key: "body"},
	}
}

func newMessagesModel(d *deps) messagesModel {
	si := textinput.New()
	si.Placeholder = "Search body..."
	si.CharLimit = 100
	si.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return messagesModel{
		deps:       d,
		primaryIdx: -1,
		subIdx:     -1,
		byID:       make(map[string]api.TrackedMessage),
		table: table.New(messageColumns(), table.Config{
			SearchKey: "body",
			RowHeight: 1,
			Overscan:  5,
		}),
		splitRatio:  d.cfg.DefaultSplitRatio,
		compactMode: d.cfg.CompactMode,
		showDetail:  d.cfg.SidebarOpen,
		vimKeys:     NewVimKeyState(),
		searchInput: si,
		spinner:     sp,
		loading:     true,
	}
}

func (m messagesModel) Init() tea.Cmd {
	return tea.Batch(
		m.loadConfig(),
		m.loadMessages(),
		m.spinner.Tick,
	)
}

func (m messagesModel) loadConfig() tea.Cmd {
	d := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PollInterval)
		defer cancel()

		cfg, err := cache.Get(ctx, d.cache, configKey(d.cfg.Provider), func(ctx context.Context) (api.BrokerConfig, error) {
			if d.cfg.Provider == api.ProviderAWS {
				return d.client.SQSConfig(ctx)
			}
			return d.client.ServiceBusConfig(ctx)
		})
		if err != nil {
			return errorMsg{origin: errOriginMessages, err: err}
		}
		return itemsLoadedMsg{items: flattenConfig(cfg, d.cfg.Provider)}
	}
}

func (m messagesModel) loadMessages() tea.Cmd {
	d := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PollInterval)
		defer cancel()

		msgs, err := cache.Get(ctx, d.cache, messagesKey(d.cfg.Provider), func(ctx context.Context) ([]api.TrackedMessage, error) {
			if d.cfg.Provider == api.ProviderAWS {
				return d.client.SQSMessages(ctx)
			}
			return d.client.ServiceBusMessages(ctx)
		})
		if err != nil {
			// A failed refresh keeps whatever the cache still has; the view
			// shows the error inline next to the old rows.
			if msgs != nil {
				return messagesLoadedMsg{msgs: msgs}
			}
			return errorMsg{origin: errOriginMessages, err: err}
		}

		d.observe(msgs)
		return messagesLoadedMsg{msgs: msgs}
	}
}

func (m messagesModel) deleteCmd(id string) tea.Cmd {
	d := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PollInterval)
		defer cancel()
		err := d.client.DeleteTrackedMessage(ctx, id)
		if err == nil {
			d.cache.Invalidate(messagesKey(d.cfg.Provider))
		}
		return deleteResultMsg{id: id, err: err}
	}
}

func (m messagesModel) replayCmd(msg api.TrackedMessage) tea.Cmd {
	d := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PollInterval)
		defer cancel()
		_, err := d.client.SendMessage(ctx, d.cfg.Provider, api.SendRequest{
			Destination: msg.Destination,
			Body:        msg.Body,
			SenderID:    msg.SenderID,
		})
		if err == nil {
			d.cache.Invalidate(messagesKey(d.cfg.Provider))
		}
		return replayResultMsg{err: err}
	}
}

func (m messagesModel) Update(msg tea.Msg) (messagesModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case pollTickMsg:
		cmds = append(cmds, m.loadConfig(), m.loadMessages())

	case itemsLoadedMsg:
		m.items = msg.items
		m.resolveSelection()

	case messagesLoadedMsg:
		m.loading = false
		m.err = nil
		m.msgs = msg.msgs
		m.rebuildRows()

	case deleteResultMsg:
		m.confirmDelete = false
		if msg.err != nil {
			// Non-optimistic: the row stays; only an inline error appears.
			m.inlineErr = "Delete failed: " + userMessage(msg.err)
			return m, nil
		}
		m.inlineErr = ""
		cmds = append(cmds, m.loadMessages(), m.setStatusMsg("Message deleted"))

	case replayResultMsg:
		if msg.err != nil {
			m.inlineErr = "Replay failed: " + userMessage(msg.err)
			return m, nil
		}
		m.inlineErr = ""
		cmds = append(cmds, m.loadMessages(), m.setStatusMsg("Message replayed"))

	case errorMsg:
		if msg.origin == errOriginMessages {
			m.loading = false
			m.err = msg.err
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case clearStatusMsg:
		m.statusMsg = ""
	}

	return m, tea.Batch(cmds...)
}

func (m messagesModel) handleKey(msg tea.KeyMsg) (messagesModel, tea.Cmd) {
	// Search input mode
	if m.searchMode {
		switch msg.String() {
		case "esc":
			m.searchMode = false
			m.searchInput.SetValue("")
			m.table.SetSearch("")
			m.searchInput.Blur()
			m.clampSelection()
			return m, nil
		case "enter":
			m.searchMode = false
			m.table.SetSearch(m.searchInput.Value())
			m.searchInput.Blur()
			m.selectedIdx = 0
			m.scrollOff = 0
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			return m, cmd
		}
	}

	// Facet mode: number keys toggle disposition filters
	if m.facetMode {
		switch msg.String() {
		case "esc", "f":
			m.facetMode = false
			return m, nil
		case "0":
			m.table.ClearFacets("disposition")
			m.clampSelection()
			return m, nil
		case "1", "2", "3", "4":
			idx := int(msg.String()[0] - '1')
			m.table.ToggleFacet("disposition", api.Dispositions[idx])
			m.clampSelection()
			return m, nil
		}
		return m, nil
	}

	// Delete confirmation
	if m.confirmDelete {
		switch msg.String() {
		case "y", "enter":
			m.confirmDelete = false
			if sel, ok := m.selectedMessage(); ok {
				return m, m.deleteCmd(sel.ID)
			}
			return m, nil
		default:
			m.confirmDelete = false
			return m, nil
		}
	}

	// Help overlay
	if m.showHelp {
		if s := msg.String(); s == "?" || s == "esc" || s == "q" {
			m.showHelp = false
		}
		return m, nil
	}

	// Destination cycling bypasses the vim handler
	switch msg.String() {
	case "[":
		m.cyclePrimary(-1)
		return m, nil
	case "]":
		m.cyclePrimary(1)
		return m, nil
	case "{":
		m.cycleSubscription(-1)
		return m, nil
	case "}":
		m.cycleSubscription(1)
		return m, nil
	case "up":
		m.moveBy(-1)
		return m, nil
	case "down":
		m.moveBy(1)
		return m, nil
	case "ctrl+u":
		m.moveBy(-m.visibleItems() / 2)
		return m, nil
	case "ctrl+d":
		m.moveBy(m.visibleItems() / 2)
		return m, nil
	}

	result := m.vimKeys.ProcessKey(msg.String())
	if result.Action == "pending" {
		return m, nil
	}

	switch result.Action {
	case "move_down":
		m.moveBy(result.Count)
	case "move_up":
		m.moveBy(-result.Count)
	case "go_top":
		m.selectedIdx = 0
		m.scrollOff = 0
	case "go_bottom":
		if n := len(m.table.VisibleRows()); n > 0 {
			m.selectedIdx = n - 1
		}
	case "search_start":
		m.searchMode = true
		m.searchInput.SetValue(m.table.Search())
		m.searchInput.Focus()
		return m, textinput.Blink
	case "facet_mode":
		m.facetMode = true
	case "sort_time":
		// The display cell is clock-of-day only; sort on the full timestamp.
		m.table.CycleSort("sent")
	case "sort_sender":
		m.table.CycleSort("sender")
	case "yank":
		return m, m.yankMessage()
	case "delete":
		if _, ok := m.selectedMessage(); ok {
			m.confirmDelete = true
		}
	case "replay":
		if sel, ok := m.selectedMessage(); ok {
			return m, m.replayCmd(sel)
		}
	case "export":
		return m, m.exportMessages()
	case "toggle_body":
		m.bodyExpanded = !m.bodyExpanded
	case "toggle_detail":
		m.showDetail = !m.showDetail
	case "toggle_compact":
		m.compactMode = !m.compactMode
	case "toggle_help":
		m.showHelp = !m.showHelp
	case "resize_left":
		if m.splitRatio > 0.2 {
			m.splitRatio -= 0.05
		}
	case "resize_right":
		if m.splitRatio < 0.8 {
			m.splitRatio += 0.05
		}
	case "refresh":
		m.deps.cache.Invalidate(messagesKey(m.deps.cfg.Provider))
		m.loading = true
		return m, tea.Batch(m.loadMessages(), m.spinner.Tick)
	case "quit":
		return m, tea.Quit
	}

	return m, nil
}

// resolveSelection re-derives the destination from current selector inputs.
// Changing the primary always re-resolves; a subscription override from a
// previous topic never carries over.
func (m *messagesModel) resolveSelection() {
	if m.primaryIdx < 0 || m.primaryIdx >= len(m.items) {
		m.selection = nil
		m.rebuildRows()
		return
	}

	primary := m.items[m.primaryIdx].Name
	override := ""
	if subs := selector.SubscriptionsFor(m.items, primary); m.subIdx >= 0 && m.subIdx < len(subs) {
		override = subs[m.subIdx]
	}

	m.selection = selector.Resolve(m.items, primary, override, true)
	m.rebuildRows()
}

func (m *messagesModel) cyclePrimary(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.primaryIdx += delta
	if m.primaryIdx < -1 {
		m.primaryIdx = len(m.items) - 1
	}
	if m.primaryIdx >= len(m.items) {
		m.primaryIdx = -1
	}
	m.subIdx = -1 // primary change resets any chosen subscription
	m.resolveSelection()
}

func (m *messagesModel) cycleSubscription(delta int) {
	if m.primaryIdx < 0 || m.primaryIdx >= len(m.items) {
		return
	}
	subs := selector.SubscriptionsFor(m.items, m.items[m.primaryIdx].Name)
	if len(subs) == 0 {
		return
	}
	m.subIdx += delta
	if m.subIdx < -1 {
		m.subIdx = len(subs) - 1
	}
	if m.subIdx >= len(subs) {
		m.subIdx = -1
	}
	m.resolveSelection()
}

// rebuildRows refreshes the table dataset from the fetched messages and the
// active destination.
func (m *messagesModel) rebuildRows() {
	rows := make([]table.Row, 0, len(m.msgs))
	byID := make(map[string]api.TrackedMessage, len(m.msgs))

	for _, msg := range m.msgs {
		if !m.matchesSelection(msg) {
			continue
		}
		byID[msg.ID] = msg
		rows = append(rows, table.Row{
			"id":          msg.ID,
			"time":        msg.SentAt.Format("15:04:05"),
			"sent":        msg.SentAt.UTC().Format(time.RFC3339),
			"sender":      msg.SenderID,
			"receiver":    msg.Receiver,
			"disposition": msg.Disposition,
			"body":        msg.Body,
		})
	}

	m.byID = byID
	m.table.SetRows(rows)
	m.clampSelection()
}

func (m *messagesModel) matchesSelection(msg api.TrackedMessage) bool {
	if m.selection == nil {
		return true
	}
	d := msg.Destination
	if d.Name != m.selection.Name || d.Namespace != m.selection.Namespace {
		return false
	}
	if m.selection.Kind == selector.KindTopic && d.Subscription != "" && d.Subscription != m.selection.Subscription {
		return false
	}
	return true
}

func (m *messagesModel) clampSelection() {
	n := len(m.table.VisibleRows())
	if m.selectedIdx >= n {
		m.selectedIdx = n - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
	if m.scrollOff > m.selectedIdx {
		m.scrollOff = m.selectedIdx
	}
}

func (m *messagesModel) moveBy(delta int) {
	n := len(m.table.VisibleRows())
	if n == 0 {
		return
	}
	m.selectedIdx += delta
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
	if m.selectedIdx >= n {
		m.selectedIdx = n - 1
	}

	visible := m.visibleItems()
	if m.selectedIdx < m.scrollOff {
		m.scrollOff = m.selectedIdx
	}
	if m.selectedIdx >= m.scrollOff+visible {
		m.scrollOff = m.selectedIdx - visible + 1
	}
}

func (m messagesModel) visibleItems() int {
	items := m.height - 9 // header(3) + selector(2) + status(1) + border(2) + help(1)
	if items < 1 {
		return 1
	}
	return items
}

func (m messagesModel) selectedMessage() (api.TrackedMessage, bool) {
	rows := m.table.VisibleRows()
	if m.selectedIdx < 0 || m.selectedIdx >= len(rows) {
		return api.TrackedMessage{}, false
	}
	msg, ok := m.byID[rows[m.selectedIdx]["id"]]
	return msg, ok
}

func (m *messagesModel) yankMessage() tea.Cmd {
	msg, ok := m.selectedMessage()
	if !ok {
		return nil
	}

	content, _ := json.MarshalIndent(msg, "", "  ")
	if err := clipboard.WriteAll(string(content)); err != nil {
		return m.setStatusMsg("Copy failed: " + err.Error())
	}
	return m.setStatusMsg("Copied to clipboard")
}

func (m *messagesModel) exportMessages() tea.Cmd {
	rows := m.table.VisibleRows()
	if len(rows) == 0 {
		return m.setStatusMsg("No messages to export")
	}

	exports := make([]api.TrackedMessage, 0, len(rows))
	for _, row := range rows {
		if msg, ok := m.byID[row["id"]]; ok {
			exports = append(exports, msg)
		}
	}

	filename := fmt.Sprintf("busmon-export-%s.json", time.Now().Format("20060102-150405"))
	data, _ := json.MarshalIndent(exports, "", "  ")
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return m.setStatusMsg("Export failed: " + err.Error())
	}
	return m.setStatusMsg(fmt.Sprintf("Exported to %s", filename))
}

func (m *messagesModel) setStatusMsg(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusMsgTime = time.Now()
	return tea.Tick(3*time.Second, func(_ time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// userMessage keeps backend 4xx messages verbatim and softens the rest.
func userMessage(err error) string {
	if apiErr, ok := err.(*api.APIError); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if _, ok := err.(*api.DecodeError); ok {
		return err.Error()
	}
	return "backend unavailable"
}

func (m messagesModel) View() string {
	if m.width == 0 {
		return m.spinner.View() + " Loading..."
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	selectorBar := m.renderSelectorBar()

	contentHeight := m.height - 8
	if contentHeight < 3 {
		contentHeight = 3
	}

	var content string
	if m.showDetail {
		listWidth := int(float64(m.width) * m.splitRatio)
		if listWidth < 20 {
			listWidth = 20
		}
		detailWidth := m.width - listWidth - 1
		if detailWidth < 20 {
			detailWidth = 20
		}
		list := m.renderList(listWidth, contentHeight)
		detail := m.renderDetailPanel(detailWidth, contentHeight)
		content = lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
	} else {
		content = m.renderList(m.width-2, contentHeight)
	}

	var bottomBar string
	switch {
	case m.searchMode:
		bottomBar = helpStyle.Render("Search: ") + m.searchInput.View() + helpStyle.Render("  (Enter to apply, Esc to clear)")
	case m.facetMode:
		bottomBar = m.renderFacetBar()
	case m.confirmDelete:
		bottomBar = errorStyle.Render("Delete selected message? ") + helpStyle.Render("y/Enter confirm, any other key cancels")
	default:
		bottomBar = m.renderHelpBar()
	}

	return lipgloss.JoinVertical(lipgloss.Left, selectorBar, m.renderStatusLine(), content, bottomBar)
}

func (m messagesModel) renderSelectorBar() string {
	primary := "all destinations"
	if m.primaryIdx >= 0 && m.primaryIdx < len(m.items) {
		primary = m.items[m.primaryIdx].Name
	}

	parts := []string{
		fieldNameStyle.Render("Destination: ") + primary,
	}

	if m.selection != nil {
		parts = append(parts, mutedStyle.Render("ns: ")+m.selection.Namespace)
		if m.selection.Kind == selector.KindTopic {
			parts = append(parts, mutedStyle.Render("sub: ")+m.selection.Subscription)
		}
	} else if m.primaryIdx >= 0 {
		parts = append(parts, errorStyle.Render("(incomplete: pick a subscription with { })"))
	}

	return statusBarStyle.Render(strings.Join(parts, "  │  ") + "   " + mutedStyle.Render("[ ] cycle  { } subscription"))
}

func (m messagesModel) renderStatusLine() string {
	total := m.table.Len()
	visible := len(m.table.VisibleRows())

	parts := []string{
		statusBarStyle.Render(fmt.Sprintf("Messages: %d/%d", visible, total)),
	}

	if key, dir := m.table.Sort(); dir != table.SortNone {
		arrow := "↑"
		if dir == table.SortDesc {
			arrow = "↓"
		}
		parts = append(parts, statusBarStyle.Render("Sort: "+key+arrow))
	}
	if m.table.Search() != "" {
		parts = append(parts, statusBarStyle.Render(fmt.Sprintf("Search: %q", m.table.Search())))
	}
	if m.inlineErr != "" {
		parts = append(parts, errorStyle.Render(m.inlineErr))
	}
	if m.err != nil {
		parts = append(parts, errorStyle.Render(userMessage(m.err)))
	}
	if m.statusMsg != "" && time.Since(m.statusMsgTime) < 3*time.Second {
		parts = append(parts, confirmationStyle.Render(m.statusMsg))
	}
	if m.loading {
		parts = append(parts, statusBarStyle.Render(m.spinner.View()+" loading"))
	}

	return strings.Join(parts, "  │  ")
}

func (m messagesModel) renderList(width, height int) string {
	innerHeight := height - 2
	if innerHeight < 1 {
		innerHeight = 1
	}
	innerWidth := width - 4

	win := m.table.Window(m.scrollOff, innerHeight)
	if len(win.Rows) == 0 {
		empty := strings.Join([]string{
			"",
			mutedStyle.Render("No messages"),
			"",
			mutedStyle.Render("Press r to refresh, ? for help"),
		}, "\n")
		return listStyle.Width(width).Height(height).Render(empty)
	}

	items := make([]string, 0, innerHeight)
	for i, row := range win.Rows {
		logical := win.Start + i
		if logical < m.scrollOff || logical >= m.scrollOff+innerHeight {
			continue // overscan rows stay unmaterialized on a terminal
		}

		prefix := "  "
		if logical == m.selectedIdx {
			prefix = "> "
		}

		var line string
		if m.compactMode {
			line = prefix + truncate(row["sender"]+" "+row["body"], innerWidth-2)
		} else {
			line = fmt.Sprintf("%s%s %-12s %s", prefix, row["time"], truncate(row["sender"], 12), truncate(row["body"], innerWidth-24))
		}

		switch {
		case logical == m.selectedIdx:
			line = selectedRowStyle.Render(line)
		case row["disposition"] == api.DispositionDeadletter:
			line = errorStyle.Render(line)
		default:
			line = normalRowStyle.Render(line)
		}
		items = append(items, line)
	}

	return listStyle.Width(width).Height(height).Render(strings.Join(items, "\n"))
}

func (m messagesModel) renderDetailPanel(width, height int) string {
	msg, ok := m.selectedMessage()
	if !ok {
		return detailPanelStyle.Width(width).Height(height).Render(
			mutedStyle.Render("Select a message to view details"),
		)
	}

	innerWidth := width - 4
	innerHeight := height - 2
	if innerHeight < 1 {
		innerHeight = 1
	}

	lines := renderDetail(msg, innerWidth, m.bodyExpanded)
	if len(lines) > innerHeight {
		lines = lines[:innerHeight]
	}

	return detailPanelStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m messagesModel) renderFacetBar() string {
	parts := []string{helpStyle.Render("Filter disposition:")}
	for i, d := range api.Dispositions {
		label := fmt.Sprintf("%d %s", i+1, d)
		if m.table.FacetActive("disposition", d) {
			parts = append(parts, facetActiveStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, facetInactiveStyle.Render(" "+label+" "))
		}
	}
	parts = append(parts, helpStyle.Render("0 clear  esc done"))
	return strings.Join(parts, " ")
}

func (m messagesModel) renderHelpBar() string {
	keys := []struct{ key, desc string }{
		{"j/k", "nav"},
		{"[ ]", "destination"},
		{"/", "search"},
		{"f", "filter"},
		{"o", "sort"},
		{"x", "body"},
		{"d", "delete"},
		{"R", "replay"},
		{"r", "refresh"},
		{"?", "help"},
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, helpKeyStyle.Render(k.key)+" "+k.desc)
	}
	return helpStyle.Render(strings.Join(parts, " │ "))
}

func (m messagesModel) renderHelpOverlay() string {
	sections := []struct {
		name string
		keys []struct{ key, desc string }
	}{
		{
			name: "Navigation",
			keys: []struct{ key, desc string }{
				{"j / k", "Move down / up"},
				{"5j / 10k", "Move 5 down / 10 up"},
				{"gg / G", "Go to top / bottom"},
				{"Ctrl+U / Ctrl+D", "Half page up / down"},
			},
		},
		{
			name: "Destination",
			keys: []struct{ key, desc string }{
				{"[ / ]", "Cycle queue/topic"},
				{"{ / }", "Cycle subscription"},
			},
		},
		{
			name: "Filtering",
			keys: []struct{ key, desc string }{
				{"/", "Search body text"},
				{"f", "Disposition filter"},
				{"o / O", "Sort by time / sender"},
			},
		},
		{
			name: "Actions",
			keys: []struct{ key, desc string }{
				{"y", "Copy message to clipboard"},
				{"d", "Delete tracked message"},
				{"R", "Replay message"},
				{"e", "Export visible messages"},
				{"r", "Refresh now"},
			},
		},
		{
			name: "View",
			keys: []struct{ key, desc string }{
				{"x", "Expand/collapse body"},
				{"s", "Show/hide detail panel"},
				{"t", "Toggle compact mode"},
				{"H / L", "Resize panes"},
				{"1-4 / Ctrl+N", "Switch tabs"},
			},
		},
	}

	var lines []string
	lines = append(lines, fieldNameStyle.Render("Keybindings"), "")
	for _, section := range sections {
		lines = append(lines, fieldNameStyle.Render(section.name))
		for _, k := range section.keys {
			lines = append(lines, fmt.Sprintf("  %-18s %s", helpKeyStyle.Render(k.key), k.desc))
		}
		lines = append(lines, "")
	}
	lines = append(lines, mutedStyle.Render("Press ? or Esc to close"))

	content := strings.Join(lines, "\n")
	overlay := detailPanelStyle.Width(50).Render(content)

	hPad := (m.width - 50) / 2
	if hPad < 0 {
		hPad = 0
	}
	return lipgloss.NewStyle().PaddingLeft(hPad).PaddingTop(1).Render(overlay)
}
