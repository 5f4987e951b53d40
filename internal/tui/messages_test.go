package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/epalmerini/busmon/internal/api"
	"github.com/epalmerini/busmon/internal/cache"
	"github.com/epalmerini/busmon/internal/config"
)

func newTestDeps() *deps {
	return &deps{
		client: api.NewClient("http://127.0.0.1:1", zerolog.Nop()),
		cache:  cache.New(time.Minute),
		cfg: config.Config{
			BaseURL:           "http://127.0.0.1:1",
			Provider:          api.ProviderAzure,
			PollInterval:      time.Second,
			DefaultSplitRatio: 0.5,
			SidebarOpen:       true,
		},
		log: zerolog.Nop(),
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleMessages() []api.TrackedMessage {
	sent := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	return []api.TrackedMessage{
		{
			ID: "m-1", SenderID: "svc-a", SentAt: sent, Body: "one",
			Disposition: api.DispositionComplete,
			Destination: api.Destination{Kind: "topic", Name: "orders", Namespace: "ns", Subscription: "default"},
		},
		{
			ID: "m-2", SenderID: "svc-b", SentAt: sent, Body: "two",
			Disposition: api.DispositionAbandon,
			Destination: api.Destination{Kind: "queue", Name: "jobs", Namespace: "ns"},
		},
	}
}

func sampleItems() itemsLoadedMsg {
	return itemsLoadedMsg{items: flattenConfig(api.BrokerConfig{
		Namespaces: []api.NamespaceConfig{{
			Name:   "ns",
			Queues: []api.QueueConfig{{Name: "jobs"}},
			Topics: []api.TopicConfig{
				{Name: "orders", Subscriptions: []string{"sub-b", "default", "sub-a"}},
			},
		}},
	}, api.ProviderAzure)}
}

func TestMessages_NoSelectionShowsAll(t *testing.T) {
	m := newMessagesModel(newTestDeps())
	m, _ = m.Update(messagesLoadedMsg{msgs: sampleMessages()})

	if got := len(m.table.VisibleRows()); got != 2 {
		t.Errorf("without a destination all messages show, got %d rows", got)
	}
}

func TestMessages_SelectionFiltersRows(t *testing.T) {
	m := newMessagesModel(newTestDeps())
	m, _ = m.Update(sampleItems())
	m, _ = m.Update(messagesLoadedMsg{msgs: sampleMessages()})

	// First item is the queue "jobs"
	m.primaryIdx = 0
	m.resolveSelection()

	rows := m.table.VisibleRows()
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0]["id"] != "m-2" {
		t.Errorf("got row %q, want the queue message m-2", rows[0]["id"])
	}
}

func TestMessages_TopicPrefersDefaultSubscription(t *testing.T) {
	m := newMessagesModel(newTestDeps())
	m, _ = m.Update(sampleItems())

	// Second item is the topic "orders"
	m.primaryIdx = 1
	m.subIdx = -1
	m.resolveSelection()

	if m.selection == nil {
		t.Fatal("topic with subscriptions should resolve")
	}
	if m.selection.Subscription != "default" {
		t.Errorf("subscription = %q, want default", m.selection.Subscription)
	}
}

func TestMessages_PrimaryChangeResetsSubscription(t *testing.T) {
	m := newMessagesModel(newTestDeps())
	m, _ = m.Update(sampleItems())

	m.primaryIdx = 1
	m.subIdx = 0 // explicit "sub-b"
	m.resolveSelection()
	if m.selection.Subscription != "sub-b" {
		t.Fatalf("override not applied: %q", m.selection.Subscription)
	}

	m.cyclePrimary(-1) // move to the queue
	m.cyclePrimary(1)  // and back to the topic

	if m.subIdx != -1 {
		t.Error("subscription override should reset when the primary changes")
	}
	if m.selection == nil || m.selection.Subscription != "default" {
		t.Errorf("re-resolved subscription should auto-select default, got %+v", m.selection)
	}
}

func TestMessages_DeleteFailureKeepsRows(t *testing.T) {
	m := newMessagesModel(newTestDeps())
	m, _ = m.Update(messagesLoadedMsg{msgs: sampleMessages()})
	before := len(m.table.VisibleRows())

	m, cmd := m.Update(deleteResultMsg{id: "m-1", err: &api.APIError{StatusCode: 409, Message: "message is locked"}})

	if got := len(m.table.VisibleRows()); got != before {
		t.Errorf("rows changed after failed delete: %d -> %d", before, got)
	}
	if m.inlineErr == "" {
		t.Error("failed delete should surface an inline error")
	}
	if cmd != nil {
		t.Error("failed delete should not trigger a refetch")
	}
}

func TestMessages_DeleteSuccessRefetches(t *testing.T) {
	m := newMessagesModel(newTestDeps())
	m, _ = m.Update(messagesLoadedMsg{msgs: sampleMessages()})

	m, cmd := m.Update(deleteResultMsg{id: "m-1"})

	if m.inlineErr != "" {
		t.Errorf("unexpected inline error: %q", m.inlineErr)
	}
	if cmd == nil {
		t.Error("successful delete should trigger a refetch")
	}
}

func TestMessages_FacetModeTogglesDisposition(t *testing.T) {
	m := newMessagesModel(newTestDeps())
	m, _ = m.Update(messagesLoadedMsg{msgs: sampleMessages()})

	m, _ = m.handleKey(keyMsg("f"))
	if !m.facetMode {
		t.Fatal("f should enter facet mode")
	}

	// "1" toggles the first disposition, complete
	m, _ = m.handleKey(keyMsg("1"))
	rows := m.table.VisibleRows()
	if len(rows) != 1 || rows[0]["disposition"] != api.DispositionComplete {
		t.Errorf("facet filter not applied: %v", rows)
	}

	m, _ = m.handleKey(keyMsg("0"))
	if got := len(m.table.VisibleRows()); got != 2 {
		t.Errorf("0 should clear facets, got %d rows", got)
	}
}

// Time sort must order by the full timestamp, not the clock-of-day display
// string, or rows spanning midnight come out backwards.
func TestMessages_TimeSortSpansMidnight(t *testing.T) {
	m := newMessagesModel(newTestDeps())
	m, _ = m.Update(messagesLoadedMsg{msgs: []api.TrackedMessage{
		{
			ID: "late", SenderID: "svc-a", Body: "x",
			SentAt:      time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC),
			Destination: api.Destination{Kind: "queue", Name: "jobs", Namespace: "ns"},
		},
		{
			ID: "early-next-day", SenderID: "svc-a", Body: "y",
			SentAt:      time.Date(2026, 8, 31, 0, 1, 0, 0, time.UTC),
			Destination: api.Destination{Kind: "queue", Name: "jobs", Namespace: "ns"},
		},
	}})

	m, _ = m.handleKey(keyMsg("o")) // ascending

	rows := m.table.VisibleRows()
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["id"] != "late" || rows[1]["id"] != "early-next-day" {
		t.Errorf("ascending time sort = [%s, %s], want the 23:59 message first",
			rows[0]["id"], rows[1]["id"])
	}
}

// Fetch errors are broadcast to every tab; only the originating tab may
// display them.
func TestMessages_IgnoresForeignErrors(t *testing.T) {
	m := newMessagesModel(newTestDeps())
	m.loading = true

	m, _ = m.Update(errorMsg{origin: errOriginResources, err: errors.New("catalog down")})
	if m.err != nil {
		t.Error("resources-tab error should not surface on the messages tab")
	}

	m, _ = m.Update(errorMsg{origin: errOriginMessages, err: errors.New("topology down")})
	if m.err == nil {
		t.Error("messages-origin error should surface")
	}
	if m.loading {
		t.Error("an own-origin error should stop the loading state")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"4xx message verbatim", &api.APIError{StatusCode: 404, Message: "subscription not found"}, "subscription not found"},
		{"transport softened", errors.New("dial tcp: connection refused"), "backend unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userMessage(tt.err); got != tt.want {
				t.Errorf("userMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
