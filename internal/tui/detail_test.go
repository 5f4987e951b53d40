package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/epalmerini/busmon/internal/api"
)

func TestPrettyBody_NonJSONVerbatim(t *testing.T) {
	body := "plain text, not json"
	if got := prettyBody(body); got != body {
		t.Errorf("prettyBody(%q) = %q, want verbatim", body, got)
	}
}

func TestPrettyBody_SortsObjectKeys(t *testing.T) {
	got := prettyBody(`{"zebra": 1, "apple": 2}`)

	apple := strings.Index(got, "apple")
	zebra := strings.Index(got, "zebra")
	if apple < 0 || zebra < 0 {
		t.Fatalf("missing keys in output: %q", got)
	}
	if apple > zebra {
		t.Errorf("keys not sorted: apple at %d, zebra at %d", apple, zebra)
	}
}

func TestBodyPreview_FirstLineOnly(t *testing.T) {
	got := bodyPreview("first line\nsecond line", 80)
	if strings.Contains(got, "second") {
		t.Errorf("preview should stop at the first line, got %q", got)
	}
}

func TestRenderDetail_BodyCollapsedByDefault(t *testing.T) {
	msg := api.TrackedMessage{
		ID:       "m-1",
		SenderID: "svc-a",
		SentAt:   time.Now(),
		Body:     "{\"multi\": true,\n\"line\": 2}",
	}

	collapsed := strings.Join(renderDetail(msg, 60, false), "\n")
	if !strings.Contains(collapsed, "press x to expand") {
		t.Error("collapsed detail should hint at expansion")
	}

	expanded := strings.Join(renderDetail(msg, 60, true), "\n")
	if strings.Contains(expanded, "press x to expand") {
		t.Error("expanded detail should not show the expansion hint")
	}
	if !strings.Contains(expanded, "line") {
		t.Error("expanded detail should include the full body")
	}
}

func TestRenderDetail_MetadataFields(t *testing.T) {
	received := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	msg := api.TrackedMessage{
		ID:          "m-2",
		SenderID:    "svc-b",
		SentAt:      time.Date(2026, 8, 30, 11, 59, 0, 0, time.UTC),
		ReceivedAt:  &received,
		Receiver:    "worker-1",
		Disposition: api.DispositionComplete,
		Destination: api.Destination{Kind: "topic", Name: "orders", Namespace: "sbemulatorns", Subscription: "default"},
		Body:        "hi",
	}

	out := strings.Join(renderDetail(msg, 60, false), "\n")
	for _, want := range []string{"m-2", "svc-b", "worker-1", "complete", "sbemulatorns/orders/default"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"ab", 2, "ab"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFormatRelativeTime(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{500 * time.Millisecond, "now"},
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{48 * time.Hour, "2d"},
	}

	for _, tt := range tests {
		if got := formatRelativeTime(time.Now().Add(-tt.ago)); got != tt.want {
			t.Errorf("formatRelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}
