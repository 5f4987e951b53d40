package tui

import (
	"testing"
	"time"
)

func TestProcessKey_SingleKeys(t *testing.T) {
	tests := []struct {
		key    string
		action string
	}{
		{"j", "move_down"},
		{"k", "move_up"},
		{"G", "go_bottom"},
		{"/", "search_start"},
		{"f", "facet_mode"},
		{"o", "sort_time"},
		{"O", "sort_sender"},
		{"y", "yank"},
		{"d", "delete"},
		{"R", "replay"},
		{"e", "export"},
		{"x", "toggle_body"},
		{"t", "toggle_compact"},
		{"s", "toggle_detail"},
		{"?", "toggle_help"},
		{"H", "resize_left"},
		{"L", "resize_right"},
		{"r", "refresh"},
		{"q", "quit"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := NewVimKeyState()
			result := v.ProcessKey(tt.key)
			if result.Action != tt.action {
				t.Errorf("ProcessKey(%q) = %q, want %q", tt.key, result.Action, tt.action)
			}
			if result.Count != 1 {
				t.Errorf("ProcessKey(%q) count = %d, want 1", tt.key, result.Count)
			}
		})
	}
}

func TestProcessKey_GGSequence(t *testing.T) {
	v := NewVimKeyState()

	result := v.ProcessKey("g")
	if result.Action != "pending" {
		t.Fatalf("first g should be pending, got %q", result.Action)
	}

	result = v.ProcessKey("g")
	if result.Action != "go_top" {
		t.Errorf("gg should be go_top, got %q", result.Action)
	}
}

func TestProcessKey_NumericPrefix(t *testing.T) {
	v := NewVimKeyState()

	if result := v.ProcessKey("5"); result.Action != "pending" {
		t.Fatalf("digit should be pending, got %q", result.Action)
	}

	result := v.ProcessKey("j")
	if result.Action != "move_down" {
		t.Errorf("5j action = %q, want move_down", result.Action)
	}
	if result.Count != 5 {
		t.Errorf("5j count = %d, want 5", result.Count)
	}
}

func TestProcessKey_MultiDigitPrefix(t *testing.T) {
	v := NewVimKeyState()
	v.ProcessKey("1")
	v.ProcessKey("2")

	result := v.ProcessKey("k")
	if result.Count != 12 {
		t.Errorf("12k count = %d, want 12", result.Count)
	}
}

func TestProcessKey_TimeoutResetsSequence(t *testing.T) {
	v := NewVimKeyState()
	v.ProcessKey("g")
	v.lastKeyTime = time.Now().Add(-time.Second)

	result := v.ProcessKey("g")
	if result.Action != "pending" {
		t.Errorf("g after timeout should restart the sequence, got %q", result.Action)
	}
}

func TestProcessKey_InvalidSequenceResets(t *testing.T) {
	v := NewVimKeyState()
	v.ProcessKey("g")
	v.ProcessKey("z")

	if v.GetPending() != "" {
		t.Errorf("pending keys not cleared after invalid sequence: %q", v.GetPending())
	}
}
