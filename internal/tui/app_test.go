package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestApp_NumberKeysSwitchTabs(t *testing.T) {
	tests := []struct {
		key  string
		want tabID
	}{
		{"1", tabMessages},
		{"2", tabSend},
		{"3", tabConfiguration},
		{"4", tabConnection},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := newAppModel(newTestDeps())
			updated, _ := m.Update(keyMsg(tt.key))
			app := updated.(appModel)
			if app.activeTab != tt.want {
				t.Errorf("after %q activeTab = %v, want %v", tt.key, app.activeTab, tt.want)
			}
		})
	}
}

func TestApp_CtrlNCyclesForward(t *testing.T) {
	m := newAppModel(newTestDeps())

	order := []tabID{tabSend, tabConfiguration, tabConnection, tabMessages}
	var model tea.Model = m
	for _, want := range order {
		model, _ = model.(appModel).Update(tea.KeyMsg{Type: tea.KeyCtrlN})
		if got := model.(appModel).activeTab; got != want {
			t.Fatalf("activeTab = %v, want %v", got, want)
		}
	}
}

func TestApp_CtrlPCyclesBackward(t *testing.T) {
	m := newAppModel(newTestDeps())
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	if got := updated.(appModel).activeTab; got != tabConnection {
		t.Errorf("ctrl+p from the first tab should wrap to the last, got %v", got)
	}
}

func TestApp_SearchModeSuppressesTabKeys(t *testing.T) {
	m := newAppModel(newTestDeps())
	m.messages.searchMode = true

	updated, _ := m.Update(keyMsg("2"))
	if got := updated.(appModel).activeTab; got != tabMessages {
		t.Errorf("number keys should type into the search box, not switch tabs; got %v", got)
	}
}

func TestApp_ItemsFeedMessagesAndSend(t *testing.T) {
	m := newAppModel(newTestDeps())

	updated, _ := m.Update(sampleItems())
	app := updated.(appModel)

	if len(app.messages.items) != 2 {
		t.Errorf("messages tab got %d items, want 2", len(app.messages.items))
	}
	if len(app.send.items) != 2 {
		t.Errorf("send tab got %d items, want 2", len(app.send.items))
	}
}
