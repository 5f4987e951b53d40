package tui

import (
	"errors"
	"testing"

	"github.com/epalmerini/busmon/internal/api"
)

func TestConnection_NamespaceErrorScopedToOrigin(t *testing.T) {
	m := newConnectionModel(newTestDeps())

	m, _ = m.Update(errorMsg{origin: errOriginMessages, err: errors.New("topology down")})
	if m.nsErr != nil {
		t.Error("messages-tab error should not surface on the connection tab")
	}

	m, _ = m.Update(errorMsg{origin: errOriginConnection, err: errors.New("namespaces down")})
	if m.nsErr == nil {
		t.Error("connection-origin error should surface")
	}

	m, _ = m.Update(namespacesLoadedMsg{namespaces: []api.Namespace{{Name: "ns-1"}}})
	if m.nsErr != nil {
		t.Error("a successful namespaces load should clear the error")
	}
}
