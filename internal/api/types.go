package api

import (
	"fmt"
	"time"
)

// Provider identifies which emulator a resource or message belongs to.
const (
	ProviderAzure = "azure"
	ProviderAWS   = "aws"
)

// Dispositions are the terminal outcomes a message can have.
const (
	DispositionComplete   = "complete"
	DispositionAbandon    = "abandon"
	DispositionDeadletter = "deadletter"
	DispositionDefer      = "defer"
)

// Dispositions lists the valid disposition values in display order.
var Dispositions = []string{
	DispositionComplete,
	DispositionAbandon,
	DispositionDeadletter,
	DispositionDefer,
}

func validDisposition(d string) bool {
	if d == "" {
		return true
	}
	for _, v := range Dispositions {
		if d == v {
			return true
		}
	}
	return false
}

// Destination is a queue, or a topic plus subscription, scoped to a namespace.
type Destination struct {
	Kind         string `json:"kind"` // "queue" or "topic"
	Name         string `json:"name"`
	Namespace    string `json:"namespace"`
	Subscription string `json:"subscription,omitempty"`
}

func (d Destination) String() string {
	if d.Kind == "topic" && d.Subscription != "" {
		return fmt.Sprintf("%s/%s/%s", d.Namespace, d.Name, d.Subscription)
	}
	return fmt.Sprintf("%s/%s", d.Namespace, d.Name)
}

// TrackedMessage is a message the monitoring backend has recorded.
type TrackedMessage struct {
	ID          string      `json:"id"`
	Body        string      `json:"body"`
	SenderID    string      `json:"senderId"`
	SentAt      time.Time   `json:"sentAt"`
	ReceivedAt  *time.Time  `json:"receivedAt,omitempty"`
	Receiver    string      `json:"receiver,omitempty"`
	Disposition string      `json:"disposition,omitempty"`
	Destination Destination `json:"destination"`
}

// Validate checks the fields the UI depends on. A failure means the backend
// broke its contract, not that the user did anything wrong.
func (m TrackedMessage) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("message missing id")
	}
	if m.SenderID == "" {
		return fmt.Errorf("message %s missing senderId", m.ID)
	}
	if m.SentAt.IsZero() {
		return fmt.Errorf("message %s missing sentAt", m.ID)
	}
	if !validDisposition(m.Disposition) {
		return fmt.Errorf("message %s has unknown disposition %q", m.ID, m.Disposition)
	}
	return nil
}

// Resource is a queue or topic definition in the messaging-resource catalog.
type Resource struct {
	ID       string `json:"id,omitempty"`
	Provider string `json:"provider"` // "aws" or "azure"
	Kind     string `json:"type"`    // "queue" or "topic"
	Name     string `json:"name"`
	Status   string `json:"status"` // "active" or "inactive"
}

func (r Resource) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("resource missing name")
	}
	if r.Provider != ProviderAWS && r.Provider != ProviderAzure {
		return fmt.Errorf("resource %s has unknown provider %q", r.Name, r.Provider)
	}
	if r.Kind != "queue" && r.Kind != "topic" {
		return fmt.Errorf("resource %s has unknown type %q", r.Name, r.Kind)
	}
	return nil
}

// Namespace is a broker namespace as reported by the topology endpoint.
type Namespace struct {
	Name string `json:"name"`
}

// BrokerConfig is the namespace/queue/topic/subscription tree returned by
// the per-provider config endpoints.
type BrokerConfig struct {
	Namespaces []NamespaceConfig `json:"namespaces"`
}

type NamespaceConfig struct {
	Name   string        `json:"name"`
	Queues []QueueConfig `json:"queues"`
	Topics []TopicConfig `json:"topics"`
}

type QueueConfig struct {
	Name string `json:"name"`
}

type TopicConfig struct {
	Name          string   `json:"name"`
	Subscriptions []string `json:"subscriptions"`
}

// SendRequest simulates sending a message through the backend.
type SendRequest struct {
	MessageID   string      `json:"messageId,omitempty"`
	Destination Destination `json:"destination"`
	Body        string      `json:"body"`
	SenderID    string      `json:"senderId"`
	Disposition string      `json:"disposition,omitempty"`
}

// ReceiveRequest simulates receiving messages from a destination.
type ReceiveRequest struct {
	Destination Destination `json:"destination"`
	Receiver    string      `json:"receiver"`
}

// Status is the backend health probe response.
type Status struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (s Status) Healthy() bool {
	return s.Status == "ok" || s.Status == "healthy"
}
