package tui

import (
	"testing"

	"github.com/epalmerini/busmon/internal/api"
	"github.com/epalmerini/busmon/internal/selector"
)

func TestFlattenConfig(t *testing.T) {
	cfg := api.BrokerConfig{
		Namespaces: []api.NamespaceConfig{
			{
				Name:   "sbemulatorns",
				Queues: []api.QueueConfig{{Name: "jobs"}},
				Topics: []api.TopicConfig{
					{Name: "orders", Subscriptions: []string{"default", "audit"}},
				},
			},
			{
				Name:   "second-ns",
				Queues: []api.QueueConfig{{Name: "retries"}},
			},
		},
	}

	items := flattenConfig(cfg, api.ProviderAzure)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	if items[0].Kind != selector.KindQueue || items[0].Name != "jobs" || items[0].Namespace != "sbemulatorns" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[1].Kind != selector.KindTopic || len(items[1].Subscriptions) != 2 {
		t.Errorf("unexpected topic item: %+v", items[1])
	}
	if items[2].Namespace != "second-ns" {
		t.Errorf("unexpected namespace on third item: %+v", items[2])
	}
	for _, item := range items {
		if item.Provider != api.ProviderAzure {
			t.Errorf("item %s missing provider", item.Name)
		}
	}
}

func TestFlattenConfig_Empty(t *testing.T) {
	if items := flattenConfig(api.BrokerConfig{}, api.ProviderAWS); len(items) != 0 {
		t.Errorf("empty config should flatten to no items, got %d", len(items))
	}
}
