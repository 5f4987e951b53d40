package tui

import (
	"github.com/epalmerini/busmon/internal/api"
	"github.com/epalmerini/busmon/internal/selector"
)

// flattenConfig turns the backend's namespace/queue/topic tree into the
// flat item list the destination selector consumes.
func flattenConfig(cfg api.BrokerConfig, provider string) []selector.Item {
	var items []selector.Item
	for _, ns := range cfg.Namespaces {
		for _, q := range ns.Queues {
			items = append(items, selector.Item{
				Kind:      selector.KindQueue,
				Name:      q.Name,
				Namespace: ns.Name,
				Provider:  provider,
			})
		}
		for _, t := range ns.Topics {
			items = append(items, selector.Item{
				Kind:          selector.KindTopic,
				Name:          t.Name,
				Namespace:     ns.Name,
				Provider:      provider,
				Subscriptions: t.Subscriptions,
			})
		}
	}
	return items
}
