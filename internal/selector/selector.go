// Package selector resolves a user's queue/topic choice into a complete
// destination. Resolution is a pure function of its inputs: no effect
// chains, no ordering races, re-derived on every input change.
package selector

const (
	KindQueue = "queue"
	KindTopic = "topic"
)

// Item is a flattened entry from the backend's configuration tree,
// used to populate the destination dropdowns.
type Item struct {
	Kind          string
	Name          string
	Namespace     string
	Provider      string
	Subscriptions []string
}

// Selection is a fully-resolved destination. A queue needs only a name and
// namespace; a topic is complete only once a subscription is settled.
type Selection struct {
	Kind         string
	Name         string
	Namespace    string
	Subscription string
}

// Resolve derives the current selection from the item list, the chosen
// primary (queue or topic name), and an optional subscription override.
// Returns nil while the selection is incomplete.
//
// A subscription override left over from a previously selected topic never
// leaks: it only applies if the new topic actually has that subscription.
// With autoSelect, a subscription literally named "default" wins over list
// order; otherwise the first subscription is used.
func Resolve(items []Item, primary, subOverride string, autoSelect bool) *Selection {
	if primary == "" {
		return nil
	}

	item, ok := find(items, primary)
	if !ok {
		return nil
	}

	if item.Kind == KindQueue {
		return &Selection{
			Kind:      KindQueue,
			Name:      item.Name,
			Namespace: item.Namespace,
		}
	}

	sub := resolveSubscription(item.Subscriptions, subOverride, autoSelect)
	if sub == "" {
		return nil
	}

	return &Selection{
		Kind:         KindTopic,
		Name:         item.Name,
		Namespace:    item.Namespace,
		Subscription: sub,
	}
}

func resolveSubscription(subs []string, override string, autoSelect bool) string {
	if override != "" && contains(subs, override) {
		return override
	}
	if !autoSelect || len(subs) == 0 {
		return ""
	}
	if contains(subs, "default") {
		return "default"
	}
	return subs[0]
}

func find(items []Item, name string) (Item, bool) {
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Names returns the primary dropdown entries in list order.
func Names(items []Item) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

// SubscriptionsFor returns the subscription dropdown entries for a topic.
// Queues and unknown names have none.
func SubscriptionsFor(items []Item, name string) []string {
	item, ok := find(items, name)
	if !ok || item.Kind != KindTopic {
		return nil
	}
	return item.Subscriptions
}
