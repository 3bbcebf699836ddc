// Package subscription defines topic to feed subscriptions.
package subscription

import (
	"fmt"
	"sort"
	"strings"
)

// Topic is a named news category with its candidate feeds, tried in order.
type Topic struct {
	Name  string
	Feeds []string
}

// NormalizeTopics turns a topic map whose values are either a single feed URL or a list of
// feed URLs into topics sorted by name. Values of any other type yield a topic with no feeds.
func NormalizeTopics(raw map[string]any) []Topic {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	topics := make([]Topic, 0, len(names))
	for _, name := range names {
		topics = append(topics, Topic{Name: name, Feeds: normalizeFeeds(raw[name])})
	}
	return topics
}

func normalizeFeeds(value any) []string {
	switch v := value.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
		return []string{}
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// ToMap converts topics back to the list form used in configuration files.
func ToMap(topics []Topic) map[string]any {
	out := make(map[string]any, len(topics))
	for _, t := range topics {
		feeds := make([]any, 0, len(t.Feeds))
		for _, f := range t.Feeds {
			feeds = append(feeds, f)
		}
		out[t.Name] = feeds
	}
	return out
}
