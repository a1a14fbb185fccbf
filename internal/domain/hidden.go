package domain

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/breakerb0y/aaropa-calamares/internal/adapter"
	"github.com/breakerb0y/aaropa-calamares/internal/domain/selection"
	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

// DefaultHiddenRules hides the data image option once a /data partition
// exists.
func DefaultHiddenRules() []m.HiddenRule {
	return []m.HiddenRule{{Marker: "DATA=", Key: "partitions", Contains: "/data"}}
}

// NewHiddenPredicate returns a predicate that hides a node when one of rules
// matches: the description contains the rule marker and the storage value
// under the rule key, as text, contains the rule's needle. The storage is
// read once, when the predicate is created.
func NewHiddenPredicate(rules []m.HiddenRule, storage adapter.GlobalStorage) selection.HiddenPredicate {
	var markers []string

	for _, rule := range rules {
		if rule.Marker == "" {
			slog.Warn("ignoring hidden rule without marker", "key", rule.Key)
			continue
		}

		value, ok := storage.Value(rule.Key)
		if !ok || value == nil {
			continue
		}

		if strings.Contains(fmt.Sprint(value), rule.Contains) {
			markers = append(markers, rule.Marker)
		}
	}

	if len(markers) == 0 {
		return selection.NoHidden
	}

	return func(description string) bool {
		for _, marker := range markers {
			if strings.Contains(description, marker) {
				return true
			}
		}

		return false
	}
}
