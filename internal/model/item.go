package model

import (
	"sort"
	"strings"
)

// WorkItem is a single unit of work: a key plus the URL derived from it.
//
// WorkItem is immutable once built. The Key is the upper-cased identifier
// (e.g. a country code) and is also the name under which the payload is
// stored. Targets are always lower case.
//
// Example:
//
//	item := NewWorkItem("cn", "https://www.fluentpython.com/data/flags")
//	// item.Key            = "CN"
//	// item.Target         = "https://www.fluentpython.com/data/flags/cn/cn.gif"
//	// item.MetadataTarget = "https://www.fluentpython.com/data/flags/cn/metadata.json"
type WorkItem struct {
	// Key identifies the item within a batch. Unique after deduplication.
	Key string

	// Target is the URL of the payload.
	Target string

	// MetadataTarget is the URL of the JSON document describing the item.
	MetadataTarget string
}

// NewWorkItem builds a WorkItem for key under baseURL.
func NewWorkItem(key, baseURL string) WorkItem {
	key = NormalizeKey(key)
	base := strings.TrimRight(baseURL, "/")
	lower := strings.ToLower(key)

	return WorkItem{
		Key:            key,
		Target:         strings.ToLower(base + "/" + lower + "/" + lower + ".gif"),
		MetadataTarget: strings.ToLower(base + "/" + lower + "/metadata.json"),
	}
}

// FileName returns the name the payload is stored under.
func (w WorkItem) FileName() string {
	return strings.ToLower(w.Key) + ".gif"
}

// NormalizeKey trims surrounding whitespace and upper-cases key.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// BuildWorkItems normalizes, deduplicates and sorts keys, then derives a
// WorkItem for each. Empty keys are dropped.
//
// Submitting the same key twice yields a single WorkItem, so a batch never
// double-counts a key.
func BuildWorkItems(keys []string, baseURL string) []WorkItem {
	seen := make(map[string]struct{}, len(keys))
	unique := make([]string, 0, len(keys))
	for _, k := range keys {
		k = NormalizeKey(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, k)
	}
	sort.Strings(unique)

	items := make([]WorkItem, len(unique))
	for i, k := range unique {
		items[i] = NewWorkItem(k, baseURL)
	}
	return items
}

// POP20 lists the country codes of the 20 most populous countries.
var POP20 = strings.Fields("CN IN US ID BR PK NG BD RU JP MX PH VN ET EG DE IR TR CD FR")
