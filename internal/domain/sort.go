package domain

import "sort"

func sortStrings(values []string) {
	sort.Strings(values)
}

// sortedKeysInt returns the keys of an int-valued map in sorted order, so
// folds never depend on map iteration order.
func sortedKeysInt(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
