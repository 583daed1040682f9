package store

import "github.com/dmitrijs2005/petadopt/internal/client/models"

func petID(p models.Pet) string         { return p.ID }
func appID(a models.Application) string { return a.ID }

// replaceByID swaps the element with item's id for item. It reports false
// and leaves list untouched when no element matches.
func replaceByID[T any](list []T, item T, id func(T) string) bool {
	for i := range list {
		if id(list[i]) == id(item) {
			list[i] = item
			return true
		}
	}
	return false
}

// upsertByID replaces the element with item's id, or appends item.
func upsertByID[T any](list []T, item T, id func(T) string) []T {
	if replaceByID(list, item, id) {
		return list
	}
	return append(list, item)
}

func removeByID[T any](list []T, key string, id func(T) string) []T {
	out := list[:0]
	for _, v := range list {
		if id(v) != key {
			out = append(out, v)
		}
	}
	return out
}

// dedupeByID keeps one element per id, at the position of its first
// occurrence, holding the value of its last.
func dedupeByID[T any](list []T, id func(T) string) []T {
	out := make([]T, 0, len(list))
	seen := make(map[string]int, len(list))
	for _, v := range list {
		if i, ok := seen[id(v)]; ok {
			out[i] = v
			continue
		}
		seen[id(v)] = len(out)
		out = append(out, v)
	}
	return out
}

func clonePets(list []models.Pet) []models.Pet {
	out := make([]models.Pet, len(list))
	for i, p := range list {
		out[i] = p.Clone()
	}
	return out
}

func cloneApps(list []models.Application) []models.Application {
	out := make([]models.Application, len(list))
	for i, a := range list {
		out[i] = a.Clone()
	}
	return out
}
