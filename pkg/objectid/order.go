package objectid

import (
	"cmp"
	"slices"
	"strings"
)

// Direction selects ascending or descending order.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// ParseDirection accepts "asc", "desc", "1" and "-1" (case-insensitive).
// An empty string yields Ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending", "1":
		return Ascending, nil
	case "desc", "descending", "-1":
		return Descending, nil
	default:
		return 0, ErrUnknownDirection
	}
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Compare returns a negative number when a sorts before b in the given
// direction, a positive number when it sorts after, and zero when both
// denote the same identifier. Descending is the exact negation of Ascending.
func Compare(a, b string, dir Direction) int {
	if dir == Descending {
		a, b = b, a
	}
	return compareAsc(a, b)
}

func compareAsc(a, b string) int {
	ahi, alo, aok := decode(a)
	bhi, blo, bok := decode(b)
	switch {
	case aok && bok:
		if c := cmp.Compare(ahi, bhi); c != 0 {
			return c
		}
		return cmp.Compare(alo, blo)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return strings.Compare(normalize(a), normalize(b))
	}
}

// Sort orders ids in place.
func Sort(ids []string, dir Direction) {
	slices.SortStableFunc(ids, func(a, b string) int {
		return Compare(a, b, dir)
	})
}

// SortFunc orders items in place by the identifier returned from idOf.
func SortFunc[T any](items []T, idOf func(T) string, dir Direction) {
	slices.SortStableFunc(items, func(a, b T) int {
		return Compare(idOf(a), idOf(b), dir)
	})
}

// Merge combines result pages into one ordered slice. Items sharing an
// identifier are kept once; the first occurrence wins.
func Merge[T any](dir Direction, idOf func(T) string, pages ...[]T) []T {
	size := 0
	for _, p := range pages {
		size += len(p)
	}
	out := make([]T, 0, size)
	seen := make(map[string]struct{}, size)
	for _, p := range pages {
		for _, item := range p {
			key := normalize(idOf(item))
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, item)
		}
	}
	SortFunc(out, idOf, dir)
	return out
}
