// Package objectid orders and generates 12-byte document identifiers rendered
// as 24 hexadecimal characters.
//
// List endpoints page through store results with an "after" cursor and
// sometimes need to merge or re-order result sets in memory. Compare gives a
// total order over identifiers that matches the order the store assigns them:
//
//	slices.SortFunc(ids, func(a, b string) int {
//		return objectid.Compare(a, b, objectid.Descending)
//	})
//
// Identifiers are decoded into fixed-width unsigned integers, so the ordering
// is exact over the full 96 bits. Malformed identifiers never panic; they sort
// after every well-formed one and are ordered lexicographically among
// themselves.
package objectid
