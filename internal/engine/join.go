package engine

import "tinydb/internal/catalog"

// mergeJoined combines one row from each side of a JOIN into a single
// record keyed by "table.column" for every field, plus a bare "column"
// entry for whichever side claims it first (left, then right). Projection
// resolves qualified-then-bare; WHERE looks up the key exactly as written,
// which both spellings in the merged record satisfy.
func mergeJoined(leftTable string, left catalog.Record, rightTable string, right catalog.Record) catalog.Record {
	out := make(catalog.Record, len(left)+len(right))
	for col, v := range left {
		out[leftTable+"."+col] = v
		if _, exists := out[col]; !exists {
			out[col] = v
		}
	}
	for col, v := range right {
		out[rightTable+"."+col] = v
		if _, exists := out[col]; !exists {
			out[col] = v
		}
	}
	return out
}
