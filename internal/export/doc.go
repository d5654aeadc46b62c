// Package export writes search results as CSV and summarizes them.
//
// Columns are the union of the fields present across all cases, in the order they are
// first seen, so a column appears only when at least one case recovered it.
package export
