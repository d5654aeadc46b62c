// Package storage provides JSON-based persistence for hearing snapshots.
//
// Each saved search gets its own snapshot file (snapshot_<KEY>.json, where KEY is
// scraper.SearchParams.Key) so the check command can report hearings that appeared
// since the previous run. The default location is ~/.local/share/court-calendar/.
package storage
