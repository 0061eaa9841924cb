// Package notebook owns the in-memory state of the notebook and keeps it in
// step with the store.
//
// # Overview
//
// A Notebook holds the ordered documents, the ordered note tabs with their
// notes, and the settings bag. Open rebuilds that state from a store.Store in
// a fixed order (schema, settings, documents, notes) and guarantees that at
// least one document and one note tab exist afterwards.
//
// Every mutating operation changes memory first and then rewrites the
// affected table family in full. Notes are redrawn through the Renderer after
// each note mutation in display order: pinned notes first, otherwise in
// stored order.
//
// # Concurrency
//
// A Notebook is owned by a single UI goroutine and is not safe for concurrent
// use.
package notebook
