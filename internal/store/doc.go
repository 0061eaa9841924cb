// Package store provides persistent storage for the notebook using SQLite.
//
// # Architecture
//
// The package exposes one interface per table family:
//
//   - DocumentStore: ordered free-text documents
//   - NoteStore: ordered note groups and the notes inside each group
//   - SettingsStore: flat key/value preferences
//
// Store combines them with EnsureSchema and Close. SQLiteStore implements Store
// on a single database file; MockStore is an in-memory implementation for tests.
//
// # Write Semantics
//
// Document and note saves are whole-table replacements executed in one
// transaction: the table is cleared and the complete ordered set is inserted
// with freshly computed, dense positions starting at 0. A failed save rolls
// back, so readers never observe a partially replaced table. Settings are the
// exception: known keys are upserted and unknown rows are preserved.
//
// # Data Models
//
//	documents(position, name PK, content, filepath NULL)
//	notes(position, tab_name, text, done, pinned, date, color, time_start NULL, time_end NULL)
//	note_tabs(position, name PK)
//	settings(key PK, value)
//
// Booleans are stored as 0/1; dates and times are free-form text.
//
// # Migrations
//
// EnsureSchema creates missing tables and then runs Migrations() in order.
// Each step is additive and idempotent, runs in its own transaction and is
// recorded in schema_migrations:
//
//  1. notes.tab_name: added and backfilled with the default group
//  2. notes.time_start: added, nullable
//  3. notes.time_end: added, nullable
//  4. legacy tabs/app_settings rows copied into documents/settings
//  5. idx_notes_tab_position index for the load order
//
// Independently of the recorded version, LoadNotes inspects the columns of
// the notes table on every load and tolerates their absence.
//
// # Testing
//
// Use NewMockStore() for unit tests. Use NewSQLiteStore(":memory:") for
// integration tests with real SQLite.
package store
