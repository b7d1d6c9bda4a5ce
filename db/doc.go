// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database, creates the schema and stores survey records.

# Connections

	conn, err := db.Open(db.TypeSQLite, "data/encuesta.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite runs through modernc.org/sqlite with a single open connection,
foreign keys on and a busy timeout. PostgreSQL uses lib/pq.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
Statements use only types and $N placeholders both engines accept.
Timestamps are stored as RFC 3339 text.

# Tables

  - municipality: one survey record per code (answers as a JSON object)
  - survey_column: the imported header row, by position
  - edit_log: every applied edit with hashed client IP and user agent
  - import_run: one row per workbook import

	municipality 1──* edit_log

# Store

Store wraps the connection:

	store := db.NewStore(conn, db.TypeSQLite)
	rec, err := store.Get(ctx, "001")
	rec, err = store.Update(ctx, "001", audit, func(cur survey.Record) (survey.Record, survey.Batch, error) {
		...
	})
	run, err := store.ReplaceAll(ctx, source, headers, records)

Update is the only write path for edits. Concurrent updates of one code are
serialized, so no edit is lost. ReplaceAll is the import path: it clears
every record and its edit log before inserting the new rows.
*/
package db
