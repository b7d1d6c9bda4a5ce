// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the encuesta command.

encuesta collects the municipal digitalization survey: each municipality
signs in with its code, reviews its imported answers and submits small
batches of corrections, including its digitalization level.

# Commands

	encuesta [serve] [-p 3318] [-d URL] [-t sqlite|postgres] [-schema cols.yaml] [-strict]
	encuesta import [-f data/ENCUESTAS_datosIA.xlsx] [-sheet NAME] [-force]
	encuesta export -o out.xlsx

import loads the workbook into the database. When records already exist it
refuses to run unless -force is given, because a re-import replaces every
record and discards all edits. serve reads the stored header row once at
start, so restart it after a re-import.

# Configuration

A .env file in the working directory is loaded first. SESSION_SALT is
required for serve. See package cliparse for every flag and variable.

# Architecture

  - columns: header classification and the column schema
  - survey: records and the edit merge
  - spreadsheet: workbook import and export
  - db: connection, schema and the record store
  - handlers, router, middleware, models: the HTTP API
  - auth: session tokens and IDs
  - metrics: Prometheus collectors
  - cliparse: configuration parsing
*/
package main
