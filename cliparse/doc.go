// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

Each command has its own parser:

	cfg, err := cliparse.ParseFlags(args)        // serve
	icfg, err := cliparse.ParseImportFlags(args) // import
	ecfg, err := cliparse.ParseExportFlags(args) // export

# Shared Flags

	-d        Database URL (default data/encuesta.db for sqlite)
	-t        Database type: sqlite (default) or postgres
	-schema   Column schema YAML file

# serve

	-p             Server port (default 3318)
	-session-salt  Session token salt (required)
	-strict        Reject edits to unknown columns

# import

	-f      Workbook path (default data/ENCUESTAS_datosIA.xlsx)
	-sheet  Sheet name (default: first sheet)
	-force  Replace existing records and their edits

# export

	-o  Output workbook path (required)

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	COLUMN_SCHEMA  → -schema
	SESSION_SALT   → -session-salt
	STRICT_COLUMNS → -strict
	EXCEL_PATH     → -f

CLI flags take precedence over environment variables. A .env file in the
working directory is loaded by main before parsing.
*/
package cliparse
