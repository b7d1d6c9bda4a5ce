package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/encuesta/cliparse"
	"github.com/danielhkuo/encuesta/columns"
	"github.com/danielhkuo/encuesta/db"
	"github.com/danielhkuo/encuesta/middleware"
	"github.com/danielhkuo/encuesta/router"
	"github.com/danielhkuo/encuesta/spreadsheet"
)

func main() {
	// A missing .env is fine; anything else is worth knowing about
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = serve(args)
	case "import":
		err = runImport(args)
	case "export":
		err = runExport(args)
	default:
		err = fmt.Errorf("unknown command %q (want serve, import or export)", cmd)
	}
	if err != nil {
		slog.Error("command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

// openStore connects to the configured database, creates the schema and
// loads the column schema.
func openStore(sc cliparse.StoreConfig) (*sql.DB, *db.Store, columns.Schema, error) {
	schema, err := columns.LoadSchema(sc.SchemaPath)
	if err != nil {
		return nil, nil, columns.Schema{}, err
	}

	conn, err := db.Open(sc.DatabaseType, sc.DatabaseURL)
	if err != nil {
		return nil, nil, columns.Schema{}, fmt.Errorf("database connection failed: %w", err)
	}

	// Create schema (tables)
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, nil, columns.Schema{}, fmt.Errorf("schema creation failed: %w", err)
	}
	slog.Info("Database schema ready", "type", sc.DatabaseType)

	return conn, db.NewStore(conn, sc.DatabaseType), schema, nil
}

func serve(args []string) error {
	cfg, err := cliparse.ParseFlags(args)
	if err != nil {
		return err
	}

	conn, store, schema, err := openStore(cfg.StoreConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	// The header row is read once; a re-import needs a restart
	headers, err := store.Headers(context.Background())
	if err != nil {
		return err
	}
	catalog := columns.NewCatalog(headers, schema)
	if len(headers) == 0 {
		slog.Warn("no survey imported yet; run the import command first")
	}
	slog.Info("columns loaded", "headers", len(catalog.Headers), "questions", len(catalog.Questions), "strict", cfg.StrictColumns)

	// Create router
	mux := router.NewRouter(store, cfg, catalog)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	slog.Info("Server closed")
	return nil
}

func runImport(args []string) error {
	cfg, err := cliparse.ParseImportFlags(args)
	if err != nil {
		return err
	}

	conn, store, schema, err := openStore(cfg.StoreConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	sheet, err := spreadsheet.ReadFile(cfg.ExcelPath, cfg.Sheet)
	if err != nil {
		return err
	}
	imp, err := spreadsheet.BuildRecords(sheet, schema)
	if err != nil {
		return err
	}
	for _, s := range imp.Skipped {
		slog.Warn("row skipped", "sheet", sheet.Name, "row", s.Row, "reason", s.Reason)
	}

	ctx := context.Background()
	existing, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if existing > 0 && !cfg.Force {
		return fmt.Errorf("%d municipalities already stored; rerun with -force to replace them and discard their edits", existing)
	}

	run, err := store.ReplaceAll(ctx, cfg.ExcelPath, imp.Headers, imp.Records)
	if err != nil {
		return err
	}
	catalog := columns.NewCatalog(imp.Headers, schema)
	slog.Info("import complete",
		"import_id", run.ID,
		"records", run.Records,
		"replaced", run.Replaced,
		"skipped", len(imp.Skipped),
		"questions", len(catalog.Questions),
	)
	return nil
}

func runExport(args []string) error {
	cfg, err := cliparse.ParseExportFlags(args)
	if err != nil {
		return err
	}

	conn, store, schema, err := openStore(cfg.StoreConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := context.Background()
	headers, err := store.Headers(ctx)
	if err != nil {
		return err
	}
	records, err := store.List(ctx, 0)
	if err != nil {
		return err
	}

	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", cfg.OutputPath, err)
	}
	if err := spreadsheet.Write(f, headers, records, schema); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	slog.Info("export complete", "path", cfg.OutputPath, "records", len(records))
	return nil
}
