package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
)

// DefaultSQLitePath is used when no database URL is given for SQLite.
const DefaultSQLitePath = "data/encuesta.db"

// DefaultExcelPath is the workbook read by the import command.
const DefaultExcelPath = "data/ENCUESTAS_datosIA.xlsx"

// StoreConfig selects the database and column schema shared by every command.
type StoreConfig struct {
	DatabaseURL  string
	DatabaseType string
	SchemaPath   string
}

// Config is the serve command's configuration.
type Config struct {
	StoreConfig
	Port          int
	SessionSalt   string
	StrictColumns bool
}

type ImportConfig struct {
	StoreConfig
	ExcelPath string
	Sheet     string
	Force     bool
}

type ExportConfig struct {
	StoreConfig
	OutputPath string
}

func storeFlags(fs *flag.FlagSet, sc *StoreConfig) {
	fs.StringVar(&sc.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&sc.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&sc.SchemaPath, "schema", "", "Column schema YAML file")
}

// resolve fills unset store values from the environment and defaults.
func (sc *StoreConfig) resolve() error {
	if sc.DatabaseType == "" {
		sc.DatabaseType = os.Getenv("DATABASE_TYPE")
		if sc.DatabaseType == "" {
			sc.DatabaseType = "sqlite"
		}
	}
	if sc.DatabaseType != "sqlite" && sc.DatabaseType != "postgres" {
		return fmt.Errorf("unsupported database type %q", sc.DatabaseType)
	}

	if sc.DatabaseURL == "" {
		sc.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if sc.DatabaseURL == "" {
		if sc.DatabaseType != "sqlite" {
			return errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		sc.DatabaseURL = DefaultSQLitePath
	}

	if sc.SchemaPath == "" {
		sc.SchemaPath = os.Getenv("COLUMN_SCHEMA")
	}
	return nil
}

// ParseFlags parses the serve command's flags
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("encuesta serve", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	storeFlags(fs, &cfg.StoreConfig)
	fs.BoolVar(&cfg.StrictColumns, "strict", false, "Reject edits to unknown columns")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSalt, "session-salt", "", "Session token salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if err := cfg.StoreConfig.resolve(); err != nil {
		return Config{}, err
	}

	if !cfg.StrictColumns {
		if s := os.Getenv("STRICT_COLUMNS"); s != "" {
			strict, err := strconv.ParseBool(s)
			if err != nil {
				return Config{}, errors.New("invalid STRICT_COLUMNS env variable")
			}
			cfg.StrictColumns = strict
		}
	}

	// Secrets - MUST be provided
	if cfg.SessionSalt == "" {
		cfg.SessionSalt = os.Getenv("SESSION_SALT")
	}
	if cfg.SessionSalt == "" {
		return Config{}, errors.New("SESSION_SALT required")
	}

	return cfg, nil
}

// ParseImportFlags parses the import command's flags
func ParseImportFlags(args []string) (ImportConfig, error) {
	var cfg ImportConfig

	fs := flag.NewFlagSet("encuesta import", flag.ContinueOnError)
	storeFlags(fs, &cfg.StoreConfig)
	fs.StringVar(&cfg.ExcelPath, "f", "", "Workbook to import")
	fs.StringVar(&cfg.Sheet, "sheet", "", "Sheet name (default: first sheet)")
	fs.BoolVar(&cfg.Force, "force", false, "Replace existing records and their edits")

	if err := fs.Parse(args); err != nil {
		return ImportConfig{}, err
	}

	if cfg.ExcelPath == "" {
		cfg.ExcelPath = os.Getenv("EXCEL_PATH")
		if cfg.ExcelPath == "" {
			cfg.ExcelPath = DefaultExcelPath
		}
	}
	if err := cfg.StoreConfig.resolve(); err != nil {
		return ImportConfig{}, err
	}
	return cfg, nil
}

// ParseExportFlags parses the export command's flags
func ParseExportFlags(args []string) (ExportConfig, error) {
	var cfg ExportConfig

	fs := flag.NewFlagSet("encuesta export", flag.ContinueOnError)
	storeFlags(fs, &cfg.StoreConfig)
	fs.StringVar(&cfg.OutputPath, "o", "", "Output workbook path")

	if err := fs.Parse(args); err != nil {
		return ExportConfig{}, err
	}

	if cfg.OutputPath == "" {
		return ExportConfig{}, errors.New("output path required (use -o)")
	}
	if err := cfg.StoreConfig.resolve(); err != nil {
		return ExportConfig{}, err
	}
	return cfg, nil
}
