// Package cli implements the griot admin commands: content-type inspection
// and document CRUD against a local SQLite database, with content types
// described by a JSON descriptor file.
package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/asaidimu/go-griot/core/document"
	"github.com/asaidimu/go-griot/core/schema"
	"github.com/asaidimu/go-griot/sqlite"
)

var (
	dbPath    string
	typesPath string
	verbose   bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "griot",
	Short: "Schemaless document engine over SQLite",
	Long:  "Store, query and cross-reference documents whose content types are defined at runtime in a JSON descriptor file.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $GRIOT_DB or ./griot.db)")
	RootCmd.PersistentFlags().StringVarP(&typesPath, "types", "t", "", "Content-type descriptor file (default: $GRIOT_TYPES or ./content-types.json)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("GRIOT_DB"); env != "" {
		return env
	}
	return "griot.db"
}

func getTypesPath() string {
	if typesPath != "" {
		return typesPath
	}
	if env := os.Getenv("GRIOT_TYPES"); env != "" {
		return env
	}
	return "content-types.json"
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// loadRegistry reads the content-type descriptor file into a registry.
func loadRegistry(path string) (*schema.Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content types: %w", err)
	}
	var types []*schema.ContentType
	if err := json.Unmarshal(raw, &types); err != nil {
		return nil, fmt.Errorf("parse content types: %w", err)
	}
	registry := schema.NewRegistry()
	for _, ct := range types {
		if err := registry.Register(ct); err != nil {
			return nil, fmt.Errorf("register %q: %w", ct.PluralID, err)
		}
	}
	return registry, nil
}

// openEngine wires registry, store and graph into an engine, returning the
// close function for the underlying database.
func openEngine() (*document.Engine, *schema.Registry, func(), error) {
	registry, err := loadRegistry(getTypesPath())
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := sql.Open("sqlite3", getDBPath())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open db: %w", err)
	}
	logger := newLogger()
	store, err := sqlite.NewStore(db, logger)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	engine, err := document.NewEngine(registry, store, store, document.WithLogger(logger))
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return engine, registry, func() { db.Close() }, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
