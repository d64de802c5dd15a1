package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alc6/flyviz/schema"
)

var (
	dialectFlag string
	outputFlag  string
	formatFlag  string
	mcpMode     bool
)

var rootCmd = &cobra.Command{
	Use:   "flyviz [migration-directory]",
	Short: "Reconstruct the final schema from Flyway migration files",
	Long: `flyviz takes a directory of Flyway-style versioned migration files
(V<version>__<description>.sql), replays the DDL statements in version order
against an in-memory schema model, and renders the final schema - all without
touching a live database.

Formats:
  text (default): canonical DDL statements recreating the final schema
  mermaid: entity-relationship diagram (erDiagram block)

Modes:
  --mcp: run as Model Context Protocol server`,
	Args: func(cmd *cobra.Command, args []string) error {
		if mcpMode {
			return nil
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	Run: runFlyviz,
}

func main() {
	if err := run(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	if rootCmd.Flags().Lookup("dialect") == nil {
		rootCmd.Flags().StringVarP(&dialectFlag, "dialect", "d", "postgres", "SQL dialect hint for parsing (postgres, mysql, sqlite)")
	}
	if rootCmd.Flags().Lookup("output") == nil {
		rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the rendered schema to a file instead of stdout")
	}
	if rootCmd.Flags().Lookup("format") == nil {
		rootCmd.Flags().StringVar(&formatFlag, "format", "text", "Output format (text or mermaid)")
	}
	if rootCmd.Flags().Lookup("mcp") == nil {
		rootCmd.Flags().BoolVar(&mcpMode, "mcp", false, "Run as Model Context Protocol server")
	}

	return rootCmd.Execute()
}

func runFlyviz(cmd *cobra.Command, args []string) {
	if mcpMode {
		slog.Info("starting mcp server")
		if err := StartMCPServer(); err != nil {
			slog.Error("failed to start mcp server", "error", err)
			os.Exit(1)
		}
		return
	}

	migrationDir := args[0]

	migrationReader := NewFileMigrationReader()
	statementParser := NewDDLStatementParser()
	renderer := NewCanonicalRenderer()

	if err := processSchema(migrationDir, dialectFlag, formatFlag, outputFlag, migrationReader, statementParser, renderer); err != nil {
		slog.Error("failed to process schema", "error", err)
		os.Exit(1)
	}
}

func processSchema(migrationDir, dialect, format, output string, migrationReader MigrationReader, statementParser StatementParser, renderer SchemaRenderer) error {
	slog.Info("processing migration directory", "directory", migrationDir, "dialect", dialect)

	if format != "text" && format != "mermaid" {
		return fmt.Errorf("unknown output format: %s", format)
	}

	if _, err := os.Stat(migrationDir); os.IsNotExist(err) {
		return fmt.Errorf("migration directory does not exist: %s", migrationDir)
	}

	migrations, err := migrationReader.DiscoverMigrations(migrationDir)
	if err != nil {
		return fmt.Errorf("failed to discover migrations: %w", err)
	}

	if len(migrations) == 0 {
		return fmt.Errorf("no migration files found in directory: %s", migrationDir)
	}

	slog.Info("parsing migration files", "count", len(migrations))
	var stmts []schema.SourceStatement
	for _, migration := range migrations {
		content, err := os.ReadFile(migration.Path)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", migration.Path, err)
		}
		parsed, err := statementParser.ParseFile(migration.Path, string(content), schema.Dialect(dialect))
		if err != nil {
			return err
		}
		slog.Debug("parsed migration", "file", migration.Path, "version", migration.Version.String(), "statements", len(parsed))
		stmts = append(stmts, parsed...)
	}

	slog.Info("replaying statements", "count", len(stmts))
	final, err := schema.Fold(stmts)
	if err != nil {
		return err
	}

	var rendered string
	if format == "mermaid" {
		rendered = renderer.RenderMermaid(final)
	} else {
		rendered = renderer.RenderSQL(final)
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(rendered), 0644); err != nil {
			return fmt.Errorf("failed to write output file %s: %w", output, err)
		}
		slog.Info("schema written", "file", output)
		return nil
	}

	fmt.Print(rendered)
	return nil
}
