package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/alc6/flyviz/schema"
)

// StartMCPServer starts the MCP server exposing schema reconstruction tools
func StartMCPServer() error {
	s := server.NewMCPServer(
		"flyviz",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	generateSchemaTool := mcp.NewTool("generate_schema",
		mcp.WithDescription("Reconstruct the final schema from Flyway migration files without running them"),
		mcp.WithString("migration_directory",
			mcp.Required(),
			mcp.Description("Path to directory containing versioned migration files"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'text' for canonical DDL (default), 'mermaid' for an ER diagram"),
			mcp.Enum("text", "mermaid"),
		),
		mcp.WithString("dialect",
			mcp.Description("SQL dialect hint for parsing (default: postgres)"),
		),
	)

	s.AddTool(generateSchemaTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGenerateSchema(ctx, request)
	})

	validateMigrationsTool := mcp.NewTool("validate_migrations",
		mcp.WithDescription("Validate that a migration chain replays cleanly, reporting the first structural error"),
		mcp.WithString("migration_directory",
			mcp.Required(),
			mcp.Description("Path to directory containing versioned migration files"),
		),
		mcp.WithString("dialect",
			mcp.Description("SQL dialect hint for parsing (default: postgres)"),
		),
	)

	s.AddTool(validateMigrationsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleValidateMigrations(ctx, request)
	})

	slog.Info("starting flyviz mcp server")
	return server.ServeStdio(s)
}

// handleGenerateSchema processes the generate_schema tool request
func handleGenerateSchema(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	migrationDir, err := request.RequireString("migration_directory")
	if err != nil {
		return mcp.NewToolResultError("migration_directory parameter is required"), nil
	}

	format := request.GetString("format", "text")
	dialect := request.GetString("dialect", "postgres")

	output, err := generateSchemaCore(migrationDir, format, dialect)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("schema generated successfully:\n\n%s", output)), nil
}

// generateSchemaCore contains the core logic for schema generation, separated for testing
func generateSchemaCore(migrationDir, format, dialect string) (string, error) {
	migrationReader := NewFileMigrationReader()
	statementParser := NewDDLStatementParser()
	renderer := NewCanonicalRenderer()

	return generateSchemaCoreWithDeps(migrationDir, format, dialect, migrationReader, statementParser, renderer)
}

// generateSchemaCoreWithDeps is the testable version with dependency injection
func generateSchemaCoreWithDeps(migrationDir, format, dialect string,
	migrationReader MigrationReader, statementParser StatementParser, renderer SchemaRenderer) (string, error) {
	if format != "text" && format != "mermaid" {
		return "", fmt.Errorf("unknown output format: %s", format)
	}

	final, _, err := replayMigrations(migrationDir, dialect, migrationReader, statementParser)
	if err != nil {
		return "", err
	}

	if format == "mermaid" {
		return renderer.RenderMermaid(final), nil
	}
	return renderer.RenderSQL(final), nil
}

// replayMigrations discovers, parses and folds a migration chain.
func replayMigrations(migrationDir, dialect string,
	migrationReader MigrationReader, statementParser StatementParser) (*schema.Schema, []Migration, error) {
	if _, err := os.Stat(migrationDir); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("migration directory does not exist: %s", migrationDir)
	}

	migrations, err := migrationReader.DiscoverMigrations(migrationDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to discover migrations: %w", err)
	}

	if len(migrations) == 0 {
		return nil, nil, fmt.Errorf("no migration files found in directory: %s", migrationDir)
	}

	var stmts []schema.SourceStatement
	for _, migration := range migrations {
		content, err := os.ReadFile(migration.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read migration file %s: %w", migration.Path, err)
		}
		parsed, err := statementParser.ParseFile(migration.Path, string(content), schema.Dialect(dialect))
		if err != nil {
			return nil, migrations, err
		}
		stmts = append(stmts, parsed...)
	}

	final, err := schema.Fold(stmts)
	if err != nil {
		return nil, migrations, err
	}
	return final, migrations, nil
}

// handleValidateMigrations processes the validate_migrations tool request
func handleValidateMigrations(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	migrationDir, err := request.RequireString("migration_directory")
	if err != nil {
		return mcp.NewToolResultError("migration_directory parameter is required"), nil
	}

	dialect := request.GetString("dialect", "postgres")

	output, err := validateMigrationsCore(migrationDir, dialect)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("migration validation completed:\n\n%s", output)), nil
}

// validateMigrationsCore contains the core logic for migration validation, separated for testing
func validateMigrationsCore(migrationDir, dialect string) (string, error) {
	migrationReader := NewFileMigrationReader()
	statementParser := NewDDLStatementParser()

	final, migrations, replayErr := replayMigrations(migrationDir, dialect, migrationReader, statementParser)
	if replayErr != nil && migrations == nil {
		return "", replayErr
	}

	result := map[string]interface{}{
		"valid":           replayErr == nil,
		"migration_count": len(migrations),
		"migrations":      make([]map[string]interface{}, len(migrations)),
	}

	for i, migration := range migrations {
		result["migrations"].([]map[string]interface{})[i] = map[string]interface{}{
			"version":     migration.Version.String(),
			"description": migration.Description,
			"file":        migration.Path,
		}
	}

	if replayErr != nil {
		var schemaErr *schema.SchemaError
		if errors.As(replayErr, &schemaErr) {
			result["error"] = map[string]interface{}{
				"file":      schemaErr.Source,
				"statement": schemaErr.Index,
				"message":   schemaErr.Err.Error(),
			}
		} else {
			result["error"] = replayErr.Error()
		}
	} else {
		result["table_count"] = len(final.Tables)
	}

	jsonOutput, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result to JSON: %w", err)
	}

	return string(jsonOutput), nil
}
