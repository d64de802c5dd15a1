package main

import "github.com/alc6/flyviz/schema"

// MigrationReader handles discovering migration files
type MigrationReader interface {
	// DiscoverMigrations finds all versioned migration files in the given
	// directory, sorted by version
	DiscoverMigrations(dir string) ([]Migration, error)
}

// StatementParser translates migration file content into statement descriptors
type StatementParser interface {
	// ParseFile parses one file's content, tagging every descriptor with the
	// source name and its statement position
	ParseFile(source, content string, dialect schema.Dialect) ([]schema.SourceStatement, error)
}

// SchemaRenderer serializes a final schema
type SchemaRenderer interface {
	// RenderSQL renders the schema as canonical DDL text
	RenderSQL(s *schema.Schema) string
	// RenderMermaid renders the schema as a mermaid ER diagram
	RenderMermaid(s *schema.Schema) string
}
