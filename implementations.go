package main

import "github.com/alc6/flyviz/schema"

type FileMigrationReader struct{}

func NewFileMigrationReader() MigrationReader {
	return &FileMigrationReader{}
}

func (r *FileMigrationReader) DiscoverMigrations(dir string) ([]Migration, error) {
	return DiscoverMigrations(dir)
}

type DDLStatementParser struct{}

func NewDDLStatementParser() StatementParser {
	return &DDLStatementParser{}
}

func (p *DDLStatementParser) ParseFile(source, content string, dialect schema.Dialect) ([]schema.SourceStatement, error) {
	return schema.ParseStatements(source, content, dialect)
}

type CanonicalRenderer struct{}

func NewCanonicalRenderer() SchemaRenderer {
	return &CanonicalRenderer{}
}

func (r *CanonicalRenderer) RenderSQL(s *schema.Schema) string {
	return schema.RenderSQL(s)
}

func (r *CanonicalRenderer) RenderMermaid(s *schema.Schema) string {
	return schema.RenderMermaid(s)
}
