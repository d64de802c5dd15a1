package main

import "github.com/alc6/flyviz/schema"

// MockMigrationReader is a mock implementation of MigrationReader for testing
type MockMigrationReader struct {
	DiscoverMigrationsFunc func(dir string) ([]Migration, error)

	// Track calls for verification
	DiscoverMigrationsCalled bool
}

func (m *MockMigrationReader) DiscoverMigrations(dir string) ([]Migration, error) {
	m.DiscoverMigrationsCalled = true
	if m.DiscoverMigrationsFunc != nil {
		return m.DiscoverMigrationsFunc(dir)
	}
	return []Migration{}, nil
}

// MockStatementParser is a mock implementation of StatementParser for testing
type MockStatementParser struct {
	ParseFileFunc func(source, content string, dialect schema.Dialect) ([]schema.SourceStatement, error)

	ParseFileCalled bool
}

func (m *MockStatementParser) ParseFile(source, content string, dialect schema.Dialect) ([]schema.SourceStatement, error) {
	m.ParseFileCalled = true
	if m.ParseFileFunc != nil {
		return m.ParseFileFunc(source, content, dialect)
	}
	return nil, nil
}

// MockSchemaRenderer is a mock implementation of SchemaRenderer for testing
type MockSchemaRenderer struct {
	RenderSQLFunc     func(s *schema.Schema) string
	RenderMermaidFunc func(s *schema.Schema) string

	RenderSQLCalled     bool
	RenderMermaidCalled bool
}

func (m *MockSchemaRenderer) RenderSQL(s *schema.Schema) string {
	m.RenderSQLCalled = true
	if m.RenderSQLFunc != nil {
		return m.RenderSQLFunc(s)
	}
	return ""
}

func (m *MockSchemaRenderer) RenderMermaid(s *schema.Schema) string {
	m.RenderMermaidCalled = true
	if m.RenderMermaidFunc != nil {
		return m.RenderMermaidFunc(s)
	}
	return ""
}
