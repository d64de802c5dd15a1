package schema

import "fmt"

// EntityKind names the kind of schema object an error refers to.
type EntityKind string

const (
	EntityTable      EntityKind = "table"
	EntityColumn     EntityKind = "column"
	EntityIndex      EntityKind = "index"
	EntityConstraint EntityKind = "constraint"
)

// DuplicateEntityError reports an attempt to create an object that already
// exists under that identity.
type DuplicateEntityError struct {
	Kind  EntityKind
	Name  string
	Table string
}

func (e *DuplicateEntityError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s %q already exists on table %q", e.Kind, e.Name, e.Table)
	}
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Name)
}

// UnknownEntityError reports a reference to an object that does not exist at
// this point in the fold.
type UnknownEntityError struct {
	Kind  EntityKind
	Name  string
	Table string
}

func (e *UnknownEntityError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s %q does not exist on table %q", e.Kind, e.Name, e.Table)
	}
	return fmt.Sprintf("%s %q does not exist", e.Kind, e.Name)
}

// UnsupportedStatementError reports a statement the engine has no semantics
// for.
type UnsupportedStatementError struct {
	SQL string
}

func (e *UnsupportedStatementError) Error() string {
	return fmt.Sprintf("unsupported statement: %s", e.SQL)
}

// ParseError reports migration file content that could not be translated into
// a statement descriptor.
type ParseError struct {
	SQL    string
	Reason string
}

func (e *ParseError) Error() string {
	if e.SQL == "" {
		return fmt.Sprintf("parse error: %s", e.Reason)
	}
	return fmt.Sprintf("parse error: %s in %q", e.Reason, e.SQL)
}

// SchemaError tags a fatal error with the migration file and the 1-based
// statement position within it. The fold aborts on the first one.
type SchemaError struct {
	Source string
	Index  int
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: statement %d: %v", e.Source, e.Index, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
