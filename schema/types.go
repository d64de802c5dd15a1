package schema

import "database/sql"

// Dialect is the hint forwarded to the statement parser. The engine itself is
// dialect-agnostic: column types are carried as opaque strings.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
)

// Schema is the cumulative result of folding a migration chain. Tables keep
// their first-creation order, which drives rendering order.
type Schema struct {
	Tables []*Table
}

// Table represents a database table with its columns, indexes and constraints.
type Table struct {
	Name        string
	Columns     []Column
	Indexes     []Index
	Constraints []Constraint
}

// Column represents a database column. DataType is kept exactly as declared.
type Column struct {
	Name         string
	DataType     string
	IsNullable   bool
	DefaultValue sql.NullString
	IsIdentity   bool
}

// Index represents a database index. Index names are unique across the whole
// schema, matching real DDL scoping.
type Index struct {
	Name     string
	Table    string
	Columns  []string
	IsUnique bool
}

// ConstraintKind enumerates the supported table constraint kinds.
type ConstraintKind string

const (
	PrimaryKey ConstraintKind = "PRIMARY KEY"
	Unique     ConstraintKind = "UNIQUE"
	ForeignKey ConstraintKind = "FOREIGN KEY"
	Check      ConstraintKind = "CHECK"
)

// RefAction is a foreign key referential action. The zero value means the
// statement left the action unspecified.
type RefAction string

const (
	ActionNone     RefAction = ""
	ActionCascade  RefAction = "CASCADE"
	ActionSetNull  RefAction = "SET NULL"
	ActionRestrict RefAction = "RESTRICT"
	ActionNoAction RefAction = "NO ACTION"
)

// Constraint represents a table constraint. Name may be empty for unnamed
// constraints. Columns holds the constrained (child) columns for PRIMARY KEY,
// UNIQUE and FOREIGN KEY; RefTable/RefColumns and the actions are set for
// FOREIGN KEY only; CheckExpr is set for CHECK only.
type Constraint struct {
	Name       string
	Kind       ConstraintKind
	Columns    []string
	RefTable   string
	RefColumns []string
	OnDelete   RefAction
	OnUpdate   RefAction
	CheckExpr  string
}

// New returns an empty schema.
func New() *Schema {
	return &Schema{}
}

// Table returns the table with the given name, or nil.
func (s *Schema) Table(name string) *Table {
	for _, t := range s.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Index returns the index with the given name and its owning table, or nils.
func (s *Schema) Index(name string) (*Table, *Index) {
	for _, t := range s.Tables {
		for i := range t.Indexes {
			if t.Indexes[i].Name == name {
				return t, &t.Indexes[i]
			}
		}
	}
	return nil, nil
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Constraint returns the named constraint, or nil. Unnamed constraints are
// never matched.
func (t *Table) Constraint(name string) *Constraint {
	if name == "" {
		return nil
	}
	for i := range t.Constraints {
		if t.Constraints[i].Name == name {
			return &t.Constraints[i]
		}
	}
	return nil
}

func (t *Table) primaryKey() *Constraint {
	for i := range t.Constraints {
		if t.Constraints[i].Kind == PrimaryKey {
			return &t.Constraints[i]
		}
	}
	return nil
}
