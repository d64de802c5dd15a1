package schema

// Statement is a parsed DDL statement descriptor. The set is closed: the
// engine dispatches on the concrete type and rejects anything else.
type Statement interface {
	stmt()
}

// CreateTable adds a new table with its declared columns and inline
// constraints.
type CreateTable struct {
	Table       Table
	IfNotExists bool
}

// DropTable removes a table and everything that references it.
type DropTable struct {
	Name     string
	IfExists bool
}

// AddColumn appends a column to a table's ordered column list.
type AddColumn struct {
	Table       string
	Column      Column
	IfNotExists bool
}

// DropColumn removes a column, cascading removal of dependent indexes and
// constraints.
type DropColumn struct {
	Table    string
	Column   string
	IfExists bool
}

// AlterColumn mutates a single column in place. Exactly the set fields are
// applied; everything else is preserved.
type AlterColumn struct {
	Table  string
	Column string

	NewType     string  // non-empty: change the declared type
	SetDefault  *string // non-nil: set the default expression
	DropDefault bool
	SetNotNull  bool
	DropNotNull bool
}

// AddConstraint attaches a constraint to an existing table.
type AddConstraint struct {
	Table      string
	Constraint Constraint
}

// DropConstraint removes a named constraint.
type DropConstraint struct {
	Table    string
	Name     string
	IfExists bool
}

// CreateIndex adds an index.
type CreateIndex struct {
	Index       Index
	IfNotExists bool
}

// DropIndex removes a named index.
type DropIndex struct {
	Name     string
	IfExists bool
}

func (*CreateTable) stmt()    {}
func (*DropTable) stmt()      {}
func (*AddColumn) stmt()      {}
func (*DropColumn) stmt()     {}
func (*AlterColumn) stmt()    {}
func (*AddConstraint) stmt()  {}
func (*DropConstraint) stmt() {}
func (*CreateIndex) stmt()    {}
func (*DropIndex) stmt()      {}

// SourceStatement pairs a statement with the migration file it came from and
// its 1-based position within that file.
type SourceStatement struct {
	Source    string
	Index     int
	Statement Statement
}
