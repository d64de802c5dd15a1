package schema

import (
	"fmt"
	"strings"
)

// RenderSQL emits the canonical DDL that recreates the schema from empty:
// one create table statement per table in first-creation order, columns in
// declaration order, constraints inline (never as separate alter table add
// constraint statements), followed by the table's create index statements.
// Output is byte-identical across invocations on the same schema.
func RenderSQL(s *Schema) string {
	var sb strings.Builder

	for _, table := range s.Tables {
		sb.WriteString(fmt.Sprintf("create table %s (\n", table.Name))

		var defs []string
		for _, col := range table.Columns {
			defs = append(defs, "    "+renderColumn(col))
		}
		for _, c := range table.Constraints {
			defs = append(defs, "    "+renderConstraint(c))
		}
		sb.WriteString(strings.Join(defs, ",\n"))
		sb.WriteString("\n);\n\n")

		for _, idx := range table.Indexes {
			unique := ""
			if idx.IsUnique {
				unique = "unique "
			}
			sb.WriteString(fmt.Sprintf("create %sindex %s on %s (%s);\n",
				unique, idx.Name, table.Name, strings.Join(idx.Columns, ", ")))
		}
		if len(table.Indexes) > 0 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func renderColumn(col Column) string {
	var b strings.Builder
	b.WriteString(col.Name)
	b.WriteString(" ")
	b.WriteString(strings.ToLower(col.DataType))

	if col.IsIdentity && !serialTypes[strings.ToLower(col.DataType)] {
		b.WriteString(" generated always as identity")
	}
	if !col.IsNullable {
		b.WriteString(" not null")
	}
	if col.DefaultValue.Valid {
		b.WriteString(" default ")
		b.WriteString(col.DefaultValue.String)
	}
	return b.String()
}

func renderConstraint(c Constraint) string {
	var b strings.Builder
	if c.Name != "" {
		b.WriteString("constraint ")
		b.WriteString(c.Name)
		b.WriteString(" ")
	}
	switch c.Kind {
	case PrimaryKey:
		fmt.Fprintf(&b, "primary key (%s)", strings.Join(c.Columns, ", "))
	case Unique:
		fmt.Fprintf(&b, "unique (%s)", strings.Join(c.Columns, ", "))
	case ForeignKey:
		fmt.Fprintf(&b, "foreign key (%s) references %s", strings.Join(c.Columns, ", "), c.RefTable)
		if len(c.RefColumns) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(c.RefColumns, ", "))
		}
		if c.OnDelete != ActionNone {
			fmt.Fprintf(&b, " on delete %s", strings.ToLower(string(c.OnDelete)))
		}
		if c.OnUpdate != ActionNone {
			fmt.Fprintf(&b, " on update %s", strings.ToLower(string(c.OnUpdate)))
		}
	case Check:
		fmt.Fprintf(&b, "check (%s)", c.CheckExpr)
	}
	return b.String()
}
