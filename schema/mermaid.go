package schema

import (
	"fmt"
	"strings"
)

// RenderMermaid emits an erDiagram block: one entity per table in
// first-creation order with typed columns and PK/FK/UK/NN markers, then one
// relationship line per foreign key. Cardinality follows the first child
// column's nullability: a not-null foreign key renders one-to-one-or-more,
// a nullable one renders one-to-zero-or-more.
func RenderMermaid(s *Schema) string {
	if len(s.Tables) == 0 {
		return ""
	}
	lines := []string{"erDiagram"}
	var relationships []string
	seen := make(map[string]bool)

	for _, table := range s.Tables {
		lines = append(lines, fmt.Sprintf("    %s {", table.Name))
		for _, col := range table.Columns {
			// spaces would break mermaid attribute parsing
			colType := strings.ReplaceAll(strings.ToLower(col.DataType), " ", "_")
			markers := columnMarkers(table, col)
			line := fmt.Sprintf("        %s %s", colType, col.Name)
			if markers != "" {
				line += fmt.Sprintf(" \"%s\"", markers)
			}
			lines = append(lines, line)
		}
		lines = append(lines, "    }", "")

		for _, c := range table.Constraints {
			if c.Kind != ForeignKey || len(c.Columns) == 0 {
				continue
			}
			cardinality := "||--o{"
			if child := table.Column(c.Columns[0]); child != nil && !child.IsNullable {
				cardinality = "||--|{"
			}
			rel := fmt.Sprintf("    %s %s %s : \"FK: %s\"",
				c.RefTable, cardinality, table.Name, c.Columns[0])
			if !seen[rel] {
				seen[rel] = true
				relationships = append(relationships, rel)
			}
		}
	}

	if len(relationships) > 0 {
		lines = append(lines, "    %% -- Relationships --")
		lines = append(lines, relationships...)
	}
	return strings.Join(lines, "\n")
}

func columnMarkers(t *Table, col Column) string {
	var markers []string
	var pk, fk, uk bool
	for _, c := range t.Constraints {
		if !containsString(c.Columns, col.Name) {
			continue
		}
		switch c.Kind {
		case PrimaryKey:
			pk = true
		case ForeignKey:
			fk = true
		case Unique:
			uk = true
		}
	}
	if pk {
		markers = append(markers, "PK")
	}
	if fk {
		markers = append(markers, "FK")
	}
	if uk {
		markers = append(markers, "UK")
	}
	if !col.IsNullable {
		markers = append(markers, "NN")
	}
	return strings.Join(markers, ",")
}
