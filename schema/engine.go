package schema

// Apply folds a single statement into the schema. Every precondition is
// checked before any mutation, so a returned error means the schema was not
// touched.
func Apply(s *Schema, st Statement) error {
	switch st := st.(type) {
	case *CreateTable:
		if st.IfNotExists && s.Table(st.Table.Name) != nil {
			return nil
		}
		t := st.Table
		return s.AddTable(&t)

	case *DropTable:
		if st.IfExists && s.Table(st.Name) == nil {
			return nil
		}
		return s.RemoveTable(st.Name)

	case *AddColumn:
		if st.IfNotExists {
			if t := s.Table(st.Table); t != nil && t.Column(st.Column.Name) != nil {
				return nil
			}
		}
		return s.AddColumn(st.Table, st.Column)

	case *DropColumn:
		if st.IfExists {
			if t := s.Table(st.Table); t != nil && t.Column(st.Column) == nil {
				return nil
			}
		}
		return s.RemoveColumn(st.Table, st.Column)

	case *AlterColumn:
		t := s.Table(st.Table)
		if t == nil {
			return &UnknownEntityError{Kind: EntityTable, Name: st.Table}
		}
		c := t.Column(st.Column)
		if c == nil {
			return &UnknownEntityError{Kind: EntityColumn, Name: st.Column, Table: st.Table}
		}
		if st.NewType != "" {
			c.DataType = st.NewType
		}
		if st.SetDefault != nil {
			c.DefaultValue.String = *st.SetDefault
			c.DefaultValue.Valid = true
		}
		if st.DropDefault {
			c.DefaultValue.String = ""
			c.DefaultValue.Valid = false
		}
		if st.SetNotNull {
			c.IsNullable = false
		}
		if st.DropNotNull {
			c.IsNullable = true
		}
		return nil

	case *AddConstraint:
		return s.AddConstraint(st.Table, st.Constraint)

	case *DropConstraint:
		if st.IfExists {
			if t := s.Table(st.Table); t != nil && t.Constraint(st.Name) == nil {
				return nil
			}
		}
		return s.RemoveConstraint(st.Table, st.Name)

	case *CreateIndex:
		if st.IfNotExists {
			if owner, _ := s.Index(st.Index.Name); owner != nil {
				return nil
			}
		}
		return s.AddIndex(st.Index)

	case *DropIndex:
		if st.IfExists {
			if owner, _ := s.Index(st.Name); owner == nil {
				return nil
			}
		}
		return s.RemoveIndex(st.Name)

	default:
		return &UnsupportedStatementError{SQL: "unknown statement descriptor"}
	}
}

// Fold applies an ordered statement stream to an empty schema,
// short-circuiting on the first error. The error carries the offending
// migration file and statement position.
func Fold(stmts []SourceStatement) (*Schema, error) {
	s := New()
	for _, st := range stmts {
		if err := Apply(s, st.Statement); err != nil {
			return nil, &SchemaError{Source: st.Source, Index: st.Index, Err: err}
		}
	}
	return s, nil
}
