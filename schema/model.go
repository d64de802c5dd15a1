package schema

// Mutators in this file validate every invariant before touching the model,
// so a failed operation leaves the schema exactly as it was.

// AddTable adds a fully declared table. Inline foreign keys may reference the
// table being created (self-reference).
func (s *Schema) AddTable(t *Table) error {
	if s.Table(t.Name) != nil {
		return &DuplicateEntityError{Kind: EntityTable, Name: t.Name}
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if seen[c.Name] {
			return &DuplicateEntityError{Kind: EntityColumn, Name: c.Name, Table: t.Name}
		}
		seen[c.Name] = true
	}
	for i := range t.Indexes {
		idx := &t.Indexes[i]
		if owner, _ := s.Index(idx.Name); owner != nil {
			return &DuplicateEntityError{Kind: EntityIndex, Name: idx.Name}
		}
		for _, col := range idx.Columns {
			if !seen[col] {
				return &UnknownEntityError{Kind: EntityColumn, Name: col, Table: t.Name}
			}
		}
	}
	var pk bool
	named := make(map[string]bool)
	for i := range t.Constraints {
		c := &t.Constraints[i]
		if c.Name != "" {
			if named[c.Name] {
				return &DuplicateEntityError{Kind: EntityConstraint, Name: c.Name, Table: t.Name}
			}
			named[c.Name] = true
		}
		if c.Kind == PrimaryKey {
			if pk {
				return &DuplicateEntityError{Kind: EntityConstraint, Name: "primary key", Table: t.Name}
			}
			pk = true
		}
		if err := s.validateConstraint(t, c); err != nil {
			return err
		}
	}
	s.Tables = append(s.Tables, t)
	return nil
}

// RemoveTable drops a table and cascades removal of every foreign key in
// other tables that references it. The table's own indexes and constraints go
// with it.
func (s *Schema) RemoveTable(name string) error {
	pos := -1
	for i, t := range s.Tables {
		if t.Name == name {
			pos = i
			break
		}
	}
	if pos < 0 {
		return &UnknownEntityError{Kind: EntityTable, Name: name}
	}
	s.Tables = append(s.Tables[:pos], s.Tables[pos+1:]...)
	for _, t := range s.Tables {
		kept := t.Constraints[:0]
		for _, c := range t.Constraints {
			if c.Kind == ForeignKey && c.RefTable == name {
				continue
			}
			kept = append(kept, c)
		}
		t.Constraints = kept
	}
	return nil
}

// AddColumn appends a column to a table.
func (s *Schema) AddColumn(table string, c Column) error {
	t := s.Table(table)
	if t == nil {
		return &UnknownEntityError{Kind: EntityTable, Name: table}
	}
	if t.Column(c.Name) != nil {
		return &DuplicateEntityError{Kind: EntityColumn, Name: c.Name, Table: table}
	}
	t.Columns = append(t.Columns, c)
	return nil
}

// RemoveColumn drops a column and cascades removal of every index whose
// column list included it and every constraint that referenced it, including
// foreign keys in other tables whose referenced columns included it. CHECK
// expressions are opaque and are left untouched.
func (s *Schema) RemoveColumn(table, column string) error {
	t := s.Table(table)
	if t == nil {
		return &UnknownEntityError{Kind: EntityTable, Name: table}
	}
	pos := -1
	for i := range t.Columns {
		if t.Columns[i].Name == column {
			pos = i
			break
		}
	}
	if pos < 0 {
		return &UnknownEntityError{Kind: EntityColumn, Name: column, Table: table}
	}
	t.Columns = append(t.Columns[:pos], t.Columns[pos+1:]...)

	keptIdx := t.Indexes[:0]
	for _, idx := range t.Indexes {
		if containsString(idx.Columns, column) {
			continue
		}
		keptIdx = append(keptIdx, idx)
	}
	t.Indexes = keptIdx

	for _, owner := range s.Tables {
		kept := owner.Constraints[:0]
		for _, c := range owner.Constraints {
			if owner == t && containsString(c.Columns, column) {
				continue
			}
			if c.Kind == ForeignKey && c.RefTable == table && containsString(c.RefColumns, column) {
				continue
			}
			kept = append(kept, c)
		}
		owner.Constraints = kept
	}
	return nil
}

// AddIndex adds an index after checking name uniqueness across the schema and
// that every listed column exists on the target table.
func (s *Schema) AddIndex(idx Index) error {
	t := s.Table(idx.Table)
	if t == nil {
		return &UnknownEntityError{Kind: EntityTable, Name: idx.Table}
	}
	if owner, _ := s.Index(idx.Name); owner != nil {
		return &DuplicateEntityError{Kind: EntityIndex, Name: idx.Name}
	}
	for _, col := range idx.Columns {
		if t.Column(col) == nil {
			return &UnknownEntityError{Kind: EntityColumn, Name: col, Table: idx.Table}
		}
	}
	t.Indexes = append(t.Indexes, idx)
	return nil
}

// RemoveIndex drops an index by name.
func (s *Schema) RemoveIndex(name string) error {
	t, _ := s.Index(name)
	if t == nil {
		return &UnknownEntityError{Kind: EntityIndex, Name: name}
	}
	kept := t.Indexes[:0]
	for _, idx := range t.Indexes {
		if idx.Name == name {
			continue
		}
		kept = append(kept, idx)
	}
	t.Indexes = kept
	return nil
}

// AddConstraint attaches a constraint to an existing table, validating that
// the referenced entities exist at this point in the fold.
func (s *Schema) AddConstraint(table string, c Constraint) error {
	t := s.Table(table)
	if t == nil {
		return &UnknownEntityError{Kind: EntityTable, Name: table}
	}
	if c.Name != "" && t.Constraint(c.Name) != nil {
		return &DuplicateEntityError{Kind: EntityConstraint, Name: c.Name, Table: table}
	}
	if c.Kind == PrimaryKey && t.primaryKey() != nil {
		return &DuplicateEntityError{Kind: EntityConstraint, Name: "primary key", Table: table}
	}
	if err := s.validateConstraint(t, &c); err != nil {
		return err
	}
	t.Constraints = append(t.Constraints, c)
	return nil
}

// RemoveConstraint drops a named constraint.
func (s *Schema) RemoveConstraint(table, name string) error {
	t := s.Table(table)
	if t == nil {
		return &UnknownEntityError{Kind: EntityTable, Name: table}
	}
	if t.Constraint(name) == nil {
		return &UnknownEntityError{Kind: EntityConstraint, Name: name, Table: table}
	}
	kept := t.Constraints[:0]
	for _, c := range t.Constraints {
		if c.Name == name {
			continue
		}
		kept = append(kept, c)
	}
	t.Constraints = kept
	return nil
}

// validateConstraint checks a constraint against t, which may not be part of
// the schema yet (inline constraints during AddTable). Self-referencing
// foreign keys resolve against t itself.
func (s *Schema) validateConstraint(t *Table, c *Constraint) error {
	for _, col := range c.Columns {
		if t.Column(col) == nil {
			return &UnknownEntityError{Kind: EntityColumn, Name: col, Table: t.Name}
		}
	}
	if c.Kind != ForeignKey {
		return nil
	}
	ref := s.Table(c.RefTable)
	if ref == nil && c.RefTable == t.Name {
		ref = t
	}
	if ref == nil {
		return &UnknownEntityError{Kind: EntityTable, Name: c.RefTable}
	}
	for _, col := range c.RefColumns {
		if ref.Column(col) == nil {
			return &UnknownEntityError{Kind: EntityColumn, Name: col, Table: ref.Name}
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
