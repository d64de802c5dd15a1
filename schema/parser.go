package schema

import (
	"fmt"
	"strings"
)

// ParseStatements translates the text of one migration file into statement
// descriptors tagged with their source and 1-based position. The dialect hint
// only affects lexing (backticks, double-quoted strings); column types and
// expressions are carried through as opaque text.
//
// A single DDL statement may expand into several descriptors (an ALTER TABLE
// with multiple actions, a DROP TABLE naming several tables); all of them
// share the originating statement's position.
func ParseStatements(source, content string, dialect Dialect) ([]SourceStatement, error) {
	var out []SourceStatement
	n := 0
	for _, raw := range splitStatements(content) {
		n++
		toks, err := lex(raw, dialect)
		if err != nil {
			return nil, &SchemaError{Source: source, Index: n, Err: err}
		}
		if len(toks) == 0 {
			n--
			continue
		}
		p := &parser{toks: toks, raw: raw, dialect: dialect}
		stmts, err := p.parseStatement()
		if err != nil {
			return nil, &SchemaError{Source: source, Index: n, Err: err}
		}
		for _, st := range stmts {
			out = append(out, SourceStatement{Source: source, Index: n, Statement: st})
		}
	}
	return out, nil
}

// splitStatements splits file content on semicolons, honoring string
// literals, quoted identifiers and comments. Returned chunks may still be
// blank (comment-only); the lexer filters those out.
func splitStatements(content string) []string {
	var stmts []string
	var start int
	i := 0
	for i < len(content) {
		switch c := content[i]; c {
		case '\'', '"', '`':
			i++
			for i < len(content) && content[i] != c {
				i++
			}
			i++
		case '-':
			if i+1 < len(content) && content[i+1] == '-' {
				for i < len(content) && content[i] != '\n' {
					i++
				}
			} else {
				i++
			}
		case '/':
			if i+1 < len(content) && content[i+1] == '*' {
				if end := strings.Index(content[i+2:], "*/"); end >= 0 {
					i += end + 4
				} else {
					i = len(content)
				}
			} else {
				i++
			}
		case ';':
			if s := strings.TrimSpace(content[start:i]); s != "" {
				stmts = append(stmts, s)
			}
			i++
			start = i
		default:
			i++
		}
	}
	if s := strings.TrimSpace(content[start:]); s != "" {
		stmts = append(stmts, s)
	}
	return stmts
}

type tokKind int

const (
	tokWord tokKind = iota
	tokNumber
	tokString
	tokQuoted
	tokPunct
)

type token struct {
	kind tokKind
	text string // raw text, quotes included
	norm string // uppercase form for words, unquoted value for quoted identifiers
}

func lex(src string, dialect Dialect) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '-' && i+1 < len(src) && src[i+1] == '-':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, &ParseError{Reason: "unterminated block comment"}
			}
			i += end + 4
		case c == '\'':
			j := i + 1
			for {
				if j >= len(src) {
					return nil, &ParseError{Reason: "unterminated string literal"}
				}
				if src[j] == '\'' {
					if j+1 < len(src) && src[j+1] == '\'' {
						j += 2
						continue
					}
					break
				}
				j++
			}
			toks = append(toks, token{kind: tokString, text: src[i : j+1]})
			i = j + 1
		case c == '"' || c == '`':
			j := i + 1
			for j < len(src) && src[j] != c {
				j++
			}
			if j >= len(src) {
				return nil, &ParseError{Reason: "unterminated quoted identifier"}
			}
			kind := tokQuoted
			if c == '"' && dialect == DialectMySQL {
				// mysql treats double quotes as string literals by default
				kind = tokString
			}
			toks = append(toks, token{kind: kind, text: src[i : j+1], norm: src[i+1 : j]})
			i = j + 1
		case isWordStart(c):
			j := i
			for j < len(src) && isWordChar(src[j]) {
				j++
			}
			w := src[i:j]
			toks = append(toks, token{kind: tokWord, text: w, norm: strings.ToUpper(w)})
			i = j
		case c >= '0' && c <= '9':
			j := i
			for j < len(src) && (src[j] >= '0' && src[j] <= '9' || src[j] == '.') {
				j++
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:j]})
			i = j
		default:
			if i+1 < len(src) && twoCharOps[src[i:i+2]] {
				toks = append(toks, token{kind: tokPunct, text: src[i : i+2]})
				i += 2
				break
			}
			toks = append(toks, token{kind: tokPunct, text: string(c)})
			i++
		}
	}
	return toks, nil
}

var twoCharOps = map[string]bool{
	"<>": true, "<=": true, ">=": true, "!=": true, "::": true, "||": true,
}

func isWordStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isWordChar(c byte) bool {
	return isWordStart(c) || c >= '0' && c <= '9' || c == '$'
}

// joinTokens rebuilds a canonical text form for opaque fragments (types,
// default expressions, check expressions).
func joinTokens(toks []token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 && needSpace(toks[i-1], t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.text)
	}
	return b.String()
}

func needSpace(prev, cur token) bool {
	if cur.kind == tokPunct && (cur.text == "(" || cur.text == ")" || cur.text == "," || cur.text == "::") {
		return false
	}
	if prev.kind == tokPunct && (prev.text == "(" || prev.text == "::") {
		return false
	}
	return true
}

type parser struct {
	toks    []token
	pos     int
	raw     string
	dialect Dialect
}

func (p *parser) done() bool {
	return p.pos >= len(p.toks)
}

func (p *parser) peek() *token {
	if p.done() {
		return nil
	}
	return &p.toks[p.pos]
}

func (p *parser) next() *token {
	t := p.peek()
	if t != nil {
		p.pos++
	}
	return t
}

// matchWords consumes the given keyword sequence if it is next, atomically.
func (p *parser) matchWords(words ...string) bool {
	if p.pos+len(words) > len(p.toks) {
		return false
	}
	for i, w := range words {
		t := &p.toks[p.pos+i]
		if t.kind != tokWord || t.norm != w {
			return false
		}
	}
	p.pos += len(words)
	return true
}

func (p *parser) peekWord(w string) bool {
	t := p.peek()
	return t != nil && t.kind == tokWord && t.norm == w
}

func (p *parser) peekPunct(ch string) bool {
	t := p.peek()
	return t != nil && t.kind == tokPunct && t.text == ch
}

func (p *parser) matchPunct(ch string) bool {
	if p.peekPunct(ch) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectPunct(ch string) error {
	if !p.matchPunct(ch) {
		return p.errf("expected %q", ch)
	}
	return nil
}

// ident consumes an identifier. Unquoted identifiers fold to lowercase, the
// way PostgreSQL resolves them; quoted identifiers are taken verbatim.
func (p *parser) ident() (string, error) {
	t := p.peek()
	if t == nil {
		return "", p.errf("expected identifier")
	}
	switch t.kind {
	case tokWord:
		p.pos++
		return strings.ToLower(t.text), nil
	case tokQuoted:
		p.pos++
		return t.norm, nil
	default:
		return "", p.errf("expected identifier, found %q", t.text)
	}
}

func (p *parser) identList() ([]string, error) {
	var names []string
	for {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.matchPunct(",") {
			return names, nil
		}
	}
}

func (p *parser) errf(format string, args ...interface{}) error {
	return &ParseError{SQL: truncateSQL(p.raw), Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) parseStatement() ([]Statement, error) {
	switch {
	case p.matchWords("CREATE", "TABLE"):
		return p.parseCreateTable()
	case p.matchWords("CREATE", "UNIQUE", "INDEX"):
		return p.parseCreateIndex(true)
	case p.matchWords("CREATE", "INDEX"):
		return p.parseCreateIndex(false)
	case p.matchWords("DROP", "TABLE"):
		return p.parseDropTable()
	case p.matchWords("DROP", "INDEX"):
		return p.parseDropIndex()
	case p.matchWords("ALTER", "TABLE"):
		return p.parseAlterTable()
	}
	t := p.peek()
	if t.kind == tokWord {
		switch t.norm {
		case "CREATE", "DROP", "ALTER", "INSERT", "UPDATE", "DELETE", "SELECT",
			"TRUNCATE", "GRANT", "REVOKE", "COMMENT", "SET", "BEGIN", "COMMIT",
			"START", "DO", "CALL", "WITH", "VACUUM", "ANALYZE", "EXPLAIN", "COPY":
			return nil, &UnsupportedStatementError{SQL: truncateSQL(p.raw)}
		}
	}
	return nil, p.errf("unrecognized statement")
}

func (p *parser) parseCreateTable() ([]Statement, error) {
	ifNotExists := p.matchWords("IF", "NOT", "EXISTS")
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	t := Table{Name: name}
	var pkCols []string
	first := true
	for {
		if p.peekPunct(")") {
			if first {
				p.pos++
				break
			}
			return nil, p.errf("trailing comma in column list")
		}
		if p.done() {
			return nil, p.errf("unterminated column list")
		}
		if p.constraintAhead() {
			c, err := p.parseTableConstraint()
			if err != nil {
				return nil, err
			}
			t.Constraints = append(t.Constraints, c)
		} else {
			col, cons, pk, err := p.parseColumnDef()
			if err != nil {
				return nil, err
			}
			t.Columns = append(t.Columns, col)
			t.Constraints = append(t.Constraints, cons...)
			pkCols = append(pkCols, pk...)
		}
		first = false
		if p.matchPunct(",") {
			continue
		}
		if p.matchPunct(")") {
			break
		}
		return nil, p.errf("expected \",\" or \")\" in column list")
	}
	if len(pkCols) > 0 {
		t.Constraints = append(t.Constraints, Constraint{Kind: PrimaryKey, Columns: pkCols})
	}
	if err := p.consumeTableOptions(); err != nil {
		return nil, err
	}
	return []Statement{&CreateTable{Table: t, IfNotExists: ifNotExists}}, nil
}

// consumeTableOptions accepts the option forms that may trail the column list
// (engine=innodb, default charset=utf8mb4, without rowid, with (...),
// tablespace x). Options carry no structure for the model, but anything that
// does not look like an option is rejected.
func (p *parser) consumeTableOptions() error {
	valueOK := false // a value token must follow an option word or "="
	for !p.done() {
		t := p.peek()
		switch {
		case t.kind == tokWord:
			p.pos++
			valueOK = true
		case t.kind == tokPunct && t.text == "=" && valueOK:
			p.pos++
			v := p.next()
			if v == nil {
				return p.errf("missing value in table option")
			}
			valueOK = false
		case (t.kind == tokString || t.kind == tokNumber) && valueOK:
			p.pos++
			valueOK = false
		case t.kind == tokPunct && t.text == "(" && valueOK:
			if _, err := p.parseParenExpr(); err != nil {
				return err
			}
			valueOK = false
		case t.kind == tokPunct && t.text == ",":
			p.pos++
			valueOK = false
		default:
			return p.errf("unexpected trailing tokens in create table")
		}
	}
	return nil
}

// constraintAhead reports whether the next column-list element is a
// table-level constraint rather than a column definition.
func (p *parser) constraintAhead() bool {
	t := p.peek()
	if t == nil || t.kind != tokWord {
		return false
	}
	switch t.norm {
	case "CONSTRAINT", "PRIMARY", "UNIQUE", "FOREIGN", "CHECK", "KEY", "INDEX":
		return true
	}
	return false
}

var serialTypes = map[string]bool{
	"serial":      true,
	"bigserial":   true,
	"smallserial": true,
}

// parseColumnDef parses one column definition, returning the column, any
// table constraints derived from inline column constraints, and the column
// name if it was declared PRIMARY KEY inline.
func (p *parser) parseColumnDef() (Column, []Constraint, []string, error) {
	var zero Column
	name, err := p.ident()
	if err != nil {
		return zero, nil, nil, err
	}
	typeToks, err := p.collectTypeTokens()
	if err != nil {
		return zero, nil, nil, err
	}
	if len(typeToks) == 0 {
		return zero, nil, nil, p.errf("missing type for column %q", name)
	}
	col := Column{Name: name, DataType: joinTokens(typeToks), IsNullable: true}
	if serialTypes[strings.ToLower(col.DataType)] {
		col.IsIdentity = true
	}

	var cons []Constraint
	var pkCols []string
	var cname string
	for {
		switch {
		case p.matchWords("CONSTRAINT"):
			cname, err = p.ident()
			if err != nil {
				return zero, nil, nil, err
			}
			continue
		case p.matchWords("NOT", "NULL"):
			col.IsNullable = false
		case p.matchWords("NULL"):
			col.IsNullable = true
		case p.matchWords("PRIMARY", "KEY"):
			pkCols = append(pkCols, name)
			col.IsNullable = false
		case p.matchWords("UNIQUE"):
			cons = append(cons, Constraint{Name: cname, Kind: Unique, Columns: []string{name}})
		case p.matchWords("DEFAULT"):
			expr, err := p.parseDefaultExpr()
			if err != nil {
				return zero, nil, nil, err
			}
			col.DefaultValue.String = expr
			col.DefaultValue.Valid = true
		case p.matchWords("REFERENCES"):
			fk, err := p.parseRefClause([]string{name}, cname)
			if err != nil {
				return zero, nil, nil, err
			}
			cons = append(cons, fk)
		case p.matchWords("CHECK"):
			expr, err := p.parseParenExpr()
			if err != nil {
				return zero, nil, nil, err
			}
			cons = append(cons, Constraint{Name: cname, Kind: Check, CheckExpr: expr})
		case p.matchWords("GENERATED", "ALWAYS", "AS", "IDENTITY"),
			p.matchWords("GENERATED", "BY", "DEFAULT", "AS", "IDENTITY"):
			col.IsIdentity = true
		case p.matchWords("AUTO_INCREMENT"):
			col.IsIdentity = true
		default:
			return col, cons, pkCols, nil
		}
		cname = ""
	}
}

// collectTypeTokens gathers the declared type: everything up to a constraint
// keyword, comma or closing paren at depth zero. Parenthesized type
// parameters are swallowed whole.
func (p *parser) collectTypeTokens() ([]token, error) {
	var toks []token
	depth := 0
	for {
		t := p.peek()
		if t == nil {
			return toks, nil
		}
		if depth == 0 {
			if t.kind == tokPunct && (t.text == "," || t.text == ")") {
				return toks, nil
			}
			if t.kind == tokWord {
				switch t.norm {
				case "CONSTRAINT", "PRIMARY", "NOT", "NULL", "UNIQUE", "DEFAULT",
					"REFERENCES", "CHECK", "GENERATED", "AUTO_INCREMENT", "USING":
					return toks, nil
				}
			}
		}
		if t.kind == tokPunct && t.text == "(" {
			depth++
		}
		if t.kind == tokPunct && t.text == ")" {
			depth--
		}
		toks = append(toks, *t)
		p.pos++
	}
}

// parseDefaultExpr gathers a default expression up to the next depth-zero
// comma, closing paren or constraint keyword. Double-quoted tokens are
// identifiers under the postgres dialect and cannot be string defaults; that
// input is rejected rather than silently tolerated.
func (p *parser) parseDefaultExpr() (string, error) {
	if t := p.peek(); t != nil && t.kind == tokQuoted && p.dialect != DialectMySQL {
		return "", p.errf("double-quoted string literal in default expression")
	}
	if p.matchWords("NULL") {
		return "NULL", nil
	}
	var toks []token
	depth := 0
	for {
		t := p.peek()
		if t == nil {
			break
		}
		if depth == 0 {
			if t.kind == tokPunct && (t.text == "," || t.text == ")") {
				break
			}
			if t.kind == tokWord {
				switch t.norm {
				case "NOT", "NULL", "PRIMARY", "UNIQUE", "REFERENCES", "CHECK",
					"CONSTRAINT", "GENERATED", "AUTO_INCREMENT":
					goto done
				}
			}
		}
		if t.kind == tokPunct && t.text == "(" {
			depth++
		}
		if t.kind == tokPunct && t.text == ")" {
			depth--
		}
		toks = append(toks, *t)
		p.pos++
	}
done:
	if len(toks) == 0 {
		return "", p.errf("missing default expression")
	}
	return joinTokens(toks), nil
}

// parseParenExpr consumes a parenthesized expression and returns its inner
// text.
func (p *parser) parseParenExpr() (string, error) {
	if err := p.expectPunct("("); err != nil {
		return "", err
	}
	var toks []token
	depth := 1
	for {
		t := p.next()
		if t == nil {
			return "", p.errf("unterminated parenthesized expression")
		}
		if t.kind == tokPunct && t.text == "(" {
			depth++
		}
		if t.kind == tokPunct && t.text == ")" {
			depth--
			if depth == 0 {
				return joinTokens(toks), nil
			}
		}
		toks = append(toks, *t)
	}
}

func (p *parser) parseRefClause(childCols []string, name string) (Constraint, error) {
	var zero Constraint
	refTable, err := p.ident()
	if err != nil {
		return zero, err
	}
	c := Constraint{
		Name:     name,
		Kind:     ForeignKey,
		Columns:  childCols,
		RefTable: refTable,
	}
	if p.matchPunct("(") {
		c.RefColumns, err = p.identList()
		if err != nil {
			return zero, err
		}
		if err := p.expectPunct(")"); err != nil {
			return zero, err
		}
	}
	for {
		switch {
		case p.matchWords("ON", "DELETE"):
			c.OnDelete, err = p.parseRefAction()
		case p.matchWords("ON", "UPDATE"):
			c.OnUpdate, err = p.parseRefAction()
		case p.matchWords("MATCH"):
			p.next()
			continue
		default:
			return c, nil
		}
		if err != nil {
			return zero, err
		}
	}
}

func (p *parser) parseRefAction() (RefAction, error) {
	switch {
	case p.matchWords("CASCADE"):
		return ActionCascade, nil
	case p.matchWords("RESTRICT"):
		return ActionRestrict, nil
	case p.matchWords("SET", "NULL"):
		return ActionSetNull, nil
	case p.matchWords("NO", "ACTION"):
		return ActionNoAction, nil
	}
	return ActionNone, p.errf("unsupported referential action")
}

func (p *parser) parseTableConstraint() (Constraint, error) {
	var zero Constraint
	var name string
	var err error
	if p.matchWords("CONSTRAINT") {
		name, err = p.ident()
		if err != nil {
			return zero, err
		}
	}
	switch {
	case p.matchWords("PRIMARY", "KEY"):
		cols, err := p.parenIdentList()
		if err != nil {
			return zero, err
		}
		return Constraint{Name: name, Kind: PrimaryKey, Columns: cols}, nil
	case p.matchWords("UNIQUE"):
		cols, err := p.parenIdentList()
		if err != nil {
			return zero, err
		}
		return Constraint{Name: name, Kind: Unique, Columns: cols}, nil
	case p.matchWords("FOREIGN", "KEY"):
		cols, err := p.parenIdentList()
		if err != nil {
			return zero, err
		}
		if !p.matchWords("REFERENCES") {
			return zero, p.errf("expected REFERENCES after FOREIGN KEY")
		}
		return p.parseRefClause(cols, name)
	case p.matchWords("CHECK"):
		expr, err := p.parseParenExpr()
		if err != nil {
			return zero, err
		}
		return Constraint{Name: name, Kind: Check, CheckExpr: expr}, nil
	case p.peekWord("KEY"), p.peekWord("INDEX"):
		return zero, p.errf("inline index definitions are not supported")
	}
	return zero, p.errf("unrecognized table constraint")
}

func (p *parser) parenIdentList() ([]string, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cols, err := p.identList()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return cols, nil
}

func (p *parser) parseCreateIndex(unique bool) ([]Statement, error) {
	p.matchWords("CONCURRENTLY")
	ifNotExists := p.matchWords("IF", "NOT", "EXISTS")
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if !p.matchWords("ON") {
		return nil, p.errf("expected ON in create index")
	}
	table, err := p.ident()
	if err != nil {
		return nil, err
	}
	if p.matchWords("USING") {
		p.next()
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var cols []string
	for {
		col, err := p.ident()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
		p.matchWords("ASC")
		p.matchWords("DESC")
		if p.matchPunct(",") {
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	// partial index predicates and storage parameters carry no structure
	p.pos = len(p.toks)
	idx := Index{Name: name, Table: table, Columns: cols, IsUnique: unique}
	return []Statement{&CreateIndex{Index: idx, IfNotExists: ifNotExists}}, nil
}

func (p *parser) parseDropTable() ([]Statement, error) {
	ifExists := p.matchWords("IF", "EXISTS")
	names, err := p.identList()
	if err != nil {
		return nil, err
	}
	p.matchWords("CASCADE")
	p.matchWords("RESTRICT")
	if !p.done() {
		return nil, p.errf("unexpected trailing tokens in drop table")
	}
	var stmts []Statement
	for _, name := range names {
		stmts = append(stmts, &DropTable{Name: name, IfExists: ifExists})
	}
	return stmts, nil
}

func (p *parser) parseDropIndex() ([]Statement, error) {
	p.matchWords("CONCURRENTLY")
	ifExists := p.matchWords("IF", "EXISTS")
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if p.matchWords("ON") {
		// mysql names the owning table; index names are schema-unique here
		if _, err := p.ident(); err != nil {
			return nil, err
		}
	}
	p.matchWords("CASCADE")
	p.matchWords("RESTRICT")
	if !p.done() {
		return nil, p.errf("unexpected trailing tokens in drop index")
	}
	return []Statement{&DropIndex{Name: name, IfExists: ifExists}}, nil
}

func (p *parser) parseAlterTable() ([]Statement, error) {
	p.matchWords("ONLY")
	table, err := p.ident()
	if err != nil {
		return nil, err
	}
	var stmts []Statement
	for {
		actions, err := p.parseAlterAction(table)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, actions...)
		if p.matchPunct(",") {
			continue
		}
		if !p.done() {
			return nil, p.errf("unexpected trailing tokens in alter table")
		}
		return stmts, nil
	}
}

func (p *parser) parseAlterAction(table string) ([]Statement, error) {
	switch {
	case p.matchWords("ADD"):
		if p.constraintAhead() {
			c, err := p.parseTableConstraint()
			if err != nil {
				return nil, err
			}
			return []Statement{&AddConstraint{Table: table, Constraint: c}}, nil
		}
		p.matchWords("COLUMN")
		ifNotExists := p.matchWords("IF", "NOT", "EXISTS")
		col, cons, pkCols, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmts := []Statement{&AddColumn{Table: table, Column: col, IfNotExists: ifNotExists}}
		for _, c := range cons {
			stmts = append(stmts, &AddConstraint{Table: table, Constraint: c})
		}
		if len(pkCols) > 0 {
			stmts = append(stmts, &AddConstraint{Table: table, Constraint: Constraint{Kind: PrimaryKey, Columns: pkCols}})
		}
		return stmts, nil

	case p.matchWords("DROP", "CONSTRAINT"):
		ifExists := p.matchWords("IF", "EXISTS")
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		p.matchWords("CASCADE")
		p.matchWords("RESTRICT")
		return []Statement{&DropConstraint{Table: table, Name: name, IfExists: ifExists}}, nil

	case p.matchWords("DROP"):
		p.matchWords("COLUMN")
		ifExists := p.matchWords("IF", "EXISTS")
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		p.matchWords("CASCADE")
		p.matchWords("RESTRICT")
		return []Statement{&DropColumn{Table: table, Column: name, IfExists: ifExists}}, nil

	case p.matchWords("ALTER"):
		p.matchWords("COLUMN")
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		return p.parseAlterColumn(table, name)

	case p.peekWord("RENAME"), p.peekWord("OWNER"), p.peekWord("ENABLE"),
		p.peekWord("DISABLE"), p.peekWord("VALIDATE"):
		return nil, &UnsupportedStatementError{SQL: truncateSQL(p.raw)}
	}
	return nil, p.errf("unrecognized alter table action")
}

func (p *parser) parseAlterColumn(table, column string) ([]Statement, error) {
	st := &AlterColumn{Table: table, Column: column}
	switch {
	case p.matchWords("TYPE"), p.matchWords("SET", "DATA", "TYPE"):
		toks, err := p.collectTypeTokens()
		if err != nil {
			return nil, err
		}
		if len(toks) == 0 {
			return nil, p.errf("missing type in alter column")
		}
		st.NewType = joinTokens(toks)
		if p.matchWords("USING") {
			p.skipToActionEnd()
		}
	case p.matchWords("SET", "DEFAULT"):
		expr, err := p.parseDefaultExpr()
		if err != nil {
			return nil, err
		}
		st.SetDefault = &expr
	case p.matchWords("DROP", "DEFAULT"):
		st.DropDefault = true
	case p.matchWords("SET", "NOT", "NULL"):
		st.SetNotNull = true
	case p.matchWords("DROP", "NOT", "NULL"):
		st.DropNotNull = true
	default:
		return nil, p.errf("unrecognized alter column action")
	}
	return []Statement{st}, nil
}

// skipToActionEnd consumes tokens up to the next depth-zero comma or the end
// of the statement.
func (p *parser) skipToActionEnd() {
	depth := 0
	for {
		t := p.peek()
		if t == nil {
			return
		}
		if t.kind == tokPunct {
			switch t.text {
			case "(":
				depth++
			case ")":
				depth--
			case ",":
				if depth == 0 {
					return
				}
			}
		}
		p.pos++
	}
}

func truncateSQL(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 80 {
		return s[:77] + "..."
	}
	return s
}
