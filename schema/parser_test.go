package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreateTable(t *testing.T) {
	stmts, err := ParseStatements("V1__init.sql", `
		CREATE TABLE users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			bio TEXT NULL,
			created_at TIMESTAMP DEFAULT current_timestamp,
			CONSTRAINT chk_email CHECK (email <> '')
		);
	`, DialectPostgres)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, "V1__init.sql", stmts[0].Source)
	assert.Equal(t, 1, stmts[0].Index)

	ct, ok := stmts[0].Statement.(*CreateTable)
	require.True(t, ok)
	table := ct.Table
	assert.Equal(t, "users", table.Name)
	require.Len(t, table.Columns, 4)

	id := table.Columns[0]
	assert.Equal(t, "serial", id.DataType)
	assert.True(t, id.IsIdentity)
	assert.False(t, id.IsNullable)

	email := table.Columns[1]
	assert.Equal(t, "varchar(255)", email.DataType)
	assert.False(t, email.IsNullable)

	bio := table.Columns[2]
	assert.True(t, bio.IsNullable)

	created := table.Columns[3]
	assert.True(t, created.DefaultValue.Valid)
	assert.Equal(t, "current_timestamp", created.DefaultValue.String)

	// unique(email), chk_email, then the collected primary key
	require.Len(t, table.Constraints, 3)
	assert.Equal(t, Unique, table.Constraints[0].Kind)
	assert.Equal(t, []string{"email"}, table.Constraints[0].Columns)
	assert.Equal(t, Check, table.Constraints[1].Kind)
	assert.Equal(t, "chk_email", table.Constraints[1].Name)
	assert.Equal(t, "email <> ''", table.Constraints[1].CheckExpr)
	assert.Equal(t, PrimaryKey, table.Constraints[2].Kind)
	assert.Equal(t, []string{"id"}, table.Constraints[2].Columns)
}

func TestParseCreateTableForeignKeys(t *testing.T) {
	stmts, err := ParseStatements("V2__posts.sql", `
		create table posts (
			id bigserial primary key,
			author_id integer not null references users (id) on delete cascade on update set null,
			editor_id integer,
			constraint fk_editor foreign key (editor_id) references users (id) on delete set null
		);
	`, DialectPostgres)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	table := stmts[0].Statement.(*CreateTable).Table
	var fks []Constraint
	for _, c := range table.Constraints {
		if c.Kind == ForeignKey {
			fks = append(fks, c)
		}
	}
	require.Len(t, fks, 2)

	assert.Equal(t, []string{"author_id"}, fks[0].Columns)
	assert.Equal(t, "users", fks[0].RefTable)
	assert.Equal(t, []string{"id"}, fks[0].RefColumns)
	assert.Equal(t, ActionCascade, fks[0].OnDelete)
	assert.Equal(t, ActionSetNull, fks[0].OnUpdate)

	assert.Equal(t, "fk_editor", fks[1].Name)
	assert.Equal(t, []string{"editor_id"}, fks[1].Columns)
	assert.Equal(t, ActionSetNull, fks[1].OnDelete)
	assert.Equal(t, ActionNone, fks[1].OnUpdate)
}

func TestParseCreateTableTrailingComma(t *testing.T) {
	_, err := ParseStatements("V1__bad.sql", `create table t (id int, name text,);`, DialectPostgres)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "trailing comma")

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "V1__bad.sql", schemaErr.Source)
	assert.Equal(t, 1, schemaErr.Index)
}

func TestParseCreateTableTrailingOptions(t *testing.T) {
	stmts, err := ParseStatements("m.sql", "create table t (id int) engine=innodb default charset=utf8mb4 comment='x';", DialectMySQL)
	require.NoError(t, err)
	assert.Equal(t, "t", stmts[0].Statement.(*CreateTable).Table.Name)

	stmts, err = ParseStatements("m.sql", `create table t (id int) without rowid;`, DialectSQLite)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	stmts, err = ParseStatements("m.sql", `create table t (id int) with (fillfactor=70);`, DialectPostgres)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	for _, bad := range []string{
		`create table t (id int) @@@;`,
		`create table t (id int) = 5;`,
		`create table t (id int) 42;`,
	} {
		_, err := ParseStatements("m.sql", bad, DialectPostgres)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr, "statement: %s", bad)
	}
}

func TestParseAlterTableActions(t *testing.T) {
	t.Run("add_column", func(t *testing.T) {
		stmts, err := ParseStatements("m.sql", `alter table users add column age integer not null default 0;`, DialectPostgres)
		require.NoError(t, err)
		require.Len(t, stmts, 1)
		add := stmts[0].Statement.(*AddColumn)
		assert.Equal(t, "users", add.Table)
		assert.Equal(t, "age", add.Column.Name)
		assert.Equal(t, "integer", add.Column.DataType)
		assert.False(t, add.Column.IsNullable)
		assert.Equal(t, "0", add.Column.DefaultValue.String)
	})

	t.Run("add_column_if_not_exists", func(t *testing.T) {
		stmts, err := ParseStatements("m.sql", `alter table users add column if not exists age integer;`, DialectPostgres)
		require.NoError(t, err)
		add := stmts[0].Statement.(*AddColumn)
		assert.True(t, add.IfNotExists)
		assert.Equal(t, "age", add.Column.Name)
	})

	t.Run("add_column_with_references", func(t *testing.T) {
		stmts, err := ParseStatements("m.sql", `alter table posts add column tag_id int references tags;`, DialectPostgres)
		require.NoError(t, err)
		require.Len(t, stmts, 2)
		_, ok := stmts[0].Statement.(*AddColumn)
		require.True(t, ok)
		ac := stmts[1].Statement.(*AddConstraint)
		assert.Equal(t, ForeignKey, ac.Constraint.Kind)
		assert.Equal(t, "tags", ac.Constraint.RefTable)
		assert.Empty(t, ac.Constraint.RefColumns)
		assert.Equal(t, stmts[0].Index, stmts[1].Index, "descriptors from one statement share its position")
	})

	t.Run("drop_column", func(t *testing.T) {
		stmts, err := ParseStatements("m.sql", `alter table users drop column if exists age cascade;`, DialectPostgres)
		require.NoError(t, err)
		drop := stmts[0].Statement.(*DropColumn)
		assert.Equal(t, "age", drop.Column)
		assert.True(t, drop.IfExists)
	})

	t.Run("alter_column_type", func(t *testing.T) {
		stmts, err := ParseStatements("m.sql", `alter table users alter column name type varchar(100);`, DialectPostgres)
		require.NoError(t, err)
		alter := stmts[0].Statement.(*AlterColumn)
		assert.Equal(t, "varchar(100)", alter.NewType)
	})

	t.Run("alter_column_type_with_using", func(t *testing.T) {
		// the conversion expression names the old value, not the new type
		stmts, err := ParseStatements("m.sql", `alter table users alter column age type integer using age::integer;`, DialectPostgres)
		require.NoError(t, err)
		alter := stmts[0].Statement.(*AlterColumn)
		assert.Equal(t, "integer", alter.NewType)
	})

	t.Run("alter_column_type_with_using_before_next_action", func(t *testing.T) {
		stmts, err := ParseStatements("m.sql", `alter table users alter column age type int using (age::int), drop column legacy;`, DialectPostgres)
		require.NoError(t, err)
		require.Len(t, stmts, 2)
		assert.Equal(t, "int", stmts[0].Statement.(*AlterColumn).NewType)
		assert.Equal(t, "legacy", stmts[1].Statement.(*DropColumn).Column)
	})

	t.Run("alter_column_set_data_type", func(t *testing.T) {
		stmts, err := ParseStatements("m.sql", `ALTER TABLE users ALTER COLUMN name SET DATA TYPE text;`, DialectPostgres)
		require.NoError(t, err)
		alter := stmts[0].Statement.(*AlterColumn)
		assert.Equal(t, "text", alter.NewType)
	})

	t.Run("set_default", func(t *testing.T) {
		stmts, err := ParseStatements("m.sql", `alter table users alter column status set default 'active';`, DialectPostgres)
		require.NoError(t, err)
		alter := stmts[0].Statement.(*AlterColumn)
		require.NotNil(t, alter.SetDefault)
		assert.Equal(t, "'active'", *alter.SetDefault)
	})

	t.Run("drop_default_and_nullability", func(t *testing.T) {
		stmts, err := ParseStatements("m.sql", `
			alter table users alter column status drop default;
			alter table users alter column status set not null;
			alter table users alter column status drop not null;
		`, DialectPostgres)
		require.NoError(t, err)
		require.Len(t, stmts, 3)
		assert.True(t, stmts[0].Statement.(*AlterColumn).DropDefault)
		assert.True(t, stmts[1].Statement.(*AlterColumn).SetNotNull)
		assert.True(t, stmts[2].Statement.(*AlterColumn).DropNotNull)
		assert.Equal(t, 3, stmts[2].Index)
	})

	t.Run("add_constraint", func(t *testing.T) {
		stmts, err := ParseStatements("m.sql", `
			alter table posts add constraint fk_posts_user
				foreign key (user_id) references users (id) on delete restrict;
		`, DialectPostgres)
		require.NoError(t, err)
		ac := stmts[0].Statement.(*AddConstraint)
		assert.Equal(t, "fk_posts_user", ac.Constraint.Name)
		assert.Equal(t, ActionRestrict, ac.Constraint.OnDelete)
	})

	t.Run("drop_constraint", func(t *testing.T) {
		stmts, err := ParseStatements("m.sql", `alter table posts drop constraint fk_posts_user;`, DialectPostgres)
		require.NoError(t, err)
		dc := stmts[0].Statement.(*DropConstraint)
		assert.Equal(t, "fk_posts_user", dc.Name)
	})

	t.Run("multiple_actions", func(t *testing.T) {
		stmts, err := ParseStatements("m.sql", `alter table users add column a int, drop column b;`, DialectPostgres)
		require.NoError(t, err)
		require.Len(t, stmts, 2)
		_, ok := stmts[0].Statement.(*AddColumn)
		assert.True(t, ok)
		_, ok = stmts[1].Statement.(*DropColumn)
		assert.True(t, ok)
	})

	t.Run("rename_is_unsupported", func(t *testing.T) {
		_, err := ParseStatements("m.sql", `alter table users rename column a to b;`, DialectPostgres)
		var unsupported *UnsupportedStatementError
		assert.ErrorAs(t, err, &unsupported)
	})
}

func TestParseCreateDropIndex(t *testing.T) {
	stmts, err := ParseStatements("m.sql", `
		create unique index idx_users_email on users (email);
		create index if not exists idx_posts on posts using btree (user_id desc, created_at);
		drop index idx_users_email;
		drop index if exists idx_gone;
	`, DialectPostgres)
	require.NoError(t, err)
	require.Len(t, stmts, 4)

	ci := stmts[0].Statement.(*CreateIndex)
	assert.True(t, ci.Index.IsUnique)
	assert.Equal(t, "idx_users_email", ci.Index.Name)
	assert.Equal(t, "users", ci.Index.Table)
	assert.Equal(t, []string{"email"}, ci.Index.Columns)

	ci = stmts[1].Statement.(*CreateIndex)
	assert.True(t, ci.IfNotExists)
	assert.False(t, ci.Index.IsUnique)
	assert.Equal(t, []string{"user_id", "created_at"}, ci.Index.Columns)

	di := stmts[2].Statement.(*DropIndex)
	assert.Equal(t, "idx_users_email", di.Name)
	assert.False(t, di.IfExists)

	di = stmts[3].Statement.(*DropIndex)
	assert.True(t, di.IfExists)
}

func TestParseDropTable(t *testing.T) {
	stmts, err := ParseStatements("m.sql", `
		drop table users;
		drop table if exists posts, comments cascade;
	`, DialectPostgres)
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	dt := stmts[0].Statement.(*DropTable)
	assert.Equal(t, "users", dt.Name)
	assert.False(t, dt.IfExists)

	assert.Equal(t, "posts", stmts[1].Statement.(*DropTable).Name)
	assert.Equal(t, "comments", stmts[2].Statement.(*DropTable).Name)
	assert.True(t, stmts[1].Statement.(*DropTable).IfExists)
	assert.Equal(t, 2, stmts[2].Index)
}

func TestParseCommentsAndStatementPositions(t *testing.T) {
	stmts, err := ParseStatements("m.sql", `
		-- users come first; the semicolon here is harmless
		create table users (id int);
		/* block comment;
		   spanning lines */
		create table posts (id int, note text default 'a;b');
	`, DialectPostgres)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, 1, stmts[0].Index)
	assert.Equal(t, 2, stmts[1].Index)
	assert.Equal(t, "'a;b'", stmts[1].Statement.(*CreateTable).Table.Columns[1].DefaultValue.String)
}

func TestParseUnsupportedStatements(t *testing.T) {
	for _, stmt := range []string{
		`insert into users values (1);`,
		`create view v as select 1;`,
		`truncate table users;`,
		`grant select on users to reader;`,
	} {
		_, err := ParseStatements("m.sql", stmt, DialectPostgres)
		var unsupported *UnsupportedStatementError
		assert.ErrorAs(t, err, &unsupported, "statement: %s", stmt)
	}
}

func TestParseGarbageIsParseError(t *testing.T) {
	_, err := ParseStatements("m.sql", `hello world;`, DialectPostgres)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseDoubleQuotedDefault(t *testing.T) {
	// double quotes delimit identifiers in postgres; a "string" default is a
	// script bug and must not be silently tolerated
	_, err := ParseStatements("m.sql", `alter table users alter column status set default "active";`, DialectPostgres)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "double-quoted")

	// mysql reads double quotes as string literals
	stmts, err := ParseStatements("m.sql", `alter table users alter column status set default "active";`, DialectMySQL)
	require.NoError(t, err)
	alter := stmts[0].Statement.(*AlterColumn)
	require.NotNil(t, alter.SetDefault)
	assert.Equal(t, `"active"`, *alter.SetDefault)
}

func TestParseQuotedIdentifiers(t *testing.T) {
	stmts, err := ParseStatements("m.sql", `create table "Order" ("Id" int, USERNAME text);`, DialectPostgres)
	require.NoError(t, err)
	table := stmts[0].Statement.(*CreateTable).Table
	assert.Equal(t, "Order", table.Name)
	assert.Equal(t, "Id", table.Columns[0].Name)
	// unquoted identifiers fold to lowercase
	assert.Equal(t, "username", table.Columns[1].Name)

	stmts, err = ParseStatements("m.sql", "create table `orders` (`id` int auto_increment);", DialectMySQL)
	require.NoError(t, err)
	table = stmts[0].Statement.(*CreateTable).Table
	assert.Equal(t, "orders", table.Name)
	assert.True(t, table.Columns[0].IsIdentity)
}

func TestParseIdentityColumn(t *testing.T) {
	stmts, err := ParseStatements("m.sql", `
		create table events (
			id bigint generated always as identity primary key,
			seq int generated by default as identity
		);
	`, DialectPostgres)
	require.NoError(t, err)
	table := stmts[0].Statement.(*CreateTable).Table
	assert.True(t, table.Columns[0].IsIdentity)
	assert.Equal(t, "bigint", table.Columns[0].DataType)
	assert.True(t, table.Columns[1].IsIdentity)
}

func TestParseEmptyContent(t *testing.T) {
	stmts, err := ParseStatements("m.sql", "\n-- nothing here\n", DialectPostgres)
	require.NoError(t, err)
	assert.Empty(t, stmts)
}
