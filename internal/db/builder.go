package db

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// buildMode tracks which kind of DDL session the builder is in.
type buildMode int

const (
	modeIdle buildMode = iota
	modeCreating
	modeAltering
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// allowedDataTypes are the column types the builder accepts.
var allowedDataTypes = map[string]bool{
	"TINYINT": true, "SMALLINT": true, "MEDIUMINT": true, "INT": true,
	"INTEGER": true, "BIGINT": true, "DECIMAL": true, "FLOAT": true,
	"DOUBLE": true, "BIT": true, "BOOLEAN": true,
	"CHAR": true, "VARCHAR": true, "TINYTEXT": true, "TEXT": true,
	"MEDIUMTEXT": true, "LONGTEXT": true, "BLOB": true, "LONGBLOB": true,
	"JSON": true, "ENUM": true,
	"DATE": true, "TIME": true, "DATETIME": true, "TIMESTAMP": true, "YEAR": true,
}

// FieldOptions modify a column definition built by AddField.
type FieldOptions struct {
	NotNull    bool
	Unsigned   bool
	Default    string // literal default; quote string values yourself
	DefaultRaw bool   // Default is a raw SQL expression, not a literal
	Unique     bool
	Comment    string
}

// ReferenceOptions modify a foreign key built by ReferenceTable.
type ReferenceOptions struct {
	Column   string // local column; defaults to <table>_id
	RefCol   string // referenced column; defaults to id
	OnDelete string // CASCADE, SET NULL, RESTRICT, NO ACTION
	OnUpdate string
}

// TableBuilder accumulates column, key, and index fragments for one CREATE
// TABLE or ALTER TABLE statement and executes the assembled DDL. Exactly
// one table per session: CreateTable or UpdateTable flush and reset the
// accumulator, and a second flush without a new session fails. Any
// validation failure leaves the accumulator unchanged.
type TableBuilder struct {
	mgr  *Manager
	mode buildMode

	table       string
	fields      []string
	idField     string
	idInlinePK  bool
	primaryKey  []string
	foreignKeys []string
	indexes     []string // inline clauses for the CREATE TABLE column list
	postDDL     []string // standalone statements run after the table DDL
	timestamps  bool
}

// NewTableBuilder creates a builder bound to a connected manager.
func NewTableBuilder(mgr *Manager) *TableBuilder {
	return &TableBuilder{mgr: mgr}
}

// NewTable starts a CREATE TABLE session for the (prefixed) table name.
func (b *TableBuilder) NewTable(name string) error {
	return b.startSession(name, modeCreating)
}

// AlterTable starts an ALTER TABLE session for the (prefixed) table name.
func (b *TableBuilder) AlterTable(name string) error {
	return b.startSession(name, modeAltering)
}

func (b *TableBuilder) startSession(name string, mode buildMode) error {
	if b.mode != modeIdle {
		return fmt.Errorf("a table build session for %q is already open", b.table)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	b.table = b.mgr.TableName(name)
	b.mode = mode
	return nil
}

// AddField appends a column definition. size is ignored for types that take
// no length. For ENUM pass the quoted value list as size, e.g.
// "'draft','published'".
func (b *TableBuilder) AddField(name, dataType string, size string, opts FieldOptions) error {
	def, err := b.buildFieldDef(name, dataType, size, opts)
	if err != nil {
		return err
	}
	b.fields = append(b.fields, def)
	if opts.Unique {
		b.appendIndex("uq_"+b.table+"_"+name, true, []string{b.quote(name)})
	}
	return nil
}

func (b *TableBuilder) appendIndex(name string, unique bool, quotedCols []string) {
	ddl, inline := b.mgr.Driver().IndexDDL(b.table, name, unique, quotedCols)
	if inline {
		b.indexes = append(b.indexes, ddl)
	} else {
		b.postDDL = append(b.postDDL, ddl)
	}
}

func (b *TableBuilder) buildFieldDef(name, dataType, size string, opts FieldOptions) (string, error) {
	if b.mode == modeIdle {
		return "", fmt.Errorf("no table build session open; call NewTable or AlterTable first")
	}
	if !identifierPattern.MatchString(name) {
		return "", fmt.Errorf("invalid field name %q", name)
	}
	dt := strings.ToUpper(strings.TrimSpace(dataType))
	if !allowedDataTypes[dt] {
		return "", fmt.Errorf("unsupported data type %q for field %q", dataType, name)
	}

	var sb strings.Builder
	sb.WriteString(b.quote(name))
	sb.WriteByte(' ')
	sb.WriteString(dt)
	if size != "" {
		fmt.Fprintf(&sb, "(%s)", size)
	}
	if opts.Unsigned {
		sb.WriteString(" UNSIGNED")
	}
	if opts.NotNull {
		sb.WriteString(" NOT NULL")
	}
	if opts.Default != "" {
		if opts.DefaultRaw {
			fmt.Fprintf(&sb, " DEFAULT %s", opts.Default)
		} else {
			fmt.Fprintf(&sb, " DEFAULT %s", quoteLiteral(opts.Default))
		}
	}
	if opts.Comment != "" {
		fmt.Fprintf(&sb, " COMMENT %s", quoteLiteral(opts.Comment))
	}
	return sb.String(), nil
}

// AddVarchar appends a VARCHAR column of the given length.
func (b *TableBuilder) AddVarchar(name string, length int, opts FieldOptions) error {
	if length <= 0 || length > 65535 {
		return fmt.Errorf("invalid varchar length %d for field %q", length, name)
	}
	return b.AddField(name, "VARCHAR", fmt.Sprintf("%d", length), opts)
}

// AddInt appends an INT column.
func (b *TableBuilder) AddInt(name string, opts FieldOptions) error {
	return b.AddField(name, "INT", "", opts)
}

// AddText appends a TEXT column.
func (b *TableBuilder) AddText(name string, opts FieldOptions) error {
	return b.AddField(name, "TEXT", "", opts)
}

// SetID declares the auto-incrementing primary key column. A table build
// carries at most one.
func (b *TableBuilder) SetID(name string) error {
	if b.mode == modeIdle {
		return fmt.Errorf("no table build session open; call NewTable or AlterTable first")
	}
	if b.idField != "" {
		return fmt.Errorf("auto-increment column already set to %q", b.idField)
	}
	if len(b.primaryKey) > 0 {
		return fmt.Errorf("primary key already set to (%s)", strings.Join(b.primaryKey, ", "))
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid field name %q", name)
	}
	def, inline := b.mgr.Driver().IDColumn(name)
	b.idField = name
	b.idInlinePK = inline
	b.fields = append([]string{def}, b.fields...)
	return nil
}

// SetPrimaryKey declares a plain (non auto-increment) primary key over the
// given columns. A table build carries at most one primary key.
func (b *TableBuilder) SetPrimaryKey(columns ...string) error {
	if b.mode == modeIdle {
		return fmt.Errorf("no table build session open; call NewTable or AlterTable first")
	}
	if b.idField != "" {
		return fmt.Errorf("auto-increment column %q already defines the primary key", b.idField)
	}
	if len(b.primaryKey) > 0 {
		return fmt.Errorf("primary key already set to (%s)", strings.Join(b.primaryKey, ", "))
	}
	if len(columns) == 0 {
		return fmt.Errorf("primary key needs at least one column")
	}
	for _, c := range columns {
		if !identifierPattern.MatchString(c) {
			return fmt.Errorf("invalid primary key column %q", c)
		}
	}
	b.primaryKey = append(b.primaryKey, columns...)
	return nil
}

// AddIndex appends a (unique) index over the given columns.
func (b *TableBuilder) AddIndex(unique bool, columns ...string) error {
	if b.mode == modeIdle {
		return fmt.Errorf("no table build session open; call NewTable or AlterTable first")
	}
	if len(columns) == 0 {
		return fmt.Errorf("index needs at least one column")
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		if !identifierPattern.MatchString(c) {
			return fmt.Errorf("invalid index column %q", c)
		}
		quoted[i] = b.quote(c)
	}

	prefix := "idx"
	if unique {
		prefix = "uq"
	}
	name := fmt.Sprintf("%s_%s_%s", prefix, b.table, strings.Join(columns, "_"))
	b.appendIndex(name, unique, quoted)
	return nil
}

// ReferenceTable appends a foreign key to the (prefixed) referenced table.
// The local column defaults to <table>_id and is created as an unsigned
// BIGINT when it has not been added already.
func (b *TableBuilder) ReferenceTable(table string, opts ReferenceOptions) error {
	if b.mode == modeIdle {
		return fmt.Errorf("no table build session open; call NewTable or AlterTable first")
	}
	if b.mode == modeAltering && !b.mgr.Driver().SupportsAlterAddConstraints() {
		return fmt.Errorf("driver %s cannot add foreign keys via ALTER TABLE", b.mgr.Driver().Name())
	}
	if !identifierPattern.MatchString(table) {
		return fmt.Errorf("invalid referenced table name %q", table)
	}
	column := opts.Column
	if column == "" {
		column = table + "_id"
	}
	if !identifierPattern.MatchString(column) {
		return fmt.Errorf("invalid foreign key column %q", column)
	}
	refCol := opts.RefCol
	if refCol == "" {
		refCol = "id"
	}
	if !identifierPattern.MatchString(refCol) {
		return fmt.Errorf("invalid referenced column %q", refCol)
	}
	for _, action := range []string{opts.OnDelete, opts.OnUpdate} {
		if action != "" && !validReferentialAction(action) {
			return fmt.Errorf("invalid referential action %q", action)
		}
	}

	refTable := b.mgr.TableName(table)
	if !b.hasField(column) {
		b.fields = append(b.fields, b.quote(column)+" BIGINT UNSIGNED NOT NULL")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		b.quote(fmt.Sprintf("fk_%s_%s", b.table, column)), b.quote(column),
		b.quote(refTable), b.quote(refCol))
	if opts.OnDelete != "" {
		fmt.Fprintf(&sb, " ON DELETE %s", strings.ToUpper(opts.OnDelete))
	}
	if opts.OnUpdate != "" {
		fmt.Fprintf(&sb, " ON UPDATE %s", strings.ToUpper(opts.OnUpdate))
	}
	b.foreignKeys = append(b.foreignKeys, sb.String())
	return nil
}

// AddTimestamps appends created_at and updated_at columns.
func (b *TableBuilder) AddTimestamps() error {
	if b.mode == modeIdle {
		return fmt.Errorf("no table build session open; call NewTable or AlterTable first")
	}
	if b.timestamps {
		return fmt.Errorf("timestamp columns already added")
	}
	b.fields = append(b.fields,
		b.quote("created_at")+" TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP",
		b.quote("updated_at")+" TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP")
	b.timestamps = true
	return nil
}

// CreateTable assembles and executes the CREATE TABLE statement, then
// resets the builder for the next session. Calling it outside a NewTable
// session fails.
func (b *TableBuilder) CreateTable(ctx context.Context) error {
	if b.mode != modeCreating {
		return fmt.Errorf("no CREATE TABLE session open; call NewTable first")
	}
	if len(b.fields) == 0 {
		return fmt.Errorf("table %q has no columns", b.table)
	}

	parts := make([]string, 0, len(b.fields)+len(b.indexes)+len(b.foreignKeys)+1)
	parts = append(parts, b.fields...)
	if b.idField != "" && !b.idInlinePK {
		parts = append(parts, fmt.Sprintf("PRIMARY KEY (%s)", b.quote(b.idField)))
	}
	if len(b.primaryKey) > 0 {
		quoted := make([]string, len(b.primaryKey))
		for i, c := range b.primaryKey {
			quoted[i] = b.quote(c)
		}
		parts = append(parts, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
	}
	parts = append(parts, b.indexes...)
	parts = append(parts, b.foreignKeys...)

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)%s",
		b.quote(b.table), strings.Join(parts, ",\n  "), b.mgr.Driver().CreateTableSuffix(b.mgr.Credentials()))

	table := b.table
	post := b.postDDL
	if _, err := b.mgr.Exec(ctx, ddl); err != nil {
		b.reset()
		return fmt.Errorf("creating table %s: %w", table, err)
	}
	for _, stmt := range post {
		if _, err := b.mgr.Exec(ctx, stmt); err != nil {
			b.reset()
			return fmt.Errorf("creating index on %s: %w", table, err)
		}
	}
	b.reset()
	return nil
}

// UpdateTable assembles and executes the ALTER TABLE statement adding the
// accumulated columns, indexes, and foreign keys, then resets the builder.
func (b *TableBuilder) UpdateTable(ctx context.Context) error {
	if b.mode != modeAltering {
		return fmt.Errorf("no ALTER TABLE session open; call AlterTable first")
	}

	var clauses []string
	for _, f := range b.fields {
		clauses = append(clauses, "ADD COLUMN "+f)
	}
	for _, idx := range b.indexes {
		clauses = append(clauses, "ADD "+idx)
	}
	for _, fk := range b.foreignKeys {
		clauses = append(clauses, "ADD "+fk)
	}
	if len(clauses) == 0 && len(b.postDDL) == 0 {
		b.reset()
		return fmt.Errorf("nothing to alter on table %q", b.table)
	}

	table := b.table
	post := b.postDDL
	if len(clauses) > 0 {
		ddl := fmt.Sprintf("ALTER TABLE %s %s", b.quote(table), strings.Join(clauses, ", "))
		if _, err := b.mgr.Exec(ctx, ddl); err != nil {
			b.reset()
			return fmt.Errorf("altering table %s: %w", table, err)
		}
	}
	for _, stmt := range post {
		if _, err := b.mgr.Exec(ctx, stmt); err != nil {
			b.reset()
			return fmt.Errorf("creating index on %s: %w", table, err)
		}
	}
	b.reset()
	return nil
}

// Abort discards the open session without executing anything.
func (b *TableBuilder) Abort() { b.reset() }

func (b *TableBuilder) reset() {
	b.mode = modeIdle
	b.table = ""
	b.fields = nil
	b.idField = ""
	b.idInlinePK = false
	b.primaryKey = nil
	b.foreignKeys = nil
	b.indexes = nil
	b.postDDL = nil
	b.timestamps = false
}

func (b *TableBuilder) hasField(name string) bool {
	quoted := b.quote(name)
	for _, f := range b.fields {
		if strings.HasPrefix(f, quoted+" ") {
			return true
		}
	}
	return false
}

func (b *TableBuilder) quote(name string) string {
	return b.mgr.Driver().QuoteIdentifier(name)
}

func validReferentialAction(action string) bool {
	switch strings.ToUpper(action) {
	case "CASCADE", "SET NULL", "RESTRICT", "NO ACTION":
		return true
	}
	return false
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
