// Package schema reads catalog metadata from the target database and renders it
// either as compact text for the model's system prompt or as markdown for people.
// Nothing is cached: every call re-reads the catalog.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/JonMunkholm/WebDbAssistant/internal/db"
)

// Table represents a database table and its structure.
type Table struct {
	Name        string
	Columns     []Column
	PrimaryKeys []string
	ForeignKeys []ForeignKey
}

// Column is one catalog row for a table column. A column taking part in several key
// constraints yields one Column per constraint.
type Column struct {
	Name           string
	Type           string
	Nullable       bool
	Default        *string
	Extra          string
	Key            string
	ConstraintType string
	RefTable       string
	RefColumn      string
	Comment        string
}

// ForeignKey represents a foreign key relationship.
type ForeignKey struct {
	Column        string
	ForeignTable  string
	ForeignColumn string
}

// IsPrimaryKey reports whether the column is (part of) the primary key.
func (c Column) IsPrimaryKey() bool {
	return c.Key == "PRI" || c.ConstraintType == "PRIMARY KEY"
}

// IsForeignKey reports whether this row describes a foreign key constraint.
func (c Column) IsForeignKey() bool {
	return c.ConstraintType == "FOREIGN KEY"
}

// IsAutoIncrement reports whether the extra metadata marks the column auto-increment.
func (c Column) IsAutoIncrement() bool {
	return strings.Contains(strings.ToLower(c.Extra), "auto_increment")
}

// Introspector loads table metadata for a Descriptor.
type Introspector struct {
	open   db.OpenFunc
	logger *slog.Logger
}

// NewIntrospector creates an Introspector. A nil open uses db.Open; a nil logger discards.
func NewIntrospector(open db.OpenFunc, logger *slog.Logger) *Introspector {
	if open == nil {
		open = db.Open
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Introspector{open: open, logger: logger}
}

// Load opens a connection, runs the catalog query and groups the rows by table in
// catalog order.
func (i *Introspector) Load(ctx context.Context, d db.Descriptor) ([]Table, error) {
	conn, err := i.open(ctx, d, true)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	query, arg := catalogQuery(d)
	rows, err := conn.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var tables []Table
	index := make(map[string]int)
	for rows.Next() {
		var (
			tableName, nullable                         string
			col                                         Column
			def, extra, key, ctype, rtab, rcol, comment sql.NullString
		)
		if err := rows.Scan(&tableName, &col.Name, &col.Type, &nullable, &def, &extra, &key, &ctype, &rtab, &rcol, &comment); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		col.Nullable = nullable != "NO"
		if def.Valid {
			v := def.String
			col.Default = &v
		}
		col.Extra = extra.String
		col.Key = key.String
		col.ConstraintType = ctype.String
		col.RefTable = rtab.String
		col.RefColumn = rcol.String
		col.Comment = comment.String

		pos, ok := index[tableName]
		if !ok {
			pos = len(tables)
			index[tableName] = pos
			tables = append(tables, Table{Name: tableName})
		}
		tables[pos].add(col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	i.logger.DebugContext(ctx, "schema loaded", slog.String("target", d.String()), slog.Int("tables", len(tables)))
	return tables, nil
}

func (t *Table) add(col Column) {
	if col.IsPrimaryKey() && !slices.Contains(t.PrimaryKeys, col.Name) {
		t.PrimaryKeys = append(t.PrimaryKeys, col.Name)
	}
	if col.IsForeignKey() {
		fk := ForeignKey{Column: col.Name, ForeignTable: col.RefTable, ForeignColumn: col.RefColumn}
		if !slices.Contains(t.ForeignKeys, fk) {
			t.ForeignKeys = append(t.ForeignKeys, fk)
		}
	}
	t.Columns = append(t.Columns, col)
}

// CompactText loads the schema and renders it for the model. Failures become text.
func (i *Introspector) CompactText(ctx context.Context, d db.Descriptor) string {
	tables, err := i.Load(ctx, d)
	if err != nil {
		i.logger.WarnContext(ctx, "schema introspection failed", slog.String("target", d.String()), slog.String("error", err.Error()))
		return fmt.Sprintf("Erreur lors de la récupération du schéma : %v", err)
	}
	return Compact(tables, d.Database)
}

// RichText loads the schema and renders it as markdown. Failures become text.
func (i *Introspector) RichText(ctx context.Context, d db.Descriptor) string {
	tables, err := i.Load(ctx, d)
	if err != nil {
		i.logger.WarnContext(ctx, "schema introspection failed", slog.String("target", d.String()), slog.String("error", err.Error()))
		return fmt.Sprintf("❌ **Erreur lors de la récupération du schéma:** %v", err)
	}
	return Rich(tables, d.Database)
}
