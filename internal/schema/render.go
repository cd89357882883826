package schema

import (
	"fmt"
	"strings"
)

// Definition renders the column for the compact form. Attributes appear in a fixed
// order: NOT NULL, DEFAULT, AUTO_INCREMENT, PRIMARY KEY, REFERENCES, comment.
func (c Column) Definition() string {
	var sb strings.Builder
	sb.WriteString(c.Name + " " + c.Type)
	if !c.Nullable {
		sb.WriteString(" NOT NULL")
	}
	if c.Default != nil {
		sb.WriteString(" DEFAULT " + *c.Default)
	}
	if c.IsAutoIncrement() {
		sb.WriteString(" AUTO_INCREMENT")
	}
	if c.IsPrimaryKey() {
		sb.WriteString(" PRIMARY KEY")
	}
	if c.IsForeignKey() {
		sb.WriteString(fmt.Sprintf(" REFERENCES %s(%s)", c.RefTable, c.RefColumn))
	}
	if c.Comment != "" {
		sb.WriteString(" -- " + c.Comment)
	}
	return sb.String()
}

// Constraints renders the constraint cell of the markdown form.
func (c Column) Constraints() string {
	var parts []string
	if !c.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if c.IsPrimaryKey() {
		parts = append(parts, "PRIMARY KEY")
	}
	if c.IsAutoIncrement() {
		parts = append(parts, "AUTO_INCREMENT")
	}
	if c.IsForeignKey() {
		parts = append(parts, fmt.Sprintf("FK → %s.%s", c.RefTable, c.RefColumn))
	}
	if c.Default != nil {
		parts = append(parts, "DEFAULT "+*c.Default)
	}
	return strings.Join(parts, ", ")
}

// Compact renders tables for the model's system prompt.
func Compact(tables []Table, dbName string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("DATABASE: %s\n\n", dbName))
	for _, table := range tables {
		sb.WriteString(fmt.Sprintf("TABLE %s:\n", table.Name))
		for _, col := range table.Columns {
			sb.WriteString("  " + col.Definition() + "\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// Rich renders tables as a markdown document, one block per table.
func Rich(tables []Table, dbName string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# 📊 Structure de la base de données: **%s**\n\n", dbName))
	for _, table := range tables {
		sb.WriteString(fmt.Sprintf("## 📋 Table: **%s**\n\n", table.Name))
		sb.WriteString("| Colonne | Type | Contraintes | Commentaire |\n")
		sb.WriteString("|---------|------|-------------|-------------|\n")
		for _, col := range table.Columns {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", col.Name, col.Type, col.Constraints(), col.Comment))
		}
		sb.WriteString("\n---\n\n")
	}
	return sb.String()
}
