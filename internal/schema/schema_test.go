package schema

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/JonMunkholm/WebDbAssistant/internal/db"
)

var catalogColumns = []string{
	"TABLE_NAME", "COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE", "COLUMN_DEFAULT", "EXTRA",
	"COLUMN_KEY", "CONSTRAINT_TYPE", "REFERENCED_TABLE_NAME", "REFERENCED_COLUMN_NAME", "COLUMN_COMMENT",
}

var shop = db.Descriptor{Driver: db.DriverMySQL, Host: "localhost", User: "root", Database: "shop"}

func shopRows() *sqlmock.Rows {
	return sqlmock.NewRows(catalogColumns).
		AddRow("client", "id", "int", "NO", nil, "auto_increment", "PRI", "PRIMARY KEY", nil, nil, "").
		AddRow("client", "nom", "varchar(100)", "NO", nil, "", "", nil, nil, nil, "Nom complet").
		AddRow("commande", "id", "int", "NO", nil, "auto_increment", "PRI", "PRIMARY KEY", nil, nil, "").
		AddRow("commande", "client_id", "int", "NO", nil, "", "MUL", "FOREIGN KEY", "client", "id", "").
		AddRow("commande", "statut", "varchar(20)", "YES", "nouveau", "", "", nil, nil, nil, "").
		AddRow("profil", "client_id", "int", "NO", nil, "", "PRI", "PRIMARY KEY", nil, nil, "").
		AddRow("profil", "client_id", "int", "NO", nil, "", "PRI", "FOREIGN KEY", "client", "id", "")
}

func TestLoadGroupsRowsByTable(t *testing.T) {
	conn, mock := newSQLMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.COLUMNS c")).
		WithArgs("shop").
		WillReturnRows(shopRows())
	mock.ExpectClose()

	tables, err := NewIntrospector(staticOpen(conn, nil), nil).Load(context.Background(), shop)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(tables) != 3 {
		t.Fatalf("len(tables) = %d, want 3", len(tables))
	}
	names := []string{tables[0].Name, tables[1].Name, tables[2].Name}
	if !reflect.DeepEqual(names, []string{"client", "commande", "profil"}) {
		t.Fatalf("table order = %v", names)
	}
	if !reflect.DeepEqual(tables[2].PrimaryKeys, []string{"client_id"}) {
		t.Fatalf("profil primary keys = %v", tables[2].PrimaryKeys)
	}
	wantFK := []ForeignKey{{Column: "client_id", ForeignTable: "client", ForeignColumn: "id"}}
	if !reflect.DeepEqual(tables[1].ForeignKeys, wantFK) {
		t.Fatalf("commande foreign keys = %#v", tables[1].ForeignKeys)
	}
	if d := tables[1].Columns[2].Default; d == nil || *d != "nouveau" {
		t.Fatalf("statut default = %v", d)
	}
	assertSQLMock(t, mock)
}

func TestCompactText(t *testing.T) {
	conn, mock := newSQLMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.COLUMNS c")).
		WithArgs("shop").
		WillReturnRows(shopRows())
	mock.ExpectClose()

	got := NewIntrospector(staticOpen(conn, nil), nil).CompactText(context.Background(), shop)
	want := strings.Join([]string{
		"DATABASE: shop",
		"",
		"TABLE client:",
		"  id int NOT NULL AUTO_INCREMENT PRIMARY KEY",
		"  nom varchar(100) NOT NULL -- Nom complet",
		"",
		"TABLE commande:",
		"  id int NOT NULL AUTO_INCREMENT PRIMARY KEY",
		"  client_id int NOT NULL REFERENCES client(id)",
		"  statut varchar(20) DEFAULT nouveau",
		"",
		"TABLE profil:",
		"  client_id int NOT NULL PRIMARY KEY",
		"  client_id int NOT NULL PRIMARY KEY REFERENCES client(id)",
	}, "\n")
	if got != want {
		t.Fatalf("CompactText() =\n%s\nwant\n%s", got, want)
	}
	assertSQLMock(t, mock)
}

func TestCompactPrimaryKeyBeforeReference(t *testing.T) {
	col := Column{Name: "client_id", Type: "int", Key: "PRI", ConstraintType: "FOREIGN KEY", RefTable: "client", RefColumn: "id"}
	line := col.Definition()
	pk := strings.Index(line, "PRIMARY KEY")
	ref := strings.Index(line, "REFERENCES client(id)")
	if pk < 0 || ref < 0 || pk > ref {
		t.Fatalf("Definition() = %q", line)
	}
}

func TestRichText(t *testing.T) {
	conn, mock := newSQLMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.COLUMNS c")).
		WithArgs("shop").
		WillReturnRows(shopRows())
	mock.ExpectClose()

	got := NewIntrospector(staticOpen(conn, nil), nil).RichText(context.Background(), shop)
	for _, want := range []string{
		"# 📊 Structure de la base de données: **shop**\n\n",
		"## 📋 Table: **client**\n\n| Colonne | Type | Contraintes | Commentaire |\n|---------|------|-------------|-------------|\n",
		"| id | int | NOT NULL, PRIMARY KEY, AUTO_INCREMENT |  |\n",
		"| nom | varchar(100) | NOT NULL | Nom complet |\n",
		"| client_id | int | NOT NULL, FK → client.id |  |\n",
		"| statut | varchar(20) | DEFAULT nouveau |  |\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("RichText() missing %q in:\n%s", want, got)
		}
	}
	if n := strings.Count(got, "\n---\n"); n != 3 {
		t.Fatalf("separators = %d, want 3", n)
	}
	assertSQLMock(t, mock)
}

func TestTextOnFailure(t *testing.T) {
	in := NewIntrospector(staticOpen(nil, errors.New("access denied")), nil)
	if got := in.CompactText(context.Background(), shop); got != "Erreur lors de la récupération du schéma : access denied" {
		t.Fatalf("CompactText() = %q", got)
	}
	if got := in.RichText(context.Background(), shop); got != "❌ **Erreur lors de la récupération du schéma:** access denied" {
		t.Fatalf("RichText() = %q", got)
	}
}

func TestPostgresCatalogQuery(t *testing.T) {
	conn, mock := newSQLMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("information_schema.constraint_column_usage")).
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows(catalogColumns).
			AddRow("item", "id", "integer", "NO", "nextval('item_id_seq'::regclass)", "auto_increment", "", "PRIMARY KEY", nil, nil, ""))
	mock.ExpectClose()

	pg := shop
	pg.Driver = db.DriverPostgres
	got := NewIntrospector(staticOpen(conn, nil), nil).CompactText(context.Background(), pg)
	want := "DATABASE: shop\n\nTABLE item:\n  id integer NOT NULL DEFAULT nextval('item_id_seq'::regclass) AUTO_INCREMENT PRIMARY KEY"
	if got != want {
		t.Fatalf("CompactText() = %q", got)
	}
	assertSQLMock(t, mock)
}

func TestCompactEmpty(t *testing.T) {
	if got := Compact(nil, "vide"); got != "DATABASE: vide" {
		t.Fatalf("Compact() = %q", got)
	}
}

func staticOpen(conn *sql.DB, err error) db.OpenFunc {
	return func(ctx context.Context, d db.Descriptor, withDatabase bool) (*sql.DB, error) {
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return conn, mock
}

func assertSQLMock(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}
