package db

import (
	"strings"
	"testing"
)

func TestParseDriver(t *testing.T) {
	tests := []struct {
		input   string
		want    Driver
		wantErr bool
	}{
		{"", DriverMySQL, false},
		{"MySQL", DriverMySQL, false},
		{"postgresql", DriverPostgres, false},
		{"oracle", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDriver(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseDriver(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseDriver(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConfigured(t *testing.T) {
	d := Descriptor{Host: "localhost", User: "root", Database: "shop"}
	if !d.Configured() {
		t.Fatal("expected configured descriptor")
	}
	if d.WithDatabase("").Configured() {
		t.Fatal("descriptor without database should not be configured")
	}
	if (Descriptor{Host: "localhost", Database: "shop"}).Configured() {
		t.Fatal("descriptor without user should not be configured")
	}
}

func TestMySQLDSN(t *testing.T) {
	d := Descriptor{Host: "db.local", User: "app", Password: "s3cret", Database: "shop"}
	dsn := d.DSN(true)
	if !strings.HasPrefix(dsn, "app:s3cret@tcp(db.local:3306)/shop?") {
		t.Fatalf("DSN(true) = %q", dsn)
	}
	if !strings.Contains(dsn, "charset=utf8mb4") {
		t.Fatalf("DSN(true) missing params: %q", dsn)
	}
	// Temporal columns must come back as server text, not time.Time.
	if strings.Contains(dsn, "parseTime") {
		t.Fatalf("DSN(true) enables parseTime: %q", dsn)
	}
	if noDB := d.DSN(false); !strings.HasPrefix(noDB, "app:s3cret@tcp(db.local:3306)/?") {
		t.Fatalf("DSN(false) = %q", noDB)
	}
}

func TestPostgresDSN(t *testing.T) {
	d := Descriptor{Driver: DriverPostgres, Host: "pg", Port: 6543, User: "app", Password: "p@ss", Database: "shop"}
	if got := d.DSN(true); got != "postgres://app:p%40ss@pg:6543/shop?sslmode=disable" {
		t.Fatalf("DSN(true) = %q", got)
	}
	if got := d.DSN(false); got != "postgres://app:p%40ss@pg:6543/postgres?sslmode=disable" {
		t.Fatalf("DSN(false) = %q", got)
	}
}

func TestStringHidesPassword(t *testing.T) {
	d := Descriptor{Host: "localhost", User: "root", Password: "hunter2", Database: "shop"}
	got := d.String()
	if strings.Contains(got, "hunter2") {
		t.Fatalf("String() leaks password: %q", got)
	}
	if got != "mysql://root@localhost:3306/shop" {
		t.Fatalf("String() = %q", got)
	}
}
