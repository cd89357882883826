// Package db holds the connection descriptor and runs statements against the target
// database. Every operation opens its own connection and closes it before returning.
package db

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Driver names a supported database/sql driver.
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
)

// ParseDriver normalizes a driver name. Empty means MySQL.
func ParseDriver(raw string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "mysql", "mariadb":
		return DriverMySQL, nil
	case "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unknown database driver: %q (supported: mysql, postgres)", raw)
	}
}

// Descriptor identifies a target database. It lives only for the process lifetime.
type Descriptor struct {
	Driver   Driver `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port,omitempty"`
	User     string `json:"user"`
	Password string `json:"-"`
	Database string `json:"database"`
}

// Configured reports whether host, user and database are all set.
func (d Descriptor) Configured() bool {
	return d.Host != "" && d.User != "" && d.Database != ""
}

// WithDatabase returns a copy targeting name.
func (d Descriptor) WithDatabase(name string) Descriptor {
	d.Database = name
	return d
}

func (d Descriptor) driver() Driver {
	if d.Driver == "" {
		return DriverMySQL
	}
	return d.Driver
}

func (d Descriptor) port() int {
	if d.Port > 0 {
		return d.Port
	}
	if d.driver() == DriverPostgres {
		return 5432
	}
	return 3306
}

// DSN builds the driver connection string. When withDatabase is false no database is
// selected, which is how databases are listed.
func (d Descriptor) DSN(withDatabase bool) string {
	addr := net.JoinHostPort(d.Host, strconv.Itoa(d.port()))

	switch d.driver() {
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     addr,
			RawQuery: "sslmode=disable",
		}
		if withDatabase {
			u.Path = "/" + d.Database
		} else {
			u.Path = "/postgres"
		}
		return u.String()
	default:
		cfg := mysql.NewConfig()
		cfg.User = d.User
		cfg.Passwd = d.Password
		cfg.Net = "tcp"
		cfg.Addr = addr
		cfg.Params = map[string]string{"charset": "utf8mb4"}
		if withDatabase {
			cfg.DBName = d.Database
		}
		return cfg.FormatDSN()
	}
}

// String describes the target without credentials.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s://%s@%s/%s", d.driver(), d.User, net.JoinHostPort(d.Host, strconv.Itoa(d.port())), d.Database)
}
