package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// SuccessMarker prefixes the text produced for statements without a result set.
const SuccessMarker = "Requête exécutée avec succès"

// ErrorPrefix prefixes every execution failure rendered as text.
const ErrorPrefix = "Erreur : "

// OpenFunc opens a connection for one operation. withDatabase is false when the
// operation must not select a database.
type OpenFunc func(ctx context.Context, d Descriptor, withDatabase bool) (*sql.DB, error)

// Open is the default OpenFunc: sql.Open followed by a ping.
func Open(ctx context.Context, d Descriptor, withDatabase bool) (*sql.DB, error) {
	conn, err := sql.Open(string(d.driver()), d.DSN(withDatabase))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver(), err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connect %s: %w", d, err)
	}
	return conn, nil
}

// Executor runs statements against a Descriptor's database.
type Executor struct {
	open   OpenFunc
	logger *slog.Logger
}

// NewExecutor creates an Executor. A nil open uses Open; a nil logger discards.
func NewExecutor(open OpenFunc, logger *slog.Logger) *Executor {
	if open == nil {
		open = Open
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{open: open, logger: logger}
}

// Result is the outcome of one statement.
type Result struct {
	Columns      []string   `json:"columns,omitempty"`
	Rows         [][]string `json:"rows,omitempty"`
	RowsAffected int64      `json:"rowsAffected"`
	Write        bool       `json:"write"`
}

// Text renders the result the way the formatter expects it: a ", "-joined header
// line followed by one line per row, or a success line for writes.
func (r Result) Text() string {
	if r.Write {
		return fmt.Sprintf("%s (%d lignes affectées)", SuccessMarker, r.RowsAffected)
	}
	lines := make([]string, 0, len(r.Rows)+1)
	lines = append(lines, strings.Join(r.Columns, ", "))
	for _, row := range r.Rows {
		lines = append(lines, strings.Join(row, ", "))
	}
	return strings.Join(lines, "\n")
}

// Run executes query. Read statements return their rows; anything else is executed
// under the driver's auto-commit and reports affected rows.
func (e *Executor) Run(ctx context.Context, d Descriptor, query string) (Result, error) {
	conn, err := e.open(ctx, d, true)
	if err != nil {
		return Result{}, err
	}
	defer conn.Close()

	start := time.Now()
	var result Result
	if IsReadQuery(query) {
		result, err = queryRows(ctx, conn, query)
	} else {
		result, err = execStatement(ctx, conn, query)
	}
	if err != nil {
		e.logger.WarnContext(ctx, "statement failed", slog.String("target", d.String()), slog.String("error", err.Error()))
		return Result{}, err
	}

	e.logger.DebugContext(ctx, "statement executed",
		slog.String("target", d.String()),
		slog.Bool("write", result.Write),
		slog.Int("rows", len(result.Rows)),
		slog.Int64("affected", result.RowsAffected),
		slog.String("duration", time.Since(start).String()),
	)
	return result, nil
}

// RunText executes query and renders the outcome, converting failures to text.
func (e *Executor) RunText(ctx context.Context, d Descriptor, query string) string {
	result, err := e.Run(ctx, d, query)
	if err != nil {
		return ErrorPrefix + err.Error()
	}
	return result.Text()
}

// Rows executes a read query and streams it to fn: once with nil values to announce
// the columns, then once per row. The connection is closed when Rows returns.
func (e *Executor) Rows(ctx context.Context, d Descriptor, query string, fn func(columns []string, values []any) error) error {
	conn, err := e.open(ctx, d, true)
	if err != nil {
		return err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	if err := fn(columns, nil); err != nil {
		return err
	}
	for rows.Next() {
		values, err := scanRow(rows, len(columns))
		if err != nil {
			return err
		}
		if err := fn(columns, values); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ListDatabases returns the database names visible to d's credentials.
func (e *Executor) ListDatabases(ctx context.Context, d Descriptor) ([]string, error) {
	conn, err := e.open(ctx, d, false)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	query := "SHOW DATABASES;"
	if d.driver() == DriverPostgres {
		query = "SELECT datname FROM pg_database WHERE NOT datistemplate ORDER BY datname"
	}

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func queryRows(ctx context.Context, conn *sql.DB, query string) (Result, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, err
	}
	if len(columns) == 0 {
		return Result{Write: true}, rows.Err()
	}

	result := Result{Columns: columns}
	for rows.Next() {
		values, err := scanRow(rows, len(columns))
		if err != nil {
			return Result{}, err
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = FormatValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}

func execStatement(ctx context.Context, conn *sql.DB, query string) (Result, error) {
	res, err := conn.ExecContext(ctx, query)
	if err != nil {
		return Result{}, err
	}
	affected, _ := res.RowsAffected()
	return Result{Write: true, RowsAffected: affected}, nil
}

func scanRow(rows *sql.Rows, numCols int) ([]any, error) {
	values := make([]any, numCols)
	ptrs := make([]any, numCols)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return values, nil
}

// FormatValue renders a scanned value as display text. NULL renders as "NULL".
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}

var readPrefixes = []string{"SELECT", "WITH", "SHOW", "DESCRIBE", "DESC", "EXPLAIN"}

// IsReadQuery reports whether query is expected to return rows.
func IsReadQuery(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range readPrefixes {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}
	return false
}

var (
	errEmptyQuery     = errors.New("query is required")
	errNotSelectQuery = errors.New("only SELECT / CTE queries are allowed")
)

// ValidateSelectQuery trims raw and accepts only SELECT or WITH statements.
func ValidateSelectQuery(raw string) (string, error) {
	query := strings.TrimSpace(raw)
	if query == "" {
		return "", errEmptyQuery
	}
	lower := strings.ToLower(query)
	if !strings.HasPrefix(lower, "select") && !strings.HasPrefix(lower, "with") {
		return "", errNotSelectQuery
	}
	return query, nil
}
