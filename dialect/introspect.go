package dialect

import (
	"context"
	"fmt"
	"strings"
)

// TableInfo describes one introspected table.
type TableInfo struct {
	Name   string
	Schema string
}

// ColumnInfo describes one introspected column. NativeType is the backend's
// own type name; Type is its semantic mapping, TypeUnknown when the dialect
// does not recognize the native name.
type ColumnInfo struct {
	Name       string
	NativeType string
	Type       Semantic
}

// Tables lists the tables visible through the dialect's catalog query,
// with tables in the dialect's excluded schemas filtered out.
func Tables(ctx context.Context, d Driver, db ExecQuerier) ([]TableInfo, error) {
	rows, err := db.QueryContext(ctx, d.TablesSQL())
	if err != nil {
		return nil, fmt.Errorf("dialect: list tables: %w", err)
	}
	defer rows.Close()

	excluded := make(map[string]struct{}, len(d.ExcludedSchemas()))
	for _, s := range d.ExcludedSchemas() {
		excluded[strings.ToLower(s)] = struct{}{}
	}

	var tables []TableInfo
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Name, &t.Schema); err != nil {
			return nil, fmt.Errorf("dialect: scan table: %w", err)
		}
		if _, skip := excluded[strings.ToLower(t.Schema)]; skip {
			continue
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dialect: list tables: %w", err)
	}
	return tables, nil
}

// Columns lists the columns of one table through the dialect's catalog
// query, mapping each native type to its semantic type. An unmapped native
// type is reported as TypeUnknown and logged, never dropped and never an
// error, so sync over unanticipated vendor types degrades gracefully.
func Columns(ctx context.Context, d Driver, db ExecQuerier, table string, opts ...Option) ([]ColumnInfo, error) {
	cfg := newSettings(opts)
	rows, err := db.QueryContext(ctx, d.ColumnsSQL(), table)
	if err != nil {
		return nil, fmt.Errorf("dialect: list columns of %q: %w", table, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var c ColumnInfo
		if err := rows.Scan(&c.Name, &c.NativeType); err != nil {
			return nil, fmt.Errorf("dialect: scan column: %w", err)
		}
		c.Type = d.MapColumnType(c.NativeType)
		if c.Type == TypeUnknown {
			cfg.log.Warn("unmapped column type",
				"driver", d.Name(), "table", table, "column", c.Name, "native_type", c.NativeType)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dialect: list columns of %q: %w", table, err)
	}
	return cols, nil
}
