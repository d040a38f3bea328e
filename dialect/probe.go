package dialect

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Open builds the dialect's connection descriptor for the given parameters
// and opens a database handle with it. The descriptor is scrubbed before
// Open returns; the pool retains the DSN internally, nothing else does.
func Open(d Driver, params ConnectionParameters) (*sql.DB, error) {
	spec := d.ConnectionSpec(params)
	db, err := sql.Open(spec.DriverName, spec.DSN)
	spec.Scrub()
	if err != nil {
		return nil, fmt.Errorf("dialect: open %s: %w", d.Name(), err)
	}
	return db, nil
}

// CanConnect reports whether a usable connection can be established with
// the given parameters. It opens a handle, issues the dialect's probe query
// once and closes the handle again. A transport failure is returned as a
// ClassifiedError; the boolean is false for any failure or any unexpected
// probe result. Timeouts come from the caller's context.
func CanConnect(ctx context.Context, d Driver, params ConnectionParameters, opts ...Option) (bool, error) {
	db, err := Open(d, params)
	if err != nil {
		return false, err
	}
	defer db.Close()
	return Probe(ctx, d, db, opts...)
}

// Probe issues the dialect's no-op probe query on an existing handle and
// checks the result shape: exactly one row holding the single value 1.
// Extra rows, extra columns, a different value or an empty result all mean
// false. A query failure returns false plus the classified error.
func Probe(ctx context.Context, d Driver, db ExecQuerier, opts ...Option) (bool, error) {
	var (
		cfg   = newSettings(opts)
		id    = uuid.NewString()
		query = d.ProbeSQL()
	)
	cfg.log.Debug("connectivity probe", "probe", id, "driver", d.Name(), "query", query)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		cerr := &ClassifiedError{Category: Classify(d, err), Err: err}
		cfg.log.Debug("connectivity probe failed", "probe", id, "driver", d.Name(), "kind", cerr.Category.Kind.String())
		return false, cerr
	}
	defer rows.Close()

	ok := false
	if rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return false, fmt.Errorf("dialect: probe columns: %w", err)
		}
		if len(cols) == 1 {
			var v any
			if err := rows.Scan(&v); err != nil {
				return false, fmt.Errorf("dialect: probe scan: %w", err)
			}
			ok = probeValue(v)
		}
	}
	// A second row means the probe did not behave; reject it.
	if rows.Next() {
		ok = false
	}
	if err := rows.Err(); err != nil {
		cerr := &ClassifiedError{Category: Classify(d, err), Err: err}
		return false, cerr
	}
	cfg.log.Debug("connectivity probe result", "probe", id, "driver", d.Name(), "ok", ok)
	return ok, nil
}

// probeValue reports whether a scanned probe cell equals 1 across the
// representations drivers hand back for integer literals.
func probeValue(v any) bool {
	switch v := v.(type) {
	case int64:
		return v == 1
	case int:
		return v == 1
	case uint64:
		return v == 1
	case float64:
		return v == 1
	case bool:
		return v
	case string:
		n, err := strconv.ParseFloat(v, 64)
		return err == nil && n == 1
	case []byte:
		n, err := strconv.ParseFloat(string(v), 64)
		return err == nil && n == 1
	}
	return false
}
