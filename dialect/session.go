package dialect

import (
	"context"
	"fmt"
	"strings"
)

// escapeStringValue escapes a string value for safe use in SQL.
// It escapes both single quotes (by doubling) and backslashes (for MySQL
// compatibility).
func escapeStringValue(s string) string {
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", "''")
	return s
}

// SetTimezone sets the session timezone on the given connection using the
// dialect's timezone statement template. The zone value is escaped before
// it is formatted into the template. Dialects without a session timezone
// return a NotSupportedError.
func SetTimezone(ctx context.Context, d Driver, conn ExecQuerier, tz string) error {
	tmpl := d.TimezoneSQL()
	if tmpl == "" {
		return &NotSupportedError{Driver: d.Name(), Op: "session timezone"}
	}
	stmt := fmt.Sprintf(tmpl, escapeStringValue(tz))
	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("dialect: set timezone %q: %w", tz, err)
	}
	return nil
}
