package dialect

import "strings"

// DefaultUser is the user applied by connection spec builders when the
// caller supplies none. An explicitly empty user is an explicit value and
// is never replaced by this default.
const DefaultUser = "dbuser"

// Property is an ordered key/value pair. Descriptor properties and extra
// connection options keep their order so that rendered strings are
// deterministic.
type Property struct {
	Key   string
	Value string
}

// ConnectionParameters is the generic, dialect-independent record a caller
// supplies to open a connection. It is created per connection attempt and
// immutable after construction; user and password distinguish absent (the
// dialect default applies) from explicitly empty.
type ConnectionParameters struct {
	host     string
	port     int
	database string
	user     *string
	password *string
	ssl      bool
	options  []Property
}

// ParamOption configures ConnectionParameters at construction.
type ParamOption func(*ConnectionParameters)

// WithPort sets the port. Zero means the dialect default.
func WithPort(port int) ParamOption {
	return func(p *ConnectionParameters) { p.port = port }
}

// WithUser sets the user, including the explicit empty string.
func WithUser(user string) ParamOption {
	return func(p *ConnectionParameters) { p.user = &user }
}

// WithPassword sets the password, including the explicit empty string.
func WithPassword(password string) ParamOption {
	return func(p *ConnectionParameters) { p.password = &password }
}

// WithSSL enables the dialect's encrypt option.
func WithSSL() ParamOption {
	return func(p *ConnectionParameters) { p.ssl = true }
}

// WithOption appends one extra driver option. Options are rendered in the
// order they were added.
func WithOption(key, value string) ParamOption {
	return func(p *ConnectionParameters) {
		p.options = append(p.options, Property{Key: key, Value: value})
	}
}

// NewParams returns connection parameters for the given host and database.
func NewParams(host, database string, opts ...ParamOption) ConnectionParameters {
	p := ConnectionParameters{host: host, database: database}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Host returns the host name.
func (p ConnectionParameters) Host() string { return p.host }

// Port returns the port, or zero when unset.
func (p ConnectionParameters) Port() int { return p.port }

// PortOr returns the port, or def when unset.
func (p ConnectionParameters) PortOr(def int) int {
	if p.port == 0 {
		return def
	}
	return p.port
}

// Database returns the database name.
func (p ConnectionParameters) Database() string { return p.database }

// User returns the user and whether one was supplied.
func (p ConnectionParameters) User() (string, bool) {
	if p.user == nil {
		return "", false
	}
	return *p.user, true
}

// UserOr returns the user, or def when none was supplied.
func (p ConnectionParameters) UserOr(def string) string {
	if p.user == nil {
		return def
	}
	return *p.user
}

// Password returns the password and whether one was supplied.
func (p ConnectionParameters) Password() (string, bool) {
	if p.password == nil {
		return "", false
	}
	return *p.password, true
}

// SSL reports whether the encrypt option is requested.
func (p ConnectionParameters) SSL() bool { return p.ssl }

// Options returns a copy of the extra driver options, in insertion order.
func (p ConnectionParameters) Options() []Property {
	if len(p.options) == 0 {
		return nil
	}
	out := make([]Property, len(p.options))
	copy(out, p.options)
	return out
}

// ConnDescriptor is the dialect-specific connection spec derived from
// ConnectionParameters. It is owned solely by the connection attempt that
// built it and must not outlive it: call Scrub once the attempt completes
// so credentials are not retained.
type ConnDescriptor struct {
	// DriverName is the database/sql driver the DSN is addressed to.
	DriverName string
	// Protocol is the dialect's connection protocol identifier.
	Protocol string
	// Address is the host:port or file-path part of the connection,
	// without credentials.
	Address string
	// Properties are the remaining connection fields as ordered key/value
	// pairs. Values may contain characters that would be unsafe in a raw
	// connection string.
	Properties []Property
	// DSN is the rendered data source name passed to sql.Open.
	DSN string
}

// Property returns the value of the named property and whether it is set.
func (d *ConnDescriptor) Property(key string) (string, bool) {
	for _, p := range d.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Scrub zeroes the credential-bearing parts of the descriptor: the rendered
// DSN and the password property. The remaining fields stay readable for
// logging and diagnostics.
func (d *ConnDescriptor) Scrub() {
	d.DSN = ""
	for i := range d.Properties {
		if d.Properties[i].Key == "password" {
			d.Properties[i].Value = ""
		}
	}
}

// RenderOptions renders properties as key=value segments joined by sep.
func RenderOptions(opts []Property, sep string) string {
	if len(opts) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, o := range opts {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(o.Key)
		sb.WriteString("=")
		sb.WriteString(o.Value)
	}
	return sb.String()
}

// AppendOptions attaches extra options to a rendered DSN using the
// dialect's separator and join characters, e.g. sep "&" and join "?" for
// URL-style strings. When the DSN already contains the join character from
// a prior segment, the separator is used instead so it is never duplicated.
func AppendOptions(dsn string, opts []Property, sep, join string) string {
	if len(opts) == 0 {
		return dsn
	}
	rendered := RenderOptions(opts, sep)
	switch {
	case dsn == "":
		return rendered
	case join == sep:
		if strings.HasSuffix(dsn, sep) {
			return dsn + rendered
		}
		return dsn + sep + rendered
	case strings.Contains(dsn, join):
		return dsn + sep + rendered
	default:
		return dsn + join + rendered
	}
}
