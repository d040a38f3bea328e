package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParamsDefaults(t *testing.T) {
	p := NewParams("db.example.com", "reports")
	assert.Equal(t, "db.example.com", p.Host())
	assert.Equal(t, "reports", p.Database())
	assert.Zero(t, p.Port())
	assert.Equal(t, 5432, p.PortOr(5432))
	assert.False(t, p.SSL())
	assert.Nil(t, p.Options())

	_, ok := p.User()
	assert.False(t, ok, "no user was supplied")
	assert.Equal(t, DefaultUser, p.UserOr(DefaultUser))

	_, ok = p.Password()
	assert.False(t, ok)
}

func TestNewParamsExplicitEmptyUser(t *testing.T) {
	// An explicitly empty user is a value, not an omission: the dialect
	// default must not replace it.
	p := NewParams("h", "db", WithUser(""))
	user, ok := p.User()
	require.True(t, ok)
	assert.Equal(t, "", user)
	assert.Equal(t, "", p.UserOr(DefaultUser))
}

func TestNewParamsOptions(t *testing.T) {
	p := NewParams("h", "db",
		WithPort(5433),
		WithUser("alice"),
		WithPassword("sekrit"),
		WithSSL(),
		WithOption("a", "1"),
		WithOption("b", "2"),
	)
	assert.Equal(t, 5433, p.Port())
	assert.Equal(t, 5433, p.PortOr(5432))
	assert.True(t, p.SSL())

	user, ok := p.User()
	require.True(t, ok)
	assert.Equal(t, "alice", user)

	pw, ok := p.Password()
	require.True(t, ok)
	assert.Equal(t, "sekrit", pw)

	assert.Equal(t, []Property{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}, p.Options())
}

func TestOptionsReturnsCopy(t *testing.T) {
	p := NewParams("h", "db", WithOption("a", "1"))
	opts := p.Options()
	opts[0].Value = "mangled"
	assert.Equal(t, "1", p.Options()[0].Value)
}

func TestDescriptorProperty(t *testing.T) {
	d := ConnDescriptor{Properties: []Property{
		{Key: "user", Value: "alice"},
		{Key: "password", Value: "sekrit"},
	}}
	v, ok := d.Property("user")
	require.True(t, ok)
	assert.Equal(t, "alice", v)

	_, ok = d.Property("nope")
	assert.False(t, ok)
}

func TestDescriptorScrub(t *testing.T) {
	d := ConnDescriptor{
		DriverName: "mysql",
		Address:    "db:3306",
		Properties: []Property{
			{Key: "user", Value: "alice"},
			{Key: "password", Value: "sekrit"},
		},
		DSN: "alice:sekrit@tcp(db:3306)/x",
	}
	d.Scrub()
	assert.Empty(t, d.DSN)
	pw, ok := d.Property("password")
	require.True(t, ok, "the property key stays, only the value is zeroed")
	assert.Empty(t, pw)
	user, _ := d.Property("user")
	assert.Equal(t, "alice", user, "non-credential fields stay readable")
	assert.Equal(t, "db:3306", d.Address)
}

func TestRenderOptions(t *testing.T) {
	assert.Empty(t, RenderOptions(nil, "&"))
	opts := []Property{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}
	assert.Equal(t, "a=1&b=2", RenderOptions(opts, "&"))
	assert.Equal(t, "a=1 b=2", RenderOptions(opts, " "))
}

func TestAppendOptions(t *testing.T) {
	opts := []Property{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}
	tests := []struct {
		name string
		dsn  string
		opts []Property
		sep  string
		join string
		want string
	}{
		{"no options", "base", nil, "&", "?", "base"},
		{"empty dsn", "", opts, "&", "?", "a=1&b=2"},
		{"introduces join", "user@tcp(h:3306)/db", opts, "&", "?", "user@tcp(h:3306)/db?a=1&b=2"},
		{"join already present", "user@tcp(h:3306)/db?parseTime=true", opts, "&", "?", "user@tcp(h:3306)/db?parseTime=true&a=1&b=2"},
		{"same sep and join", "host=h port=5432", opts, " ", " ", "host=h port=5432 a=1 b=2"},
		{"same sep, trailing sep", "host=h ", opts, " ", " ", "host=h a=1 b=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AppendOptions(tt.dsn, tt.opts, tt.sep, tt.join))
		})
	}
}
