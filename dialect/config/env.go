package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/exceedzhang/metabase/dialect"
)

// DefaultEnvPrefix is the variable prefix FromEnv uses when given none.
const DefaultEnvPrefix = "MB_DB"

// LoadDotenv loads variables from the named dotenv files into the process
// environment. Variables already set are left alone, so real environment
// wins over file contents.
func LoadDotenv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("config: dotenv: %w", err)
	}
	return nil
}

// FromEnv builds a source from <prefix>_DRIVER, <prefix>_HOST,
// <prefix>_PORT, <prefix>_DBNAME, <prefix>_USER, <prefix>_PASSWORD,
// <prefix>_SSL and <prefix>_OPTIONS. USER and PASSWORD distinguish unset
// from set-but-empty; OPTIONS is a comma-separated key=value list kept in
// order.
func FromEnv(prefix string) (Source, error) {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	get := func(suffix string) (string, bool) {
		return os.LookupEnv(prefix + "_" + suffix)
	}

	var s Source
	s.Driver, _ = get("DRIVER")
	s.Host, _ = get("HOST")
	s.Database, _ = get("DBNAME")
	if v, ok := get("USER"); ok {
		s.User = &v
	}
	if v, ok := get("PASSWORD"); ok {
		s.Password = &v
	}
	if v, ok := get("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Source{}, fmt.Errorf("config: %s_PORT: %w", prefix, err)
		}
		s.Port = port
	}
	if v, ok := get("SSL"); ok && v != "" {
		ssl, err := strconv.ParseBool(v)
		if err != nil {
			return Source{}, fmt.Errorf("config: %s_SSL: %w", prefix, err)
		}
		s.SSL = ssl
	}
	if v, ok := get("OPTIONS"); ok && v != "" {
		opts, err := parseOptions(v)
		if err != nil {
			return Source{}, fmt.Errorf("config: %s_OPTIONS: %w", prefix, err)
		}
		s.Options = opts
	}
	return s, nil
}

func parseOptions(v string) (Options, error) {
	parts := strings.Split(v, ",")
	opts := make(Options, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("option %q is not key=value", part)
		}
		opts = append(opts, dialect.Property{Key: key, Value: value})
	}
	return opts, nil
}
