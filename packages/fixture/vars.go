package fixture

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// WarnFunc receives warnings such as unresolved placeholders
type WarnFunc func(format string, args ...any)

// Option configures how fixtures are read
type Option func(*reader)

type reader struct {
	vars map[string]string
	warn WarnFunc
}

func newReader(opts []Option) *reader {
	r := &reader{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithVars resolves {{name}} placeholders from vars
func WithVars(vars map[string]string) Option {
	return func(r *reader) {
		r.vars = vars
	}
}

// WithWarn reports placeholders that could not be resolved
func WithWarn(fn WarnFunc) Option {
	return func(r *reader) {
		r.warn = fn
	}
}

// expand replaces {{name}} with a variable and {{$NAME}} with the
// environment variable NAME. Unresolved placeholders are left in place.
func (r *reader) expand(data []byte, path string) []byte {
	return variablePattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := strings.TrimSpace(string(match[2 : len(match)-2]))

		if envVar, ok := strings.CutPrefix(name, "$"); ok {
			if val, ok := os.LookupEnv(envVar); ok {
				return []byte(val)
			}
		} else if val, ok := r.vars[name]; ok {
			return []byte(val)
		}

		if r.warn != nil {
			r.warn("%s: unresolved variable %s", path, name)
		}
		return match
	})
}

// LoadVars reads KEY=value pairs from a dotenv file. Blank lines and #
// comments are skipped and matching outer quotes are stripped.
func LoadVars(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open env file: %w", err)
	}
	defer file.Close()

	vars := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		key, value, found := strings.Cut(strings.TrimPrefix(text, "export "), "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("%s:%d: expected KEY=value", path, line)
		}

		value = strings.TrimSpace(value)
		if n := len(value); n >= 2 && (value[0] == '"' || value[0] == '\'') && value[n-1] == value[0] {
			value = value[1 : n-1]
		}
		vars[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}
	return vars, nil
}
