package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsFixtureFile reports whether path has a fixture extension
func IsFixtureFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Collect expands args into fixture files, walking directories
func Collect(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && IsFixtureFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if IsFixtureFile(arg) {
			files = append(files, arg)
		}
	}

	return files, nil
}

// Load collects and parses every fixture in args
func Load(args []string, opts ...Option) ([]*File, error) {
	paths, err := Collect(args)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no fixture files found")
	}

	files := make([]*File, 0, len(paths))
	for _, path := range paths {
		f, err := ParseFile(path, opts...)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
