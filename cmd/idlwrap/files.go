package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"idlwrap/pkg/cli"
)

// collectFiles returns file (if set) followed by the interface files under dir
// whose extension is in extensions, sorted by path.
func collectFiles(file, dir string, extensions []string, skipHidden bool) ([]string, error) {
	if file == "" && dir == "" {
		return nil, cli.NewConfigError("flags", "either --file or --dir must be specified")
	}

	var files []string
	if file != "" {
		files = append(files, file)
	}

	if dir != "" {
		var found []string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			hidden := path != dir && strings.HasPrefix(d.Name(), ".")
			if d.IsDir() {
				if hidden && skipHidden {
					return filepath.SkipDir
				}
				return nil
			}
			if hidden && skipHidden {
				return nil
			}
			if hasExtension(path, extensions) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list interface files: %w", err)
		}
		slices.Sort(found)
		files = append(files, found...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no interface files found in %s", dir)
	}
	return files, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
