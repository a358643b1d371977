// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// CollectFiles resolves a mixed list of files and directories into a sorted,
// de-duplicated list of files with the extension. Directories are walked
// recursively; explicitly named files must carry the extension. Paths that do
// not exist are returned separately so the caller can decide how loud to be.
func CollectFiles(paths []string, extension string) (files []string, missing []string, err error) {
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, path := range paths {
		info, statErr := os.Stat(path)
		if statErr != nil {
			if os.IsNotExist(statErr) {
				missing = append(missing, path)
				continue
			}
			return nil, nil, fmt.Errorf("error accessing path %s: %w", path, statErr)
		}

		if !info.IsDir() {
			if strings.HasSuffix(path, extension) {
				add(path)
			}
			continue
		}

		found, walkErr := FindFilesByExtension(path, extension)
		if walkErr != nil {
			return nil, nil, fmt.Errorf("failed to walk %s: %w", path, walkErr)
		}
		for _, f := range found {
			add(f)
		}
	}

	sort.Strings(files)
	return files, missing, nil
}
