// Package scanner lists the files of a categorized results folder.
//
// The expected layout is
//
//	True/<class>/<bin>/<file>
//	False/<class>/<bin>/<file>
//	Missed/<class>/<file>
//
// where <bin> is one of Below_50, 50_70 and Above_70. Missing categories,
// classes or bins are not errors; they simply contribute no entries.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/Vitruves/detection-report/internal/logger"
	"github.com/Vitruves/detection-report/internal/models"
)

// Result holds the listed files plus entries that were skipped.
type Result struct {
	Entries []models.BinEntry
	// Skipped counts entries by reason: not a directory, not a regular file,
	// or unreadable.
	Skipped map[string]int
}

func (r *Result) skip(reason, name string) {
	r.Skipped[reason]++
	logger.Debug("Skipping %s (%s)", name, reason)
}

// ScanDir scans a folder on disk.
func ScanDir(baseDir string) (*Result, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open results folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("results folder is not a directory: %s", baseDir)
	}
	return Scan(os.DirFS(baseDir))
}

// Scan lists files below the fixed category taxonomy of fsys. Only an
// unreadable root is an error; unreadable folders below it are skipped.
func Scan(fsys fs.FS) (*Result, error) {
	if _, err := fs.ReadDir(fsys, "."); err != nil {
		return nil, fmt.Errorf("failed to list results folder: %w", err)
	}

	result := &Result{Skipped: make(map[string]int)}

	for _, category := range models.BinnedCategories {
		for _, class := range listDirs(fsys, category, result) {
			for _, bin := range models.Bins {
				for _, file := range listFiles(fsys, path.Join(category, class, bin), result) {
					result.Entries = append(result.Entries, models.BinEntry{
						Category: category,
						Class:    class,
						Bin:      bin,
						File:     file,
					})
				}
			}
		}
	}

	for _, class := range listDirs(fsys, models.CategoryMissed, result) {
		for _, file := range listFiles(fsys, path.Join(models.CategoryMissed, class), result) {
			result.Entries = append(result.Entries, models.BinEntry{
				Category: models.CategoryMissed,
				Class:    class,
				File:     file,
			})
		}
	}

	return result, nil
}

// readDir returns nil entries when dir does not exist, is not a directory
// or cannot be listed.
func readDir(fsys fs.FS, dir string, result *Result) []fs.DirEntry {
	info, err := fs.Stat(fsys, dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			result.skip("unreadable", dir)
		}
		return nil
	}
	if !info.IsDir() {
		result.skip("not a directory", dir)
		return nil
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		result.skip("unreadable", dir)
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries
}

func listDirs(fsys fs.FS, dir string, result *Result) []string {
	var dirs []string
	for _, entry := range readDir(fsys, dir, result) {
		name := path.Join(dir, entry.Name())
		mode, ok := resolveMode(fsys, name, entry)
		if !ok {
			result.skip("unreadable", name)
			continue
		}
		if !mode.IsDir() {
			result.skip("not a directory", name)
			continue
		}
		dirs = append(dirs, entry.Name())
	}
	return dirs
}

func listFiles(fsys fs.FS, dir string, result *Result) []string {
	var files []string
	for _, entry := range readDir(fsys, dir, result) {
		name := path.Join(dir, entry.Name())
		mode, ok := resolveMode(fsys, name, entry)
		if !ok {
			result.skip("unreadable", name)
			continue
		}
		if !mode.IsRegular() {
			result.skip("not a regular file", name)
			continue
		}
		files = append(files, entry.Name())
	}
	return files
}

// resolveMode follows symlinks. ok is false when the entry cannot be
// classified.
func resolveMode(fsys fs.FS, name string, entry fs.DirEntry) (fs.FileMode, bool) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type(), true
	}
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return 0, false
	}
	return info.Mode(), true
}
