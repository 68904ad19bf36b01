package client

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TestCase pairs an input file with its expected output.
type TestCase struct {
	Input  string
	Output string
	// Name is Input relative to the data directory.
	Name string
}

// DiscoverCases walks dataDir and pairs the sorted files whose names contain
// inFilter with the sorted files whose names contain outFilter.
func DiscoverCases(dataDir, inFilter, outFilter string) ([]TestCase, error) {
	var inputs, outputs []string

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !isDataFile(path, d) {
			return nil
		}
		name := d.Name()
		if strings.Contains(name, inFilter) {
			inputs = append(inputs, path)
		}
		if strings.Contains(name, outFilter) {
			outputs = append(outputs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", ErrConfig, dataDir, err)
	}

	if len(inputs) != len(outputs) {
		return nil, fmt.Errorf("%w: %d inputs != %d outputs", ErrConfig, len(inputs), len(outputs))
	}
	sort.Strings(inputs)
	sort.Strings(outputs)

	cases := make([]TestCase, len(inputs))
	for i := range inputs {
		cases[i] = TestCase{Input: inputs[i], Output: outputs[i], Name: relativeTo(dataDir, inputs[i])}
	}
	return cases, nil
}

// isDataFile accepts regular files and symlinks to regular files.
func isDataFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func relativeTo(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return path
	}
	return rel
}
