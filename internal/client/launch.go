package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultLaunchers wraps solutions that are not native executables. The
// placeholders {path}, {dir}, {name} and {stem} are expanded per solution.
var DefaultLaunchers = map[string][]string{
	".class": {"java", "-cp", "{dir}", "{stem}"},
}

// Resolver turns a solution path into the command that runs it.
type Resolver struct {
	launchers map[string][]string
}

// NewResolver merges overrides on top of DefaultLaunchers. An override with
// an empty command removes the wrapper for that extension.
func NewResolver(overrides map[string][]string) *Resolver {
	launchers := make(map[string][]string, len(DefaultLaunchers)+len(overrides))
	for ext, argv := range DefaultLaunchers {
		launchers[ext] = argv
	}
	for ext, argv := range overrides {
		ext = normalizeExt(ext)
		if len(argv) == 0 {
			delete(launchers, ext)
			continue
		}
		launchers[ext] = argv
	}
	return &Resolver{launchers: launchers}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Resolve returns the program and arguments for path. Native executables
// are run by absolute path.
func (r *Resolver) Resolve(path string) (string, []string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	tmpl, ok := r.launchers[strings.ToLower(filepath.Ext(abs))]
	if !ok {
		return abs, nil, nil
	}

	name := filepath.Base(abs)
	replacer := strings.NewReplacer(
		"{path}", abs,
		"{dir}", filepath.Dir(abs),
		"{name}", name,
		"{stem}", strings.TrimSuffix(name, filepath.Ext(name)),
	)
	argv := make([]string, len(tmpl))
	for i, arg := range tmpl {
		argv[i] = replacer.Replace(arg)
	}
	return argv[0], argv[1:], nil
}

func checkRegularFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a file", ErrConfig, path)
	}
	return nil
}
