package story

import (
	"log/slog"
	"path/filepath"
)

// Loader resolves include graphs. The zero value logs to slog.Default().
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil logger means slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger}
}

func (l *Loader) log() *slog.Logger {
	if l == nil || l.logger == nil {
		return slog.Default()
	}
	return l.logger
}

// LoadAndFlatten loads the story at path and flattens its includes.
func (l *Loader) LoadAndFlatten(path string) (*StoryConfig, []EventSpec, error) {
	root, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	specs, err := l.Flatten(root)
	if err != nil {
		return nil, nil, err
	}
	return root, specs, nil
}

// Flatten returns the story's own events followed by the flattened events of
// each include, in declaration order.
//
// Include paths resolve against the directory of the story that names them,
// with symlinks followed.
// A file already processed during this call, including the root itself, is
// skipped, so each file contributes its events at most once.
func (l *Loader) Flatten(root *StoryConfig) ([]EventSpec, error) {
	visited := map[string]bool{root.Path: true}
	specs, err := l.flatten(root, visited)
	if err != nil {
		return nil, err
	}
	l.log().Debug("includes flattened",
		"story", root.Path,
		"files", len(visited),
		"specs", len(specs))
	return specs, nil
}

func (l *Loader) flatten(s *StoryConfig, visited map[string]bool) ([]EventSpec, error) {
	specs := append([]EventSpec(nil), s.Events...)

	dir := filepath.Dir(s.Path)
	for _, inc := range s.Includes {
		path := inc
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		path = resolvePath(path)

		if visited[path] {
			l.log().Debug("skipping visited include", "story", s.Path, "include", path)
			continue
		}
		visited[path] = true

		child, err := Load(path)
		if err != nil {
			return nil, &LoadError{
				Path:    s.Path,
				Field:   "includes",
				Message: "failed to load include " + inc,
				Err:     err,
			}
		}
		childSpecs, err := l.flatten(child, visited)
		if err != nil {
			return nil, err
		}
		specs = append(specs, childSpecs...)
	}
	return specs, nil
}
