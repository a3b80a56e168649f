package workflow

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/lanes/internal/errors"
	"github.com/Iron-Ham/lanes/internal/logging"
)

// DefaultPattern matches workflow template file names.
const DefaultPattern = "*.{yaml,yml}"

// Template is a workflow template found on disk.
type Template struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Path        string `json:"path"`
}

type templateHeader struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Discover lists the templates in dirs whose file names match pattern
// (DefaultPattern when empty). Directories are scanned in order, without
// recursion; when two templates share a name the first one found wins.
// Missing directories are skipped. Files that are not valid YAML are
// skipped with a warning. Templates without a name field are named after
// their file.
func Discover(dirs []string, pattern string, logger *logging.Logger) ([]Template, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.NewValidationError("invalid workflow pattern").
			WithField("workflows.pattern").
			WithValue(pattern).
			WithCause(err)
	}
	logger = logger.WithComponent("workflow")

	seen := make(map[string]bool)
	var templates []Template
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("failed to read workflow directory", "dir", dir, "error", err.Error())
			}
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !matcher.Match(entry.Name()) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			tmpl, err := loadTemplate(path)
			if err != nil {
				logger.Warn("skipping workflow template", "path", path, "error", err.Error())
				continue
			}
			if seen[tmpl.Name] {
				continue
			}
			seen[tmpl.Name] = true
			templates = append(templates, tmpl)
		}
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}

func loadTemplate(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, err
	}
	var header templateHeader
	if err := yaml.Unmarshal(data, &header); err != nil {
		return Template{}, err
	}
	name := strings.TrimSpace(header.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return Template{
		Name:        name,
		Description: strings.TrimSpace(header.Description),
		Path:        path,
	}, nil
}
