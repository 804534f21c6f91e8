// Package tools provides the local tools the agent uses against a code
// repository: listing, reading, writing, searching, and stat-ing files. Every
// handler returns a ToolResult mapping and never panics for expected failure
// modes like a missing file or a bad path.
package tools

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/reagent-dev/reagent/internal/agent"
)

// skipDirs are directories never traversed during listing or searching.
var skipDirs = map[string]bool{
	"node_modules": true,
	"__pycache__":  true,
	"venv":         true,
	"vendor":       true,
}

// Repo is the set of file tools rooted at one repository path. All paths in
// parameters are interpreted relative to that root.
type Repo struct {
	root   string
	logger *zap.Logger
}

// NewRepo creates the tool set for the repository at path.
func NewRepo(path string, logger *zap.Logger) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving repository path %s: %w", path, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{root: abs, logger: logger}, nil
}

// Root returns the absolute repository path.
func (r *Repo) Root() string { return r.root }

// RegisterAll registers every repository tool into the given registry.
func (r *Repo) RegisterAll(reg *agent.Registry) {
	reg.Register(agent.Descriptor{
		Name:        "list_files",
		Description: "List all files in a directory. Use '.' for the root of the repository.",
		Parameters:  map[string]any{"directory": "string (optional, default='.')"},
	}, r.ListFiles)

	reg.Register(agent.Descriptor{
		Name:        "read_file",
		Description: "Read the contents of a file. Provide the relative path from repository root.",
		Parameters:  map[string]any{"filepath": "string (required)"},
	}, r.ReadFile)

	reg.Register(agent.Descriptor{
		Name:        "write_file",
		Description: "Write content to a file. Creates the file if it doesn't exist.",
		Parameters: map[string]any{
			"filepath": "string (required)",
			"content":  "string (required)",
		},
	}, r.WriteFile)

	reg.Register(agent.Descriptor{
		Name:        "search_in_files",
		Description: "Search for a pattern in files. Returns matching lines with file paths and line numbers.",
		Parameters: map[string]any{
			"pattern":        "string (required)",
			"file_extension": "string (optional, e.g., 'py', 'go')",
		},
	}, r.SearchInFiles)

	reg.Register(agent.Descriptor{
		Name:        "get_file_info",
		Description: "Get information about a file (size, existence, type).",
		Parameters:  map[string]any{"filepath": "string (required)"},
	}, r.GetFileInfo)
}

// ListFiles lists all files under a directory recursively, skipping hidden
// entries and common vendor directories.
func (r *Repo) ListFiles(params map[string]any) agent.ToolResult {
	dir := stringParam(params, "directory")
	if dir == "" {
		dir = "."
	}

	base := filepath.Join(r.root, dir)
	files := []string{}

	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != base && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		rel, relErr := filepath.Rel(r.root, path)
		if relErr != nil {
			return relErr
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		r.logger.Warn("list_files failed", zap.String("directory", dir), zap.Error(err))
		return agent.Fail(err.Error())
	}

	r.logger.Info("list_files", zap.String("directory", dir), zap.Int("count", len(files)))
	return agent.OK(map[string]any{
		"files": files,
		"count": len(files),
	})
}

// ReadFile reads one file's contents.
func (r *Repo) ReadFile(params map[string]any) agent.ToolResult {
	path := stringParam(params, "filepath")
	if path == "" {
		return agent.Fail("filepath parameter is required")
	}

	content, err := os.ReadFile(filepath.Join(r.root, path))
	if err != nil {
		r.logger.Warn("read_file failed", zap.String("filepath", path), zap.Error(err))
		result := agent.Fail(err.Error())
		result["filepath"] = path
		return result
	}

	text := string(content)
	r.logger.Info("read_file", zap.String("filepath", path), zap.Int("bytes", len(content)))
	return agent.OK(map[string]any{
		"filepath": path,
		"content":  text,
		"lines":    len(strings.Split(strings.TrimSuffix(text, "\n"), "\n")),
	})
}

// WriteFile writes content to a file, creating parent directories as needed.
func (r *Repo) WriteFile(params map[string]any) agent.ToolResult {
	path := stringParam(params, "filepath")
	if path == "" {
		return agent.Fail("filepath parameter is required")
	}
	content := stringParam(params, "content")

	full := filepath.Join(r.root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return failWithPath(path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		r.logger.Warn("write_file failed", zap.String("filepath", path), zap.Error(err))
		return failWithPath(path, err)
	}

	r.logger.Info("write_file", zap.String("filepath", path), zap.Int("bytes", len(content)))
	return agent.OK(map[string]any{
		"filepath":      path,
		"bytes_written": len(content),
	})
}

// SearchInFiles scans the repository for lines containing a pattern,
// case-insensitively. Matches are formatted as "path:line:text".
func (r *Repo) SearchInFiles(params map[string]any) agent.ToolResult {
	pattern := stringParam(params, "pattern")
	if pattern == "" {
		return agent.Fail("pattern parameter is required")
	}
	ext := strings.TrimPrefix(stringParam(params, "file_extension"), ".")
	needle := strings.ToLower(pattern)

	matches := []string{}
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != r.root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if ext != "" && !strings.HasSuffix(name, "."+ext) {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			// Unreadable files are skipped, not fatal to the search.
			return nil
		}
		rel, relErr := filepath.Rel(r.root, path)
		if relErr != nil {
			return relErr
		}
		for i, line := range strings.Split(string(content), "\n") {
			if strings.Contains(strings.ToLower(line), needle) {
				matches = append(matches, fmt.Sprintf("%s:%d:%s", filepath.ToSlash(rel), i+1, line))
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("search_in_files failed", zap.String("pattern", pattern), zap.Error(err))
		result := agent.Fail(err.Error())
		result["pattern"] = pattern
		return result
	}

	r.logger.Info("search_in_files", zap.String("pattern", pattern), zap.Int("matches", len(matches)))
	return agent.OK(map[string]any{
		"pattern": pattern,
		"matches": matches,
		"count":   len(matches),
	})
}

// GetFileInfo stats a path and reports size and type.
func (r *Repo) GetFileInfo(params map[string]any) agent.ToolResult {
	path := stringParam(params, "filepath")
	if path == "" {
		return agent.Fail("filepath parameter is required")
	}

	info, err := os.Stat(filepath.Join(r.root, path))
	if os.IsNotExist(err) {
		result := agent.Fail("File does not exist")
		result["filepath"] = path
		return result
	}
	if err != nil {
		return failWithPath(path, err)
	}

	r.logger.Info("get_file_info", zap.String("filepath", path))
	return agent.OK(map[string]any{
		"filepath": path,
		"size":     info.Size(),
		"exists":   true,
		"is_file":  !info.IsDir(),
		"is_dir":   info.IsDir(),
	})
}

// stringParam extracts a string parameter, tolerating absent keys.
func stringParam(params map[string]any, key string) string {
	v, ok := params[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func failWithPath(path string, err error) agent.ToolResult {
	result := agent.Fail(err.Error())
	result["filepath"] = path
	return result
}
