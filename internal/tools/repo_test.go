package tools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/reagent-dev/reagent/internal/agent"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"a.py":              "print('hello')\n",
		"sub/b.py":          "def f():\n    return 42\n",
		"sub/notes.txt":     "TODO: refactor\n",
		".hidden":           "secret\n",
		"node_modules/x.js": "ignored\n",
	}
	for path, content := range files {
		full := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	repo, err := NewRepo(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewRepo failed: %v", err)
	}
	return repo
}

func TestListFiles(t *testing.T) {
	repo := newTestRepo(t)

	result := repo.ListFiles(map[string]any{"directory": "."})
	if !result.Success() {
		t.Fatalf("ListFiles failed: %v", result)
	}

	files := result["files"].([]string)
	want := map[string]bool{"a.py": true, "sub/b.py": true, "sub/notes.txt": true}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %d entries", files, len(want))
	}
	for _, f := range files {
		if !want[f] {
			t.Errorf("unexpected file %q (hidden/vendor dirs must be skipped)", f)
		}
	}
	if result["count"] != len(files) {
		t.Errorf("count = %v, want %d", result["count"], len(files))
	}
}

func TestListFilesDefaultsToRoot(t *testing.T) {
	repo := newTestRepo(t)
	result := repo.ListFiles(map[string]any{})
	if !result.Success() {
		t.Fatalf("ListFiles failed: %v", result)
	}
	if result["count"].(int) < 3 {
		t.Errorf("count = %v", result["count"])
	}
}

func TestReadFile(t *testing.T) {
	repo := newTestRepo(t)

	t.Run("existing file", func(t *testing.T) {
		result := repo.ReadFile(map[string]any{"filepath": "sub/b.py"})
		if !result.Success() {
			t.Fatalf("ReadFile failed: %v", result)
		}
		if !strings.Contains(result["content"].(string), "return 42") {
			t.Errorf("content = %q", result["content"])
		}
		if result["lines"] != 2 {
			t.Errorf("lines = %v, want 2", result["lines"])
		}
	})

	t.Run("missing file", func(t *testing.T) {
		result := repo.ReadFile(map[string]any{"filepath": "nope.py"})
		if result.Success() {
			t.Fatal("reading a missing file reported success")
		}
		if result["filepath"] != "nope.py" {
			t.Errorf("filepath = %v", result["filepath"])
		}
	})

	t.Run("missing parameter", func(t *testing.T) {
		result := repo.ReadFile(map[string]any{})
		if result.Success() {
			t.Fatal("missing filepath reported success")
		}
	})
}

func TestWriteFile(t *testing.T) {
	repo := newTestRepo(t)

	result := repo.WriteFile(map[string]any{
		"filepath": "new/dir/out.txt",
		"content":  "written by test",
	})
	if !result.Success() {
		t.Fatalf("WriteFile failed: %v", result)
	}
	if result["bytes_written"] != len("written by test") {
		t.Errorf("bytes_written = %v", result["bytes_written"])
	}

	raw, err := os.ReadFile(filepath.Join(repo.Root(), "new/dir/out.txt"))
	if err != nil {
		t.Fatalf("written file unreadable: %v", err)
	}
	if string(raw) != "written by test" {
		t.Errorf("content on disk = %q", raw)
	}
}

func TestSearchInFiles(t *testing.T) {
	repo := newTestRepo(t)

	t.Run("case-insensitive match", func(t *testing.T) {
		result := repo.SearchInFiles(map[string]any{"pattern": "RETURN"})
		if !result.Success() {
			t.Fatalf("SearchInFiles failed: %v", result)
		}
		matches := result["matches"].([]string)
		if len(matches) != 1 {
			t.Fatalf("matches = %v, want 1", matches)
		}
		if !strings.HasPrefix(matches[0], "sub/b.py:2:") {
			t.Errorf("match = %q, want sub/b.py:2:...", matches[0])
		}
	})

	t.Run("extension filter", func(t *testing.T) {
		result := repo.SearchInFiles(map[string]any{
			"pattern":        "todo",
			"file_extension": "py",
		})
		if !result.Success() {
			t.Fatalf("SearchInFiles failed: %v", result)
		}
		if result["count"] != 0 {
			t.Errorf("count = %v, want 0 (TODO lives in a .txt)", result["count"])
		}
	})

	t.Run("missing pattern", func(t *testing.T) {
		result := repo.SearchInFiles(map[string]any{})
		if result.Success() {
			t.Fatal("missing pattern reported success")
		}
	})
}

func TestGetFileInfo(t *testing.T) {
	repo := newTestRepo(t)

	t.Run("existing file", func(t *testing.T) {
		result := repo.GetFileInfo(map[string]any{"filepath": "a.py"})
		if !result.Success() {
			t.Fatalf("GetFileInfo failed: %v", result)
		}
		if result["exists"] != true || result["is_file"] != true || result["is_dir"] != false {
			t.Errorf("result = %v", result)
		}
		if result["size"].(int64) <= 0 {
			t.Errorf("size = %v", result["size"])
		}
	})

	t.Run("directory", func(t *testing.T) {
		result := repo.GetFileInfo(map[string]any{"filepath": "sub"})
		if !result.Success() {
			t.Fatalf("GetFileInfo failed: %v", result)
		}
		if result["is_dir"] != true {
			t.Errorf("result = %v", result)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		result := repo.GetFileInfo(map[string]any{"filepath": "ghost.py"})
		if result.Success() {
			t.Fatal("missing file reported success")
		}
		if result.ErrorMessage() != "File does not exist" {
			t.Errorf("error = %q", result.ErrorMessage())
		}
	})
}

func TestRegisterAll(t *testing.T) {
	repo := newTestRepo(t)
	registry := agent.NewRegistry()
	repo.RegisterAll(registry)

	for _, name := range []string{"list_files", "read_file", "write_file", "search_in_files", "get_file_info"} {
		if _, ok := registry.Resolve(name); !ok {
			t.Errorf("tool %q not registered", name)
		}
	}
	// 5 repo tools plus the terminal tool.
	if registry.Count() != 6 {
		t.Errorf("Count = %d, want 6", registry.Count())
	}
}
