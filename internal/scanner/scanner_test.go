package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

func rels(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Rel
	}
	return out
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path     string
		expected Language
	}{
		{"test.js", LanguageJavaScript},
		{"test.jsx", LanguageJavaScript},
		{"test.mjs", LanguageJavaScript},
		{"test.ts", LanguageTypeScript},
		{"test.tsx", LanguageTypeScript},
		{"test.go", LanguageGo},
		{"test.py", LanguagePython},
		{"lib.rs", LanguageRust},
		{"App.java", LanguageJava},
		{"TEST.GO", LanguageGo},
		{"test.txt", LanguageUnknown},
		{"test", LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DetectLanguage(tt.path); got != tt.expected {
				t.Errorf("DetectLanguage(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"src/app.js",
		"src/app.go",
		"src/app.py",
		"src/readme.txt",
		"node_modules/lib.js",
		"vendor/dep/dep.go",
	)

	files, err := New().Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	want := []string{"src/app.go", "src/app.js", "src/app.py"}
	got := rels(files)
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("file %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if files[0].Language != LanguageGo || !filepath.IsAbs(files[0].Path) {
		t.Errorf("unexpected file info: %+v", files[0])
	}
}

func TestScanner_Globs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "test.js", "test.go", "pkg/x_test.go")

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    int
	}{
		{"exclude extension", nil, []string{"*.go"}, 1},
		{"exclude tests", nil, []string{"*_test.go"}, 2},
		{"include wins", []string{"*.go"}, []string{"*.go"}, 2},
		{"include by path", []string{"pkg/*"}, nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.SetIncludeGlobs(tt.include)
			s.SetExcludeGlobs(tt.exclude)
			files, err := s.Scan(root)
			if err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			if len(files) != tt.want {
				t.Errorf("Expected %d files, got %v", tt.want, rels(files))
			}
		})
	}
}

func TestScanner_IgnoreFolders(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/main.go", "src/config/load.go", "scripts/gen.py", "k8s/tool/main.go")

	s := New()
	s.IgnoreFolders([]string{"scripts", "src/config", "k8s/*"})
	files, err := s.Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	ignored := map[string]bool{}
	for _, f := range files {
		ignored[f.Rel] = f.Ignored
	}
	if len(ignored) != 3 {
		t.Fatalf("Expected 3 files, got %v", rels(files))
	}
	if ignored["src/main.go"] {
		t.Error("src/main.go should not be ignored")
	}
	if !ignored["src/config/load.go"] || !ignored["k8s/tool/main.go"] {
		t.Errorf("path ignores not applied: %v", ignored)
	}
	if _, ok := ignored["scripts/gen.py"]; ok {
		t.Error("folder names should be skipped entirely")
	}
}

func TestScanner_IgnoreFolderForms(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "main.go", "k8s/tool/main.go")

	for _, pattern := range []string{"k8s/*", "k8s/", "./k8s/*"} {
		t.Run(pattern, func(t *testing.T) {
			s := New()
			s.IgnoreFolders([]string{pattern})
			files, err := s.Scan(root)
			if err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			if len(files) != 2 {
				t.Fatalf("Expected 2 files, got %v", rels(files))
			}
			for _, f := range files {
				if want := f.Rel == "k8s/tool/main.go"; f.Ignored != want {
					t.Errorf("%s: Ignored = %v, want %v", f.Rel, f.Ignored, want)
				}
			}
		})
	}
}

func TestCountByLanguage(t *testing.T) {
	counts := CountByLanguage([]File{
		{Language: LanguageGo}, {Language: LanguageGo}, {Language: LanguagePython},
	})
	if counts[LanguageGo] != 2 || counts[LanguagePython] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
