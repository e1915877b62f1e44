package frontends

import "testing"

func TestNewDefaultRegistryRegistersEveryLanguage(t *testing.T) {
	r := NewDefaultRegistry()
	want := []string{"go", "python", "javascript", "typescript", "php", "rust"}
	for _, lang := range want {
		if _, ok := r.Get(lang); !ok {
			t.Errorf("expected %q to be registered", lang)
		}
	}
}

func TestNewDefaultRegistryResolvesByExtension(t *testing.T) {
	r := NewDefaultRegistry()
	cases := map[string]string{
		"main.go":    "go",
		"app.py":     "python",
		"index.js":   "javascript",
		"index.ts":   "typescript",
		"site.php":   "php",
		"lib.rs":     "rust",
	}
	for path, lang := range cases {
		f, ok := r.ForPath(path)
		if !ok {
			t.Errorf("ForPath(%q): no frontend found", path)
			continue
		}
		if f.Language() != lang {
			t.Errorf("ForPath(%q) = %q, want %q", path, f.Language(), lang)
		}
	}
}

func TestNewDefaultRegistryMissesUnregisteredLanguage(t *testing.T) {
	r := NewDefaultRegistry()
	if _, ok := r.Get("java"); ok {
		t.Error("java should not be registered (template-only language)")
	}
}
