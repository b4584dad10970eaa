package filter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMatcherExcluded(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		isDir    bool
		want     bool
	}{
		{"NoPatterns", nil, "file.txt", false, false},
		{"ExtensionGlob", []string{"*.tmp"}, "file.tmp", false, true},
		{"ExtensionGlobNested", []string{"*.tmp"}, "dir/sub/file.tmp", false, true},
		{"ExtensionGlobNoMatch", []string{"*.tmp"}, "file.txt", false, false},
		{"DirPatternSelf", []string{".git/"}, ".git", true, true},
		{"DirPatternChild", []string{".git/"}, ".git/config", false, true},
		{"DirPatternNested", []string{"node_modules/"}, "web/node_modules/react/index.js", false, true},
		{"DirPatternNotFile", []string{"build/"}, "build", false, false},
		{"DoubleStar", []string{"**/test.log"}, "a/b/test.log", false, true},
		{"DoubleStarBase", []string{"**/*.bak"}, "deep/x.bak", false, true},
		{"DoubleStarSuffixDir", []string{"logs/**"}, "logs/2024/app.log", false, true},
		{"PathPattern", []string{"build/*"}, "build/out.o", false, true},
		{"PathPatternNested", []string{"build/*.o"}, "src/build/out.o", false, true},
		{"PathPatternNoMatch", []string{"build/*"}, "src/main.go", false, false},
		{"Negation", []string{"*.log", "!keep.log"}, "keep.log", false, false},
		{"NegationOther", []string{"*.log", "!keep.log"}, "drop.log", false, true},
		{"Comment", []string{"# *.txt"}, "a.txt", false, false},
		{"LeadingSlash", []string{"/root.txt"}, "root.txt", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.patterns...)
			if got := m.Excluded(tt.path, tt.isDir); got != tt.want {
				t.Errorf("Excluded(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNilMatcher(t *testing.T) {
	var m *Matcher
	if m.Excluded("anything", false) {
		t.Error("nil matcher should exclude nothing")
	}
	if m.Len() != 0 {
		t.Error("nil matcher should have no rules")
	}
}

func TestMatcherLoad(t *testing.T) {
	input := "# build artifacts\n*.o\n\n  dist/  \n!dist/keep.txt\n"
	m := New()
	if err := m.Load(strings.NewReader(input)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	if !m.Excluded("main.o", false) {
		t.Error("main.o should be excluded")
	}
	if !m.Excluded("dist", true) {
		t.Error("dist/ should be excluded")
	}
}

func TestMatcherLoadFile(t *testing.T) {
	t.Run("Existing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".dircompareignore")
		if err := os.WriteFile(path, []byte("*.tmp\n"), 0644); err != nil {
			t.Fatalf("failed to write ignore file: %v", err)
		}

		m := New()
		if err := m.LoadFile(path); err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if !m.Excluded("x.tmp", false) {
			t.Error("x.tmp should be excluded")
		}
	})

	t.Run("Missing", func(t *testing.T) {
		m := New()
		if err := m.LoadFile(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Error("LoadFile() should fail for missing file")
		}
	})
}
