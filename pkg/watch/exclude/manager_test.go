package exclude

import (
	"os"
	"path/filepath"
	"testing"
)

func TestShouldExclude_DefaultPatterns(t *testing.T) {
	m, err := NewManager(Config{BasePath: "/tmp/app"})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"/tmp/app/.git/HEAD", true},
		{"/tmp/app/node_modules/left-pad/index.js", true},
		{"/tmp/app/__pycache__/tgbot.cpython-311.pyc", true},
		{"/tmp/app/bot/__pycache__/db.cpython-311.pyc", true},
		{"/tmp/app/.venv/bin/python", true},
		{"/tmp/app/handlers.pyc", true},
		{"/tmp/app/tgbot.py", false},
		{"/tmp/app/requirements.txt", false},
	}

	for _, tt := range tests {
		got := m.ShouldExclude(tt.path)
		if got != tt.want {
			t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestShouldExclude_ConfigPatterns(t *testing.T) {
	m := &Manager{
		basePath:       "/tmp/app",
		configPatterns: []string{"*.log", "dist/"},
	}

	tests := []struct {
		path string
		want bool
	}{
		{"/tmp/app/bot.log", true},
		{"/tmp/app/logs/bot.log", true},
		{"/tmp/app/dist/bundle.js", true},
		{"/tmp/app/tgbot.py", false},
	}

	for _, tt := range tests {
		got := m.ShouldExclude(tt.path)
		if got != tt.want {
			t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestShouldExclude_Gitignore(t *testing.T) {
	dir := t.TempDir()
	gitignore := filepath.Join(dir, ".gitignore")
	if err := os.WriteFile(gitignore, []byte("*.secret\nbuild/\n"), 0o644); err != nil {
		t.Fatalf("failed to write .gitignore: %v", err)
	}

	m, err := NewManager(Config{BasePath: dir, UseGitignore: true})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(dir, "token.secret"), true},
		{filepath.Join(dir, "build", "out.bin"), true},
		{filepath.Join(dir, "tgbot.py"), false},
	}

	for _, tt := range tests {
		got := m.ShouldExclude(tt.path)
		if got != tt.want {
			t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestShouldExclude_MissingGitignore(t *testing.T) {
	m, err := NewManager(Config{BasePath: t.TempDir(), UseGitignore: true})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	if m.gitignoreMatcher != nil {
		t.Error("expected no gitignore matcher without a .gitignore file")
	}
}

func TestShouldExclude_OutsideBasePath(t *testing.T) {
	m := &Manager{
		basePath:       "/tmp/app",
		configPatterns: []string{"*.log"},
	}

	// Paths outside the base are never excluded
	if m.ShouldExclude("/etc/passwd") {
		t.Error("ShouldExclude should not match paths outside the base")
	}
}
