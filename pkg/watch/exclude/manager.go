package exclude

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultPatterns are always excluded from change watching. They cover
// build output and dependency trees that churn constantly without
// meaning a redeploy.
var DefaultPatterns = []string{
	".git/",
	"node_modules/",
	"__pycache__/",
	".venv/",
	"*.pyc",
}

// Manager handles exclude pattern matching for change watching
type Manager struct {
	gitignoreMatcher *ignore.GitIgnore
	basePath         string
	configPatterns   []string
}

// Config holds configuration for the exclude manager
type Config struct {
	// BasePath is the watched root directory (for .gitignore location)
	BasePath string

	// Patterns are explicit exclude patterns (gitignore syntax)
	Patterns []string

	// UseGitignore enables automatic .gitignore loading
	UseGitignore bool
}

// NewManager creates a new exclude pattern manager. The default patterns
// apply on top of any configured ones.
func NewManager(cfg Config) (*Manager, error) {
	patterns := make([]string, 0, len(DefaultPatterns)+len(cfg.Patterns))
	patterns = append(patterns, DefaultPatterns...)
	patterns = append(patterns, cfg.Patterns...)

	m := &Manager{
		basePath:       cfg.BasePath,
		configPatterns: patterns,
	}

	// Load .gitignore if enabled
	if cfg.UseGitignore {
		gitignorePath := filepath.Join(cfg.BasePath, ".gitignore")
		if _, err := os.Stat(gitignorePath); err == nil {
			matcher, err := ignore.CompileIgnoreFile(gitignorePath)
			if err != nil {
				// .gitignore is malformed - continue without it
				m.gitignoreMatcher = nil
			} else {
				m.gitignoreMatcher = matcher
			}
		}
		// If .gitignore doesn't exist, that's fine - just continue without it
	}

	return m, nil
}

// ShouldExclude returns true if the path should be ignored by the watcher
// absPath should be the absolute file path
func (m *Manager) ShouldExclude(absPath string) bool {
	relPath, err := filepath.Rel(m.basePath, absPath)
	if err != nil {
		// If we can't get relative path, don't exclude
		return false
	}

	// Check config patterns first (these take precedence)
	if m.matchesConfigPatterns(relPath) {
		return true
	}

	// Check gitignore patterns
	if m.gitignoreMatcher != nil && m.gitignoreMatcher.MatchesPath(relPath) {
		return true
	}

	return false
}

// ShouldExcludeDir returns true if the directory should be excluded
// This is optimized for directory traversal (uses filepath.SkipDir)
func (m *Manager) ShouldExcludeDir(absPath string) bool {
	return m.ShouldExclude(absPath)
}

// matchesConfigPatterns checks if path matches any config pattern
func (m *Manager) matchesConfigPatterns(relPath string) bool {
	for _, pattern := range m.configPatterns {
		if m.matchPattern(pattern, relPath) {
			return true
		}
	}
	return false
}

// matchPattern matches a single gitignore-style pattern
func (m *Manager) matchPattern(pattern, path string) bool {
	// Handle directory-only patterns (ending with /)
	if strings.HasSuffix(pattern, "/") {
		pattern = strings.TrimSuffix(pattern, "/")
		// Only match directories - check if path contains this as dir
		if strings.Contains(path, pattern+"/") ||
			strings.HasPrefix(path, pattern+"/") ||
			path == pattern {
			return true
		}
	}

	// Handle ** wildcards for any directory depth
	if strings.Contains(pattern, "**") {
		pattern = strings.ReplaceAll(pattern, "**", "*")
	}

	// Use filepath.Match for glob patterns
	matched, err := filepath.Match(pattern, path)
	if err == nil && matched {
		return true
	}

	// Also check if pattern matches any path component
	// (e.g., "__pycache__" should match "bot/__pycache__/tgbot.pyc")
	parts := strings.Split(path, string(filepath.Separator))
	for _, part := range parts {
		matched, err := filepath.Match(pattern, part)
		if err == nil && matched {
			return true
		}
	}

	return false
}
