package envspec

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotenvFiles loads and merges multiple dotenv files with last-wins precedence
func LoadDotenvFiles(files []string) (map[string]string, error) {
	result := make(map[string]string)
	if len(files) == 0 {
		return result, nil
	}

	for _, file := range files {
		// Expand ~ to home directory
		if file != "" && file[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to expand home directory: %w", err)
			}
			file = filepath.Join(home, file[1:])
		}

		// Missing files are skipped - operators often keep conditional
		// dotenv files per environment
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}

		env, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse dotenv file %s: %w", file, err)
		}

		for key, value := range env {
			result[key] = value
		}
	}

	return result, nil
}
