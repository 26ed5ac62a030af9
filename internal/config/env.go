package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
)

// loadEnvFile loads the first of .env/.env.local found in dir. Existing
// process environment variables are not overwritten.
func loadEnvFile(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		envPath := filepath.Join(dir, name)
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			slog.Warn("Failed to load environment file", "path", envPath, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", envPath)
		return
	}
}

// envRef only matches the braced form so that a literal '$' in a path survives.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandString(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(envRef.FindStringSubmatch(m)[1])
	})
}

func (c *Config) expandEnv() {
	for _, s := range []*Setting[string]{
		&c.ProjectName, &c.ProjectFile, &c.BuildConfig, &c.TargetPlatform,
		&c.PlatformDirName, &c.BuildLog, &c.OutputPath, &c.UATCommand,
	} {
		s.Value = expandString(s.Value)
	}
}
