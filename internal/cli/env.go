package cli

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// OverrideVars name environment variables that point at an env file and win
// over the --env flag.
var OverrideVars = []string{"POLYGLOT_ENV_FILE", "HORSE_ENV_FILE"}

// EnvLoader loads .env files with a predictable override order.
type EnvLoader struct {
	value       *string
	defaultPath string
}

// AddEnvFlag registers an --env flag and returns an EnvLoader.
func AddEnvFlag(fs *flag.FlagSet, defaultPath, description string) *EnvLoader {
	if fs == nil {
		fs = flag.CommandLine
	}
	if defaultPath == "" {
		defaultPath = ".env"
	}
	if description == "" {
		description = "Path to the .env file"
	}

	value := fs.String("env", defaultPath, description)
	return &EnvLoader{
		value:       value,
		defaultPath: defaultPath,
	}
}

type envCandidate struct {
	path   string
	source string
}

// Load resolves and loads environment variables using the configured flag value.
// Candidates are tried in order: override variables, the flag value, its
// basename, then the default path.
func (l *EnvLoader) Load() (string, error) {
	if l == nil {
		return "", fmt.Errorf("env loader is nil")
	}

	log.SetOutput(os.Stderr)

	for _, candidate := range l.candidates() {
		if err := godotenv.Overload(candidate.path); err != nil {
			if strings.HasSuffix(candidate.source, "_ENV_FILE") {
				log.Printf("Warning: failed to load %s=%s", candidate.source, candidate.path)
			}
			continue
		}
		log.Printf("Loaded environment from %s: %s", candidate.source, candidate.path)
		return candidate.path, nil
	}

	return "", fmt.Errorf("failed to load env file from %s", l.requested())
}

func (l *EnvLoader) requested() string {
	requested := ""
	if l.value != nil {
		requested = strings.TrimSpace(*l.value)
	}
	if requested == "" {
		requested = l.defaultPath
	}
	return requested
}

func (l *EnvLoader) candidates() []envCandidate {
	out := make([]envCandidate, 0, len(OverrideVars)+3)
	for _, envVar := range OverrideVars {
		if custom := strings.TrimSpace(os.Getenv(envVar)); custom != "" {
			out = append(out, envCandidate{path: custom, source: envVar})
		}
	}

	requested := l.requested()
	out = append(out, envCandidate{path: requested, source: "--env"})

	if base := filepath.Base(requested); base != "" && base != requested {
		out = append(out, envCandidate{path: base, source: "basename fallback"})
	}
	if requested != l.defaultPath {
		out = append(out, envCandidate{path: l.defaultPath, source: "default"})
	}
	return out
}
