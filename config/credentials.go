package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/aschepis/askai/llm"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file read from the working directory.
const DefaultEnvFile = ".env"

// LoadCredentials returns a lookup over the process environment followed by
// the given dotenv files. Files are parsed, not loaded, so the process
// environment is left untouched. Missing files are skipped; earlier files
// win over later ones.
func LoadCredentials(paths ...string) (llm.CredentialLookup, error) {
	lookups := []llm.CredentialLookup{llm.EnvLookup}

	for _, path := range paths {
		values, err := godotenv.Read(expandPath(path))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read env file %q: %w", path, err)
		}
		lookups = append(lookups, llm.MapLookup(values))
	}

	return llm.ChainLookup(lookups...), nil
}
