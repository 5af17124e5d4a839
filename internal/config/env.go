package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadEnv.
const (
	EnvRules       = "LEDGER_IMPORTER_RULES"
	EnvJournal     = "LEDGER_IMPORTER_JOURNAL"
	EnvAuthorName  = "LEDGER_IMPORTER_GIT_AUTHOR_NAME"
	EnvAuthorEmail = "LEDGER_IMPORTER_GIT_AUTHOR_EMAIL"
)

// DefaultEnvFile is read when no env file is given explicitly.
const DefaultEnvFile = ".env"

// Env holds flag defaults taken from the environment.
type Env struct {
	Rules       string
	Journal     string
	AuthorName  string
	AuthorEmail string
}

// LoadEnv reads defaults from the process environment, falling back to the
// dotenv file at path. A missing file is only an error when explicit is set.
func LoadEnv(path string, explicit bool) (Env, error) {
	if path == "" {
		path = DefaultEnvFile
	}

	vals, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			vals = nil
		} else {
			return Env{}, fmt.Errorf("loading env file %s: %w", path, err)
		}
	}

	get := func(key, def string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		if v, ok := vals[key]; ok {
			return v
		}
		return def
	}

	return Env{
		Rules:       get(EnvRules, ""),
		Journal:     get(EnvJournal, ""),
		AuthorName:  get(EnvAuthorName, "ledger-importer"),
		AuthorEmail: get(EnvAuthorEmail, "ledger-importer@localhost"),
	}, nil
}
