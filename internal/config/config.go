// Package config resolves bbredmine settings from defaults, an optional YAML
// file and BBREDMINE_* environment variables. Command-line flags are applied
// on top by the commands themselves.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/ALT-F4-LLC/bbredmine/internal/failure"
	"github.com/ALT-F4-LLC/bbredmine/internal/redmine"
)

const (
	envPrefix = "BBREDMINE"

	// DefaultFile is read when no config file is named explicitly.
	DefaultFile = ".bbredmine.yaml"
)

// Keys.
const (
	KeyUserMap          = "user-map"
	KeyIncludeRelations = "include-relations"
	KeyStrictUsers      = "strict-users"
	KeyFailFast         = "fail-fast"
	KeyJobs             = "jobs"
	KeyVocabulary       = "vocabulary"
)

// Config holds resolved settings.
type Config struct {
	UserMap          string
	IncludeRelations bool
	StrictUsers      bool
	FailFast         bool
	Jobs             int
	Vocabulary       redmine.Vocabulary

	File string // config file that was read, empty if none
}

// Resolve builds the configuration. path names the config file; when empty,
// BBREDMINE_CONFIG is consulted and then DefaultFile in the working
// directory. A file named by path or BBREDMINE_CONFIG must exist.
func Resolve(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault(KeyUserMap, "")
	v.SetDefault(KeyIncludeRelations, false)
	v.SetDefault(KeyStrictUsers, false)
	v.SetDefault(KeyFailFast, false)
	v.SetDefault(KeyJobs, 1)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	required := true
	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path == "" {
		path, required = DefaultFile, false
	}

	cfg := &Config{}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, failure.WithPath(failure.Wrap(failure.ErrMalformedInput, err, "reading config"), path)
		}
		cfg.File = path
	} else if required || !errors.Is(err, fs.ErrNotExist) {
		kind := failure.ErrMalformedInput
		if errors.Is(err, fs.ErrNotExist) {
			kind = failure.ErrInputNotFound
		}
		return nil, failure.WithPath(failure.Wrap(kind, err, "reading config"), path)
	}

	cfg.UserMap = v.GetString(KeyUserMap)
	cfg.IncludeRelations = v.GetBool(KeyIncludeRelations)
	cfg.StrictUsers = v.GetBool(KeyStrictUsers)
	cfg.FailFast = v.GetBool(KeyFailFast)
	cfg.Jobs = v.GetInt(KeyJobs)
	cfg.Vocabulary = redmine.Vocabulary{
		Priority: v.GetStringMapString(KeyVocabulary + ".priority"),
		Tracker:  v.GetStringMapString(KeyVocabulary + ".tracker"),
		Status:   v.GetStringMapString(KeyVocabulary + ".status"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Jobs < 1 {
		return failure.New(failure.ErrMalformedInput, "%s must be at least 1, got %d", KeyJobs, c.Jobs)
	}
	return nil
}

// String describes where settings came from.
func (c *Config) String() string {
	if c.File == "" {
		return "defaults and environment"
	}
	return fmt.Sprintf("%s, defaults and environment", c.File)
}
