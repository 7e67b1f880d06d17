package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	errs "github.com/mnemonic-no/act-utils/pkg/errors"
)

// LoadFile overlays the TOML file at path onto cfg. Unknown keys are an error.
func LoadFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errs.New(errs.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadEnv loads envFile (when it exists) into the process environment
// without overriding variables already set, then overlays the environment
// onto cfg. An empty envFile means ".env".
func LoadEnv(envFile string, cfg *Config) error {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", envFile)
	}
	return ApplyEnv(cfg, os.LookupEnv)
}

// ApplyEnv overlays variables found by lookup onto cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"ACT_URL", &cfg.ACT.URL},
		{"ACT_HTTP_USERNAME", &cfg.ACT.HTTPUsername},
		{"ACT_HTTP_PASSWORD", &cfg.ACT.HTTPPassword},
		{"ACT_CACERT", &cfg.ACT.CACert},
		{"CONFLUENCE_URL", &cfg.Confluence.URL},
		{"CONFLUENCE_USER", &cfg.Confluence.User},
		{"CONFLUENCE_PASSWORD", &cfg.Confluence.Password},
		{"CONFLUENCE_PAGE_ID", &cfg.Confluence.PageID},
		{"ACT_S3_BUCKET", &cfg.S3.Bucket},
		{"ACT_S3_PREFIX", &cfg.S3.Prefix},
		{"ACT_S3_ACCESS_KEY_ID", &cfg.S3.AccessKeyID},
		{"ACT_S3_SECRET_ACCESS_KEY", &cfg.S3.SecretAccessKey},
		{"ACT_SNAPSHOT_REDIS", &cfg.Snapshot.Redis},
		{"ACT_SNAPSHOT_MONGO", &cfg.Snapshot.Mongo},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	if v, ok := lookup("ACT_USER_ID"); ok && v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "ACT_USER_ID")
		}
		cfg.ACT.UserID = id
	}
	return nil
}
