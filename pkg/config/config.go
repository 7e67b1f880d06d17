// Package config holds the settings of the act-datamodel tool.
//
// Settings are layered, later layers winning:
//
//  1. [Default]
//  2. a TOML file ([LoadFile])
//  3. the environment, after loading an optional .env file ([LoadEnv])
//  4. command-line flags, applied by internal/cli
//
// [Validate] checks the merged result.
package config

import (
	"github.com/mnemonic-no/act-utils/pkg/httputil"
)

// Config is the complete tool configuration.
type Config struct {
	ACT         ACT        `toml:"act"`
	Confluence  Confluence `toml:"confluence"`
	S3          S3         `toml:"s3"`
	Snapshot    Snapshot   `toml:"snapshot"`
	Output      Output     `toml:"output"`
	MetricsFile string     `toml:"metrics_file"`
}

// ACT configures the platform the catalogs are fetched from.
type ACT struct {
	URL          string `toml:"url" validate:"required,http_url"`
	UserID       int    `toml:"user_id" validate:"gte=0"`
	HTTPUsername string `toml:"http_username" validate:"required_with=HTTPPassword"`
	HTTPPassword string `toml:"http_password" validate:"required_with=HTTPUsername"`
	CACert       string `toml:"cacert" validate:"excluded_with=Insecure"`
	Insecure     bool   `toml:"insecure"`
}

// Confluence configures attachment upload. Upload is off without PageID.
type Confluence struct {
	URL      string `toml:"url" validate:"required_with=PageID,omitempty,http_url"`
	User     string `toml:"user" validate:"required_with=Password"`
	Password string `toml:"password"`
	PageID   string `toml:"page_id" validate:"omitempty,numeric"`
}

// S3 configures artifact publishing. Publishing is off without Bucket.
type S3 struct {
	Bucket   string `toml:"bucket"`
	Prefix   string `toml:"prefix"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint" validate:"omitempty,http_url"`
	// Static credentials; the default AWS chain applies when unset.
	AccessKeyID     string `toml:"access_key_id" validate:"required_with=SecretAccessKey"`
	SecretAccessKey string `toml:"secret_access_key" validate:"required_with=AccessKeyID"`
}

// Snapshot selects the snapshot store. Redis or Mongo win over File.
type Snapshot struct {
	File          string `toml:"file"`
	Redis         string `toml:"redis" validate:"omitempty,url,excluded_with=Mongo"`
	RedisKey      string `toml:"redis_key"`
	Mongo         string `toml:"mongo" validate:"omitempty,url"`
	MongoDatabase string `toml:"mongo_database"`
}

// Output configures the render sink.
type Output struct {
	Dir       string   `toml:"dir" validate:"required"`
	SourceDir string   `toml:"source_dir"`
	Formats   []string `toml:"formats" validate:"dive,oneof=png svg dot"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ACT: ACT{UserID: 1},
		Snapshot: Snapshot{
			File: "cache.json",
		},
		Output: Output{
			Dir:     "output",
			Formats: []string{"png"},
		},
	}
}

// Transport returns the TLS settings for the ACT API.
func (c *Config) Transport() httputil.TransportOptions {
	return httputil.TransportOptions{CAFile: c.ACT.CACert, Insecure: c.ACT.Insecure}
}

// ConfluenceTransport returns the settings for the wiki. It shares the TLS
// settings of the ACT API and never goes through a proxy.
func (c *Config) ConfluenceTransport() httputil.TransportOptions {
	t := c.Transport()
	t.BypassProxy = true
	return t
}

// ConfluenceEnabled reports whether uploads to Confluence are configured.
func (c *Config) ConfluenceEnabled() bool { return c.Confluence.PageID != "" }

// S3Enabled reports whether publishing to S3 is configured.
func (c *Config) S3Enabled() bool { return c.S3.Bucket != "" }
