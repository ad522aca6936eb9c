// Package config loads candyctl settings from the workflow environment and
// an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/theballaam96/candyctl/internal/ledger"
	"github.com/theballaam96/candyctl/internal/pack"
)

// DefaultPath is the config file read when CANDYCTL_CONFIG is unset,
// relative to the working directory.
const DefaultPath = ".github/candyctl.yml"

// envBindings maps config keys to the workflow variables that set them.
// The CANDYCTL_ form always wins.
var envBindings = map[string][]string{
	"repository":           {"GITHUB_REPOSITORY"},
	"github.api_base":      {"GITHUB_API_URL"},
	"discord.webhook":      {"DISCORD_WEBHOOK"},
	"discord.submissions":  {"DISCORD_WEBHOOK_SUBMISSIONS"},
	"discord.public_file":  {"DISCORD_WEBHOOK_PUBLICFILE"},
	"discord.pr_comment":   {"DISCORD_WEBHOOK_PRCOMMENT"},
	"event.pr_number":      {"PR_NUMBER"},
	"event.pr_number_list": {"PR_NUMBER_LIST"},
	"event.pr_url":         {"PR_URL"},
	"event.action":         {"TRIGGERED_ACTION"},
	"event.comment_user":   {"COMMENT_USER"},
	"event.comment_text":   {"COMMENT_TEXT"},
}

// tokenEnvs are checked in order for the GitHub token.
var tokenEnvs = []string{"CANDYCTL_GITHUB_TOKEN", "PAT_TOKEN", "GITHUB_TOKEN"}

// Load reads the config from the environment and, when present, the config
// file. A missing file is not an error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("repository", "theballaam96/candys-shop")
	v.SetDefault("branch", "main")
	v.SetDefault("log_level", "info")
	v.SetDefault("github.api_base", "https://api.github.com")
	v.SetDefault("paths.root", ".")
	v.SetDefault("paths.catalog", "mapping.json")
	v.SetDefault("paths.images", "images.json")
	v.SetDefault("paths.discord_mapping", "discord_mapping.json")
	v.SetDefault("paths.ledger", ledger.DefaultPath)
	v.SetDefault("paths.pack", pack.DefaultPath)
	v.SetDefault("publish.ignore_label", "batch-merge-ignore")

	v.SetEnvPrefix("CANDYCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range envBindings {
		names := append([]string{envName(key)}, envs...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	configPath := os.Getenv("CANDYCTL_CONFIG")
	if configPath == "" {
		configPath = DefaultPath
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Resolve token from env (never stored in file).
	for _, name := range tokenEnvs {
		if tok := os.Getenv(name); tok != "" {
			cfg.GitHub.Token = tok
			break
		}
	}
	return &cfg, nil
}

func envName(key string) string {
	return "CANDYCTL_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Write renders cfg as YAML with secrets redacted.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Redacted()); err != nil {
		return err
	}
	return enc.Close()
}

// Resolve joins a repository-relative path onto the configured root.
func (c *Config) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Paths.Root, filepath.FromSlash(rel))
}
