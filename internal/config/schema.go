package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config is the top-level candyctl configuration. It is loaded once per run
// and passed to every command.
type Config struct {
	Repository string        `mapstructure:"repository" yaml:"repository"`
	Branch     string        `mapstructure:"branch" yaml:"branch"`
	LogLevel   string        `mapstructure:"log_level" yaml:"log_level"`
	Paths      PathsConfig   `mapstructure:"paths" yaml:"paths"`
	GitHub     GitHubConfig  `mapstructure:"github" yaml:"github"`
	Discord    DiscordConfig `mapstructure:"discord" yaml:"discord"`
	Event      EventConfig   `mapstructure:"event" yaml:"event"`
	Publish    PublishConfig `mapstructure:"publish" yaml:"publish"`
}

// PathsConfig locates files in the repository checkout.
type PathsConfig struct {
	Root           string `mapstructure:"root" yaml:"root"`
	Catalog        string `mapstructure:"catalog" yaml:"catalog"`
	Images         string `mapstructure:"images" yaml:"images"`
	DiscordMapping string `mapstructure:"discord_mapping" yaml:"discord_mapping"`
	Ledger         string `mapstructure:"ledger" yaml:"ledger"`
	Pack           string `mapstructure:"pack" yaml:"pack"`
}

// GitHubConfig holds GitHub API connection settings.
type GitHubConfig struct {
	APIBase string `mapstructure:"api_base" yaml:"api_base"`
	Token   string `mapstructure:"-" yaml:"token,omitempty"` // resolved from the environment, never read from file
}

// DiscordConfig holds webhook URLs. Webhook is the fallback for any
// channel without its own URL.
type DiscordConfig struct {
	Webhook     string `mapstructure:"webhook" yaml:"webhook"`
	Submissions string `mapstructure:"submissions" yaml:"submissions"`
	PublicFile  string `mapstructure:"public_file" yaml:"public_file"`
	PRComment   string `mapstructure:"pr_comment" yaml:"pr_comment"`
}

// EventConfig describes the workflow event that triggered the run.
type EventConfig struct {
	PRNumber     int    `mapstructure:"pr_number" yaml:"pr_number"`
	PRNumberList string `mapstructure:"pr_number_list" yaml:"pr_number_list"`
	PRURL        string `mapstructure:"pr_url" yaml:"pr_url"`
	Action       string `mapstructure:"action" yaml:"action"`
	CommentUser  string `mapstructure:"comment_user" yaml:"comment_user"`
	CommentText  string `mapstructure:"comment_text" yaml:"comment_text"`
}

// PublishConfig controls how merged songs are published.
type PublishConfig struct {
	IgnoreLabel string `mapstructure:"ignore_label" yaml:"ignore_label"`
}

// Channel names a Discord destination.
type Channel string

// Discord channels.
const (
	ChannelSubmissions Channel = "submissions"
	ChannelPublicFile  Channel = "public_file"
	ChannelPRComment   Channel = "pr_comment"
)

// WebhookFor returns the URL for a channel, falling back to the generic
// webhook.
func (d DiscordConfig) WebhookFor(ch Channel) string {
	var u string
	switch ch {
	case ChannelSubmissions:
		u = d.Submissions
	case ChannelPublicFile:
		u = d.PublicFile
	case ChannelPRComment:
		u = d.PRComment
	}
	if u == "" {
		u = d.Webhook
	}
	return u
}

// PRNumbers parses the comma-separated PR number list.
func (e EventConfig) PRNumbers() ([]int, error) {
	var out []int
	for _, part := range strings.Split(e.PRNumberList, ",") {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "#"))
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid PR number %q in PR_NUMBER_LIST", part)
		}
		out = append(out, n)
	}
	return out, nil
}

// RequirePR returns the event's PR number or an error when it is unset.
func (e EventConfig) RequirePR() (int, error) {
	if e.PRNumber <= 0 {
		return 0, fmt.Errorf("PR_NUMBER is not set")
	}
	return e.PRNumber, nil
}

// Redacted returns a copy with secrets masked.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "<redacted>"
	}
	c.GitHub.Token = mask(c.GitHub.Token)
	c.Discord.Webhook = mask(c.Discord.Webhook)
	c.Discord.Submissions = mask(c.Discord.Submissions)
	c.Discord.PublicFile = mask(c.Discord.PublicFile)
	c.Discord.PRComment = mask(c.Discord.PRComment)
	return c
}
