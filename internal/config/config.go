package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied before any file or environment value.
const (
	DefaultOpenAIModel      = "gpt-4"
	DefaultTokenPath        = "token.json"
	DefaultTimeZone         = "America/Bogota"
	DefaultJiraProject      = "PC"
	DefaultHistoryPath      = "chat_history.json"
	DefaultWikipediaLang    = "en"
	DefaultDotEnvPath       = ".env"
	DefaultMailQuery        = "subject:[BUG]"
	DefaultMailMaxResults   = 10
	DefaultJiraSearchLimit  = 5
	DefaultSummarySentences = 5
)

// Config holds all settings consumed by the tools.
type Config struct {
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Google    GoogleConfig    `yaml:"google"`
	Jira      JiraConfig      `yaml:"jira"`
	History   HistoryConfig   `yaml:"history"`
	Wikipedia WikipediaConfig `yaml:"wikipedia"`
}

// OpenAIConfig configures the language model used for query generation.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key" env:"OPENAI_API_KEY"`
	Model   string `yaml:"model" env:"OPENAI_MODEL"`
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL"`
}

// GoogleConfig configures the Gmail/Calendar credential and defaults.
type GoogleConfig struct {
	CredentialsPath string `yaml:"credentials_path" env:"GOOGLE_CREDENTIALS_PATH"`
	TokenPath       string `yaml:"token_path" env:"GOOGLE_TOKEN_PATH"`
	TimeZone        string `yaml:"timezone" env:"DESKHAND_TIMEZONE"`
	MailQuery       string `yaml:"mail_query" env:"DESKHAND_MAIL_QUERY"`
	MailMaxResults  int64  `yaml:"mail_max_results" env:"DESKHAND_MAIL_MAX_RESULTS"`
}

// JiraConfig holds issue tracker credentials and defaults.
type JiraConfig struct {
	URL            string `yaml:"url" env:"JIRA_URL"`
	User           string `yaml:"user" env:"JIRA_USER"`
	Token          string `yaml:"token" env:"JIRA_TOKEN"`
	DefaultProject string `yaml:"default_project" env:"JIRA_DEFAULT_PROJECT"`
	SearchLimit    int    `yaml:"search_limit" env:"JIRA_SEARCH_LIMIT"`
}

// HistoryConfig locates the chat history file.
type HistoryConfig struct {
	Path string `yaml:"path" env:"CHAT_HISTORY_PATH"`
}

// WikipediaConfig configures encyclopedia lookups.
type WikipediaConfig struct {
	Language  string `yaml:"language" env:"WIKIPEDIA_LANGUAGE"`
	Sentences int    `yaml:"sentences" env:"WIKIPEDIA_SENTENCES"`
	// Endpoint overrides the API URL; empty means the public wiki for Language.
	Endpoint string `yaml:"endpoint" env:"WIKIPEDIA_ENDPOINT"`
}

// MissingError reports a required setting that has no value.
type MissingError struct {
	Setting string // human-readable name
	EnvVars []string
}

func (e *MissingError) Error() string {
	if len(e.EnvVars) == 0 {
		return fmt.Sprintf("%s is not configured", e.Setting)
	}
	return fmt.Sprintf("%s is not configured (set %v)", e.Setting, e.EnvVars)
}

// Default returns a Config populated with built-in defaults only.
func Default() *Config {
	return &Config{
		OpenAI: OpenAIConfig{
			Model: DefaultOpenAIModel,
		},
		Google: GoogleConfig{
			TokenPath:      DefaultTokenPath,
			TimeZone:       DefaultTimeZone,
			MailQuery:      DefaultMailQuery,
			MailMaxResults: DefaultMailMaxResults,
		},
		Jira: JiraConfig{
			DefaultProject: DefaultJiraProject,
			SearchLimit:    DefaultJiraSearchLimit,
		},
		History: HistoryConfig{
			Path: DefaultHistoryPath,
		},
		Wikipedia: WikipediaConfig{
			Language:  DefaultWikipediaLang,
			Sentences: DefaultSummarySentences,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), and the environment. A .env file in the working directory
// is loaded first and overrides variables already set in the process.
func Load(path string) (*Config, error) {
	return LoadWithEnvFile(path, "")
}

// LoadWithEnvFile is Load with an extra .env file applied after the one in
// the working directory, so its values take precedence.
func LoadWithEnvFile(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := LoadDotEnv(DefaultDotEnvPath); err != nil {
		return nil, err
	}
	if envFile != "" {
		if err := LoadDotEnv(envFile); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadDotEnv loads the given .env file with override semantics. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Overload(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// applyDefaults restores defaults for values a file or the environment set
// to their zero value.
func (c *Config) applyDefaults() {
	d := Default()
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = d.OpenAI.Model
	}
	if c.Google.TokenPath == "" {
		c.Google.TokenPath = d.Google.TokenPath
	}
	if c.Google.TimeZone == "" {
		c.Google.TimeZone = d.Google.TimeZone
	}
	if c.Google.MailQuery == "" {
		c.Google.MailQuery = d.Google.MailQuery
	}
	if c.Google.MailMaxResults <= 0 {
		c.Google.MailMaxResults = d.Google.MailMaxResults
	}
	if c.Jira.DefaultProject == "" {
		c.Jira.DefaultProject = d.Jira.DefaultProject
	}
	if c.Jira.SearchLimit <= 0 {
		c.Jira.SearchLimit = d.Jira.SearchLimit
	}
	if c.History.Path == "" {
		c.History.Path = d.History.Path
	}
	if c.Wikipedia.Language == "" {
		c.Wikipedia.Language = d.Wikipedia.Language
	}
	if c.Wikipedia.Sentences <= 0 {
		c.Wikipedia.Sentences = d.Wikipedia.Sentences
	}
}

// RequireOpenAIKey returns the OpenAI API key or a *MissingError.
func (c *Config) RequireOpenAIKey() (string, error) {
	if c.OpenAI.APIKey == "" {
		return "", &MissingError{Setting: "OpenAI API key", EnvVars: []string{"OPENAI_API_KEY"}}
	}
	return c.OpenAI.APIKey, nil
}

// RequireGoogleCredentialsPath returns the OAuth client secret path or a *MissingError.
func (c *Config) RequireGoogleCredentialsPath() (string, error) {
	if c.Google.CredentialsPath == "" {
		return "", &MissingError{Setting: "Google OAuth client secret file", EnvVars: []string{"GOOGLE_CREDENTIALS_PATH"}}
	}
	return c.Google.CredentialsPath, nil
}

// RequireJira returns the Jira settings when URL, user and token are all set.
func (c *Config) RequireJira() (JiraConfig, error) {
	var missing []string
	if c.Jira.URL == "" {
		missing = append(missing, "JIRA_URL")
	}
	if c.Jira.User == "" {
		missing = append(missing, "JIRA_USER")
	}
	if c.Jira.Token == "" {
		missing = append(missing, "JIRA_TOKEN")
	}
	if len(missing) > 0 {
		return JiraConfig{}, &MissingError{Setting: "Jira credentials", EnvVars: missing}
	}
	return c.Jira, nil
}
