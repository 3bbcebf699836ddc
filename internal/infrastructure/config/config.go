// Package config handles configuration loading and saving.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/tesso57/newsreel/internal/application/settings"
	"github.com/tesso57/newsreel/internal/domain/subscription"
	"gopkg.in/yaml.v3"
)

// Store manages persisted application settings.
type Store struct {
	// Settings is the effective configuration, environment overrides included.
	Settings   settings.Settings
	file       settings.Settings
	configPath string
}

// DefaultPath is ~/.config/newsreel/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "newsreel", "config.yaml"), nil
}

// Load loads the configuration from the specified path or default location.
// A .env file in the working directory or next to the config file is read
// first; a missing config file is created with defaults.
func Load(customPath ...string) (*Store, error) {
	var configPath string
	if len(customPath) > 0 && customPath[0] != "" {
		configPath = customPath[0]
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	loadDotEnv(".env", filepath.Join(filepath.Dir(configPath), ".env"))

	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := settings.Settings{}
	var options []kong.Option
	_, statErr := os.Stat(configPath)
	exists := statErr == nil
	if exists {
		options = append(options, kong.Configuration(yamlKongLoader, configPath))
	}

	parser, err := kong.New(&cfg, options...)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse([]string{}); err != nil {
		return nil, err
	}

	if exists {
		topics, err := readTopics(configPath)
		if err != nil {
			return nil, err
		}
		cfg.Topics = topics
	}
	if len(subscription.NormalizeTopics(cfg.Topics)) == 0 {
		cfg.Topics = settings.DefaultTopics()
	}
	cfg.Mail.To = splitList(cfg.Mail.To)

	store := &Store{Settings: cfg, file: cfg, configPath: configPath}
	if !exists {
		if err := store.Save(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	applyEnv(&store.Settings, os.Getenv)
	return store, nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.configPath
}

func loadDotEnv(paths ...string) {
	for _, p := range slices.Compact(paths) {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

func readTopics(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Topics map[string]any `yaml:"topics"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse topics: %w", err)
	}
	return doc.Topics, nil
}

// applyEnv overlays secrets and deployment values from the environment.
func applyEnv(cfg *settings.Settings, getenv func(string) string) {
	for _, key := range []string{"LLM_API_KEY", "PERPLEXITY_API_KEY", "OPENAI_API_KEY"} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			cfg.LLM.APIKey = v
			break
		}
	}
	setString(&cfg.LLM.Model, getenv("PERPLEXITY_MODEL"))
	setString(&cfg.LLM.Endpoint, getenv("LLM_ENDPOINT"))
	setString(&cfg.Mail.Host, getenv("EMAIL_HOST"))
	if port, err := strconv.Atoi(strings.TrimSpace(getenv("EMAIL_PORT"))); err == nil && port > 0 {
		cfg.Mail.Port = port
	}
	setString(&cfg.Mail.Username, getenv("EMAIL_USERNAME"))
	setString(&cfg.Mail.Password, getenv("EMAIL_PASSWORD"))
	setString(&cfg.Mail.From, getenv("EMAIL_FROM"))
	setString(&cfg.Mail.Subject, getenv("EMAIL_SUBJECT"))
	if to := splitList([]string{getenv("EMAIL_TO")}); len(to) > 0 {
		cfg.Mail.To = to
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func yamlKongLoader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		name := strings.ReplaceAll(flag.Name, "-", "_")
		if v, ok := values[name]; ok {
			return v, nil
		}
		curr := values
		parts := strings.Split(name, ".")
		for i, part := range parts {
			v, ok := curr[part]
			if !ok {
				return nil, nil
			}
			if i == len(parts)-1 {
				return v, nil
			}
			next, ok := v.(map[string]any)
			if !ok {
				return nil, nil
			}
			curr = next
		}
		return nil, nil
	}
	return f, nil
}

// Topics returns the configured topics sorted by name.
func (s *Store) Topics() []subscription.Topic {
	return s.Settings.TopicList()
}

// AddFeed appends a feed URL to a topic, creating the topic when needed, and saves.
func (s *Store) AddFeed(topic, url string) error {
	topic = strings.TrimSpace(topic)
	url = strings.TrimSpace(url)
	if topic == "" || url == "" {
		return errors.New("topic and feed url are required")
	}
	topics := s.Topics()
	idx := slices.IndexFunc(topics, func(t subscription.Topic) bool { return t.Name == topic })
	if idx < 0 {
		topics = append(topics, subscription.Topic{Name: topic})
		idx = len(topics) - 1
	}
	if slices.Contains(topics[idx].Feeds, url) {
		return fmt.Errorf("feed already in topic %q: %s", topic, url)
	}
	topics[idx].Feeds = append(topics[idx].Feeds, url)
	s.setTopics(topics)
	return s.Save()
}

// RemoveTopic deletes a topic and saves.
func (s *Store) RemoveTopic(name string) error {
	topics := s.Topics()
	idx := slices.IndexFunc(topics, func(t subscription.Topic) bool { return t.Name == name })
	if idx < 0 {
		return fmt.Errorf("unknown topic: %q", name)
	}
	s.setTopics(slices.Delete(topics, idx, idx+1))
	return s.Save()
}

func (s *Store) setTopics(topics []subscription.Topic) {
	m := subscription.ToMap(topics)
	s.Settings.Topics = m
	s.file.Topics = m
}

// Save writes the file-backed settings; environment overrides are never persisted.
func (s *Store) Save() error {
	f, err := os.Create(s.configPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(s.file); err != nil {
		return err
	}
	return enc.Close()
}
