// Package settings defines application-level configuration data.
package settings

import (
	"time"

	"github.com/tesso57/newsreel/internal/domain/subscription"
)

// CollectConfig controls feed collection.
type CollectConfig struct {
	MaxPerTopic              int    `yaml:"max_per_topic" kong:"help='Items kept per topic',default='3'"`
	HoursWindow              int    `yaml:"hours_window" kong:"help='Freshness window in hours (IST)',default='8'"`
	ResolveMissingTimestamps bool   `yaml:"resolve_missing_timestamps" kong:"help='Fetch article pages for undated entries',default='true'"`
	FeedTimeoutSeconds       int    `yaml:"feed_timeout_seconds" kong:"help='Per-feed timeout in seconds',default='6'"`
	UserAgent                string `yaml:"user_agent" kong:"help='HTTP User-Agent',default='Mozilla/5.0 (compatible; newsreel/1.0)'"`
}

// ExtractConfig controls article extraction.
type ExtractConfig struct {
	MaxURLs        int `yaml:"max_urls" kong:"name='max-urls',help='Articles extracted per run',default='8'"`
	TimeoutSeconds int `yaml:"timeout_seconds" kong:"help='Article fetch timeout in seconds',default='6'"`
	MaxChars       int `yaml:"max_chars" kong:"help='Full text character cap',default='30000'"`
}

// LLMConfig configures the chat completions client and post selection.
type LLMConfig struct {
	Endpoint       string  `yaml:"endpoint" kong:"help='Chat completions endpoint',default='https://api.perplexity.ai/chat/completions'"`
	Model          string  `yaml:"model" kong:"help='Model name',default='sonar'"`
	APIKey         string  `yaml:"api_key" kong:"name='api-key',help='API key'"`
	Temperature    float64 `yaml:"temperature" kong:"help='Sampling temperature',default='0.7'"`
	MaxTokens      int     `yaml:"max_tokens" kong:"help='Max tokens per completion',default='900'"`
	TimeoutSeconds int     `yaml:"timeout_seconds" kong:"help='Request timeout in seconds',default='60'"`
	MinViralScore  int     `yaml:"min_viral_score" kong:"help='Minimum viral score (0-100) for a post',default='60'"`
	MaxPosts       int     `yaml:"max_posts" kong:"help='Posts kept per run',default='5'"`
}

// MailConfig configures digest delivery over SMTP.
type MailConfig struct {
	Host     string   `yaml:"host" kong:"help='SMTP host',default='smtp.gmail.com'"`
	Port     int      `yaml:"port" kong:"help='SMTP port (465 uses SSL)',default='465'"`
	Username string   `yaml:"username" kong:"help='SMTP username'"`
	Password string   `yaml:"password" kong:"help='SMTP password'"`
	From     string   `yaml:"from" kong:"help='Sender address'"`
	To       []string `yaml:"to" kong:"help='Recipients'"`
	Subject  string   `yaml:"subject" kong:"help='Subject line',default='theaipoint - Viral Digest'"`
}

// OutputConfig says where finished cards and feeds go.
type OutputConfig struct {
	CardsDir string `yaml:"cards_dir" kong:"help='Directory for HTML cards',default='output'"`
	AtomFeed string `yaml:"atom_feed" kong:"help='Atom feed path (empty disables)'"`
	Brand    string `yaml:"brand" kong:"help='Brand name printed on cards',default='The AI Point'"`
}

// Settings represents the application configuration.
type Settings struct {
	// Topics maps a topic name to one feed URL or a list of them.
	Topics   map[string]any `yaml:"topics" kong:"-"`
	Collect  CollectConfig  `yaml:"collect" kong:"embed,prefix='collect.'"`
	Extract  ExtractConfig  `yaml:"extract" kong:"embed,prefix='extract.'"`
	LLM      LLMConfig      `yaml:"llm" kong:"embed,prefix='llm.'"`
	Mail     MailConfig     `yaml:"mail" kong:"embed,prefix='mail.'"`
	Output   OutputConfig   `yaml:"output" kong:"embed,prefix='output.'"`
	Schedule string         `yaml:"schedule" kong:"help='Cron spec for the daemon',default='0 */4 * * *'"`
	LogLevel string         `yaml:"log_level" kong:"help='Log level',default='info'"`
	LogDir   string         `yaml:"log_dir" kong:"help='Directory for dated log files (empty logs to stderr only)'"`
}

// DefaultTopics returns a fresh copy of the built-in topic table.
func DefaultTopics() map[string]any {
	return map[string]any{
		"tech": []any{
			"https://timesofindia.indiatimes.com/rssfeeds/66949542.cms",
			"https://feeds.feedburner.com/gadgets360-latest",
			"https://timesofindia.indiatimes.com/rssfeeds/5880659.cms",
			"https://www.thehindu.com/sci-tech/feeder/default.rss",
		},
		"fitness":      []any{"https://www.thehindu.com/life-and-style/fitness/feeder/default.rss"},
		"stock_market": []any{"https://www.thehindu.com/business/markets/feeder/default.rss"},
		"astrology":    []any{"https://timesofindia.indiatimes.com/rssfeeds/65857041.cms"},
	}
}

// TopicList returns the configured topics sorted by name.
func (s Settings) TopicList() []subscription.Topic {
	return subscription.NormalizeTopics(s.Topics)
}

// Window is the collection freshness window.
func (s Settings) Window() time.Duration {
	return time.Duration(s.Collect.HoursWindow) * time.Hour
}

// Seconds converts a whole-second setting, falling back when unset.
func Seconds(n int, fallback time.Duration) time.Duration {
	if n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
