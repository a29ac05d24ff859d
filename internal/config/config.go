// Package config loads and validates harvester configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Crawler Crawler `mapstructure:"crawler"`
	Storage Storage `mapstructure:"storage"`
	DB      DB      `mapstructure:"db"`
	PubSub  PubSub  `mapstructure:"pubsub"`
	Ops     Ops     `mapstructure:"ops"`
	Logging Logging `mapstructure:"logging"`
	Files   Files   `mapstructure:"files"`
}

// Crawler governs the partitioned directory traversal.
type Crawler struct {
	// BaseURL is a printf template taking the partition key and the
	// one-based page number.
	BaseURL string `mapstructure:"base_url"`
	// Origin is prefixed onto relative image source paths.
	Origin         string  `mapstructure:"origin"`
	Partitions     string  `mapstructure:"partitions"`
	UserAgent      string  `mapstructure:"user_agent"`
	PageWaitSec    int     `mapstructure:"page_wait_seconds"`
	Concurrency    int     `mapstructure:"concurrency"`
	RenderParallel int     `mapstructure:"render_parallel"`
	DomainQPS      float64 `mapstructure:"domain_qps"`
	FetchTimeout   int     `mapstructure:"fetch_timeout_seconds"`
}

// Storage selects the photo blob store backend.
type Storage struct {
	// Backend is one of "gcs", "local", or "memory".
	Backend   string `mapstructure:"backend"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	LocalDir  string `mapstructure:"local_dir"`
}

// DB controls access to the relational destination store.
type DB struct {
	DSN              string `mapstructure:"dsn"`
	Table            string `mapstructure:"table"`
	MaxConns         int32  `mapstructure:"max_conns"`
	TimeslotsPerHour int    `mapstructure:"timeslots_per_hour"`
}

// PubSub holds metadata for run-summary notifications. Empty project
// disables publishing.
type PubSub struct {
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// Ops configures the optional health/metrics listener. Port 0 disables it.
type Ops struct {
	Port int `mapstructure:"port"`
}

// Logging toggles zap development features.
type Logging struct {
	Development bool `mapstructure:"development"`
}

// Files names the interchange batch files shared between stages.
type Files struct {
	DirectoryCSV string `mapstructure:"directory_csv"`
	FilteredCSV  string `mapstructure:"filtered_csv"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HARVESTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawler.base_url", "https://www.wsc.edu/directory/9/a-to-z/%s?page=%d")
	v.SetDefault("crawler.origin", "https://www.wsc.edu")
	v.SetDefault("crawler.partitions", "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	v.SetDefault("crawler.user_agent", "facultydir-harvester/0.1")
	v.SetDefault("crawler.page_wait_seconds", 5)
	v.SetDefault("crawler.concurrency", 2)
	v.SetDefault("crawler.render_parallel", 2)
	v.SetDefault("crawler.domain_qps", 1.0)
	v.SetDefault("crawler.fetch_timeout_seconds", 15)
	v.SetDefault("storage.backend", "gcs")
	v.SetDefault("db.table", "staff")
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("db.timeslots_per_hour", 2)
	v.SetDefault("ops.port", 0)
	v.SetDefault("logging.development", true)
	v.SetDefault("files.directory_csv", "faculty_directory.csv")
	v.SetDefault("files.filtered_csv", "filtered_output.csv")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Crawler.BaseURL == "" {
		return fmt.Errorf("crawler.base_url must be set")
	}
	if !strings.Contains(c.Crawler.BaseURL, "%s") || !strings.Contains(c.Crawler.BaseURL, "%d") {
		return fmt.Errorf("crawler.base_url must contain %%s and %%d placeholders")
	}
	if c.Crawler.Partitions == "" {
		return fmt.Errorf("crawler.partitions must be set")
	}
	if c.Crawler.PageWaitSec <= 0 {
		return fmt.Errorf("crawler.page_wait_seconds must be > 0")
	}
	if c.Crawler.Concurrency <= 0 {
		return fmt.Errorf("crawler.concurrency must be > 0")
	}
	switch c.Storage.Backend {
	case "gcs":
	case "local", "memory":
	default:
		return fmt.Errorf("storage.backend must be gcs, local, or memory")
	}
	if c.Ops.Port < 0 {
		return fmt.Errorf("ops.port must be >= 0")
	}
	return nil
}

// PartitionKeys splits the partition string into single-letter keys in
// declaration order.
func (c Config) PartitionKeys() []string {
	keys := make([]string, 0, len(c.Crawler.Partitions))
	for _, r := range c.Crawler.Partitions {
		keys = append(keys, string(r))
	}
	return keys
}

// PageWait returns the crawl page timeout as a duration.
func (c Config) PageWait() time.Duration {
	return time.Duration(c.Crawler.PageWaitSec) * time.Second
}

// FetchTimeout returns the image fetch timeout as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Crawler.FetchTimeout) * time.Second
}
