package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging     LoggingConfig   `yaml:"logging"`
	Mongo       MongoConfig     `yaml:"mongo"`
	LLM         LLMConfig       `yaml:"llm"`
	Autopilot   AutopilotConfig `yaml:"autopilot"`
	API         APIConfig       `yaml:"api"`
	IdeaSources []IdeaSource    `yaml:"idea_sources"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type MongoConfig struct {
	URI    string `yaml:"uri"`
	DBName string `yaml:"db_name"`
}

// LLMConfig selects the content-generation model.
// Only the "google" provider is supported for now.
type LLMConfig struct {
	Provider  string `yaml:"provider"`
	ModelName string `yaml:"model_name"`
}

// AutopilotConfig holds the nightly batch defaults.
// Per-run overrides arrive on the batch-due event.
type AutopilotConfig struct {
	// PostsPerBatch is the shortlist size per nightly run.
	PostsPerBatch int `yaml:"posts_per_batch"`

	// IdeaLoadLimit caps how many extracted ideas are loaded per run.
	IdeaLoadLimit int `yaml:"idea_load_limit"`

	// LookbackDays is the window for recent-title freshness and pillar counts.
	LookbackDays int `yaml:"lookback_days"`

	AutoPublish           bool `yaml:"auto_publish"`
	AutoPublishDelayHours int  `yaml:"auto_publish_delay_hours"`
}

type APIConfig struct {
	Addr string `yaml:"addr"`
}

// IdeaSource is a single content source the extractor mines for ideas.
type IdeaSource struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	RSSURL     string `yaml:"rss_url"`
	SourceType string `yaml:"source_type"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		panic(err)
	}
	applyDefaults(&c)
	config = &c

	InitLogger(c.Logging.Level)
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func applyDefaults(c *AppConfig) {
	if c.Autopilot.PostsPerBatch <= 0 {
		c.Autopilot.PostsPerBatch = 3
	}
	if c.Autopilot.IdeaLoadLimit <= 0 {
		c.Autopilot.IdeaLoadLimit = 50
	}
	if c.Autopilot.LookbackDays <= 0 {
		c.Autopilot.LookbackDays = 14
	}
	if c.Autopilot.AutoPublishDelayHours <= 0 {
		c.Autopilot.AutoPublishDelayHours = 24
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8080"
	}
}

// GetBasePath walks up from the working directory until it finds config.yaml.
func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
