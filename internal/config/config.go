package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "COURSEVIEWER"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	API     APIConfig     `mapstructure:"api"`
	Content ContentConfig `mapstructure:"content"`
	Quiz    QuizConfig    `mapstructure:"quiz"`
	Log     LogConfig     `mapstructure:"log"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	Mode       string `mapstructure:"mode"`
	RootURL    string `mapstructure:"root_url"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ContentConfig struct {
	StaticDir string `mapstructure:"static_dir"`
	QuizDir   string `mapstructure:"quiz_dir"`
}

// QuizConfig maps course slugs to quiz subject directories.
type QuizConfig struct {
	DefaultSubject string            `mapstructure:"default_subject"`
	Subjects       map[string]string `mapstructure:"subjects"`
	Optional       bool              `mapstructure:"optional"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

type CacheConfig struct {
	HTML string `mapstructure:"html"`
}

func (c QuizConfig) SubjectFor(course string) string {
	course = strings.ToLower(strings.TrimSpace(course))
	if subject, ok := c.Subjects[course]; ok && strings.TrimSpace(subject) != "" {
		return subject
	}

	return c.DefaultSubject
}

func (c Config) IsDebug() bool {
	return strings.EqualFold(c.Server.Mode, "debug")
}

// Load reads config.yaml from dir (if present) and applies COURSEVIEWER_* env overrides.
func Load(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if strings.TrimSpace(dir) != "" {
		v.AddConfigPath(dir)
	}
	if envDir := os.Getenv(envPrefix + "_CONFIG_DIR"); envDir != "" {
		v.AddConfigPath(envDir)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.BaseURL == "" {
		return Config{}, errors.New("api.base_url cannot be empty")
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = defaultAPITimeout
	}
	if strings.TrimSpace(cfg.Quiz.DefaultSubject) == "" {
		cfg.Quiz.DefaultSubject = defaultSubject
	}

	return cfg, nil
}

const (
	defaultAPITimeout = 15 * time.Second
	defaultSubject    = "Python"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.root_url", "")
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", defaultAPITimeout)
	v.SetDefault("content.static_dir", "static")
	v.SetDefault("content.quiz_dir", "src/quizzes")
	v.SetDefault("quiz.default_subject", defaultSubject)
	v.SetDefault("quiz.optional", false)
	v.SetDefault("log.file", "")
	v.SetDefault("cache.html", "")
}
