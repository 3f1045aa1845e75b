package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type HTTPConfig struct {
	Addr    string        `yaml:"addr" env:"MANGASCOUT_ADDR" env-default:":8080"`
	Timeout time.Duration `yaml:"timeout" env:"MANGASCOUT_HTTP_TIMEOUT" env-default:"15s"`
}

type MangaDexConfig struct {
	BaseURL    string `yaml:"base_url" env:"MANGADEX_BASE_URL" env-default:"https://api.mangadex.org"`
	UploadsURL string `yaml:"uploads_url" env:"MANGADEX_UPLOADS_URL" env-default:"https://uploads.mangadex.org"`
	// ClampOffset caps search offsets at 9999 (the catalog rejects offset+limit > 10000).
	ClampOffset bool `yaml:"clamp_offset" env:"MANGASCOUT_CLAMP_OFFSET" env-default:"true"`
}

type MALConfig struct {
	BaseURL string `yaml:"base_url" env:"MAL_BASE_URL" env-default:"https://api.myanimelist.net"`
	// ClientID is sent as X-MAL-CLIENT-ID. Not validated: a missing id shows
	// up as malformed MAL responses and empty pages.
	ClientID    string  `yaml:"client_id" env:"MAL_CID"`
	Concurrency int     `yaml:"concurrency" env:"MANGASCOUT_MAL_CONCURRENCY" env-default:"4"`
	RPS         float64 `yaml:"rps" env:"MANGASCOUT_MAL_RPS" env-default:"3"`
}

type ScoreCacheConfig struct {
	Path string        `yaml:"path" env:"MANGASCOUT_SCORE_CACHE_PATH"`
	TTL  time.Duration `yaml:"ttl" env:"MANGASCOUT_SCORE_CACHE_TTL" env-default:"24h"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"MANGASCOUT_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"MANGASCOUT_LOG_FORMAT" env-default:"console"`
}

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	MangaDex   MangaDexConfig   `yaml:"mangadex"`
	MAL        MALConfig        `yaml:"mal"`
	ScoreCache ScoreCacheConfig `yaml:"score_cache"`
	Log        LogConfig        `yaml:"log"`
}

// LoadConfig reads configuration from path (yaml, optional) and the
// environment. A .env file in the working directory is loaded first when
// present; variables already set in the environment win.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
		return cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	return cfg, nil
}

func MustLoadConfig(path string) Config {
	cfg, err := LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
