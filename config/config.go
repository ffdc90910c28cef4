package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	Game        GameConfig        `mapstructure:"game"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Log         LogConfig         `mapstructure:"log"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type GameConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
	SeedPhrases     bool   `mapstructure:"seed_phrases"`
}

// Leaderboard snapshots refresh either on a timer or synchronously
// after every completion; refresh_on_complete switches between the two.
type LeaderboardConfig struct {
	RefreshIntervalSec int  `mapstructure:"refresh_interval_sec"`
	Size               int  `mapstructure:"size"`
	RefreshOnComplete  bool `mapstructure:"refresh_on_complete"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("database.path", "./phrasehunt.db")

	viper.SetDefault("game.default_language", "en")
	viper.SetDefault("game.seed_phrases", true)

	viper.SetDefault("leaderboard.refresh_interval_sec", 60)
	viper.SetDefault("leaderboard.size", 100)
	viper.SetDefault("leaderboard.refresh_on_complete", false)

	viper.SetDefault("log.level", "info")

	// Allow environment variables, e.g. PHRASEHUNT_DATABASE_PATH
	viper.SetEnvPrefix("PHRASEHUNT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found, use defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
