package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string `mapstructure:"env"`               // current application environment (local, dev, prod etc)
	TelegramAPIToken string `mapstructure:"-"`                 // Telegram API token loaded from environment
	RegionsJSONPath  string `mapstructure:"regions_json_path"` // path to JSON file with map region metadata
	MapImagePath     string `mapstructure:"map_image_path"`    // path to the quiz map image
	AudioDir         string `mapstructure:"audio_dir"`         // directory with prompt and cue audio clips
	Quiz             Quiz   `mapstructure:"quiz"`              // quiz tuning section
}

// Quiz contains quiz-session tuning parameters.
type Quiz struct {
	MaxGuesses   int           `mapstructure:"max_guesses"`   // wrong guesses before a question force-resolves
	AdvanceDelay time.Duration `mapstructure:"advance_delay"` // pause before the next question is presented
	WrongColors  []string      `mapstructure:"wrong_colors"`  // severity ramp, mild to severe
	CorrectColor string        `mapstructure:"correct_color"` // color for answered regions
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("regions_json_path", "assets/data/regions.json")
	v.SetDefault("map_image_path", "assets/map.png")
	v.SetDefault("audio_dir", "assets/audio")
	v.SetDefault("quiz.max_guesses", 5)
	v.SetDefault("quiz.advance_delay", "800ms")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	return &cfg, nil
}
