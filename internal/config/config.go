package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port             int           `env:"PORT" envDefault:"8080"`
	BaseURL          string        `env:"BASE_URL"`
	QuestionDuration time.Duration `env:"HVEM_QUESTION_DURATION" envDefault:"30s"`
	RevealHold       time.Duration `env:"HVEM_REVEAL_HOLD" envDefault:"8s"`
	UnlockWindow     time.Duration `env:"HVEM_UNLOCK_WINDOW" envDefault:"24h"`
	AutoEndVoting    bool          `env:"HVEM_AUTO_END_VOTING" envDefault:"true"`
	PollInterval     time.Duration `env:"HVEM_POLL_INTERVAL" envDefault:"1s"`
	// Seed fixes the session PRNG. Zero picks a random seed.
	Seed  int64 `env:"HVEM_SEED" envDefault:"0"`
	Debug bool  `env:"DEBUG" envDefault:"false"`
}

// Load reads an optional .env file from the working directory, then the
// environment. Variables already set take precedence over the file.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is fine.
func LoadFile(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges env parsing cannot express.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"HVEM_QUESTION_DURATION", c.QuestionDuration},
		{"HVEM_REVEAL_HOLD", c.RevealHold},
		{"HVEM_UNLOCK_WINDOW", c.UnlockWindow},
		{"HVEM_POLL_INTERVAL", c.PollInterval},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("config: %s must be positive, got %s", d.name, d.d)
		}
	}
	if c.QuestionDuration < time.Second {
		return fmt.Errorf("config: HVEM_QUESTION_DURATION must be at least 1s, got %s", c.QuestionDuration)
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
