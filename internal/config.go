package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	BufferSize        int           `env:"BUFFER_SIZE,required=true" validate:"gt=0"`
	DebounceDuration  time.Duration `env:"TYPING_DEBOUNCE,required=true" validate:"gt=0"`
	SweepInterval     time.Duration `env:"TYPING_SWEEP_INTERVAL,required=true" validate:"gt=0"`
	ConnectDelay      time.Duration `env:"CONNECT_DELAY,required=true" validate:"gte=0"`
	MetricInterval    time.Duration `env:"METRIC_INTERVAL,required=true" validate:"gt=0"`
	LimitMessages     *int          `env:"LIMIT_MESSAGES" validate:"omitempty,gt=0"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true" validate:"required"`
	BlugeFilepath     string        `env:"BLUGE_FILEPATH,required=true" validate:"required"`
	LogLevel          string        `env:"LOG_LEVEL,required=true" validate:"required"`
	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	GeminiBackupKey   string        `env:"GEMINI_BACKUP_API_KEY"`
	AuthSecret        string        `env:"AUTH_SECRET,required=true" validate:"min=32"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true" validate:"gt=0"`
	MentorEmail       string        `env:"MENTOR_EMAIL" validate:"omitempty,email"`
	MentorPassword    string        `env:"MENTOR_PASSWORD"`
}

var validate = validator.New()

// Validate catches values the env tags cannot express.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
