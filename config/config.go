package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/linesmerrill/drone-survey-sync/logging"
	"github.com/linesmerrill/drone-survey-sync/models"
)

// Config holds the project config values
type Config struct {
	BackendURL string `env:"BACKEND_URL,required"`
	SocketURL  string `env:"SOCKET_URL,required"`
	SocketPath string `env:"SOCKET_PATH" envDefault:"/socket.io/"`
	Port       string `env:"PORT" envDefault:"8080"`
	AppEnv     string `env:"APP_ENV" envDefault:"local"`

	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ReconnectDelay    time.Duration `env:"RECONNECT_DELAY" envDefault:"1s"`
	ReconnectDelayMax time.Duration `env:"RECONNECT_DELAY_MAX" envDefault:"5s"`

	// StatisticsRefreshSchedule is a cron spec. Empty disables the job.
	StatisticsRefreshSchedule string `env:"STATISTICS_REFRESH_SCHEDULE"`
}

// New loads the given .env files, parses the environment and installs the
// global zap logger. Missing files are ignored.
func New(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	logger, err := setLogger(cfg.AppEnv)
	if err != nil {
		return nil, err
	}
	_ = zap.ReplaceGlobals(logger)

	return &cfg, nil
}

func setLogger(appEnv string) (*zap.Logger, error) {
	return logging.New(appEnv)
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With("error", err).Error(message)

	body := models.ErrorMessageResponse{Response: models.MessageError{Message: message}}
	if err != nil {
		body.Response.Error = err.Error()
	}
	b, _ := json.Marshal(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_, _ = w.Write(b)
}
