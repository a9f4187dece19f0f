package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/citizenvoice/pqrs-dashboard-api/models"
)

// Config holds the project config values
type Config struct {
	BackendURL   string
	SpeechURL    string
	SpeechAPIKey string
	BaseURL      string
	Port         string
}

// New sets up all config related services
func New() *Config {

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		BackendURL:   os.Getenv("PQRS_BACKEND_URL"),
		SpeechURL:    os.Getenv("SPEECH_API_URL"),
		SpeechAPIKey: os.Getenv("SPEECH_API_KEY"),
		BaseURL:      os.Getenv("BASE_URL"),
		Port:         os.Getenv("PORT"),
	}

}

// ErrorStatus is a useful function that will log, write http headers and body for a
// given message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(models.ErrorResponse{Error: fmt.Sprintf("%s: %v", message, err)})
	w.Write(b)
}
