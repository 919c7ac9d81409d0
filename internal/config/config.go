package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"se-metrics/internal/jira"
	"se-metrics/internal/report"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Jira   jira.Config
	Report report.Config
	Addr   string
}

// Load loads the configuration from a .env file and environment variables.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on environment variables")
	}

	timeoutSecs, _ := strconv.Atoi(getEnv("JIRA_REQUEST_TIMEOUT_SECONDS", "90"))

	cfg := &AppConfig{
		Jira: jira.Config{
			BaseURL:        strings.TrimRight(getEnv("JIRA_BASE_URL", ""), "/"),
			Email:          getEnv("JIRA_EMAIL", ""),
			APIToken:       getEnv("JIRA_API_TOKEN", ""),
			RequestTimeout: time.Duration(timeoutSecs) * time.Second,
		},
		Report: report.Config{
			ProjectKey: getEnv("JIRA_PROJECT", "SE"),
			Teams:      splitList(getEnv("REPORT_TEAMS", "EIM,ENGGMNT,AM,MRKT")),
		},
		Addr: ":" + getEnv("PORT", "5000"),
	}

	// Startup proceeds without credentials; searches will fail at call time.
	if cfg.Jira.Email == "" || cfg.Jira.APIToken == "" {
		log.Warn().Msg("Jira credentials not found, set JIRA_EMAIL and JIRA_API_TOKEN")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
