package app

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"housing_filters/internal/config"
	"housing_filters/internal/notifications"
	"housing_filters/internal/sheets"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config is everything a run needs from the environment.
type Config struct {
	CredentialsFile string

	NeedSpreadsheetID string
	NeedRange         string
	GiveSpreadsheetID string
	GiveRange         string
	// ExportSpreadsheetID receives the static match tables.
	ExportSpreadsheetID string

	// HeaderRow is the 0-based index of the header row in the need table.
	HeaderRow int
	Pause     time.Duration
	OutputDir string

	Layout config.Layout
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// LoadConfig reads the run configuration from the environment. Missing
// spreadsheet ids are fatal.
func LoadConfig() Config {
	layout := config.DefaultLayout
	layout.HeaderOffset = GetEnvAsInt("HEADER_OFFSET", layout.HeaderOffset)

	layout.GiveSheetID = GetEnvAsInt64("GIVE_SHEET_GID", layout.GiveSheetID)
	layout.GiveGuests = GetEnvAsInt("GIVE_COL_GUESTS", layout.GiveGuests)
	layout.GiveAvailable = GetEnvAsInt("GIVE_COL_AVAILABLE", layout.GiveAvailable)
	layout.GiveMamad = GetEnvAsInt("GIVE_COL_MAMAD", layout.GiveMamad)
	layout.GiveKosher = GetEnvAsInt("GIVE_COL_KOSHER", layout.GiveKosher)
	layout.GivePets = GetEnvAsInt("GIVE_COL_PETS", layout.GivePets)
	layout.GiveStatus = GetEnvAsInt("GIVE_COL_STATUS", layout.GiveStatus)

	layout.NeedSheetID = GetEnvAsInt64("NEED_SHEET_GID", layout.NeedSheetID)
	layout.NeedDate = GetEnvAsInt("NEED_COL_DATE", layout.NeedDate)
	layout.NeedTreatment = GetEnvAsInt("NEED_COL_TREATMENT", layout.NeedTreatment)
	layout.NeedStatus = GetEnvAsInt("NEED_COL_STATUS", layout.NeedStatus)

	layout.OpenStatuses = GetEnvAsList("OPEN_STATUSES", layout.OpenStatuses)
	layout.ClosedStatuses = GetEnvAsList("CLOSED_STATUSES", layout.ClosedStatuses)

	cfg := Config{
		CredentialsFile:   GetEnvWithDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		NeedSpreadsheetID: GetRequiredEnv("NEED_SPREADSHEET_ID"),
		NeedRange:         GetEnvWithDefault("NEED_SHEET_RANGE", "תגובות לטופס 1"),
		GiveSpreadsheetID: GetRequiredEnv("GIVE_SPREADSHEET_ID"),
		GiveRange:         GetEnvWithDefault("GIVE_SHEET_RANGE", "תגובות לטופס 1"),
		HeaderRow:         GetEnvAsInt("HEADER_ROW", 1),
		Pause:             GetEnvAsDuration("PAUSE", time.Second),
		OutputDir:         GetEnvWithDefault("OUTPUT_DIR", "."),
		Layout:            layout,
	}

	cfg.ExportSpreadsheetID = GetEnvWithDefault("EXPORT_SPREADSHEET_ID", cfg.GiveSpreadsheetID)

	log.Debug().
		Str("need_spreadsheet_id", cfg.NeedSpreadsheetID).
		Str("give_spreadsheet_id", cfg.GiveSpreadsheetID).
		Int64("give_sheet_gid", layout.GiveSheetID).
		Dur("pause", cfg.Pause).
		Msg("Loaded configuration")
	return cfg
}

// GetRequiredEnv fetches a required environment variable or exits if not set.
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Msgf("%s environment variable is required", key)
	}
	return value
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer value")
	}
	return defaultValue
}

func GetEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer value")
	}
	return defaultValue
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring invalid duration")
	}
	return defaultValue
}

// GetEnvAsList splits a comma-separated variable, dropping empty entries.
func GetEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// InitializeSheetsClient creates the Google Sheets client.
func InitializeSheetsClient(ctx context.Context, cfg Config) *sheets.Client {
	log.Debug().Str("credentials_file", cfg.CredentialsFile).Msg("Initializing sheets client")
	sheetsClient, err := sheets.NewClient(ctx, cfg.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheets client")
	}
	log.Debug().Msg("Sheets client initialized successfully")
	return sheetsClient
}

// InitializeNotificationClient creates and returns the notification client
func InitializeNotificationClient() *notifications.Client {
	enabled := GetEnvWithDefault("NTFY_ENABLED", "false") == "true"
	baseURL := GetEnvWithDefault("NTFY_URL", "https://ntfy.sh")
	topic := GetEnvWithDefault("NTFY_TOPIC", "housing-filters")
	priority := GetEnvWithDefault("NTFY_PRIORITY", "")

	log.Debug().
		Bool("enabled", enabled).
		Str("base_url", baseURL).
		Str("topic", topic).
		Msg("Initializing notification client")

	client := notifications.NewClient(baseURL, topic, enabled, priority, config.DefaultResilienceConfig.Notification)

	if enabled {
		log.Info().Str("topic", topic).Msg("Notifications enabled")
	} else {
		log.Debug().Msg("Notifications disabled")
	}

	return client
}
