// Package config defines the Firebase Cloud Messaging credentials that are
// rendered into the iOS GoogleService-Info.plist during CI builds.
//
// Every value is required and has no default. Values are resolved via:
//
//	OS Environment (Highest) -> Dotenv File -> Secret pointer (K_SSM_PARAM)
//
// A variable that is absent from all three sources is reported as a
// MissingConfigurationError naming the key, and no document is written.
package config

import (
	"fcmsetup/internal/types"
)

// SecretString is an alias for types.SecretString so the credentials redact
// in build logs.
type SecretString = types.SecretString

// Config carries the push-notification credentials issued by Firebase for the
// iOS client. Field order follows the order of the rendered document.
type Config struct {
	ClientID         string       `envconfig:"CLIENT_ID" required:"true"`
	ReversedClientID string       `envconfig:"REVERSED_CLIENT_ID" required:"true"`
	APIKey           SecretString `envconfig:"API_KEY" required:"true"`
	GCMSenderID      string       `envconfig:"GCM_SENDER_ID" required:"true"`
	ProjectID        string       `envconfig:"PROJECT_ID" required:"true"`
	StorageBucket    string       `envconfig:"STORAGE_BUCKET" required:"true"`
	GoogleAppID      string       `envconfig:"GOOGLE_APP_ID" required:"true"`
	DatabaseURL      string       `envconfig:"DATABASE_URL" required:"true"`
	ServerKey        SecretString `envconfig:"SERVER_KEY" required:"true"`

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo `ignored:"true"`
}

// RequiredKeys lists the environment variables the renderer needs, in
// document order. It must stay in sync with the envconfig tags on Config.
var RequiredKeys = []string{
	"CLIENT_ID",
	"REVERSED_CLIENT_ID",
	"API_KEY",
	"GCM_SENDER_ID",
	"PROJECT_ID",
	"STORAGE_BUCKET",
	"GOOGLE_APP_ID",
	"DATABASE_URL",
	"SERVER_KEY",
}

// BuildInfo holds build-time metadata injected via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates a required environment variable was not found.
	// The wrapped error is a *types.MissingConfigurationError.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrEnvFile indicates an explicitly requested dotenv file could not be read.
	ErrEnvFile ConfigErrorType = "ENV_FILE"
	// ErrSecretResolution indicates a K_SSM_PARAM pointer could not be resolved.
	ErrSecretResolution ConfigErrorType = "SECRET_RESOLUTION"
	// ErrParsing indicates envconfig could not populate the struct.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
