// loader.go implements the configuration loading lifecycle for the FCM renderer.
//
// The loading sequence is:
//  1. Load dotenv files via godotenv (the default .env is optional, but must
//     parse when present).
//  2. Report keys that have neither a value nor a pointer.
//  3. For every required key that is still unset, follow its K_SSM_PARAM
//     pointer through the SecretProvider and inject the value.
//  4. Check presence of every required key, in document order.
//  5. Use envconfig to populate the Config struct.
//  6. Populate BuildInfo from linker-injected variables.
package config

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"fcmsetup/internal/types"
)

// ConfigError is the error type returned by Load. The wrapped error carries
// the detail (for ErrMissingEnv it is a *types.MissingConfigurationError).
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// SSMParamSuffix marks a pointer variable: API_KEY_SSM_PARAM=/ci/fcm/api_key
// tells the loader where to fetch API_KEY from when it is not set directly.
const SSMParamSuffix = "_SSM_PARAM"

// defaultEnvFile is loaded when no env files are named explicitly.
const defaultEnvFile = ".env"

// secretResolutionTimeout bounds the whole pointer resolution step.
const secretResolutionTimeout = 30 * time.Second

// envLookup matches os.LookupEnv.
type envLookup func(key string) (string, bool)

// envSet matches os.Setenv.
type envSet func(key, value string) error

// loaderDeps holds the injectable dependencies for the loader.
type loaderDeps struct {
	lookupEnv envLookup
	setEnv    envSet
}

// defaultDeps returns the standard OS-backed dependencies.
func defaultDeps() loaderDeps {
	return loaderDeps{
		lookupEnv: os.LookupEnv,
		setEnv:    os.Setenv,
	}
}

// LoadOptions controls where Load looks for values besides the process
// environment.
type LoadOptions struct {
	// EnvFiles are dotenv files to load. When empty, ./.env is loaded if it
	// exists. Explicitly listed files must exist.
	EnvFiles []string

	// Provider resolves K_SSM_PARAM pointers. It may be nil as long as no
	// pointer has to be followed.
	Provider SecretProvider
}

// Load resolves and returns the FCM credentials.
//
// Dotenv files never override variables already present in the process
// environment, and pointers are only followed for keys that are still unset
// after the dotenv step. A key missing from every source yields a
// *ConfigError of type ErrMissingEnv listing every missing key.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return loadWithDeps(ctx, opts, defaultDeps())
}

func loadWithDeps(ctx context.Context, opts LoadOptions, deps loaderDeps) (*Config, error) {
	if err := loadEnvFiles(opts.EnvFiles); err != nil {
		return nil, err
	}

	// Keys with neither a value nor a pointer are reported before any
	// provider call, so a secret store failure cannot hide them.
	if missing := unpointedKeys(deps); len(missing) > 0 {
		return nil, missingError(missing)
	}

	if err := resolveSecretPointers(ctx, opts.Provider, deps); err != nil {
		return nil, err
	}

	if missing := missingKeys(deps); len(missing) > 0 {
		return nil, missingError(missing)
	}

	// The empty prefix makes envconfig read the exact tag values
	// (envconfig:"CLIENT_ID" reads CLIENT_ID).
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	cfg.Build = NewBuildInfo()

	return &cfg, nil
}

// loadEnvFiles loads dotenv files without overriding the process environment.
func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		// ./.env is optional, but a present one must parse.
		if _, err := os.Stat(defaultEnvFile); err != nil {
			return nil
		}
		files = []string{defaultEnvFile}
	}

	if err := godotenv.Load(files...); err != nil {
		return &ConfigError{
			Type:    ErrEnvFile,
			Message: fmt.Sprintf("failed to load env file(s) %s", strings.Join(files, ", ")),
			Err:     err,
		}
	}
	return nil
}

func missingError(keys []string) *ConfigError {
	return &ConfigError{
		Type:    ErrMissingEnv,
		Message: "required configuration is not set",
		Err:     &types.MissingConfigurationError{Keys: keys},
	}
}

// unpointedKeys returns the required keys that are absent and have no
// non-empty K_SSM_PARAM pointer either, in RequiredKeys order.
func unpointedKeys(deps loaderDeps) []string {
	var missing []string
	for _, key := range RequiredKeys {
		if _, ok := deps.lookupEnv(key); ok {
			continue
		}
		if path, ok := deps.lookupEnv(key + SSMParamSuffix); ok && path != "" {
			continue
		}
		missing = append(missing, key)
	}
	return missing
}

// missingKeys returns the required keys that are absent from the
// environment, preserving RequiredKeys order. An exported but empty variable
// counts as present.
func missingKeys(deps loaderDeps) []string {
	var missing []string
	for _, key := range RequiredKeys {
		if _, ok := deps.lookupEnv(key); !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// resolveSecretPointers follows K_SSM_PARAM pointers for required keys that
// are not set, fetching every pointer in one batch call and injecting the
// results into the environment.
//
// For example, with SERVER_KEY unset and SERVER_KEY_SSM_PARAM=/ci/fcm/server_key,
// the provider is asked for /ci/fcm/server_key and SERVER_KEY is set to the
// result. The priority chain is therefore Env > Dotenv > pointer.
func resolveSecretPointers(ctx context.Context, provider SecretProvider, deps loaderDeps) error {
	type pointer struct {
		targetEnvVar string // e.g., SERVER_KEY
		path         string // e.g., /ci/fcm/server_key
	}

	var pointers []pointer

	for _, key := range RequiredKeys {
		if _, exists := deps.lookupEnv(key); exists {
			continue
		}
		path, ok := deps.lookupEnv(key + SSMParamSuffix)
		if !ok || path == "" {
			continue
		}
		pointers = append(pointers, pointer{targetEnvVar: key, path: path})
	}

	if len(pointers) == 0 {
		return nil
	}

	if provider == nil {
		targets := make([]string, 0, len(pointers))
		for _, p := range pointers {
			targets = append(targets, p.targetEnvVar)
		}
		return &ConfigError{
			Type:    ErrSecretResolution,
			Message: fmt.Sprintf("a SecretProvider is required to resolve: %s", strings.Join(targets, ", ")),
		}
	}

	// Several keys may share one path; ask for it once.
	paths := make([]string, 0, len(pointers))
	for _, p := range pointers {
		if !slices.Contains(paths, p.path) {
			paths = append(paths, p.path)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, secretResolutionTimeout)
	defer cancel()

	resolved, err := provider.GetParametersBatch(ctx, paths)
	if err != nil {
		return &ConfigError{
			Type:    ErrSecretResolution,
			Message: fmt.Sprintf("failed to resolve %d secret pointers", len(paths)),
			Err:     err,
		}
	}

	var unresolved []string
	for _, p := range pointers {
		value, ok := resolved[p.path]
		if !ok {
			unresolved = append(unresolved, p.targetEnvVar)
			continue
		}
		if err := deps.setEnv(p.targetEnvVar, value); err != nil {
			return &ConfigError{
				Type:    ErrSecretResolution,
				Message: fmt.Sprintf("failed to set resolved value for %s", p.targetEnvVar),
				Err:     err,
			}
		}
	}
	if len(unresolved) > 0 {
		return &ConfigError{
			Type:    ErrSecretResolution,
			Message: fmt.Sprintf("secret pointers not found for: %s", strings.Join(unresolved, ", ")),
		}
	}

	return nil
}

