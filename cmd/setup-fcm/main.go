// Package main implements setup-fcm, the CI step that renders the Firebase
// Cloud Messaging configuration for the PeerBridge iOS app.
//
// The GoogleService-Info.plist carries API keys and is kept out of the
// public repository. CI renders it from environment variables before the
// Xcode build; a developer checkout that already has the file is left alone.
//
// Usage:
//
//	go run ./cmd/setup-fcm
//	go run ./cmd/setup-fcm --out=peerbridge-ios/GoogleService-Info.plist --env-file=ci/fcm.env
//	go run ./cmd/setup-fcm --secret-source=ssm --region=eu-central-1
//
// Each credential is read from its environment variable (CLIENT_ID, API_KEY,
// ...). When a variable is unset, <NAME>_SSM_PARAM may point at an SSM
// parameter (or, with --secret-source=env, at another environment variable)
// holding the value.
//
// Exit codes: 0 when the file was written or already existed, 1 when a
// variable is missing or the file cannot be written, 2 on usage errors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-playground/validator/v10"

	"fcmsetup/internal/config"
	"fcmsetup/internal/renderer"
	"fcmsetup/internal/types"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const (
	secretSourceSSM = "ssm"
	secretSourceEnv = "env"
)

// options holds the parsed command-line flags.
type options struct {
	OutputPath   string   `validate:"required"`
	EnvFiles     []string `validate:"dive,required"`
	SecretSource string   `validate:"oneof=ssm env"`
	Region       string
	LogLevel     string `validate:"oneof=debug info warn error"`
	ShowVersion  bool
}

// listFlag collects repeated or comma-separated flag values.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run parses args, renders the document and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	if opts.ShowVersion {
		fmt.Fprintf(stdout, "setup-fcm %s\n", config.NewBuildInfo())
		return exitOK
	}

	logger := newLogger(opts.LogLevel, stderr)

	loadOpts := config.LoadOptions{
		EnvFiles: opts.EnvFiles,
		Provider: newSecretProvider(opts),
	}
	load := func(ctx context.Context) (*config.Config, error) {
		return config.Load(ctx, loadOpts)
	}

	r := renderer.New(opts.OutputPath, load, logger)
	outcome, err := r.Render(ctx)
	if err != nil {
		logRenderError(logger, err)
		return exitError
	}

	logger.Debug("setup-fcm finished", "outcome", outcome.String(), "path", r.OutputPath())
	return exitOK
}

// parseFlags parses and validates the command line.
func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("setup-fcm", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	var envFiles listFlag

	defaultRegion := os.Getenv("AWS_REGION")
	if defaultRegion == "" {
		defaultRegion = "us-east-1"
	}

	fs.StringVar(&opts.OutputPath, "out", renderer.DefaultOutputPath, "Path of the rendered GoogleService-Info.plist")
	fs.Var(&envFiles, "env-file", "Dotenv file(s) to load, repeatable or comma separated (default: .env if present)")
	fs.StringVar(&opts.SecretSource, "secret-source", secretSourceSSM, "Where <NAME>_SSM_PARAM pointers resolve: ssm or env")
	fs.StringVar(&opts.Region, "region", defaultRegion, "AWS region for SSM lookups")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug/info/warn/error)")
	fs.BoolVar(&opts.ShowVersion, "version", false, "Print version information and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "setup-fcm\n\n")
		fmt.Fprintf(stderr, "Renders the Firebase Cloud Messaging configuration from environment\n")
		fmt.Fprintf(stderr, "variables unless the file already exists.\n\n")
		fmt.Fprintf(stderr, "Required variables:\n  %s\n\n", strings.Join(config.RequiredKeys, ", "))
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	opts.EnvFiles = envFiles

	if err := validator.New().Struct(opts); err != nil {
		return options{}, fmt.Errorf("invalid flags: %w", err)
	}
	return opts, nil
}

// newSecretProvider returns the provider for K_SSM_PARAM pointers. The SSM
// provider only contacts AWS when a pointer actually has to be followed.
func newSecretProvider(opts options) config.SecretProvider {
	if opts.SecretSource == secretSourceEnv {
		return config.NewEnvVarProvider()
	}
	return config.NewSSMProvider(opts.Region)
}

// newLogger creates a structured slog.Logger writing text to w.
func newLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// logRenderError reports a failed run with enough detail for the build
// operator to act on.
func logRenderError(logger *slog.Logger, err error) {
	var missing *types.MissingConfigurationError
	var writeErr *types.WriteError

	switch {
	case errors.As(err, &missing):
		logger.Error("required FCM configuration is missing",
			"missing", strings.Join(missing.Keys, ","),
			"first_missing", missing.Key(),
		)
	case errors.As(err, &writeErr):
		logger.Error("failed to write FCM configuration file",
			"path", writeErr.Path,
			"error", writeErr.Err,
		)
	default:
		logger.Error("setup-fcm failed", "error", err)
	}
}
