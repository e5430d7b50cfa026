// Package renderer writes the Firebase configuration document for the iOS
// build exactly once per workspace.
//
// Render runs a single linear sequence: if a regular file already exists at
// the output path nothing happens; otherwise the credentials are loaded, the
// document is rendered and the file is created. The existence check is not
// atomic with the write; the file is opened with O_EXCL so a concurrent
// writer that slipped in between fails instead of being overwritten. The
// same flag makes a dangling symlink at the output path fail rather than
// create its target.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"fcmsetup/internal/config"
	"fcmsetup/internal/plist"
	"fcmsetup/internal/types"
)

// DefaultOutputPath is where the iOS project expects the document.
const DefaultOutputPath = "peerbridge-ios/" + plist.DefaultFileName

// fileMode is the permission of the created document.
const fileMode fs.FileMode = 0o644

// Outcome describes what Render did.
type Outcome int

const (
	// OutcomeFailed accompanies a non-nil error.
	OutcomeFailed Outcome = iota
	// OutcomeCreated means the document was rendered and written.
	OutcomeCreated
	// OutcomeSkipped means a file already existed and was left untouched.
	OutcomeSkipped
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomeCreated:
		return "created"
	case OutcomeSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// LoadFunc supplies the credentials. It is only called when the output file
// does not exist yet.
type LoadFunc func(ctx context.Context) (*config.Config, error)

// rendererDeps holds the filesystem hooks, injectable for tests.
type rendererDeps struct {
	stat   func(name string) (fs.FileInfo, error)
	create func(name string) (io.WriteCloser, error)
}

func defaultDeps() rendererDeps {
	return rendererDeps{
		stat: os.Stat,
		create: func(name string) (io.WriteCloser, error) {
			return os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode)
		},
	}
}

// ConfigRenderer renders the document to OutputPath.
type ConfigRenderer struct {
	outputPath string
	load       LoadFunc
	logger     *slog.Logger
	deps       rendererDeps
}

// New creates a ConfigRenderer. A nil logger discards log output.
func New(outputPath string, load LoadFunc, logger *slog.Logger) *ConfigRenderer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ConfigRenderer{
		outputPath: outputPath,
		load:       load,
		logger:     logger,
		deps:       defaultDeps(),
	}
}

// OutputPath returns the path the renderer writes to.
func (r *ConfigRenderer) OutputPath() string {
	return r.outputPath
}

// Render performs the existence check, load, render and write.
//
// Errors are a *config.ConfigError wrapping *types.MissingConfigurationError
// when a variable is absent, or a *types.WriteError when the file cannot be
// created. In both cases the caller should treat the build as failed.
func (r *ConfigRenderer) Render(ctx context.Context) (Outcome, error) {
	exists, err := r.exists()
	if err != nil {
		// Stat failures other than "not exist" (e.g. EACCES on the parent)
		// surface through the create call below.
		r.logger.Debug("output path could not be inspected", "path", r.outputPath, "error", err)
	}
	if exists {
		r.logger.Info("FCM configuration file already exists, nothing to do", "path", r.outputPath)
		return OutcomeSkipped, nil
	}

	cfg, err := r.load(ctx)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("loading FCM configuration: %w", err)
	}
	r.logger.Debug("FCM configuration loaded",
		"project_id", cfg.ProjectID,
		"gcm_sender_id", cfg.GCMSenderID,
		"api_key_set", cfg.APIKey.IsSet(),
		"server_key_set", cfg.ServerKey.IsSet(),
	)

	doc, err := plist.Render(cfg)
	if err != nil {
		return OutcomeFailed, err
	}

	n, err := r.write(doc)
	if err != nil {
		return OutcomeFailed, err
	}

	r.logger.Info("FCM configuration file written", "path", r.outputPath, "bytes", n)
	return OutcomeCreated, nil
}

// exists reports whether a regular file is present at the output path.
// Directories and other non-regular entries do not count.
func (r *ConfigRenderer) exists() (bool, error) {
	info, err := r.deps.stat(r.outputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (r *ConfigRenderer) write(doc string) (int, error) {
	f, err := r.deps.create(r.outputPath)
	if err != nil {
		return 0, &types.WriteError{Path: r.outputPath, Err: err}
	}

	n, err := io.WriteString(f, doc)
	if err != nil {
		_ = f.Close()
		return n, &types.WriteError{Path: r.outputPath, Err: err}
	}
	if err := f.Close(); err != nil {
		return n, &types.WriteError{Path: r.outputPath, Err: err}
	}
	return n, nil
}
