// Package plist renders the GoogleService-Info.plist consumed by the Firebase
// iOS SDK. The document text is a constant embedded template; rendering is a
// pure function of the loaded credentials.
package plist

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"fcmsetup/internal/config"
)

// DefaultFileName is the name the Firebase SDK looks for in the app bundle.
const DefaultFileName = "GoogleService-Info.plist"

//go:embed templates/GoogleService-Info.plist.tmpl
var documentTemplate string

// The template only dereferences fields of document; no functions are
// registered, so credential values cannot be evaluated as template code.
var tmpl = template.Must(template.New(DefaultFileName).Option("missingkey=error").Parse(documentTemplate))

// document is the template's view of config.Config with secrets unmasked.
type document struct {
	ClientID         string
	ReversedClientID string
	APIKey           string
	GCMSenderID      string
	ProjectID        string
	StorageBucket    string
	GoogleAppID      string
	DatabaseURL      string
	ServerKey        string
}

// Render returns the complete property list for cfg. Values are inserted
// verbatim, without XML escaping, exactly as the Firebase console issues them.
func Render(cfg *config.Config) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("rendering %s: nil config", DefaultFileName)
	}

	doc := document{
		ClientID:         cfg.ClientID,
		ReversedClientID: cfg.ReversedClientID,
		APIKey:           cfg.APIKey.Unmask(),
		GCMSenderID:      cfg.GCMSenderID,
		ProjectID:        cfg.ProjectID,
		StorageBucket:    cfg.StorageBucket,
		GoogleAppID:      cfg.GoogleAppID,
		DatabaseURL:      cfg.DatabaseURL,
		ServerKey:        cfg.ServerKey.Unmask(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("rendering %s: %w", DefaultFileName, err)
	}
	return buf.String(), nil
}

// Keys returns the document's keys in order.
func Keys() []string {
	return []string{
		"CLIENT_ID",
		"REVERSED_CLIENT_ID",
		"API_KEY",
		"GCM_SENDER_ID",
		"PLIST_VERSION",
		"BUNDLE_ID",
		"PROJECT_ID",
		"STORAGE_BUCKET",
		"IS_ADS_ENABLED",
		"IS_ANALYTICS_ENABLED",
		"IS_APPINVITE_ENABLED",
		"IS_GCM_ENABLED",
		"IS_SIGNIN_ENABLED",
		"GOOGLE_APP_ID",
		"DATABASE_URL",
		"SERVER_KEY",
	}
}
