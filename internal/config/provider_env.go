package config

import (
	"context"
	"os"
)

// EnvVarProvider implements SecretProvider by treating each pointer as the
// name of another environment variable. It lets a CI job expose a secret
// under its own name, e.g. API_KEY_SSM_PARAM=FIREBASE_IOS_API_KEY, without
// reaching AWS.
type EnvVarProvider struct {
	lookupEnv envLookup
}

// NewEnvVarProvider creates a new EnvVarProvider backed by os.LookupEnv.
func NewEnvVarProvider() *EnvVarProvider {
	return &EnvVarProvider{lookupEnv: os.LookupEnv}
}

// GetParametersBatch looks up each key as an environment variable. Missing
// keys are omitted from the result.
func (p *EnvVarProvider) GetParametersBatch(_ context.Context, keys []string) (map[string]string, error) {
	lookup := p.lookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	result := make(map[string]string, len(keys))
	for _, key := range keys {
		if val, ok := lookup(key); ok {
			result[key] = val
		}
	}
	return result, nil
}
