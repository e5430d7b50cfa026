package config

import "context"

// SecretProvider resolves the targets of K_SSM_PARAM pointers so CI systems
// can keep Firebase credentials in a secret store instead of plain
// environment variables.
type SecretProvider interface {
	// GetParametersBatch resolves every key it can and returns key -> value.
	// Keys that do not resolve are either omitted or reported as an error,
	// depending on the implementation; the loader treats omissions as
	// unresolved pointers.
	GetParametersBatch(ctx context.Context, keys []string) (map[string]string, error)
}
