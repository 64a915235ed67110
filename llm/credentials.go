package llm

import "os"

// CredentialLookup resolves a named secret or setting. It reports false when
// the name is unset or empty.
type CredentialLookup func(name string) (string, bool)

// EnvLookup reads from the process environment.
func EnvLookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	return v, ok && v != ""
}

// MapLookup serves values from a fixed map, e.g. one read from a .env file.
func MapLookup(values map[string]string) CredentialLookup {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok && v != ""
	}
}

// ChainLookup tries each lookup in order and returns the first hit.
func ChainLookup(lookups ...CredentialLookup) CredentialLookup {
	return func(name string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l(name); ok {
				return v, true
			}
		}
		return "", false
	}
}
