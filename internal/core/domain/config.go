package domain

// AuthConfig is the static authentication settings for one source system.
// Built from pipeline configuration, immutable afterwards.
type AuthConfig struct {
	// Endpoint is the auth endpoint URL. Only the OAuth2 strategy
	// performs network calls, so only it requires one.
	Endpoint string

	// Options holds strategy-specific settings, for example the API-key
	// header name or OAuth2 scopes.
	Options map[string]string
}

// AdapterConfig is the static transport settings for one source system.
// Built from pipeline configuration, immutable afterwards.
type AdapterConfig struct {
	// Endpoint is the metadata API base URL.
	Endpoint string

	// Headers are configuration-derived request headers. Credential
	// headers from the secret store override them on conflict.
	Headers map[string]string

	// Options holds adapter-specific settings, for example the request
	// path template or response root element.
	Options map[string]string
}

// Option returns a named option, falling back to a default when the
// option is absent or blank.
func option(options map[string]string, key, fallback string) string {
	if v, ok := options[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Option returns the named auth option or the fallback.
func (c AuthConfig) Option(key, fallback string) string {
	return option(c.Options, key, fallback)
}

// Option returns the named adapter option or the fallback.
func (c AdapterConfig) Option(key, fallback string) string {
	return option(c.Options, key, fallback)
}
