package api

// Config holds server configuration.
type Config struct {
	Port              int
	CatalogPath       string     // SQLite catalog database path
	WatchPath         string     // score file or directory to watch for reloads
	RateLimitRequests int        // requests per minute (0 = disabled)
	RateLimitBurst    int        // burst size
	Auth              AuthConfig // authentication configuration
	TLS               TLSConfig  // TLS configuration
	AllowedOrigins    []string   // CORS allowed origins (empty = allow all)
}

// TLSConfig holds TLS/HTTPS configuration.
type TLSConfig struct {
	Enabled  bool   // enable HTTPS
	CertFile string // path to TLS certificate file
	KeyFile  string // path to TLS private key file
}
