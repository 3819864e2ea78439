package configs

// HTTP defines configuration for the HTTP server. Port is the TCP port
// the server binds to. RatePerSecond and RateBurst bound how many
// requests a single client may issue; auto-saving wizards are chatty, so
// the defaults are generous.
type HTTP struct {
	// Port is the TCP port the HTTP server will listen on. Defaults to 8080.
	Port uint16 `env:"PORT" envDefault:"8080"`
	// RatePerSecond is the sustained per-client request rate.
	RatePerSecond float64 `env:"RATE_PER_SECOND" envDefault:"20"`
	// RateBurst is the short-term per-client burst allowance.
	RateBurst int `env:"RATE_BURST" envDefault:"40"`
}
