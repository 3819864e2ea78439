package configs

// Cleanup configures the scheduled sweep of expired campaign drafts.
type Cleanup struct {
	// Enabled turns the scheduled sweep on or off.
	Enabled bool `env:"ENABLED" envDefault:"true"`
	// Schedule is a cron expression; the default runs hourly.
	Schedule string `env:"SCHEDULE" envDefault:"@hourly"`
}
