package ui

// Config contains TUI-specific configuration.
type Config struct {
	HomeDir string `env:"HOME"`

	// Directory holding the CSV stores and the audio cache.
	DataDir string

	// Speech service settings.
	ServerURL string
	Voice     string
	LangCode  string

	// Synthesis speed for the normal-speed audio files. Zero keeps the
	// service default.
	Speed float64

	// Open directly on the add-words screen.
	StartAdding bool

	// For debugging the UI
	Debug bool

	EnableAudio bool `env:"LAOSHI_ENABLE_AUDIO" envDefault:"true"`
}
