package tui

// OutputFormat controls how a finished snapshot is serialized by Encode.
type OutputFormat string

const (
	// OutputFormatJSON emits indented JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML emits a YAML document.
	OutputFormatYAML OutputFormat = "yaml"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// DefaultMaxAttempts bounds how many times Fill submits before giving up.
const DefaultMaxAttempts = 3

// Theme holds the plain-text decorations used for labels and echoed lines.
type Theme struct {
	RequiredSuffix string
	InfoPrefix     string
	ErrorPrefix    string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the serialization format used by Encode.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithMaxAttempts bounds the submit and re-prompt cycles of Fill.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
