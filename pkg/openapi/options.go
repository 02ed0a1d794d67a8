package openapi

// Options controls how a document is read.
type Options struct {
	// Validate runs the kin-openapi document validator before mapping.
	Validate bool
	// MediaTypes lists the request body content types tried in order.
	MediaTypes []string
}

// Option mutates Options.
type Option func(*Options)

// WithValidation toggles document validation.
func WithValidation(enabled bool) Option {
	return func(opts *Options) {
		opts.Validate = enabled
	}
}

// WithMediaTypes replaces the preferred request body content types.
func WithMediaTypes(types ...string) Option {
	return func(opts *Options) {
		if len(types) > 0 {
			opts.MediaTypes = append([]string(nil), types...)
		}
	}
}

func newOptions(options []Option) Options {
	cfg := Options{
		MediaTypes: []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"},
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
