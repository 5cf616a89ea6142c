package scale

// WithLogger sets a custom logger for the scale
func WithLogger(logger Logger) func(*Scale) {
	return func(s *Scale) {
		s.logger = logger
	}
}
