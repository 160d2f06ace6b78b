package api

import "github.com/okian/playersim/pkg/logger"

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS origins. Empty keeps "*".
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
