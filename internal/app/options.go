package service

import (
	"github.com/okian/playersim/internal/config"
	"github.com/okian/playersim/internal/domain/engine"
	"github.com/okian/playersim/pkg/logger"
)

// Option configures a Service.
type Option func(*Service)

// WithConfig replaces the default configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithEngine uses e instead of an engine built from the configuration.
func WithEngine(e *engine.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithResultCache stores ranked responses in c.
func WithResultCache(c ResultCache) Option {
	return func(s *Service) {
		s.results = c
	}
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
