package backend

import (
	"time"

	"github.com/okian/eventfacets/internal/domain/season"
	"github.com/okian/eventfacets/pkg/logger"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithCalendar replaces the league calendar.
func WithCalendar(c season.Calendar) Option {
	return func(s *Server) {
		if len(c) > 0 {
			s.calendar = c
		}
	}
}

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
