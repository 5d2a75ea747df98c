package repository

import "github.com/okian/eventfacets/pkg/logger"

// Option applies a configuration option to the SQLiteStore.
type Option func(*SQLiteStore)

// WithMaxOpenConns caps the connection pool. In-memory databases always use
// a single connection because each connection would see its own database.
func WithMaxOpenConns(n int) Option {
	return func(s *SQLiteStore) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *SQLiteStore) {
		if l != nil {
			s.logger = l
		}
	}
}
