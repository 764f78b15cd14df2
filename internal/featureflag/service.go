// Package featureflag gates optional modules on boolean flags stored in the
// feature_flags table. Flags are administered by direct SQL access; this
// package only reads.
package featureflag

import (
	"context"
	"database/sql"

	"github.com/condovia/condovia-backend/pkg/database"
	"github.com/condovia/condovia-backend/pkg/logger"
)

// Service reads feature flags. Every call hits the database; there is no
// cache, so flag flips take effect on the next request.
type Service struct {
	db     *database.DB
	logger *logger.Logger
}

// NewService creates a new feature flag service
func NewService(db *database.DB, log *logger.Logger) *Service {
	return &Service{db: db, logger: log}
}

// IsEnabled reports whether a flag is on. Missing rows and read errors both
// yield true: modules fail open and activate by default.
func (s *Service) IsEnabled(ctx context.Context, flagName string) bool {
	var enabled bool
	err := s.db.GetContext(ctx, &enabled,
		`SELECT is_enabled FROM feature_flags WHERE flag_name = ?`, flagName)
	if err == sql.ErrNoRows {
		return true
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("flag", flagName).
			Msg("feature flag read failed, failing open")
		return true
	}
	return enabled
}
