package repository

import (
	"context"
	"strconv"

	"github.com/condovia/condovia-backend/internal/project/domain"
)

// system_config keys for fee rates.
const (
	keyRateResidential = "fee_rate_residential"
	keyRateCommercial  = "fee_rate_commercial"
	keyRateParking     = "fee_rate_parking"
	keyRateStorage     = "fee_rate_storage"
)

// FeeRates reads the fee rates from system_config, falling back to the
// documented defaults for any missing or unparseable key. The table is read
// on every call; rate changes take effect immediately.
func (r *ProjectRepository) FeeRates(ctx context.Context) domain.FeeRates {
	rates := domain.DefaultFeeRates()

	type row struct {
		Key   string `db:"config_key"`
		Value string `db:"config_value"`
	}
	var rows []row
	err := r.db.SelectContext(ctx, &rows,
		`SELECT config_key, config_value FROM system_config WHERE config_key IN (?, ?, ?, ?)`,
		keyRateResidential, keyRateCommercial, keyRateParking, keyRateStorage)
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to read fee rates from system_config, using defaults")
		return rates
	}

	for _, cfg := range rows {
		value, err := strconv.ParseFloat(cfg.Value, 64)
		if err != nil || value < 0 {
			r.logger.Warn().Str("key", cfg.Key).Str("value", cfg.Value).
				Msg("unparseable fee rate in system_config, keeping default")
			continue
		}
		switch cfg.Key {
		case keyRateResidential:
			rates.Residential = value
		case keyRateCommercial:
			rates.Commercial = value
		case keyRateParking:
			rates.Parking = value
		case keyRateStorage:
			rates.Storage = value
		}
	}
	return rates
}
