package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/condovia/condovia-backend/internal/project/domain"
	"github.com/condovia/condovia-backend/pkg/database"
	"github.com/condovia/condovia-backend/pkg/errors"
)

// UpdateUnit applies a partial update to exactly one unit row, scoped to
// WHERE id = ?. No other unit row is touched; surrogate ids never change.
// Returns true iff exactly one row was affected, false when the id does not
// exist (not an error). An empty patch is a no-op that only checks
// existence.
func (r *ProjectRepository) UpdateUnit(ctx context.Context, unitID int64, patch *domain.UnitPatch) (bool, error) {
	if patch.IsEmpty() {
		var exists int
		err := r.db.GetContext(ctx, &exists,
			`SELECT COUNT(*) FROM units WHERE id = ?`, unitID)
		if err != nil {
			return false, err
		}
		return exists == 1, nil
	}

	var sets []string
	var args []interface{}

	if patch.UnitNumber != nil {
		if *patch.UnitNumber == "" {
			return false, errors.Validation(map[string]string{"unit_number": "must not be empty"})
		}
		sets = append(sets, "unit_number = ?")
		args = append(args, *patch.UnitNumber)
	}
	if patch.Area != nil {
		if *patch.Area < 0 {
			return false, errors.Validation(map[string]string{"area": "must not be negative"})
		}
		sets = append(sets, "area = ?")
		args = append(args, *patch.Area)
	}
	if patch.CondoType != nil {
		condoType, err := domain.ParseCondoType(*patch.CondoType)
		if err != nil {
			return false, errors.Validation(map[string]string{
				"condo_type": "must be one of: residential, commercial, parking, storage"})
		}
		sets = append(sets, "condo_type = ?")
		args = append(args, string(condoType))
	}
	if patch.Status != nil {
		status, err := domain.ParseUnitStatus(*patch.Status)
		if err != nil {
			return false, errors.Validation(map[string]string{
				"status": "must be one of: available, reserved, sold, maintenance"})
		}
		sets = append(sets, "status = ?")
		args = append(args, string(status))
	}
	if patch.EstimatedPrice != nil {
		sets = append(sets, "estimated_price = ?")
		args = append(args, *patch.EstimatedPrice)
	}
	if patch.OwnerName != nil {
		sets = append(sets, "owner_name = ?")
		args = append(args, *patch.OwnerName)
	}
	if patch.CalculatedMonthlyFees != nil {
		// Stored verbatim; numeric interpretation happens at read time.
		sets = append(sets, "calculated_monthly_fees = ?")
		args = append(args, *patch.CalculatedMonthlyFees)
	}

	args = append(args, unitID)
	res, err := r.db.ExecContext(ctx,
		`UPDATE units SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if appErr := database.MapSQLiteError(err); appErr != nil {
			if errors.Is(appErr.Err, errors.ErrConflict) {
				return false, errors.Constraint(appErr.Message)
			}
			return false, appErr
		}
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// GetUnitByID returns a unit by surrogate id; nil when absent.
func (r *ProjectRepository) GetUnitByID(ctx context.Context, unitID int64) (*domain.Unit, error) {
	var unit domain.Unit
	err := r.db.GetContext(ctx, &unit,
		`SELECT `+unitColumns+` FROM units WHERE id = ?`, unitID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}
