package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/condovia/condovia-backend/internal/project/domain"
	"github.com/condovia/condovia-backend/pkg/database"
	"github.com/condovia/condovia-backend/pkg/errors"
	"github.com/condovia/condovia-backend/pkg/logger"
)

// ProjectRepository persists the project/unit aggregate. Every write that
// touches both a project and its units runs in one transaction so that
// unit_count always equals the unit cardinality at commit boundaries.
type ProjectRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *database.DB, log *logger.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: log}
}

// ProjectDraft is the input for creating a project.
type ProjectDraft struct {
	Name             string
	Address          string
	BuildingArea     float64
	LandArea         float64
	ConstructionYear int
	UnitCount        int
	Constructor      string
}

const projectColumns = `id, project_id, name, address, building_area, land_area,
	construction_year, unit_count, constructor, creation_date, status,
	created_at, updated_at`

const unitColumns = `id, unit_number, project_id, area, condo_type, status,
	estimated_price, owner_name, calculated_monthly_fees`

// placeholderNumber matches auto-provisioned unit numbers ("UNIT-7").
var placeholderNumber = regexp.MustCompile(`^UNIT-(\d+)$`)

// CreateProject assigns a fresh project_id, inserts the project row and N
// placeholder units in a single transaction. The postcondition is that the
// unit row count equals the declared unit_count.
func (r *ProjectRepository) CreateProject(ctx context.Context, draft *ProjectDraft) (*domain.Project, error) {
	if err := r.validateDraft(draft); err != nil {
		return nil, err
	}

	projectID := uuid.New().String()
	now := time.Now().UTC()

	err := r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO projects (project_id, name, address, building_area, land_area,
				construction_year, unit_count, constructor, creation_date, status,
				created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			projectID, draft.Name, draft.Address, draft.BuildingArea, draft.LandArea,
			draft.ConstructionYear, draft.UnitCount, draft.Constructor,
			now.Format(time.RFC3339), string(domain.ProjectActive), now, now,
		)
		if err != nil {
			return err
		}

		for i := 1; i <= draft.UnitCount; i++ {
			if err := insertPlaceholderUnit(ctx, tx, projectID, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if appErr := database.MapSQLiteError(err); appErr != nil {
			return nil, appErr
		}
		return nil, errors.Internal("failed to create project")
	}

	return r.GetByID(ctx, projectID)
}

// GetByID returns a project with its units eagerly loaded; nil when absent.
func (r *ProjectRepository) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	var project domain.Project
	err := r.db.GetContext(ctx, &project,
		`SELECT `+projectColumns+` FROM projects WHERE project_id = ?`, projectID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadUnits(ctx, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetByName returns all projects sharing a name, units eagerly loaded.
// Several projects may share a name; resolving one of them is the caller's
// problem.
func (r *ProjectRepository) GetByName(ctx context.Context, name string) ([]*domain.Project, error) {
	var projects []*domain.Project
	err := r.db.SelectContext(ctx, &projects,
		`SELECT `+projectColumns+` FROM projects WHERE name = ? ORDER BY id`, name)
	if err != nil {
		return nil, err
	}

	for _, p := range projects {
		if err := r.loadUnits(ctx, p); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

// List returns all projects with units eagerly loaded.
func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	var projects []*domain.Project
	err := r.db.SelectContext(ctx, &projects,
		`SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}

	for _, p := range projects {
		if err := r.loadUnits(ctx, p); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

// DeleteByID removes a project; ON DELETE CASCADE removes its units.
// Returns true iff the project row existed.
func (r *ProjectRepository) DeleteByID(ctx context.Context, projectID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE project_id = ?`, projectID)
	if err != nil {
		if appErr := database.MapSQLiteError(err); appErr != nil {
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

// AdjustUnitCount grows or shrinks a project to newCount units in one
// transaction. Growth appends placeholder units continuing the numbering.
// Shrinking removes the highest-numbered units that are still removable
// placeholders; if too few such units exist the whole adjustment fails and
// no row changes.
func (r *ProjectRepository) AdjustUnitCount(ctx context.Context, projectID string, newCount int) error {
	if newCount < 0 {
		return errors.Validation(map[string]string{"unit_count": "must not be negative"})
	}

	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists,
			`SELECT COUNT(*) FROM projects WHERE project_id = ?`, projectID)
		if err != nil {
			return err
		}
		if exists == 0 {
			return errors.NotFound("project")
		}

		var units []*domain.Unit
		err = tx.SelectContext(ctx, &units,
			`SELECT `+unitColumns+` FROM units WHERE project_id = ?`, projectID)
		if err != nil {
			return err
		}

		current := len(units)
		switch {
		case newCount > current:
			next := nextPlaceholderIndex(units)
			for i := 0; i < newCount-current; i++ {
				if err := insertPlaceholderUnit(ctx, tx, projectID, next+i); err != nil {
					return err
				}
			}

		case newCount < current:
			victims, removable := removableUnits(units, current-newCount)
			if len(victims) < current-newCount {
				return errors.CannotShrink(fmt.Sprintf(
					"cannot reduce to %d units: only %d removable placeholder units exist",
					newCount, removable))
			}
			for _, id := range victims {
				if _, err := tx.ExecContext(ctx, `DELETE FROM units WHERE id = ?`, id); err != nil {
					return err
				}
			}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE projects SET unit_count = ?, updated_at = ? WHERE project_id = ?`,
			newCount, time.Now().UTC(), projectID)
		return err
	})
}

func (r *ProjectRepository) loadUnits(ctx context.Context, project *domain.Project) error {
	var units []*domain.Unit
	err := r.db.SelectContext(ctx, &units,
		`SELECT `+unitColumns+` FROM units WHERE project_id = ? ORDER BY id`,
		project.ProjectID)
	if err != nil {
		return err
	}
	if units == nil {
		units = []*domain.Unit{}
	}
	project.Units = units
	return nil
}

func (r *ProjectRepository) validateDraft(draft *ProjectDraft) error {
	details := make(map[string]string)

	if draft.Name == "" {
		details["name"] = "must not be empty"
	}
	if draft.Address == "" {
		details["address"] = "must not be empty"
	}
	if draft.BuildingArea <= 0 {
		details["building_area"] = "must be positive"
	}
	if draft.LandArea < 0 {
		details["land_area"] = "must not be negative"
	}
	if draft.UnitCount < 0 {
		details["unit_count"] = "must not be negative"
	}

	if len(details) > 0 {
		return errors.Validation(details)
	}
	return nil
}

func insertPlaceholderUnit(ctx context.Context, tx *sqlx.Tx, projectID string, index int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO units (unit_number, project_id, area, condo_type, status,
			owner_name, calculated_monthly_fees)
		VALUES (?, ?, 0, ?, ?, ?, '')`,
		fmt.Sprintf("UNIT-%d", index), projectID,
		string(domain.TypeResidential), string(domain.UnitAvailable),
		domain.PlaceholderOwner,
	)
	return err
}

// nextPlaceholderIndex returns one past the highest placeholder number in
// use, so growth never collides with renamed or existing units.
func nextPlaceholderIndex(units []*domain.Unit) int {
	max := 0
	for _, u := range units {
		if m := placeholderNumber.FindStringSubmatch(u.UnitNumber); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > max {
				max = n
			}
		}
	}
	return max + 1
}

// removableUnits picks the ids of the `needed` highest-numbered units that
// are still removable placeholders, and reports how many qualified in total.
func removableUnits(units []*domain.Unit, needed int) ([]int64, int) {
	type candidate struct {
		id    int64
		index int
	}
	var candidates []candidate

	for _, u := range units {
		if !u.IsRemovablePlaceholder() {
			continue
		}
		index := -1
		if m := placeholderNumber.FindStringSubmatch(u.UnitNumber); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				index = n
			}
		}
		candidates = append(candidates, candidate{id: u.ID, index: index})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].index != candidates[j].index {
			return candidates[i].index > candidates[j].index
		}
		return candidates[i].id > candidates[j].id
	})

	ids := make([]int64, 0, needed)
	for _, c := range candidates {
		if len(ids) == needed {
			break
		}
		ids = append(ids, c.id)
	}
	return ids, len(candidates)
}
