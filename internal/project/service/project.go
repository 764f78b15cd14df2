package service

import (
	"context"

	"github.com/condovia/condovia-backend/internal/project/domain"
	"github.com/condovia/condovia-backend/internal/project/events"
	"github.com/condovia/condovia-backend/internal/project/repository"
	"github.com/condovia/condovia-backend/pkg/errors"
	"github.com/condovia/condovia-backend/pkg/logger"
)

// ProjectService orchestrates the project/unit aggregate for the HTTP layer.
type ProjectService struct {
	repo      *repository.ProjectRepository
	publisher *events.ProjectEventPublisher
	logger    *logger.Logger
}

// NewProjectService creates a new project service
func NewProjectService(repo *repository.ProjectRepository, publisher *events.ProjectEventPublisher, log *logger.Logger) *ProjectService {
	return &ProjectService{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

// CreateProjectRequest represents a create project request
type CreateProjectRequest struct {
	Name             string  `json:"name" validate:"required"`
	Address          string  `json:"address" validate:"required"`
	BuildingArea     float64 `json:"building_area" validate:"gt=0"`
	LandArea         float64 `json:"land_area" validate:"gte=0"`
	ConstructionYear int     `json:"construction_year"`
	UnitCount        int     `json:"unit_count" validate:"gte=0"`
	Constructor      string  `json:"constructor"`
}

// Stats summarizes a project for dashboards.
type Stats struct {
	TotalUnits       int     `json:"total_units"`
	Available        int     `json:"available"`
	Sold             int     `json:"sold"`
	Reserved         int     `json:"reserved"`
	Maintenance      int     `json:"maintenance"`
	AvgArea          float64 `json:"avg_area"`
	TotalMonthlyFees float64 `json:"total_monthly_fees"`
}

// CreateProject creates a project with its placeholder units.
func (s *ProjectService) CreateProject(ctx context.Context, req *CreateProjectRequest) (*domain.Project, error) {
	project, err := s.repo.CreateProject(ctx, &repository.ProjectDraft{
		Name:             req.Name,
		Address:          req.Address,
		BuildingArea:     req.BuildingArea,
		LandArea:         req.LandArea,
		ConstructionYear: req.ConstructionYear,
		UnitCount:        req.UnitCount,
		Constructor:      req.Constructor,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishProjectCreated(ctx, project)
	return project, nil
}

// ListProjects returns all projects with their units.
func (s *ProjectService) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.repo.List(ctx)
}

// GetProject returns one project with its units.
func (s *ProjectService) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.NotFound("project")
	}
	return project, nil
}

// GetProjectStatistics aggregates unit counts, average area and total
// monthly fees for a project.
func (s *ProjectService) GetProjectStatistics(ctx context.Context, projectID string) (*Stats, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	rates := s.repo.FeeRates(ctx)

	stats := &Stats{TotalUnits: len(project.Units)}
	totalArea := 0.0
	for _, u := range project.Units {
		switch u.Status {
		case domain.UnitAvailable:
			stats.Available++
		case domain.UnitSold:
			stats.Sold++
		case domain.UnitReserved:
			stats.Reserved++
		case domain.UnitMaintenance:
			stats.Maintenance++
		}
		totalArea += u.Area
		stats.TotalMonthlyFees += s.unitFee(u, rates)
	}
	if stats.TotalUnits > 0 {
		stats.AvgArea = totalArea / float64(stats.TotalUnits)
	}

	return stats, nil
}

// unitFee prefers the stored fee text when it parses, otherwise computes
// from the rates. Parse failures are logged at debug: the column is legacy
// free-text.
func (s *ProjectService) unitFee(u *domain.Unit, rates domain.FeeRates) float64 {
	if u.CalculatedMonthlyFees != "" {
		if fee, ok := domain.ParseStoredFee(u.CalculatedMonthlyFees); ok {
			return fee
		}
		s.logger.Debug().Int64("unit_id", u.ID).Str("stored", u.CalculatedMonthlyFees).
			Msg("stored monthly fee does not parse, computing from rates")
	}
	return domain.MonthlyFee(u, rates)
}

// UpdateProjectUnits adjusts the unit count of a project.
func (s *ProjectService) UpdateProjectUnits(ctx context.Context, projectID string, newCount int) error {
	if err := s.repo.AdjustUnitCount(ctx, projectID, newCount); err != nil {
		return err
	}
	s.publisher.PublishUnitsAdjusted(ctx, projectID, newCount)
	return nil
}

// DeleteProjectByID deletes a project and, by cascade, its units.
func (s *ProjectService) DeleteProjectByID(ctx context.Context, projectID string) error {
	deleted, err := s.repo.DeleteByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFound("project")
	}
	s.publisher.PublishProjectDeleted(ctx, projectID)
	return nil
}

// DeleteProject resolves a project name to an id and delegates to id-based
// deletion. Kept for old callers; name resolution is inherently ambiguous,
// so multiple matches fail rather than silently picking the first.
func (s *ProjectService) DeleteProject(ctx context.Context, projectName string) error {
	s.logger.Warn().Str("name", projectName).
		Msg("delete-by-name is deprecated, use delete-by-id")

	matches, err := s.repo.GetByName(ctx, projectName)
	if err != nil {
		return err
	}
	switch len(matches) {
	case 0:
		return errors.NotFound("project")
	case 1:
		return s.DeleteProjectByID(ctx, matches[0].ProjectID)
	default:
		return errors.AmbiguousName("project")
	}
}

// UpdateUnitByID applies a partial update to one unit.
func (s *ProjectService) UpdateUnitByID(ctx context.Context, unitID int64, patch *domain.UnitPatch) (bool, error) {
	updated, err := s.repo.UpdateUnit(ctx, unitID, patch)
	if err != nil {
		return false, err
	}
	if updated && !patch.IsEmpty() {
		s.publisher.PublishUnitUpdated(ctx, unitID)
	}
	return updated, nil
}

// GetUnitByID returns one unit.
func (s *ProjectService) GetUnitByID(ctx context.Context, unitID int64) (*domain.Unit, error) {
	unit, err := s.repo.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, errors.NotFound("unit")
	}
	return unit, nil
}

// FeeLine is one row of a project finance report.
type FeeLine struct {
	UnitID     int64   `json:"unit_id"`
	UnitNumber string  `json:"unit_number"`
	CondoType  string  `json:"condo_type"`
	Area       float64 `json:"area"`
	MonthlyFee float64 `json:"monthly_fee"`
}

// FinanceReport is the per-unit fee breakdown for the finance module.
type FinanceReport struct {
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Lines     []FeeLine `json:"lines"`
	Total     float64   `json:"total"`
}

// GetFinanceReport builds the per-unit fee breakdown for a project.
func (s *ProjectService) GetFinanceReport(ctx context.Context, projectID string) (*FinanceReport, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	rates := s.repo.FeeRates(ctx)

	report := &FinanceReport{
		ProjectID: project.ProjectID,
		Name:      project.Name,
		Lines:     make([]FeeLine, 0, len(project.Units)),
	}
	for _, u := range project.Units {
		fee := s.unitFee(u, rates)
		report.Lines = append(report.Lines, FeeLine{
			UnitID:     u.ID,
			UnitNumber: u.UnitNumber,
			CondoType:  string(u.CondoType),
			Area:       u.Area,
			MonthlyFee: fee,
		})
		report.Total += fee
	}
	return report, nil
}
