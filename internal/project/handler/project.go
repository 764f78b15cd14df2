package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/condovia/condovia-backend/internal/project/domain"
	"github.com/condovia/condovia-backend/internal/project/service"
	"github.com/condovia/condovia-backend/pkg/errors"
	"github.com/condovia/condovia-backend/pkg/httputil"
	"github.com/condovia/condovia-backend/pkg/logger"
)

// ProjectHandler handles project and unit endpoints
type ProjectHandler struct {
	service *service.ProjectService
	logger  *logger.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(svc *service.ProjectService, log *logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: svc,
		logger:  log,
	}
}

// List lists all projects with their units
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListProjects(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, projects)
}

// Get returns one project with its units
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	project, err := h.service.GetProject(r.Context(), projectID)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, project)
}

// Create creates a new project with placeholder units
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProjectRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	project, err := h.service.CreateProject(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, project)
}

// Statistics returns the aggregate statistics for a project
func (h *ProjectHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	stats, err := h.service.GetProjectStatistics(r.Context(), projectID)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, stats)
}

// AdjustUnitsRequest is the JSON body for a unit-count adjustment
type AdjustUnitsRequest struct {
	UnitCount int `json:"unit_count" validate:"gte=0"`
}

// AdjustUnits grows or shrinks a project's unit count
func (h *ProjectHandler) AdjustUnits(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	var req AdjustUnitsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.UpdateProjectUnits(r.Context(), projectID, req.UnitCount); err != nil {
		httputil.Error(w, err)
		return
	}

	project, err := h.service.GetProject(r.Context(), projectID)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, project)
}

// Delete removes a project by id; units cascade
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	if err := h.service.DeleteProjectByID(r.Context(), projectID); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}

// DeleteByName removes a project by name. Deprecated path for old callers.
func (h *ProjectHandler) DeleteByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.service.DeleteProject(r.Context(), name); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}

// GetUnit returns one unit by surrogate id
func (h *ProjectHandler) GetUnit(w http.ResponseWriter, r *http.Request) {
	unitID, err := strconv.ParseInt(chi.URLParam(r, "unitID"), 10, 64)
	if err != nil {
		httputil.Error(w, errors.BadRequest("invalid unit id"))
		return
	}

	unit, err := h.service.GetUnitByID(r.Context(), unitID)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, unit)
}

// UpdateUnit applies a partial update to one unit
func (h *ProjectHandler) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	unitID, err := strconv.ParseInt(chi.URLParam(r, "unitID"), 10, 64)
	if err != nil {
		httputil.Error(w, errors.BadRequest("invalid unit id"))
		return
	}

	var patch domain.UnitPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		httputil.Error(w, err)
		return
	}

	updated, err := h.service.UpdateUnitByID(r.Context(), unitID, &patch)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	if !updated {
		httputil.Error(w, errors.NotFound("unit"))
		return
	}

	unit, err := h.service.GetUnitByID(r.Context(), unitID)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, unit)
}

// FinanceReport returns the per-unit fee breakdown for a project
func (h *ProjectHandler) FinanceReport(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	report, err := h.service.GetFinanceReport(r.Context(), projectID)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, report)
}
