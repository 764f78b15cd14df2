package events

import (
	"context"

	"github.com/condovia/condovia-backend/internal/project/domain"
	"github.com/condovia/condovia-backend/pkg/logger"
	"github.com/condovia/condovia-backend/pkg/messaging"
)

// ProjectEventPublisher publishes project and unit events. When no broker
// is configured the inner publisher is nil and every publish is a no-op.
type ProjectEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewProjectEventPublisher creates a publisher bound to the project exchange
func NewProjectEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*ProjectEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeProjectEvents, "condovia", log)
	if err != nil {
		return nil, err
	}

	return &ProjectEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// NewNoopPublisher creates a publisher that drops all events
func NewNoopPublisher(log *logger.Logger) *ProjectEventPublisher {
	return &ProjectEventPublisher{logger: log}
}

// PublishProjectCreated publishes a project created event
func (p *ProjectEventPublisher) PublishProjectCreated(ctx context.Context, project *domain.Project) {
	data := map[string]interface{}{
		"project_id": project.ProjectID,
		"name":       project.Name,
		"unit_count": project.UnitCount,
	}
	if err := p.publisher.Publish(ctx, messaging.EventProjectCreated, data); err != nil {
		p.logger.Warn().Err(err).Str("project_id", project.ProjectID).
			Msg("failed to publish project created event")
	}
}

// PublishProjectDeleted publishes a project deleted event
func (p *ProjectEventPublisher) PublishProjectDeleted(ctx context.Context, projectID string) {
	data := map[string]interface{}{"project_id": projectID}
	if err := p.publisher.Publish(ctx, messaging.EventProjectDeleted, data); err != nil {
		p.logger.Warn().Err(err).Str("project_id", projectID).
			Msg("failed to publish project deleted event")
	}
}

// PublishUnitsAdjusted publishes a unit-count adjustment event
func (p *ProjectEventPublisher) PublishUnitsAdjusted(ctx context.Context, projectID string, newCount int) {
	data := map[string]interface{}{
		"project_id": projectID,
		"unit_count": newCount,
	}
	if err := p.publisher.Publish(ctx, messaging.EventProjectUnitsAdjusted, data); err != nil {
		p.logger.Warn().Err(err).Str("project_id", projectID).
			Msg("failed to publish units adjusted event")
	}
}

// PublishUnitUpdated publishes a unit updated event
func (p *ProjectEventPublisher) PublishUnitUpdated(ctx context.Context, unitID int64) {
	data := map[string]interface{}{"unit_id": unitID}
	if err := p.publisher.Publish(ctx, messaging.EventUnitUpdated, data); err != nil {
		p.logger.Warn().Err(err).Int64("unit_id", unitID).
			Msg("failed to publish unit updated event")
	}
}
