package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ridexchange/dealer-api/internal/model"
	"github.com/ridexchange/dealer-api/internal/repository"
)

// Service appends entries to the audit trail. Audit failures are logged
// and swallowed; they must never fail the operation being audited.
type Service struct {
	repo repository.AuditRepository
}

func NewService(repo repository.AuditRepository) *Service {
	return &Service{repo: repo}
}

// Log creates an audit log entry
func (s *Service) Log(ctx context.Context, action, entityType string, entityID uuid.UUID, actorID *uuid.UUID, changes model.JSONMap) {
	entry := &model.AuditLog{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actorID,
		Changes:    changes,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		log.Error().
			Err(err).
			Str("action", action).
			Str("entity_type", entityType).
			Str("entity_id", entityID.String()).
			Msg("failed to write audit log")
	}
}
