package service

import (
	"encoding/json"

	"github.com/go-propel/propel/internal/engine/model"
	"github.com/go-propel/propel/internal/engine/repo"
	"github.com/go-propel/propel/pkg/log"
	"github.com/go-propel/propel/pkg/safe"
)

// AuditService persists audit events off the request path. Failures
// are logged and never surfaced to the triggering operation.
type AuditService struct {
	auditRepo repo.IAuditRepository
}

func NewAuditService(auditRepo repo.IAuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// Record writes an audit entry on a panic-safe goroutine.
func (s *AuditService) Record(actorId, workspaceId, action, entityType, entityId string, metadata map[string]any) {
	var payload []byte
	if metadata != nil {
		var err error
		payload, err = json.Marshal(metadata)
		if err != nil {
			log.Warnw("drop unencodable audit metadata", "action", action, "error", err)
			payload = nil
		}
	}

	entry := &model.AuditLog{
		WorkspaceId: workspaceId,
		ActorId:     actorId,
		Action:      action,
		EntityType:  entityType,
		EntityId:    entityId,
		Metadata:    payload,
	}
	safe.Go(func() {
		if err := s.auditRepo.Create(entry); err != nil {
			log.Errorw("write audit entry failed", "action", action, "workspaceId", workspaceId, "error", err)
		}
	})
}

// ListByWorkspace returns the newest audit entries of a workspace.
func (s *AuditService) ListByWorkspace(workspaceId string, limit int) ([]model.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.auditRepo.ListByWorkspace(workspaceId, limit)
}
