package service

import (
	"context"
	"encoding/json"

	"vatrefunder/internal/model"
	"vatrefunder/internal/repository"
)

const (
	auditTimeLayout   = "2006-01-02 15:04:05"
	defaultAuditLimit = 50
)

// AuditQuery selects one page of audit entries.
type AuditQuery struct {
	Action   string
	EntityID string
	Page     int
	Limit    int
}

type AuditLogResponse struct {
	ID         string          `json:"id"`
	Action     string          `json:"action"`
	EntityID   string          `json:"entity_id"`
	EntityName string          `json:"entity_name"`
	Details    json.RawMessage `json:"details" swaggertype:"object"`
	CreatedAt  string          `json:"created_at"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, q AuditQuery) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// GetAuditLogs returns entries newest first.
func (s *auditService) GetAuditLogs(ctx context.Context, q AuditQuery) ([]AuditLogResponse, int64, error) {
	if q.Action != "" && !model.ValidAction(q.Action) {
		return nil, 0, invalid("action", "unknown audit action "+q.Action)
	}
	page, limit := max(q.Page, 1), q.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	entries, total, err := s.auditRepo.List(ctx, repository.AuditFilter{
		Action:   q.Action,
		EntityID: q.EntityID,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		return nil, 0, persistenceError(err)
	}

	res := make([]AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		details := json.RawMessage(e.Details)
		if !json.Valid(details) {
			details = json.RawMessage("null")
		}
		res = append(res, AuditLogResponse{
			ID:         e.ID.String(),
			Action:     e.Action,
			EntityID:   e.EntityID,
			EntityName: e.EntityName,
			Details:    details,
			CreatedAt:  e.CreatedAt.UTC().Format(auditTimeLayout),
		})
	}
	return res, total, nil
}

// writeAuditLog appends an entry through whatever transaction ctx carries.
func writeAuditLog(ctx context.Context, repo repository.AuditRepository, action, entityID, entityName string, details any) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return repo.Log(ctx, &model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	})
}
