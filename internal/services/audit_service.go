package services

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"finken/internal/logger"
	"finken/internal/models"
)

// auditService records event-log entries.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event under the acting user's ID. Errors are logged
// but never propagate, so auditing cannot abort the primary operation.
func (s *auditService) Log(actorID uint, actionType, tableName string, recordID uint, before, after map[string]interface{}) {
	entry := &models.EventLog{
		UserID:      actorID,
		Timestamp:   time.Now(),
		ActionType:  actionType,
		TableName:   tableName,
		RecordID:    recordID,
		BeforeValue: marshalSnapshot(before, actionType),
		AfterValue:  marshalSnapshot(after, actionType),
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create event log entry",
			"error", err,
			"actor_id", actorID,
			"action", actionType,
			"table", tableName,
			"record_id", recordID,
		)
	}
}

func marshalSnapshot(snapshot map[string]interface{}, action string) string {
	if snapshot == nil {
		return ""
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		logger.Get().Errorw("failed to marshal event log snapshot", "error", err, "action", action)
		return "{}"
	}
	return string(data)
}
