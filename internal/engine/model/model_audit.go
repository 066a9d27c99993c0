package model

import "gorm.io/datatypes"

// AuditLog records a mutation for the audit trail. Writes are
// best-effort and never block the triggering operation.
type AuditLog struct {
	BaseModel
	WorkspaceId string         `gorm:"column:workspace_id;index" json:"workspaceId"`
	ActorId     string         `gorm:"column:actor_id" json:"actorId"`
	Action      string         `gorm:"column:action" json:"action"`
	EntityType  string         `gorm:"column:entity_type" json:"entityType"`
	EntityId    string         `gorm:"column:entity_id" json:"entityId"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:json" json:"metadata"`
}

func (AuditLog) TableName() string {
	return "t_audit_log"
}
