package model

import "time"

// InviteTTL is the validity window of an invite from its creation.
const InviteTTL = 7 * 24 * time.Hour

// WorkspaceInvite is a time-bounded, single-use, token-addressed offer
// to join a workspace with a pre-assigned role. Expiry is derived at
// verification time from ExpiresAt, never materialized as a status.
type WorkspaceInvite struct {
	BaseModel
	InviteId    string     `gorm:"column:invite_id;uniqueIndex" json:"inviteId"`
	WorkspaceId string     `gorm:"column:workspace_id;index" json:"workspaceId"`
	Email       string     `gorm:"column:email" json:"email"`
	Role        Role       `gorm:"column:role" json:"role"`
	Token       string     `gorm:"column:token;uniqueIndex" json:"-"`
	InvitedBy   string     `gorm:"column:invited_by" json:"invitedBy"`
	ExpiresAt   time.Time  `gorm:"column:expires_at" json:"expiresAt"`
	AcceptedAt  *time.Time `gorm:"column:accepted_at" json:"acceptedAt"` // nil = pending
}

func (WorkspaceInvite) TableName() string {
	return "t_workspace_invite"
}

// Pending reports whether the invite has not been accepted yet.
func (i *WorkspaceInvite) Pending() bool {
	return i.AcceptedAt == nil
}

// Expired reports whether the invite is past its validity window.
func (i *WorkspaceInvite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

type InviteReq struct {
	WorkspaceId string `json:"workspaceId"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
}

type InviteResp struct {
	InviteId    string    `json:"inviteId"`
	WorkspaceId string    `json:"workspaceId"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	InvitedBy   string    `json:"invitedBy"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ToInviteResp(i *WorkspaceInvite) InviteResp {
	return InviteResp{
		InviteId:    i.InviteId,
		WorkspaceId: i.WorkspaceId,
		Email:       i.Email,
		Role:        i.Role,
		InvitedBy:   i.InvitedBy,
		ExpiresAt:   i.ExpiresAt,
		CreatedAt:   i.CreatedAt,
	}
}

// AcceptInviteResp reports the joined workspace.
type AcceptInviteResp struct {
	WorkspaceId string `json:"workspaceId"`
	Role        Role   `json:"role"`
}
