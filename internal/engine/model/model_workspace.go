package model

// Workspace is the tenant boundary grouping users and resources.
type Workspace struct {
	BaseModel
	WorkspaceId string `gorm:"column:workspace_id;uniqueIndex" json:"workspaceId"`
	Name        string `gorm:"column:name" json:"name"`
	Slug        string `gorm:"column:slug;uniqueIndex" json:"slug"`
	OwnerUserId string `gorm:"column:owner_user_id" json:"ownerUserId"`
}

func (Workspace) TableName() string {
	return "t_workspace"
}

type CreateWorkspaceReq struct {
	Name string `json:"name"`
}

type RenameWorkspaceReq struct {
	Name string `json:"name"`
}

type SetActiveWorkspaceReq struct {
	WorkspaceId string `json:"workspaceId"`
}

// WorkspaceResp is a workspace annotated with the caller's role.
type WorkspaceResp struct {
	WorkspaceId string       `json:"workspaceId"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	OwnerUserId string       `json:"ownerUserId"`
	Role        Role         `json:"role"`
	Members     []MemberResp `json:"members,omitempty"`
}

// WorkspaceListItem is one row of the bulk workspace listing.
type WorkspaceListItem struct {
	WorkspaceId string `gorm:"column:workspace_id" json:"workspaceId"`
	Name        string `gorm:"column:name" json:"name"`
	Slug        string `gorm:"column:slug" json:"slug"`
	OwnerUserId string `gorm:"column:owner_user_id" json:"ownerUserId"`
	Role        Role   `gorm:"column:role" json:"role"`
	MemberCount int64  `gorm:"column:member_count" json:"memberCount"`
}
