// Copyright 2025 Propel Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import "time"

// WorkspaceMember binds one user to one workspace with exactly one role.
// The (workspace_id, user_id) pair is unique; CreatedAt is the join time.
type WorkspaceMember struct {
	BaseModel
	WorkspaceId string `gorm:"column:workspace_id;uniqueIndex:uk_workspace_user" json:"workspaceId"`
	UserId      string `gorm:"column:user_id;uniqueIndex:uk_workspace_user" json:"userId"`
	Role        Role   `gorm:"column:role" json:"role"`
	InvitedBy   string `gorm:"column:invited_by" json:"invitedBy"` // inviter user id, empty for the creator
}

func (WorkspaceMember) TableName() string {
	return "t_workspace_member"
}

type UpdateMemberRoleReq struct {
	Role Role `json:"role"`
}

type MemberResp struct {
	UserId   string    `json:"userId"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

func ToMemberResp(m *WorkspaceMember) MemberResp {
	return MemberResp{
		UserId:   m.UserId,
		Role:     m.Role,
		JoinedAt: m.CreatedAt,
	}
}
