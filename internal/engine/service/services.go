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

package service

import (
	"github.com/go-propel/propel/internal/engine/model"
	"github.com/go-propel/propel/internal/engine/repo"
)

// Services aggregates the service layer for injection into the router.
type Services struct {
	User       *UserService
	Membership *MembershipService
	Invitation *InvitationService
	Permission *PermissionService
	Audit      *AuditService
}

func NewServices(repos *repo.Repositories, mailer InviteMailer, linkBase string) *Services {
	audit := NewAuditService(repos.Audit)
	table := model.NewPermissionTable()
	return &Services{
		User:       NewUserService(repos.User),
		Membership: NewMembershipService(repos.Workspace, repos.WorkspaceMember, repos.User, audit),
		Invitation: NewInvitationService(repos.WorkspaceInvite, repos.WorkspaceMember, repos.Workspace, repos.User, mailer, audit, linkBase),
		Permission: NewPermissionService(table, repos.WorkspaceMember, repos.User),
		Audit:      audit,
	}
}
