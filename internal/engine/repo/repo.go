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

package repo

import (
	"github.com/go-propel/propel/pkg/database"
	"github.com/redis/go-redis/v9"
)

// Repositories aggregates all repository instances.
type Repositories struct {
	User            IUserRepository
	Workspace       IWorkspaceRepository
	WorkspaceMember IWorkspaceMemberRepository
	WorkspaceInvite IWorkspaceInviteRepository
	Audit           IAuditRepository
}

// NewRepositories wires up every repository.
func NewRepositories(db database.IDatabase, rdb *redis.Client) *Repositories {
	return &Repositories{
		User:            NewUserRepo(db, rdb),
		Workspace:       NewWorkspaceRepo(db),
		WorkspaceMember: NewWorkspaceMemberRepo(db),
		WorkspaceInvite: NewWorkspaceInviteRepo(db),
		Audit:           NewAuditRepo(db),
	}
}
