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
	"github.com/go-propel/propel/internal/engine/model"
	"github.com/go-propel/propel/pkg/database"
	"gorm.io/gorm"
)

type IWorkspaceRepository interface {
	// CreateWithOwner creates the workspace, its owner membership and
	// points the creator's active workspace at it, atomically. A slug
	// collision surfaces as gorm.ErrDuplicatedKey for the caller to
	// retry with a fresh suffix.
	CreateWithOwner(ws *model.Workspace, owner *model.WorkspaceMember) error
	GetByWorkspaceId(workspaceId string) (*model.Workspace, error)
	ListByUser(userId string) ([]model.WorkspaceListItem, error)
	Rename(workspaceId, name string) error
	// Delete removes the workspace and cascades its memberships and
	// invites in one transaction.
	Delete(workspaceId string) error
}

type WorkspaceRepo struct {
	database.IDatabase
}

func NewWorkspaceRepo(db database.IDatabase) IWorkspaceRepository {
	return &WorkspaceRepo{IDatabase: db}
}

func (r *WorkspaceRepo) CreateWithOwner(ws *model.Workspace, owner *model.WorkspaceMember) error {
	return r.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ws).Error; err != nil {
			return err
		}
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("user_id = ?", owner.UserId).
			Update("active_workspace_id", ws.WorkspaceId).Error
	})
}

func (r *WorkspaceRepo) GetByWorkspaceId(workspaceId string) (*model.Workspace, error) {
	var ws model.Workspace
	err := r.Database().Where("workspace_id = ?", workspaceId).First(&ws).Error
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// ListByUser fetches every workspace the user belongs to, annotated
// with the user's role and the member count, in a single query.
func (r *WorkspaceRepo) ListByUser(userId string) ([]model.WorkspaceListItem, error) {
	var items []model.WorkspaceListItem
	err := r.Database().
		Table("t_workspace AS w").
		Select("w.workspace_id, w.name, w.slug, w.owner_user_id, m.role, "+
			"(SELECT COUNT(*) FROM t_workspace_member mc WHERE mc.workspace_id = w.workspace_id) AS member_count").
		Joins("JOIN t_workspace_member m ON m.workspace_id = w.workspace_id").
		Where("m.user_id = ?", userId).
		Order("w.created_at ASC").
		Scan(&items).Error
	return items, err
}

func (r *WorkspaceRepo) Rename(workspaceId, name string) error {
	return r.Database().Model(&model.Workspace{}).
		Where("workspace_id = ?", workspaceId).
		Update("name", name).Error
}

func (r *WorkspaceRepo) Delete(workspaceId string) error {
	return r.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workspace_id = ?", workspaceId).
			Delete(&model.WorkspaceInvite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", workspaceId).
			Delete(&model.WorkspaceMember{}).Error; err != nil {
			return err
		}
		// clear dangling active-workspace pointers
		if err := tx.Model(&model.User{}).
			Where("active_workspace_id = ?", workspaceId).
			Update("active_workspace_id", "").Error; err != nil {
			return err
		}
		return tx.Where("workspace_id = ?", workspaceId).
			Delete(&model.Workspace{}).Error
	})
}
