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
)

type IWorkspaceMemberRepository interface {
	Get(workspaceId, userId string) (*model.WorkspaceMember, error)
	// List returns members owner-first, then by join time ascending.
	List(workspaceId string) ([]model.WorkspaceMember, error)
	Create(member *model.WorkspaceMember) error
	UpdateRole(workspaceId, userId string, role model.Role) error
	Remove(workspaceId, userId string) error
	CountByRole(workspaceId string, role model.Role) (int64, error)
}

type WorkspaceMemberRepo struct {
	database.IDatabase
}

func NewWorkspaceMemberRepo(db database.IDatabase) IWorkspaceMemberRepository {
	return &WorkspaceMemberRepo{IDatabase: db}
}

func (r *WorkspaceMemberRepo) Get(workspaceId, userId string) (*model.WorkspaceMember, error) {
	var member model.WorkspaceMember
	err := r.Database().
		Where("workspace_id = ? AND user_id = ?", workspaceId, userId).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *WorkspaceMemberRepo) List(workspaceId string) ([]model.WorkspaceMember, error) {
	var members []model.WorkspaceMember
	err := r.Database().
		Where("workspace_id = ?", workspaceId).
		Order("role = 'owner' DESC, created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *WorkspaceMemberRepo) Create(member *model.WorkspaceMember) error {
	return r.Database().Create(member).Error
}

func (r *WorkspaceMemberRepo) UpdateRole(workspaceId, userId string, role model.Role) error {
	return r.Database().Model(&model.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceId, userId).
		Update("role", role).Error
}

func (r *WorkspaceMemberRepo) Remove(workspaceId, userId string) error {
	return r.Database().
		Where("workspace_id = ? AND user_id = ?", workspaceId, userId).
		Delete(&model.WorkspaceMember{}).Error
}

func (r *WorkspaceMemberRepo) CountByRole(workspaceId string, role model.Role) (int64, error) {
	var count int64
	err := r.Database().Model(&model.WorkspaceMember{}).
		Where("workspace_id = ? AND role = ?", workspaceId, role).
		Count(&count).Error
	return count, err
}
