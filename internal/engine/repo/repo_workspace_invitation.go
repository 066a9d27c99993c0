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
	"time"

	"github.com/go-propel/propel/internal/engine/model"
	"github.com/go-propel/propel/pkg/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInviteAccepted is returned when acceptance races or repeats;
	// the invite is single-use.
	ErrInviteAccepted = errors.New("invite already accepted")
	// ErrInviteExpired is returned when the invite is past its window.
	ErrInviteExpired = errors.New("invite expired")
)

type IWorkspaceInviteRepository interface {
	Create(invite *model.WorkspaceInvite) error
	// GetByToken is the only lookup path for acceptance; tokens are
	// never enumerable by workspace or email.
	GetByToken(token string) (*model.WorkspaceInvite, error)
	GetById(workspaceId, inviteId string) (*model.WorkspaceInvite, error)
	ListPending(workspaceId string) ([]model.WorkspaceInvite, error)
	Delete(inviteId string) error
	// Accept atomically re-validates the invite under a row lock,
	// creates the membership, marks the invite accepted and updates
	// the joiner's active workspace. Exactly one concurrent caller
	// wins; the rest observe ErrInviteAccepted.
	Accept(token string, member *model.WorkspaceMember, now time.Time) (*model.WorkspaceInvite, error)
}

type WorkspaceInviteRepo struct {
	database.IDatabase
}

func NewWorkspaceInviteRepo(db database.IDatabase) IWorkspaceInviteRepository {
	return &WorkspaceInviteRepo{IDatabase: db}
}

func (r *WorkspaceInviteRepo) Create(invite *model.WorkspaceInvite) error {
	return r.Database().Create(invite).Error
}

func (r *WorkspaceInviteRepo) GetByToken(token string) (*model.WorkspaceInvite, error) {
	var invite model.WorkspaceInvite
	err := r.Database().Where("token = ?", token).First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *WorkspaceInviteRepo) GetById(workspaceId, inviteId string) (*model.WorkspaceInvite, error) {
	var invite model.WorkspaceInvite
	err := r.Database().
		Where("workspace_id = ? AND invite_id = ?", workspaceId, inviteId).
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *WorkspaceInviteRepo) ListPending(workspaceId string) ([]model.WorkspaceInvite, error) {
	var invites []model.WorkspaceInvite
	err := r.Database().
		Where("workspace_id = ? AND accepted_at IS NULL", workspaceId).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}

func (r *WorkspaceInviteRepo) Delete(inviteId string) error {
	return r.Database().
		Where("invite_id = ?", inviteId).
		Delete(&model.WorkspaceInvite{}).Error
}

func (r *WorkspaceInviteRepo) Accept(token string, member *model.WorkspaceMember, now time.Time) (*model.WorkspaceInvite, error) {
	var invite model.WorkspaceInvite
	err := r.Database().Transaction(func(tx *gorm.DB) error {
		// lock the invite row so concurrent accepts serialize here
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", token).
			First(&invite).Error; err != nil {
			return err
		}
		if !invite.Pending() {
			return ErrInviteAccepted
		}
		if invite.Expired(now) {
			return ErrInviteExpired
		}

		if err := tx.Create(member).Error; err != nil {
			return err
		}
		res := tx.Model(&model.WorkspaceInvite{}).
			Where("invite_id = ? AND accepted_at IS NULL", invite.InviteId).
			Update("accepted_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInviteAccepted
		}
		return tx.Model(&model.User{}).
			Where("user_id = ?", member.UserId).
			Update("active_workspace_id", member.WorkspaceId).Error
	})
	if err != nil {
		return nil, err
	}
	accepted := now
	invite.AcceptedAt = &accepted
	return &invite, nil
}
