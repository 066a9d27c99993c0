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

type IAuditRepository interface {
	Create(entry *model.AuditLog) error
	ListByWorkspace(workspaceId string, limit int) ([]model.AuditLog, error)
}

type AuditRepo struct {
	database.IDatabase
}

func NewAuditRepo(db database.IDatabase) IAuditRepository {
	return &AuditRepo{IDatabase: db}
}

func (r *AuditRepo) Create(entry *model.AuditLog) error {
	return r.Database().Create(entry).Error
}

func (r *AuditRepo) ListByWorkspace(workspaceId string, limit int) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	err := r.Database().
		Where("workspace_id = ?", workspaceId).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
