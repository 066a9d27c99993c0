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
	"context"
	"encoding/json"
	"time"

	"github.com/go-propel/propel/internal/engine/model"
	"github.com/go-propel/propel/pkg/database"
	httpx "github.com/go-propel/propel/pkg/http"
	"github.com/redis/go-redis/v9"
)

type IUserRepository interface {
	Create(user *model.User) error
	GetByUserId(userId string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	SetActiveWorkspace(userId, workspaceId string) error

	SetToken(userId, token string, auth httpx.Auth) (string, error)
	GetToken(key string) (string, error)
	DelToken(key string) error
}

type UserRepo struct {
	database.IDatabase
	rdb *redis.Client
}

func NewUserRepo(db database.IDatabase, rdb *redis.Client) IUserRepository {
	return &UserRepo{IDatabase: db, rdb: rdb}
}

func (r *UserRepo) Create(user *model.User) error {
	return r.Database().Create(user).Error
}

func (r *UserRepo) GetByUserId(userId string) (*model.User, error) {
	var user model.User
	err := r.Database().Where("user_id = ?", userId).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.Database().Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) GetByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.Database().Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) SetActiveWorkspace(userId, workspaceId string) error {
	return r.Database().Model(&model.User{}).
		Where("user_id = ?", userId).
		Update("active_workspace_id", workspaceId).Error
}

// SetToken stores the access token in redis with the access expiry as TTL.
func (r *UserRepo) SetToken(userId, token string, auth httpx.Auth) (string, error) {
	key := auth.RedisKeyPrefix + userId
	info := model.TokenInfo{
		AccessToken: token,
		CreateAt:    time.Now(),
	}
	payload, err := json.Marshal(info)
	if err != nil {
		return "", err
	}
	if err := r.rdb.Set(context.Background(), key, payload, auth.AccessExpire).Err(); err != nil {
		return "", err
	}
	return key, nil
}

func (r *UserRepo) GetToken(key string) (string, error) {
	result, err := r.rdb.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return result, err
}

func (r *UserRepo) DelToken(key string) error {
	return r.rdb.Del(context.Background(), key).Err()
}
