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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-propel/propel/internal/engine/model"
	"github.com/go-propel/propel/internal/engine/repo"
	httpx "github.com/go-propel/propel/pkg/http"
	"github.com/go-propel/propel/pkg/http/jwt"
	"github.com/go-propel/propel/pkg/id"
	"github.com/go-propel/propel/pkg/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo repo.IUserRepository
}

func NewUserService(userRepo repo.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates an account. Emails are unique and stored lowercased.
func (s *UserService) Register(register *model.Register) error {
	username := strings.TrimSpace(register.Username)
	email := strings.ToLower(strings.TrimSpace(register.Email))
	if username == "" || register.Password == "" {
		return errors.New(httpx.UsernameAndPasswordIsRequired.Msg)
	}
	if email == "" {
		return InvalidStatef("email cannot be empty")
	}

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return errors.New(httpx.UserAlreadyExist.Msg)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("load user failed: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(register.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		UserId:    id.GetUUIDWithoutDashes(),
		Username:  username,
		Email:     email,
		Password:  string(hash),
		IsEnabled: 1,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.New(httpx.UserAlreadyExist.Msg)
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	log.Infow("user registered", "userId", user.UserId, "email", email)
	return nil
}

// Login verifies the credentials, issues a jwt token pair and caches
// the access token in redis keyed by user.
func (s *UserService) Login(login *model.Login, auth httpx.Auth) (*model.LoginResp, error) {
	user, err := s.lookupAccount(login)
	if err != nil {
		return nil, err
	}
	if user.IsEnabled == 0 {
		return nil, Forbiddenf("account is disabled")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(login.Password)) != nil {
		return nil, errors.New(httpx.UserIncorrectPassword.Msg)
	}

	aToken, rToken, err := jwt.GenToken(user.UserId, []byte(auth.SecretKey), auth.AccessExpire, auth.RefreshExpire)
	if err != nil {
		log.Errorw("generate tokens failed", "userId", user.UserId, "err", err)
		return nil, err
	}

	if _, err := s.userRepo.SetToken(user.UserId, aToken, auth); err != nil {
		log.Errorw("cache access token failed", "userId", user.UserId, "err", err)
		return nil, err
	}

	now := time.Now()
	return &model.LoginResp{
		UserInfo: model.UserInfo{
			UserId:            user.UserId,
			Username:          user.Username,
			Email:             user.Email,
			Avatar:            user.Avatar,
			ActiveWorkspaceId: user.ActiveWorkspaceId,
		},
		Token: map[string]string{
			"accessToken":  aToken,
			"refreshToken": rToken,
			"createAt":     fmt.Sprintf("%d", now.Unix()),
			"expireAt":     fmt.Sprintf("%d", now.Add(auth.AccessExpire).Unix()),
		},
	}, nil
}

// Logout drops the cached access token so the session dies before the
// jwt itself expires.
func (s *UserService) Logout(userId string, auth httpx.Auth) error {
	return s.userRepo.DelToken(auth.RedisKeyPrefix + userId)
}

func (s *UserService) GetUserById(userId string) (*model.UserInfo, error) {
	user, err := s.userRepo.GetByUserId(userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(httpx.UserNotExist.Msg)
		}
		return nil, fmt.Errorf("load user failed: %w", err)
	}
	return &model.UserInfo{
		UserId:            user.UserId,
		Username:          user.Username,
		Email:             user.Email,
		Avatar:            user.Avatar,
		ActiveWorkspaceId: user.ActiveWorkspaceId,
	}, nil
}

// lookupAccount resolves the login identifier, email first, then
// username.
func (s *UserService) lookupAccount(login *model.Login) (*model.User, error) {
	if login.Email != "" {
		user, err := s.userRepo.GetByEmail(strings.ToLower(login.Email))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New(httpx.UserNotExist.Msg)
			}
			return nil, fmt.Errorf("load user failed: %w", err)
		}
		return user, nil
	}
	if login.Username == "" {
		return nil, errors.New(httpx.UsernameAndPasswordIsRequired.Msg)
	}
	user, err := s.userRepo.GetByUsername(login.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(httpx.UserNotExist.Msg)
		}
		return nil, fmt.Errorf("load user failed: %w", err)
	}
	return user, nil
}
