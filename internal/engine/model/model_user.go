package model

import "time"

type User struct {
	BaseModel
	UserId   string `gorm:"column:user_id;uniqueIndex" json:"userId"`
	Username string `gorm:"column:username" json:"username"`
	Email    string `gorm:"column:email;uniqueIndex" json:"email"`
	Password string `gorm:"column:password" json:"-"`
	Avatar   string `gorm:"column:avatar" json:"avatar"`
	// ActiveWorkspaceId is the default tenant context when a request
	// does not name a workspace. Weak reference, may be empty.
	ActiveWorkspaceId string `gorm:"column:active_workspace_id" json:"activeWorkspaceId"`
	IsEnabled         int    `gorm:"column:is_enabled" json:"isEnabled"` // 0: disabled, 1: enabled
}

func (User) TableName() string {
	return "t_user"
}

type Register struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Login struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResp struct {
	UserInfo UserInfo          `json:"userInfo"`
	Token    map[string]string `json:"token"`
}

type UserInfo struct {
	UserId            string `json:"userId"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	Avatar            string `json:"avatar"`
	ActiveWorkspaceId string `json:"activeWorkspaceId"`
}

// TokenInfo is the token payload stored in redis.
type TokenInfo struct {
	AccessToken string    `json:"accessToken"`
	CreateAt    time.Time `json:"createAt"`
}
