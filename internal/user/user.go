// Package user 提供用户领域模型和业务逻辑
package user

import (
	"time"
)

// User 使用过 Bot 的用户
type User struct {
	ID         uint      `gorm:"primarykey" bson:"-" json:"id"`
	TelegramID int64     `gorm:"uniqueIndex;not null" bson:"telegram_id" json:"telegram_id"`
	Username   string    `gorm:"size:100" bson:"username" json:"username"`
	FirstName  string    `gorm:"size:100" bson:"first_name" json:"first_name"`
	LastName   string    `gorm:"size:100" bson:"last_name" json:"last_name"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// FullName 获取全名
func (u *User) FullName() string {
	if u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.FirstName
}

// DisplayName 获取显示名称
func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return u.FullName()
}
