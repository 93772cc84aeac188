// Package ban 用户封禁名单
package ban

import "time"

// Entry 被封禁的用户
type Entry struct {
	ID         uint      `gorm:"primarykey" bson:"-" json:"id"`
	TelegramID int64     `gorm:"uniqueIndex;not null" bson:"telegram_id" json:"telegram_id"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

func (Entry) TableName() string {
	return "banned_users"
}

// Result 单个 ID 的处理结果
type Result string

const (
	ResultBanned        Result = "banned"
	ResultUnbanned      Result = "unbanned"
	ResultInvalidID     Result = "invalid_id"
	ResultInvalidLength Result = "invalid_length"
	ResultSkippedAdmin  Result = "skipped_admin"
	ResultAlreadyBanned Result = "already_banned"
	ResultNotBanned     Result = "not_banned"
)

// Outcome 批量封禁/解封时每个参数的结果
type Outcome struct {
	Input  string
	ID     int64
	Result Result
}

// Report 批量操作报告
type Report struct {
	Outcomes []Outcome
}

// Succeeded 成功处理的数量
func (r Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Result == ResultBanned || o.Result == ResultUnbanned {
			n++
		}
	}
	return n
}
