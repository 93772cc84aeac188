// Package channel 已保存频道及其深链、当前邀请链接
package channel

import "time"

// Channel 已保存的频道
//
// 当前邀请链接直接记录在频道行上，每个频道只有一条，续期时覆盖。
type Channel struct {
	ID                  uint       `gorm:"primarykey" bson:"-" json:"id"`
	ChannelID           int64      `gorm:"uniqueIndex;not null" bson:"channel_id" json:"channel_id"`
	Title               string     `gorm:"size:255" bson:"title" json:"title"`
	EncodedLink         string     `gorm:"size:64" bson:"encoded_link" json:"encoded_link"`
	ReqEncodedLink      string     `gorm:"size:64" bson:"req_encoded_link" json:"req_encoded_link"`
	OriginalLink        string     `gorm:"size:512" bson:"original_link,omitempty" json:"original_link,omitempty"`
	InviteLink          string     `gorm:"size:255" bson:"invite_link,omitempty" json:"invite_link,omitempty"`
	IsRequest           bool       `gorm:"not null;default:false" bson:"is_request" json:"is_request"`
	InviteLinkCreatedAt *time.Time `bson:"invite_link_created_at,omitempty" json:"invite_link_created_at,omitempty"`
	CreatedAt           time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `bson:"updated_at" json:"updated_at"`
}

func (Channel) TableName() string {
	return "channels"
}

// HasInvite 是否已有邀请记录
func (c *Channel) HasInvite() bool {
	return c.InviteLink != "" && c.InviteLinkCreatedAt != nil
}
