package platform

// MemberStatus 成员状态
type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
)

// IsJoined 是否视为已加入（owner / admin / member）
func (s MemberStatus) IsJoined() bool {
	return s == StatusCreator || s == StatusAdministrator || s == StatusMember
}

// IsAdmin 是否为管理员或创建者
func (s MemberStatus) IsAdmin() bool {
	return s == StatusCreator || s == StatusAdministrator
}

// Chat 聊天元数据
type Chat struct {
	ID          int64
	Type        string
	Title       string
	Username    string
	Description string
}

// PublicLink 公开聊天的 t.me 链接，私有聊天返回空
func (c Chat) PublicLink() string {
	if c.Username == "" {
		return ""
	}
	return "https://t.me/" + c.Username
}
