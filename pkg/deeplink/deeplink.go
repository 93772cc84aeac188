// Package deeplink 频道深链 token 的编码与解析
//
// token 为频道 ID 十进制字符串的 URL 安全 base64（去掉填充），
// 带 req_ 前缀的 token 表示申请加入链接。
package deeplink

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// RequestPrefix 申请加入链接的 token 前缀
const RequestPrefix = "req_"

// ErrInvalidToken token 无法解析为频道 ID
var ErrInvalidToken = errors.New("invalid deep link token")

// Encode 编码频道 ID
func Encode(channelID int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(channelID, 10)))
}

// Decode 解码 token 为频道 ID，兼容带填充的旧 token
func Decode(token string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return id, nil
}

// Payload /start 参数
type Payload struct {
	Token     string
	IsRequest bool
}

// ParsePayload 拆分 req_ 前缀
func ParsePayload(s string) Payload {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, RequestPrefix) {
		return Payload{Token: strings.TrimPrefix(s, RequestPrefix), IsRequest: true}
	}
	return Payload{Token: s}
}

// String 还原为 /start 参数
func (p Payload) String() string {
	if p.IsRequest {
		return RequestPrefix + p.Token
	}
	return p.Token
}

// StartURL 生成 https://t.me/<bot>?start=<payload>
func StartURL(botUsername, payload string) string {
	u := "https://t.me/" + botUsername
	return u + "?start=" + url.QueryEscape(payload)
}

// Links 频道的普通链接与申请链接
func Links(botUsername string, channelID int64) (normal, request string) {
	token := Encode(channelID)
	return StartURL(botUsername, token), StartURL(botUsername, RequestPrefix+token)
}
