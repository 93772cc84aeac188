// Package bot 命令注册和解析
package bot

import (
	"html"
	"strings"
)

// registerHandlers 注册所有命令处理器
func (b *Bot) registerHandlers() {
	// 用户命令
	b.handlers["start"] = b.handleStart

	// 管理员命令
	b.admin("help", b.handleHelp)
	b.admin("status", b.handleStatus)

	// 频道
	b.admin("id", b.handleChannelInfo)
	b.admin("setlink", b.handleSetLink)

	// 强制订阅
	b.admin("addfsub", b.handleAddFSub)
	b.admin("delfsub", b.handleDelFSub)
	b.admin("fsublist", b.handleListFSub)

	// 封禁
	b.admin("ban", b.handleBan)
	b.admin("unban", b.handleUnban)
	b.admin("banlist", b.handleBanList)
	b.admin("checkban", b.handleCheckBan)

	// 广播
	b.admin("broadcast", b.handleBroadcast)
	b.admin("cancel", b.handleCancelBroadcast)
}

// admin 注册仅管理员可用的命令
func (b *Bot) admin(cmd string, h CommandHandler) {
	b.handlers[cmd] = h
	b.adminOnly[cmd] = true
}

// parseArgs 解析命令参数
func parseArgs(argsString string) []string {
	if argsString == "" {
		return []string{}
	}

	parts := strings.Fields(argsString)
	return parts
}

// getArg 安全获取参数
func getArg(args []string, index int) string {
	if index < len(args) {
		return args[index]
	}
	return ""
}

// hasArg 检查是否有足够的参数
func hasArg(args []string, count int) bool {
	return len(args) >= count
}

// escape 转义 HTML 回复中的用户输入
func escape(s string) string {
	return html.EscapeString(s)
}
