// Package session 管理当前选择的网络与账户
//
// 选择结果以不可变的 Context 值向下传递给每个构建器与读模型调用，
// 不存在隐藏的全局状态。Store 负责持久化与变更通知。
package session

import (
	"errors"

	"github.com/suiticket/v1/client/core/config"
)

// ErrNotConnected 尚未选择账户
var ErrNotConnected = errors.New("wallet not connected")

// Context 一次操作的会话快照
type Context struct {
	Env     config.Environment `json:"network"`
	Account string             `json:"account,omitempty"`
}

// New 创建会话上下文，账户地址会被规范化
func New(env config.Environment, account string) Context {
	if account != "" {
		account = config.NormalizeAddress(account)
	}
	return Context{Env: env, Account: account}
}

// Connected 是否已选择账户
func (c Context) Connected() bool {
	return c.Account != ""
}

// RequireAccount 返回账户地址，未连接时返回 ErrNotConnected
func (c Context) RequireAccount() (string, error) {
	if !c.Connected() {
		return "", ErrNotConnected
	}
	return c.Account, nil
}

// WithAccount 返回切换账户后的新上下文
func (c Context) WithAccount(account string) Context {
	return New(c.Env, account)
}

// WithEnv 返回切换网络后的新上下文
func (c Context) WithEnv(env config.Environment) Context {
	return Context{Env: env, Account: c.Account}
}
