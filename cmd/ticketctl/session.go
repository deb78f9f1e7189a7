package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/session"
)

// sessionCmd 会话管理命令
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "会话管理",
	Long:  "选择当前账户与网络，其他命令默认使用会话中的账户与网络",
}

type sessionView session.Context

func (v sessionView) TableRows() [][]string {
	account := v.Account
	if account == "" {
		account = "(未连接)"
	}
	return [][]string{{"网络", "账户"}, {string(v.Env), account}}
}

func printSession(sess session.Context) error {
	return printAs(sess, sessionView(sess))
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "显示当前会话",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		return printSession(sess)
	},
}

var sessionConnectCmd = &cobra.Command{
	Use:   "connect <address>",
	Short: "以 keystore 中的账户连接",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ks, err := openKeystore()
		if err != nil {
			return err
		}
		kp, err := ks.Find(args[0])
		if err != nil {
			return fmt.Errorf("账户不在 keystore 中: %w", err)
		}
		sess, err := sessions.Connect(kp.Address())
		if err != nil {
			return err
		}
		formatter.PrintSuccess("已连接 " + sess.Account)
		return printSession(sess)
	},
}

var sessionDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "断开当前账户",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := sessions.Disconnect()
		if err != nil {
			return err
		}
		formatter.PrintSuccess("已断开")
		return printSession(sess)
	},
}

var sessionNetworkCmd = &cobra.Command{
	Use:   "network <mainnet|testnet|devnet>",
	Short: "切换网络",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := config.ParseEnvironment(args[0])
		if err != nil {
			return err
		}
		sess, err := sessions.Switch(env)
		if err != nil {
			return err
		}
		p, err := profileFor(env)
		if err != nil {
			return err
		}
		if reg, err := p.LoadRegistry(); err == nil {
			if !reg.Available(env, config.RolePackage) {
				formatter.PrintWarning(fmt.Sprintf("%s 上尚未部署合约，仅能读取", env))
			}
		}
		return printSession(sess)
	},
}

func init() {
	sessionCmd.AddCommand(sessionStatusCmd)
	sessionCmd.AddCommand(sessionConnectCmd)
	sessionCmd.AddCommand(sessionDisconnectCmd)
	sessionCmd.AddCommand(sessionNetworkCmd)
}
