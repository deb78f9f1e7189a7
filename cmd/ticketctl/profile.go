package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/suiticket/v1/client/core/config"
)

// profileCmd Profile管理命令
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile管理",
	Long:  "管理节点端点、超时与注册表覆盖等配置，每个网络一个默认 profile",
}

type profileSummary struct {
	Name     string             `json:"name"`
	Network  config.Environment `json:"network"`
	Endpoint string             `json:"endpoint"`
	Current  bool               `json:"current"`
}

func (s profileSummary) row() []string {
	mark := ""
	if s.Current {
		mark = "*"
	}
	return []string{mark, s.Name, string(s.Network), s.Endpoint}
}

type profileTable []profileSummary

func (t profileTable) TableRows() [][]string {
	rows := [][]string{{"", "名称", "网络", "端点"}}
	for _, s := range t {
		rows = append(rows, s.row())
	}
	return rows
}

func summarize(p *config.Profile) profileSummary {
	return profileSummary{
		Name:     p.Name,
		Network:  p.Network,
		Endpoint: p.PrimaryEndpoint(),
		Current:  p.Name == profileMgr.CurrentName(),
	}
}

// profileListCmd 列出所有profiles
var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出所有profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		var result profileTable
		for _, name := range profileMgr.ListProfiles() {
			profile, err := profileMgr.GetProfile(name)
			if err != nil {
				continue
			}
			result = append(result, summarize(profile))
		}
		return printAs(result, result)
	},
}

// profileShowCmd 显示profile详情
var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "显示profile详情",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			profile *config.Profile
			err     error
		)
		if len(args) > 0 {
			profile, err = profileMgr.GetProfile(args[0])
		} else {
			profile, err = profileMgr.GetCurrentProfile()
		}
		if err != nil {
			return err
		}
		return formatter.Print(profile)
	},
}

// profileSwitchCmd 切换profile
var profileSwitchCmd = &cobra.Command{
	Use:   "switch <name>",
	Short: "切换profile",
	Long:  "切换当前 profile，并把会话网络切换到该 profile 的网络",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := profileMgr.SwitchProfile(name); err != nil {
			return err
		}
		profile, err := profileMgr.GetProfile(name)
		if err != nil {
			return err
		}
		if _, err := sessions.Switch(profile.Network); err != nil {
			return err
		}
		formatter.PrintSuccess(fmt.Sprintf("已切换到 profile '%s'", name))
		return printAs(summarize(profile), profileTable{summarize(profile)})
	},
}

var createFlags struct {
	network  string
	endpoint string
	timeout  time.Duration
	registry string
	keystore string
}

// profileCreateCmd 创建新profile
var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "创建新profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if _, err := profileMgr.GetProfile(name); err == nil {
			return fmt.Errorf("profile '%s' 已存在", name)
		}
		env, err := config.ParseEnvironment(createFlags.network)
		if err != nil {
			return err
		}

		profile := config.DefaultProfile(env)
		profile.Name = name
		if createFlags.endpoint != "" {
			profile.Endpoints = []config.EndpointConfig{{Name: name + "-primary", Priority: 1, JSONRPC: createFlags.endpoint}}
		}
		if createFlags.timeout > 0 {
			profile.Timeout = config.Duration(createFlags.timeout)
		}
		profile.RegistryFile = createFlags.registry
		profile.KeystorePath = createFlags.keystore

		if profile.RegistryFile != "" {
			if _, err := profile.LoadRegistry(); err != nil {
				return fmt.Errorf("注册表覆盖文件无效: %w", err)
			}
		}
		if err := profileMgr.SaveProfile(profile); err != nil {
			return fmt.Errorf("保存 profile 失败: %w", err)
		}
		formatter.PrintSuccess(fmt.Sprintf("Profile '%s' 创建成功", name))
		return printAs(summarize(profile), profileTable{summarize(profile)})
	},
}

// profileImportCmd 导入profile
var profileImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "从JSON文件导入profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("读取文件失败: %w", err)
		}
		var profile config.Profile
		if err := json.Unmarshal(data, &profile); err != nil {
			return fmt.Errorf("解析JSON失败: %w", err)
		}
		if _, err := config.ParseEnvironment(string(profile.Network)); err != nil {
			return err
		}
		if _, err := profileMgr.GetProfile(profile.Name); err == nil {
			return fmt.Errorf("profile '%s' 已存在", profile.Name)
		}
		if err := profileMgr.SaveProfile(&profile); err != nil {
			return fmt.Errorf("保存 profile 失败: %w", err)
		}
		formatter.PrintSuccess(fmt.Sprintf("Profile '%s' 导入成功", profile.Name))
		return nil
	},
}

// profileExportCmd 导出profile
var profileExportCmd = &cobra.Command{
	Use:   "export <name> [file]",
	Short: "导出profile为JSON文件",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		profile, err := profileMgr.GetProfile(name)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return fmt.Errorf("序列化JSON失败: %w", err)
		}
		outputFile := name + "-profile.json"
		if len(args) > 1 {
			outputFile = args[1]
		}
		if err := os.WriteFile(outputFile, data, 0600); err != nil {
			return fmt.Errorf("写入文件失败: %w", err)
		}
		formatter.PrintSuccess(fmt.Sprintf("Profile '%s' 已导出到 %s", name, outputFile))
		return nil
	},
}

var deleteYes bool

// profileDeleteCmd 删除profile
var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "删除profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if name == profileMgr.CurrentName() {
			return fmt.Errorf("不能删除当前正在使用的 profile")
		}
		if !deleteYes && !confirm(fmt.Sprintf("确认删除 profile '%s'?", name)) {
			formatter.PrintInfo("取消删除")
			return nil
		}
		if err := profileMgr.DeleteProfile(name); err != nil {
			return fmt.Errorf("删除 profile 失败: %w", err)
		}
		formatter.PrintSuccess(fmt.Sprintf("Profile '%s' 已删除", name))
		return nil
	},
}

func init() {
	profileCreateCmd.Flags().StringVar(&createFlags.network, "network", string(config.Testnet), "网络")
	profileCreateCmd.Flags().StringVar(&createFlags.endpoint, "endpoint", "", "JSON-RPC 端点 (默认使用网络的公共端点)")
	profileCreateCmd.Flags().DurationVar(&createFlags.timeout, "timeout", 0, "请求超时")
	profileCreateCmd.Flags().StringVar(&createFlags.registry, "registry", "", "注册表覆盖文件 (YAML)")
	profileCreateCmd.Flags().StringVar(&createFlags.keystore, "keystore", "", "keystore 文件")
	profileDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "不询问直接删除")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSwitchCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileImportCmd)
	profileCmd.AddCommand(profileExportCmd)
	profileCmd.AddCommand(profileDeleteCmd)
}
