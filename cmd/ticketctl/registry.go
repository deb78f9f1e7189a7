package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/configs"
)

// registryCmd 合约注册表命令
var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "查看生效的合约注册表",
}

var registryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "以 YAML 输出合并覆盖文件后的注册表",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		p, err := profileFor(sess.Env)
		if err != nil {
			return err
		}
		reg, err := p.LoadRegistry()
		if err != nil {
			return err
		}
		data, err := config.MarshalRegistry(reg)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
		return err
	},
}

var registryExampleCmd = &cobra.Command{
	Use:   "example",
	Short: "输出注册表覆盖文件模板",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(configs.RegistryExample)
		return err
	},
}

func init() {
	registryCmd.AddCommand(registryShowCmd)
	registryCmd.AddCommand(registryExampleCmd)
}
