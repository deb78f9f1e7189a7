package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/fees"
	"github.com/suiticket/v1/client/core/ticketing"
)

// policyCmd 转让策略命令
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "查看与配置门票转让策略",
}

type policyTable fees.PolicyView

func (t policyTable) TableRows() [][]string {
	v := fees.PolicyView(t)
	state := func(set bool) string {
		if set {
			return "已设置"
		}
		return "未设置"
	}
	return [][]string{
		{"规则", "状态", "参数"},
		{"版税", state(v.HasRoyaltyRule), fmt.Sprintf("%d bp, 最低 %s", v.RoyaltyFeeBP, builder.FormatMist(v.RoyaltyMinFee))},
		{"转售限价", state(v.HasResaleLimit), fmt.Sprintf("原价的 %d bp", v.PriceLimitBP)},
		{"平台费", state(v.HasPlatformFee), fmt.Sprintf("%d bp, 最低 %s", v.PlatformFeeBP, builder.FormatMist(v.PlatformMinFee))},
	}
}

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示转让策略的当前规则",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		view := a.client.Fees().PolicyConfig(cmd.Context(), "").View()
		return printAs(view, policyTable(view))
	},
}

var minFee string

func parseBP(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("基点应为 0-65535 的整数: %s", s)
	}
	return uint16(v), nil
}

func configure(cmd *cobra.Command, change ticketing.PolicyChange) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return printResult(a.client.Actions().ConfigurePolicy(cmd.Context(), a.sess, change))
}

func feeRuleCmd(rule ticketing.Rule, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(rule) + " <fee-bp>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bp, err := parseBP(args[0])
			if err != nil {
				return err
			}
			amount, err := builder.ParseAmount(minFee)
			if err != nil {
				return err
			}
			return configure(cmd, ticketing.PolicyChange{Rule: rule, FeeBP: bp, MinFee: amount.Mist()})
		},
	}
}

var policySetCmd = &cobra.Command{
	Use:   "set",
	Short: "设置一条规则，需要持有策略凭证",
}

var policySetResaleCmd = &cobra.Command{
	Use:   string(ticketing.RuleResaleLimit) + " <price-limit-bp>",
	Short: "设置转售限价(相对原价的基点)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bp, err := parseBP(args[0])
		if err != nil {
			return err
		}
		return configure(cmd, ticketing.PolicyChange{Rule: ticketing.RuleResaleLimit, PriceLimitBP: bp})
	},
}

var policyRemoveCmd = &cobra.Command{
	Use:       "remove <royalty|resale-limit|platform-fee>",
	Short:     "移除一条规则，需要持有策略凭证",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(ticketing.RuleRoyalty), string(ticketing.RuleResaleLimit), string(ticketing.RulePlatformFee)},
	RunE: func(cmd *cobra.Command, args []string) error {
		return configure(cmd, ticketing.PolicyChange{Rule: ticketing.Rule(args[0]), Remove: true})
	},
}

func init() {
	royalty := feeRuleCmd(ticketing.RuleRoyalty, "设置版税费率")
	platform := feeRuleCmd(ticketing.RulePlatformFee, "设置平台费率")
	for _, c := range []*cobra.Command{royalty, platform} {
		c.Flags().StringVar(&minFee, "min-fee", "0", "最低费用")
	}
	policySetCmd.AddCommand(royalty, policySetResaleCmd, platform)

	policyCmd.AddCommand(policyShowCmd)
	policyCmd.AddCommand(policySetCmd)
	policyCmd.AddCommand(policyRemoveCmd)
}
