package main

import (
	"github.com/spf13/cobra"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/output"
)

// feesCmd 按挂单价计算费用
var feesCmd = &cobra.Command{
	Use:   "fees <price>",
	Short: "计算给定挂单价的版税、平台费与总价",
	Long:  "按转让策略计算费用。链上计算失败的分量使用默认费率(版税 2.5%，平台费 5%)并标注来源",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := builder.ParseAmount(args[0])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		quote, err := a.client.Quote(cmd.Context(), price.Mist())
		if err != nil {
			return err
		}
		return printAs(quote, output.QuoteTable(quote))
	},
}
