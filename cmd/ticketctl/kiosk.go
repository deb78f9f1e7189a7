package main

import (
	"github.com/spf13/cobra"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/output"
)

// kioskCmd 二级市场命令
var kioskCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "在 Kiosk 中挂单与购买转售门票",
}

var kioskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "创建 Kiosk",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return printResult(a.client.Actions().CreateKiosk(cmd.Context(), a.sess))
	},
}

var kioskListTicketCmd = &cobra.Command{
	Use:   "list-ticket <ticket-id> <price>",
	Short: "挂单出售门票",
	Long:  "把门票放入当前账户的 Kiosk 并挂单，价格如 2sui 或以 MIST 计的整数",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := builder.ParseAmount(args[1])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return printResult(a.client.Actions().ListTicket(cmd.Context(), a.sess, args[0], price.Mist()))
	},
}

var kioskDelistCmd = &cobra.Command{
	Use:   "delist <kiosk-id> <ticket-id>",
	Short: "撤销挂单并取回门票",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return printResult(a.client.Actions().DelistTicket(cmd.Context(), a.sess, args[0], args[1]))
	},
}

var kioskListingsCmd = &cobra.Command{
	Use:   "listings <kiosk-id>",
	Short: "列出 Kiosk 中的挂单及含费总价",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		listings, err := a.client.Listings(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printAs(listings, output.ListingTable(listings))
	},
}

var kioskPlanCmd = &cobra.Command{
	Use:   "plan <kiosk-id> <ticket-id>",
	Short: "计算购买挂单门票的总价，不提交",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		plan, err := a.client.Actions().PlanPurchase(cmd.Context(), args[0], args[1], a.sess.Account)
		if err != nil {
			return err
		}
		if plan.Quote.HasFallback() {
			formatter.PrintWarning("部分费用取自默认费率，实际费用以链上策略为准")
		}
		return printAs(plan, output.QuoteTable(plan.Quote))
	},
}

var kioskBuyCmd = &cobra.Command{
	Use:   "buy <kiosk-id> <ticket-id>",
	Short: "购买挂单门票",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return printResult(a.client.Actions().BuyListedTicket(cmd.Context(), a.sess, args[0], args[1]))
	},
}

func init() {
	kioskCmd.AddCommand(kioskCreateCmd)
	kioskCmd.AddCommand(kioskListTicketCmd)
	kioskCmd.AddCommand(kioskDelistCmd)
	kioskCmd.AddCommand(kioskListingsCmd)
	kioskCmd.AddCommand(kioskPlanCmd)
	kioskCmd.AddCommand(kioskBuyCmd)
}
