package main

import (
	"github.com/spf13/cobra"

	"github.com/suiticket/v1/client/core/output"
	"github.com/suiticket/v1/client/core/reconcile"
)

// ticketCmd 门票命令
var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "购票、核销与查看门票",
}

var ticketBuyCmd = &cobra.Command{
	Use:   "buy <activity-id>",
	Short: "按票价购买活动门票",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return printResult(a.client.Actions().BuyTicket(cmd.Context(), a.sess, args[0]))
	},
}

var ticketRedeemCmd = &cobra.Command{
	Use:   "redeem <ticket-id>",
	Short: "核销门票",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return printResult(a.client.Actions().RedeemTicket(cmd.Context(), a.sess, args[0]))
	},
}

var ticketListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出当前账户持有的门票",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		tickets, err := a.client.Reconciler().OwnedTickets(cmd.Context(), a.sess)
		if err != nil {
			return err
		}
		return printAs(tickets, output.TicketTable(tickets))
	},
}

var ticketShowCmd = &cobra.Command{
	Use:   "show <ticket-id>",
	Short: "查看门票",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		t, err := a.client.Reconciler().Ticket(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printAs(t, output.TicketTable([]reconcile.Ticket{t}))
	},
}

func init() {
	ticketCmd.AddCommand(ticketBuyCmd)
	ticketCmd.AddCommand(ticketRedeemCmd)
	ticketCmd.AddCommand(ticketListCmd)
	ticketCmd.AddCommand(ticketShowCmd)
}
