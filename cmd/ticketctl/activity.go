package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/output"
	"github.com/suiticket/v1/client/core/ticketing"
)

// activityCmd 活动命令
var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "活动管理",
}

var activityFlags struct {
	name      string
	desc      string
	supply    uint64
	price     string
	saleEnds  string
	saleAfter time.Duration
}

// parseSaleEnd 支持 RFC3339 时间或相对时长
func parseSaleEnd(at string, after time.Duration, now time.Time) (time.Time, error) {
	switch {
	case at != "" && after > 0:
		return time.Time{}, fmt.Errorf("--sale-ends 与 --sale-for 只能指定一个")
	case at != "":
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return time.Time{}, fmt.Errorf("售票截止时间格式应为 RFC3339: %w", err)
		}
		return t, nil
	case after > 0:
		return now.Add(after), nil
	default:
		return time.Time{}, fmt.Errorf("需要 --sale-ends 或 --sale-for")
	}
}

var activityCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "创建活动",
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := builder.ParseAmount(activityFlags.price)
		if err != nil {
			return err
		}
		endsAt, err := parseSaleEnd(activityFlags.saleEnds, activityFlags.saleAfter, time.Now())
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return printResult(a.client.Actions().CreateActivity(cmd.Context(), a.sess, ticketing.ActivityInput{
			Name:        activityFlags.name,
			Description: activityFlags.desc,
			TotalSupply: activityFlags.supply,
			TicketPrice: price.Mist(),
			SaleEndsAt:  endsAt,
		}))
	},
}

var activityShowCmd = &cobra.Command{
	Use:   "show <activity-id>",
	Short: "查看活动",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		act, err := a.client.Reconciler().Activity(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printAs(act, output.ActivityTable(act))
	},
}

func init() {
	f := activityCreateCmd.Flags()
	f.StringVar(&activityFlags.name, "name", "", "活动名称")
	f.StringVar(&activityFlags.desc, "desc", "", "活动描述")
	f.Uint64Var(&activityFlags.supply, "supply", 0, "票量")
	f.StringVar(&activityFlags.price, "price", "0", "票价，如 1.5sui 或以 MIST 计的整数")
	f.StringVar(&activityFlags.saleEnds, "sale-ends", "", "售票截止时间 (RFC3339)")
	f.DurationVar(&activityFlags.saleAfter, "sale-for", 0, "从现在起的售票时长，如 72h")
	_ = activityCreateCmd.MarkFlagRequired("name")
	_ = activityCreateCmd.MarkFlagRequired("supply")

	activityCmd.AddCommand(activityCreateCmd)
	activityCmd.AddCommand(activityShowCmd)
}
