package main

import (
	"strings"

	"github.com/spf13/cobra"
)

// registerCmd 注册命令
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "注册用户或活动组织者",
}

var registerUserCmd = &cobra.Command{
	Use:   "user <name>",
	Short: "注册用户，购票前需要",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return printResult(a.client.Actions().RegisterUser(cmd.Context(), a.sess, strings.Join(args, " ")))
	},
}

var registerOrganizerCmd = &cobra.Command{
	Use:   "organizer <name>",
	Short: "注册活动组织者",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return printResult(a.client.Actions().RegisterOrganizer(cmd.Context(), a.sess, strings.Join(args, " ")))
	},
}

type registrationTable struct {
	user, organizer string
}

func (t registrationTable) TableRows() [][]string {
	return [][]string{{"身份", "状态"}, {"用户", t.user}, {"组织者", t.organizer}}
}

var registerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "查看当前账户的注册情况",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		rec := a.client.Reconciler()
		user, err := rec.ResolveUser(cmd.Context(), a.sess)
		if err != nil {
			return err
		}
		org, err := rec.ResolveOrganizer(cmd.Context(), a.sess)
		if err != nil {
			return err
		}

		table := registrationTable{user: user.Status, organizer: org.Status}
		if user.Found {
			table.user = user.Profile.Name + " (" + user.Profile.ID + ")"
		}
		if org.Found {
			table.organizer = org.Profile.Name + " (" + org.Profile.ID + ")"
			if org.Profile.Verified() {
				table.organizer += " 已认证"
			}
		}
		return printAs(map[string]interface{}{"user": user, "organizer": org}, table)
	},
}

func init() {
	registerCmd.AddCommand(registerUserCmd)
	registerCmd.AddCommand(registerOrganizerCmd)
	registerCmd.AddCommand(registerStatusCmd)
}
