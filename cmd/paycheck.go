package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	paycheckUser string
	chartOut     string
)

var paycheckCmd = &cobra.Command{
	Use:   "paycheck",
	Short: "Paycheck reports",
}

var validatePaycheckCmd = &cobra.Command{
	Use:   "validate",
	Short: "List paychecks whose net pay does not match the calculated net pay",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()
		svc := a.services()

		var userIDs []string
		if paycheckUser != "" {
			u, err := svc.user.GetByEmail(ctx, paycheckUser)
			if err != nil {
				return fmt.Errorf("user %s: %w", paycheckUser, err)
			}
			userIDs = []string{u.ID}
		} else if userIDs, err = svc.paycheck.UserIDs(ctx); err != nil {
			return err
		}

		mismatches := 0
		for _, id := range userIDs {
			bad, err := svc.paycheck.ValidateNetPay(ctx, id)
			if err != nil {
				return err
			}
			for _, p := range bad {
				mismatches++
				fmt.Printf("user=%s paycheck=%s pay_date=%s employer=%q net_pay=%s calculated=%s difference=%s\n",
					id, p.ID, p.PayDate, p.Employer,
					p.NetPay.StringFixed(2), p.CalculatedNetPay.StringFixed(2), p.NetPayDifference.StringFixed(2))
			}
		}

		fmt.Printf("%d mismatching paychecks across %d users\n", mismatches, len(userIDs))
		return nil
	},
}

var chartPaycheckCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the monthly paycheck trend chart as PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()
		svc := a.services()

		u, err := svc.user.GetByEmail(ctx, paycheckUser)
		if err != nil {
			return fmt.Errorf("user %s: %w", paycheckUser, err)
		}

		f, err := os.Create(chartOut)
		if err != nil {
			return err
		}
		if err := svc.paycheck.TrendsChart(ctx, u.ID, f); err != nil {
			f.Close()
			_ = os.Remove(chartOut)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		fmt.Println("Wrote", chartOut)
		return nil
	},
}

func init() {
	validatePaycheckCmd.Flags().StringVar(&paycheckUser, "user", "", "email of a single user (default: every user with paychecks)")

	chartPaycheckCmd.Flags().StringVar(&paycheckUser, "user", "", "email of the user")
	chartPaycheckCmd.Flags().StringVar(&chartOut, "out", "trends.png", "output file")
	_ = chartPaycheckCmd.MarkFlagRequired("user")

	paycheckCmd.AddCommand(validatePaycheckCmd, chartPaycheckCmd)
	rootCmd.AddCommand(paycheckCmd)
}
