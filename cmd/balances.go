package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var balancesUser string

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Account balance maintenance",
}

var balancesRecomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute account balances from transactions",
	Long:  `Set every account balance to its starting balance plus the sum of its transactions, for one user or for everyone.`,
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

		if balancesUser == "" {
			n, err := svc.account.RecomputeAll(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Recomputed balances for %d users\n", n)
			return nil
		}

		u, err := svc.user.GetByEmail(ctx, balancesUser)
		if err != nil {
			return fmt.Errorf("user %s: %w", balancesUser, err)
		}
		updates, err := svc.account.RecomputeBalances(ctx, u.ID)
		if err != nil {
			return err
		}
		for _, up := range updates {
			fmt.Printf("%-36s %-24s %12s -> %12s\n", up.AccountID, up.Name, up.PreviousBalance.StringFixed(2), up.Balance.StringFixed(2))
		}
		return nil
	},
}

func init() {
	balancesRecomputeCmd.Flags().StringVar(&balancesUser, "user", "", "email of a single user (default: all users)")
	balancesCmd.AddCommand(balancesRecomputeCmd)
	rootCmd.AddCommand(balancesCmd)
}
