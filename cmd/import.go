package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/frahmantamala/finance-tracker/internal/user"
	"github.com/spf13/cobra"
)

var (
	importUser string
	importFile string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV files for a user",
	Long:  `Run the transaction or category CSV importers against a local file.`,
}

var importTransactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Import a transactions CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), func(ctx context.Context, a *app, svc *services, u *user.User, f *os.File) (any, error) {
			result, err := svc.transaction.ImportCSV(ctx, u.ID, f, a.cfg.Import.WithDefaults().MaxErrorDetails)
			if err != nil {
				return nil, err
			}
			if result.TransactionsCreated > 0 {
				// no worker pool runs here, so recompute inline
				if _, err := svc.account.RecomputeBalances(ctx, u.ID); err != nil {
					return nil, err
				}
			}
			return result, nil
		})
	},
}

var importCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Import a categories CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), func(ctx context.Context, a *app, svc *services, u *user.User, f *os.File) (any, error) {
			return svc.category.ImportCSV(ctx, u.ID, f, a.cfg.Import.WithDefaults().MaxErrorDetails)
		})
	},
}

type importFunc func(ctx context.Context, a *app, svc *services, u *user.User, f *os.File) (any, error)

func runImport(ctx context.Context, run importFunc) error {
	if ctx == nil {
		ctx = context.Background()
	}

	f, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", importFile, err)
	}
	defer f.Close()

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	svc := a.services()
	u, err := svc.user.GetByEmail(ctx, importUser)
	if err != nil {
		return fmt.Errorf("user %s: %w", importUser, err)
	}

	result, err := run(ctx, a, svc, u, f)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func init() {
	for _, c := range []*cobra.Command{importTransactionsCmd, importCategoriesCmd} {
		c.Flags().StringVar(&importUser, "user", "", "email of the owning user")
		c.Flags().StringVar(&importFile, "file", "", "path to the CSV file")
		_ = c.MarkFlagRequired("user")
		_ = c.MarkFlagRequired("file")
		importCmd.AddCommand(c)
	}

	rootCmd.AddCommand(importCmd)
}
