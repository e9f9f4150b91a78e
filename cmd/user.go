package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/finance-tracker/internal/user"
	"github.com/spf13/cobra"
)

var signupInput user.SignupDTO

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management commands",
}

var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
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

		u, err := a.services().user.Signup(ctx, signupInput)
		if err != nil {
			return err
		}

		fmt.Println("Created user:", u.Email)
		fmt.Println("ID:     ", u.ID)
		fmt.Println("API key:", u.APIKey)
		return nil
	},
}

func init() {
	f := createUserCmd.Flags()
	f.StringVar(&signupInput.Email, "email", "", "email address")
	f.StringVar(&signupInput.Username, "username", "", "unique username")
	f.StringVar(&signupInput.Password, "password", "", "password (8 to 72 characters)")
	f.StringVar(&signupInput.FirstName, "first-name", "", "first name")
	f.StringVar(&signupInput.LastName, "last-name", "", "last name")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("password")

	userCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(userCmd)
}
