// Package cmd (auth.go) defines the commands that obtain, inspect and
// discard the stored OAuth refresh token.
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/sheets-client/internal/app"
	"github.com/tonimelisma/sheets-client/internal/ui"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication with Google",
	Long:  `Provides subcommands to log in, inspect the current credentials and log out.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with the authorization code flow",
	Long: `Logs in in two steps. Without --code a consent URL is printed and the
pending login is remembered for 15 minutes. Open the URL, grant access,
then run the command again with --code and the code Google shows you.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Bootstrap(cmd)
		if err != nil {
			return err
		}
		return authLoginLogic(a, cmd)
	},
}

func authLoginLogic(a *app.App, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	code, err := cmd.Flags().GetString("code")
	if err != nil {
		return fmt.Errorf("error parsing code flag: %w", err)
	}

	if code != "" {
		if err := a.CompleteLogin(cmd.Context(), code); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		ui.Success(out, "Login successful!")
		return nil
	}

	if a.Config.RefreshToken != "" {
		fmt.Fprintln(out, "You are already logged in. To switch accounts, run 'sheets-client auth logout' first.")
		return nil
	}

	authURL, err := a.StartLogin()
	if err != nil {
		return fmt.Errorf("login initiation failed: %w", err)
	}
	fmt.Fprintf(out, "To complete authentication, open this URL in a web browser:\n%s\n\n", authURL)
	fmt.Fprintln(out, "Then run: sheets-client auth login --code <code>")
	return nil
}

var authURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the consent URL for 'auth exchange'",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Bootstrap(cmd)
		if err != nil {
			return err
		}
		authURL, err := a.AuthorizationURL()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), authURL)
		return nil
	},
}

var authExchangeCmd = &cobra.Command{
	Use:   "exchange <code>",
	Short: "Store the refresh token for a code obtained from 'auth url'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Bootstrap(cmd)
		if err != nil {
			return err
		}
		if err := a.ExchangeCode(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("exchanging code: %w", err)
		}
		ui.Success(cmd.OutOrStdout(), "Login successful!")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the current authentication status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Bootstrap(cmd)
		if err != nil {
			return err
		}
		st, err := a.Status()
		if err != nil {
			return fmt.Errorf("checking authentication status: %w", err)
		}
		ui.DisplayAuthStatus(cmd.OutOrStdout(), st, time.Now())
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored credentials",
	Long:  `Removes the stored refresh token, the cached access token and any pending login.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Bootstrap(cmd)
		if err != nil {
			return err
		}
		if err := a.Logout(); err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}
		ui.Success(cmd.OutOrStdout(), "You have been logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd, authURLCmd, authExchangeCmd, authStatusCmd, authLogoutCmd)
	authLoginCmd.Flags().String("code", "", "Authorization code completing a pending login")
}
