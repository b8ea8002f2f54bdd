// ABOUTME: Login command for the geochallenge CLI
// ABOUTME: Prompts for credentials and stores the session tokens

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/api"
)

var (
	loginIdentifier string
	loginPassword   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the GeoChallenge Tracker",
	Long: `Authenticate against the backend and store the session.

The refresh token is kept in the config directory so later commands and
new shells can resume the session without asking for the password again.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		client, _, err := newClient()
		exitOnError(err, 1)

		if loginIdentifier == "" || loginPassword == "" {
			exitOnError(promptCredentials(), 1)
		}

		exitCode := runLogin(ctx, os.Stdout, client, loginIdentifier, loginPassword)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginIdentifier, "user", "u", "", "Username or email (prompted when omitted)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

// promptCredentials fills in whatever the flags left empty
func promptCredentials() error {
	var fields []huh.Field
	if loginIdentifier == "" {
		fields = append(fields, huh.NewInput().
			Title("Username or email").
			Placeholder("e.g., marvin or marvin@example.org").
			Value(&loginIdentifier).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("identifier is required")
				}
				return nil
			}))
	}
	if loginPassword == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&loginPassword).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("password is required")
				}
				return nil
			}))
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	return form.Run()
}

// runLogin authenticates and reports the result, returning an exit code
func runLogin(ctx context.Context, w io.Writer, client *api.Client, identifier, password string) int {
	if err := client.Login(ctx, identifier, password); err != nil {
		if api.IsUnauthorized(err) {
			fmt.Fprintln(w, "Login failed: invalid credentials.")
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if user := client.Store().User(); user != nil {
		fmt.Fprintf(w, "Logged in as %s.\n", user.Username)
		if user.Location != nil {
			fmt.Fprintf(w, "Home location: %s\n", user.Location)
		}
	} else {
		fmt.Fprintln(w, "Logged in.")
	}
	return 0
}
