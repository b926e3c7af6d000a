package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vietddude/codementor/internal/client"
	"github.com/vietddude/codementor/internal/core/domain"
)

var (
	email    string
	password string
	name     string
	regLevel string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and store the session",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session and cached plan",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&email, "email", "", "account email")
		c.Flags().StringVar(&password, "password", "", "account password (or CODEMENTOR_PASSWORD)")
	}
	registerCmd.Flags().StringVar(&name, "name", "", "display name")
	registerCmd.Flags().StringVar(&regLevel, "level", "beginner", "experience level: beginner, intermediate or advanced")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

func passwordOrEnv() string {
	if password != "" {
		return password
	}
	return envPassword()
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c, err := newClient(ctx)
	if err != nil {
		return err
	}
	res := c.Login(ctx, email, passwordOrEnv())
	return show(cmd.OutOrStdout(), res, printWelcome)
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c, err := newClient(ctx)
	if err != nil {
		return err
	}
	res := c.Register(ctx, client.RegisterRequest{
		Name:            name,
		Email:           email,
		Password:        passwordOrEnv(),
		ExperienceLevel: regLevel,
	})
	return show(cmd.OutOrStdout(), res, printWelcome)
}

func printWelcome(w io.Writer, r *client.AuthResponse) {
	if r == nil || r.User == nil {
		return
	}
	who := r.User.Name
	if who == "" {
		who = domain.DisplayName(r.User.Email)
	}
	_, _ = fmt.Fprintf(w, "Signed in as %s\n", who)
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c, err := newClient(ctx)
	if err != nil {
		return err
	}
	if err := c.Logout(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c, err := newClient(ctx)
	if err != nil {
		return err
	}
	if !c.Session().Authenticated() {
		return errors.New("not signed in, run `codementor login`")
	}
	out := cmd.OutOrStdout()
	if c.Session().Demo() {
		_, _ = fmt.Fprintf(out, "[%s] %s\n", client.NoticeWarning, client.DemoModeMessage)
	}
	return show(out, c.Me(ctx), printUser)
}
