package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/markup/internal/access"
	"github.com/felixgeelhaar/markup/internal/session"
	"github.com/felixgeelhaar/markup/internal/tui"
)

func newAuthCmd() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign out and inspect the session",
		Long: `Manage your MarkUp account session.

The bearer token is stored in <home>/auth.json. When security.encrypt_token is
on and MARKUP_TOKEN_PASSPHRASE is set, it is encrypted at rest.

Subcommands:
  login     Sign in with email and password
  register  Create an account and sign in
  logout    Sign out and forget the stored token
  status    Show who is signed in

Examples:
  markup auth login --email ada@example.com
  markup auth register --name Ada --email ada@example.com
  markup auth status --format json
  markup auth logout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	authCmd.AddCommand(newAuthLoginCmd(), newAuthRegisterCmd(), newAuthLogoutCmd(), newAuthStatusCmd())
	return authCmd
}

func newAuthLoginCmd() *cobra.Command {
	var creds tui.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to MarkUp",
		Long: `Sign in with your email and password. Missing values are prompted for.
The password is never echoed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if creds, err = a.credentials(creds, false); err != nil {
				return err
			}
			profile, err := a.store.Login(commandContext(cmd), creds.Email, creds.Password)
			if err != nil {
				return err
			}
			return a.out.Format(profileView{Profile: *profile})
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newAuthRegisterCmd() *cobra.Command {
	var creds tui.Credentials

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a MarkUp account",
		Long: `Create an account on the free plan and sign in to it.
Finish your education setup afterwards with 'markup settings set'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if creds, err = a.credentials(creds, true); err != nil {
				return err
			}
			profile, err := a.store.Register(commandContext(cmd), creds.Email, creds.Password, creds.Name)
			if err != nil {
				return err
			}
			return a.out.Format(profileView{Profile: *profile})
		},
	}

	cmd.Flags().StringVar(&creds.Name, "name", "", "display name")
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password (prompted when omitted)")
	return cmd
}

// credentials fills in whatever the flags left out.
func (a *app) credentials(c tui.Credentials, register bool) (tui.Credentials, error) {
	if tui.ShouldPrompt() {
		return tui.PromptForCredentials(c, register)
	}

	var err error
	if register {
		if c.Name, err = a.askString("Name", c.Name); err != nil {
			return c, err
		}
	}
	if c.Email, err = a.askString("Email", c.Email); err != nil {
		return c, err
	}
	if c.Password, err = a.askSecret("Password", c.Password); err != nil {
		return c, err
	}
	return c, nil
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Long:  `Forget the stored token. Signing out when already signed out is not an error.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			a.store.Logout()
			return a.out.Format(messageView{Message: "Signed out"})
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Long: `Restore the stored session and show the signed-in user, plan and
education setup. A stored token the backend rejects is discarded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			snap, err := a.session(commandContext(cmd))
			if err != nil {
				return err
			}
			return a.out.Format(a.status(snap))
		},
	}
}

func (a *app) status(snap session.Session) statusView {
	v := statusView{
		Authenticated: snap.Authenticated(),
		TokenFile:     a.tokens.Path(),
		Encrypted:     a.tokens.Encrypted(),
		BaseURL:       a.client.BaseURL,
	}
	if snap.User != nil {
		v.User = snap.User
		decision := access.Evaluate(snap.User)
		v.Access = &decision
	}
	if snap.Token != "" {
		info := session.Inspect(snap.Token)
		v.Token = &info
	}
	return v
}
