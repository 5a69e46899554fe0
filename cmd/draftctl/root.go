package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"drafts-api/client"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultURL = "http://localhost:8000"

type app struct {
	v          *viper.Viper
	configPath string
	out        io.Writer
	errOut     io.Writer
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "draftctl.yaml"
	}
	return filepath.Join(dir, "draftctl", "config.yaml")
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:          "draftctl",
		Short:        "Write drafts from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.out = cmd.OutOrStdout()
			a.errOut = cmd.ErrOrStderr()
			return a.loadConfig()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath(), "config file holding the server URL and session token")
	root.PersistentFlags().String("url", defaultURL, "drafts server base URL")
	_ = a.v.BindPFlag("url", root.PersistentFlags().Lookup("url"))

	root.AddCommand(a.signinCmd(), a.signoutCmd(), a.whoamiCmd(), a.createCmd())
	return root
}

func (a *app) loadConfig() error {
	a.v.SetEnvPrefix("DRAFTCTL")
	a.v.AutomaticEnv()
	a.v.SetDefault("url", defaultURL)
	a.v.SetConfigFile(a.configPath)

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", a.configPath, err)
	}
	return nil
}

func (a *app) saveToken(token string) error {
	a.v.Set("token", token)
	if err := os.MkdirAll(filepath.Dir(a.configPath), 0o700); err != nil {
		return err
	}
	return a.v.WriteConfigAs(a.configPath)
}

func (a *app) client() (*client.Client, error) {
	c, err := client.New(a.v.GetString("url"))
	if err != nil {
		return nil, err
	}
	c.SetSessionToken(a.v.GetString("token"))
	return c, nil
}

func (a *app) signinCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("DRAFTCTL_PASSWORD")
			}
			if email == "" || password == "" {
				return errors.New("--email and --password (or DRAFTCTL_PASSWORD) are required")
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.SignIn(cmd.Context(), email, password); err != nil {
				return err
			}
			if err := a.saveToken(c.SessionToken()); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			fmt.Fprintf(a.out, "Signed in as %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func (a *app) signoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Revoke the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.SignOut(cmd.Context()); err != nil {
				return err
			}
			return a.saveToken("")
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			state, err := client.SessionFetcher{Client: c}.Fetch(cmd.Context())
			if err != nil {
				return err
			}
			if state.Data == nil {
				fmt.Fprintln(a.out, "Not signed in")
				return nil
			}
			fmt.Fprintln(a.out, state.Data.DisplayName())
			return nil
		},
	}
}

func (a *app) createCmd() *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			nav := &terminalNavigator{client: c, out: a.out}
			page := client.NewAuthoringPage(c, nav, stderrAlerter{out: a.errOut}, log.New(a.errOut, "", log.LstdFlags))
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			if err := page.Render(a.out); err != nil {
				return err
			}
			if page.View() == client.ViewAccessDenied {
				_ = page.SignIn(cmd.Context())
				return client.ErrNotAuthenticated
			}

			page.SetTitle(title)
			page.SetContent(content)
			return page.Submit(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "draft title")
	cmd.Flags().StringVar(&content, "content", "", "draft content (markdown)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

// terminalNavigator prints the page the browser would open.
type terminalNavigator struct {
	client *client.Client
	out    io.Writer
}

func (n *terminalNavigator) Push(_ context.Context, route string) error {
	_, err := fmt.Fprintf(n.out, "Open %s\n", n.client.URL(route))
	return err
}

type stderrAlerter struct {
	out io.Writer
}

func (a stderrAlerter) Alert(message string) {
	fmt.Fprintln(a.out, message)
}
