package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/smartspend/internal/cli"
	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the sync account",
		Long:  `Point smartspend at a sync server, create an account, log in and out.`,
	}

	cmd.AddCommand(authURLCmd())
	cmd.AddCommand(authRegisterCmd())
	cmd.AddCommand(authLoginCmd())
	cmd.AddCommand(authLogoutCmd())
	cmd.AddCommand(authStatusCmd())
	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url [endpoint]",
		Short: "Show or set the sync server URL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				if url := ws.session.APIURL(); url != "" {
					fmt.Fprintln(out, url)
				} else {
					info(out, "No sync server configured")
				}
				return nil
			}

			url, err := ws.session.SetAPIURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			success(out, "Sync server set to %s", url)
			return nil
		},
	}
}

// readCredential takes username and password from flags, prompting for
// whatever is missing.
func readCredential(cmd *cobra.Command) (model.Credential, error) {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("SMARTSPEND_PASSWORD")
	}

	p := newPrompter(cmd)
	var err error
	if username == "" {
		if username, err = p.AskRequired(cmd.Context(), "Username"); err != nil {
			return model.Credential{}, err
		}
	}
	if password == "" {
		if password, err = p.AskRequired(cmd.Context(), "Password"); err != nil {
			return model.Credential{}, err
		}
	}
	return model.Credential{Username: username, Password: password}, nil
}

func credentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("username", "u", "", "account username")
	cmd.Flags().StringP("password", "p", "", "account password (or SMARTSPEND_PASSWORD)")
}

func authRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the sync server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			cred, err := readCredential(cmd)
			if err != nil {
				return err
			}

			reply := ws.session.Register(cmd.Context(), cred)
			if !reply.Success {
				return fmt.Errorf("registration failed: %w", reply.Err())
			}
			success(cmd.OutOrStdout(), "%s. Run 'smartspend auth login' to start syncing.", reply.Message)
			return nil
		},
	}
	credentialFlags(cmd)
	return cmd
}

func authLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and pull remote data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ws, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			cred, err := readCredential(cmd)
			if err != nil {
				return err
			}

			reply := ws.session.Login(ctx, cred)
			if !reply.Success {
				return fmt.Errorf("login failed: %w", reply.Err())
			}
			out := cmd.OutOrStdout()
			success(out, "Logged in as %s", cred.Username)

			return reportRemoteLoad(ctx, cmd, ws)
		},
	}
	credentialFlags(cmd)
	return cmd
}

// reportRemoteLoad loads the controller after login and says what came down.
func reportRemoteLoad(ctx context.Context, cmd *cobra.Command, ws *workspace) error {
	ws.ctrl = newController(ws)
	res, err := ws.ctrl.Load(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case res.Synced && len(res.Merged) > 0:
		info(out, "Pulled %v from the server", res.Merged)
	case res.Synced:
		info(out, "No remote data yet; it will be uploaded on your next change")
	default:
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Could not load remote data: %v", res.Remote.Err())))
	}
	return nil
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out; local data is kept",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			if !ws.session.Active() {
				info(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			user := ws.session.User()
			if err := ws.session.Logout(cmd.Context()); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Logged out %s", user)
			return nil
		},
	}
}

func authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync server and login state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			url := ws.session.APIURL()
			if url == "" {
				url = "(not configured)"
			}
			user := "guest"
			if ws.session.Active() {
				user = ws.session.User()
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable(
				[]string{"Setting", "Value"},
				[][]string{
					{"Server", url},
					{"User", user},
					{"Data", ws.store.Path()},
				},
			))
			return nil
		},
	}
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authorize the sync server's Google Sheets backend",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Open your browser to authenticate with Google
2. Save the token next to your config
3. Update your config file with the refresh token

Only the machine running 'smartspend serve --backend sheets' needs this.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")

	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}

	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("OAuth2 credentials not found. Please set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret flags")
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	tokenFile := filepath.Join(configDir, "smartspend", "sheets-token.json")

	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	token, err := sheets.GetOrCreateToken(ctx, sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
	}, func(url string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to authorize access:\n\n  %s\n\n", url)
		openBrowser(url)
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	viper.Set("sheets.refresh_token", token.RefreshToken)
	if err := saveConfig(); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		fmt.Fprintf(cmd.OutOrStdout(), "Add this to your config.yaml:\n\nsheets:\n  refresh_token: %q\n", token.RefreshToken)
		return nil
	}

	success(cmd.OutOrStdout(), "Google Sheets authorized. Start the server with 'smartspend serve --backend sheets'.")
	return nil
}

func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		configFile = filepath.Join(home, ".config", "smartspend", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}

// openBrowser tries to open the URL in the default browser.
func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start() //nolint:gosec
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start() //nolint:gosec
	case "darwin":
		err = exec.Command("open", url).Start() //nolint:gosec
	}
	if err != nil {
		slog.Debug("Failed to open browser", "error", err)
	}
}
