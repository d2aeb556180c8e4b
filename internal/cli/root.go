package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/config"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/pkg/utilities"
)

type state struct {
	api   string
	store string
	plain bool
	debug bool

	lines *bufio.Reader
}

// NewRootCmd creates the root cobra command for the gada CLI.
func NewRootCmd() *cobra.Command {
	st := &state{}
	root := &cobra.Command{
		Use:          "gada",
		Short:        "Gada Special Economic Zone website client",
		Long:         "gada browses the Gada SEZ site, manages your session and runs the admin tools from the terminal.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&st.api, "api", "", "API base URL (or GADA_API_BASE env)")
	root.PersistentFlags().StringVar(&st.store, "token-store", "", "Token store: file, memory, sql, redis (or GADA_TOKEN_STORE env)")
	root.PersistentFlags().BoolVar(&st.plain, "plain", false, "Render without colors")
	root.PersistentFlags().BoolVar(&st.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newOpenCmd(st),
		newSessionCmd(st),
		newLoginCmd(st),
		newLogoutCmd(st),
		newRegisterCmd(st),
		newVerifyEmailCmd(st),
		newResendVerificationCmd(st),
		newForgotPasswordCmd(st),
		newResetPasswordCmd(st),
		newNewsCmd(st),
		newProposeCmd(st),
		newAdminCmd(st),
	)
	return root
}

// run builds the App for one invocation and tears it down afterwards.
func (st *state) run(fn func(ctx context.Context, a *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := config.ConfigFromEnv()
		if st.api != "" {
			cfg.APIBase = strings.TrimRight(st.api, "/")
		}
		if st.store != "" {
			cfg.TokenStore = strings.ToLower(st.store)
		}

		lc := utilities.ConfigFromEnv()
		if os.Getenv("LOG_LEVEL") == "" {
			lc.Level = "warn"
		}
		if st.debug {
			lc.Level = "debug"
		}
		lc.Output = cmd.ErrOrStderr()
		lg, err := utilities.Init(lc)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer lg.Sync()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := NewApp(ctx, cfg, lg.Sugar(), cmd.OutOrStdout(), st.plain)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, a, args)
	}
}

// password reads a secret from file, the terminal without echo, or one
// line of piped input, in that order.
func (st *state) password(cmd *cobra.Command, prompt, file string) (string, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read password file: %w", err)
		}
		return strings.TrimRight(string(b), "\r\n"), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	if st.lines == nil {
		st.lines = bufio.NewReader(in)
	}
	line, err := st.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
