package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/auth"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/router"
)

func newOpenCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "open [fragment]",
		Short: "Show a page, e.g. open investor, open '#news/12', open admin-dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			fragment := router.LandingFragment
			if len(args) == 1 {
				fragment = args[0]
			}
			return a.show(ctx, a.Router.Start(ctx, fragment))
		}),
	}
}

func newSessionCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			s := a.Session.Refresh(ctx)
			if !s.Valid {
				a.printf("Not logged in\n")
				return nil
			}
			role := s.Role
			if role == "" {
				role = "-"
			}
			a.printf("Logged in\nrole:      %s\nclient id: %s\n", role, a.Session.ClientID())
			return nil
		}),
	}
}

func newLoginCmd(st *state) *cobra.Command {
	var username, passwordFile string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and open the page for your role",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		password, err := st.password(cmd, "Password: ", passwordFile)
		if err != nil {
			return err
		}
		d, err := a.Auth.Login(ctx, username, password)
		if err != nil {
			return err
		}
		a.printf("Logged in as %s\n", strings.TrimSpace(username))
		return a.show(ctx, d)
	})
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVar(&passwordFile, "password-file", "", "Read the password from a file")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the session",
		Args:  cobra.NoArgs,
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			d := a.Auth.Logout(ctx)
			a.printf("Logged out\n")
			return a.show(ctx, d)
		}),
	}
}

func newRegisterCmd(st *state) *cobra.Command {
	var reg auth.Registration
	var passwordFile string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		var err error
		if reg.Password, err = st.password(cmd, "Password: ", passwordFile); err != nil {
			return err
		}
		reg.ConfirmPassword = reg.Password
		if passwordFile == "" {
			if reg.ConfirmPassword, err = st.password(cmd, "Confirm password: ", ""); err != nil {
				return err
			}
		}
		u, err := a.Auth.Register(ctx, reg)
		if err != nil {
			return err
		}
		a.printf("Registered %s. Check %s for the verification code, then run: gada verify-email <code> --username %s\n", u.Username, reg.Email, u.Username)
		return nil
	})
	cmd.Flags().StringVarP(&reg.Username, "username", "u", "", "Username")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&reg.Role, "role", "", "Requested role (default user)")
	cmd.Flags().StringVar(&passwordFile, "password-file", "", "Read the password from a file")
	return cmd
}

func newVerifyEmailCmd(st *state) *cobra.Command {
	var v auth.Verification
	cmd := &cobra.Command{
		Use:   "verify-email <code>",
		Short: "Verify your email with the 6-digit code",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		v.Code = args[0]
		msg, err := a.Auth.VerifyEmail(ctx, v)
		if err != nil {
			return err
		}
		a.printf("%s\n", msg.Detail)
		return nil
	})
	cmd.Flags().StringVarP(&v.Username, "username", "u", "", "Username")
	cmd.Flags().StringVar(&v.Email, "email", "", "Email address")
	return cmd
}

func newResendVerificationCmd(st *state) *cobra.Command {
	var username, passwordFile string
	cmd := &cobra.Command{
		Use:   "resend-verification",
		Short: "Send a new verification email",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		password, err := st.password(cmd, "Password: ", passwordFile)
		if err != nil {
			return err
		}
		msg, err := a.Auth.SendVerification(ctx, username, password)
		if err != nil {
			return err
		}
		a.printf("%s\n", msg.Detail)
		if msg.Token != "" {
			a.printf("Code: %s\n", msg.Token)
		}
		return nil
	})
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVar(&passwordFile, "password-file", "", "Read the password from a file")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newForgotPasswordCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			msg, err := a.Auth.RequestPasswordReset(ctx, args[0])
			if err != nil {
				return err
			}
			a.printf("%s\n", msg.Detail)
			return nil
		}),
	}
}

func newResetPasswordCmd(st *state) *cobra.Command {
	var passwordFile string
	cmd := &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Set a new password with the token from the reset email",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		password, err := st.password(cmd, "New password: ", passwordFile)
		if err != nil {
			return err
		}
		confirm := password
		if passwordFile == "" {
			if confirm, err = st.password(cmd, "Confirm password: ", ""); err != nil {
				return err
			}
		}
		msg, err := a.Auth.ResetPassword(ctx, args[0], password, confirm)
		if err != nil {
			return err
		}
		a.printf("%s\n", msg.Detail)
		return nil
	})
	cmd.Flags().StringVar(&passwordFile, "password-file", "", "Read the password from a file")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
