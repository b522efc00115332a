package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gpse/sesam-client/internal/api"
	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
	apperrors "github.com/gpse/sesam-client/internal/errors"
	"github.com/gpse/sesam-client/internal/service"
)

type profileView struct {
	Forename string   `json:"forename"`
	Surname  string   `json:"surname"`
	Email    string   `json:"email"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Admin    bool     `json:"admin"`
}

func newProfileView(p domainauth.Profile) profileView {
	return profileView{
		Forename: p.Forename,
		Surname:  p.Surname,
		Email:    p.Email,
		Username: p.Username,
		Roles:    p.Roles.Strings(),
		Admin:    p.IsAdmin(),
	}
}

func (cc *commandContext) printProfile(p domainauth.Profile) error {
	v := newProfileView(p)
	return cc.printer.print(v, func(w io.Writer) {
		writef(w, "NAME\t%s %s\n", v.Forename, v.Surname)
		writef(w, "EMAIL\t%s\n", v.Email)
		writef(w, "ROLES\t%s\n", strings.Join(v.Roles, ","))
	})
}

// readSecret returns flagValue or, when fromStdin is set, the first line of stdin.
func (cc *commandContext) readSecret(flagValue string, fromStdin bool) (string, error) {
	if !fromStdin {
		return flagValue, nil
	}
	line, err := bufio.NewReader(cc.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("login")
	email := fs.StringP("email", "e", "", "account email")
	password := fs.StringP("password", "p", "", "account password")
	passwordStdin := fs.Bool("password-stdin", false, "read the password from stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cc.enter("login", nil); err != nil {
		return err
	}

	secret, err := cc.readSecret(*password, *passwordStdin)
	if err != nil {
		return err
	}
	profile, err := cc.Runtime.Auth.RequestToken(cc.Ctx, service.Credentials{Email: *email, Password: secret})
	if err != nil {
		if apperrors.IsActivationRequired(err) {
			return errors.New("account not activated; confirm your registration first")
		}
		return err
	}
	return cc.printProfile(*profile)
}

func runLogout(cc *commandContext, _ []string) error {
	if err := cc.Runtime.Session.Logout(cc.Ctx); err != nil {
		return err
	}
	writef(cc.Err, "logged out\n")
	return nil
}

func runWhoami(cc *commandContext, _ []string) error {
	if err := cc.enter("profile", nil); err != nil {
		return err
	}
	p, ok := cc.Runtime.Profiles.Current()
	if !ok {
		return errLoginRequired
	}
	return cc.printProfile(p)
}

func runRegister(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("register")
	forename := fs.String("forename", "", "first name")
	surname := fs.String("surname", "", "last name")
	email := fs.StringP("email", "e", "", "account email")
	password := fs.StringP("password", "p", "", "account password")
	passwordStdin := fs.Bool("password-stdin", false, "read the password from stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cc.enter("registration", nil); err != nil {
		return err
	}

	secret, err := cc.readSecret(*password, *passwordStdin)
	if err != nil {
		return err
	}
	outcome, err := cc.Runtime.API.Register(cc.Ctx, *forename, *surname, *email, secret)
	if err != nil {
		return err
	}
	switch outcome {
	case api.Registered:
		writef(cc.Out, "registered; check %s for the confirmation mail\n", *email)
		return nil
	case api.UserExists:
		return fmt.Errorf("an account for %s already exists", *email)
	default:
		return fmt.Errorf("registration rejected: %s", outcome)
	}
}

func runConfirmRegistration(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("confirm-registration")
	email := fs.StringP("email", "e", "", "account email")
	token := fs.StringP("token", "t", "", "token from the registration mail")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cc.enter("redirectRegistration", map[string]string{"email": *email, "token": *token}); err != nil {
		return err
	}

	ok, err := cc.Runtime.API.ConfirmRegistration(cc.Ctx, *email, *token)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("registration token rejected")
	}
	writef(cc.Out, "account activated\n")
	return nil
}

func runResetPassword(cc *commandContext, args []string) error {
	return dispatch(cc, "reset-password", map[string]subcommand{
		"request": {description: "Mail a password reset token", run: runResetPasswordRequest},
		"confirm": {description: "Set a new password with a reset token", run: runResetPasswordConfirm},
	}, args)
}

func runResetPasswordRequest(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("reset-password request")
	email := fs.StringP("email", "e", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cc.enter("login", nil); err != nil {
		return err
	}
	if err := cc.Runtime.Auth.RequestPasswordReset(cc.Ctx, *email); err != nil {
		return err
	}
	writef(cc.Out, "reset mail requested for %s\n", *email)
	return nil
}

func runResetPasswordConfirm(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("reset-password confirm")
	email := fs.StringP("email", "e", "", "account email")
	token := fs.StringP("token", "t", "", "token from the reset mail")
	password := fs.StringP("password", "p", "", "new password")
	passwordStdin := fs.Bool("password-stdin", false, "read the new password from stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cc.enter("passwordReset", map[string]string{"email": *email, "token": *token}); err != nil {
		return err
	}

	secret, err := cc.readSecret(*password, *passwordStdin)
	if err != nil {
		return err
	}
	ok, err := cc.Runtime.Auth.ResetPasswordWithToken(cc.Ctx, *email, *token, secret)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("password reset rejected")
	}
	writef(cc.Out, "password updated\n")
	return nil
}

func runChangePassword(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("change-password")
	oldPassword := fs.String("old", "", "current password")
	newPassword := fs.String("new", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cc.enter("changePassword", nil); err != nil {
		return err
	}

	p, _ := cc.Runtime.Profiles.Current()
	ok, err := cc.Runtime.API.ChangePassword(cc.Ctx, p.Email, *oldPassword, *newPassword)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("password change rejected")
	}
	writef(cc.Out, "password changed\n")
	return nil
}

func runAccount(cc *commandContext, args []string) error {
	return dispatch(cc, "account", map[string]subcommand{
		"update": {description: "Change name or email", run: runAccountUpdate},
		"delete": {description: "Delete the account and log out", run: runAccountDelete},
	}, args)
}

func runAccountUpdate(cc *commandContext, args []string) error {
	if err := cc.enter("profile", nil); err != nil {
		return err
	}
	p, _ := cc.Runtime.Profiles.Current()

	fs := cc.newFlagSet("account update")
	forename := fs.String("forename", p.Forename, "first name")
	surname := fs.String("surname", p.Surname, "last name")
	email := fs.StringP("email", "e", p.Email, "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ok, err := cc.Runtime.API.ChangeUser(cc.Ctx, p.Username, *forename, *surname, *email)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("account update rejected")
	}
	writef(cc.Out, "account updated\n")
	return nil
}

func runAccountDelete(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("account delete")
	password := fs.StringP("password", "p", "", "account password")
	passwordStdin := fs.Bool("password-stdin", false, "read the password from stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cc.enter("profile", nil); err != nil {
		return err
	}

	secret, err := cc.readSecret(*password, *passwordStdin)
	if err != nil {
		return err
	}
	p, _ := cc.Runtime.Profiles.Current()
	ok, err := cc.Runtime.API.DeleteAccount(cc.Ctx, p.Email, secret)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("account deletion rejected")
	}
	if err := cc.Runtime.Session.Logout(cc.Ctx); err != nil {
		return err
	}
	writef(cc.Out, "account deleted\n")
	return nil
}
