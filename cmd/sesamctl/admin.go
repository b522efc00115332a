package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gpse/sesam-client/internal/api"
	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
	"github.com/gpse/sesam-client/internal/domain/model"
	"golang.org/x/sync/errgroup"
)

func printCredentials(cc *commandContext, creds []model.CredentialSchema) error {
	return cc.printer.print(creds, func(w io.Writer) {
		writef(w, "ID\tNAME\tORIGIN\tFIELDS\n")
		for _, c := range creds {
			writef(w, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Origin, strings.Join(c.Fields, ","))
		}
	})
}

func runCredentials(cc *commandContext, args []string) error {
	return dispatch(cc, "credentials", map[string]subcommand{
		"mine":      {description: "Credentials the logged-in user holds", run: runCredentialsMine},
		"issuable":  {description: "Credentials the logged-in user may issue", run: runCredentialsIssuable},
		"list":      {description: "All credential schemas", run: runCredentialsList},
		"unions":    {description: "Credentials and credential groups usable in room requirements", run: runCredentialsUnions},
		"show":      {description: "Show a credential schema", run: runCredentialsShow},
		"update":    {description: "Update name, origin or description of a credential", run: runCredentialsUpdate},
		"checklist": {description: "Replace the issuing checklist of a credential", run: runCredentialsChecklist},
		"issue":     {description: "Create an issuing QR code for a credential", run: runCredentialsIssue},
	}, args)
}

func runCredentialsMine(cc *commandContext, _ []string) error {
	if err := cc.enter("UserCredentialView", nil); err != nil {
		return err
	}
	creds, err := cc.Runtime.API.PermittedCredentials(cc.Ctx)
	if err != nil {
		return err
	}
	return printCredentials(cc, creds)
}

func runCredentialsIssuable(cc *commandContext, _ []string) error {
	if err := cc.enter("issuer", nil); err != nil {
		return err
	}
	creds, err := cc.Runtime.API.IssuableCredentials(cc.Ctx)
	if err != nil {
		return err
	}
	return printCredentials(cc, creds)
}

func runCredentialsList(cc *commandContext, _ []string) error {
	if err := cc.enter("credentialManagement", nil); err != nil {
		return err
	}
	creds, err := cc.Runtime.API.Credentials(cc.Ctx)
	if err != nil {
		return err
	}
	return printCredentials(cc, creds)
}

func runCredentialsUnions(cc *commandContext, _ []string) error {
	if err := cc.enter("credentialManagement", nil); err != nil {
		return err
	}
	unions, err := cc.Runtime.API.CredentialGroupUnions(cc.Ctx)
	if err != nil {
		return err
	}
	return cc.printer.print(unions, func(w io.Writer) {
		writef(w, "ID\tNAME\tGROUP\tATTRIBUTES\n")
		for _, u := range unions {
			writef(w, "%d\t%s\t%s\t%s\n", u.ID, u.Name, yesNo(u.IsGroup), strings.Join(u.Attributes, ","))
		}
	})
}

func runCredentialsShow(cc *commandContext, args []string) error {
	if err := exactArgs(cc, "credentials show CREDENTIAL_ID", args, 1); err != nil {
		return err
	}
	id, err := parseID("credential", args[0])
	if err != nil {
		return err
	}
	if err := cc.enter("credentialEdit", map[string]string{"id": args[0]}); err != nil {
		return err
	}
	cred, err := cc.Runtime.API.Credential(cc.Ctx, id)
	if err != nil {
		return err
	}
	return cc.printer.print(cred, func(w io.Writer) {
		writef(w, "ID\t%d\n", cred.ID)
		writef(w, "NAME\t%s\n", cred.Name)
		writef(w, "ORIGIN\t%s\n", cred.Origin)
		writef(w, "DESCRIPTION\t%s\n", cred.Additional)
		writef(w, "DID\t%s\n", cred.CredentialDID)
		writef(w, "FIELDS\t%s\n", strings.Join(cred.Fields, ","))
		for i, item := range cred.Checklist {
			writef(w, "CHECK %d\t%s\n", i+1, item)
		}
	})
}

func runCredentialsUpdate(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("credentials update")
	name := fs.String("name", "", "display name")
	origin := fs.String("origin", "", "issuing organisation")
	additional := fs.String("description", "", "additional information")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := exactArgs(cc, "credentials update CREDENTIAL_ID [--name N] [--origin O] [--description D]", fs.Args(), 1); err != nil {
		return err
	}
	id, err := parseID("credential", fs.Arg(0))
	if err != nil {
		return err
	}
	if err := cc.enter("credentialEdit", map[string]string{"id": fs.Arg(0)}); err != nil {
		return err
	}

	msg, err := cc.Runtime.API.UpdateCredential(cc.Ctx, id, *name, *origin, *additional)
	if err != nil {
		return err
	}
	writef(cc.Out, "%s\n", strings.TrimSpace(msg))
	return nil
}

func runCredentialsChecklist(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("credentials checklist")
	items := fs.StringArray("item", nil, "checklist entry (repeatable, order is kept)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := exactArgs(cc, "credentials checklist CREDENTIAL_ID --item TEXT...", fs.Args(), 1); err != nil {
		return err
	}
	id, err := parseID("credential", fs.Arg(0))
	if err != nil {
		return err
	}
	if err := cc.enter("editChecklist", map[string]string{"credentialId": fs.Arg(0)}); err != nil {
		return err
	}
	if err := cc.Runtime.API.UpdateChecklist(cc.Ctx, id, *items); err != nil {
		return err
	}
	writef(cc.Out, "checklist of credential %d updated (%d items)\n", id, len(*items))
	return nil
}

type issueView struct {
	DefinitionID string `json:"definitionId"`
	URL          string `json:"url"`
}

func runCredentialsIssue(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("credentials issue")
	attrs := fs.StringToString("attr", nil, "attribute value as name=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := exactArgs(cc, "credentials issue DEFINITION_ID --attr name=value...", fs.Args(), 1); err != nil {
		return err
	}
	if err := cc.enter("issuer", nil); err != nil {
		return err
	}

	url, err := cc.Runtime.API.CreateIssueQR(cc.Ctx, fs.Arg(0), *attrs)
	if err != nil {
		return err
	}
	view := issueView{DefinitionID: fs.Arg(0), URL: strings.TrimSpace(url)}
	return cc.printer.print(view, func(w io.Writer) {
		writef(w, "%s\n", view.URL)
	})
}

func runCredentialGroups(cc *commandContext, args []string) error {
	return dispatch(cc, "credential-groups", map[string]subcommand{
		"list":   {description: "List credential groups", run: runCredentialGroupsList},
		"show":   {description: "Show a credential group", run: runCredentialGroupsShow},
		"add":    {description: "Create a credential group", run: runCredentialGroupsAdd},
		"update": {description: "Replace a credential group", run: runCredentialGroupsUpdate},
		"delete": {description: "Delete a credential group", run: runCredentialGroupsDelete},
	}, args)
}

func runCredentialGroupsList(cc *commandContext, _ []string) error {
	if err := cc.enter("credentialGroupManagement", nil); err != nil {
		return err
	}
	groups, err := cc.Runtime.API.CredentialGroups(cc.Ctx)
	if err != nil {
		return err
	}
	return cc.printer.print(groups, func(w io.Writer) {
		writef(w, "NAME\tORIGIN\tCREDENTIALS\n")
		for _, g := range groups {
			writef(w, "%s\t%s\t%d\n", g.Name, g.Origin, len(g.Credentials))
		}
	})
}

func runCredentialGroupsShow(cc *commandContext, args []string) error {
	if err := exactArgs(cc, "credential-groups show NAME", args, 1); err != nil {
		return err
	}
	if err := cc.enter("credentialGroupEdit", map[string]string{"name": args[0]}); err != nil {
		return err
	}
	group, err := cc.Runtime.API.CredentialGroup(cc.Ctx, args[0])
	if err != nil {
		return err
	}
	return cc.printer.print(group, func(w io.Writer) {
		writef(w, "GROUP\t%s\n", group.Name)
		writef(w, "ORIGIN\t%s\n", group.Origin)
		writef(w, "ID\tCREDENTIAL\n")
		for _, c := range group.Credentials {
			writef(w, "%d\t%s\n", c.ID, c.Name)
		}
	})
}

func groupInputFlags(cc *commandContext, name string, args []string) (api.CredentialGroupInput, []string, error) {
	fs := cc.newFlagSet(name)
	groupName := fs.String("name", "", "group name")
	origin := fs.String("origin", "", "issuing organisation")
	additional := fs.String("description", "", "additional information")
	creds := fs.StringSlice("credential", nil, "member credential ids (repeatable or comma separated)")
	if err := fs.Parse(args); err != nil {
		return api.CredentialGroupInput{}, nil, err
	}
	ids, err := parseIDs("credential", *creds)
	if err != nil {
		return api.CredentialGroupInput{}, nil, err
	}
	if strings.TrimSpace(*groupName) == "" {
		return api.CredentialGroupInput{}, nil, errors.New("--name is required")
	}
	return api.CredentialGroupInput{
		CredentialIDs: ids,
		Name:          *groupName,
		Origin:        *origin,
		Additional:    *additional,
	}, fs.Args(), nil
}

func runCredentialGroupsAdd(cc *commandContext, args []string) error {
	in, _, err := groupInputFlags(cc, "credential-groups add", args)
	if err != nil {
		return err
	}
	if err := cc.enter("credentialGroupAdd", nil); err != nil {
		return err
	}
	msg, err := cc.Runtime.API.AddCredentialGroup(cc.Ctx, in)
	if err != nil {
		return err
	}
	writef(cc.Out, "%s\n", strings.TrimSpace(msg))
	return nil
}

func runCredentialGroupsUpdate(cc *commandContext, args []string) error {
	in, rest, err := groupInputFlags(cc, "credential-groups update", args)
	if err != nil {
		return err
	}
	if err := exactArgs(cc, "credential-groups update OLD_NAME --name NAME [flags]", rest, 1); err != nil {
		return err
	}
	if err := cc.enter("credentialGroupEdit", map[string]string{"name": rest[0]}); err != nil {
		return err
	}
	msg, err := cc.Runtime.API.UpdateCredentialGroup(cc.Ctx, rest[0], in)
	if err != nil {
		return err
	}
	writef(cc.Out, "%s\n", strings.TrimSpace(msg))
	return nil
}

func runCredentialGroupsDelete(cc *commandContext, args []string) error {
	if err := exactArgs(cc, "credential-groups delete NAME", args, 1); err != nil {
		return err
	}
	if err := cc.enter("credentialGroupManagement", nil); err != nil {
		return err
	}
	if err := cc.Runtime.API.DeleteCredentialGroup(cc.Ctx, args[0]); err != nil {
		return err
	}
	writef(cc.Out, "deleted credential group %s\n", args[0])
	return nil
}

func runUsers(cc *commandContext, args []string) error {
	return dispatch(cc, "users", map[string]subcommand{
		"list":       {description: "List and filter accounts", run: runUsersList},
		"show":       {description: "Show an account with its roles and credentials", run: runUsersShow},
		"activate":   {description: "Activate accounts", run: bulkUsers("activate")},
		"deactivate": {description: "Deactivate accounts", run: bulkUsers("deactivate")},
		"delete":     {description: "Delete accounts", run: bulkUsers("delete")},
		"set-roles":  {description: "Replace the roles of an account", run: runUsersSetRoles},
		"set-issuable": {
			description: "Replace the credentials an issuer may issue",
			run:         runUsersSetIssuable,
		},
	}, args)
}

func runUsersList(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("users list")
	var f model.UserFilter
	fs.StringVar(&f.Permission, "role", "", "only accounts with this role (ROLE_ADMIN, ROLE_ISSUER, ROLE_EDITOR)")
	fs.StringVar(&f.Activated, "activated", "", "true or false; empty lists both")
	searchType := fs.String("search-by", string(model.SearchByEmail), "email, forename or surname")
	fs.StringVar(&f.Search, "search", "", "search term")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f.SearchType = model.UserSearchType(*searchType)
	if err := cc.enter("userManagement", nil); err != nil {
		return err
	}

	users, err := cc.Runtime.API.FilterUsers(cc.Ctx, f)
	if err != nil {
		return err
	}
	return cc.printer.print(users, func(w io.Writer) {
		writef(w, "EMAIL\tNAME\tACTIVATED\tROLES\n")
		for _, u := range users {
			writef(w, "%s\t%s %s\t%s\t%s\n", u.Email, u.Forename, u.Surname, yesNo(u.Activated), strings.Join(u.Roles, ","))
		}
	})
}

type userDetailView struct {
	model.User
	Roles     []string                 `json:"roles"`
	Permitted []model.CredentialSchema `json:"permittedCredentials"`
	Issuable  []model.CredentialSchema `json:"issuableCredentials"`
}

func runUsersShow(cc *commandContext, args []string) error {
	if err := exactArgs(cc, "users show EMAIL", args, 1); err != nil {
		return err
	}
	email := args[0]
	if err := cc.enter("userDetail", map[string]string{"email": email}); err != nil {
		return err
	}

	var view userDetailView
	g, ctx := errgroup.WithContext(cc.Ctx)
	g.Go(func() error {
		var err error
		view.User, err = cc.Runtime.API.UserInformation(ctx, email)
		return err
	})
	g.Go(func() error {
		var err error
		view.Roles, err = cc.Runtime.API.UserRoles(ctx, email)
		return err
	})
	g.Go(func() error {
		var err error
		view.Permitted, err = cc.Runtime.API.PermittedCredentialsOf(ctx, email)
		return err
	})
	g.Go(func() error {
		var err error
		view.Issuable, err = cc.Runtime.API.IssuableCredentialsOf(ctx, email)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return cc.printer.print(view, func(w io.Writer) {
		writef(w, "EMAIL\t%s\n", view.Email)
		writef(w, "NAME\t%s %s\n", view.Forename, view.Surname)
		writef(w, "ACTIVATED\t%s\n", yesNo(view.Activated))
		writef(w, "ROLES\t%s\n", strings.Join(view.Roles, ","))
		writef(w, "CREDENTIALS\t%s\n", credentialNames(view.Permitted))
		writef(w, "MAY ISSUE\t%s\n", credentialNames(view.Issuable))
	})
}

func credentialNames(creds []model.CredentialSchema) string {
	names := make([]string, len(creds))
	for i, c := range creds {
		names[i] = c.Name
	}
	return strings.Join(names, ",")
}

func bulkUsers(action string) commandFn {
	return func(cc *commandContext, args []string) error {
		if len(args) == 0 {
			writef(cc.Err, "usage: sesamctl users %s EMAIL...\n", action)
			return errUsage
		}
		if err := cc.enter("userManagement", nil); err != nil {
			return err
		}

		var (
			ok  bool
			err error
		)
		switch action {
		case "activate":
			ok, err = cc.Runtime.API.ActivateUsers(cc.Ctx, args)
		case "deactivate":
			ok, err = cc.Runtime.API.DeactivateUsers(cc.Ctx, args)
		default:
			ok, err = cc.Runtime.API.DeleteUsers(cc.Ctx, args)
		}
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s rejected for %s", action, strings.Join(args, ", "))
		}
		writef(cc.Out, "%s: %d account(s)\n", action, len(args))
		return nil
	}
}

// parseRoles accepts backend names (ROLE_ADMIN) and short names (admin).
func parseRoles(raw []string) (domainauth.RoleSet, error) {
	set := domainauth.NewRoleSet()
	for _, r := range raw {
		for _, name := range strings.Split(r, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			role, ok := domainauth.ParseRole(name)
			if !ok {
				role, ok = domainauth.ParseRole("ROLE_" + strings.ToUpper(name))
			}
			if !ok {
				return nil, fmt.Errorf("unknown role %q", name)
			}
			set[role] = struct{}{}
		}
	}
	return set, nil
}

func runUsersSetRoles(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("users set-roles")
	raw := fs.StringSlice("role", nil, "role to grant: admin, issuer, editor (repeatable; none clears all roles)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := exactArgs(cc, "users set-roles EMAIL --role ROLE...", fs.Args(), 1); err != nil {
		return err
	}
	roles, err := parseRoles(*raw)
	if err != nil {
		return err
	}
	email := fs.Arg(0)
	if err := cc.enter("userDetail", map[string]string{"email": email}); err != nil {
		return err
	}

	if err := cc.Runtime.API.SetUserRoles(cc.Ctx, email, roles); err != nil {
		return err
	}
	writef(cc.Out, "roles of %s: %s\n", email, strings.Join(roles.Strings(), ","))
	return nil
}

func runUsersSetIssuable(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("users set-issuable")
	creds := fs.StringSlice("credential", nil, "credential ids the issuer may issue")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := exactArgs(cc, "users set-issuable EMAIL --credential ID[,ID...]", fs.Args(), 1); err != nil {
		return err
	}
	ids, err := parseIDs("credential", *creds)
	if err != nil {
		return err
	}
	email := fs.Arg(0)
	if err := cc.enter("userDetail", map[string]string{"email": email}); err != nil {
		return err
	}

	if err := cc.Runtime.API.SetIssuerCredentials(cc.Ctx, email, ids); err != nil {
		return err
	}
	writef(cc.Out, "%s may issue %d credential(s)\n", email, len(ids))
	return nil
}

func runDesign(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("design")
	useDefaults := fs.Bool("defaults", false, "show the built-in defaults instead of the backend settings")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := model.DefaultWebsiteConfiguration()
	if !*useDefaults {
		if err := cc.enter("adminWebsiteDesign", nil); err != nil {
			return err
		}
		var err error
		if cfg, err = cc.Runtime.API.DesignSettings(cc.Ctx); err != nil {
			return err
		}
	}

	dark, err := cc.Runtime.Preferences.DarkMode(cc.Ctx)
	if err != nil {
		return err
	}
	active := cfg.Scheme(dark)
	return cc.printer.print(cfg, func(w io.Writer) {
		writef(w, "NAME\t%s\n", cfg.Name)
		writef(w, "IMPRINT\t%s\n", cfg.Imprint)
		writef(w, "SCHEME\t%s\n", map[bool]string{true: "dark", false: "light"}[dark])
		writef(w, "PRIMARY\t%s\n", active.Primary)
		writef(w, "BACKGROUND\t%s\n", active.Background)
		writef(w, "SURFACE\t%s\n", active.Surface)
		writef(w, "ACCENT\t%s\n", active.Accent)
	})
}
