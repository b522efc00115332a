// Command sesamctl is a terminal client for the Sesam access-management backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/gpse/sesam-client/config"
	"github.com/gpse/sesam-client/internal/bootstrap"
	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
	apperrors "github.com/gpse/sesam-client/internal/errors"
	"github.com/gpse/sesam-client/internal/observability/metrics"
	"github.com/spf13/pflag"
)

type commandFn func(cc *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx     context.Context
	Logger  *slog.Logger
	Config  config.AppConfig
	Runtime *bootstrap.Runtime
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	printer *printer
}

var (
	errLoginRequired = apperrors.Forbiddenf("login required")
	errAdminRequired = apperrors.Forbiddenf("admin role required")
	errUsage         = errors.New("usage")
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code) //nolint:forbidigo // CLI must propagate its exit status to the shell
}

type globalOptions struct {
	APIURL  string
	Output  config.OutputFormat
	Query   string
	Verbose bool
}

func parseGlobalFlags(args []string, cfg config.AppConfig, stderr io.Writer) (globalOptions, []string, error) {
	opts := globalOptions{Output: cfg.CLI.Output}

	fs := pflag.NewFlagSet("sesamctl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	fs.StringVar(&opts.APIURL, "api-url", "", "Sesam backend URL (overrides SESAM_API_URL)")
	fs.VarP(&opts.Output, "output", "o", "output format: table, json or yaml")
	fs.StringVar(&opts.Query, "query", "", "JMESPath expression applied to the result")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "log API requests to stderr")
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	return opts, fs.Args(), nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		writeErr(stderr, err)
		return exitError
	}

	opts, rest, err := parseGlobalFlags(args, cfg, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(stdout)
			return exitOK
		}
		return exitUsage
	}
	if len(rest) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	cmd, ok := commands()[rest[0]]
	if !ok {
		writef(stderr, "unknown command %q\n\n", rest[0])
		printUsage(stderr)
		return exitUsage
	}

	if opts.APIURL != "" {
		cfg.API.BaseURL = opts.APIURL
		cfg.API.Sanitize()
		if err := cfg.API.Validate(); err != nil {
			writeErr(stderr, err)
			return exitUsage
		}
	}
	level := cfg.LogLevel.Level()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := bootstrap.InitLogger(stderr, level, cfg.IsDev)

	rt, err := bootstrap.NewRuntime(ctx, bootstrap.RuntimeOptions{Config: cfg, Logger: logger})
	if err != nil {
		logger.ErrorContext(ctx, "initialise client", "error", err)
		writeErr(stderr, err)
		return exitError
	}
	defer func() {
		if closeErr := rt.Close(); closeErr != nil {
			logger.Warn("close runtime", "error", closeErr)
		}
	}()

	cc := &commandContext{
		Ctx:     ctx,
		Logger:  logger,
		Config:  cfg,
		Runtime: rt,
		In:      stdin,
		Out:     stdout,
		Err:     stderr,
		printer: &printer{out: stdout, format: opts.Output, query: opts.Query},
	}
	if runErr := cmd.run(cc, rest[1:]); runErr != nil {
		if errors.Is(runErr, errUsage) || errors.Is(runErr, pflag.ErrHelp) {
			return exitUsage
		}
		logger.DebugContext(ctx, "command failed", "command", cmd.name, "error", runErr)
		writeErr(stderr, runErr)
		return exitError
	}
	return exitOK
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Log in with email and password and store the session",
			run:         runLogin,
		},
		"logout": {
			name:        "logout",
			description: "Forget the stored session",
			run:         runLogout,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the profile of the logged-in user",
			run:         runWhoami,
		},
		"register": {
			name:        "register",
			description: "Create a new account",
			run:         runRegister,
		},
		"confirm-registration": {
			name:        "confirm-registration",
			description: "Activate an account with the token from the registration mail",
			run:         runConfirmRegistration,
		},
		"reset-password": {
			name:        "reset-password",
			description: "Request a reset mail (request) or set a new password (confirm)",
			run:         runResetPassword,
		},
		"change-password": {
			name:        "change-password",
			description: "Change the password of the logged-in user",
			run:         runChangePassword,
		},
		"account": {
			name:        "account",
			description: "Update or delete the logged-in user's account",
			run:         runAccount,
		},
		"buildings": {
			name:        "buildings",
			description: "List, show, add and delete buildings",
			run:         runBuildings,
		},
		"floors": {
			name:        "floors",
			description: "Inspect and manage floors and their room groups",
			run:         runFloors,
		},
		"rooms": {
			name:        "rooms",
			description: "Show rooms and check credential access",
			run:         runRooms,
		},
		"doors": {
			name:        "doors",
			description: "List all door identifiers",
			run:         runDoors,
		},
		"credentials": {
			name:        "credentials",
			description: "List and manage credential schemas",
			run:         runCredentials,
		},
		"credential-groups": {
			name:        "credential-groups",
			description: "List, show and delete credential groups",
			run:         runCredentialGroups,
		},
		"users": {
			name:        "users",
			description: "Administer user accounts",
			run:         runUsers,
		},
		"design": {
			name:        "design",
			description: "Show the website design settings",
			run:         runDesign,
		},
		"prefs": {
			name:        "prefs",
			description: "Show or change dark mode and language preferences",
			run:         runPrefs,
		},
	}
}

func printUsage(w io.Writer) {
	writef(w, "Usage: sesamctl [--api-url URL] [-o table|json|yaml] [--query EXPR] [-v] <command> [args]\n\n")
	writef(w, "Available commands:\n")
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		writef(w, "  %-22s %s\n", name, cmds[name].description)
	}
}

// enter navigates to the named route before a command body runs.
func (cc *commandContext) enter(route string, params map[string]string) error {
	nav, err := cc.Runtime.Router.NavigateTo(cc.Ctx, route, params)
	if err != nil {
		return err
	}
	metrics.GuardDecision(cc.Runtime.Metrics, route, nav.Decision.String())
	if nav.Arrived() {
		return nil
	}

	switch nav.Decision {
	case domainauth.RedirectLogin:
		return errLoginRequired
	case domainauth.RedirectHome:
		return errAdminRequired
	default:
		return nil
	}
}

type subcommand struct {
	description string
	run         commandFn
}

// dispatch runs the subcommand named by args[0].
func dispatch(cc *commandContext, group string, subs map[string]subcommand, args []string) error {
	if len(args) == 0 {
		printSubUsage(cc.Err, group, subs)
		return errUsage
	}
	sub, ok := subs[args[0]]
	if !ok {
		writef(cc.Err, "unknown %s subcommand %q\n\n", group, args[0])
		printSubUsage(cc.Err, group, subs)
		return errUsage
	}
	return sub.run(cc, args[1:])
}

func printSubUsage(w io.Writer, group string, subs map[string]subcommand) {
	writef(w, "Usage: sesamctl %s <subcommand> [args]\n\n", group)
	names := make([]string, 0, len(subs))
	for name := range subs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		writef(w, "  %-16s %s\n", name, subs[name].description)
	}
}

// newFlagSet returns a pflag set that reports errors to the command's stderr.
func (cc *commandContext) newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(cc.Err)
	return fs
}

func writef(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

func writeErr(w io.Writer, err error) {
	writef(w, "sesamctl: %v\n", err)
}
