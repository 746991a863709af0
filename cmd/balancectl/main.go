package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"balance-dashboard/config"
	"balance-dashboard/internal/adapter/backend"
	"balance-dashboard/internal/adapter/storage"
	"balance-dashboard/internal/core/ports"
	"balance-dashboard/internal/service"
	"balance-dashboard/internal/session"
	"balance-dashboard/pkg/logger"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const usageText = `Usage: balancectl [-config <file>] [-no-color] <command> [flags]

Commands:
  login     sign in and remember the session
  register  create a user and sign in
  logout    forget the session
  status    show who is signed in
  accounts  list accounts with their 24h change
  changes   show the balance history of one account
`

var errUsage = errors.New("missing or unknown command")

type command func(ctx context.Context, a *app, args []string, stdin io.Reader) error

var commands = map[string]command{
	"login":    cmdLogin,
	"register": cmdRegister,
	"logout":   cmdLogout,
	"status":   cmdStatus,
	"accounts": cmdAccounts,
	"changes":  cmdChanges,
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("balancectl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fmt.Fprintln(stderr, "\nGlobal flags:")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "Path to config file")
	noColor := fs.Bool("no-color", false, "Disable coloured output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fs.Usage()
		return fmt.Errorf("%w: %s", errUsage, name)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx, *configPath, stdout, stderr)
	if err != nil {
		return err
	}
	defer a.close()
	a.color = !*noColor && os.Getenv("NO_COLOR") == "" && isTerminal(stdout)

	return cmd(ctx, a, fs.Args()[1:], stdin)
}

// app is everything a command needs, built from the same config the web
// dashboard reads.
type app struct {
	loc    *time.Location
	sess   *session.Session
	auth   ports.AuthService
	dash   ports.DashboardService
	stdout io.Writer
	color  bool
	close  func()
}

func newApp(ctx context.Context, configPath string, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var log zerolog.Logger
	if cfg.Log.Pretty {
		log = logger.New(cfg.Log.Level, true)
	} else {
		log = logger.NewWithWriter(cfg.Log.Level, stderr)
	}

	loc, err := cfg.Dashboard.Location()
	if err != nil {
		return nil, err
	}

	slot, err := storage.OpenTokenSlot(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	sess := session.New("")
	client, err := backend.NewClient(
		cfg.API.BaseURL,
		&http.Client{Timeout: cfg.API.Timeout},
		sess,
		slot.Store,
		terminalNavigator{w: stderr},
		logger.Component(log, "backend"),
	)
	if err != nil {
		slot.Close()
		return nil, err
	}

	authSvc := service.NewAuthService(client, sess, slot.Store, logger.Component(log, "auth"))
	if _, err := authSvc.Restore(ctx); err != nil {
		slot.Close()
		return nil, err
	}

	return &app{
		loc:    loc,
		sess:   sess,
		auth:   authSvc,
		dash:   service.NewDashboardService(client, cfg.Dashboard.MaxParallel, logger.Component(log, "dashboard")),
		stdout: stdout,
		close:  slot.Close,
	}, nil
}

// terminalNavigator tells the user to sign in again after a 401.
type terminalNavigator struct {
	w io.Writer
}

func (n terminalNavigator) ToLogin(context.Context) {
	fmt.Fprintln(n.w, "session expired, run `balancectl login`")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
