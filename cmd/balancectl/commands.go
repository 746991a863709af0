package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"balance-dashboard/internal/adapter/http/dto"
	"balance-dashboard/internal/core/domain"
	"balance-dashboard/internal/session"

	"golang.org/x/term"
)

var errSignedOut = errors.New("not signed in, run `balancectl login`")

func cmdLogin(ctx context.Context, a *app, args []string, stdin io.Reader) error {
	creds, err := credentials("login", a, args, stdin)
	if err != nil {
		return err
	}
	if err := a.auth.Login(ctx, creds); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "signed in as %s\n", creds.Username)
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string, stdin io.Reader) error {
	creds, err := credentials("register", a, args, stdin)
	if err != nil {
		return err
	}
	if err := a.auth.Register(ctx, creds); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "registered and signed in as %s\n", creds.Username)
	return nil
}

func credentials(name string, a *app, args []string, stdin io.Reader) (domain.Credentials, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stdout)

	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")

	if err := fs.Parse(args); err != nil {
		return domain.Credentials{}, err
	}
	if *username == "" {
		fmt.Fprintf(a.stdout, "Usage: balancectl %s -user <username> [-password <password>]\n", name)
		fs.PrintDefaults()
		return domain.Credentials{}, fmt.Errorf("missing required flags: user")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(a.stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return domain.Credentials{}, fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(a.stdout)
	}

	return domain.Credentials{Username: *username, Password: password}, nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func cmdLogout(ctx context.Context, a *app, _ []string, _ io.Reader) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "signed out")
	return nil
}

func cmdStatus(_ context.Context, a *app, _ []string, _ io.Reader) error {
	claims, err := a.sess.Claims()
	switch {
	case errors.Is(err, session.ErrNoToken):
		fmt.Fprintln(a.stdout, "signed out")
	case err != nil:
		fmt.Fprintln(a.stdout, "signed in (opaque token)")
	default:
		writeStatus(a, claims, time.Now())
	}
	return nil
}

func writeStatus(a *app, claims session.Claims, now time.Time) {
	subject := claims.Subject
	if subject == "" {
		subject = "unknown user"
	}
	fmt.Fprintf(a.stdout, "signed in as %s\n", subject)

	switch {
	case claims.ExpiresAt.IsZero():
	case claims.Expired(now):
		fmt.Fprintf(a.stdout, "token expired at %s\n", formatTime(claims.ExpiresAt, a.loc))
	default:
		fmt.Fprintf(a.stdout, "token expires at %s (in %s)\n",
			formatTime(claims.ExpiresAt, a.loc), claims.ExpiresAt.Sub(now).Round(time.Minute))
	}
}

func cmdAccounts(ctx context.Context, a *app, args []string, _ io.Reader) error {
	fs := flag.NewFlagSet("accounts", flag.ContinueOnError)
	fs.SetOutput(a.stdout)
	search := fs.String("search", "", "Case-insensitive name filter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.sess.IsAuthenticated() {
		return errSignedOut
	}

	overview, err := a.dash.Overview(ctx, *search)
	if err != nil {
		return err
	}
	return writeOverview(a, overview)
}

func cmdChanges(ctx context.Context, a *app, args []string, _ io.Reader) error {
	fs := flag.NewFlagSet("changes", flag.ContinueOnError)
	fs.SetOutput(a.stdout)

	var q dto.RangeQuery
	accountID := fs.String("account", "", "Account ID")
	fs.StringVar(&q.From, "from", "", "First day (YYYY-MM-DD)")
	fs.StringVar(&q.To, "to", "", "Last day (YYYY-MM-DD)")
	fs.StringVar(&q.Preset, "preset", "", "Range preset: 7d, 14d, 30d or 90d")
	fs.StringVar(&q.View, "view", dto.ViewTable, "table, balance or diff")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *accountID == "" {
		fmt.Fprintln(a.stdout, "Usage: balancectl changes -account <id> [-from <date>] [-to <date>] [-preset <key>] [-view <view>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: account")
	}

	view := q.ViewOrDefault()
	switch view {
	case dto.ViewTable, dto.ViewBalance, dto.ViewDiff:
	default:
		return fmt.Errorf("unknown view %q", view)
	}

	r, err := q.Range(time.Now(), a.loc)
	if err != nil {
		return err
	}
	if !a.sess.IsAuthenticated() {
		return errSignedOut
	}

	detail, err := a.dash.AccountDetail(ctx, *accountID, r)
	if err != nil {
		return err
	}

	switch view {
	case dto.ViewBalance:
		return writeSeries(a, detail, detail.BalanceSeries)
	case dto.ViewDiff:
		return writeSeries(a, detail, detail.DiffSeries)
	default:
		return writeChanges(a, detail)
	}
}
