// Package cli implements the interactive terminal front end: the login
// view, the two dashboards and the navigation loop between them. Every
// navigation re-runs the route guard, so all role/authentication
// decisions live outside this package.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jasminek987/WageFlowApp/internal/api"
	"github.com/jasminek987/WageFlowApp/internal/guard"
	"github.com/jasminek987/WageFlowApp/internal/session"
)

// errQuit unwinds the navigation loop on user request.
var errQuit = errors.New("quit")

// Shell runs the interactive client against a gateway client and a
// session store.
type Shell struct {
	client   *api.Client
	sessions *session.Store
	logger   *slog.Logger
	in       *bufio.Scanner
	out      io.Writer
}

// NewShell constructs a Shell reading commands from in and rendering
// to out.
func NewShell(client *api.Client, sessions *session.Store, logger *slog.Logger, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		client:   client,
		sessions: sessions,
		logger:   logger,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run drives the navigation loop until the user quits or input ends.
// A persisted session skips straight to that role's dashboard.
func (s *Shell) Run(ctx context.Context) error {
	route := guard.RouteLogin
	if s.sessions.LoggedIn() {
		route = guard.Home(s.sessions.Role())
	}
	for {
		if decision := guard.Check(s.sessions, route); !decision.Allowed {
			route = decision.RedirectTo
			continue
		}
		var (
			next guard.Route
			err  error
		)
		switch route {
		case guard.RouteLogin:
			next, err = s.loginView(ctx)
		case guard.RouteManagerDashboard:
			next, err = s.managerView(ctx)
		case guard.RouteEmployeeDashboard:
			next, err = s.employeeView(ctx)
		default:
			next = guard.RouteLogin
		}
		if err != nil {
			if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		route = next
	}
}

// loginView prompts for credentials and routes by the returned role.
// An unrecognized role keeps the user on the login view with a
// message.
func (s *Shell) loginView(ctx context.Context) (guard.Route, error) {
	fmt.Fprintln(s.out, "WageFlow sign in (blank email to quit)")
	for {
		email, err := s.prompt("email> ")
		if err != nil {
			return guard.RouteLogin, err
		}
		if strings.TrimSpace(email) == "" {
			return guard.RouteLogin, errQuit
		}
		password, err := s.prompt("password> ")
		if err != nil {
			return guard.RouteLogin, err
		}

		role, err := s.client.Login(ctx, email, password)
		if err != nil {
			if errors.Is(err, api.ErrMissingCredentials) {
				fmt.Fprintln(s.out, "Please enter email and password.")
				continue
			}
			fmt.Fprintln(s.out, loginFailureMessage(err))
			continue
		}
		if home := guard.Home(role); home != guard.RouteLogin {
			return home, nil
		}
		fmt.Fprintln(s.out, "Unknown role.")
	}
}

func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.in.Text(), nil
}

func loginFailureMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Invalid email or password."
}
