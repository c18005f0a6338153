package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dmitrijs2005/authority/internal/client/client"
	"github.com/dmitrijs2005/authority/internal/client/config"
	"github.com/dmitrijs2005/authority/internal/client/repositories/identities"
	"github.com/dmitrijs2005/authority/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/authority/internal/common"
)

// getPassword is a test seam for GetPassword.
var getPassword = GetPassword

var errNotLoggedIn = errors.New("not logged in, run login first")

type App struct {
	config     *config.Config
	client     client.Client
	metadata   metadata.Repository
	identities identities.Repository
	closers    []io.Closer
	reader     *bufio.Reader
	out        io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	repos, err := client.InitDatabase(ctx, c.LocalDB)
	if err != nil {
		return nil, fmt.Errorf("error initializing local store: %w", err)
	}

	apiClient, err := client.NewAuthorityClient(c.ServerEndpointAddr)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	a := newApp(c, apiClient, repos.Metadata, repos.Identities, os.Stdin, os.Stdout)
	a.closers = append(a.closers, repos)
	return a, nil
}

func newApp(c *config.Config, cl client.Client, md metadata.Repository, ids identities.Repository, in io.Reader, out io.Writer) *App {
	return &App{
		config:     c,
		client:     cl,
		metadata:   md,
		identities: ids,
		closers:    []io.Closer{cl},
		reader:     bufio.NewReader(in),
		out:        out,
	}
}

// Run executes the command in args, or the REPL when args is empty.
func (a *App) Run(ctx context.Context, args []string) error {
	defer func() {
		for _, c := range a.closers {
			_ = c.Close()
		}
	}()

	if len(args) == 0 {
		a.Root(ctx)
		return nil
	}
	return a.Exec(ctx, args[0], args[1:])
}

func usage(cmd string, want int, args []string) error {
	if len(args) != want {
		return fmt.Errorf("usage: %s", cmd)
	}
	return nil
}

func (a *App) readPassword() (string, error) {
	pw, err := getPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// authorize attaches the stored session's access token to the client.
func (a *App) authorize(ctx context.Context) (*metadata.Session, error) {
	s, err := metadata.LoadSession(ctx, a.metadata)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errNotLoggedIn
	}
	a.client.SetAccessToken(s.AccessToken)
	return s, nil
}

// promptFor reads the password cmd needs, if any. Commands without a
// password prompt return "".
func (a *App) promptFor(cmd string, args []string) (string, error) {
	switch cmd {
	case "register":
		if err := usage("register <email> <pubkey>", 2, args); err != nil {
			return "", err
		}
	case "login":
		if err := usage("login <email>", 1, args); err != nil {
			return "", err
		}
	default:
		return "", nil
	}
	return a.readPassword()
}

// Exec runs a single command. The request timeout starts after any
// password prompt.
func (a *App) Exec(ctx context.Context, cmd string, args []string) error {
	password, err := a.promptFor(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	switch cmd {
	case "ping":
		if err := a.client.Ping(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "OK")

	case "known":
		if err := usage("known <email>", 1, args); err != nil {
			return err
		}
		ok, err := a.client.EmailKnown(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, ok)

	case "staged":
		if err := usage("staged <email>", 1, args); err != nil {
			return err
		}
		ok, err := a.client.IsStaged(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, ok)

	case "register":
		if err := a.client.Register(ctx, args[0], password, args[1]); err != nil {
			return err
		}
		if err := a.identities.Put(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Verification sent to %s\n", args[0])

	case "verify":
		if err := usage("verify <secret>", 1, args); err != nil {
			return err
		}
		if err := a.client.Verify(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Verified")

	case "login":
		token, err := a.client.Login(ctx, args[0], password)
		if err != nil {
			return err
		}
		if err := metadata.SaveSession(ctx, a.metadata, metadata.Session{Email: args[0], AccessToken: token}); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Logged in as %s\n", args[0])

	case "logout":
		if err := metadata.ClearSession(ctx, a.metadata); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Logged out")

	case "whoami":
		s, err := a.authorize(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, s.Email)

	case "add-email":
		if err := usage("add-email <email> <pubkey>", 2, args); err != nil {
			return err
		}
		if _, err := a.authorize(ctx); err != nil {
			return err
		}
		if err := a.client.AddEmail(ctx, args[0], args[1]); err != nil {
			return err
		}
		if err := a.identities.Put(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Verification sent to %s\n", args[0])

	case "identities":
		ids, err := a.identities.List(ctx)
		if err != nil {
			return err
		}
		emails := make([]string, 0, len(ids))
		for e := range ids {
			emails = append(emails, e)
		}
		sort.Strings(emails)
		for _, e := range emails {
			fmt.Fprintf(a.out, "%s %s\n", e, ids[e])
		}

	case "sync":
		return a.sync(ctx, args)

	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}

	return nil
}

// sync reconciles identities with the server. Without arguments the local
// store is sent. Emails the server reports as unknown are dropped from the
// local store unless they are still waiting for verification.
func (a *App) sync(ctx context.Context, args []string) error {
	var ids map[string]string
	var err error
	if len(args) > 0 {
		ids, err = ParseIdentities(args)
	} else {
		ids, err = a.identities.List(ctx)
	}
	if err != nil {
		return err
	}

	if _, err := a.authorize(ctx); err != nil {
		return err
	}

	res, err := a.client.Sync(ctx, ids)
	if err != nil {
		return err
	}

	var removed, pending []string
	for _, e := range res.UnknownEmails {
		staged, err := a.client.IsStaged(ctx, e)
		if err != nil {
			return err
		}
		if staged {
			pending = append(pending, e)
			continue
		}
		if err := a.identities.Delete(ctx, e); err != nil {
			return err
		}
		removed = append(removed, e)
	}

	fmt.Fprintf(a.out, "unknown: %s\n", strings.Join(res.UnknownEmails, " "))
	fmt.Fprintf(a.out, "refresh: %s\n", strings.Join(res.KeyRefresh, " "))
	if len(removed) > 0 {
		fmt.Fprintf(a.out, "removed locally: %s\n", strings.Join(removed, " "))
	}
	if len(pending) > 0 {
		fmt.Fprintf(a.out, "awaiting verification: %s\n", strings.Join(pending, " "))
	}
	return nil
}
