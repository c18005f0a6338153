package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/authority/internal/client/client"
	"github.com/dmitrijs2005/authority/internal/client/config"
	"github.com/dmitrijs2005/authority/internal/client/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	closed bool
	token  string

	known        bool
	staged       bool
	stagedEmails map[string]bool

	regEmail, regPassword, regPubKey string
	verified                         string
	loginEmail, loginPassword        string
	added                            [2]string
	syncIDs                          map[string]string
	syncRes                          *client.SyncResult

	err error
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func (f *fakeClient) Ping(context.Context) error  { return f.err }
func (f *fakeClient) SetAccessToken(token string) { f.token = token }

func (f *fakeClient) Verify(_ context.Context, s string) error {
	f.verified = s
	return f.err
}

func (f *fakeClient) EmailKnown(context.Context, string) (bool, error) { return f.known, f.err }
func (f *fakeClient) IsStaged(_ context.Context, email string) (bool, error) {
	return f.staged || f.stagedEmails[email], f.err
}

func (f *fakeClient) Register(_ context.Context, email, password, pubkey string) error {
	f.regEmail, f.regPassword, f.regPubKey = email, password, pubkey
	return f.err
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (string, error) {
	f.loginEmail, f.loginPassword = email, password
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.err != nil {
		return "", f.err
	}
	return "tok-" + email, nil
}

func (f *fakeClient) AddEmail(_ context.Context, email, pubkey string) error {
	f.added = [2]string{email, pubkey}
	return f.err
}

func (f *fakeClient) Sync(_ context.Context, ids map[string]string) (*client.SyncResult, error) {
	f.syncIDs = ids
	return f.syncRes, f.err
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

type testEnv struct {
	cfg   *config.Config
	repos *client.Repositories
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		RequestTimeout: time.Second,
		LocalDB:        filepath.Join(t.TempDir(), "local.db"),
	}
	repos, err := client.InitDatabase(context.Background(), cfg.LocalDB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return &testEnv{cfg: cfg, repos: repos}
}

func (e *testEnv) app(f *fakeClient, in string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return newApp(e.cfg, f, e.repos.Metadata, e.repos.Identities, strings.NewReader(in), &out), &out
}

func TestExec_Lookups(t *testing.T) {
	f := &fakeClient{known: true, staged: false}
	a, out := newTestEnv(t).app(f, "")
	ctx := context.Background()

	require.NoError(t, a.Exec(ctx, "ping", nil))
	require.NoError(t, a.Exec(ctx, "known", []string{"a@x.com"}))
	require.NoError(t, a.Exec(ctx, "staged", []string{"a@x.com"}))
	assert.Equal(t, "OK\ntrue\nfalse\n", out.String())

	assert.ErrorContains(t, a.Exec(ctx, "known", nil), "usage: known <email>")
	assert.ErrorContains(t, a.Exec(ctx, "bogus", nil), "unknown command: bogus")
}

func TestExec_RegisterRecordsIdentity(t *testing.T) {
	stubPassword(t, "pw")
	env := newTestEnv(t)
	f := &fakeClient{}
	a, out := env.app(f, "")
	ctx := context.Background()

	require.NoError(t, a.Exec(ctx, "register", []string{"a@x.com", "pk"}))
	assert.Equal(t, "a@x.com", f.regEmail)
	assert.Equal(t, "pw", f.regPassword)
	assert.Equal(t, "pk", f.regPubKey)

	require.NoError(t, a.Exec(ctx, "verify", []string{"sek"}))
	assert.Equal(t, "sek", f.verified)
	assert.Contains(t, out.String(), "Verification sent to a@x.com")
	assert.Contains(t, out.String(), "Verified")

	out.Reset()
	require.NoError(t, a.Exec(ctx, "identities", nil))
	assert.Equal(t, "a@x.com pk\n", out.String())
}

func TestExec_RegisterFailureRecordsNothing(t *testing.T) {
	stubPassword(t, "pw")
	env := newTestEnv(t)
	a, _ := env.app(&fakeClient{err: client.ErrInvalidInput}, "")

	err := a.Exec(context.Background(), "register", []string{"bad", "pk"})
	assert.ErrorIs(t, err, client.ErrInvalidInput)

	ids, err := env.repos.Identities.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestExec_LoginPersistsTokenForLaterCommands(t *testing.T) {
	stubPassword(t, "pw")
	env := newTestEnv(t)
	f := &fakeClient{}
	a, _ := env.app(f, "")
	ctx := context.Background()

	assert.ErrorIs(t, a.Exec(ctx, "sync", nil), errNotLoggedIn)

	require.NoError(t, a.Exec(ctx, "login", []string{"a@x.com"}))
	s, err := metadata.LoadSession(ctx, env.repos.Metadata)
	require.NoError(t, err)
	assert.Equal(t, &metadata.Session{Email: "a@x.com", AccessToken: "tok-a@x.com"}, s)

	// a second App starts from the stored token only
	g := &fakeClient{}
	b, bOut := env.app(g, "")
	require.NoError(t, b.Exec(ctx, "add-email", []string{"b@x.com", "pk2"}))
	assert.Equal(t, "tok-a@x.com", g.token)
	assert.Equal(t, [2]string{"b@x.com", "pk2"}, g.added)

	bOut.Reset()
	require.NoError(t, b.Exec(ctx, "whoami", nil))
	assert.Equal(t, "a@x.com\n", bOut.String())

	require.NoError(t, b.Exec(ctx, "logout", nil))
	assert.ErrorIs(t, b.Exec(ctx, "add-email", []string{"c@x.com", "pk3"}), errNotLoggedIn)
	assert.ErrorIs(t, b.Exec(ctx, "whoami", nil), errNotLoggedIn)
}

func TestExec_SyncUsesLocalIdentities(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, metadata.SaveSession(ctx, env.repos.Metadata, metadata.Session{Email: "a@x.com", AccessToken: "tok"}))
	require.NoError(t, env.repos.Identities.Put(ctx, "a@x.com", "k1"))
	require.NoError(t, env.repos.Identities.Put(ctx, "c@x.com", "k3"))

	f := &fakeClient{syncRes: &client.SyncResult{UnknownEmails: []string{"c@x.com"}, KeyRefresh: []string{"b@x.com"}}}
	a, out := env.app(f, "")

	require.NoError(t, a.Exec(ctx, "sync", nil))
	assert.Equal(t, map[string]string{"a@x.com": "k1", "c@x.com": "k3"}, f.syncIDs)
	assert.Equal(t, "tok", f.token)
	assert.Equal(t, "unknown: c@x.com\nrefresh: b@x.com\nremoved locally: c@x.com\n", out.String())

	ids, err := env.repos.Identities.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a@x.com": "k1"}, ids)
}

func TestExec_SyncExplicitIdentities(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, metadata.SaveSession(ctx, env.repos.Metadata, metadata.Session{Email: "a@x.com", AccessToken: "tok"}))

	f := &fakeClient{syncRes: &client.SyncResult{UnknownEmails: []string{}, KeyRefresh: []string{}}}
	a, _ := env.app(f, "")

	require.NoError(t, a.Exec(ctx, "sync", []string{"a@x.com=k1"}))
	assert.Equal(t, map[string]string{"a@x.com": "k1"}, f.syncIDs)

	assert.Error(t, a.Exec(ctx, "sync", []string{"garbage"}))
}

func TestExec_PropagatesClientErrors(t *testing.T) {
	stubPassword(t, "pw")
	env := newTestEnv(t)
	a, _ := env.app(&fakeClient{err: client.ErrUnauthorized}, "")
	ctx := context.Background()

	err := a.Exec(ctx, "login", []string{"a@x.com"})
	assert.True(t, errors.Is(err, client.ErrUnauthorized))

	sess, err := metadata.LoadSession(ctx, env.repos.Metadata)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestRun_CommandClosesClient(t *testing.T) {
	f := &fakeClient{}
	a, out := newTestEnv(t).app(f, "")

	require.NoError(t, a.Run(context.Background(), []string{"ping"}))
	assert.True(t, f.closed)
	assert.Equal(t, "OK\n", out.String())
}

func TestRoot_REPL(t *testing.T) {
	f := &fakeClient{known: true}
	a, out := newTestEnv(t).app(f, "help\n\nknown a@x.com\nknown\nexit\nping\n")

	require.NoError(t, a.Run(context.Background(), nil))

	s := out.String()
	assert.Contains(t, s, helpText)
	assert.Contains(t, s, "true\n")
	assert.Contains(t, s, "Error: usage: known <email>")
	assert.Contains(t, s, "Bye!")
	assert.NotContains(t, s, "OK\n")
}

func TestRoot_EOF(t *testing.T) {
	a, out := newTestEnv(t).app(&fakeClient{}, "ping")
	a.Root(context.Background())
	assert.Contains(t, out.String(), "OK\n")
}

func TestExec_SyncKeepsPendingIdentities(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, metadata.SaveSession(ctx, env.repos.Metadata, metadata.Session{Email: "a@x.com", AccessToken: "tok"}))
	require.NoError(t, env.repos.Identities.Put(ctx, "a@x.com", "k1"))
	require.NoError(t, env.repos.Identities.Put(ctx, "new@x.com", "k2"))

	f := &fakeClient{
		stagedEmails: map[string]bool{"new@x.com": true},
		syncRes:      &client.SyncResult{UnknownEmails: []string{"new@x.com"}, KeyRefresh: []string{}},
	}
	a, out := env.app(f, "")

	require.NoError(t, a.Exec(ctx, "sync", nil))
	assert.Contains(t, out.String(), "awaiting verification: new@x.com")
	assert.NotContains(t, out.String(), "removed locally")

	ids, err := env.repos.Identities.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a@x.com": "k1", "new@x.com": "k2"}, ids)
}

func TestExec_PasswordPromptDoesNotEatRequestTimeout(t *testing.T) {
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) {
		time.Sleep(150 * time.Millisecond)
		return []byte("pw"), nil
	}
	t.Cleanup(func() { getPassword = orig })

	env := newTestEnv(t)
	env.cfg.RequestTimeout = 50 * time.Millisecond
	f := &fakeClient{}
	a, _ := env.app(f, "")

	require.NoError(t, a.Exec(context.Background(), "login", []string{"a@x.com"}))
	assert.Equal(t, "pw", f.loginPassword)
}

func TestExec_UsageCheckedBeforePrompt(t *testing.T) {
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) {
		t.Fatal("password must not be requested")
		return nil, nil
	}
	t.Cleanup(func() { getPassword = orig })

	a, _ := newTestEnv(t).app(&fakeClient{}, "")
	assert.ErrorContains(t, a.Exec(context.Background(), "login", nil), "usage: login <email>")
	assert.ErrorContains(t, a.Exec(context.Background(), "register", []string{"a@x.com"}), "usage: register")
}
