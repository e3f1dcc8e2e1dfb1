package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tealives/tealives-client/internal/client/client"
	"github.com/tealives/tealives-client/internal/client/config"
	"github.com/tealives/tealives-client/internal/client/session"
	"github.com/tealives/tealives-client/internal/logging"
)

// captureOutput redirects printlnFn for the duration of the test and returns
// a func that yields everything printed so far.
func captureOutput(t *testing.T) func() string {
	t.Helper()
	var (
		mu  sync.Mutex
		buf strings.Builder
	)
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return fmt.Fprintln(&buf, a...)
	}
	t.Cleanup(func() { printlnFn = orig })
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		return buf.String()
	}
}

func newTestApp(auth *fakeAuth) *App {
	return &App{
		config:      &config.Config{LoginRoute: config.DefaultLoginRoute},
		log:         logging.NewDiscardLogger(),
		authService: auth,
		session:     session.New(),
	}
}

type fakeAuth struct {
	loginUser string
	loginPass []byte
	loginErr  error
	token     string
	sess      *session.Session

	logoutCalled bool
	logoutErr    error

	restoreOK  bool
	restoreErr error
}

func (f *fakeAuth) Login(_ context.Context, user string, pass []byte) error {
	f.loginUser, f.loginPass = user, append([]byte(nil), pass...)
	if f.loginErr == nil && f.sess != nil {
		f.sess.SetToken(f.token)
	}
	return f.loginErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	if f.sess != nil {
		f.sess.Clear()
	}
	return f.logoutErr
}

func (f *fakeAuth) Restore(context.Context) (bool, error) {
	if f.restoreOK && f.sess != nil {
		f.sess.SetToken(f.token)
	}
	return f.restoreOK, f.restoreErr
}

type fakeAPI struct {
	getBody string
	getErr  error
	gotPath string
}

var _ client.Client = (*fakeAPI)(nil)

func (f *fakeAPI) Login(context.Context, string, []byte) (string, error) { return "", nil }
func (f *fakeAPI) Cities(context.Context) ([]string, error)              { return nil, nil }
func (f *fakeAPI) Post(context.Context, string, any, any) error          { return nil }
func (f *fakeAPI) Do(context.Context, *client.Request, any) error        { return nil }
func (f *fakeAPI) ResetCredentials() error                               { return nil }

func (f *fakeAPI) Get(_ context.Context, path string, out any) error {
	f.gotPath = path
	if f.getErr != nil {
		return f.getErr
	}
	if f.getBody == "" {
		return nil
	}
	return json.Unmarshal([]byte(f.getBody), out)
}

type memStore struct {
	list []string
}

func (s *memStore) Load(context.Context, time.Time) ([]string, bool, error) {
	return s.list, len(s.list) > 0, nil
}
func (s *memStore) Save(context.Context, []string, time.Time) error { return nil }
func (s *memStore) Clear(context.Context) error                     { return nil }

type staticFetcher []string

func (f staticFetcher) Cities(context.Context) ([]string, error) { return f, nil }
