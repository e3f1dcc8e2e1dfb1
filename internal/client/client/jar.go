package client

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"golang.org/x/net/publicsuffix"
)

// credentialJar holds the refresh cookie set by the backend. Application
// code never reads it; it can only be dropped as a whole.
type credentialJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newCredentialJar() (*credentialJar, error) {
	j, err := newCookieJar()
	if err != nil {
		return nil, err
	}
	return &credentialJar{jar: j}, nil
}

func newCookieJar() (*cookiejar.Jar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

func (c *credentialJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.jar.SetCookies(u, cookies)
}

func (c *credentialJar) Cookies(u *url.URL) []*http.Cookie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.jar.Cookies(u)
}

func (c *credentialJar) reset() error {
	j, err := newCookieJar()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.jar = j
	c.mu.Unlock()
	return nil
}
