package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery, "lookup takes no parameters")
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestIPLocator_City(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr string
	}{
		{name: "lowercased", status: http.StatusOK, body: `{"ip":"1.2.3.4","city":" Toronto ","country":"CA"}`, want: "toronto"},
		{name: "no city", status: http.StatusOK, body: `{"ip":"1.2.3.4"}`, wantErr: ErrNoCity.Error()},
		{name: "malformed", status: http.StatusOK, body: `<html>`, wantErr: "decode geolocation response"},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":true}`, wantErr: "unexpected status 429"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewIPLocator(serve(t, tt.status, tt.body), nil)

			city, err := l.City(context.Background())
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, city)
		})
	}
}

func TestIPLocator_NoCityIsSentinel(t *testing.T) {
	l := NewIPLocator(serve(t, http.StatusOK, `{"city":""}`), nil)
	_, err := l.City(context.Background())
	require.ErrorIs(t, err, ErrNoCity)
}

func TestIPLocator_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewIPLocator(url, &http.Client{}).City(context.Background())
	require.ErrorContains(t, err, "geolocation request")
}

func TestIPLocator_DefaultClientHasTimeout(t *testing.T) {
	l := NewIPLocator("http://geo.invalid/json/", nil)
	assert.Equal(t, DefaultTimeout, l.http.Timeout)
}

func TestIPLocator_HangingServiceTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	start := time.Now()
	_, err := NewIPLocator(srv.URL, &http.Client{Timeout: 50 * time.Millisecond}).City(context.Background())

	require.ErrorContains(t, err, "geolocation request")
	assert.Less(t, time.Since(start), 5*time.Second)
}
