package airgap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status == http.StatusFound {
			w.Header().Set("Location", "/elsewhere")
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server
}

// closedURL returns the address of a server that is no longer listening.
func closedURL() string {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	return url
}

func TestFirstDomain(t *testing.T) {
	d, ok := Settings{WhitelistDomains: " , rancher.com, github.com"}.FirstDomain()
	assert.True(t, ok)
	assert.Equal(t, "rancher.com", d)

	_, ok = Settings{}.FirstDomain()
	assert.False(t, ok)

	_, ok = Settings{WhitelistDomains: " , "}.FirstDomain()
	assert.False(t, ok)
}

func TestProbeURL(t *testing.T) {
	assert.Equal(t, "https://rancher.com", probeURL("rancher.com"))
	assert.Equal(t, "http://127.0.0.1:8080", probeURL("http://127.0.0.1:8080"))
}

func TestProbeWithoutWhitelist(t *testing.T) {
	state := &MemoryState{}
	state.Remember(true)
	p := NewProber(time.Second, state)
	assert.False(t, p.Probe(context.Background(), Settings{}))
}

func TestProbeStatus(t *testing.T) {
	tests := []struct {
		status    int
		airgapped bool
	}{
		{http.StatusOK, false},
		{http.StatusFound, false},
		{http.StatusMovedPermanently, true},
		{http.StatusForbidden, true},
		{http.StatusNotFound, true},
		{http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := statusServer(t, tt.status)
			state := &MemoryState{}
			p := NewProber(time.Second, state)

			assert.Equal(t, tt.airgapped, p.Probe(context.Background(), Settings{WhitelistDomains: server.URL + ",example.com"}))

			previous, known := state.Previous()
			assert.True(t, known)
			assert.Equal(t, tt.airgapped, previous)
		})
	}
}

func TestProbeFailureWithConnectedState(t *testing.T) {
	state := &MemoryState{}
	state.Remember(false)
	p := NewProber(time.Second, state)
	settings := Settings{WhitelistDomains: closedURL()}

	assert.False(t, p.Probe(context.Background(), settings))
	assert.False(t, p.Probe(context.Background(), settings))

	previous, known := state.Previous()
	assert.True(t, known)
	assert.False(t, previous)
}

func TestProbeFailureWithoutState(t *testing.T) {
	p := NewProber(time.Second, nil)
	assert.False(t, p.Probe(context.Background(), Settings{WhitelistDomains: closedURL()}))
}

func TestProbeFailureKeepsAirgapped(t *testing.T) {
	server := statusServer(t, http.StatusForbidden)
	state := &MemoryState{}
	p := NewProber(time.Second, state)

	assert.True(t, p.Probe(context.Background(), Settings{WhitelistDomains: server.URL}))
	assert.True(t, p.Probe(context.Background(), Settings{WhitelistDomains: closedURL()}))
}

func TestProbeCancelledContext(t *testing.T) {
	server := statusServer(t, http.StatusOK)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProber(time.Second, nil)
	assert.False(t, p.Probe(ctx, Settings{WhitelistDomains: server.URL}))
}

func TestCacheState(t *testing.T) {
	state, err := NewCacheState(context.Background(), time.Minute)
	require.NoError(t, err)
	defer state.Close()

	_, known := state.Previous()
	assert.False(t, known)

	state.Remember(true)
	previous, known := state.Previous()
	assert.True(t, known)
	assert.True(t, previous)

	state.Remember(false)
	previous, known = state.Previous()
	assert.True(t, known)
	assert.False(t, previous)
}

func TestProbeWithCacheState(t *testing.T) {
	state, err := NewCacheState(context.Background(), time.Minute)
	require.NoError(t, err)
	defer state.Close()

	server := statusServer(t, http.StatusForbidden)
	p := NewProber(time.Second, state)
	assert.True(t, p.Probe(context.Background(), Settings{WhitelistDomains: server.URL}))
	assert.True(t, p.Probe(context.Background(), Settings{WhitelistDomains: closedURL()}))
}
