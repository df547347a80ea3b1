// Package airgap guesses whether the cluster can reach the internet by
// requesting a whitelisted domain.
package airgap

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/imroc/req/v3"
	"github.com/sirupsen/logrus"
)

const DefaultTimeout = 5 * time.Second

// Settings carries the host settings the probe depends on.
type Settings struct {
	// WhitelistDomains is a comma separated list; only the first entry is
	// probed.
	WhitelistDomains string `mapstructure:"whitelistDomains"`
}

// FirstDomain returns the first non-empty whitelist entry.
func (s Settings) FirstDomain() (string, bool) {
	for _, d := range strings.Split(s.WhitelistDomains, ",") {
		if d = strings.TrimSpace(d); d != "" {
			return d, true
		}
	}
	return "", false
}

func probeURL(domain string) string {
	if strings.Contains(domain, "://") {
		return domain
	}
	return "https://" + domain
}

// Prober runs the reachability check. It is safe for concurrent use.
type Prober struct {
	client *req.Client
	state  State
}

// NewProber returns a Prober with the given request timeout. A nil state is
// replaced by a MemoryState.
func NewProber(timeout time.Duration, state State) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if state == nil {
		state = &MemoryState{}
	}
	client := req.C().
		SetTimeout(timeout).
		SetRedirectPolicy(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		})
	return &Prober{client: client, state: state}
}

// Probe reports whether the cluster looks airgapped. Without a whitelist it
// reports false. A 200 or 302 answer means connected, any other status means
// airgapped. When the request itself fails the last remembered answer is
// used if it was airgapped, and false otherwise.
func (p *Prober) Probe(ctx context.Context, settings Settings) bool {
	domain, ok := settings.FirstDomain()
	if !ok {
		return false
	}

	url := probeURL(domain)
	resp, err := p.client.R().SetContext(ctx).Get(url)
	if err != nil {
		previous, known := p.state.Previous()
		if known && previous {
			logrus.Warnf("airgap probe of %s failed, keeping airgapped state: %v", url, err)
			return true
		}
		logrus.Warnf("airgap probe of %s failed: %v", url, err)
		return false
	}

	airgapped := resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusFound
	logrus.Debugf("airgap probe of %s answered %d", url, resp.StatusCode)
	p.state.Remember(airgapped)
	return airgapped
}
