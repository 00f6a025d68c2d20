// Package probe checks whether a dev server exposes the diagnostic endpoint
// served by vite-plugin-nightwatch-fixes.
package probe

import (
	"bytes"
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
)

// DiagnosticPath is only served when the nightwatch Vite plugin is loaded.
const DiagnosticPath = "/_nightwatch"

// DefaultHost is the host every probe targets.
const DefaultHost = "localhost"

// Prober reports whether the server on port exposes the diagnostic endpoint.
type Prober interface {
	Probe(ctx context.Context, port int, scheme string) (bool, error)
}

// HTTPProber issues a single GET to the diagnostic endpoint.
type HTTPProber struct {
	// Client defaults to http.DefaultClient; no timeout is added.
	Client *http.Client
	// Host defaults to DefaultHost.
	Host string
}

// New returns a prober using the default client and host.
func New() *HTTPProber {
	return &HTTPProber{}
}

// Probe returns false when the endpoint answers 404 and true for any other
// status. A certificate rejected only for being self-signed also counts as
// present: the server answered the TLS handshake. Other transport errors are
// returned.
func (p *HTTPProber) Probe(ctx context.Context, port int, scheme string) (bool, error) {
	if scheme != "http" && scheme != "https" {
		return false, fmt.Errorf("unsupported probe scheme %q", scheme)
	}

	u := URL(p.host(), port, scheme)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("building probe request: %w", err)
	}

	resp, err := p.client().Do(req)
	if err != nil {
		if IsSelfSignedCertError(err) {
			return true, nil
		}
		return false, fmt.Errorf("probing %s: %w", u, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode != http.StatusNotFound, nil
}

// URL builds the diagnostic endpoint URL.
func URL(host string, port int, scheme string) string {
	return scheme + "://" + net.JoinHostPort(host, strconv.Itoa(port)) + DiagnosticPath
}

// IsSelfSignedCertError reports whether err is a TLS verification failure
// caused by a leaf certificate that signed itself.
func IsSelfSignedCertError(err error) bool {
	var uae x509.UnknownAuthorityError
	if !errors.As(err, &uae) {
		return false
	}
	cert := uae.Cert
	if cert == nil {
		return false
	}
	return bytes.Equal(cert.RawIssuer, cert.RawSubject)
}

func (p *HTTPProber) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	return http.DefaultClient
}

func (p *HTTPProber) host() string {
	if p.Host != "" {
		return p.Host
	}
	return DefaultHost
}
