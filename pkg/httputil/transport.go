package httputil

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"os"
	"time"

	errs "github.com/mnemonic-no/act-utils/pkg/errors"
)

// TLSMode selects how server certificates are verified.
type TLSMode int

const (
	// TLSSystem verifies against the system root pool.
	TLSSystem TLSMode = iota
	// TLSInsecure skips verification entirely.
	TLSInsecure
	// TLSCABundle verifies against the certificates in TransportOptions.CAFile only.
	TLSCABundle
)

// String returns the mode name used in log output.
func (m TLSMode) String() string {
	switch m {
	case TLSInsecure:
		return "disabled"
	case TLSCABundle:
		return "ca-bundle"
	default:
		return "system"
	}
}

// TransportOptions configures an HTTP client.
// The zero value uses system TLS roots, honours proxy environment variables,
// and sets no timeout.
type TransportOptions struct {
	// CAFile is a PEM bundle used instead of the system roots.
	CAFile string
	// Insecure disables certificate verification. Mutually exclusive with CAFile.
	Insecure bool
	// BypassProxy ignores HTTP_PROXY/HTTPS_PROXY for this client.
	BypassProxy bool
	// Timeout bounds a whole request. Zero means no timeout.
	Timeout time.Duration
}

// Mode reports the TLS verification mode selected by o.
func (o TransportOptions) Mode() TLSMode {
	switch {
	case o.Insecure:
		return TLSInsecure
	case o.CAFile != "":
		return TLSCABundle
	default:
		return TLSSystem
	}
}

// TLSConfig builds the tls.Config for o. It returns nil for [TLSSystem] so
// the default transport behaviour is kept.
func (o TransportOptions) TLSConfig() (*tls.Config, error) {
	if o.Insecure && o.CAFile != "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "CA bundle and disabled verification are mutually exclusive")
	}
	switch o.Mode() {
	case TLSInsecure:
		return &tls.Config{InsecureSkipVerify: true}, nil //nolint:gosec // explicitly requested
	case TLSCABundle:
		pem, err := os.ReadFile(o.CAFile)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read CA bundle")
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "no certificates found in %s", o.CAFile)
		}
		return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
	default:
		return nil, nil
	}
}

// NewClient creates an HTTP client configured by o.
func NewClient(o TransportOptions) (*http.Client, error) {
	tlsCfg, err := o.TLSConfig()
	if err != nil {
		return nil, err
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	if tlsCfg != nil {
		tr.TLSClientConfig = tlsCfg
	}
	if o.BypassProxy {
		tr.Proxy = nil
	}
	return &http.Client{Transport: tr, Timeout: o.Timeout}, nil
}
