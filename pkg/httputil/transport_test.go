package httputil

import (
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/mnemonic-no/act-utils/pkg/errors"
)

func tlsServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "ca.pem")
	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return srv, path
}

func TestTransportOptions_Mode(t *testing.T) {
	assert.Equal(t, TLSSystem, TransportOptions{}.Mode())
	assert.Equal(t, TLSInsecure, TransportOptions{Insecure: true}.Mode())
	assert.Equal(t, TLSCABundle, TransportOptions{CAFile: "ca.pem"}.Mode())
	assert.Equal(t, "ca-bundle", TLSCABundle.String())
}

func TestNewClient_TLSModes(t *testing.T) {
	srv, caFile := tlsServer(t)

	tests := []struct {
		name    string
		opts    TransportOptions
		wantErr bool
	}{
		{"system roots reject self-signed", TransportOptions{}, true},
		{"ca bundle", TransportOptions{CAFile: caFile}, false},
		{"verification disabled", TransportOptions{Insecure: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.opts)
			require.NoError(t, err)

			resp, err := client.Get(srv.URL)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}

func TestNewClient_InvalidOptions(t *testing.T) {
	_, err := NewClient(TransportOptions{CAFile: "x.pem", Insecure: true})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))

	_, err = NewClient(TransportOptions{CAFile: filepath.Join(t.TempDir(), "missing.pem")})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))

	empty := filepath.Join(t.TempDir(), "empty.pem")
	require.NoError(t, os.WriteFile(empty, []byte("not a certificate"), 0o644))
	_, err = NewClient(TransportOptions{CAFile: empty})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))
}

func TestNewClient_ProxyAndTimeout(t *testing.T) {
	client, err := NewClient(TransportOptions{BypassProxy: true, Timeout: 5 * time.Second})
	require.NoError(t, err)

	tr, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Nil(t, tr.Proxy)
	assert.Equal(t, 5*time.Second, client.Timeout)

	client, err = NewClient(TransportOptions{})
	require.NoError(t, err)
	tr = client.Transport.(*http.Transport)
	assert.NotNil(t, tr.Proxy)
	assert.Zero(t, client.Timeout)
}
