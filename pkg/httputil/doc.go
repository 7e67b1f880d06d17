// Package httputil provides the HTTP transport shared by the ACT catalog
// client and the upload sinks.
//
// # Overview
//
// Every outbound connection is configured explicitly through
// [TransportOptions] instead of through process environment state:
//
//   - TLS verification: system roots (default), disabled, or a CA bundle file
//   - Proxy: taken from the environment, or bypassed for this client only
//   - Timeout: none by default; a single attempt is made per request
//
// Usage:
//
//	client, err := httputil.NewClient(httputil.TransportOptions{
//	    CAFile:      "/etc/ssl/act-ca.pem",
//	    BypassProxy: true,
//	})
//
// There is no retry logic here. A failed call is final for the run.
package httputil
