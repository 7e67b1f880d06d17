// Package actapi fetches the type catalogs of an ACT platform instance.
//
// # Overview
//
// A fetch is two GET requests against the ACT REST API:
//
//   - {base}/v1/objectType: the object type catalog
//   - {base}/v1/factType: the fact type catalog with object bindings
//
// Both carry the ACT-User-ID header and Accept: application/json, plus HTTP
// basic auth when credentials are configured.
//
// # Usage
//
//	client, err := actapi.NewClient(actapi.Options{
//	    BaseURL: "https://act.example.org",
//	    UserID:  1,
//	}, logger)
//	res, err := client.Fetch(ctx)
//	if err != nil || !res.OK() {
//	    // res.Status holds the first non-200 status
//	}
//	model := res.Model(datamodel.WithLogger(logger))
//
// # Failure policy
//
// Any non-200 answer stops the fetch and discards both payloads, even when
// the object catalog was already loaded, so a partial model is never
// mistaken for a complete one. There are no retries.
package actapi
