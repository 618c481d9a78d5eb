// Package trapper provides types, interfaces, and helpers for working with the
// Trapper camera-trap data API.
//
// # Overview
//
// The trapper package defines the domain types (e.g., Location, Deployment,
// Collection, Media, ObservationTrapper) and the interfaces for
// resource-oriented clients (e.g., LocationsClient, MediaClient). A concrete
// implementation is provided by the trapperclient package, which wires
// configuration, transport and authentication. Most consumers import
// trapperclient to construct a client and then use the interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/wildintel/trapper-client/pkg/trapper"
//	  "github.com/wildintel/trapper-client/pkg/trapperclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := trapperclient.NewWithToken(ctx, "https://wildintel-trap.uhu.es", "token")
//	  if err != nil { log.Fatal(err) }
//
//	  // First page of locations
//	  locations, err := cli.Locations().Get(ctx, nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = locations
//	}
//
// # Envelopes
//
// Every successful call is normalized into an Envelope holding Pagination and
// Results, whatever the server sent: a paginated JSON body, a bare JSON object
// or list, or a CSV export (plain, zip, gzip or bzip2). Results are opaque
// Records; Decode and DecodeList turn them into typed values.
//
// # Pagination
//
// FetchAll walks every page eagerly and concatenates the results:
//
//	env, err := trapper.FetchAll(ctx, cli, "/geomap/api/locations", trapper.Query{"owner": true})
//
// A Cursor walks lazily, fetching the next page only when the current one has
// been consumed, and can filter items on the client:
//
//	cursor := cli.Deployments().Iterate(ctx, trapper.Query{"research_project": 7},
//	  trapper.WithPredicate(func(d trapper.Deployment) bool { return d.CorrectSetup }))
//	err := trapper.WithCursor(cursor, func(c *trapper.Cursor[trapper.Deployment]) error {
//	  return c.ForEach(func(d trapper.Deployment) error { return nil })
//	})
//
// Endpoint templates may carry {name} placeholders, filled from the query by
// ResolveEndpoint; the consumed keys are not sent as query parameters.
//
// # Errors
//
// Non-2xx responses are returned as *APIError and match ErrAPI plus a status
// kind such as ErrNotFound. Helpers such as IsNotFound, IsUnauthorized, and
// IsForbidden make it easy to branch on common cases. Missing credentials and
// invalid base URLs match ErrConfiguration; caller mistakes such as unknown
// filter fields match ErrUsage.
//
// # Caching and batches
//
// Page fetches can be cached with a Cache (memory, NATS KV or Redis). Bulk
// lookups run through RunBatch, which bounds concurrency and collects per-item
// failures.
package trapper
