// Package meili is a thin client for a Meilisearch-style search server.
//
// It covers index lifecycle management (create, list, show, update, delete)
// and server introspection (health, version, stats, system info). Every call
// is a fresh round trip: nothing is cached and nothing is retried. Failures
// come back as *Error values carrying the server's message verbatim, and can
// be classified with errors.Is against the package sentinels:
//
//	client := meili.NewClient("http://127.0.0.1:7700", masterKey)
//	idx, err := client.CreateIndex(ctx, meili.CreateIndexRequest{UID: "movies", PrimaryKey: "id"})
//	if errors.Is(err, meili.ErrAlreadyExists) {
//		// reuse it
//	}
//	info, err := client.GetIndex("movies").Show(ctx)
//
// Key scopes are enforced by the server alone. A key without the required
// permission surfaces as an error matching ErrUnauthorized.
package meili
