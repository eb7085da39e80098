// Package integration holds the configuration and client set used by the
// permission-matrix suite in ./suites.
//
// The suite talks to the server named by MEILI_HOST. When MEILI_HOST is unset
// an in-process stand-in is started instead, so the suite always runs.
// Settings come from the environment, optionally seeded from test/.env:
//
//	MEILI_HOST         base URL of the server under test
//	MEILI_MASTER_KEY   master key of that server (default "masterKey")
//	MEILI_PRIVATE_KEY  private key; fetched from GET /keys when empty
//	MEILI_PUBLIC_KEY   public key; fetched from GET /keys when empty
//	REQUEST_TIMEOUT    per-request timeout (default 10s)
//	SKIP_INTEGRATION   skip the whole suite
//	DEBUG_LOGGING      log every request at debug level
package integration
