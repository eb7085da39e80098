package consts

// Route constants of the search server REST surface
const (
	// Health endpoint, reachable without a key
	RouteHealth = "/health"

	// Index endpoints
	RouteIndexes    = "/indexes"
	RouteIndexStats = "/stats"

	// Introspection endpoints, master key only
	RouteVersion       = "/version"
	RouteStats         = "/stats"
	RouteSysInfo       = "/sys-info"
	RouteSysInfoPretty = "/sys-info/pretty"
	RouteKeys          = "/keys"
)

// Header names
const (
	HeaderAPIKey        = "X-Meili-API-Key"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderTraceParent   = "Traceparent"
	HeaderTraceState    = "Tracestate"

	ContentTypeJSON = "application/json"
	BearerPrefix    = "Bearer "
)

// Default values
const (
	DefaultHost           = "http://127.0.0.1:7700"
	DefaultTimeoutSeconds = 30
	DefaultMockAddr       = "127.0.0.1:7700"
	TraceStateVendor      = "meilikit=client"
)
