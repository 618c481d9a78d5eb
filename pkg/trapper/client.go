package trapper

import (
	"context"
	"time"
)

// CoreClient is the request and pagination contract every resource client is
// built on.
type CoreClient interface {
	PageFetcher

	// FetchAll walks every page of endpoint. See FetchAll.
	FetchAll(ctx context.Context, endpoint string, query Query) (*Envelope, error)

	// Request performs a single call and returns the raw response.
	Request(ctx context.Context, req *Request) (*Response, error)
}

// CatalogClients provides access to project and location catalogs.
type CatalogClients interface {
	Locations() LocationsClient
	Deployments() DeploymentsClient
	ResearchProjects() ResearchProjectsClient
	ClassificationProjects() ClassificationProjectsClient
	Classificators() ClassificatorsClient
}

// StorageClients provides access to collections, resources and media.
type StorageClients interface {
	Collections() CollectionsClient
	Resources() ResourcesClient
	Media() MediaClient
}

// ClassificationClients provides access to observation results and packages.
type ClassificationClients interface {
	Observations() ObservationsClient
	Packages() PackagesClient
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	CatalogClients
	StorageClients
	ClassificationClients
}

// Client is the Trapper API client.
type Client interface {
	CoreClient
	ResourceClients
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// # Authentication
//
// AccessToken takes precedence and is sent as "Authorization: Token <t>".
// Otherwise Username and Password are sent with HTTP Basic auth. A client
// without either can be built, but every call fails with ErrNoCredentials
// before reaching the network.
//
// # Retries, rate limiting and caching
//
// Calls are attempted once unless RetryMax is set. RateLimit bounds the
// request rate of the whole client. When Cache is set, successful page
// fetches (GET only) are cached for CacheTTL.
//
// The configuration is read once by the constructor; changing it afterwards
// has no effect on an existing client.
type Config struct {
	// BaseURL of the Trapper server, e.g. "https://wildintel-trap.uhu.es".
	// It must include a scheme and host.
	BaseURL string

	// AccessToken is a static API token.
	AccessToken string

	// Username and Password are used for HTTP Basic auth when no token is set.
	Username string
	Password string

	// SkipTLSVerify disables server certificate verification.
	SkipTLSVerify bool

	// HTTPTimeout bounds every single HTTP attempt. Zero uses the default.
	HTTPTimeout time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Logger receives client logs. Debug enables request/response logging.
	Logger Logger
	Debug  bool

	// RetryMax is the number of retries for connection errors, 429 and 5xx.
	// Zero disables retries.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// RateLimit is the maximum number of requests per second. Zero means
	// unlimited. RateBurst defaults to 1.
	RateLimit float64
	RateBurst int

	// Cache stores fetched pages. Nil disables caching.
	Cache    Cache
	CacheTTL time.Duration
}
