package constants

import "time"

// Version is the client version reported in the User-Agent header.
const Version = "0.4.0"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ExportHTTPTimeout is used for CSV exports and package generation.
	ExportHTTPTimeout = 5 * time.Minute
)

// Retry defaults. Retries are off unless a caller opts in.
const (
	// DefaultRetryMax is the default number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Concurrency and caching limits.
const (
	// DefaultConcurrencyLimit limits concurrent batch operations.
	DefaultConcurrencyLimit = 4

	// DefaultCacheSize is the default number of pages kept by the memory cache.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default lifetime of a cached page.
	DefaultCacheTTL = 5 * time.Minute
)

// Pagination.
const (
	// CursorPageSize is the page size a Cursor requests by default.
	CursorPageSize = 50

	// DefaultListLimit is the number of rows the CLI prints by default.
	DefaultListLimit = 50
)

// Service defaults.
const (
	// DefaultBaseURL is the public Trapper instance of the WildINTEL project.
	DefaultBaseURL = "https://wildintel-trap.uhu.es"

	// UserAgentPrefix is prepended to Version in the User-Agent header.
	UserAgentPrefix = "trapper-client-go/"

	// AcceptHeader lists the response types the normalizer understands.
	AcceptHeader = "application/json, text/csv;q=0.9, */*;q=0.8"
)

// Environment variables read by FromEnvironment.
const (
	EnvBaseURL       = "TRAPPER_URL"
	EnvAccessToken   = "TRAPPER_ACCESS_TOKEN"
	EnvUsername      = "TRAPPER_USER_NAME"
	EnvPassword      = "TRAPPER_USER_PASSWORD"
	EnvSkipTLSVerify = "TRAPPER_SKIP_TLS_VERIFY"
)

// Endpoint templates. {name} tokens are filled from the query.
const (
	LocationsPath              = "/geomap/api/locations"
	LocationsExportPath        = "/geomap/api/locations/export/"
	DeploymentsPath            = "/geomap/api/deployments"
	DeploymentsExportPath      = "/geomap/api/deployments/export/"
	ResearchProjectsPath       = "/research/api/projects"
	ClassificationProjectsPath = "/media_classification/api/projects"
	ClassificatorsPath         = "/media_classification/api/classificators"

	CollectionsPath                      = "/storage/api/collections"
	ResearchProjectCollectionsPath       = "/research/api/project/{rp}/collections"
	ClassificationProjectCollectionsPath = "/media_classification/api/project/{cp}/collections"
	ResourcesPath                        = "/storage/api/resources"
	ResourcesByLocationPath              = "/storage/api/resources/location/{location}"
	ResourcesByCollectionPath            = "/storage/api/resources/collection/{collection}"
	MediaPath                            = "/media_classification/api/media/{cp}/"

	ClassificationsPath     = "/media_classification/api/classifications"
	AIClassificationsPath   = "/media_classification/api/ai-classifications"
	UserClassificationsPath = "/media_classification/api/user-classifications"
	ResultsPath             = "/media_classification/api/classifications/results/{cp}/"
	AIResultsPath           = "/media_classification/api/ai-classifications/results/{cp}"
	ResultsAggregatedPath   = "/media_classification/api/classifications/results/agg/{cp}/"
	MediaTablePath          = "/media_classification/api/classifications/media_table/{cp}"
	PackagePath             = "/media_classification/api/package/{cp}/"
)
