package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/wildintel/trapper-client/internal/auth"
	"github.com/wildintel/trapper-client/internal/constants"
	"github.com/wildintel/trapper-client/internal/http"
	"github.com/wildintel/trapper-client/pkg/trapper"
)

// Client implements the trapper.Client interface.
type Client struct {
	httpClient *http.Client
	exportHTTP *http.Client
	baseURL    string
	logger     trapper.Logger
	cache      trapper.Cache
	cacheTTL   time.Duration
	batch      *trapper.BatchExecutor

	// Resource clients
	locations              trapper.LocationsClient
	deployments            trapper.DeploymentsClient
	researchProjects       trapper.ResearchProjectsClient
	classificationProjects trapper.ClassificationProjectsClient
	classificators         trapper.ClassificatorsClient
	collections            trapper.CollectionsClient
	resources              trapper.ResourcesClient
	media                  trapper.MediaClient
	observations           trapper.ObservationsClient
	packages               trapper.PackagesClient
}

// ValidateBaseURL checks that baseURL has a scheme and a host.
func ValidateBaseURL(baseURL string) error {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: %q", trapper.ErrBaseURLInvalid, baseURL)
	}

	return nil
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *trapper.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.SkipTLSVerify {
		httpOpts = append(httpOpts, http.WithSkipTLSVerify(true))
	}

	if config.RateLimit > 0 {
		httpOpts = append(httpOpts, http.WithRateLimit(config.RateLimit, config.RateBurst))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a Trapper API client. Missing credentials are not an error
// here; every call then fails with trapper.ErrNoCredentials.
func New(_ context.Context, config *trapper.Config) (*Client, error) {
	if config == nil {
		return nil, trapper.ErrConfigRequired
	}

	if err := ValidateBaseURL(config.BaseURL); err != nil {
		return nil, err
	}

	authenticator := auth.FromCredentials(config.AccessToken, config.Username, config.Password)

	return NewWithAuthenticator(config, authenticator)
}

// NewWithAuthenticator creates a client with a custom authenticator.
func NewWithAuthenticator(config *trapper.Config, authenticator auth.Authenticator) (*Client, error) {
	if config == nil {
		return nil, trapper.ErrConfigRequired
	}

	if err := ValidateBaseURL(config.BaseURL); err != nil {
		return nil, err
	}

	httpOpts := createHTTPClientOptions(config)
	httpClient := http.NewClient(config.BaseURL, authenticator, httpOpts...)

	// Exports are generated on request and can take minutes.
	exportTimeout := max(config.HTTPTimeout, constants.ExportHTTPTimeout)
	exportHTTP := http.NewClient(config.BaseURL, authenticator, append(httpOpts, http.WithTimeout(exportTimeout))...)

	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = constants.DefaultCacheTTL
	}

	batch := trapper.NewBatchExecutor(constants.DefaultConcurrencyLimit)
	batch.SetLogger(config.Logger)

	client := &Client{
		httpClient: httpClient,
		exportHTTP: exportHTTP,
		baseURL:    config.BaseURL,
		logger:     config.Logger,
		cache:      config.Cache,
		cacheTTL:   cacheTTL,
		batch:      batch,
	}

	client.initializeResourceClients()

	return client, nil
}

func (c *Client) initializeResourceClients() {
	exports := exportRequester{c.exportHTTP}

	c.locations = newLocationsClient(c, exports)
	c.deployments = newDeploymentsClient(c, exports)
	c.researchProjects = newResearchProjectsClient(c)
	c.classificationProjects = newClassificationProjectsClient(c)
	c.classificators = newClassificatorsClient(c)
	c.collections = newCollectionsClient(c)
	c.resources = newResourcesClient(c)
	c.media = newMediaClient(c, c.batch)
	c.observations = newObservationsClient(c, c.collections)
	c.packages = newPackagesClient(c)
}

// exportRequester runs export downloads on the long-timeout transport.
type exportRequester struct {
	httpClient *http.Client
}

func (r exportRequester) Request(ctx context.Context, req *trapper.Request) (*trapper.Response, error) {
	return r.httpClient.Do(ctx, req)
}

// BaseURL returns the server the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request implements trapper.CoreClient.Request.
func (c *Client) Request(ctx context.Context, req *trapper.Request) (*trapper.Response, error) {
	return c.httpClient.Do(ctx, req)
}

// FetchPage implements trapper.PageFetcher. Placeholders of endpoint are
// filled from query. A 2xx body that is neither JSON nor CSV fails with a
// *trapper.DecodeError.
func (c *Client) FetchPage(ctx context.Context, endpoint string, query trapper.Query) (*trapper.Envelope, error) {
	resolved, remaining := trapper.ResolveEndpoint(endpoint, query)

	cacheKey := ""

	if c.cache != nil {
		key, err := trapper.CacheKey(resolved, remaining)
		if err == nil {
			cacheKey = key

			if env, ok := c.cachedPage(ctx, cacheKey); ok {
				return env, nil
			}
		}
	}

	resp, err := c.httpClient.Get(ctx, resolved, remaining)
	if err != nil {
		return nil, err
	}

	if resp.Envelope == nil {
		return nil, &trapper.DecodeError{
			Format: "response",
			Err:    fmt.Errorf("%w: content type %q", trapper.ErrUnrecognizedPayload, resp.ContentType()),
			Body:   resp.Body,
		}
	}

	if cacheKey != "" {
		c.storePage(ctx, cacheKey, resp.Envelope)
	}

	return resp.Envelope, nil
}

// FetchAll implements trapper.CoreClient.FetchAll.
func (c *Client) FetchAll(ctx context.Context, endpoint string, query trapper.Query) (*trapper.Envelope, error) {
	return trapper.FetchAll(ctx, c, endpoint, query)
}

func (c *Client) cachedPage(ctx context.Context, key string) (*trapper.Envelope, bool) {
	entry, err := c.cache.Get(ctx, key)
	if err != nil {
		if !isCacheMiss(err) {
			c.warn("page cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		}

		return nil, false
	}

	var env trapper.Envelope
	if err := json.Unmarshal(entry.Data, &env); err != nil {
		_ = c.cache.Delete(ctx, key)

		return nil, false
	}

	return &env, true
}

// isCacheMiss reports errors that just mean "not cached", as opposed to a
// failing backend.
func isCacheMiss(err error) bool {
	return errors.Is(err, trapper.ErrCacheMiss) ||
		errors.Is(err, trapper.ErrCacheEntryExpired) ||
		errors.Is(err, trapper.ErrCacheDisabled)
}

func (c *Client) storePage(ctx context.Context, key string, env *trapper.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		return
	}

	entry := &trapper.CacheEntry{Data: data, ExpiresAt: time.Now().Add(c.cacheTTL)}
	if err := c.cache.Set(ctx, key, entry); err != nil {
		c.warn("page cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (c *Client) warn(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, fields)
	}
}

// Resource client accessors

// Locations implements trapper.Client.Locations.
func (c *Client) Locations() trapper.LocationsClient {
	return c.locations
}

// Deployments implements trapper.Client.Deployments.
func (c *Client) Deployments() trapper.DeploymentsClient {
	return c.deployments
}

// ResearchProjects implements trapper.Client.ResearchProjects.
func (c *Client) ResearchProjects() trapper.ResearchProjectsClient {
	return c.researchProjects
}

// ClassificationProjects implements trapper.Client.ClassificationProjects.
func (c *Client) ClassificationProjects() trapper.ClassificationProjectsClient {
	return c.classificationProjects
}

// Classificators implements trapper.Client.Classificators.
func (c *Client) Classificators() trapper.ClassificatorsClient {
	return c.classificators
}

// Collections implements trapper.Client.Collections.
func (c *Client) Collections() trapper.CollectionsClient {
	return c.collections
}

// Resources implements trapper.Client.Resources.
func (c *Client) Resources() trapper.ResourcesClient {
	return c.resources
}

// Media implements trapper.Client.Media.
func (c *Client) Media() trapper.MediaClient {
	return c.media
}

// Observations implements trapper.Client.Observations.
func (c *Client) Observations() trapper.ObservationsClient {
	return c.observations
}

// Packages implements trapper.Client.Packages.
func (c *Client) Packages() trapper.PackagesClient {
	return c.packages
}

var _ trapper.Client = (*Client)(nil)
