package trapper

import (
	"context"
)

// FilterField maps a filter name accepted by GetBy/GetAllBy to the query
// parameter sent to the server.
type FilterField struct {
	Field    string
	QueryKey string
}

// ResourceClient is the read API shared by every resource collection.
//
// Endpoints may contain {name} placeholders (e.g. {cp} for a classification
// project); their values are taken from the query. The query passed by the
// caller is merged over the client defaults, caller keys winning.
type ResourceClient[T any] interface {
	// Endpoint returns the endpoint template.
	Endpoint() string

	// Filters returns the filter table used by GetBy and GetAllBy.
	Filters() []FilterField

	// Get fetches a single page.
	Get(ctx context.Context, query Query) (*List[T], error)

	// GetAll fetches every page.
	GetAll(ctx context.Context, query Query) (*List[T], error)

	// GetBy fetches a single page filtered by field. Unknown fields fail with
	// ErrUnknownFilter.
	GetBy(ctx context.Context, field string, value any, query Query) (*List[T], error)

	// GetAllBy fetches every page filtered by field.
	GetAllBy(ctx context.Context, field string, value any, query Query) (*List[T], error)

	// Iterate returns a lazy Cursor over the endpoint.
	Iterate(ctx context.Context, query Query, opts ...CursorOption[T]) *Cursor[T]
}

// Exporter downloads the CSV export of a resource collection.
type Exporter interface {
	// Export returns the raw export, possibly compressed.
	Export(ctx context.Context, query Query) (*Response, error)

	// ExportRecords returns the export normalized into an Envelope.
	ExportRecords(ctx context.Context, query Query) (*Envelope, error)
}

// LocationsClient lists and exports locations.
type LocationsClient interface {
	ResourceClient[Location]
	Exporter
}

// DeploymentsClient lists and exports deployments.
type DeploymentsClient interface {
	ResourceClient[Deployment]
	Exporter
}

// ResearchProjectsClient lists research projects.
type ResearchProjectsClient interface {
	ResourceClient[ResearchProject]
}

// ClassificationProjectsClient lists classification projects.
type ClassificationProjectsClient interface {
	ResourceClient[ClassificationProject]
}

// ClassificatorsClient lists classificators.
type ClassificatorsClient interface {
	ResourceClient[Classificator]
}

// CollectionsClient lists storage collections and project-scoped collections.
type CollectionsClient interface {
	ResourceClient[Collection]

	// ByResearchProject lists every collection of a research project.
	ByResearchProject(ctx context.Context, researchProject int, query Query) (*List[Collection], error)

	// ByClassificationProject lists every collection of a classification
	// project. Rows carry the project-scoped pk and the storage CollectionPK.
	ByClassificationProject(ctx context.Context, classificationProject int, query Query) (*List[Collection], error)
}

// ResourcesClient lists stored resources.
type ResourcesClient interface {
	ResourceClient[Resource]

	// ByLocation lists every resource recorded at a location.
	ByLocation(ctx context.Context, location int, query Query) (*List[Resource], error)

	// ByCollection lists every resource of a storage collection.
	ByCollection(ctx context.Context, collection int, query Query) (*List[Resource], error)
}

// MediaClient lists the media of a classification project. The project is
// passed as the "cp" query key.
type MediaClient interface {
	ResourceClient[Media]

	// ByClassificationProject lists every media row of a project.
	ByClassificationProject(ctx context.Context, classificationProject int, query Query) (*List[Media], error)

	// GetMany fetches media rows by id concurrently. A failure for one id
	// does not stop the others; see BatchResults.Err.
	GetMany(ctx context.Context, classificationProject int, mediaIDs []int) BatchResults[int, Media]
}

// ObservationsClient groups the classification and observation result
// endpoints. Result endpoints return different row layouts depending on the
// camtrapdp flag, so each layout has its own typed client.
type ObservationsClient interface {
	// Results lists observation rows in Trapper layout.
	Results() ResourceClient[ObservationTrapper]

	// ResultsCamtrapDP lists observation rows in Camtrap DP layout.
	ResultsCamtrapDP() ResourceClient[ObservationCamtrapDP]

	// AIResults lists AI observation rows in Trapper layout.
	AIResults() ResourceClient[ObservationTrapper]

	// AIResultsCamtrapDP lists AI observation rows in Camtrap DP layout.
	AIResultsCamtrapDP() ResourceClient[ObservationCamtrapDP]

	// ResultsAggregated lists aggregated observation rows.
	ResultsAggregated() ResourceClient[ObservationTrapper]

	// MediaTable lists the per-media classification table of a project.
	MediaTable() ResourceClient[Record]

	Classifications() ResourceClient[Classification]
	AIClassifications() ResourceClient[AIClassification]
	UserClassifications() ResourceClient[UserClassification]

	// ResultsByCollection lists the observation rows of one storage
	// collection within a classification project. An empty list is returned
	// when the collection is not part of the project.
	ResultsByCollection(ctx context.Context, classificationProject, collection int, query Query) (*List[ObservationTrapper], error)
}

// PackagesClient generates data packages.
type PackagesClient interface {
	// Generate requests a data package for a classification project. Only
	// generation parameters are forwarded; other keys are dropped.
	Generate(ctx context.Context, classificationProject int, params Query) (*Package, error)

	// Params lists the generation parameters forwarded by Generate.
	Params() []string
}
