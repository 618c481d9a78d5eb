package client

import (
	"context"
	"fmt"
	"slices"

	"github.com/wildintel/trapper-client/internal/constants"
	"github.com/wildintel/trapper-client/pkg/trapper"
)

const camtrapDPKey = "camtrapdp"

var (
	resultsFilters = filters(
		"project", "owner", "deployment", "collection", "locations_map", "status", "status_ai",
		"rdate_from", "rdate_to", "rtime_from", "rtime_to", "ftype", "classified", "classified_ai",
		"bboxes", "species", "observation_type", "sex", "age",
	)

	classificationFilters = filters("project", "owner", "deployment")

	aiFilters = filters(
		"project", "deployment", "collection", "ftype", "species", "observation_type", "bboxes",
		"approved", "confidence", "ai_provider",
	)

	userClassificationFilters = filters(
		"project", "user", "owner", "deployment", "collection", "species", "ftype", "approved",
		"bboxes", "feedback", "observation_type", "locations_map", "rdate_from", "rdate_to",
		"rtime_from", "rtime_to",
	)
)

// The server reads the camtrapdp flag as a Python-style boolean.
var (
	trapperLayout   = trapper.Query{camtrapDPKey: "False"}
	camtrapDPLayout = trapper.Query{camtrapDPKey: "True"}
)

// ObservationsClient implements trapper.ObservationsClient.
type ObservationsClient struct {
	collections trapper.CollectionsClient

	results             *component[trapper.ObservationTrapper]
	resultsCamtrapDP    *component[trapper.ObservationCamtrapDP]
	aiResults           *component[trapper.ObservationTrapper]
	aiResultsCamtrapDP  *component[trapper.ObservationCamtrapDP]
	resultsAggregated   *component[trapper.ObservationTrapper]
	mediaTable          *component[trapper.Record]
	classifications     *component[trapper.Classification]
	aiClassifications   *component[trapper.AIClassification]
	userClassifications *component[trapper.UserClassification]
}

func newObservationsClient(client trapper.CoreClient, collections trapper.CollectionsClient) *ObservationsClient {
	return &ObservationsClient{
		collections: collections,

		results:             newComponent[trapper.ObservationTrapper](client, constants.ResultsPath, trapperLayout, resultsFilters),
		resultsCamtrapDP:    newComponent[trapper.ObservationCamtrapDP](client, constants.ResultsPath, camtrapDPLayout, resultsFilters),
		aiResults:           newComponent[trapper.ObservationTrapper](client, constants.AIResultsPath, trapperLayout, aiFilters),
		aiResultsCamtrapDP:  newComponent[trapper.ObservationCamtrapDP](client, constants.AIResultsPath, camtrapDPLayout, aiFilters),
		resultsAggregated:   newComponent[trapper.ObservationTrapper](client, constants.ResultsAggregatedPath, trapperLayout, resultsFilters),
		mediaTable:          newComponent[trapper.Record](client, constants.MediaTablePath, nil, resultsFilters),
		classifications:     newComponent[trapper.Classification](client, constants.ClassificationsPath, nil, classificationFilters),
		aiClassifications:   newComponent[trapper.AIClassification](client, constants.AIClassificationsPath, nil, aiFilters),
		userClassifications: newComponent[trapper.UserClassification](client, constants.UserClassificationsPath, nil, userClassificationFilters),
	}
}

// Results implements trapper.ObservationsClient.Results.
func (o *ObservationsClient) Results() trapper.ResourceClient[trapper.ObservationTrapper] {
	return o.results
}

// ResultsCamtrapDP implements trapper.ObservationsClient.ResultsCamtrapDP.
func (o *ObservationsClient) ResultsCamtrapDP() trapper.ResourceClient[trapper.ObservationCamtrapDP] {
	return o.resultsCamtrapDP
}

// AIResults implements trapper.ObservationsClient.AIResults.
func (o *ObservationsClient) AIResults() trapper.ResourceClient[trapper.ObservationTrapper] {
	return o.aiResults
}

// AIResultsCamtrapDP implements trapper.ObservationsClient.AIResultsCamtrapDP.
func (o *ObservationsClient) AIResultsCamtrapDP() trapper.ResourceClient[trapper.ObservationCamtrapDP] {
	return o.aiResultsCamtrapDP
}

// ResultsAggregated implements trapper.ObservationsClient.ResultsAggregated.
func (o *ObservationsClient) ResultsAggregated() trapper.ResourceClient[trapper.ObservationTrapper] {
	return o.resultsAggregated
}

// MediaTable implements trapper.ObservationsClient.MediaTable.
func (o *ObservationsClient) MediaTable() trapper.ResourceClient[trapper.Record] {
	return o.mediaTable
}

// Classifications implements trapper.ObservationsClient.Classifications.
func (o *ObservationsClient) Classifications() trapper.ResourceClient[trapper.Classification] {
	return o.classifications
}

// AIClassifications implements trapper.ObservationsClient.AIClassifications.
func (o *ObservationsClient) AIClassifications() trapper.ResourceClient[trapper.AIClassification] {
	return o.aiClassifications
}

// UserClassifications implements trapper.ObservationsClient.UserClassifications.
func (o *ObservationsClient) UserClassifications() trapper.ResourceClient[trapper.UserClassification] {
	return o.userClassifications
}

// ResultsByCollection implements trapper.ObservationsClient.ResultsByCollection.
//
// Result rows are filtered by the project-scoped collection pk, so the storage
// collection is first looked up among the collections of the project.
func (o *ObservationsClient) ResultsByCollection(ctx context.Context, classificationProject, collection int, query trapper.Query) (*trapper.List[trapper.ObservationTrapper], error) {
	collections, err := o.collections.ByClassificationProject(ctx, classificationProject, nil)
	if err != nil {
		return nil, fmt.Errorf("listing collections of project %d: %w", classificationProject, err)
	}

	var scoped []int

	for _, c := range collections.Results {
		if c.CollectionPK != nil && *c.CollectionPK == collection {
			scoped = append(scoped, c.PK)
		}
	}

	if len(scoped) == 0 {
		return &trapper.List[trapper.ObservationTrapper]{
			Pagination: trapper.SinglePage(0),
			Results:    []trapper.ObservationTrapper{},
		}, nil
	}

	return o.results.GetAll(ctx, trapper.Query{
		"cp":         classificationProject,
		"collection": scoped,
	}.Merge(query))
}

// packageParams are the generation parameters accepted by the package endpoint.
var packageParams = []string{
	"clear_cache",
	"release",
	"get_released",
	"export_format",
	"export_filetype",
	"approved_only",
	"exclude_blank",
	"all_deployments",
	"filter_deployments",
	"include_events",
	"events_count_var",
	"trapper_url_token",
	"private_human",
	"private_vehicle",
	"private_species",
}

// PackagesClient implements trapper.PackagesClient.
type PackagesClient struct {
	client trapper.CoreClient
}

func newPackagesClient(client trapper.CoreClient) *PackagesClient {
	return &PackagesClient{client: client}
}

// Params implements trapper.PackagesClient.Params.
func (p *PackagesClient) Params() []string {
	return slices.Clone(packageParams)
}

// Generate implements trapper.PackagesClient.Generate.
func (p *PackagesClient) Generate(ctx context.Context, classificationProject int, params trapper.Query) (*trapper.Package, error) {
	query := trapper.Query{}

	for key, value := range params {
		if slices.Contains(packageParams, key) {
			query[key] = value
		}
	}

	endpoint, _ := trapper.ResolveEndpoint(constants.PackagePath, trapper.Query{"cp": classificationProject})

	resp, err := p.client.Request(ctx, &trapper.Request{Endpoint: endpoint, Query: trapper.Merge(nil, query)})
	if err != nil {
		return nil, fmt.Errorf("generating package for project %d: %w", classificationProject, err)
	}

	if resp.Envelope == nil || len(resp.Envelope.Results) == 0 {
		return nil, &trapper.DecodeError{
			Format: "package",
			Err:    fmt.Errorf("%w: no package in response", trapper.ErrUnrecognizedPayload),
			Body:   resp.Body,
		}
	}

	// The package is reported under results[0].data; bare objects are
	// accepted as well.
	record := resp.Envelope.Results[0]
	if data, ok := record["data"].(map[string]any); ok {
		record = data
	}

	pkg, err := trapper.Decode[trapper.Package](record)
	if err != nil {
		return nil, err
	}

	return &pkg, nil
}

var (
	_ trapper.ObservationsClient = (*ObservationsClient)(nil)
	_ trapper.PackagesClient     = (*PackagesClient)(nil)
)
