package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wildintel/trapper-client/internal/constants"
	"github.com/wildintel/trapper-client/pkg/trapper"
)

// requester performs a single raw call.
type requester interface {
	Request(ctx context.Context, req *trapper.Request) (*trapper.Response, error)
}

// exporter downloads the CSV export of a collection endpoint.
type exporter struct {
	client   requester
	endpoint string
}

// Export implements trapper.Exporter.Export.
func (e exporter) Export(ctx context.Context, query trapper.Query) (*trapper.Response, error) {
	return e.client.Request(ctx, &trapper.Request{
		Method:   http.MethodGet,
		Endpoint: e.endpoint,
		Query:    query,
		Raw:      true,
	})
}

// ExportRecords implements trapper.Exporter.ExportRecords.
func (e exporter) ExportRecords(ctx context.Context, query trapper.Query) (*trapper.Envelope, error) {
	resp, err := e.client.Request(ctx, &trapper.Request{
		Method:   http.MethodGet,
		Endpoint: e.endpoint,
		Query:    query,
	})
	if err != nil {
		return nil, err
	}

	if resp.Envelope != nil {
		return resp.Envelope, nil
	}

	return nil, &trapper.DecodeError{
		Format: "export",
		Err:    fmt.Errorf("%w: content type %q", trapper.ErrUnrecognizedPayload, resp.ContentType()),
		Body:   resp.Body,
	}
}

// LocationsClient implements trapper.LocationsClient.
type LocationsClient struct {
	*component[trapper.Location]
	exporter
}

func newLocationsClient(client trapper.CoreClient, exports requester) *LocationsClient {
	return &LocationsClient{
		component: newComponent[trapper.Location](client, constants.LocationsPath, nil, filters(
			"name", "location_id", "description", "owner", "owners", "research_project",
			"deployments", "locations_map", "is_public", "city", "country", "state", "county",
		)),
		exporter: exporter{client: exports, endpoint: constants.LocationsExportPath},
	}
}

// DeploymentsClient implements trapper.DeploymentsClient.
type DeploymentsClient struct {
	*component[trapper.Deployment]
	exporter
}

func newDeploymentsClient(client trapper.CoreClient, exports requester) *DeploymentsClient {
	return &DeploymentsClient{
		component: newComponent[trapper.Deployment](client, constants.DeploymentsPath, nil, filters(
			"deployment_code", "deployment_id", "location", "research_project", "tags", "owner",
			"sdate_from", "sdate_to", "edate_from", "edate_to", "classification_project",
			"correct_setup", "correct_tstamp",
		)),
		exporter: exporter{client: exports, endpoint: constants.DeploymentsExportPath},
	}
}

// ResearchProjectsClient implements trapper.ResearchProjectsClient.
type ResearchProjectsClient struct {
	*component[trapper.ResearchProject]
}

func newResearchProjectsClient(client trapper.CoreClient) *ResearchProjectsClient {
	return &ResearchProjectsClient{
		component: newComponent[trapper.ResearchProject](client, constants.ResearchProjectsPath, nil,
			filters("owner", "keywords", "acronym")),
	}
}

// ClassificationProjectsClient implements trapper.ClassificationProjectsClient.
type ClassificationProjectsClient struct {
	*component[trapper.ClassificationProject]
}

func newClassificationProjectsClient(client trapper.CoreClient) *ClassificationProjectsClient {
	return &ClassificationProjectsClient{
		component: newComponent[trapper.ClassificationProject](client, constants.ClassificationProjectsPath, nil,
			filters("owner", "research_project", "status")),
	}
}

// ClassificatorsClient implements trapper.ClassificatorsClient.
type ClassificatorsClient struct {
	*component[trapper.Classificator]
}

func newClassificatorsClient(client trapper.CoreClient) *ClassificatorsClient {
	return &ClassificatorsClient{
		component: newComponent[trapper.Classificator](client, constants.ClassificatorsPath, nil, filters(
			"name", "owner", "template", "species", "tracked_species", "observation_type", "is_setup",
			"sex", "age", "count", "count_new", "behaviour", "individual_id",
			"classification_confidence", "updated_date",
		)),
	}
}

var (
	_ trapper.LocationsClient              = (*LocationsClient)(nil)
	_ trapper.DeploymentsClient            = (*DeploymentsClient)(nil)
	_ trapper.ResearchProjectsClient       = (*ResearchProjectsClient)(nil)
	_ trapper.ClassificationProjectsClient = (*ClassificationProjectsClient)(nil)
	_ trapper.ClassificatorsClient         = (*ClassificatorsClient)(nil)
)
