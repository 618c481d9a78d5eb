package client

import (
	"context"
	"fmt"

	"github.com/wildintel/trapper-client/internal/constants"
	"github.com/wildintel/trapper-client/pkg/trapper"
)

// CollectionsClient implements trapper.CollectionsClient.
type CollectionsClient struct {
	*component[trapper.Collection]
}

func newCollectionsClient(client trapper.CoreClient) *CollectionsClient {
	return &CollectionsClient{
		component: newComponent[trapper.Collection](client, constants.CollectionsPath, nil,
			filters("name", "status", "owner", "research_projects", "owners", "locations_map")),
	}
}

// ByResearchProject implements trapper.CollectionsClient.ByResearchProject.
func (c *CollectionsClient) ByResearchProject(ctx context.Context, researchProject int, query trapper.Query) (*trapper.List[trapper.Collection], error) {
	return c.all(ctx, constants.ResearchProjectCollectionsPath, c.query(query).With("rp", researchProject))
}

// ByClassificationProject implements trapper.CollectionsClient.ByClassificationProject.
func (c *CollectionsClient) ByClassificationProject(ctx context.Context, classificationProject int, query trapper.Query) (*trapper.List[trapper.Collection], error) {
	return c.all(ctx, constants.ClassificationProjectCollectionsPath, c.query(query).With("cp", classificationProject))
}

// ResourcesClient implements trapper.ResourcesClient.
type ResourcesClient struct {
	*component[trapper.Resource]
}

func newResourcesClient(client trapper.CoreClient) *ResourcesClient {
	return &ResourcesClient{
		component: newComponent[trapper.Resource](client, constants.ResourcesPath, nil, filters(
			"name", "resource_type", "status", "rdate_from", "rdate_to", "udate_from", "udate_to",
			"rtime_from", "rtime_to", "owner", "locations_map", "collections", "deployments",
			"deployment__isnull", "tags", "observation_type", "species", "timestamp_error",
		)),
	}
}

// ByLocation implements trapper.ResourcesClient.ByLocation.
func (c *ResourcesClient) ByLocation(ctx context.Context, location int, query trapper.Query) (*trapper.List[trapper.Resource], error) {
	return c.all(ctx, constants.ResourcesByLocationPath, c.query(query).With("location", location))
}

// ByCollection implements trapper.ResourcesClient.ByCollection.
func (c *ResourcesClient) ByCollection(ctx context.Context, collection int, query trapper.Query) (*trapper.List[trapper.Resource], error) {
	return c.all(ctx, constants.ResourcesByCollectionPath, c.query(query).With("collection", collection))
}

// MediaClient implements trapper.MediaClient.
type MediaClient struct {
	*component[trapper.Media]

	batch *trapper.BatchExecutor
}

func newMediaClient(client trapper.CoreClient, batch *trapper.BatchExecutor) *MediaClient {
	return &MediaClient{
		component: newComponent[trapper.Media](client, constants.MediaPath, nil, filters(
			"project", "owner", "deployment", "collection", "locations_map", "status", "status_ai",
			"rdate_from", "rdate_to", "rtime_from", "rtime_to", "ftype", "classified", "classified_ai",
			"bboxes", "species", "observation_type", "sex", "age", "weather", "temperature", "habitat",
		)),
		batch: batch,
	}
}

// ByClassificationProject implements trapper.MediaClient.ByClassificationProject.
func (c *MediaClient) ByClassificationProject(ctx context.Context, classificationProject int, query trapper.Query) (*trapper.List[trapper.Media], error) {
	return c.GetAll(ctx, trapper.Query{"cp": classificationProject}.Merge(query))
}

// GetMany implements trapper.MediaClient.GetMany. Each id is looked up with a
// pk filter; rows whose mediaID differs are ignored.
func (c *MediaClient) GetMany(ctx context.Context, classificationProject int, mediaIDs []int) trapper.BatchResults[int, trapper.Media] {
	return trapper.RunBatch(ctx, c.batch, mediaIDs, func(ctx context.Context, mediaID int) (trapper.Media, error) {
		return c.byID(ctx, classificationProject, mediaID)
	})
}

func (c *MediaClient) byID(ctx context.Context, classificationProject, mediaID int) (trapper.Media, error) {
	list, err := c.GetBy(ctx, "pk", mediaID, trapper.Query{"cp": classificationProject})
	if err != nil {
		return trapper.Media{}, err
	}

	for _, media := range list.Results {
		if media.MediaID == mediaID {
			return media, nil
		}
	}

	return trapper.Media{}, fmt.Errorf("%w: media %d", trapper.ErrNotFound, mediaID)
}

var (
	_ trapper.CollectionsClient = (*CollectionsClient)(nil)
	_ trapper.ResourcesClient   = (*ResourcesClient)(nil)
	_ trapper.MediaClient       = (*MediaClient)(nil)
)
