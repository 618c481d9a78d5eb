package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wildintel/trapper-client/pkg/trapper"
)

var collectionColumns = []column[trapper.Collection]{
	{"pk", func(c trapper.Collection) string { return itoa(c.PK) }},
	{"collection_pk", func(c trapper.Collection) string { return optInt(c.CollectionPK) }},
	{"name", func(c trapper.Collection) string { return c.Name }},
	{"status", func(c trapper.Collection) string { return str(c.Status) }},
	{"owner", func(c trapper.Collection) string { return str(c.Owner) }},
	{"classified", func(c trapper.Collection) string {
		if c.TotalCount == nil {
			return NotAvailable
		}

		return fmt.Sprintf("%s/%d", optInt(c.ClassifiedCount), *c.TotalCount)
	}},
}

var resourceColumns = []column[trapper.Resource]{
	{"pk", func(r trapper.Resource) string { return itoa(r.PK) }},
	{"name", func(r trapper.Resource) string { return r.Name }},
	{"type", func(r trapper.Resource) string { return r.ResourceType }},
	{"deployment", func(r trapper.Resource) string { return str(r.Deployment) }},
	{"recorded", func(r trapper.Resource) string { return date(r.DateRecorded) }},
}

var mediaColumns = []column[trapper.Media]{
	{"media_id", func(m trapper.Media) string { return itoa(m.MediaID) }},
	{"deployment_id", func(m trapper.Media) string { return m.DeploymentID }},
	{"file_name", func(m trapper.Media) string { return m.FileName }},
	{"type", func(m trapper.Media) string { return m.FileMediatype }},
	{"timestamp", func(m trapper.Media) string { return date(m.Timestamp) }},
	{"favorite", func(m trapper.Media) string { return yesNo(m.Favorite) }},
}

// NewCollectionsCommand creates the collections command group.
func NewCollectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"collection", "col"},
		Short:   "List storage collections",
	}

	pick := func(c trapper.Client) trapper.ResourceClient[trapper.Collection] { return c.Collections() }

	cmd.AddCommand(newListCommand("List storage collections", pick, collectionColumns, nil))
	cmd.AddCommand(newFiltersCommand(pick))
	cmd.AddCommand(newCollectionsForProjectCommand())

	return cmd
}

func newCollectionsForProjectCommand() *cobra.Command {
	var (
		research       int
		classification int
		limit          int
	)

	cmd := &cobra.Command{
		Use:   "for-project",
		Short: "List the collections of a research or classification project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (research > 0) == (classification > 0) {
				return fmt.Errorf("%w: exactly one of --research or --classification is required", ErrProjectRequired)
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			var list *trapper.List[trapper.Collection]
			if research > 0 {
				list, err = client.Collections().ByResearchProject(cmd.Context(), research, nil)
			} else {
				list, err = client.Collections().ByClassificationProject(cmd.Context(), classification, nil)
			}

			if err != nil {
				return fmt.Errorf("failed to list collections: %w", err)
			}

			return renderList(cmd, list, collectionColumns, limit)
		},
	}

	cmd.Flags().IntVar(&research, "research", 0, "research project pk")
	cmd.Flags().IntVar(&classification, "classification", 0, "classification project pk")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows printed in table output (0 for all)")

	return cmd
}

// NewResourcesCommand creates the resources command group.
func NewResourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resources",
		Aliases: []string{"resource", "res"},
		Short:   "List stored images and videos",
	}

	pick := func(c trapper.Client) trapper.ResourceClient[trapper.Resource] { return c.Resources() }

	cmd.AddCommand(newListCommand("List resources", pick, resourceColumns, nil))
	cmd.AddCommand(newFiltersCommand(pick))

	var location, collection, limit int

	scoped := &cobra.Command{
		Use:   "for",
		Short: "List every resource of a location or storage collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (location > 0) == (collection > 0) {
				return fmt.Errorf("%w: exactly one of --location or --collection is required", trapper.ErrUsage)
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			var list *trapper.List[trapper.Resource]
			if location > 0 {
				list, err = client.Resources().ByLocation(cmd.Context(), location, nil)
			} else {
				list, err = client.Resources().ByCollection(cmd.Context(), collection, nil)
			}

			if err != nil {
				return fmt.Errorf("failed to list resources: %w", err)
			}

			return renderList(cmd, list, resourceColumns, limit)
		},
	}

	scoped.Flags().IntVar(&location, "location", 0, "location pk")
	scoped.Flags().IntVar(&collection, "collection", 0, "storage collection pk")
	scoped.Flags().IntVar(&limit, "limit", 0, "maximum rows printed in table output (0 for all)")

	cmd.AddCommand(scoped)

	return cmd
}

// NewMediaCommand creates the media command group.
func NewMediaCommand() *cobra.Command {
	var project int

	cmd := &cobra.Command{
		Use:   "media",
		Short: "List the media of a classification project",
	}

	cmd.PersistentFlags().IntVarP(&project, "project", "p", 0, "classification project pk")

	projectQuery := func() (trapper.Query, error) {
		if project <= 0 {
			return nil, ErrProjectRequired
		}

		return trapper.Query{"cp": project}, nil
	}

	pick := func(c trapper.Client) trapper.ResourceClient[trapper.Media] { return c.Media() }

	cmd.AddCommand(newListCommand("List media", pick, mediaColumns, projectQuery))
	cmd.AddCommand(newFiltersCommand(pick))
	cmd.AddCommand(&cobra.Command{
		Use:   "get MEDIA_ID...",
		Short: "Fetch media rows by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if project <= 0 {
				return ErrProjectRequired
			}

			ids := make([]int, len(args))

			for i, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("%w: invalid media id %q", trapper.ErrUsage, arg)
				}

				ids[i] = id
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			results := client.Media().GetMany(cmd.Context(), project, ids)
			values := results.Values()

			if err := renderList(cmd, &trapper.List[trapper.Media]{
				Pagination: trapper.SinglePage(len(values)),
				Results:    values,
			}, mediaColumns, 0); err != nil {
				return err
			}

			return results.Err()
		},
	})

	return cmd
}
