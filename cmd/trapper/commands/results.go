package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wildintel/trapper-client/pkg/trapper"
)

var observationColumns = []column[trapper.ObservationTrapper]{
	{"observation_id", func(o trapper.ObservationTrapper) string { return itoa(o.ObservationID) }},
	{"deployment_id", func(o trapper.ObservationTrapper) string { return o.DeploymentID }},
	{"media_id", func(o trapper.ObservationTrapper) string { return optInt(o.MediaID) }},
	{"type", func(o trapper.ObservationTrapper) string { return o.ObservationType }},
	{"scientific_name", func(o trapper.ObservationTrapper) string { return str(o.ScientificName) }},
	{"count", func(o trapper.ObservationTrapper) string { return optInt(o.Count) }},
	{"boxes", func(o trapper.ObservationTrapper) string { return itoa(len(o.BBoxes)) }},
}

var camtrapDPColumns = []column[trapper.ObservationCamtrapDP]{
	{"observation_id", func(o trapper.ObservationCamtrapDP) string { return itoa(o.ObservationID) }},
	{"deployment_id", func(o trapper.ObservationCamtrapDP) string { return o.DeploymentID }},
	{"media_id", func(o trapper.ObservationCamtrapDP) string { return optInt(o.MediaID) }},
	{"type", func(o trapper.ObservationCamtrapDP) string { return o.ObservationType }},
	{"scientific_name", func(o trapper.ObservationCamtrapDP) string { return str(o.ScientificName) }},
	{"count", func(o trapper.ObservationCamtrapDP) string { return optInt(o.Count) }},
	{"event_start", func(o trapper.ObservationCamtrapDP) string { return date(o.EventStart) }},
}

var classificationColumns = []column[trapper.Classification]{
	{"pk", func(c trapper.Classification) string { return itoa(c.PK) }},
	{"resource", func(c trapper.Classification) string { return c.Resource.Name }},
	{"collection", func(c trapper.Classification) string { return itoa(c.Collection) }},
	{"classified", func(c trapper.Classification) string { return yesNo(c.Classified) }},
	{"classified_ai", func(c trapper.Classification) string { return yesNo(c.ClassifiedAI) }},
	{"approved", func(c trapper.Classification) string { return yesNo(c.Status) }},
	{"updated", func(c trapper.Classification) string { return ago(c.UpdatedAt) }},
}

// NewResultsCommand creates the results command group.
func NewResultsCommand() *cobra.Command {
	var project int

	cmd := &cobra.Command{
		Use:     "results",
		Aliases: []string{"observations", "obs"},
		Short:   "List classification results of a project",
		Long: `List the observation rows of a classification project, in Trapper or
Camtrap DP layout, and the underlying classifications.`,
	}

	cmd.PersistentFlags().IntVarP(&project, "project", "p", 0, "classification project pk")

	projectQuery := func() (trapper.Query, error) {
		if project <= 0 {
			return nil, ErrProjectRequired
		}

		return trapper.Query{"cp": project}, nil
	}

	trapperLayout := newListCommand("List observation rows in Trapper layout",
		func(c trapper.Client) trapper.ResourceClient[trapper.ObservationTrapper] { return c.Observations().Results() },
		observationColumns, projectQuery)

	camtrapDP := newListCommand("List observation rows in Camtrap DP layout",
		func(c trapper.Client) trapper.ResourceClient[trapper.ObservationCamtrapDP] {
			return c.Observations().ResultsCamtrapDP()
		},
		camtrapDPColumns, projectQuery)
	camtrapDP.Use = "camtrapdp"
	camtrapDP.Aliases = nil

	ai := newListCommand("List AI observation rows",
		func(c trapper.Client) trapper.ResourceClient[trapper.ObservationTrapper] { return c.Observations().AIResults() },
		observationColumns, projectQuery)
	ai.Use = "ai"
	ai.Aliases = nil

	classifications := newListCommand("List classifications",
		func(c trapper.Client) trapper.ResourceClient[trapper.Classification] {
			return c.Observations().Classifications()
		},
		classificationColumns, nil)
	classifications.Use = "classifications"
	classifications.Aliases = nil

	cmd.AddCommand(trapperLayout, camtrapDP, ai, classifications, newResultsByCollectionCommand(&project))

	return cmd
}

func newResultsByCollectionCommand(project *int) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "collection COLLECTION_PK",
		Short: "List the observation rows of one storage collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if *project <= 0 {
				return ErrProjectRequired
			}

			var collection int
			if _, err := fmt.Sscan(args[0], &collection); err != nil {
				return fmt.Errorf("%w: invalid collection pk %q", trapper.ErrUsage, args[0])
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			list, err := client.Observations().ResultsByCollection(cmd.Context(), *project, collection, nil)
			if err != nil {
				return fmt.Errorf("failed to list results: %w", err)
			}

			return renderList(cmd, list, observationColumns, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows printed in table output (0 for all)")

	return cmd
}

// NewPackagesCommand creates the packages command group.
func NewPackagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "packages",
		Aliases: []string{"package", "pkg"},
		Short:   "Generate data packages",
	}

	var (
		project int
		params  []string
	)

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate a data package for a classification project",
		Long: `Ask the server to build a data package for a classification project and
print its download location. Generation parameters are given as --param
key=value; list values are comma separated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if project <= 0 {
				return ErrProjectRequired
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			query := trapper.Query{}

			for _, param := range params {
				key, value, ok := strings.Cut(param, "=")
				if !ok || key == "" {
					return fmt.Errorf("%w: %q", ErrInvalidFilter, param)
				}

				query[key] = value
			}

			pkg, err := client.Packages().Generate(cmd.Context(), project, query)
			if err != nil {
				return fmt.Errorf("failed to generate package: %w", err)
			}

			return renderValue(cmd, pkg, [][2]string{
				{"Package", pkg.Package},
				{"Errors", fmt.Sprint(pkg.Errors)},
			})
		},
	}

	generate.Flags().IntVarP(&project, "project", "p", 0, "classification project pk")
	generate.Flags().StringArrayVar(&params, "param", nil, "generation parameter as key=value (repeatable)")

	cmd.AddCommand(generate)
	cmd.AddCommand(&cobra.Command{
		Use:   "params",
		Short: "List the accepted generation parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(client.Packages().Params(), "\n"))

			return nil
		},
	})

	return cmd
}
