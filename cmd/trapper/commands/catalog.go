package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/wildintel/trapper-client/internal/constants"
	"github.com/wildintel/trapper-client/pkg/trapper"
)

var locationColumns = []column[trapper.Location]{
	{"pk", func(l trapper.Location) string { return itoa(l.PK) }},
	{"location_id", func(l trapper.Location) string { return l.LocationID }},
	{"name", func(l trapper.Location) string { return str(l.Name) }},
	{"country", func(l trapper.Location) string { return str(l.Country) }},
	{"coordinates", func(l trapper.Location) string {
		return fmt.Sprintf("%.5f, %.5f", l.Coordinates.Latitude, l.Coordinates.Longitude)
	}},
	{"public", func(l trapper.Location) string { return yesNo(l.IsPublic) }},
	{"owner", func(l trapper.Location) string { return l.Owner }},
}

var deploymentColumns = []column[trapper.Deployment]{
	{"pk", func(d trapper.Deployment) string { return itoa(d.PK) }},
	{"deployment_id", func(d trapper.Deployment) string { return d.DeploymentID }},
	{"location_id", func(d trapper.Deployment) string { return d.LocationID }},
	{"start", func(d trapper.Deployment) string { return date(d.StartDate) }},
	{"end", func(d trapper.Deployment) string { return date(d.EndDate) }},
	{"correct_setup", func(d trapper.Deployment) string { return yesNo(d.CorrectSetup) }},
	{"correct_tstamp", func(d trapper.Deployment) string { return yesNo(d.CorrectTstamp) }},
}

var researchProjectColumns = []column[trapper.ResearchProject]{
	{"pk", func(p trapper.ResearchProject) string { return itoa(p.PK) }},
	{"acronym", func(p trapper.ResearchProject) string { return p.Acronym }},
	{"name", func(p trapper.ResearchProject) string { return p.Name }},
	{"owner", func(p trapper.ResearchProject) string { return p.Owner }},
	{"created", func(p trapper.ResearchProject) string { return ago(p.DateCreated) }},
}

var classificationProjectColumns = []column[trapper.ClassificationProject]{
	{"pk", func(p trapper.ClassificationProject) string { return itoa(p.PK) }},
	{"name", func(p trapper.ClassificationProject) string { return p.Name }},
	{"research_project", func(p trapper.ClassificationProject) string { return p.ResearchProject }},
	{"status", func(p trapper.ClassificationProject) string { return p.Status }},
	{"active", func(p trapper.ClassificationProject) string { return yesNo(p.IsActive) }},
}

var classificatorColumns = []column[trapper.Classificator]{
	{"pk", func(c trapper.Classificator) string { return itoa(c.PK) }},
	{"name", func(c trapper.Classificator) string { return c.Name }},
	{"owner", func(c trapper.Classificator) string { return c.Owner }},
	{"updated", func(c trapper.Classificator) string { return c.UpdatedDate }},
}

// NewLocationsCommand creates the locations command group.
func NewLocationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "locations",
		Aliases: []string{"location", "loc"},
		Short:   "List and export locations",
	}

	pick := func(c trapper.Client) trapper.ResourceClient[trapper.Location] { return c.Locations() }

	list := newListCommand("List locations", pick, locationColumns, nil)
	cmd.AddCommand(list)
	cmd.AddCommand(newFiltersCommand(pick))
	cmd.AddCommand(newExportCommand(func(c trapper.Client) trapper.Exporter { return c.Locations() }, func(c trapper.Client) []trapper.FilterField {
		return c.Locations().Filters()
	}))

	return cmd
}

// NewDeploymentsCommand creates the deployments command group.
func NewDeploymentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"deployment", "dep"},
		Short:   "List and export deployments",
	}

	pick := func(c trapper.Client) trapper.ResourceClient[trapper.Deployment] { return c.Deployments() }

	list := newListCommand("List deployments", pick, deploymentColumns, nil)
	cmd.AddCommand(list)
	cmd.AddCommand(newFiltersCommand(pick))
	cmd.AddCommand(newExportCommand(func(c trapper.Client) trapper.Exporter { return c.Deployments() }, func(c trapper.Client) []trapper.FilterField {
		return c.Deployments().Filters()
	}))

	return cmd
}

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "List research and classification projects",
	}

	research := &cobra.Command{Use: "research", Short: "Research projects"}
	researchList := newListCommand("List research projects",
		func(c trapper.Client) trapper.ResourceClient[trapper.ResearchProject] { return c.ResearchProjects() },
		researchProjectColumns, nil)
	research.AddCommand(researchList)

	classification := &cobra.Command{Use: "classification", Short: "Classification projects"}
	classificationList := newListCommand("List classification projects",
		func(c trapper.Client) trapper.ResourceClient[trapper.ClassificationProject] {
			return c.ClassificationProjects()
		},
		classificationProjectColumns, nil)
	classification.AddCommand(classificationList)

	cmd.AddCommand(research, classification)

	return cmd
}

// NewClassificatorsCommand creates the classificators command group.
func NewClassificatorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classificators",
		Short: "List classificators",
	}

	pick := func(c trapper.Client) trapper.ResourceClient[trapper.Classificator] { return c.Classificators() }

	list := newListCommand("List classificators", pick, classificatorColumns, nil)
	cmd.AddCommand(list)
	cmd.AddCommand(newFiltersCommand(pick))

	return cmd
}

// newExportCommand downloads a CSV export to a file or stdout.
func newExportCommand(pick func(trapper.Client) trapper.Exporter, table func(trapper.Client) []trapper.FilterField) *cobra.Command {
	var (
		outFile string
		filters []string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the CSV export",
		Long:  "Download the CSV export as returned by the server, possibly compressed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			flags := &listFlags{filters: filters}

			query, err := flags.query(table(client))
			if err != nil {
				return err
			}

			resp, err := pick(client).Export(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}

			if outFile == "" || outFile == "-" {
				_, err = cmd.OutOrStdout().Write(resp.Body)

				return err
			}

			if err := os.WriteFile(outFile, resp.Body, constants.ConfigFilePerm); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s to %s\n", humanize.Bytes(uint64(len(resp.Body))), outFile)

			return nil
		},
	}

	cmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "filter as field=value (repeatable)")

	return cmd
}
