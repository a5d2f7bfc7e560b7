package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jqlkit/jqlkit/internal/jqlparse"
	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/query/transform"
	"github.com/jqlkit/jqlkit/internal/resolver"
	"github.com/jqlkit/jqlkit/internal/ui"
)

var entitiesPath string

// entitiesFile seeds the resolver registry for offline form-fit checks.
type entitiesFile struct {
	Projects []resolver.Project   `yaml:"projects"`
	Versions []resolver.Version   `yaml:"versions"`
	Comps    []resolver.Component `yaml:"components"`
	Users    []string             `yaml:"users"`
	Groups   []string             `yaml:"groups"`
}

var checkCmd = &cobra.Command{
	Use:   "check <jql>",
	Short: "Report whether a query still fits the simple filter form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := jqlparse.New().Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid JQL: %w", err)
		}

		reg, err := loadEntities(entitiesPath)
		if err != nil {
			return err
		}
		transformers := transform.NewRegistry(
			transform.NewProjectTransformer("pid", query.NewClauseNames("project"), reg),
			transform.NewVersionTransformer("fixVersion", query.NewClauseNames("fixVersion"), reg),
			transform.NewVersionTransformer("version", query.NewClauseNames("affectedVersion"), reg),
			transform.NewComponentTransformer("component", query.NewClauseNames("component"), reg),
			transform.NewUserTransformer("assignee", query.NewClauseNames("assignee"), reg),
			transform.NewUserTransformer("reporter", query.NewClauseNames("reporter"), reg),
			transform.NewDateTransformer("created", query.NewClauseNames("created", "createdDate")),
			transform.NewDateTransformer("updated", query.NewClauseNames("updated", "updatedDate")),
			transform.NewLabelsTransformer("labels", query.NewClauseNames("labels")),
			transform.NewTextTransformer("text", query.NewClauseNames("text")),
			transform.NewRatioTransformer("workratio", query.NewClauseNames("workratio")),
		)

		if transformers.FitsFilterForm(userKey, q, transform.Context{}) {
			fmt.Printf("%s fits the simple form\n", ui.PassStyle.Render(ui.IconPass))
			return nil
		}
		fmt.Printf("%s advanced editing only\n", ui.FailStyle.Render(ui.IconFail))
		return nil
	},
}

func loadEntities(path string) (*resolver.Registry, error) {
	reg := resolver.NewRegistry()
	if path == "" {
		return reg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var ents entitiesFile
	if err := yaml.Unmarshal(data, &ents); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, p := range ents.Projects {
		reg.AddProject(p)
	}
	for _, v := range ents.Versions {
		reg.AddVersion(v)
	}
	for _, c := range ents.Comps {
		reg.AddComponent(c)
	}
	for _, u := range ents.Users {
		reg.AddUser(u)
	}
	for _, g := range ents.Groups {
		reg.AddGroup(g)
	}
	return reg, nil
}

func init() {
	checkCmd.Flags().StringVar(&entitiesPath, "entities", "", "YAML file of known projects/versions/users for resolution")
	rootCmd.AddCommand(checkCmd)
}
