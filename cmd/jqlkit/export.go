package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jqlkit/jqlkit/internal/filter"
	"github.com/jqlkit/jqlkit/internal/jqlparse"
	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/ui"
)

var (
	exportOut string
	importIn  string
)

// exportedFilter is the YAML document shape for one saved search.
type exportedFilter struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	JQL         string          `yaml:"jql"`
	Shares      []exportedShare `yaml:"shares,omitempty"`
}

type exportedShare struct {
	Type      string `yaml:"type"`
	Group     string `yaml:"group,omitempty"`
	ProjectID int64  `yaml:"project,omitempty"`
	RoleID    int64  `yaml:"role,omitempty"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your saved searches as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		owned, err := store.GetAllOwnedBy(userKey)
		if err != nil {
			return err
		}
		docs := make([]exportedFilter, 0, len(owned))
		for _, sr := range owned {
			docs = append(docs, toExported(sr))
		}
		data, err := yaml.Marshal(docs)
		if err != nil {
			return fmt.Errorf("marshal filters: %w", err)
		}

		if exportOut == "" {
			fmt.Print(string(data))
			return nil
		}
		if err := os.WriteFile(exportOut, data, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", exportOut, err)
		}
		fmt.Printf("%s exported %d searches to %s\n", ui.PassStyle.Render(ui.IconPass), len(docs), exportOut)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import saved searches from YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(importIn)
		if err != nil {
			return fmt.Errorf("read %s: %w", importIn, err)
		}
		var docs []exportedFilter
		if err := yaml.Unmarshal(data, &docs); err != nil {
			return fmt.Errorf("parse %s: %w", importIn, err)
		}

		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		parser := jqlparse.New()
		imported := 0
		for _, doc := range docs {
			q, err := parser.Parse(doc.JQL)
			if err != nil {
				log.WithField("name", doc.Name).WithError(err).Warn("skipping filter with invalid JQL")
				continue
			}
			if _, err := store.Create(fromExported(doc, q)); err != nil {
				log.WithField("name", doc.Name).WithError(err).Warn("skipping filter")
				continue
			}
			imported++
		}
		fmt.Printf("%s imported %d of %d searches\n", ui.PassStyle.Render(ui.IconPass), imported, len(docs))
		return nil
	},
}

func toExported(sr *filter.SearchRequest) exportedFilter {
	out := exportedFilter{
		Name:        sr.Name,
		Description: sr.Description,
		JQL:         sr.Query.String(),
	}
	for _, p := range sr.Permissions {
		out.Shares = append(out.Shares, exportedShare{
			Type:      string(p.Type),
			Group:     p.Group,
			ProjectID: p.ProjectID,
			RoleID:    p.RoleID,
		})
	}
	return out
}

func fromExported(doc exportedFilter, q *query.Query) *filter.SearchRequest {
	sr := &filter.SearchRequest{
		Name:        doc.Name,
		Description: doc.Description,
		OwnerKey:    userKey,
		Query:       q,
	}
	for _, sh := range doc.Shares {
		sr.Permissions = append(sr.Permissions, filter.SharePermission{
			Type:      filter.ShareType(sh.Type),
			Group:     sh.Group,
			ProjectID: sh.ProjectID,
			RoleID:    sh.RoleID,
		})
	}
	return sr
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "write to this file instead of stdout")
	importCmd.Flags().StringVar(&importIn, "in", "", "YAML file to import")
	importCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(exportCmd, importCmd)
}
