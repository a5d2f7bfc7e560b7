package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jqlkit/jqlkit/internal/jqlparse"
	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/query/rewrite"
	"github.com/jqlkit/jqlkit/internal/ui"
)

var (
	removeFields []string
	renameFrom   string
	renameTo     string
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite a JQL query",
}

var rewriteRemoveCmd = &cobra.Command{
	Use:   "remove-field <jql>",
	Short: "Remove every clause naming the given fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := jqlparse.New().Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid JQL: %w", err)
		}
		out := query.NewQuery(rewrite.Remove(q.Where(), removeFields...), q.OrderBy(), "")
		fmt.Println(ui.QueryStyle.Render(out.String()))
		return nil
	},
}

var rewriteRenameCmd = &cobra.Command{
	Use:   "rename-field <jql>",
	Short: "Rename a field wherever terminal clauses use it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := jqlparse.New().Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid JQL: %w", err)
		}
		renamed := rewrite.Rename(q.Where(), map[string]string{renameFrom: renameTo})
		out := query.NewQuery(renamed, q.OrderBy(), "")
		fmt.Println(ui.QueryStyle.Render(out.String()))
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render <jql>",
	Short: "Parse a query and print its canonical rendering",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := jqlparse.New().Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid JQL: %w", err)
		}
		fmt.Println(ui.QueryStyle.Render(query.Render(q)))
		return nil
	},
}

func init() {
	rewriteRemoveCmd.Flags().StringArrayVar(&removeFields, "field", nil, "field to remove (repeatable)")
	rewriteRemoveCmd.MarkFlagRequired("field")

	rewriteRenameCmd.Flags().StringVar(&renameFrom, "from", "", "field name to replace")
	rewriteRenameCmd.Flags().StringVar(&renameTo, "to", "", "replacement field name")
	rewriteRenameCmd.MarkFlagRequired("from")
	rewriteRenameCmd.MarkFlagRequired("to")

	rewriteCmd.AddCommand(rewriteRemoveCmd, rewriteRenameCmd)
	rootCmd.AddCommand(rewriteCmd, renderCmd)
}
