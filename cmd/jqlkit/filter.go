package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jqlkit/jqlkit/internal/filter"
	"github.com/jqlkit/jqlkit/internal/jqlparse"
	"github.com/jqlkit/jqlkit/internal/ui"
)

var (
	saveName        string
	saveDescription string
	saveJQL         string
	saveID          int64
	favRemove       bool
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Work with saved searches",
}

var filterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your saved searches",
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
		if len(owned) == 0 {
			fmt.Println(ui.MutedStyle.Render("no saved searches"))
			return nil
		}
		for _, sr := range owned {
			printRequest(sr)
		}
		return nil
	},
}

var filterGetCmd = &cobra.Command{
	Use:   "get <id|name>",
	Short: "Show one saved search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		sr, err := lookupRequest(store, args[0])
		if err != nil {
			return err
		}
		printRequest(sr)
		if sr.Description != "" {
			fmt.Println(ui.MutedStyle.Render(sr.Description))
		}
		for _, p := range sr.Permissions {
			fmt.Printf("  shared: %s\n", describePermission(p))
		}
		return nil
	},
}

var filterSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a search, creating or updating by --id",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := jqlparse.New().Parse(saveJQL)
		if err != nil {
			return fmt.Errorf("invalid JQL: %w", err)
		}

		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		sr := &filter.SearchRequest{
			ID:          saveID,
			Name:        saveName,
			Description: saveDescription,
			OwnerKey:    userKey,
			Query:       q,
		}
		if saveID == 0 {
			sr, err = store.Create(sr)
		} else {
			sr, err = store.Update(sr)
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s saved #%d %s\n", ui.PassStyle.Render(ui.IconPass), sr.ID, ui.HeaderStyle.Render(sr.Name))
		return nil
	},
}

var filterRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a saved search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := store.Delete(id); err != nil {
			return err
		}
		fmt.Printf("%s deleted #%d\n", ui.PassStyle.Render(ui.IconPass), id)
		return nil
	},
}

var filterFavCmd = &cobra.Command{
	Use:   "fav <id>",
	Short: "Favourite (or unfavourite) a saved search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		delta := int64(1)
		if favRemove {
			delta = -1
		}
		sr, err := store.AdjustFavouriteCount(id, delta)
		if err != nil {
			return err
		}
		fmt.Printf("%s #%d %s (%d)\n", ui.AccentStyle.Render(ui.IconFav), sr.ID, sr.Name, sr.FavouriteCount)
		return nil
	},
}

// lookupRequest resolves an argument as an id first, then as a name owned by
// the acting user.
func lookupRequest(store filter.Store, arg string) (*filter.SearchRequest, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		sr, err := store.GetByID(id)
		if err != nil {
			return nil, err
		}
		if sr != nil {
			return sr, nil
		}
	}
	sr, err := store.GetByOwnerAndName(userKey, arg)
	if err != nil {
		return nil, err
	}
	if sr == nil {
		return nil, fmt.Errorf("no saved search %q", arg)
	}
	return sr, nil
}

func printRequest(sr *filter.SearchRequest) {
	fav := ""
	if sr.FavouriteCount > 0 {
		fav = " " + ui.AccentStyle.Render(fmt.Sprintf("%s%d", ui.IconFav, sr.FavouriteCount))
	}
	fmt.Printf("#%d %s%s\n    %s\n",
		sr.ID,
		ui.HeaderStyle.Render(sr.Name),
		fav,
		ui.QueryStyle.Render(sr.Query.String()),
	)
}

func describePermission(p filter.SharePermission) string {
	switch p.Type {
	case filter.ShareGlobal:
		return "everyone"
	case filter.ShareGroup:
		return "group " + p.Group
	case filter.ShareProject:
		if p.RoleID != 0 {
			return fmt.Sprintf("project %d role %d", p.ProjectID, p.RoleID)
		}
		return fmt.Sprintf("project %d", p.ProjectID)
	default:
		return string(p.Type)
	}
}

func init() {
	filterSaveCmd.Flags().StringVar(&saveName, "name", "", "search name")
	filterSaveCmd.Flags().StringVar(&saveDescription, "description", "", "search description")
	filterSaveCmd.Flags().StringVar(&saveJQL, "jql", "", "the JQL query to save")
	filterSaveCmd.Flags().Int64Var(&saveID, "id", 0, "update this existing search instead of creating")
	filterSaveCmd.MarkFlagRequired("name")

	filterFavCmd.Flags().BoolVar(&favRemove, "remove", false, "remove a favourite instead of adding")

	filterCmd.AddCommand(filterListCmd, filterGetCmd, filterSaveCmd, filterRmCmd, filterFavCmd)
	rootCmd.AddCommand(filterCmd)
}
