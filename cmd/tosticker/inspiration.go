package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zstar1003/Tosticker/internal/api"
	"github.com/zstar1003/Tosticker/internal/models"
)

var inspirationCmd = &cobra.Command{
	Use:     "inspiration",
	Aliases: []string{"idea"},
	Short:   "Manage inspiration notes",
}

var inspirationAddCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Record a new inspiration",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspirationAdd,
}

var inspirationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inspirations, newest first",
	RunE:  runInspirationList,
}

var inspirationSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search inspirations by content or tag",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspirationSearch,
}

var inspirationRmCmd = &cobra.Command{
	Use:   "rm [inspiration-id]",
	Short: "Delete an inspiration",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspirationRm,
}

var inspirationTags []string

func init() {
	inspirationCmd.AddCommand(inspirationAddCmd, inspirationListCmd, inspirationSearchCmd, inspirationRmCmd)

	inspirationAddCmd.Flags().StringSliceVar(&inspirationTags, "tags", nil, "Comma-separated tags")
}

func runInspirationAdd(cmd *cobra.Command, args []string) error {
	req := models.CreateInspirationRequest{
		Content: strings.Join(args, " "),
		Tags:    inspirationTags,
	}

	var item models.Inspiration
	if err := callInto("create_inspiration", req, &item); err != nil {
		return err
	}

	fmt.Printf("Created inspiration: %s\n", item.ID)
	return nil
}

func runInspirationList(cmd *cobra.Command, args []string) error {
	var items []models.Inspiration
	if err := callInto("get_inspirations", nil, &items); err != nil {
		return err
	}
	printInspirations(items)
	return nil
}

func runInspirationSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	var items []models.Inspiration
	if err := callInto("search_inspirations", api.SearchRequest{Query: query}, &items); err != nil {
		return err
	}
	printInspirations(items)
	return nil
}

func runInspirationRm(cmd *cobra.Command, args []string) error {
	if err := callInto("delete_inspiration", api.IDRequest{ID: args[0]}, nil); err != nil {
		return err
	}

	fmt.Printf("Deleted inspiration %s\n", args[0])
	return nil
}

func printInspirations(items []models.Inspiration) {
	if len(items) == 0 {
		fmt.Println("No inspirations found")
		return
	}

	for _, item := range items {
		fmt.Printf("%s  %s\n", label(truncateID(item.ID)), formatWhen(&item.CreatedAt))
		fmt.Printf("  %s\n", item.Content)
		if len(item.Tags) > 0 {
			tags := make([]string, len(item.Tags))
			for i, t := range item.Tags {
				tags[i] = "#" + t
			}
			fmt.Printf("  %s\n", tagStyle.Render(strings.Join(tags, " ")))
		}
		fmt.Println()
	}
}
