package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/asaidimu/go-griot/core/query"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list <plural-id>",
		Short: "List documents of a content type",
		Args:  cobra.ExactArgs(1),
		Run:   runList,
	}

	cmd.Flags().String("filters", "", "Filter tree as JSON, e.g. '{\"slug\":{\"$eq\":\"hello\"}}'")
	cmd.Flags().StringSlice("sort", nil, "Sort keys as field:direction")
	cmd.Flags().Int("page", 1, "Page (1-indexed)")
	cmd.Flags().Int("page-size", query.DefaultPageSize, "Page size (max 100)")
	cmd.Flags().String("state", "live", "Publication state: live or preview")
	cmd.Flags().String("status", "", "Preview status: draft, published or scheduled")
	cmd.Flags().String("search", "", "Case-insensitive substring search")
	cmd.Flags().String("search-field", "", "Restrict search to one field")
	cmd.Flags().String("populate", "", "'*' or comma-separated attribute names")
	cmd.Flags().StringSlice("fields", nil, "Project the response to these payload fields")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	filtersJSON, _ := cmd.Flags().GetString("filters")
	sort, _ := cmd.Flags().GetStringSlice("sort")
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	state, _ := cmd.Flags().GetString("state")
	status, _ := cmd.Flags().GetString("status")
	search, _ := cmd.Flags().GetString("search")
	searchField, _ := cmd.Flags().GetString("search-field")
	populate, _ := cmd.Flags().GetString("populate")
	fields, _ := cmd.Flags().GetStringSlice("fields")

	var filters map[string]any
	if filtersJSON != "" {
		if err := json.Unmarshal([]byte(filtersJSON), &filters); err != nil {
			exitErr("parse filters", err)
		}
	}

	opts := query.Options{
		Filters:          filters,
		Sort:             sort,
		Page:             page,
		PageSize:         pageSize,
		PublicationState: query.PublicationState(state),
		Status:           query.Status(status),
		Search:           search,
		SearchField:      searchField,
		Fields:           fields,
	}
	if populate != "" {
		opts.Populate = parsePopulate(populate)
	}

	engine, _, closeDB, err := openEngine()
	if err != nil {
		exitErr("open engine", err)
	}
	defer closeDB()

	result, err := engine.Find(cmd.Context(), args[0], opts)
	if err != nil {
		exitErr("find", err)
	}
	printJSON(result)
}
