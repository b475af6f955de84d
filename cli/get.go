package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/asaidimu/go-griot/core/query"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <plural-id> <document-id>",
		Short: "Fetch one document by its public id",
		Args:  cobra.ExactArgs(2),
		Run:   runGet,
	}

	cmd.Flags().String("populate", "", "'*' or comma-separated attribute names")
	cmd.Flags().StringSlice("fields", nil, "Project the response to these payload fields")

	RootCmd.AddCommand(cmd)
}

// parsePopulate turns the flag form into the engine's populate parameter.
func parsePopulate(flag string) any {
	if flag == "*" {
		return "*"
	}
	var names []string
	for _, name := range strings.Split(flag, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func runGet(cmd *cobra.Command, args []string) {
	populate, _ := cmd.Flags().GetString("populate")
	fields, _ := cmd.Flags().GetStringSlice("fields")

	opts := query.Options{Fields: fields}
	if populate != "" {
		opts.Populate = parsePopulate(populate)
	}

	engine, _, closeDB, err := openEngine()
	if err != nil {
		exitErr("open engine", err)
	}
	defer closeDB()

	result, err := engine.FindOne(cmd.Context(), args[0], args[1], opts)
	if err != nil {
		exitErr("get", err)
	}
	printJSON(result)
}
