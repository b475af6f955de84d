package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the registered content types",
		Run:   runTypes,
	}

	cmd.Flags().Bool("full", false, "Print full definitions as JSON")

	RootCmd.AddCommand(cmd)
}

func runTypes(cmd *cobra.Command, args []string) {
	full, _ := cmd.Flags().GetBool("full")

	registry, err := loadRegistry(getTypesPath())
	if err != nil {
		exitErr("load content types", err)
	}

	types := registry.ContentTypes()
	if full {
		printJSON(types)
		return
	}
	for _, ct := range types {
		fmt.Printf("%s (%s, %d attributes)\n", ct.PluralID, ct.Kind, len(ct.Attributes))
	}
}
