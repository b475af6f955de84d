package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "delete <plural-id> <document-id>",
		Short: "Delete a document and its relation edges",
		Args:  cobra.ExactArgs(2),
		Run:   runDelete,
	}

	RootCmd.AddCommand(cmd)
}

func runDelete(cmd *cobra.Command, args []string) {
	engine, _, closeDB, err := openEngine()
	if err != nil {
		exitErr("open engine", err)
	}
	defer closeDB()

	if err := engine.Delete(cmd.Context(), args[0], args[1]); err != nil {
		exitErr("delete", err)
	}
	fmt.Printf("deleted %s/%s\n", args[0], args[1])
}
