package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/asaidimu/go-griot/core/document"
)

func init() {
	cmd := &cobra.Command{
		Use:   "update <plural-id> <document-id> [payload-json]",
		Short: "Merge a payload into a document (payload from argument or stdin)",
		Args:  cobra.RangeArgs(2, 3),
		Run:   runUpdate,
	}

	cmd.Flags().String("published-at", "", "Overwrite the publication timestamp (RFC3339)")
	cmd.Flags().Bool("unpublish", false, "Clear the publication timestamp")

	RootCmd.AddCommand(cmd)
}

func runUpdate(cmd *cobra.Command, args []string) {
	publishedAt, _ := cmd.Flags().GetString("published-at")
	unpublish, _ := cmd.Flags().GetBool("unpublish")

	payload, err := readPayload(args[1:])
	if err != nil {
		exitErr("parse payload", err)
	}

	opts := document.UpdateOptions{Unpublish: unpublish}
	if publishedAt != "" {
		t, err := time.Parse(time.RFC3339, publishedAt)
		if err != nil {
			exitErr("parse published-at", err)
		}
		opts.PublishedAt = &t
	}

	engine, _, closeDB, err := openEngine()
	if err != nil {
		exitErr("open engine", err)
	}
	defer closeDB()

	result, err := engine.Update(cmd.Context(), args[0], args[1], payload, opts)
	if err != nil {
		exitErr("update", err)
	}
	printJSON(result)
}
