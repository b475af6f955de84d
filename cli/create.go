package cli

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/asaidimu/go-griot/core/document"
)

func init() {
	cmd := &cobra.Command{
		Use:   "create <plural-id> [payload-json]",
		Short: "Create a document (payload from argument or stdin)",
		Args:  cobra.RangeArgs(1, 2),
		Run:   runCreate,
	}

	cmd.Flags().String("locale", "", "Locale (default en)")
	cmd.Flags().String("published-at", "", "Explicit publication timestamp (RFC3339)")
	cmd.Flags().Bool("draft", false, "Create as draft regardless of the type's default")

	RootCmd.AddCommand(cmd)
}

// readPayload decodes the payload from the positional argument or stdin.
func readPayload(args []string) (map[string]any, error) {
	raw := []byte{}
	if len(args) > 1 {
		raw = []byte(args[1])
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func runCreate(cmd *cobra.Command, args []string) {
	locale, _ := cmd.Flags().GetString("locale")
	publishedAt, _ := cmd.Flags().GetString("published-at")
	draft, _ := cmd.Flags().GetBool("draft")

	payload, err := readPayload(args)
	if err != nil {
		exitErr("parse payload", err)
	}

	opts := document.CreateOptions{Locale: locale, Draft: draft}
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

	result, err := engine.Create(cmd.Context(), args[0], payload, opts)
	if err != nil {
		exitErr("create", err)
	}
	printJSON(result)
}
