package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aomi-research/edinet-cli/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <company-name>",
	Short: "Locate a company's most recent disclosure",
	Long:  "Walks progressively wider lookback windows over business days, trying name variants most specific first, and reports the most recent matching filing.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := initClient()
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")

		match, err := initSearch(client).Find(ctx, args[0], category)
		if err != nil {
			var exhausted *search.ExhaustedError
			if errors.As(err, &exhausted) {
				fmt.Fprintln(os.Stderr, exhausted.Error())
				os.Exit(1)
			}
			return err
		}

		fmt.Printf("doc_id:     %s\n", match.Document.DocID)
		fmt.Printf("filer:      %s\n", match.Document.FilerName)
		fmt.Printf("document:   %s\n", match.Document.Description)
		fmt.Printf("disclosed:  %s\n", match.Date.Format("2006-01-02"))
		fmt.Printf("window:     %d days\n", match.Window)
		fmt.Printf("alias:      %s\n", match.Alias)
		if match.Fallback {
			fmt.Println("found via single-date fallback")
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().String("category", search.DefaultCategory, "document category to match in descriptions")
	rootCmd.AddCommand(searchCmd)
}
