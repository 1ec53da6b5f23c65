package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func DiscoverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover <url>",
		Short: "Locate the OpenAPI/Swagger document behind a URL",
		Long: `Locate the OpenAPI/Swagger document behind a URL.

The URL may be the document itself, the API origin, or a documentation page
such as Swagger UI. Strategies run one at a time: direct fetch, well-known
paths, links scraped from the page, then well-known paths on the page origin.`,
		Args: cobra.ExactArgs(1),
		RunE: runDiscover,
	}

	cmd.Flags().StringP("output", "o", "", "Write the raw document to this file")

	return cmd
}

func runDiscover(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	doc, err := e.discover(cmd.Context(), cmd, args[0])
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		if err := os.WriteFile(output, []byte(doc.RawText), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		cmd.PrintErrf("Written: %s\n", output)
		return nil
	}

	cmd.Printf("Title:   %s\n", doc.Title)
	cmd.Printf("Version: %s\n", doc.Version)
	cmd.Printf("Format:  %s\n", doc.Format)
	cmd.Printf("Origin:  %s\n", doc.OriginURL)
	if doc.Description != "" {
		cmd.Printf("\n%s\n", doc.Description)
	}
	return nil
}
