package cli

import (
	"fmt"

	"github.com/kolah/truffle/internal/loader"
	"github.com/kolah/truffle/internal/session"
	"github.com/spf13/cobra"
)

func InspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file|url>",
		Short: "List the endpoints of a spec grouped by tag",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	cmd.Flags().Bool("strict", false, "Also lint the document with libopenapi")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	s, err := e.openSession(cmd.Context(), cmd, args[0])
	if err != nil {
		return err
	}
	doc := s.Document()

	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		warnings, err := loader.Lint(doc)
		if err != nil {
			return fmt.Errorf("linting spec: %w", err)
		}
		for _, w := range warnings {
			cmd.PrintErrf("Warning: %s\n", w)
		}
	}

	spec, err := s.Spec()
	if err != nil {
		return err
	}

	cmd.PrintErrf("Loaded %s v%s (%s)\n", doc.Title, doc.Version, doc.Format)
	if base := spec.BaseURL(doc.OriginURL); base != "" {
		cmd.Printf("Base URL: %s\n", base)
	}

	for _, group := range session.ListEndpoints(spec) {
		cmd.Printf("\n%s\n", group.Tag)
		for _, ep := range group.Endpoints {
			line := fmt.Sprintf("  %-7s %s", ep.Method, ep.Path)
			if ep.Summary != "" {
				line += "  " + ep.Summary
			}
			if ep.Deprecated {
				line += " (deprecated)"
			}
			cmd.Println(line)
		}
	}
	return nil
}
