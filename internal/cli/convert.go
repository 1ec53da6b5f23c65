package cli

import (
	"fmt"
	"os"

	"github.com/kolah/truffle/internal/loader"
	"github.com/kolah/truffle/internal/model"
	"github.com/spf13/cobra"
)

func ConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <file|url>",
		Short: "Convert a spec between JSON and YAML, keeping key order",
		Args:  cobra.ExactArgs(1),
		RunE:  runConvert,
	}

	flags := cmd.Flags()
	flags.String("to", "", "Target format: json, yaml")
	flags.StringP("output", "o", "", "Write the result to this file")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	to, _ := cmd.Flags().GetString("to")
	validFormats := map[string]model.Format{"json": model.FormatJSON, "yaml": model.FormatYAML, "yml": model.FormatYAML}
	format, ok := validFormats[to]
	if !ok {
		return fmt.Errorf("invalid format: %s (valid: json, yaml)", to)
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}

	doc, err := e.loadDocument(cmd.Context(), cmd, args[0])
	if err != nil {
		return err
	}

	out, err := loader.Convert(doc, format)
	if err != nil {
		return fmt.Errorf("converting spec: %w", err)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		cmd.Print(out)
		return nil
	}
	if err := os.WriteFile(output, []byte(out), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	cmd.PrintErrf("Written: %s\n", output)
	return nil
}
