package cli

import (
	"os"

	"github.com/kolah/truffle/internal/config"
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "truffle",
		Short:         "Truffle - sniffs out OpenAPI specs and digs into them 🐷",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// cobra prints to stderr by default; command output belongs on stdout.
	root.SetOut(os.Stdout)
	config.BindCommonFlags(root)

	root.AddCommand(
		DiscoverCommand(),
		InspectCommand(),
		MatchCommand(),
		MockCommand(),
		TypesCommand(),
		ParamsCommand(),
		ConvertCommand(),
		RelayCommand(),
	)

	return root
}
