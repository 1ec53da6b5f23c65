package cli

import (
	"github.com/kolah/truffle/internal/derive"
	"github.com/spf13/cobra"
)

func TypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types <spec> <method> <url>",
		Short: "Print type declarations for the matched operation's bodies",
		Args:  cobra.ExactArgs(3),
		RunE:  runTypes,
	}
}

func runTypes(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	ins, err := e.inspectArgs(cmd, args)
	if err != nil {
		return err
	}
	if err := ins.Err(); err != nil {
		return err
	}

	if ins.RequestTypes == nil && ins.ResponseTypes == nil {
		cmd.PrintErrln("Operation declares no body schemas")
		return nil
	}

	if ins.RequestTypes != nil {
		cmd.Println("// Request body")
		cmd.Println(derive.Render(ins.RequestTypes))
	}
	if ins.ResponseTypes != nil {
		if ins.RequestTypes != nil {
			cmd.Println()
		}
		cmd.Printf("// Response %s\n", ins.ResponseCode)
		cmd.Println(derive.Render(ins.ResponseTypes))
	}
	return nil
}
