package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func MockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock <spec> <method> <url>",
		Short: "Print a sample request body for the matched operation",
		Args:  cobra.ExactArgs(3),
		RunE:  runMock,
	}

	flags := cmd.Flags()
	flags.Bool("response", false, "Print a sample of the primary response instead")
	flags.Uint64("seed", 0, "Seed for optional property selection (0: random)")
	flags.Float64("optional-probability", 0.7, "Chance that an optional property is included")

	return cmd
}

func runMock(cmd *cobra.Command, args []string) error {
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

	value := ins.RequestMock
	if response, _ := cmd.Flags().GetBool("response"); response {
		if ins.ResponseCode == "" {
			return errors.New("operation declares no response schema")
		}
		cmd.PrintErrf("Response %s\n", ins.ResponseCode)
		value = ins.ResponseMock
	} else if ins.Match.Operation.RequestBody == nil {
		return errors.New("operation declares no request body")
	}

	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding mock: %w", err)
	}
	cmd.Println(string(out))
	return nil
}
