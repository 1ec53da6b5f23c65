package cli

import (
	"errors"
	"fmt"

	"github.com/kolah/truffle/internal/matcher"
	"github.com/kolah/truffle/internal/model"
	"github.com/spf13/cobra"
)

func MatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "match <spec> <method> <url>",
		Short: "Find the path template and operation for a request",
		Args:  cobra.ExactArgs(3),
		RunE:  runMatch,
	}
}

func runMatch(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	ins, err := e.inspectArgs(cmd, args)
	if err != nil {
		return err
	}

	if err := ins.Err(); err != nil {
		// A template without the method is displayable, not a failure.
		var noOp *matcher.NoOperationError
		if !errors.As(err, &noOp) {
			return err
		}
		cmd.Printf("Template: %s\n", noOp.Template)
		cmd.Printf("No documentation for %s\n", noOp.Method)
		return nil
	}

	op := ins.Match.Operation
	cmd.Printf("Template:  %s\n", ins.Match.Template.Key)
	cmd.Printf("Operation: %s %s\n", op.Method, op.ID)
	if op.Summary != "" {
		cmd.Printf("Summary:   %s\n", op.Summary)
	}
	declared := make(map[string]model.Parameter)
	for _, p := range op.PathParameters() {
		declared[p.Name] = p
	}
	for _, p := range ins.Match.Params {
		cmd.Printf("  %s = %s%s\n", p.Name, p.Value, paramNote(declared, p.Name))
	}
	return nil
}

// paramNote describes how a bound template variable is declared.
func paramNote(declared map[string]model.Parameter, name string) string {
	p, ok := declared[name]
	switch {
	case !ok:
		return " (undeclared)"
	case p.Schema != nil && p.Schema.Kind == model.KindPrimitive:
		return fmt.Sprintf(" (%s)", p.Schema.Type)
	}
	return ""
}
