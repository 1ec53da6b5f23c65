package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/kolah/truffle/internal/model"
	"github.com/kolah/truffle/internal/params"
	"github.com/spf13/cobra"
)

func ParamsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params <url>",
		Short: "List the path parameters of a URL and build the concrete URL",
		Example: `  truffle params 'https://api.example.com/users/{userId}/posts/{postId}' --set userId=7
  truffle params 'https://api.example.com/pets/{id}' --interactive`,
		Args: cobra.ExactArgs(1),
		RunE: runParams,
	}

	flags := cmd.Flags()
	flags.StringSlice("set", nil, "Path parameter values as key=value")
	flags.StringSlice("query", nil, "Query parameters as key=value")
	flags.BoolP("interactive", "i", false, "Prompt for each path parameter value")

	return cmd
}

func runParams(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	bindings := params.Sync(rawURL, nil)

	sets, _ := cmd.Flags().GetStringSlice("set")
	for _, kv := range sets {
		key, value, err := splitPair(kv)
		if err != nil {
			return err
		}
		found := false
		for i := range bindings {
			if bindings[i].Key == key {
				bindings[i].Value = value
				found = true
			}
		}
		if !found {
			return fmt.Errorf("unknown path parameter: %s", key)
		}
	}

	var query []model.QueryParam
	queries, _ := cmd.Flags().GetStringSlice("query")
	for _, kv := range queries {
		key, value, err := splitPair(kv)
		if err != nil {
			return err
		}
		query = append(query, model.QueryParam{Key: key, Value: value, Enabled: true})
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive && len(bindings) > 0 {
		if err := promptBindings(bindings); err != nil {
			return err
		}
	}

	for _, b := range bindings {
		value := b.Value
		if value == "" {
			value = "(empty)"
		}
		cmd.PrintErrf("  %s = %s\n", b.Key, value)
	}
	cmd.Println(params.BuildURL(rawURL, bindings, query))
	return nil
}

func promptBindings(bindings []model.PathParamBinding) error {
	fields := make([]huh.Field, 0, len(bindings))
	for i := range bindings {
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("Value for {%s}", bindings[i].Key)).
			Value(&bindings[i].Value))
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func splitPair(kv string) (string, string, error) {
	key, value, ok := strings.Cut(kv, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid key=value pair: %q", kv)
	}
	return key, value, nil
}
