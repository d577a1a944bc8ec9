package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dbfaker/internal/generator"
	"github.com/alfredjeanlab/dbfaker/internal/model"
)

var generateCmd = &cobra.Command{
	Use:   "generate <type>",
	Short: "Print sample values for a generator type",
	Example: `  dbfaker generate emailunique -n 3
  dbfaker generate integer --opt min=10 --opt max=20 --opt step=5
  dbfaker generate choose --opt options=red,green,blue`,
	GroupID: "inspect",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		opts, _ := cmd.Flags().GetStringArray("opt")

		spec, err := specFromArgs(args[0], opts)
		if err != nil {
			return err
		}

		gen := generator.New(settings.Seed)
		for i := 0; i < count; i++ {
			v, err := gen.Generate(spec)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().IntP("count", "n", 1, "number of values to print")
	generateCmd.Flags().StringArray("opt", nil, "generator option as key=value (repeatable; comma-separated values become a list for options)")
}

// specFromArgs builds a field spec from a type tag and key=value options.
// Integers are parsed as numbers; "options" is split on commas.
func specFromArgs(tag string, opts []string) (model.FieldSpec, error) {
	attrs := map[string]any{"type": tag}
	for _, o := range opts {
		key, val, ok := strings.Cut(o, "=")
		if !ok || key == "" {
			return model.FieldSpec{}, fmt.Errorf("invalid --opt %q (expected key=value)", o)
		}
		switch {
		case key == "options":
			var list []any
			for _, item := range strings.Split(val, ",") {
				list = append(list, item)
			}
			attrs[key] = list
		default:
			if n, err := strconv.Atoi(val); err == nil {
				attrs[key] = n
			} else {
				attrs[key] = val
			}
		}
	}
	return model.ParseFieldSpec(attrs)
}
