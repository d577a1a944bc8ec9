package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dbfaker/internal/generator"
)

var typesCmd = &cobra.Command{
	Use:     "types",
	Short:   "List the generator types a field can use",
	GroupID: "inspect",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, tag := range generator.New(0).Tags() {
			fmt.Fprintln(w, tag)
		}
		fmt.Fprintln(w, "(any other type produces masked text)")
		return nil
	},
}
