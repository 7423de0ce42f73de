package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/skilltree-advisor/internal/advisor"
	"github.com/jonathan/skilltree-advisor/internal/observability"
	"github.com/jonathan/skilltree-advisor/internal/types"
)

var skillTreesCmd = &cobra.Command{
	Use:   "skill-trees [id]",
	Short: "Show the skill tree catalog",
	Long:  `Print every stored skill tree, or a single one when an ID is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSkillTrees,
}

func init() {
	rootCmd.AddCommand(skillTreesCmd)
}

func runSkillTrees(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	service := advisor.NewService(a.store, advisor.WithLogger(a.logger))

	var paths []types.CareerPath
	if len(args) == 1 {
		path, err := service.GetCareerPath(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		paths = append(paths, *path)
	} else {
		paths, err = service.ListCareerPaths(cmd.Context())
		if err != nil {
			return err
		}
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	for i := range paths {
		printer.PrintCareerPath(&paths[i])
	}
	return nil
}
