package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/skilltree-advisor/internal/catalog"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the skill tree catalog and the test student",
	Long: `Write every skill tree of the catalog and the development test student into the
configured store. Uses the built-in catalog unless --file is given. Safe to rerun.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Path to a catalog JSON file (default: built-in catalog)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	var (
		c   *catalog.Catalog
		err error
	)
	if seedFile != "" {
		c, err = catalog.LoadFile(seedFile)
	} else {
		c, err = catalog.Default()
	}
	if err != nil {
		return err
	}

	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	student, err := catalog.Seed(cmd.Context(), a.store, c)
	if err != nil {
		return err
	}

	a.logger.Info("catalog seeded",
		zap.Int("career_paths", len(c.CareerPaths)),
		zap.Int("industries", len(c.Industries())),
	)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d skill trees\nTest student: %s\n", len(c.CareerPaths), student.ID)
	return nil
}
