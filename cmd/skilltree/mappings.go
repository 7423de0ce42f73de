package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/skilltree-advisor/internal/mapping"
)

var (
	mappingsFile string
	mappingsList bool
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings [label...]",
	Short: "Look up the skill mapping tables",
	Long: `Print the forward skills (interests and talents) and backward skills (industries and
subfields) for each label, plus the hybrid weight of every resulting skill.
Labels are matched exactly. With --list the known labels are printed instead.`,
	RunE: runMappings,
}

func init() {
	mappingsCmd.Flags().StringVarP(&mappingsFile, "file", "f", "", "Path to a mapping tables JSON file (default: built-in tables)")
	mappingsCmd.Flags().BoolVar(&mappingsList, "list", false, "List every known label")
	rootCmd.AddCommand(mappingsCmd)
}

func runMappings(cmd *cobra.Command, args []string) error {
	tables, err := loadTables(mappingsFile)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if mappingsList {
		_, _ = fmt.Fprintf(out, "forward: %s\n", strings.Join(tables.ForwardLabels(), ", "))
		_, _ = fmt.Fprintf(out, "backward: %s\n", strings.Join(tables.BackwardLabels(), ", "))
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("at least one label is required (or use --list)")
	}

	for _, label := range args {
		_, _ = fmt.Fprintf(out, "%s\n", label)
		printLookup(cmd, "forward", label, tables.Forward, tables)
		printLookup(cmd, "backward", label, tables.Backward, tables)
	}
	return nil
}

func printLookup(cmd *cobra.Command, direction, label string, lookup func(string) ([]string, bool), tables mapping.Tables) {
	out := cmd.OutOrStdout()
	skills, ok := lookup(label)
	if !ok {
		_, _ = fmt.Fprintf(out, "  %s: (none)\n", direction)
		return
	}

	parts := make([]string, 0, len(skills))
	for _, skill := range skills {
		if w, ok := tables.HybridWeight(skill); ok {
			parts = append(parts, fmt.Sprintf("%s (+%d)", skill, w))
			continue
		}
		parts = append(parts, skill)
	}
	_, _ = fmt.Fprintf(out, "  %s: %s\n", direction, strings.Join(parts, ", "))
}

func loadTables(path string) (*mapping.StaticTables, error) {
	if path == "" {
		return mapping.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping tables: %w", err)
	}
	return mapping.Load(data)
}
