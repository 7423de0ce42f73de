package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skilltree-advisor/internal/advisor"
	"github.com/jonathan/skilltree-advisor/internal/observability"
)

var (
	recommendStudent string
	recommendFormat  string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank career paths for a student",
	Long:  `Score every skill tree against the student's stored profile and print the ranked recommendations.`,
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendStudent, "student", "s", "", "Student ID (required)")
	recommendCmd.Flags().StringVar(&recommendFormat, "format", "text", "Output format: text or json")

	if err := recommendCmd.MarkFlagRequired("student"); err != nil {
		panic(fmt.Sprintf("failed to mark student flag as required: %v", err))
	}

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	if recommendFormat != "text" && recommendFormat != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", recommendFormat)
	}

	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	service := advisor.NewService(a.store, advisor.WithLogger(a.logger))
	defer service.Wait()

	recs, err := service.GetCareerPaths(cmd.Context(), recommendStudent)
	if err != nil {
		return fmt.Errorf("failed to rank career paths: %w", err)
	}

	if recommendFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}

	profile, err := a.store.GetStudentWithProfile(cmd.Context(), recommendStudent)
	if err != nil {
		return fmt.Errorf("failed to load student: %w", err)
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintStudentProfile(profile)
	printer.PrintRecommendations(recs)
	return nil
}
