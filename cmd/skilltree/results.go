package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skilltree-advisor/internal/advisor"
	"github.com/jonathan/skilltree-advisor/internal/observability"
)

var (
	resultsStudent string
	resultsDelete  string
	resultsJSON    bool
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List or delete a student's saved quiz results",
	RunE:  runResults,
}

func init() {
	resultsCmd.Flags().StringVarP(&resultsStudent, "student", "s", "", "Student ID (required)")
	resultsCmd.Flags().StringVar(&resultsDelete, "delete", "", "Delete the quiz result with this ID")
	resultsCmd.Flags().BoolVar(&resultsJSON, "as-json", false, "Print results as JSON")

	if err := resultsCmd.MarkFlagRequired("student"); err != nil {
		panic(fmt.Sprintf("failed to mark student flag as required: %v", err))
	}

	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	service := advisor.NewService(a.store, advisor.WithLogger(a.logger))

	if resultsDelete != "" {
		if err := service.DeleteQuizResult(cmd.Context(), resultsStudent, resultsDelete); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted quiz result %s\n", resultsDelete)
		return nil
	}

	results, err := service.ListQuizResults(cmd.Context(), resultsStudent)
	if err != nil {
		return err
	}

	if resultsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	if len(results) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No saved quiz results")
		return nil
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintQuizResults(results)
	return nil
}
