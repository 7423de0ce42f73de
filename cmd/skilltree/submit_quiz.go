package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skilltree-advisor/internal/advisor"
	"github.com/jonathan/skilltree-advisor/internal/observability"
	"github.com/jonathan/skilltree-advisor/internal/schemas"
	"github.com/jonathan/skilltree-advisor/internal/types"
	rootschemas "github.com/jonathan/skilltree-advisor/schemas"
)

var (
	submitStudent string
	submitFile    string
	submitSaveAs  string
	submitSave    bool
)

var submitQuizCmd = &cobra.Command{
	Use:   "submit-quiz",
	Short: "Submit quiz answers for a student",
	Long: `Replace a student's talents and interests with the answers in a quiz submission file.
The file is validated against the quiz submission schema first. With --save the
submission and its recommendations are also kept as a named quiz result.`,
	RunE: runSubmitQuiz,
}

func init() {
	submitQuizCmd.Flags().StringVarP(&submitStudent, "student", "s", "", "Student ID (required)")
	submitQuizCmd.Flags().StringVarP(&submitFile, "file", "f", "", "Path to quiz submission JSON file (required)")
	submitQuizCmd.Flags().BoolVar(&submitSave, "save", false, "Keep the submission as a saved quiz result")
	submitQuizCmd.Flags().StringVar(&submitSaveAs, "name", "", "Name for the saved quiz result")

	if err := submitQuizCmd.MarkFlagRequired("student"); err != nil {
		panic(fmt.Sprintf("failed to mark student flag as required: %v", err))
	}
	if err := submitQuizCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(submitQuizCmd)
}

func runSubmitQuiz(cmd *cobra.Command, _ []string) error {
	sub, err := readSubmission(submitFile)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	service := advisor.NewService(a.store, advisor.WithLogger(a.logger))
	defer service.Wait()

	printer := observability.NewPrinter(cmd.OutOrStdout())

	if submitSave {
		result, err := service.SaveQuizResult(cmd.Context(), submitStudent, &types.SaveQuizResultRequest{
			Name:     submitSaveAs,
			QuizData: *sub,
		})
		if err != nil {
			return fmt.Errorf("failed to save quiz result: %w", err)
		}
		printer.PrintRecommendations(result.Recommendations)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved quiz result %s\n", result.ID)
		return nil
	}

	profile, err := service.SubmitQuiz(cmd.Context(), submitStudent, sub)
	if err != nil {
		return fmt.Errorf("failed to submit quiz: %w", err)
	}
	printer.PrintStudentProfile(profile)
	return nil
}

// readSubmission schema-checks and decodes a quiz submission file.
func readSubmission(path string) (*types.QuizSubmission, error) {
	v, err := schemas.Embedded(rootschemas.QuizSubmission)
	if err != nil {
		return nil, err
	}
	data, err := v.ValidateFile(path)
	if err != nil {
		return nil, fmt.Errorf("invalid quiz submission: %w", err)
	}

	var sub types.QuizSubmission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("failed to parse quiz submission: %w", err)
	}
	return &sub, nil
}
