package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skilltree-advisor/internal/embedding"
)

var (
	embedText    string
	embedCompare string
	embedN       int
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Print the text fingerprint used for similarity",
	Long: `Print the hash and the first N elements of the fingerprint vector for a text.
With --compare the cosine similarity between the two texts is printed as well.`,
	RunE: runEmbed,
}

func init() {
	embedCmd.Flags().StringVarP(&embedText, "text", "t", "", "Text to embed (required)")
	embedCmd.Flags().StringVar(&embedCompare, "compare", "", "Second text to compare against")
	embedCmd.Flags().IntVar(&embedN, "n", 8, "Number of vector elements to print")

	if err := embedCmd.MarkFlagRequired("text"); err != nil {
		panic(fmt.Sprintf("failed to mark text flag as required: %v", err))
	}

	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, _ []string) error {
	if embedN < 0 || embedN > embedding.Dimensions {
		return fmt.Errorf("--n must be between 0 and %d, got %d", embedding.Dimensions, embedN)
	}

	out := cmd.OutOrStdout()
	vec := embedding.Embed(embedText)

	_, _ = fmt.Fprintf(out, "hash: %.0f\n", embedding.Hash(embedText))
	_, _ = fmt.Fprintf(out, "dimensions: %d\n", len(vec))
	for i := 0; i < embedN; i++ {
		_, _ = fmt.Fprintf(out, "[%d] %.6f\n", i, vec[i])
	}

	if embedCompare != "" {
		other := embedding.Embed(embedCompare)
		_, _ = fmt.Fprintf(out, "similarity: %.6f\n", embedding.Similarity(vec, other))
	}
	return nil
}
