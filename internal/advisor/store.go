package advisor

import (
	"context"
	"time"

	"github.com/jonathan/skilltree-advisor/internal/types"
)

// Store is the persistence the advisor reads from and writes to.
// Lookups of a missing record return nil and no error.
type Store interface {
	// GetStudentWithProfile loads a student with talents, interests and skill progress.
	GetStudentWithProfile(ctx context.Context, studentID string) (*types.StudentProfile, error)
	// SaveStudentProfile creates or updates a student and replaces its talents and interests.
	SaveStudentProfile(ctx context.Context, profile *types.StudentProfile) error
	// SetInferredHybridMode stores mode only while the student still has no
	// mode and its updated_at equals seen, the value read before inference.
	// It reports whether the row was written.
	SetInferredHybridMode(ctx context.Context, studentID string, mode types.HybridMode, seen time.Time) (bool, error)

	// GetAllCareerPaths loads the catalog with skills, training and active co-ops.
	GetAllCareerPaths(ctx context.Context) ([]types.CareerPath, error)
	// GetCareerPath loads a single skill tree.
	GetCareerPath(ctx context.Context, pathID string) (*types.CareerPath, error)

	SaveQuizResult(ctx context.Context, result *types.QuizResult) error
	// ListQuizResults returns a student's results, newest first.
	ListQuizResults(ctx context.Context, studentID string) ([]types.QuizResult, error)
	GetQuizResult(ctx context.Context, studentID, resultID string) (*types.QuizResult, error)
	// DeleteQuizResult reports whether a result was removed.
	DeleteQuizResult(ctx context.Context, studentID, resultID string) (bool, error)
}

// Cache memoizes serialized recommendations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
	Delete(ctx context.Context, key string)
}
