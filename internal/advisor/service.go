// Package advisor is the service boundary around the recommendation engine:
// it loads students and the catalog, persists inferred hybrid modes, records
// quiz submissions and caches results.
package advisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skilltree-advisor/internal/cache"
	"github.com/jonathan/skilltree-advisor/internal/embedding"
	"github.com/jonathan/skilltree-advisor/internal/hybrid"
	"github.com/jonathan/skilltree-advisor/internal/mapping"
	"github.com/jonathan/skilltree-advisor/internal/ranking"
	"github.com/jonathan/skilltree-advisor/internal/types"
)

const persistTimeout = 5 * time.Second

// Service provides recommendation and quiz operations for students.
type Service struct {
	store  Store
	tables mapping.Tables
	scorer *ranking.Scorer
	cache  Cache
	logger *zap.Logger
	now    func() time.Time

	// pending tracks background hybrid mode writes.
	pending sync.WaitGroup

	// generations counts profile replacements per student. A scoring pass
	// caches its result only if no replacement happened since it started.
	genMu       sync.Mutex
	generations map[string]uint64
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables recommendation caching.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTables overrides the embedded mapping tables.
func WithTables(t mapping.Tables) Option {
	return func(s *Service) {
		if t != nil {
			s.tables = t
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service backed by store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tables: mapping.Default(),
		logger: zap.NewNop(),
		now:    time.Now,

		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.scorer = ranking.NewScorer(s.tables)
	return s
}

// GetCareerPaths returns the ranked recommendations for a student.
// An unknown student yields *ErrStudentNotFound; an empty catalog yields an
// empty list.
func (s *Service) GetCareerPaths(ctx context.Context, studentID string) ([]types.CareerPathRecommendation, error) {
	key := cache.RecommendationsKey(studentID)
	if s.cache != nil {
		if recs, ok := cache.GetJSON[[]types.CareerPathRecommendation](ctx, s.cache, key); ok {
			return recs, nil
		}
	}

	gen := s.generation(studentID)
	var (
		student *types.StudentProfile
		catalog []types.CareerPath
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		student, err = s.store.GetStudentWithProfile(gctx, studentID)
		if err != nil {
			return fmt.Errorf("failed to load student: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		catalog, err = s.store.GetAllCareerPaths(gctx)
		if err != nil {
			return fmt.Errorf("failed to load career paths: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if student == nil {
		return nil, &ErrStudentNotFound{StudentID: studentID}
	}

	mode, shouldPersist := hybrid.Resolve(student)
	if shouldPersist {
		s.persistHybridMode(ctx, studentID, mode, student.UpdatedAt)
	}

	s.logUnmappedLabels(student, catalog)
	recs := s.scorer.Score(student, mode, catalog)

	s.cacheRecommendations(ctx, studentID, gen, recs)
	return recs, nil
}

func (s *Service) generation(studentID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[studentID]
}

// cacheRecommendations stores recs unless the student's profile was replaced
// after gen was taken.
func (s *Service) cacheRecommendations(ctx context.Context, studentID string, gen uint64, recs []types.CareerPathRecommendation) {
	if s.cache == nil {
		return
	}
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.generations[studentID] != gen {
		s.logger.Debug("profile changed while scoring, not caching", zap.String("student_id", studentID))
		return
	}
	if err := cache.SetJSON(ctx, s.cache, cache.RecommendationsKey(studentID), recs); err != nil {
		s.logger.Warn("failed to cache recommendations", zap.String("student_id", studentID), zap.Error(err))
	}
}

// persistHybridMode stores an inferred mode without blocking the caller.
// seen is the profile's updated_at as read for inference; the write is skipped
// if the student chose a mode or resubmitted the quiz in the meantime.
// Failures are logged; inference simply reruns on the next request.
func (s *Service) persistHybridMode(ctx context.Context, studentID string, mode types.HybridMode, seen time.Time) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
		defer cancel()

		written, err := s.store.SetInferredHybridMode(wctx, studentID, mode, seen)
		if err != nil {
			s.logger.Warn("failed to persist inferred hybrid mode",
				zap.String("student_id", studentID),
				zap.String("hybrid_mode", string(mode)),
				zap.Error(err),
			)
			return
		}
		if !written {
			s.logger.Debug("inferred hybrid mode superseded",
				zap.String("student_id", studentID),
				zap.String("hybrid_mode", string(mode)),
			)
			return
		}
		s.logger.Debug("persisted inferred hybrid mode",
			zap.String("student_id", studentID),
			zap.String("hybrid_mode", string(mode)),
		)
	}()
}

// Wait blocks until background writes have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) logUnmappedLabels(student *types.StudentProfile, catalog []types.CareerPath) {
	if ce := s.logger.Check(zap.DebugLevel, "unmapped labels"); ce == nil {
		return
	}

	items := append(student.InterestTopics(), student.TalentNames()...)
	if missing := mapping.UnknownForward(s.tables, items); len(missing) > 0 {
		s.logger.Debug("no forward mapping", zap.String("student_id", student.ID), zap.Strings("labels", missing))
	}
	for _, path := range catalog {
		if missing := mapping.UnknownBackward(s.tables, path.Industry, path.Subfield); len(missing) > 0 {
			s.logger.Debug("no backward mapping", zap.String("path_id", path.ID), zap.Strings("labels", missing))
		}
	}
}

// SubmitQuiz replaces a student's talents and interests, regenerates the
// embedding and stores the chosen hybrid mode. An empty mode clears it so it
// is inferred again. Missing students are created.
func (s *Service) SubmitQuiz(ctx context.Context, studentID string, sub *types.QuizSubmission) (*types.StudentProfile, error) {
	if err := sub.Validate(); err != nil {
		return nil, validationError(err)
	}

	student, err := s.store.GetStudentWithProfile(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	now := s.now()
	if student == nil {
		student = &types.StudentProfile{
			ID:        studentID,
			Name:      "Student",
			Email:     studentID + "@temp.uc.edu",
			Year:      1,
			CreatedAt: now,
		}
	}

	student.Talents = sub.ToTalents()
	student.Interests = sub.ToInterests()
	student.HybridMode = sub.HybridMode
	student.Embedding = embedding.ForProfile(student.Talents, student.Interests)
	student.UpdatedAt = now

	if err := s.store.SaveStudentProfile(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to save student profile: %w", err)
	}
	s.invalidate(ctx, studentID)

	s.logger.Info("quiz submitted",
		zap.String("student_id", studentID),
		zap.Int("talents", len(student.Talents)),
		zap.Int("interests", len(student.Interests)),
	)
	return student, nil
}

// QuizStatus reports whether the student has submitted any talents or
// interests.
func (s *Service) QuizStatus(ctx context.Context, studentID string) (bool, error) {
	student, err := s.store.GetStudentWithProfile(ctx, studentID)
	if err != nil {
		return false, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return false, &ErrStudentNotFound{StudentID: studentID}
	}
	return len(student.Talents) > 0 || len(student.Interests) > 0, nil
}

func (s *Service) invalidate(ctx context.Context, studentID string) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.generations[studentID]++
	if s.cache != nil {
		s.cache.Delete(ctx, cache.RecommendationsKey(studentID))
	}
}

// SaveQuizResult submits the quiz, scores the updated profile and stores a
// snapshot of both.
func (s *Service) SaveQuizResult(ctx context.Context, studentID string, req *types.SaveQuizResultRequest) (*types.QuizResult, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	if _, err := s.SubmitQuiz(ctx, studentID, &req.QuizData); err != nil {
		return nil, err
	}
	recs, err := s.GetCareerPaths(ctx, studentID)
	if err != nil {
		return nil, err
	}

	result := &types.QuizResult{
		ID:              uuid.NewString(),
		StudentID:       studentID,
		Name:            req.Name,
		Talents:         req.QuizData.Talents,
		Interests:       req.QuizData.Interests,
		HybridMode:      req.QuizData.HybridMode,
		Recommendations: recs,
		CreatedAt:       s.now(),
	}
	if err := s.store.SaveQuizResult(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save quiz result: %w", err)
	}
	return result, nil
}

// ListQuizResults returns a student's saved results, newest first.
func (s *Service) ListQuizResults(ctx context.Context, studentID string) ([]types.QuizResult, error) {
	results, err := s.store.ListQuizResults(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz results: %w", err)
	}
	if results == nil {
		results = []types.QuizResult{}
	}
	return results, nil
}

// GetQuizResult returns one of the student's saved results.
func (s *Service) GetQuizResult(ctx context.Context, studentID, resultID string) (*types.QuizResult, error) {
	result, err := s.store.GetQuizResult(ctx, studentID, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz result: %w", err)
	}
	if result == nil {
		return nil, &ErrQuizResultNotFound{ResultID: resultID}
	}
	return result, nil
}

// DeleteQuizResult removes one of the student's saved results.
func (s *Service) DeleteQuizResult(ctx context.Context, studentID, resultID string) error {
	deleted, err := s.store.DeleteQuizResult(ctx, studentID, resultID)
	if err != nil {
		return fmt.Errorf("failed to delete quiz result: %w", err)
	}
	if !deleted {
		return &ErrQuizResultNotFound{ResultID: resultID}
	}
	return nil
}

// ListCareerPaths returns the full catalog.
func (s *Service) ListCareerPaths(ctx context.Context) ([]types.CareerPath, error) {
	paths, err := s.store.GetAllCareerPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list career paths: %w", err)
	}
	if paths == nil {
		paths = []types.CareerPath{}
	}
	return paths, nil
}

// GetCareerPath returns a single skill tree.
func (s *Service) GetCareerPath(ctx context.Context, pathID string) (*types.CareerPath, error) {
	path, err := s.store.GetCareerPath(ctx, pathID)
	if err != nil {
		return nil, fmt.Errorf("failed to get career path: %w", err)
	}
	if path == nil {
		return nil, &ErrCareerPathNotFound{PathID: pathID}
	}
	return path, nil
}
