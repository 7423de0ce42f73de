package advisor

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/skilltree-advisor/internal/cache"
	"github.com/jonathan/skilltree-advisor/internal/embedding"
	"github.com/jonathan/skilltree-advisor/internal/types"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	mu            sync.Mutex
	students      map[string]*types.StudentProfile
	paths         []types.CareerPath
	results       map[string]types.QuizResult
	studentReads  int
	hybridWrites  int
	setHybridErr  error
	getStudentErr error
}

func newMemStore(paths ...types.CareerPath) *memStore {
	return &memStore{
		students: make(map[string]*types.StudentProfile),
		paths:    paths,
		results:  make(map[string]types.QuizResult),
	}
}

func (m *memStore) GetStudentWithProfile(_ context.Context, id string) (*types.StudentProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.studentReads++
	if m.getStudentErr != nil {
		return nil, m.getStudentErr
	}
	p, ok := m.students[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) SaveStudentProfile(_ context.Context, p *types.StudentProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.students[p.ID] = &cp
	return nil
}

func (m *memStore) SetInferredHybridMode(_ context.Context, id string, mode types.HybridMode, seen time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hybridWrites++
	if m.setHybridErr != nil {
		return false, m.setHybridErr
	}
	p, ok := m.students[id]
	if !ok || p.HybridMode.IsSet() || !p.UpdatedAt.Equal(seen) {
		return false, nil
	}
	p.HybridMode = mode
	return true, nil
}

// gatedStore pauses the first student read after its snapshot is taken, and
// the first inferred mode write before it reaches the store, so tests can
// interleave a quiz submission with a scoring pass.
type gatedStore struct {
	*memStore

	gateRead     bool
	readHeld     chan struct{}
	releaseRead  chan struct{}
	readTaken    atomic.Bool
	writeHeld    chan struct{}
	releaseWrite chan struct{}
	writeTaken   atomic.Bool
}

func newGatedStore(m *memStore, gateRead bool) *gatedStore {
	return &gatedStore{
		memStore:     m,
		gateRead:     gateRead,
		readHeld:     make(chan struct{}),
		releaseRead:  make(chan struct{}),
		writeHeld:    make(chan struct{}),
		releaseWrite: make(chan struct{}),
	}
}

func (g *gatedStore) GetStudentWithProfile(ctx context.Context, id string) (*types.StudentProfile, error) {
	p, err := g.memStore.GetStudentWithProfile(ctx, id)
	if g.gateRead && g.readTaken.CompareAndSwap(false, true) {
		close(g.readHeld)
		<-g.releaseRead
	}
	return p, err
}

func (g *gatedStore) SetInferredHybridMode(ctx context.Context, id string, mode types.HybridMode, seen time.Time) (bool, error) {
	if g.writeTaken.CompareAndSwap(false, true) {
		close(g.writeHeld)
		<-g.releaseWrite
	}
	return g.memStore.SetInferredHybridMode(ctx, id, mode, seen)
}

func (m *memStore) student(id string) types.StudentProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.students[id]
}

func (m *memStore) GetAllCareerPaths(context.Context) ([]types.CareerPath, error) {
	return slices.Clone(m.paths), nil
}

func (m *memStore) GetCareerPath(_ context.Context, id string) (*types.CareerPath, error) {
	for _, p := range m.paths {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memStore) SaveQuizResult(_ context.Context, r *types.QuizResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[r.ID] = *r
	return nil
}

func (m *memStore) ListQuizResults(_ context.Context, studentID string) ([]types.QuizResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.QuizResult
	for _, r := range m.results {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetQuizResult(_ context.Context, studentID, resultID string) (*types.QuizResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[resultID]
	if !ok || r.StudentID != studentID {
		return nil, nil
	}
	return &r, nil
}

func (m *memStore) DeleteQuizResult(_ context.Context, studentID, resultID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[resultID]
	if !ok || r.StudentID != studentID {
		return false, nil
	}
	delete(m.results, resultID)
	return true, nil
}

func testCatalog() []types.CareerPath {
	return []types.CareerPath{
		{
			ID:       "tree-concept",
			Name:     "Footwear Concept Designer",
			Industry: "Consumer Products",
			Subfield: "Footwear Design",
			Skills:   []types.Skill{{Name: "Hand Sketching"}, {Name: "3D Sculpting"}, {Name: "Material Selection"}},
		},
		{
			ID:         "tree-generative",
			Name:       "Generative Footwear System Architect",
			Industry:   "Consumer Products",
			Subfield:   "Footwear Design",
			IsHybrid:   true,
			HybridType: "GENERATIVE",
			Skills:     []types.Skill{{Name: "AI Variant Generation"}, {Name: "Parametric Sizing Logic"}, {Name: "Style DNA Encoding"}},
		},
	}
}

func drawingStudent(id string) *types.StudentProfile {
	talents := []types.Talent{{Name: "Drawing", MeasuredScore: 80}}
	interests := []types.Interest{{Topic: "Footwear", Strength: 5}}
	return &types.StudentProfile{
		ID:        id,
		Talents:   talents,
		Interests: interests,
		Embedding: embedding.ForProfile(talents, interests),
	}
}

func validSubmission() *types.QuizSubmission {
	return &types.QuizSubmission{
		Talents:   []types.TalentInput{{Name: "Coding", MeasuredScore: 70, Confidence: types.ConfidenceHigh}},
		Interests: []types.InterestInput{{Topic: "Gaming", Strength: 4}},
	}
}

func TestGetCareerPaths_StudentNotFound(t *testing.T) {
	svc := NewService(newMemStore(testCatalog()...))

	_, err := svc.GetCareerPaths(context.Background(), "missing")
	require.Error(t, err)
	var notFound *ErrStudentNotFound
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.StudentID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetCareerPaths_InfersAndPersistsHybridMode(t *testing.T) {
	store := newMemStore(testCatalog()...)
	require.NoError(t, store.SaveStudentProfile(context.Background(), drawingStudent("s1")))
	svc := NewService(store)

	recs, err := svc.GetCareerPaths(context.Background(), "s1")
	require.NoError(t, err)
	svc.Wait()

	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.Equal(t, types.HybridModeDirectCreator, rec.HybridRole)
	}
	assert.Equal(t, 1, store.hybridWrites)
	assert.Equal(t, types.HybridModeDirectCreator, store.students["s1"].HybridMode)

	// Once persisted, inference does not run again.
	_, err = svc.GetCareerPaths(context.Background(), "s1")
	require.NoError(t, err)
	svc.Wait()
	assert.Equal(t, 1, store.hybridWrites)
}

func TestGetCareerPaths_ExplicitModeNotOverwritten(t *testing.T) {
	store := newMemStore(testCatalog()...)
	student := drawingStudent("s1")
	student.HybridMode = types.HybridModeSystemArchitect
	require.NoError(t, store.SaveStudentProfile(context.Background(), student))
	svc := NewService(store)

	recs, err := svc.GetCareerPaths(context.Background(), "s1")
	require.NoError(t, err)
	svc.Wait()

	assert.Equal(t, 0, store.hybridWrites)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.Equal(t, types.HybridModeSystemArchitect, rec.HybridRole)
		assert.Equal(t, rec.IsHybrid, rec.HasFragment(types.FragmentHybridAffinity), rec.ID)
	}
}

func TestGetCareerPaths_InferredModeYieldsToLaterSubmission(t *testing.T) {
	tests := []struct {
		name     string
		mode     types.HybridMode
		wantMode types.HybridMode
	}{
		{name: "explicit mode", mode: types.HybridModeAICurator, wantMode: types.HybridModeAICurator},
		{name: "cleared mode", mode: types.HybridModeNone, wantMode: types.HybridModeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := newMemStore(testCatalog()...)
			require.NoError(t, mem.SaveStudentProfile(context.Background(), drawingStudent("s1")))
			store := newGatedStore(mem, false)
			svc := NewService(store)
			ctx := context.Background()

			recs, err := svc.GetCareerPaths(ctx, "s1")
			require.NoError(t, err)
			require.NotEmpty(t, recs)
			assert.Equal(t, types.HybridModeDirectCreator, recs[0].HybridRole)
			<-store.writeHeld

			sub := validSubmission()
			sub.HybridMode = tt.mode
			_, err = svc.SubmitQuiz(ctx, "s1", sub)
			require.NoError(t, err)

			close(store.releaseWrite)
			svc.Wait()

			assert.Equal(t, tt.wantMode, mem.student("s1").HybridMode,
				"a mode inferred from the replaced profile must not be stored")
		})
	}
}

func TestGetCareerPaths_ClearedModeIsInferredFromNewProfile(t *testing.T) {
	mem := newMemStore(testCatalog()...)
	require.NoError(t, mem.SaveStudentProfile(context.Background(), drawingStudent("s1")))
	store := newGatedStore(mem, false)
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.GetCareerPaths(ctx, "s1")
	require.NoError(t, err)
	<-store.writeHeld
	_, err = svc.SubmitQuiz(ctx, "s1", validSubmission())
	require.NoError(t, err)
	close(store.releaseWrite)
	svc.Wait()

	recs, err := svc.GetCareerPaths(ctx, "s1")
	require.NoError(t, err)
	svc.Wait()
	require.NotEmpty(t, recs)
	assert.Equal(t, types.HybridModeSystemArchitect, recs[0].HybridRole)
	assert.Equal(t, types.HybridModeSystemArchitect, mem.student("s1").HybridMode)
}

func TestGetCareerPaths_PersistFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := newMemStore(testCatalog()...)
	store.setHybridErr = errors.New("db down")
	require.NoError(t, store.SaveStudentProfile(context.Background(), drawingStudent("s1")))
	svc := NewService(store, WithLogger(zap.New(core)))

	recs, err := svc.GetCareerPaths(context.Background(), "s1")
	require.NoError(t, err, "a failed write must not fail scoring")
	svc.Wait()

	assert.Len(t, recs, 2)
	assert.Equal(t, 1, logs.FilterMessage("failed to persist inferred hybrid mode").Len())
}

func TestGetCareerPaths_EmptyCatalog(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.SaveStudentProfile(context.Background(), drawingStudent("s1")))
	svc := NewService(store)

	recs, err := svc.GetCareerPaths(context.Background(), "s1")
	require.NoError(t, err)
	svc.Wait()
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestGetCareerPaths_StoreError(t *testing.T) {
	store := newMemStore(testCatalog()...)
	store.getStudentErr = errors.New("connection refused")
	svc := NewService(store)

	_, err := svc.GetCareerPaths(context.Background(), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestGetCareerPaths_UsesCache(t *testing.T) {
	store := newMemStore(testCatalog()...)
	require.NoError(t, store.SaveStudentProfile(context.Background(), drawingStudent("s1")))
	c := cache.New(context.Background(), cache.Options{TTL: time.Minute})
	defer func() { _ = c.Close() }()
	svc := NewService(store, WithCache(c))

	first, err := svc.GetCareerPaths(context.Background(), "s1")
	require.NoError(t, err)
	svc.Wait()
	reads := store.studentReads

	second, err := svc.GetCareerPaths(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, reads, store.studentReads, "cached call must not read the store")
	assert.Equal(t, first, second)

	// A quiz submission invalidates the cached entry.
	_, err = svc.SubmitQuiz(context.Background(), "s1", validSubmission())
	require.NoError(t, err)
	_, ok := c.Get(context.Background(), cache.RecommendationsKey("s1"))
	assert.False(t, ok)
}

func TestGetCareerPaths_DoesNotCacheResultOfReplacedProfile(t *testing.T) {
	mem := newMemStore(testCatalog()...)
	require.NoError(t, mem.SaveStudentProfile(context.Background(), drawingStudent("s1")))
	store := newGatedStore(mem, true)
	close(store.releaseWrite)
	c := cache.New(context.Background(), cache.Options{TTL: time.Hour})
	defer func() { _ = c.Close() }()
	svc := NewService(store, WithCache(c))
	ctx := context.Background()

	type result struct {
		recs []types.CareerPathRecommendation
		err  error
	}
	done := make(chan result, 1)
	go func() {
		recs, err := svc.GetCareerPaths(ctx, "s1")
		done <- result{recs, err}
	}()

	<-store.readHeld
	_, err := svc.SubmitQuiz(ctx, "s1", validSubmission())
	require.NoError(t, err)
	close(store.releaseRead)

	stale := <-done
	require.NoError(t, stale.err)
	require.NotEmpty(t, stale.recs)
	assert.Equal(t, types.HybridModeDirectCreator, stale.recs[0].HybridRole)
	svc.Wait()

	_, ok := c.Get(ctx, cache.RecommendationsKey("s1"))
	assert.False(t, ok, "recommendations scored from the replaced profile must not be cached")

	fresh, err := svc.GetCareerPaths(ctx, "s1")
	require.NoError(t, err)
	svc.Wait()
	require.NotEmpty(t, fresh)
	assert.Equal(t, types.HybridModeSystemArchitect, fresh[0].HybridRole)

	_, ok = c.Get(ctx, cache.RecommendationsKey("s1"))
	assert.True(t, ok, "an uncontended pass caches its result")
}

func TestSubmitQuiz_CreatesStudent(t *testing.T) {
	store := newMemStore(testCatalog()...)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(store, WithClock(func() time.Time { return fixed }))

	sub := validSubmission()
	sub.Interests[0].MappedConcepts = []string{"Systems"}
	profile, err := svc.SubmitQuiz(context.Background(), "new-student", sub)
	require.NoError(t, err)

	assert.Equal(t, "new-student", profile.ID)
	assert.Equal(t, "Student", profile.Name)
	assert.Equal(t, "new-student@temp.uc.edu", profile.Email)
	assert.Equal(t, 1, profile.Year)
	assert.Equal(t, fixed, profile.CreatedAt)
	assert.Equal(t, types.HybridModeNone, profile.HybridMode)

	want := embedding.Embed("Talents: Coding, Coding, Coding | Interests: Gaming Systems, Gaming Systems")
	assert.Equal(t, want, profile.Embedding)
	assert.Equal(t, want, store.students["new-student"].Embedding)
}

func TestSubmitQuiz_ReplacesProfileAndClearsMode(t *testing.T) {
	store := newMemStore(testCatalog()...)
	student := drawingStudent("s1")
	student.HybridMode = types.HybridModeDirectCreator
	require.NoError(t, store.SaveStudentProfile(context.Background(), student))
	svc := NewService(store)

	profile, err := svc.SubmitQuiz(context.Background(), "s1", validSubmission())
	require.NoError(t, err)

	assert.Equal(t, []string{"Coding"}, profile.TalentNames())
	assert.Equal(t, []string{"Gaming"}, profile.InterestTopics())
	assert.Equal(t, types.HybridModeNone, profile.HybridMode)

	recs, err := svc.GetCareerPaths(context.Background(), "s1")
	require.NoError(t, err)
	svc.Wait()
	require.NotEmpty(t, recs)
	assert.Equal(t, types.HybridModeSystemArchitect, recs[0].HybridRole)
}

func TestSubmitQuiz_Validation(t *testing.T) {
	svc := NewService(newMemStore())

	tests := []struct {
		name  string
		sub   *types.QuizSubmission
		field string
	}{
		{"no talents", &types.QuizSubmission{Interests: []types.InterestInput{{Topic: "Cars", Strength: 3}}}, "Talents"},
		{"no interests", &types.QuizSubmission{Talents: []types.TalentInput{{Name: "Drawing", MeasuredScore: 50}}}, "Interests"},
		{"score too high", &types.QuizSubmission{
			Talents:   []types.TalentInput{{Name: "Drawing", MeasuredScore: 101}},
			Interests: []types.InterestInput{{Topic: "Cars", Strength: 3}},
		}, "Talents[0].MeasuredScore"},
		{"strength too low", &types.QuizSubmission{
			Talents:   []types.TalentInput{{Name: "Drawing", MeasuredScore: 50}},
			Interests: []types.InterestInput{{Topic: "Cars", Strength: 0}},
		}, "Interests[0].Strength"},
		{"bad mode", &types.QuizSubmission{
			Talents:    []types.TalentInput{{Name: "Drawing", MeasuredScore: 50}},
			Interests:  []types.InterestInput{{Topic: "Cars", Strength: 3}},
			HybridMode: "WIZARD",
		}, "HybridMode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitQuiz(context.Background(), "s1", tt.sub)
			var verr *ErrValidation
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestQuizResults_Lifecycle(t *testing.T) {
	store := newMemStore(testCatalog()...)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(store, WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	ctx := context.Background()

	first, err := svc.SaveQuizResult(ctx, "s1", &types.SaveQuizResultRequest{Name: "first", QuizData: *validSubmission()})
	require.NoError(t, err)
	svc.Wait()
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "s1", first.StudentID)
	assert.NotEmpty(t, first.Recommendations)

	second, err := svc.SaveQuizResult(ctx, "s1", &types.SaveQuizResultRequest{Name: "second", QuizData: *validSubmission()})
	require.NoError(t, err)
	svc.Wait()

	list, err := svc.ListQuizResults(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)

	got, err := svc.GetQuizResult(ctx, "s1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)

	_, err = svc.GetQuizResult(ctx, "someone-else", first.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, svc.DeleteQuizResult(ctx, "s1", first.ID))
	err = svc.DeleteQuizResult(ctx, "s1", first.ID)
	var notFound *ErrQuizResultNotFound
	assert.True(t, errors.As(err, &notFound))

	empty, err := svc.ListQuizResults(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestCareerPathLookup(t *testing.T) {
	svc := NewService(newMemStore(testCatalog()...))
	ctx := context.Background()

	paths, err := svc.ListCareerPaths(ctx)
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	path, err := svc.GetCareerPath(ctx, "tree-generative")
	require.NoError(t, err)
	assert.True(t, path.IsHybrid)

	_, err = svc.GetCareerPath(ctx, "nope")
	var notFound *ErrCareerPathNotFound
	assert.True(t, errors.As(err, &notFound))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestQuizStatus(t *testing.T) {
	store := newMemStore(testCatalog()...)
	require.NoError(t, store.SaveStudentProfile(context.Background(), &types.StudentProfile{ID: "blank"}))
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.QuizStatus(ctx, "nobody")
	var notFound *ErrStudentNotFound
	assert.ErrorAs(t, err, &notFound)

	has, err := svc.QuizStatus(ctx, "blank")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = svc.SubmitQuiz(ctx, "blank", validSubmission())
	require.NoError(t, err)
	has, err = svc.QuizStatus(ctx, "blank")
	require.NoError(t, err)
	assert.True(t, has)
}
