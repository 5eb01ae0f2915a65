package translation

import (
	"context"
	"sort"
	"sync"

	"horse.fit/polyglot/internal/locale"
)

type storeKey struct {
	articleID int64
	locale    locale.Locale
}

type fakeStore struct {
	mu          sync.Mutex
	rows        map[storeKey]Translation
	getErr      error
	getAllErr   error
	insertErr   error
	getCalls    int
	insertCalls int
	views       map[int64]int
}

func newFakeStore(rows ...Translation) *fakeStore {
	s := &fakeStore{rows: map[storeKey]Translation{}, views: map[int64]int{}}
	for _, row := range rows {
		s.rows[storeKey{row.ArticleID, row.Locale}] = row
	}
	return s
}

func (s *fakeStore) Get(_ context.Context, articleID int64, loc locale.Locale) (Translation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.getErr != nil {
		return Translation{}, s.getErr
	}
	row, ok := s.rows[storeKey{articleID, loc}]
	if !ok {
		return Translation{}, ErrNotFound
	}
	return row, nil
}

func (s *fakeStore) GetAll(_ context.Context, articleID int64) ([]Translation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getAllErr != nil {
		return nil, s.getAllErr
	}
	out := make([]Translation, 0)
	for key, row := range s.rows {
		if key.articleID == articleID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Locale < out[j].Locale })
	return out, nil
}

func (s *fakeStore) InsertIfAbsent(_ context.Context, t Translation) (Translation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCalls++
	if s.insertErr != nil {
		return Translation{}, false, s.insertErr
	}
	key := storeKey{t.ArticleID, t.Locale}
	if existing, ok := s.rows[key]; ok {
		return existing, false, nil
	}
	s.rows[key] = t
	return t, true, nil
}

func (s *fakeStore) IncrementViewCount(_ context.Context, articleID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[articleID]++
	return nil
}

func (s *fakeStore) count(articleID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.rows {
		if key.articleID == articleID {
			n++
		}
	}
	return n
}

type fakeEngine struct {
	mu             sync.Mutex
	translateCalls int
	readTimeCalls  int
	err            error
	lastSource     SourceContent
	beforeReturn   func()
}

func (e *fakeEngine) Translate(_ context.Context, src SourceContent, target locale.Locale) (TranslatedContent, error) {
	e.mu.Lock()
	e.translateCalls++
	e.lastSource = src
	err := e.err
	hook := e.beforeReturn
	e.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return TranslatedContent{}, err
	}
	return TranslatedContent{
		Title:          "[" + target.String() + "] " + src.Title,
		BodyHTML:       "<p>" + target.String() + "</p>",
		Excerpt:        "excerpt " + target.String(),
		SEOTitle:       "seo " + target.String(),
		SEODescription: "desc " + target.String(),
		ProviderName:   "fake",
		ModelName:      "fake-1",
	}, nil
}

func (e *fakeEngine) EstimateReadTime(string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.readTimeCalls++
	return "1 min read"
}

func (e *fakeEngine) calls() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.translateCalls, e.readTimeCalls
}

type countingMetrics struct {
	mu        sync.Mutex
	hits      int
	misses    int
	conflicts int
	engine    map[string]int
}

func (m *countingMetrics) CacheHit(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}

func (m *countingMetrics) CacheMiss(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
}

func (m *countingMetrics) InsertConflict(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

func (m *countingMetrics) EngineCall(_ string, outcome string, _ int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.engine == nil {
		m.engine = map[string]int{}
	}
	m.engine[outcome]++
}

func authored(articleID int64, loc locale.Locale, title string) Translation {
	return Translation{
		ArticleID:         articleID,
		Locale:            loc,
		TranslationUUID:   "uuid-" + loc.String(),
		Title:             title,
		BodyHTML:          "<p>" + title + "</p>",
		Excerpt:           title,
		EstimatedReadTime: "1 min read",
		Origin:            OriginAuthored,
	}
}
