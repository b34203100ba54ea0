package analyzer

import (
	"context"
	"errors"
	"io"
	"time"

	"loopmod/internal/pkg/oracle"

	"github.com/go-kratos/kratos/v2/log"
	goredis "github.com/redis/go-redis/v9"
)

func testLogger() log.Logger {
	return log.NewStdLogger(io.Discard)
}

// passCache satisfies the redis Cache interface with a permissive bloom
// prefilter: every membership probe reports a possible hit, forcing the full
// scan path.
type passCache struct{}

func (passCache) SetString(ctx context.Context, key, value string, exp time.Duration) error {
	return nil
}
func (passCache) GetString(ctx context.Context, key string) (string, error) { return "", nil }
func (passCache) Exists(ctx context.Context, key string) (bool, error)      { return true, nil }
func (passCache) Del(ctx context.Context, keys ...string) (int64, error)    { return 0, nil }
func (passCache) Expire(ctx context.Context, key string, seconds int) (bool, error) {
	return true, nil
}
func (passCache) HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error) {
	return 0, nil
}
func (passCache) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return nil, nil
}
func (passCache) ScriptRun(ctx context.Context, script *goredis.Script, keys []string, args ...any) (any, error) {
	return int64(1), nil
}

// fakeClassifier returns a fixed verdict, or an error when failing is set.
type fakeClassifier struct {
	result  *oracle.Result
	failing bool
	calls   int
}

func (f *fakeClassifier) Classify(ctx context.Context, content, contentType string) (*oracle.Result, error) {
	f.calls++
	if f.failing {
		return nil, errors.New("scoring service down")
	}
	if f.result != nil {
		return f.result, nil
	}
	return &oracle.Result{IsSafe: true, Category: oracle.CategorySafe, Confidence: 0.95}, nil
}

// fakeStore is an in-memory KnownVisualStore.
type fakeStore struct {
	saved []*KnownVisual
	known *KnownVisual
}

func (f *fakeStore) FindSimilar(ctx context.Context, phash int64, maxDistance int32) (*KnownVisual, error) {
	return f.known, nil
}

func (f *fakeStore) Save(ctx context.Context, v *KnownVisual) error {
	f.saved = append(f.saved, v)
	return nil
}

// memResultCache is an in-memory ResultCache.
type memResultCache struct {
	entries map[string]*oracle.Result
}

func newMemResultCache() *memResultCache {
	return &memResultCache{entries: make(map[string]*oracle.Result)}
}

func (m *memResultCache) Get(ctx context.Context, contentHash string) (*oracle.Result, bool, error) {
	res, ok := m.entries[contentHash]
	return res, ok, nil
}

func (m *memResultCache) Set(ctx context.Context, contentHash string, res *oracle.Result) error {
	m.entries[contentHash] = res
	return nil
}

func newTestTermMatcher() *TermMatcher {
	return NewTermMatcher(passCache{}, DefaultTermMatcherConfig())
}
