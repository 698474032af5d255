package ratelimit_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/blog-comment-service/internal/ratelimit"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// scripterStore emulates the sliding-window script against in-memory sorted
// sets, so limiter behavior is testable without a Redis server.
type scripterStore struct {
	mu   sync.Mutex
	sets map[string]map[string]int64 // key -> member -> score
	err  error
}

func newScripterStore() *scripterStore {
	return &scripterStore{sets: make(map[string]map[string]int64)}
}

func (s *scripterStore) run(keys []string, args []interface{}) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}

	key := keys[0]
	limit := toInt64(args[0])
	window := toInt64(args[1])
	now := toInt64(args[2])
	member := args[3].(string)

	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]int64)
		s.sets[key] = set
	}

	cutoff := now - window*1000
	for m, score := range set {
		if score <= cutoff {
			delete(set, m)
		}
	}

	if int64(len(set)) < limit {
		set[member] = now
		return 1, nil
	}
	return 0, nil
}

func toInt64(v interface{}) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int64:
		return x
	case string:
		n, _ := strconv.ParseInt(x, 10, 64)
		return n
	default:
		return 0
	}
}

func (s *scripterStore) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	n, err := s.run(keys, args)
	return redis.NewCmdResult(n, err)
}

func (s *scripterStore) EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	n, err := s.run(keys, args)
	return redis.NewCmdResult(n, err)
}

func (s *scripterStore) EvalRO(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return s.Eval(ctx, script, keys, args...)
}

func (s *scripterStore) EvalShaRO(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	return s.EvalSha(ctx, sha1, keys, args...)
}

func (s *scripterStore) ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult(make([]bool, len(hashes)), s.err)
}

func (s *scripterStore) ScriptLoad(ctx context.Context, script string) *redis.StringCmd {
	return redis.NewStringResult("sha", s.err)
}

func TestAdmitEnforcesLimit(t *testing.T) {
	store := newScripterStore()
	limiter := ratelimit.NewLimiter(store, time.Second, zerolog.Nop())
	key := ratelimit.Key("rate_limit", "user", "u1", "comment_create")

	for i := 0; i < 5; i++ {
		if !limiter.Admit(context.Background(), key, 5, time.Minute) {
			t.Fatalf("request %d should be admitted", i+1)
		}
	}
	if limiter.Admit(context.Background(), key, 5, time.Minute) {
		t.Error("6th request within the window should be rejected")
	}
}

func TestAdmitKeysAreIndependent(t *testing.T) {
	store := newScripterStore()
	limiter := ratelimit.NewLimiter(store, time.Second, zerolog.Nop())

	k1 := ratelimit.Key("rate_limit", "user", "u1", "comment_create")
	k2 := ratelimit.Key("rate_limit", "user", "u2", "comment_create")

	if !limiter.Admit(context.Background(), k1, 1, time.Minute) {
		t.Fatal("first request on k1 should be admitted")
	}
	if limiter.Admit(context.Background(), k1, 1, time.Minute) {
		t.Error("second request on k1 should be rejected")
	}
	if !limiter.Admit(context.Background(), k2, 1, time.Minute) {
		t.Error("k2 should not share k1's window")
	}
}

func TestAdmitWindowExpiryReadmits(t *testing.T) {
	store := newScripterStore()
	limiter := ratelimit.NewLimiter(store, time.Second, zerolog.Nop())
	key := ratelimit.Key("rate_limit", "user", "u1", "comment_like")

	if !limiter.Admit(context.Background(), key, 1, time.Second) {
		t.Fatal("first request should be admitted")
	}
	if limiter.Admit(context.Background(), key, 1, time.Second) {
		t.Fatal("second request inside the window should be rejected")
	}

	time.Sleep(1100 * time.Millisecond)

	if !limiter.Admit(context.Background(), key, 1, time.Second) {
		t.Error("request after the window elapsed should be admitted")
	}
}

func TestAdmitFailsOpenOnStoreError(t *testing.T) {
	store := newScripterStore()
	store.err = errors.New("connection refused")
	limiter := ratelimit.NewLimiter(store, time.Second, zerolog.Nop())

	if !limiter.Admit(context.Background(), "rate_limit:user:u1:comment_create", 1, time.Minute) {
		t.Error("limiter must admit when the store is unreachable")
	}
	if !limiter.Admit(context.Background(), "rate_limit:user:u1:comment_create", 1, time.Minute) {
		t.Error("limiter must keep admitting while the store is down")
	}
}

func TestAdmitConcurrentRequestsCountIndividually(t *testing.T) {
	store := newScripterStore()
	limiter := ratelimit.NewLimiter(store, time.Second, zerolog.Nop())
	key := ratelimit.Key("rate_limit", "user", "burst", "comment_create")

	const limit = 10
	var wg sync.WaitGroup
	admitted := make(chan bool, limit*2)
	for i := 0; i < limit*2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted <- limiter.Admit(context.Background(), key, limit, time.Minute)
		}()
	}
	wg.Wait()
	close(admitted)

	count := 0
	for ok := range admitted {
		if ok {
			count++
		}
	}
	// Every admitted request is recorded under a unique member, so exactly
	// limit slots are granted even for same-millisecond bursts.
	if count != limit {
		t.Errorf("admitted %d requests, want exactly %d", count, limit)
	}
}

func TestKeyJoinsParts(t *testing.T) {
	got := ratelimit.Key("rate_limit", "user", "u1", "comment_create")
	want := "rate_limit:user:u1:comment_create"
	if got != want {
		t.Errorf("Key = %q, want %q", got, want)
	}
}
