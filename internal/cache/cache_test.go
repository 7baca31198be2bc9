package cache

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"jobparser/internal/errors"
	"jobparser/internal/types"
)

type fakeRedis struct {
	data map[string]string
	ttl  map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	switch value, ok := f.data[key]; {
	case f.err != nil:
		cmd.SetErr(f.err)
	case !ok:
		cmd.SetErr(redis.Nil)
	default:
		cmd.SetVal(value)
	}
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttl[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func TestKey(t *testing.T) {
	a := Key("builtin", "Senior Go Engineer")
	b := Key("builtin", "Senior Go Engineer")
	c := Key("builtin+abc123", "Senior Go Engineer")

	if a != b {
		t.Error("same text and version should give the same key")
	}
	if a == c {
		t.Error("a different library version should give a different key")
	}
	if !strings.HasPrefix(a, "jobparser:record:builtin:") || len(a) != len("jobparser:record:builtin:")+64 {
		t.Errorf("unexpected key shape %q", a)
	}
}

func TestRedisCacheRoundTrip(t *testing.T) {
	client := newFakeRedis()
	c := newRedisCache(client, time.Hour)
	ctx := context.Background()
	key := Key("builtin", "text")

	if _, ok, err := c.Get(ctx, key); ok || err != nil {
		t.Fatalf("expected a miss, got ok=%t err=%v", ok, err)
	}

	rec := types.Record{JobTitle: "Data Engineer", Skills: []string{"Python", "SQL"}}
	if err := c.Set(ctx, key, rec); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if client.ttl[key] != time.Hour {
		t.Errorf("expected TTL of one hour, got %v", client.ttl[key])
	}

	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%t err=%v", ok, err)
	}
	if got.JobTitle != "Data Engineer" || len(got.Skills) != 2 {
		t.Errorf("unexpected record %+v", got)
	}
}

func TestRedisCacheErrors(t *testing.T) {
	client := newFakeRedis()
	c := newRedisCache(client, time.Minute)
	ctx := context.Background()

	client.data["corrupt"] = "{not json"
	if _, ok, err := c.Get(ctx, "corrupt"); ok || err != nil {
		t.Errorf("corrupt entry should be a plain miss, got ok=%t err=%v", ok, err)
	}

	client.err = fmt.Errorf("connection refused")
	if _, _, err := c.Get(ctx, "k"); errors.TypeOf(err) != errors.ErrorTypeStorage {
		t.Errorf("Get: expected storage error, got %v", err)
	}
	if err := c.Set(ctx, "k", types.Record{}); errors.TypeOf(err) != errors.ErrorTypeStorage {
		t.Errorf("Set: expected storage error, got %v", err)
	}
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	if err := c.Set(context.Background(), "k", types.Record{JobTitle: "x"}); err != nil {
		t.Errorf("Set returned error: %v", err)
	}
	if _, ok, err := c.Get(context.Background(), "k"); ok || err != nil {
		t.Errorf("Nop should always miss, got ok=%t err=%v", ok, err)
	}
}
