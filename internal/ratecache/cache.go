package ratecache

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/riskval/pkg/redis"
)

// =============================================================================
// Risk-Free Rate Cache
// =============================================================================
// 무위험 이자율은 호출자가 소유하는 명시적 캐시로 관리한다.
// 패키지 싱글톤 금지 — 인스턴스를 만들어 쓰는 쪽이 수명을 책임진다.
// 시계는 주입식이라 TTL 만료를 실제 시간 없이 테스트할 수 있다.

// Source 외부 이자율 출처 (저장소, 고정값 등)
type Source func(ctx context.Context) (float64, error)

// Cache TTL 기반 무위험 이자율 캐시
type Cache struct {
	mu     sync.Mutex
	source Source
	ttl    time.Duration
	now    func() time.Time

	value     float64
	fetchedAt time.Time
	valid     bool

	// 선택적 2차 티어: 프로세스 재시작을 넘어 공유
	tier *redis.Cache
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock injects a clock. 테스트 전용 아님 — 시뮬레이션에도 쓴다.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithRedisTier adds a shared redis-backed tier behind the in-process cache.
func WithRedisTier(tier *redis.Cache) Option {
	return func(c *Cache) { c.tier = tier }
}

// New creates a rate cache over the given source.
func New(source Source, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const tierKey = "risk_free_rate"

// Rate returns the cached rate, refreshing from the tier or source on expiry.
// 갱신 실패 시 만료된 값이 있으면 그 값을 에러 없이 유지하지 않는다 —
// 에러를 그대로 반환해 호출자가 정책을 정하게 한다.
func (c *Cache) Rate(ctx context.Context) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.value, nil
	}

	// 2차 티어 먼저 (있으면)
	if c.tier != nil {
		var cached float64
		found, err := c.tier.Get(ctx, tierKey, &cached)
		if err == nil && found {
			c.store(cached)
			return cached, nil
		}
	}

	value, err := c.source(ctx)
	if err != nil {
		return 0, err
	}
	c.store(value)

	if c.tier != nil {
		// 티어 기록 실패는 치명적이지 않다
		_ = c.tier.Set(ctx, tierKey, value, c.ttl)
	}

	return value, nil
}

// Invalidate drops the cached value so the next Rate call refreshes.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}

func (c *Cache) store(value float64) {
	c.value = value
	c.fetchedAt = c.now()
	c.valid = true
}

// Fixed returns a source that always yields the given rate.
// 설정값 하나로 운영하는 배치에 쓰인다.
func Fixed(rate float64) Source {
	return func(context.Context) (float64, error) {
		return rate, nil
	}
}
