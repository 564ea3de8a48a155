package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-analytics/internal/models"
)

func newRedisReports(t *testing.T) (*Reports, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(NewRedisBackend(client, time.Minute)), mr
}

func TestFetchStoresAndServes(t *testing.T) {
	reports, mr := newRedisReports(t)
	ctx := context.Background()
	key := Key("kpi", "v1", "daily", "2024-05-16")

	var calls int
	compute := func() models.SalesKPI {
		calls++
		return models.SalesKPI{TotalSales: 3000, TotalPartySize: 2, AveragePerCustomer: 1500}
	}

	first := Fetch(ctx, reports, key, compute)
	second := Fetch(ctx, reports, key, compute)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestFetchSlices(t *testing.T) {
	reports, _ := newRedisReports(t)
	ctx := context.Background()
	key := Key("payments", "v1")

	want := []models.PaymentMethodTotal{{Method: models.PayPay, Name: "paypay", TotalAmount: 750}}
	Fetch(ctx, reports, key, func() []models.PaymentMethodTotal { return want })

	got := Fetch(ctx, reports, key, func() []models.PaymentMethodTotal {
		t.Fatal("second fetch should be served from redis")
		return nil
	})
	assert.Equal(t, want, got)
}

func TestFetchRedisDown(t *testing.T) {
	reports, mr := newRedisReports(t)
	mr.Close()

	got := Fetch(context.Background(), reports, Key("kpi", "v1"), func() int { return 42 })
	assert.Equal(t, 42, got)
}

func TestFetchCollapsesConcurrentCalls(t *testing.T) {
	reports := New(nil)
	release := make(chan struct{})
	var calls atomic.Int32

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Fetch(context.Background(), reports, "same", func() int {
				calls.Add(1)
				<-release
				return 7
			})
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	for _, r := range results {
		assert.Equal(t, 7, r)
	}
}

func TestNoopAlwaysComputes(t *testing.T) {
	reports := New(Noop{})
	var calls int
	for i := 0; i < 3; i++ {
		Fetch(context.Background(), reports, "k", func() int { calls++; return calls })
	}
	assert.Equal(t, 3, calls)
}

func TestKey(t *testing.T) {
	a := Key("dashboard", "v1", "daily", "2024-05-16")
	require.True(t, strings.HasPrefix(a, "salesboard:dashboard:v1:"))

	assert.Equal(t, a, Key("dashboard", "v1", "daily", "2024-05-16"))
	assert.NotEqual(t, a, Key("dashboard", "v2", "daily", "2024-05-16"))
	assert.NotEqual(t, a, Key("dashboard", "v1", "daily", "2024-05-17"))
	// Parameter boundaries are part of the key.
	assert.NotEqual(t, Key("x", "v", "ab", "c"), Key("x", "v", "a", "bc"))
}
