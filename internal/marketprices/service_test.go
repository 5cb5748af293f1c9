package marketprices

import (
	"context"
	"sync"
	"testing"
	"time"

	"farmlink-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubFeed struct {
	mu      sync.Mutex
	records []FeedRecord
	err     error
	calls   int
}

func (s *stubFeed) FetchLatest(ctx context.Context) ([]FeedRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubFeed) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func setupPriceTest(t *testing.T) (*Service, *stubFeed, *miniredis.Miniredis) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.MarketPrice{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	feed := &stubFeed{}
	svc := &Service{
		DB:    db,
		Feed:  feed,
		Cache: &RedisCache{Rdb: rdb, TTL: 5 * time.Minute},
	}
	return svc, feed, mr
}

func seedPrice(t *testing.T, db *gorm.DB, commodity, market string, price float64, date time.Time) domain.MarketPrice {
	p := domain.MarketPrice{
		Commodity: commodity,
		Price:     price,
		Unit:      "USD/ton",
		Market:    market,
		Region:    "Central",
		Date:      date,
		Source:    "user",
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestGetMarketPrices_FiltersAreIndependentlyANDed(t *testing.T) {
	svc, _, _ := setupPriceTest(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	seedPrice(t, svc.DB, "Maize", "Kampala", 250, day)
	seedPrice(t, svc.DB, "Maize", "Nairobi", 260, day.AddDate(0, 0, 1))
	seedPrice(t, svc.DB, "Wheat", "Kampala", 300, day.AddDate(0, 0, 2))

	// Partial, case-insensitive commodity match.
	prices, total, err := svc.GetMarketPrices(ctx, PriceFilter{Commodity: "mai"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, prices, 2)

	// Commodity AND market narrow together.
	prices, total, err = svc.GetMarketPrices(ctx, PriceFilter{Commodity: "maize", Market: "nairobi"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, prices, 1)
	assert.Equal(t, "Nairobi", prices[0].Market)

	// Date range is inclusive on both ends.
	start := day.AddDate(0, 0, 1)
	end := day.AddDate(0, 0, 2)
	_, total, err = svc.GetMarketPrices(ctx, PriceFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestGetMarketPrices_PaginationWindow(t *testing.T) {
	svc, _, _ := setupPriceTest(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedPrice(t, svc.DB, "Maize", "Market-"+string(rune('A'+i)), 200+float64(i), day.AddDate(0, 0, i))
	}

	prices, total, err := svc.GetMarketPrices(ctx, PriceFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, prices, 2)
	// Ordered newest first, so page 2 holds the 3rd and 4th newest.
	assert.Equal(t, "Market-C", prices[0].Market)
	assert.Equal(t, "Market-B", prices[1].Market)
}

func TestGetLatestMarketPrices_OnePerCommodity(t *testing.T) {
	svc, _, _ := setupPriceTest(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	seedPrice(t, svc.DB, "Maize", "Kampala", 250, day)
	seedPrice(t, svc.DB, "Maize", "Nairobi", 270, day.AddDate(0, 0, 3))
	seedPrice(t, svc.DB, "Wheat", "Kampala", 300, day.AddDate(0, 0, 1))

	latest, err := svc.GetLatestMarketPrices(ctx, nil, 20)
	require.NoError(t, err)
	require.Len(t, latest, 2)

	byCommodity := map[string]domain.MarketPrice{}
	for _, p := range latest {
		byCommodity[p.Commodity] = p
	}
	assert.Equal(t, 270.0, byCommodity["Maize"].Price)
	assert.Equal(t, "Nairobi", byCommodity["Maize"].Market)
	assert.Equal(t, 300.0, byCommodity["Wheat"].Price)
}

func TestGetLatestMarketPrices_TruncatesAfterDedup(t *testing.T) {
	svc, _, _ := setupPriceTest(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	seedPrice(t, svc.DB, "Maize", "Kampala", 250, day.AddDate(0, 0, 2))
	seedPrice(t, svc.DB, "Wheat", "Kampala", 300, day.AddDate(0, 0, 1))
	seedPrice(t, svc.DB, "Beans", "Kampala", 150, day)

	latest, err := svc.GetLatestMarketPrices(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	// The cap trims the tail of the newest-first dedup result, so the
	// oldest commodity falls off entirely.
	assert.Equal(t, "Maize", latest[0].Commodity)
	assert.Equal(t, "Wheat", latest[1].Commodity)
}

func TestGetLatestMarketPrices_CommodityAllowList(t *testing.T) {
	svc, _, _ := setupPriceTest(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	seedPrice(t, svc.DB, "Maize", "Kampala", 250, day)
	seedPrice(t, svc.DB, "Wheat", "Kampala", 300, day)
	seedPrice(t, svc.DB, "Beans", "Kampala", 150, day)

	latest, err := svc.GetLatestMarketPrices(ctx, []string{"Maize", "Beans"}, 20)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	for _, p := range latest {
		assert.Contains(t, []string{"Maize", "Beans"}, p.Commodity)
	}
}

func TestAddMarketPrice_DuplicateKeyRejected(t *testing.T) {
	svc, _, _ := setupPriceTest(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	in := CreatePriceInput{Commodity: "Maize", Price: 250, Market: "Kampala", Region: "Central", Date: day}
	_, err := svc.AddMarketPrice(ctx, in)
	require.NoError(t, err)

	in.Price = 999
	_, err = svc.AddMarketPrice(ctx, in)
	assert.ErrorIs(t, err, ErrDuplicatePrice)

	// Same commodity and market on a different date is fine.
	in.Date = day.AddDate(0, 0, 1)
	_, err = svc.AddMarketPrice(ctx, in)
	assert.NoError(t, err)
}

func TestAddMarketPrice_Defaults(t *testing.T) {
	svc, _, _ := setupPriceTest(t)
	p, err := svc.AddMarketPrice(context.Background(), CreatePriceInput{
		Commodity: "  Maize ", Price: 250, Market: "Kampala", Region: "Central",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maize", p.Commodity)
	assert.Equal(t, "USD/ton", p.Unit)
	assert.Equal(t, "user", p.Source)
	assert.False(t, p.Date.IsZero())
}

func TestDeleteMarketPrice_NotFound(t *testing.T) {
	svc, _, _ := setupPriceTest(t)
	err := svc.DeleteMarketPrice(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchLatestFromFeed_CachesWithinTTL(t *testing.T) {
	svc, feed, mr := setupPriceTest(t)
	ctx := context.Background()
	feed.records = []FeedRecord{
		{Commodity: "Maize", Market: "Kampala", Region: "Central", Price: 250, Date: "2026-03-01"},
		{Commodity: "Wheat", Market: "Kampala", Region: "Central", Price: 300, Date: "2026-03-01"},
	}

	prices, err := svc.FetchLatestFromFeed(ctx)
	require.NoError(t, err)
	assert.Len(t, prices, 2)
	assert.Equal(t, 1, feed.callCount())

	// Second read inside the TTL is served from cache.
	prices, err = svc.FetchLatestFromFeed(ctx)
	require.NoError(t, err)
	assert.Len(t, prices, 2)
	assert.Equal(t, 1, feed.callCount())

	// Past the TTL the upstream is consulted again.
	mr.FastForward(6 * time.Minute)
	_, err = svc.FetchLatestFromFeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, feed.callCount())
}

func TestFetchLatestFromFeed_UpsertIsLastWriteWins(t *testing.T) {
	svc, feed, mr := setupPriceTest(t)
	ctx := context.Background()

	feed.records = []FeedRecord{{Commodity: "Maize", Market: "Kampala", Region: "Central", Price: 250, Date: "2026-03-01"}}
	_, err := svc.FetchLatestFromFeed(ctx)
	require.NoError(t, err)

	mr.FlushAll()
	feed.records = []FeedRecord{{Commodity: "Maize", Market: "Kampala", Region: "Central", Price: 275, Date: "2026-03-01"}}
	_, err = svc.FetchLatestFromFeed(ctx)
	require.NoError(t, err)

	var rows []domain.MarketPrice
	require.NoError(t, svc.DB.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 275.0, rows[0].Price)
}

func TestFetchLatestFromFeed_FeedDownSurfacesSentinel(t *testing.T) {
	svc, feed, _ := setupPriceTest(t)
	feed.err = assert.AnError

	_, err := svc.FetchLatestFromFeed(context.Background())
	assert.ErrorIs(t, err, ErrFeedUnavailable)
}

func TestFetchLatestFromFeed_FeedFailureKeepsLastGoodCache(t *testing.T) {
	svc, feed, _ := setupPriceTest(t)
	ctx := context.Background()

	feed.records = []FeedRecord{{Commodity: "Maize", Market: "Kampala", Region: "Central", Price: 250, Date: "2026-03-01"}}
	_, err := svc.FetchLatestFromFeed(ctx)
	require.NoError(t, err)

	// Upstream goes down; the cached value keeps serving inside the TTL.
	feed.err = assert.AnError
	prices, err := svc.FetchLatestFromFeed(ctx)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, 250.0, prices[0].Price)
}

func TestNormalize_DropsIncompleteAndDefaults(t *testing.T) {
	out := Normalize([]FeedRecord{
		{Commodity: " Maize ", Market: " Kampala ", Price: 250, Date: "2026-03-01"},
		{Commodity: "", Market: "Kampala", Price: 100},
		{Commodity: "Wheat", Market: "", Price: 100},
		{Commodity: "Beans", Market: "Arusha", Price: 150, Unit: "KES/kg", Date: "not-a-date"},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "Maize", out[0].Commodity)
	assert.Equal(t, "Kampala", out[0].Market)
	assert.Equal(t, "USD/ton", out[0].Unit)
	assert.Equal(t, feedSource, out[0].Source)
	assert.Equal(t, "KES/kg", out[1].Unit)
	assert.False(t, out[1].Date.IsZero())
}
