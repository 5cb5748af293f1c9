package marketprices

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"farmlink-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound        = errors.New("Market price not found")
	ErrDuplicatePrice  = errors.New("Duplicate entry for this commodity, market, and date")
	ErrFeedUnavailable = errors.New("Market data service unavailable")
)

type Service struct {
	DB    *gorm.DB
	Feed  FeedClient
	Cache Cache

	// fetchMu keeps at most one upstream call in flight when the scheduled
	// refresh and a cache-miss read overlap.
	fetchMu sync.Mutex
}

// PriceFilter holds the optional, independently-ANDed query filters.
type PriceFilter struct {
	Commodity string
	Market    string
	Region    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// GetMarketPrices returns one page ordered by date descending, plus the
// total count so the handler can build pager metadata in one round trip.
func (s *Service) GetMarketPrices(ctx context.Context, f PriceFilter) ([]domain.MarketPrice, int64, error) {
	q := s.DB.WithContext(ctx).Model(&domain.MarketPrice{})
	if f.Commodity != "" {
		q = q.Where("LOWER(commodity) LIKE ?", "%"+strings.ToLower(f.Commodity)+"%")
	}
	if f.Market != "" {
		q = q.Where("LOWER(market) LIKE ?", "%"+strings.ToLower(f.Market)+"%")
	}
	if f.Region != "" {
		q = q.Where("LOWER(region) LIKE ?", "%"+strings.ToLower(f.Region)+"%")
	}
	if f.StartDate != nil {
		q = q.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", *f.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 100
	}
	var prices []domain.MarketPrice
	if err := q.Order("date DESC, price_id").
		Limit(limit).Offset((page - 1) * limit).
		Find(&prices).Error; err != nil {
		return nil, 0, err
	}
	return prices, total, nil
}

// GetLatestMarketPrices returns the most recent observation per commodity:
// sort date descending, keep the first row seen per commodity (equal dates
// tie-break on that same order), then truncate AFTER deduplication. The
// cap can drop whole commodities, which is the documented behavior.
func (s *Service) GetLatestMarketPrices(ctx context.Context, commodities []string, limit int) ([]domain.MarketPrice, error) {
	if limit < 1 {
		limit = 20
	}
	q := s.DB.WithContext(ctx).Model(&domain.MarketPrice{})
	if len(commodities) > 0 {
		q = q.Where("commodity IN ?", commodities)
	}
	var rows []domain.MarketPrice
	if err := q.Order("date DESC, price_id").Find(&rows).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(rows))
	latest := make([]domain.MarketPrice, 0, len(rows))
	for _, row := range rows {
		if seen[row.Commodity] {
			continue
		}
		seen[row.Commodity] = true
		latest = append(latest, row)
	}
	if len(latest) > limit {
		latest = latest[:limit]
	}
	return latest, nil
}

// CreatePriceInput is a validated observation to store.
type CreatePriceInput struct {
	Commodity string
	Price     float64
	Unit      string
	Market    string
	Region    string
	Date      time.Time
	Source    string
}

// AddMarketPrice inserts one observation. The composite unique index on
// (commodity, market, date) turns a duplicate into ErrDuplicatePrice.
func (s *Service) AddMarketPrice(ctx context.Context, in CreatePriceInput) (*domain.MarketPrice, error) {
	price := &domain.MarketPrice{
		Commodity: strings.TrimSpace(in.Commodity),
		Price:     in.Price,
		Unit:      in.Unit,
		Market:    strings.TrimSpace(in.Market),
		Region:    strings.TrimSpace(in.Region),
		Date:      in.Date,
		Source:    in.Source,
	}
	if price.Unit == "" {
		price.Unit = defaultUnit
	}
	if price.Source == "" {
		price.Source = "user"
	}
	if price.Date.IsZero() {
		price.Date = time.Now().UTC()
	}
	if err := s.DB.WithContext(ctx).Create(price).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicatePrice
		}
		return nil, err
	}
	return price, nil
}

// UpdateMarketPrice replaces the stored fields of an observation by id.
func (s *Service) UpdateMarketPrice(ctx context.Context, id uuid.UUID, in CreatePriceInput) (*domain.MarketPrice, error) {
	var price domain.MarketPrice
	if err := s.DB.WithContext(ctx).Where("price_id = ?", id).First(&price).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	price.Commodity = strings.TrimSpace(in.Commodity)
	price.Price = in.Price
	price.Market = strings.TrimSpace(in.Market)
	price.Region = strings.TrimSpace(in.Region)
	if in.Unit != "" {
		price.Unit = in.Unit
	}
	if in.Source != "" {
		price.Source = in.Source
	}
	if !in.Date.IsZero() {
		price.Date = in.Date
	}
	if err := s.DB.WithContext(ctx).Save(&price).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicatePrice
		}
		return nil, err
	}
	return &price, nil
}

// DeleteMarketPrice removes an observation by id.
func (s *Service) DeleteMarketPrice(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("price_id = ?", id).Delete(&domain.MarketPrice{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FetchLatestFromFeed serves the named cache entry, fetching, persisting
// and re-caching on a miss. The cache is not updated when the upstream
// call or the batch write fails, so the last good value keeps serving
// inside its TTL.
func (s *Service) FetchLatestFromFeed(ctx context.Context) ([]domain.MarketPrice, error) {
	if cached, ok, err := s.Cache.Get(ctx); err == nil && ok {
		log.Debug().Msg("Returning cached market prices")
		return cached, nil
	}

	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()
	// A concurrent caller may have refreshed while we waited.
	if cached, ok, err := s.Cache.Get(ctx); err == nil && ok {
		return cached, nil
	}

	log.Info().Msg("Fetching latest market prices from feed")
	records, err := s.Feed.FetchLatest(ctx)
	if err != nil {
		endpoint := ""
		if hc, ok := s.Feed.(*HTTPFeedClient); ok {
			endpoint = hc.Endpoint()
		}
		log.Error().Str("endpoint", endpoint).Err(err).Msg("Failed to fetch latest prices")
		return nil, ErrFeedUnavailable
	}

	prices := Normalize(records)
	if err := s.upsertBatch(ctx, prices); err != nil {
		log.Error().Err(err).Msg("Database update failed")
		return nil, err
	}
	if err := s.Cache.Set(ctx, prices); err != nil {
		log.Warn().Err(err).Msg("Failed to update price cache")
	}
	return prices, nil
}

// upsertBatch writes every normalized record keyed by (commodity, market,
// date) in one transaction: either the whole batch commits or none of it.
func (s *Service) upsertBatch(ctx context.Context, prices []domain.MarketPrice) error {
	if len(prices) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range prices {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "commodity"}, {Name: "market"}, {Name: "date"},
				},
				DoUpdates: clause.AssignmentColumns([]string{"price", "unit", "region", "source"}),
			}).Create(&prices[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
