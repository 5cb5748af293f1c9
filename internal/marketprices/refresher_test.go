package marketprices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresher_TicksAndStops(t *testing.T) {
	svc, feed, mr := setupPriceTest(t)
	feed.records = []FeedRecord{{Commodity: "Maize", Market: "Kampala", Region: "Central", Price: 250, Date: "2026-03-01"}}

	r := &Refresher{Service: svc, Interval: 20 * time.Millisecond}
	r.Start(context.Background())

	require.Eventually(t, func() bool {
		mr.FlushAll() // keep every tick a cache miss
		return feed.callCount() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	r.Stop()
	after := feed.callCount()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, after, feed.callCount())
}

func TestRefresher_StopWithoutStart(t *testing.T) {
	r := &Refresher{}
	assert.NotPanics(t, func() { r.Stop() })
}
