// internal/api/v2/analytics.go - dashboard KPI aggregation
package api

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/lavosystem/lavo-go/internal/datastore"
)

// topCustomerLimit and peakHourLimit cap the dashboard rankings.
const (
	topCustomerLimit = 5
	peakHourLimit    = 5
)

// window describes one of the selectable dashboard time ranges.
type window struct {
	duration time.Duration // how far back the window reaches
	interval time.Duration // width of one time-series bucket
	points   int           // number of time-series buckets
	daily    bool          // label buckets by date instead of hour
}

// resolveWindow maps a timeRange parameter to its window. Unknown values
// fall back to the 24 hour window.
func resolveWindow(timeRange string) (string, window) {
	switch timeRange {
	case "7d":
		return "7d", window{duration: 7 * 24 * time.Hour, interval: 6 * time.Hour, points: 28}
	case "30d":
		return "30d", window{duration: 30 * 24 * time.Hour, interval: 24 * time.Hour, points: 30, daily: true}
	default:
		return "24h", window{duration: 24 * time.Hour, interval: time.Hour, points: 24}
	}
}

// KPICard is one headline number on the dashboard. The front end renders
// the caption from the label key.
type KPICard struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// PeakHour is one entry of the busiest-hours ranking.
type PeakHour struct {
	CreatedAt string `json:"createdAt"`
	Count     int    `json:"_count"`
}

// KPIResponse is the full dashboard payload.
type KPIResponse struct {
	KPIs          []KPICard                       `json:"kpis"`
	TopCustomers  []datastore.CustomerAccessCount `json:"topClientes"`
	AvgConfidence float64                         `json:"avgConfianca"`
	PeakHours     []PeakHour                      `json:"horariosPico"`
	ChartLabels   []string                        `json:"chartLabels"`
	ChartSeries   []int                           `json:"chartSeries"`
	TimeLabels    []string                        `json:"timeLabels"`
	TimeSeries    []int                           `json:"timeSeries"`
	Stores        []datastore.StoreOption         `json:"stores"`
}

// GetDashboardKPIs assembles the dashboard payload for the requested store
// and time range. Responses are cached per (store, range) combination.
func (c *Controller) GetDashboardKPIs(ctx echo.Context) error {
	storeParam := ctx.QueryParam("storeId")
	var storeID *uint
	if storeParam != "" {
		id, err := strconv.ParseUint(storeParam, 10, 32)
		if err != nil {
			return c.HandleError(ctx, err, "Invalid storeId parameter", http.StatusBadRequest)
		}
		parsed := uint(id)
		storeID = &parsed
	}

	timeRange, win := resolveWindow(ctx.QueryParam("timeRange"))

	cacheKey := "kpis:all:" + timeRange
	if storeID != nil {
		cacheKey = fmt.Sprintf("kpis:%d:%s", *storeID, timeRange)
	}
	if cached, found := c.kpiCache.Get(cacheKey); found {
		if c.metrics != nil {
			c.metrics.RecordKPICacheHit()
		}
		c.Debug("Dashboard KPIs served from cache", "key", cacheKey)
		return ctx.JSON(http.StatusOK, cached.(*KPIResponse))
	}
	if c.metrics != nil {
		c.metrics.RecordKPICacheMiss()
	}

	now := c.now()
	since := now.Add(-win.duration)

	var (
		storeCount    int64
		customerCount int64
		deviceCount   int64
		accessCount   int64
		avgConfidence float64
		topCustomers  []datastore.CustomerAccessCount
		accessTimes   []time.Time
		storeOptions  []datastore.StoreOption
	)

	// Independent aggregates run concurrently; the first failure wins.
	var g errgroup.Group
	g.Go(func() (err error) {
		storeCount, err = c.DS.CountStores()
		return err
	})
	g.Go(func() (err error) {
		customerCount, err = c.DS.CountCustomers(storeID)
		return err
	})
	g.Go(func() (err error) {
		deviceCount, err = c.DS.CountDevices(storeID)
		return err
	})
	g.Go(func() (err error) {
		accessCount, err = c.DS.CountAccessesSince(storeID, since)
		return err
	})
	g.Go(func() (err error) {
		avgConfidence, err = c.DS.AvgConfidenceSince(storeID, since)
		return err
	})
	g.Go(func() (err error) {
		topCustomers, err = c.DS.TopCustomersSince(storeID, since, topCustomerLimit)
		return err
	})
	g.Go(func() (err error) {
		accessTimes, err = c.DS.AccessTimesSince(storeID, since)
		return err
	})
	g.Go(func() (err error) {
		storeOptions, err = c.DS.StoreOptions()
		return err
	})
	if err := g.Wait(); err != nil {
		return c.HandleError(ctx, err, "Failed to compute dashboard KPIs", statusForError(err))
	}

	ranked := peakHourCounts(accessTimes)
	peaks := formatPeakHours(ranked)
	chartLabels, chartSeries := hourlyChart(ranked)
	timeLabels, timeSeries := timeSeriesBuckets(accessTimes, since, win)

	resp := &KPIResponse{
		KPIs: []KPICard{
			{Label: "Lojas", Value: storeCount, Icon: "Store", Color: "bg-blue-500"},
			{Label: "Clientes", Value: customerCount, Icon: "UserCircle", Color: "bg-green-500"},
			{Label: "Dispositivos", Value: deviceCount, Icon: "Cpu", Color: "bg-purple-500"},
			{Label: "Acessos no Período", Value: accessCount, Icon: "Activity", Color: "bg-orange-500"},
		},
		TopCustomers:  ensureCustomers(topCustomers),
		AvgConfidence: avgConfidence,
		PeakHours:     peaks,
		ChartLabels:   chartLabels,
		ChartSeries:   chartSeries,
		TimeLabels:    timeLabels,
		TimeSeries:    timeSeries,
		Stores:        ensureStores(storeOptions),
	}

	c.kpiCache.Set(cacheKey, resp, cache.DefaultExpiration)
	return ctx.JSON(http.StatusOK, resp)
}

// hourCount pairs an hour of day with its event count.
type hourCount struct {
	hour  int
	count int
}

// peakHourCounts buckets timestamps by hour of day and returns the busiest
// hours, most active first. Ties break on ascending hour.
func peakHourCounts(times []time.Time) []hourCount {
	var counts [24]int
	for _, t := range times {
		counts[t.Hour()]++
	}

	ranked := []hourCount{}
	for hour, count := range counts {
		if count == 0 {
			continue
		}
		ranked = append(ranked, hourCount{hour: hour, count: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})
	if len(ranked) > peakHourLimit {
		ranked = ranked[:peakHourLimit]
	}
	return ranked
}

// formatPeakHours renders the ranking in the response's entry shape.
func formatPeakHours(ranked []hourCount) []PeakHour {
	peaks := make([]PeakHour, 0, len(ranked))
	for _, hc := range ranked {
		peaks = append(peaks, PeakHour{
			CreatedAt: fmt.Sprintf("%d:00", hc.hour),
			Count:     hc.count,
		})
	}
	return peaks
}

// hourlyChart turns the peak-hour ranking into a bar chart ordered by
// ascending hour of day.
func hourlyChart(ranked []hourCount) (labels []string, series []int) {
	bars := make([]hourCount, len(ranked))
	copy(bars, ranked)
	sort.Slice(bars, func(i, j int) bool { return bars[i].hour < bars[j].hour })

	labels = make([]string, 0, len(bars))
	series = make([]int, 0, len(bars))
	for _, b := range bars {
		labels = append(labels, fmt.Sprintf("%d:00h", b.hour))
		series = append(series, b.count)
	}
	return labels, series
}

// timeSeriesBuckets distributes timestamps over the window's fixed bucket
// grid, oldest bucket first. Every event lands in exactly one bucket, so
// the series sums to the window's event count.
func timeSeriesBuckets(times []time.Time, since time.Time, win window) (labels []string, series []int) {
	labels = make([]string, win.points)
	series = make([]int, win.points)

	for i := 0; i < win.points; i++ {
		bucketStart := since.Add(time.Duration(i) * win.interval)
		if win.daily {
			labels[i] = bucketStart.Format("02/01/2006")
		} else {
			labels[i] = fmt.Sprintf("%02d:00", bucketStart.Hour())
		}
	}

	for _, t := range times {
		idx := int(t.Sub(since) / win.interval)
		if idx < 0 {
			idx = 0
		}
		if idx >= win.points {
			idx = win.points - 1
		}
		series[idx]++
	}
	return labels, series
}

// ensureCustomers and ensureStores keep the JSON arrays non-null.
func ensureCustomers(in []datastore.CustomerAccessCount) []datastore.CustomerAccessCount {
	if in == nil {
		return []datastore.CustomerAccessCount{}
	}
	return in
}

func ensureStores(in []datastore.StoreOption) []datastore.StoreOption {
	if in == nil {
		return []datastore.StoreOption{}
	}
	return in
}
