package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-lanka-watch/internal/aggregator/config"
)

const ceypetcoSamplePage = `<html><body>
<table>
  <tr><th>Year</th><th>Notice</th></tr>
  <tr><td>2025</td><td>Office holidays</td></tr>
</table>
<table>
  <tr>
    <th>Effective Date</th><th>LP 95</th><th>LP 92</th><th>LAD</th>
    <th>LSD</th><th>LK</th><th>Remarks</th>
  </tr>
  <tr>
    <td>01.06.2025 (Revised)</td><td>Rs 365.00</td><td>310,00</td>
    <td>286..00</td><td>325.00</td><td>183.00</td><td>midnight</td>
  </tr>
  <tr>
    <td>15.05.2025</td><td>372.00</td><td>318.00</td><td>289.00</td>
    <td></td><td></td><td></td>
  </tr>
  <tr>
    <td>pending</td><td>372.00</td><td>318.00</td><td>289.00</td>
    <td>330.00</td><td>190.00</td><td></td>
  </tr>
  <tr>
    <td>01.04.2025</td><td>368.00</td><td>315.00</td><td></td>
    <td></td><td></td><td></td>
  </tr>
</table>
</body></html>`

func newCeypetcoRepo(t *testing.T, pageURL string) FuelSourceRepository {
	t.Helper()
	cfg := &config.Config{}
	cfg.Fuel.CeypetcoURL = pageURL
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	return NewCeypetcoRepository(cfg, clock, newTestLogger(t))
}

func TestScrapePricesParsesTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(ceypetcoSamplePage))
	}))
	defer server.Close()

	repo := newCeypetcoRepo(t, server.URL)
	records, err := repo.ScrapePrices(context.Background())
	require.NoError(t, err)

	// The sparse rows and the dateless row are dropped; the survivors come
	// back newest first.
	require.Len(t, records, 2)
	assert.Equal(t, "01.06.2025", records[0].DateStr)
	assert.Equal(t, "15.05.2025", records[1].DateStr)

	got := records[0]
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got.Date)
	require.NotNil(t, got.Petrol95)
	assert.Equal(t, 365.0, *got.Petrol95)
	require.NotNil(t, got.Petrol92)
	assert.Equal(t, 310.0, *got.Petrol92)
	require.NotNil(t, got.AutoDiesel)
	assert.Equal(t, 286.0, *got.AutoDiesel)
	require.NotNil(t, got.Kerosene)
	assert.Equal(t, 183.0, *got.Kerosene)
	assert.Equal(t, "Sri Lanka", got.Location)
	assert.Equal(t, "ceypetco", got.Source)

	// The second sheet has exactly the minimum three grades.
	assert.Equal(t, 3, records[1].PriceCount())
	assert.Nil(t, records[1].SuperDiesel)
}

func TestScrapePricesWithoutPriceTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><table><tr><th>Year</th></tr></table></body></html>"))
	}))
	defer server.Close()

	repo := newCeypetcoRepo(t, server.URL)
	_, err := repo.ScrapePrices(context.Background())
	assert.Error(t, err)
}

func TestScrapePricesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	repo := newCeypetcoRepo(t, server.URL)
	_, err := repo.ScrapePrices(context.Background())
	assert.Error(t, err)
}

func TestParseCeypetcoDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"01.06.2025", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"1/6/2025", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"1.6.25", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"1.6.75", time.Date(1975, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"2025-6-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"5 January 2025", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"32.13.2025", time.Time{}, false},
		{"pending", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := parseCeypetcoDate(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, got.Equal(tc.want), "got %v want %v", got, tc.want)
			}
		})
	}
}

func TestCleanPriceValue(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"365.00", "365.00"},
		{" 310,50 ", "310.50"},
		{"Rs 365.00", "365.00"},
		{"286..00", "286.00"},
		{"372/=", "372"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cleanPriceValue(tc.in), "input %q", tc.in)
	}
}
