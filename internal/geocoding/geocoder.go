package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"estatequery/server/config"
)

// ErrNoResults is returned when the service knows no place for an address.
var ErrNoResults = errors.New("no results found")

// Coordinates are rounded to the precision of the location columns.
type Coordinates struct {
	Latitude  decimal.Decimal
	Longitude decimal.Decimal
}

type cacheEntry struct {
	coords Coordinates
	found  bool
}

// Geocoder resolves addresses through a Nominatim compatible search API.
// Results, including misses, are cached for the lifetime of the process.
type Geocoder struct {
	logger       *logrus.Logger
	baseURL      string
	countryCodes string
	userAgent    string
	interval     time.Duration

	cache     map[string]cacheEntry
	cacheLock sync.RWMutex

	// serialises requests so the service sees at most one per interval
	requestLock sync.Mutex
	lastRequest time.Time

	client *http.Client
}

func NewGeocoder(cfg config.Geocoding, logger *logrus.Logger) *Geocoder {
	if logger == nil {
		logger = logrus.New()
	}
	return &Geocoder{
		logger:       logger,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		countryCodes: cfg.CountryCodes,
		userAgent:    cfg.UserAgent,
		interval:     cfg.RequestInterval,
		cache:        make(map[string]cacheEntry),
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimResponse []struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *Geocoder) Geocode(ctx context.Context, address string) (Coordinates, error) {
	key := strings.ToLower(strings.TrimSpace(address))
	if key == "" {
		return Coordinates{}, fmt.Errorf("empty address: %w", ErrNoResults)
	}

	g.cacheLock.RLock()
	entry, ok := g.cache[key]
	g.cacheLock.RUnlock()
	if ok {
		g.logger.WithFields(logrus.Fields{
			"address": address,
			"found":   entry.found,
			"source":  "cache",
		}).Debug("Found address in cache")
		if !entry.found {
			return Coordinates{}, fmt.Errorf("%s: %w", address, ErrNoResults)
		}
		return entry.coords, nil
	}

	coords, err := g.search(ctx, address)
	if err != nil && !errors.Is(err, ErrNoResults) {
		return Coordinates{}, err
	}

	g.cacheLock.Lock()
	g.cache[key] = cacheEntry{coords: coords, found: err == nil}
	g.cacheLock.Unlock()

	return coords, err
}

func (g *Geocoder) search(ctx context.Context, address string) (Coordinates, error) {
	if err := g.wait(ctx); err != nil {
		return Coordinates{}, err
	}

	params := url.Values{
		"q":      []string{address},
		"format": []string{"json"},
		"limit":  []string{"1"},
	}
	if g.countryCodes != "" {
		params.Set("countrycodes", g.countryCodes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept-Language", "pl-PL,pl;q=0.9,en;q=0.8")

	g.logger.WithField("address", address).Info("Geocoding address with Nominatim")

	resp, err := g.client.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("geocoding request failed with status %d", resp.StatusCode)
	}

	var result nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Coordinates{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result) == 0 {
		g.logger.WithField("address", address).Warn("No results found")
		return Coordinates{}, fmt.Errorf("%s: %w", address, ErrNoResults)
	}

	lat, err := decimal.NewFromString(result[0].Lat)
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid latitude %q: %w", result[0].Lat, err)
	}
	lon, err := decimal.NewFromString(result[0].Lon)
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid longitude %q: %w", result[0].Lon, err)
	}

	coords := Coordinates{Latitude: lat.Round(6), Longitude: lon.Round(6)}
	g.logger.WithFields(logrus.Fields{
		"address":   address,
		"latitude":  coords.Latitude.String(),
		"longitude": coords.Longitude.String(),
		"source":    "nominatim",
	}).Info("Successfully geocoded address")

	return coords, nil
}

// wait blocks until the request interval since the previous request has passed.
func (g *Geocoder) wait(ctx context.Context) error {
	g.requestLock.Lock()
	defer g.requestLock.Unlock()

	if delay := g.interval - time.Since(g.lastRequest); delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	g.lastRequest = time.Now()
	return nil
}
