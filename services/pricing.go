package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"cofondo-backend/config"
	"cofondo-backend/database"
)

// ErrNoPriceSource means every rate source in the chain came up empty.
var ErrNoPriceSource = errors.New("no price source available")

var priceClient = &http.Client{Timeout: 5 * time.Second}

// EthFiatRate resolves how much 1 ETH is worth in the given fiat currency.
// Source chain: redis cache, the configured price API, CoinGecko, and the
// ETH_FIAT_RATE env fallback. Successful lookups are cached for a minute.
func EthFiatRate(ctx context.Context, fiat string) (float64, error) {
	fiat = strings.ToLower(fiat)
	cacheKey := "price:eth:" + fiat

	if database.Redis != nil {
		if cached, err := database.Redis.Get(ctx, cacheKey).Float64(); err == nil {
			return cached, nil
		}
	}

	rate := 0.0
	if config.AppConfig.PriceAPIURL != "" {
		rate = fetchBackendRate(ctx, fiat)
	}
	if rate <= 0 {
		rate = fetchCoinGeckoRate(ctx, fiat)
	}
	if rate <= 0 {
		rate = config.AppConfig.EthFiatRate
	}
	if rate <= 0 {
		return 0, ErrNoPriceSource
	}

	if database.Redis != nil {
		database.Redis.Set(ctx, cacheKey, rate, time.Minute)
	}
	return rate, nil
}

func fetchBackendRate(ctx context.Context, fiat string) float64 {
	url := fmt.Sprintf("%s/price/eth?fiat=%s", strings.TrimSuffix(config.AppConfig.PriceAPIURL, "/"), fiat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0
	}

	resp, err := priceClient.Do(req)
	if err != nil {
		log.Printf("⚠️  Price API unreachable: %v", err)
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0
	}

	var body struct {
		Price float64 `json:"price"`
		Rate  float64 `json:"rate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0
	}
	if body.Price > 0 {
		return body.Price
	}
	return body.Rate
}

func fetchCoinGeckoRate(ctx context.Context, fiat string) float64 {
	url := "https://api.coingecko.com/api/v3/simple/price?ids=ethereum&vs_currencies=" + fiat

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0
	}

	resp, err := priceClient.Do(req)
	if err != nil {
		log.Printf("⚠️  CoinGecko unreachable: %v", err)
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0
	}

	var body map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0
	}
	return body["ethereum"][fiat]
}
