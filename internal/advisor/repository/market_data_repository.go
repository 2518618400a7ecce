package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go-options-advisor/internal/advisor/config"
	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/advisor/rules"
	"go-options-advisor/pkg/logger"

	"golang.org/x/time/rate"
)

// marketDataRepository talks to the external quote provider over HTTP.
type marketDataRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewMarketDataRepository creates a rate-limited market data client.
func NewMarketDataRepository(cfg *config.Config, log *logger.Logger) (MarketDataRepository, error) {
	if cfg.MarketData.BaseURL == "" {
		return nil, fmt.Errorf("market data base_url is required")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.MarketData.MaxRequestPerMinute)
	return &marketDataRepository{
		client: &http.Client{
			Timeout: cfg.MarketData.Timeout,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}, nil
}

// optionQuoteResponse is the provider's option quote payload.
type optionQuoteResponse struct {
	Price             float64 `json:"price"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	UnderlyingPrice   float64 `json:"underlying_price"`
	ImpliedVolatility float64 `json:"implied_volatility"`
	Delta             float64 `json:"delta"`
}

// conditionsResponse is the provider's market conditions payload.
type conditionsResponse struct {
	Vix   float64 `json:"vix"`
	Trend string  `json:"trend"`
}

// quoteResponse is the provider's underlying quote payload.
type quoteResponse struct {
	Price float64 `json:"price"`
}

// GetOptionMetrics fetches a contract quote and attaches the derived
// intrinsic and time values. Unknown contracts return (nil, nil).
func (r *marketDataRepository) GetOptionMetrics(ctx context.Context, symbol string, expiration time.Time, strike float64, optionType string) (*dto.MarketMetrics, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("expiration", expiration.Format("2006-01-02"))
	params.Set("strike", strconv.FormatFloat(strike, 'f', -1, 64))
	params.Set("type", optionType)

	var quote optionQuoteResponse
	found, err := r.get(ctx, "/v1/options/quote", params, &quote)
	if err != nil {
		return nil, err
	}
	if !found || quote.Price <= 0 {
		return nil, nil
	}

	intrinsic := rules.IntrinsicValue(optionType, strike, quote.UnderlyingPrice)
	return &dto.MarketMetrics{
		Price:             quote.Price,
		Bid:               quote.Bid,
		Ask:               quote.Ask,
		UnderlyingPrice:   quote.UnderlyingPrice,
		ImpliedVolatility: quote.ImpliedVolatility,
		Delta:             quote.Delta,
		IntrinsicValue:    intrinsic,
		TimeValue:         rules.TimeValue(quote.Price, intrinsic),
	}, nil
}

// GetMarketConditions fetches VIX and trend context for an underlying. An
// unknown or empty symbol yields defaults, never an error the caller has to
// special-case.
func (r *marketDataRepository) GetMarketConditions(ctx context.Context, symbol string) (dto.MarketConditions, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", symbol)
	}

	var resp conditionsResponse
	found, err := r.get(ctx, "/v1/markets/conditions", params, &resp)
	if err != nil {
		return dto.DefaultMarketConditions(), err
	}
	if !found {
		return dto.DefaultMarketConditions(), nil
	}

	trend := resp.Trend
	switch trend {
	case dto.TrendUp, dto.TrendDown, dto.TrendNeutral:
	default:
		trend = dto.TrendNeutral
	}

	return dto.MarketConditions{
		Vix:      resp.Vix,
		VixLevel: dto.ClassifyVix(resp.Vix),
		Trend:    trend,
	}, nil
}

// GetUnderlyingPrice fetches the current price of an underlying. Unknown
// symbols return 0 without an error.
func (r *marketDataRepository) GetUnderlyingPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp quoteResponse
	found, err := r.get(ctx, "/v1/quote", params, &resp)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return resp.Price, nil
}

// get performs a rate-limited GET and decodes the JSON body. A 404 reports
// found=false rather than an error.
func (r *marketDataRepository) get(ctx context.Context, path string, params url.Values, out interface{}) (bool, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	apiURL := fmt.Sprintf("%s%s?%s", r.cfg.MarketData.BaseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	if r.cfg.MarketData.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.MarketData.APIKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to call market data provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Received non-OK response from market data provider",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("path", path))
		return false, fmt.Errorf("received non-OK response from market data provider: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode response body: %w", err)
	}
	return true, nil
}
