package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"flight-monitor-service/internal/constants"
	"flight-monitor-service/internal/contextkeys"
	"flight-monitor-service/internal/core/domain"
	"flight-monitor-service/internal/core/port"
)

// Client отвечает за все взаимодействия с Amadeus Self-Service API:
// получение OAuth-токена и поиск предложений.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient - конструктор. env: "test" или "production".
func NewClient(apiKey, apiSecret, env string) *Client {
	baseURL := constants.AmadeusTestHost
	if env == "production" {
		baseURL = constants.AmadeusProductionHost
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SearchOffers выполняет один вызов Flight Offers Search на конкретную дату.
func (c *Client) SearchOffers(ctx context.Context, criteria domain.SearchCriteria, date time.Time, cap int) ([]domain.RawOffer, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "AmadeusClient",
		"method":    "SearchOffers",
		"date":      date.Format("2006-01-02"),
	})

	token, err := c.ensureToken(ctx)
	if err != nil {
		clientLogger.Error("Failed to obtain access token", err, nil)
		return nil, err
	}

	q := url.Values{}
	q.Set("originLocationCode", criteria.FromCode)
	q.Set("destinationLocationCode", criteria.ToCode)
	q.Set("departureDate", date.Format("2006-01-02"))
	q.Set("adults", strconv.Itoa(criteria.Passengers))
	q.Set("currencyCode", criteria.Currency)
	q.Set("max", strconv.Itoa(cap))

	searchURL := fmt.Sprintf("%s/v2/shopping/flight-offers?%s", c.baseURL, q.Encode())
	clientLogger.Debug("Sending request to Amadeus", port.Fields{"url": searchURL})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("amadeus adapter: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		clientLogger.Error("Failed to perform request to Amadeus", err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("amadeus returned non-success status code %d: %s", resp.StatusCode, string(bodyBytes))
		clientLogger.Error("Received error response from Amadeus", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	var offers flightOffersResponse
	if err := json.NewDecoder(resp.Body).Decode(&offers); err != nil {
		clientLogger.Error("Failed to decode response from Amadeus", err, nil)
		return nil, err
	}

	mapped := mapOffers(offers.Data, clientLogger)
	clientLogger.Info("Successfully received and decoded response", port.Fields{"offers_count": len(mapped)})

	return mapped, nil
}

// ensureToken возвращает действующий OAuth-токен, при необходимости запрашивая
// новый. Токен обновляется за минуту до истечения.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.apiKey)
	form.Set("client_secret", c.apiSecret)

	tokenURL := c.baseURL + "/v1/security/oauth2/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("amadeus adapter: failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("amadeus adapter: token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("amadeus token endpoint returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("amadeus adapter: failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("amadeus adapter: token response contains no access_token")
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	return c.accessToken, nil
}
