package amadeus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flight-monitor-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const offersResponseBody = `{
  "data": [
    {
      "price": {"total": "4500.00", "currency": "INR"},
      "itineraries": [
        {
          "duration": "PT1H25M",
          "segments": [
            {
              "carrierCode": "6E",
              "cabin": "ECONOMY",
              "departure": {"iataCode": "HYD", "at": "2026-02-01T06:30:00"},
              "arrival": {"iataCode": "VNS", "at": "2026-02-01T07:55:00"}
            }
          ]
        }
      ]
    },
    {
      "price": {"total": "not-a-number", "currency": "INR"},
      "itineraries": []
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key", "test-secret", "test")
	client.baseURL = server.URL
	return client, server
}

func searchCriteria() domain.SearchCriteria {
	return domain.SearchCriteria{
		FromCode:   "HYD",
		ToCode:     "VNS",
		Passengers: 5,
		Currency:   "INR",
	}
}

func TestClient_SearchOffers(t *testing.T) {
	var tokenCalls, searchCalls int

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			tokenCalls++
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
			assert.Equal(t, "test-key", r.FormValue("client_id"))
			assert.Equal(t, "test-secret", r.FormValue("client_secret"))
			w.Write([]byte(`{"access_token":"tok-1","expires_in":1799,"token_type":"Bearer"}`))
		case "/v2/shopping/flight-offers":
			searchCalls++
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			q := r.URL.Query()
			assert.Equal(t, "HYD", q.Get("originLocationCode"))
			assert.Equal(t, "VNS", q.Get("destinationLocationCode"))
			assert.Equal(t, "2026-02-01", q.Get("departureDate"))
			assert.Equal(t, "5", q.Get("adults"))
			assert.Equal(t, "INR", q.Get("currencyCode"))
			assert.Equal(t, "50", q.Get("max"))
			w.Write([]byte(offersResponseBody))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	offers, err := client.SearchOffers(context.Background(), searchCriteria(), date, 50)

	require.NoError(t, err)
	assert.Equal(t, 1, tokenCalls)
	assert.Equal(t, 1, searchCalls)

	// Предложение с нечитаемой ценой пропущено, остальное смаплено.
	require.Len(t, offers, 1)
	assert.Equal(t, 4500.0, offers[0].TotalPrice)
	require.Len(t, offers[0].Itineraries, 1)
	assert.Equal(t, "PT1H25M", offers[0].Itineraries[0].Duration)
	require.Len(t, offers[0].Itineraries[0].Segments, 1)
	seg := offers[0].Itineraries[0].Segments[0]
	assert.Equal(t, "6E", seg.CarrierCode)
	assert.Equal(t, "ECONOMY", seg.Cabin)
	assert.Equal(t, "2026-02-01T06:30:00", seg.DepartureAt)
}

func TestClient_SearchOffers_TokenIsCached(t *testing.T) {
	var tokenCalls int

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			tokenCalls++
			w.Write([]byte(`{"access_token":"tok-1","expires_in":1799,"token_type":"Bearer"}`))
		case "/v2/shopping/flight-offers":
			w.Write([]byte(`{"data":[]}`))
		}
	})

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := client.SearchOffers(context.Background(), searchCriteria(), date, 50)
	require.NoError(t, err)
	_, err = client.SearchOffers(context.Background(), searchCriteria(), date.AddDate(0, 0, 1), 50)
	require.NoError(t, err)

	assert.Equal(t, 1, tokenCalls)
}

func TestClient_SearchOffers_ExpiredTokenIsRefreshed(t *testing.T) {
	var tokenCalls int

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			tokenCalls++
			// expires_in меньше минутного запаса, токен сразу считается протухшим.
			w.Write([]byte(`{"access_token":"tok-1","expires_in":30,"token_type":"Bearer"}`))
		case "/v2/shopping/flight-offers":
			w.Write([]byte(`{"data":[]}`))
		}
	})

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := client.SearchOffers(context.Background(), searchCriteria(), date, 50)
	require.NoError(t, err)
	_, err = client.SearchOffers(context.Background(), searchCriteria(), date, 50)
	require.NoError(t, err)

	assert.Equal(t, 2, tokenCalls)
}

func TestClient_SearchOffers_NonSuccessStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			w.Write([]byte(`{"access_token":"tok-1","expires_in":1799,"token_type":"Bearer"}`))
		case "/v2/shopping/flight-offers":
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"errors":[{"title":"Rate limit exceeded"}]}`))
		}
	})

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := client.SearchOffers(context.Background(), searchCriteria(), date, 50)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_SearchOffers_TokenFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	})

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := client.SearchOffers(context.Background(), searchCriteria(), date, 50)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
