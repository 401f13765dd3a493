package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powermilk/cinema-reservation/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	body := []byte(`{"id":1}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte("short"))
	assert.False(t, ok)

	// Truncation leaves the header length pointing past the end.
	payload, err := encodePayload(http.StatusOK, http.Header{}, nil)
	require.NoError(t, err)
	_, _, _, ok = decodePayload(payload[:len(payload)-1])
	assert.False(t, ok)

	corrupted := append([]byte(nil), payload...)
	corrupted[7] = 0xFF
	_, _, _, ok = decodePayload(corrupted)
	assert.False(t, ok)
}

func TestCacheKeyStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	key := func(strategy, target string) string {
		cfg.KeyStrategy = strategy
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/screenings/:id/seats")
		return cacheKeyFrom(cfg, c)
	}

	// The query participates in route_query keys but not route keys.
	assert.NotEqual(t,
		key("route_query", "/v1/screenings/7/seats?x=1"),
		key("route_query", "/v1/screenings/7/seats?x=2"))
	assert.Equal(t,
		key("route", "/v1/screenings/7/seats?x=1"),
		key("route", "/v1/screenings/7/seats?x=2"))
}
