package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimitMiddleware(2)
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doRequest := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("requests within the budget pass", func(t *testing.T) {
		require.Equal(t, http.StatusOK, doRequest("10.0.0.1:1234").Code)
		require.Equal(t, http.StatusOK, doRequest("10.0.0.1:1234").Code)
	})

	t.Run("the budget is enforced per client", func(t *testing.T) {
		rec := doRequest("10.0.0.1:1234")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.Equal(t, "60", rec.Header().Get("Retry-After"))
		require.Contains(t, rec.Body.String(), "RATE_LIMITED")

		// A different client still has its own budget.
		require.Equal(t, http.StatusOK, doRequest("10.0.0.2:1234").Code)
	})
}

func TestExtractClientIP(t *testing.T) {
	makeRequest := func(remoteAddr string, headers map[string]string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr
		for key, value := range headers {
			req.Header.Set(key, value)
		}
		return req
	}

	t.Run("forwarded-for wins and takes the first hop", func(t *testing.T) {
		req := makeRequest("10.0.0.1:1234", map[string]string{
			"X-Forwarded-For": "203.0.113.7, 10.0.0.9",
			"X-Real-IP":       "198.51.100.1",
		})
		require.Equal(t, "203.0.113.7", extractClientIP(req))
	})

	t.Run("real-ip is the fallback", func(t *testing.T) {
		req := makeRequest("10.0.0.1:1234", map[string]string{"X-Real-IP": "198.51.100.1"})
		require.Equal(t, "198.51.100.1", extractClientIP(req))
	})

	t.Run("remote addr without headers", func(t *testing.T) {
		req := makeRequest("10.0.0.1:1234", nil)
		require.Equal(t, "10.0.0.1", extractClientIP(req))
	})
}
