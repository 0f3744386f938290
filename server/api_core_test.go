package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitAllow(t *testing.T) {
	a := &api{rl: map[string]*rateBucket{}}

	for i := 0; i < 3; i++ {
		assert.True(t, a.allow("1.2.3.4", "login", 3, time.Minute))
	}
	assert.False(t, a.allow("1.2.3.4", "login", 3, time.Minute))

	// other IPs and other keys have their own buckets
	assert.True(t, a.allow("5.6.7.8", "login", 3, time.Minute))
	assert.True(t, a.allow("1.2.3.4", "share", 3, time.Minute))
}

func TestWithRateLimitReturns429(t *testing.T) {
	a := &api{rl: map[string]*rateBucket{}}
	h := a.withRateLimit("test", 1, time.Minute, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(204)
	})

	r := httptest.NewRequest("POST", "/x", nil)
	r.RemoteAddr = "9.9.9.9:1234"

	rec := httptest.NewRecorder()
	h(rec, r)
	assert.Equal(t, 204, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, r)
	assert.Equal(t, 429, rec.Code)
	assert.Contains(t, rec.Body.String(), "too many requests")
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/x", strings.NewReader(`{"name":"a","bogus":1}`))
	var dst struct {
		Name string `json:"name"`
	}
	err := readJSON(httptest.NewRecorder(), r, &dst)
	assert.Error(t, err)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, 404, "not found")
	require.Equal(t, 404, rec.Code)
	assert.JSONEq(t, `{"ok": false, "error": "not found"}`, rec.Body.String())
}

func TestSameSite(t *testing.T) {
	for in, want := range map[string]http.SameSite{
		"strict": http.SameSiteStrictMode,
		"none":   http.SameSiteNoneMode,
		"lax":    http.SameSiteLaxMode,
		"":       http.SameSiteLaxMode,
	} {
		a := &api{cfg: Config{Session: SessionConfig{SameSite: in}}}
		assert.Equal(t, want, a.sameSite(), "same_site=%q", in)
	}
}
