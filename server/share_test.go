package main

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShareLink(t *testing.T) {
	link := shareLink("https://board.example.com", "01J0ABCDEF")
	assert.Equal(t, "https://board.example.com/?share=01J0ABCDEF", link)
}

func TestOriginPrefersConfiguredPublicOrigin(t *testing.T) {
	a := &api{cfg: Config{PublicOrigin: "https://board.example.com"}}
	r := httptest.NewRequest("POST", "/api/projects/1/share", nil)
	r.Host = "localhost:8080"
	assert.Equal(t, "https://board.example.com", a.origin(r))
}

func TestOriginFallsBackToRequestHost(t *testing.T) {
	a := &api{cfg: Config{}}
	r := httptest.NewRequest("POST", "/api/projects/1/share", nil)
	r.Host = "localhost:8080"
	assert.Equal(t, "http://localhost:8080", a.origin(r))
}
