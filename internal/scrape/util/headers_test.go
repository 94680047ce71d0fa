package util

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRotator_Cycles(t *testing.T) {
	h := NewHeaderRotator("a", "b", "c")
	got := []string{h.UserAgent(), h.UserAgent(), h.UserAgent(), h.UserAgent()}
	assert.Equal(t, []string{"a", "b", "c", "a"}, got)
}

func TestHeaderRotator_IndependentCursors(t *testing.T) {
	h1 := NewHeaderRotator()
	h2 := NewHeaderRotator()
	first := h1.UserAgent()
	_ = h1.UserAgent()
	assert.Equal(t, first, h2.UserAgent())
}

func TestHeaderRotator_Apply(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://nofluffjobs.com/api/posting", nil)
	require.NoError(t, err)

	NewHeaderRotator("ua-1").Apply(req, "application/json")
	assert.Equal(t, "ua-1", req.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Contains(t, req.Header.Get("Accept-Language"), "pl-PL")
}

func TestCanonicalURL(t *testing.T) {
	got := CanonicalURL("HTTPS://WWW.Pracuj.pl/praca/hr-manager,oferta,123?utm_source=x&b=2&a=1#top")
	assert.Equal(t, "https://www.pracuj.pl/praca/hr-manager,oferta,123?a=1&b=2", got)
	assert.Equal(t, "", CanonicalURL("  "))
}

func TestAbsURL(t *testing.T) {
	assert.Equal(t, "https://www.pracuj.pl/praca/x,oferta,1", AbsURL("https://www.pracuj.pl/praca?q=hr", "/praca/x,oferta,1"))
	assert.Equal(t, "https://other.pl/a", AbsURL("https://www.pracuj.pl", "https://other.pl/a"))
}

func TestHostLimiter_NilNeverBlocks(t *testing.T) {
	var hl *HostLimiter
	assert.NoError(t, hl.WaitURL(context.Background(), "https://example.com"))
}

func TestHostLimiter_RespectsContext(t *testing.T) {
	hl := NewHostLimiter(0.001, 1)
	ctx := context.Background()
	require.NoError(t, hl.WaitURL(ctx, "https://example.com/a"))

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.Error(t, hl.WaitURL(ctx, "https://example.com/b"))
}
