package middleware

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHeaders(t *testing.T) {
	assert.Nil(t, SanitizeHeaders(nil))

	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("X-Access-Pin", "1234")
	h.Set("User-Agent", "curl\n/8.0")
	h.Set("X-Long", strings.Repeat("a", 500))

	out := SanitizeHeaders(h)
	assert.Equal(t, []string{"<redacted>"}, out["Authorization"])
	assert.Equal(t, []string{"<redacted>"}, out["X-Access-Pin"])
	assert.Equal(t, []string{"curl /8.0"}, out["User-Agent"])
	assert.Len(t, out["X-Long"][0], maxLoggedValue)
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/api/v1/records", SanitizePath("/api/v1/records?q=secret"))
	assert.Equal(t, "/a b", SanitizePath("/a\nb"))
}
