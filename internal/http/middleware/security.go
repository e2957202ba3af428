package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures SecurityHeaders.
//
// NoStorePrefixes lists URL path prefixes whose responses must never be
// cached (payment state changes between reads). Catalog routes are left
// cacheable so that ETag revalidation works.
type SecurityOptions struct {
	EnableHSTS      bool          // only honoured for HTTPS requests
	HSTSMaxAge      time.Duration // defaults to 180 days
	NoStorePrefixes []string
	EnablePolicy    bool // Permissions-Policy and friends
}

// exposed lists response headers browser clients are allowed to read.
var exposed = []string{"X-Request-ID", "ETag"}

// SecurityHeaders adds the baseline API hardening headers to every response.
//
//   - X-Content-Type-Options: nosniff, X-Frame-Options: DENY,
//     Referrer-Policy: no-referrer
//   - Permissions-Policy / X-Permitted-Cross-Domain-Policies when EnablePolicy
//   - Cache-Control: no-store (+ Pragma, Expires) under NoStorePrefixes
//   - Strict-Transport-Security on HTTPS when EnableHSTS
//   - Access-Control-Expose-Headers extended with X-Request-ID and ETag
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int64(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int64((180 * 24 * time.Hour).Seconds())
	}
	hsts := "max-age=" + strconv.FormatInt(maxAge, 10) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			// payment=() does not block upi:// navigation; it only disables
			// the Payment Request API in embedded documents.
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		if hasAnyPrefix(c.Request.URL.Path, opt.NoStorePrefixes) {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		exposeHeaders(h)
		c.Next()
	}
}

// exposeHeaders appends the exposed headers to Access-Control-Expose-Headers
// without duplicating entries already present.
func exposeHeaders(h http.Header) {
	const key = "Access-Control-Expose-Headers"
	cur := h.Get(key)
	have := map[string]bool{}
	for _, part := range strings.Split(cur, ",") {
		if p := strings.TrimSpace(part); p != "" {
			have[strings.ToLower(p)] = true
		}
	}
	for _, name := range exposed {
		if have[strings.ToLower(name)] {
			continue
		}
		if cur == "" {
			cur = name
		} else {
			cur += ", " + name
		}
	}
	h.Set(key, cur)
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// isHTTPS reports whether the request arrived over TLS, directly or through
// a proxy that set X-Forwarded-Proto.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
