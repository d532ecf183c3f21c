package middleware

import (
	"os"
	"strings"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/httpx"
	"github.com/gofiber/fiber/v2"
)

// OriginAllowed rejects browser requests from origins outside the configured
// allow-list. An empty ALLOWED_ORIGINS disables the check.
func OriginAllowed() fiber.Handler {
	allowed := parseAllowedOrigins(os.Getenv("ALLOWED_ORIGINS"))
	return func(c *fiber.Ctx) error {
		origin := strings.TrimSpace(c.Get("Origin"))
		if origin == "" || len(allowed) == 0 {
			return c.Next()
		}
		if _, ok := allowed[origin]; !ok {
			return httpx.Forbidden(c, "forbidden_origin", "Origin not allowed")
		}
		return c.Next()
	}
}

func parseAllowedOrigins(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out[p] = struct{}{}
		}
	}
	return out
}
