package middlewares

import "net/http"

// DashboardCSP allows the script CDNs the page shell loads. Alpine evaluates
// attribute expressions, hence 'unsafe-eval'.
const DashboardCSP = "default-src 'self'; script-src 'self' 'unsafe-inline' 'unsafe-eval' https://cdn.tailwindcss.com https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; connect-src 'self'; object-src 'none'; frame-ancestors 'none'; form-action 'self'; base-uri 'self'"

// Strict-Transport-Security values
const (
	HSTS           = "max-age=31536000"
	ProductionHSTS = "max-age=63072000; includeSubDomains; preload"
)

// securityHeaders are set on every response. Cross-Origin-Embedder-Policy is
// left out: the CDN scripts do not send CORP headers.
var securityHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"X-XSS-Protection", "1; mode=block"},
	{"Content-Security-Policy", DashboardCSP},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=(), usb=()"},
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Cross-Origin-Resource-Policy", "same-origin"},
}

// Security sets the dashboard's security headers. hsts is only sent on TLS
// connections; an empty value disables it.
func Security(hsts string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range securityHeaders {
				h.Set(kv[0], kv[1])
			}
			if r.TLS != nil && hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}
			next.ServeHTTP(w, r)
		})
	}
}
