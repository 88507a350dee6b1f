package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
)

// newProxy builds the reverse proxy for pass-through API routes. The
// gateway exposes /api/<resource> and maps it onto the upstream's
// versioned prefix; the session cookie is rewritten into a bearer header
// so the upstream never sees browser cookies.
func (s *Server) newProxy(upstream *url.URL, prefix string) *httputil.ReverseProxy {
	proxy := httputil.NewSingleHostReverseProxy(upstream)

	defaultDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		defaultDirector(req)

		// /api/products -> <prefix>/products
		req.URL.Path = prefix + strings.TrimPrefix(req.URL.Path, "/api")

		if req.Header.Get("Authorization") == "" {
			if cookie, err := req.Cookie(cookieToken); err == nil && cookie.Value != "" {
				req.Header.Set("Authorization", bearerPrefix+cookie.Value)
			}
		}
		req.Header.Del("Cookie")
		req.Host = upstream.Host
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("upstream proxy error")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error": "Upstream unavailable"}`))
	}

	return proxy
}
