package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/middleware"
	"jobportal_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Options - настройки edge-прокси
type Options struct {
	Upstream       string
	Propagator     *auth.Propagator
	AllowedOrigins []string
	// Transport для тестов; nil - http.DefaultTransport
	Transport http.RoundTripper
}

var errUpstreamUnavailable = apperrors.New(apperrors.CodeInternalError, "gateway", "Upstream service unavailable", http.StatusBadGateway)

// NewEngine собирает gateway: заголовки личности выставляет только он,
// все остальное проксируется в backend как есть
func NewEngine(opts Options) (*gin.Engine, error) {
	if opts.Propagator == nil {
		return nil, fmt.Errorf("gateway: propagator is required")
	}
	target, err := url.Parse(opts.Upstream)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("gateway: invalid upstream %q", opts.Upstream)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	if opts.Transport != nil {
		proxy.Transport = opts.Transport
	}
	baseDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		baseDirector(req)
		req.Host = target.Host
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.CtxWithError(r.Context(), "Upstream request failed", err, "upstream", target.Host, "path", r.URL.Path)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(errUpstreamUnavailable.HTTPCode)
		_ = json.NewEncoder(w).Encode(apperrors.ErrorResponse{Error: errUpstreamUnavailable})
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	router.Use(middleware.PropagateIdentity(opts.Propagator))

	router.NoRoute(func(c *gin.Context) {
		start := time.Now()
		proxy.ServeHTTP(c.Writer, c.Request)
		logger.HTTPLog(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), target.Host)
	})

	logger.Info("Gateway configured", "upstream", target.String())
	return router, nil
}
