package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-shelflist/internal/config"
	"github.com/go-while/go-shelflist/internal/records"
)

// NewServer creates a new web server instance
func NewServer(src records.Source, webconfig *config.WebConfig) (*WebServer, error) {
	if webconfig.Dev {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// single-segment paths are call numbers; fallbackRoute adds their slash
	router.RedirectTrailingSlash = false

	// Configure Gin to trust reverse proxy headers
	router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	server := &WebServer{
		Records:       src,
		Router:        router,
		Config:        webconfig,
		staticHandler: EmbeddedStaticHandler(staticPrefix),
		httpServer: &http.Server{
			Addr:         ":" + strconv.Itoa(webconfig.ListenPort),
			Handler:      router,
			ReadTimeout:  webconfig.ReadTimeout,
			WriteTimeout: webconfig.WriteTimeout,
		},
	}

	router.Use(server.ApacheLogFormat(), gin.Recovery(), secure.New(secureConfig))

	if !webconfig.Dev {
		tmpls, err := parseEmbeddedTemplates()
		if err != nil {
			return nil, fmt.Errorf("failed to parse embedded templates: %w", err)
		}
		server.templates = tmpls
	} else {
		log.Printf("[WEB]: Dev mode: templates are re-read from %s on every request", webconfig.TemplateDir)
	}

	server.setupRoutes()
	return server, nil
}

// setupRoutes configures all HTTP routes.
// Only the pages are registered: any other name under / could be a call
// number, so the auxiliary paths are matched exactly in fallbackRoute.
func (s *WebServer) setupRoutes() {
	s.Router.GET("/", s.indexPage)
	s.Router.GET("/:callNumber/", s.detailPage)

	s.Router.NoRoute(s.fallbackRoute)
}

// fallbackRoute serves the auxiliary paths and redirects /id to /id/
func (s *WebServer) fallbackRoute(c *gin.Context) {
	path := c.Request.URL.Path
	switch {
	case path == "/ping":
		c.String(http.StatusOK, "pong")
	case path == "/robots.txt":
		c.String(http.StatusOK, "User-agent: *\nDisallow:\n")
	case strings.HasPrefix(path, staticPrefix+"/"):
		s.staticHandler(c)
	case isSingleSegment(path):
		u := *c.Request.URL
		u.Path = path + "/"
		u.RawPath = ""
		code := http.StatusMovedPermanently
		if c.Request.Method != http.MethodGet {
			code = http.StatusTemporaryRedirect
		}
		c.Redirect(code, u.String())
	default:
		s.renderError(c, http.StatusNotFound, "Page Not Found", "", "no route for "+path)
	}
}

// isSingleSegment reports whether path looks like "/name" with a non-empty name
func isSingleSegment(path string) bool {
	return len(path) > 1 && path[0] == '/' && !strings.Contains(path[1:], "/")
}

// Start starts the web server with SSL support if configured.
// It blocks until the server stops; after Shutdown it returns http.ErrServerClosed.
func (s *WebServer) Start() error {
	addr := s.httpServer.Addr
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		log.Printf("[WEB]: Starting HTTPS server on %s", addr)
		return s.httpServer.ListenAndServeTLS(s.Config.CertFile, s.Config.KeyFile)
	}
	log.Printf("[WEB]: Starting HTTP server on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops a started server
func (s *WebServer) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ApacheLogFormat logs requests in Apache combined log format
func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}
