package webserver

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo-contrib/pprof"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stockease/stockease/internal/app"
	"github.com/stockease/stockease/pkg/common"
	"go.uber.org/zap"
)

// DBContextKey is the echo context key the request-scoped gorm handle is
// stored under.
const DBContextKey = "stockease_db"

var server *WebServer

type WebServer struct {
	root        *echo.Echo
	application *app.Application
	apiGroup    *echo.Group
	pubGroup    *echo.Group
	jwtSecret   string
}

type webValidator struct {
	validate *validator.Validate
}

func (v *webValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Init builds the process-wide web server instance.
func Init(application *app.Application) {
	server = NewWebServer(application)
}

func NewWebServer(application *app.Application) *WebServer {
	s := &WebServer{
		root:        echo.New(),
		application: application,
		jwtSecret:   common.GetWebSecret(application.Config().Web.Secret),
	}
	s.root.HideBanner = true
	s.root.Debug = application.Config().System.Debug
	if s.root.Debug {
		pprof.Register(s.root)
	}

	// validation failures report json field names so the caller can map
	// them back onto form controls
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	s.root.Validator = &webValidator{validate: validate}

	s.root.Use(middleware.Recover())
	s.root.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	// request-scoped database handle
	s.root.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(DBContextKey, application.DB())
			return next(c)
		}
	})

	s.root.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))

	s.pubGroup = s.root.Group("/api/v1")
	s.apiGroup = s.root.Group("/api/v1")
	s.apiGroup.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(s.jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"statusCode": http.StatusUnauthorized,
				"code":       "UNAUTHORIZED",
				"message":    "please log in again",
			})
		},
	}))

	return s
}

// JwtSecret returns the secret api tokens are signed with.
func JwtSecret() string {
	return server.jwtSecret
}

// Application returns the owning application context.
func Application() *app.Application {
	return server.application
}

// Listen blocks serving HTTP until the listener fails.
func Listen() error {
	cfg := server.application.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("StockEase api listening on %s", addr)
	return server.root.Start(addr)
}

// Root exposes the underlying echo instance (used in tests).
func Root() *echo.Echo {
	return server.root
}

// ApiGET registers an authenticated GET route under /api/v1.
func ApiGET(path string, h echo.HandlerFunc) {
	server.apiGroup.GET(path, h)
}

// ApiPOST registers an authenticated POST route under /api/v1.
func ApiPOST(path string, h echo.HandlerFunc) {
	server.apiGroup.POST(path, h)
}

// ApiPUT registers an authenticated PUT route under /api/v1.
func ApiPUT(path string, h echo.HandlerFunc) {
	server.apiGroup.PUT(path, h)
}

// ApiDELETE registers an authenticated DELETE route under /api/v1.
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.apiGroup.DELETE(path, h)
}

// PubPOST registers an unauthenticated POST route under /api/v1.
func PubPOST(path string, h echo.HandlerFunc) {
	server.pubGroup.POST(path, h)
}
