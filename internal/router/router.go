package router

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"reelforge/internal/auth"
	"reelforge/internal/config"
	apperrors "reelforge/internal/errors"
	"reelforge/internal/handler"
	"reelforge/internal/logging"
	"reelforge/internal/metrics"
	"reelforge/internal/model"
	"reelforge/internal/validation"
)

// Handlers groups the HTTP handlers served by the API. Transcode may be nil.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Trends    *handler.TrendHandler
	Projects  *handler.ProjectHandler
	Transcode *handler.TranscodeHandler
}

// Security carries what the bearer middleware needs. TokenStore may be nil.
type Security struct {
	JWT        *auth.JWTService
	TokenStore auth.TokenStoreInterface
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log logrus.FieldLogger,
	m *metrics.Metrics,
	sec Security,
	h Handlers,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler(log)
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(logging.RequestLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	if m != nil {
		e.Use(m.Middleware())
		e.GET("/metrics", m.Handler())
	}

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ReelForge API is running")
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if h.Transcode != nil {
		e.GET("/ffmpeg-version", h.Transcode.Version)
		e.POST("/convert-simple", h.Transcode.ConvertSimple)
	}

	requireAuth := auth.Middleware(sec.JWT, sec.TokenStore)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/manual-trends", h.Trends.List)
	api.POST("/manual-trends", h.Trends.Upsert)
	api.DELETE("/manual-trends/:id", h.Trends.Delete)

	// Bearer routes
	api.GET("/auth/me", h.Auth.Me, requireAuth)
	api.POST("/auth/logout", h.Auth.Logout, requireAuth)

	projects := api.Group("/projects", requireAuth)
	projects.GET("", h.Projects.List)
	projects.POST("", h.Projects.Create)
	projects.GET("/:id", h.Projects.Get)
	projects.PUT("/:id", h.Projects.Update)
	projects.DELETE("/:id", h.Projects.Delete)

	// Admin routes
	admin := api.Group("/admin", requireAuth, auth.RequireRole(model.RoleAdmin))
	admin.GET("/users", h.Users.ListUsers)
}

// ErrorHandler renders every failure as errors.ErrorResponse. Domain errors
// returned straight from middleware are mapped the same way handlers map them.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorBody(err)
		if status >= http.StatusInternalServerError {
			var he *echo.HTTPError
			if !errors.As(err, &he) {
				log.WithError(err).WithField("route", c.Path()).Error("unhandled error")
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.WithError(err).Error("write error response")
		}
	}
}

func errorBody(err error) (int, apperrors.ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			return he.Code, msg
		case string:
			return he.Code, apperrors.ErrorResponse{Error: msg}
		default:
			return he.Code, apperrors.ErrorResponse{Error: http.StatusText(he.Code)}
		}
	}
	httpErr := apperrors.MapErrorToHTTP(err)
	return httpErr.StatusCode, httpErr.ToErrorResponse()
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a CustomValidator backed by the shared validator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validation.Validator()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
