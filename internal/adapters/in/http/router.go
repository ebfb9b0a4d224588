package http

import (
	"log/slog"
	"net/http"
	"sync"

	"fulfillment/internal/generated/servers"
	"fulfillment/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// swaggerDoc serves the embedded OpenAPI document to the swagger UI.
type swaggerDoc struct {
	json string
}

func (d swaggerDoc) ReadDoc() string {
	return d.json
}

var registerSwagger sync.Once

// NewRouter builds the echo instance: contract validation, metrics, request
// logging, the API routes plus /health, /metrics and /swagger/*.
func NewRouter(server servers.ServerInterface, m *metrics.Metrics, logger *slog.Logger) (*echo.Echo, error) {
	logger = logger.With("component", "http")

	doc, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	specJSON, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	validation, err := openAPIValidation(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = newErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	e.Use(metricsMiddleware(m))
	e.Use(validation)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	registerSwagger.Do(func() {
		swag.Register(swag.Name, swaggerDoc{json: string(specJSON)})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	servers.RegisterHandlers(e, server)
	return e, nil
}
