package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"riskgraph/internal/domain"
	"riskgraph/internal/logger"
	l3_service "riskgraph/internal/service/l3"
	"riskgraph/internal/telemetry"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApiHandler struct {
	GraphService l3_service.GraphService
	Metrics      *telemetry.Metrics
	// HS256 secret for bearer tokens. Empty disables auth
	JwtDecodeToken string
	// attach the performance profile to every response
	Profile bool
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	engine := gin.New()
	engine.ContextWithFallback = true

	engine.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	engine.Use(ginzap.RecoveryWithZap(zap.L(), true))
	engine.Use(cors.Default())
	engine.Use(m.requestLoggerMiddleware)
	engine.Use(m.metricsMiddleware)

	engine.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to riskgraph"})
	})
	engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"status": "ok"})
	})
	if m.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(m.Metrics.Handler()))
	}

	authed := engine.Group("/", authMiddleware(m.JwtDecodeToken))
	authed.POST("/graphs", m.generateGraphs)
	authed.POST("/graphs/:graphType/chart", m.renderChart)

	return engine
}

func (m ApiHandler) StartApi(port int) error {
	return m.InitializeRouterEngine().Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, http.StatusInternalServerError)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c).Errorw("request failed", "status", code, "error", err)
	body := gin.H{
		"error": err.Error(),
	}
	var validationErr domain.ValidationError
	if errors.As(err, &validationErr) {
		body["field"] = validationErr.Field
	}
	c.AbortWithStatusJSON(code, body)
}

// returnDomainError maps a validation error to 400 and anything else to 500
func returnDomainError(err error, c *gin.Context) {
	if domain.KindOf(err) == domain.ErrorKindValidation {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}
	returnErrorJson(err, c)
}

const requestIDHeader = "X-Request-ID"

// requestLoggerMiddleware scopes a logger to the request so every line the
// services log carries the request id
func (m ApiHandler) requestLoggerMiddleware(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header(requestIDHeader, requestID)

	lg := logger.FromContext(c.Request.Context()).With(
		"request_id", requestID,
		"route", c.Request.URL.Path,
	)
	c.Set(logger.ContextKey, lg)
	c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), lg))
	c.Next()
}

func (m ApiHandler) metricsMiddleware(c *gin.Context) {
	c.Next()
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	m.Metrics.CountHttp(route, strconv.Itoa(c.Writer.Status()))
}
