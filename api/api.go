package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"investlab/internal/catalog"
	"investlab/internal/config"
	"investlab/internal/crisis"
	"investlab/internal/domain"
	"investlab/internal/logger"
	"investlab/internal/options"
	"investlab/internal/rng"
	"investlab/internal/scoring"
	"investlab/internal/startup"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type ApiHandler struct {
	Catalog *catalog.Catalog
	Config  config.Config
	Logger  *zap.SugaredLogger

	OptionSessions    *sessionStore[*options.Book]
	PortfolioSessions *sessionStore[*scoring.Allocation]
	CrisisSessions    *sessionStore[*crisis.Run]
	StartupSessions   *sessionStore[*startup.Game]

	// builds the random source for a new session or path. nil seed
	// means unseeded
	NewSource func(seed *uint64) rng.Source
}

func NewApiHandler(cat *catalog.Catalog, cfg config.Config, log *zap.SugaredLogger) *ApiHandler {
	return &ApiHandler{
		Catalog:           cat,
		Config:            cfg,
		Logger:            log,
		OptionSessions:    newSessionStore[*options.Book](),
		PortfolioSessions: newSessionStore[*scoring.Allocation](),
		CrisisSessions:    newSessionStore[*crisis.Run](),
		StartupSessions:   newSessionStore[*startup.Game](),
		NewSource:         rng.FromSeed,
	}
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to investlab"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/regimes", m.getRegimes)
	router.GET("/catalog", m.getCatalog)
	router.POST("/pricePath", m.generatePricePath)

	router.POST("/options/quote", m.quoteOption)
	router.POST("/options/payoff", m.optionPayoff)
	router.POST("/options/sessions", m.createOptionSession)
	router.GET("/options/sessions/:id", m.getOptionSession)
	router.POST("/options/sessions/:id/open", m.openOptionPosition)
	router.POST("/options/sessions/:id/close", m.closeOptionPosition)
	router.POST("/options/sessions/:id/underlying", m.moveUnderlying)

	router.POST("/portfolio/score", m.scorePortfolio)
	router.POST("/portfolio/sessions", m.createPortfolioSession)
	router.GET("/portfolio/sessions/:id", m.getPortfolioSession)
	router.POST("/portfolio/sessions/:id/holdings", m.addPortfolioHolding)
	router.DELETE("/portfolio/sessions/:id/holdings/:assetID", m.removePortfolioHolding)
	router.POST("/portfolio/sessions/:id/reset", m.resetPortfolioSession)

	router.POST("/crisis/sessions", m.createCrisisSession)
	router.POST("/crisis/sessions/:id/advance", m.advanceCrisis)
	router.POST("/crisis/sessions/:id/decide", m.decideCrisis)

	router.POST("/startup/sessions", m.createStartupSession)
	router.POST("/startup/sessions/:id/advance", m.advanceStartup)
	router.POST("/startup/sessions/:id/decide", m.decideStartup)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.InitializeRouterEngine().Run(fmt.Sprintf(":%d", port))
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, errSessionNotFound),
		errors.Is(err, domain.ErrUnknownContract),
		errors.Is(err, domain.ErrUnknownPosition),
		errors.Is(err, domain.ErrUnknownAsset),
		errors.Is(err, domain.ErrUnknownScenario),
		errors.Is(err, domain.ErrUnknownRegime):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAwaitingDecision),
		errors.Is(err, domain.ErrScenarioComplete),
		errors.Is(err, domain.ErrNoPendingDecision):
		return http.StatusConflict
	case domain.IsUserError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// returnErrorJson picks the status from the error kind
func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, errorStatus(err))
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	log := logger.FromContext(c.Request.Context())
	if code >= 500 {
		log.Errorw("request failed", "error", err)
	} else {
		log.Infow("request rejected", "error", err, "status", code)
	}
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// bindOptionalJSON is ShouldBindJSON for routes where every field
// has a default, so an empty body is fine
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	requestID := uuid.New()
	log := m.Logger.With(
		"requestID", requestID.String(),
		"method", ctx.Request.Method,
		"route", ctx.FullPath(),
	)
	ctx.Request = ctx.Request.WithContext(logger.WithContext(ctx.Request.Context(), log))
	ctx.Header("X-Request-ID", requestID.String())

	start := time.Now().UTC()
	ctx.Next()

	status := ctx.Writer.Status()
	route := ctx.FullPath()
	if route == "" {
		route = "unmatched"
	}
	observeRequest(ctx.Request.Method, route, status, time.Since(start))
	log.Infow("handled request",
		"status", status,
		"durationMs", time.Since(start).Milliseconds(),
	)
}
