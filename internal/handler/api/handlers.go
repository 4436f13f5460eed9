package api

import (
	"errors"
	"strings"
	"time"

	models "github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	domrepo "github.com/Bean0-0/tli-strategy-app/internal/domain/repository"
	"github.com/Bean0-0/tli-strategy-app/internal/extract"
	"github.com/Bean0-0/tli-strategy-app/internal/usecase"
	xhttp "github.com/Bean0-0/tli-strategy-app/pkg/http"
	xlogger "github.com/Bean0-0/tli-strategy-app/pkg/logger"
	"github.com/Bean0-0/tli-strategy-app/pkg/util"

	"github.com/labstack/echo/v4"
)

// Handler implements the Echo HTTP surface over the extraction and
// evaluation usecases.
type Handler struct {
	logger    *xlogger.Logger
	parser    *extract.Coordinator
	analyzer  *usecase.Analyzer
	ingestor  *usecase.MailIngestor
	levels    domrepo.LevelStore
	positions domrepo.PositionStore
	alerts    domrepo.AlertStore
}

// NewHandler creates the API handler. ingestor may be nil when no mailbox
// is configured.
func NewHandler(
	logger *xlogger.Logger,
	parser *extract.Coordinator,
	analyzer *usecase.Analyzer,
	ingestor *usecase.MailIngestor,
	levels domrepo.LevelStore,
	positions domrepo.PositionStore,
	alerts domrepo.AlertStore,
) *Handler {
	return &Handler{
		logger:    logger,
		parser:    parser,
		analyzer:  analyzer,
		ingestor:  ingestor,
		levels:    levels,
		positions: positions,
		alerts:    alerts,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.POST("/parse", h.Parse)
	g.POST("/analyze", h.Analyze)
	g.GET("/evaluations", h.ListEvaluations)
	g.GET("/evaluations/:symbol", h.GetEvaluation)
	g.GET("/symbols", h.Symbols)
	g.GET("/levels/:symbol", h.ListLevels)
	g.POST("/calculator/position-size", h.PositionSize)
	g.POST("/calculator/fib-levels", h.FibLevels)
	g.GET("/positions", h.ListPositions)
	g.POST("/positions", h.AddPosition)
	g.POST("/positions/:id/close", h.ClosePosition)
	g.GET("/alerts", h.ListAlerts)
	g.POST("/alerts", h.AddAlert)
	g.DELETE("/alerts/:id", h.DeleteAlert)
	g.POST("/mail/sync", h.MailSync)
}

func (h *Handler) Health(c echo.Context) error {
	if err := h.levels.Health(c.Request().Context()); err != nil {
		h.logger.Error("health check failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// Parse extracts symbols, levels and notes from alert text. With persist
// set, the extracted levels are also written to the level store.
func (h *Handler) Parse(c echo.Context) error {
	req := &models.ParseRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	result := h.parser.Parse(c.Request().Context(), req.Content, nil)

	if req.Persist && len(result.Levels) > 0 {
		if err := h.levels.SaveLevels(c.Request().Context(), result.Levels); err != nil {
			h.logger.Error("level persistence failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	}

	return xhttp.SuccessResponse(c, models.ParseResponse{
		Result:      result,
		FibMentions: extract.ExtractFibMentions(req.Content),
	})
}

// Analyze re-evaluates one symbol against its stored levels.
func (h *Handler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()

	levels, err := h.levels.ListLevels(ctx, req.Symbol, 100)
	if err != nil {
		h.logger.Error("level lookup failed", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	sig := usecase.ResolveSignal(resultFromLevels(req.Symbol, levels), req.Symbol)
	rec, err := h.analyzer.Analyze(ctx, req.Symbol, sig)
	if err != nil {
		h.logger.Error("analysis failed", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, rec)
}

// resultFromLevels rebuilds a minimal extraction result from stored levels
// so the resolver can re-derive the signal without the original email text.
func resultFromLevels(symbol string, levels []models.ExtractedLevel) *models.ExtractionResult {
	result := &models.ExtractionResult{Symbols: []string{symbol}, Levels: levels}
	notes := make([]string, 0, len(levels))
	for _, l := range levels {
		if l.Notes != "" {
			notes = append(notes, l.Notes)
		}
	}
	result.Notes = strings.Join(notes, "\n")
	return result
}

// ListEvaluations returns all evaluations grouped by overall recommendation,
// best bucket first.
func (h *Handler) ListEvaluations(c echo.Context) error {
	recs, err := h.analyzer.List(c.Request().Context())
	if err != nil {
		h.logger.Error("evaluation list failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	grouped := map[models.OverallRecommendation][]*models.EvaluationRecord{}
	for _, rec := range recs {
		grouped[rec.OverallRecommendation] = append(grouped[rec.OverallRecommendation], rec)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"total":  len(recs),
		"groups": grouped,
	})
}

func (h *Handler) GetEvaluation(c echo.Context) error {
	symbol := c.Param("symbol")
	rec, err := h.analyzer.Get(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("evaluation lookup failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if rec == nil {
		return xhttp.NotFoundResponse(c, "no evaluation for "+symbol)
	}
	return xhttp.SuccessResponse(c, rec)
}

func (h *Handler) Symbols(c echo.Context) error {
	symbols, err := h.levels.Symbols(c.Request().Context())
	if err != nil {
		h.logger.Error("symbol list failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, symbols)
}

func (h *Handler) ListLevels(c echo.Context) error {
	symbol := c.Param("symbol")
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 100)
	levels, err := h.levels.ListLevels(c.Request().Context(), symbol, limit)
	if err != nil {
		h.logger.Error("level list failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, levels, int64(len(levels)))
}

func (h *Handler) PositionSize(c echo.Context) error {
	req := &models.PositionSizeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	size, err := usecase.CalculatePositionSize(req.AccountSize, req.RiskPercent, req.EntryPrice, req.StopLoss)
	if err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}
	return xhttp.SuccessResponse(c, size)
}

func (h *Handler) FibLevels(c echo.Context) error {
	req := &models.FibLevelsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, usecase.CalculateFibLevels(req.High, req.Low))
}

func (h *Handler) ListPositions(c echo.Context) error {
	positions, err := h.positions.ListPositions(c.Request().Context())
	if err != nil {
		h.logger.Error("position list failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, positions, int64(len(positions)))
}

func (h *Handler) AddPosition(c echo.Context) error {
	req := &models.AddPositionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	p := &models.Position{
		ID:         util.NewID(),
		Symbol:     req.Symbol,
		Type:       models.PositionType(req.Type),
		EntryPrice: req.EntryPrice,
		Shares:     req.Shares,
		Notes:      req.Notes,
		IsLargeCap: req.IsLargeCap,
		Status:     "open",
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.positions.SavePosition(c.Request().Context(), p); err != nil {
		h.logger.Error("position save failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, p)
}

func (h *Handler) ClosePosition(c echo.Context) error {
	req := &models.ClosePositionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	id := c.Param("id")
	if err := h.positions.ClosePosition(c.Request().Context(), id, req.ExitPrice, time.Now().UTC()); err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("position %s not found", id))
		}
		h.logger.Error("position close failed", xlogger.String("id", id), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *Handler) ListAlerts(c echo.Context) error {
	includeTriggered := c.QueryParam("include_triggered") == "true"
	alerts, err := h.alerts.ListAlerts(c.Request().Context(), includeTriggered)
	if err != nil {
		h.logger.Error("alert list failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, alerts, int64(len(alerts)))
}

func (h *Handler) AddAlert(c echo.Context) error {
	req := &models.AddAlertRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	a := &models.Alert{
		ID:        util.NewID(),
		Symbol:    req.Symbol,
		Price:     req.Price,
		AlertType: req.AlertType,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.alerts.SaveAlert(c.Request().Context(), a); err != nil {
		h.logger.Error("alert save failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, a)
}

func (h *Handler) DeleteAlert(c echo.Context) error {
	id := c.Param("id")
	if err := h.alerts.DeleteAlert(c.Request().Context(), id); err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("alert %s not found", id))
		}
		h.logger.Error("alert delete failed", xlogger.String("id", id), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *Handler) MailSync(c echo.Context) error {
	if h.ingestor == nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("mailbox is not configured"))
	}
	req := &models.MailSyncRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	report, err := h.ingestor.Ingest(c.Request().Context(), req.SubjectFilter, req.Max)
	if err != nil {
		h.logger.Error("mail sync failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}
