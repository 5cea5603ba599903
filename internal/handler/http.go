package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"scenario-server/internal/auth"
	"scenario-server/internal/middleware"
	"scenario-server/internal/models"
	"scenario-server/internal/service"
)

// ScenarioHandler обрабатывает HTTP запросы для scenario сервиса.
type ScenarioHandler struct {
	engine   service.ScenarioEngine
	logger   *zap.Logger
	verifier *auth.JWTVerifier
}

// NewScenarioHandler creates the handler and its token verifier.
func NewScenarioHandler(engine service.ScenarioEngine, logger *zap.Logger, jwtSecret string) *ScenarioHandler {
	verifier, err := auth.NewJWTVerifier(jwtSecret, logger)
	if err != nil {
		logger.Fatal("Failed to create JWT Verifier", zap.Error(err))
	}
	return &ScenarioHandler{
		engine:   engine,
		logger:   logger.Named("ScenarioHandler"),
		verifier: verifier,
	}
}

// RegisterRoutes attaches all routes to the Echo instance.
func (h *ScenarioHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api", middleware.EchoAuthMiddleware(h.verifier.VerifyToken, h.logger))
	api.POST("/scenarios/:scenario_id/advance", h.advance)
	api.GET("/scenarios/:scenario_id/position", h.getPosition)
	api.GET("/steps/:id", h.getStep)
}

func (h *ScenarioHandler) advance(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, APIError{Message: err.Error()})
	}

	scenarioID, err := uuid.Parse(c.Param("scenario_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid scenario ID format"})
	}

	var req AdvanceRequestDTO
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
	}
	if req.CurrentStepID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "current_step_id is required"})
	}

	result, err := h.engine.Advance(c.Request().Context(), userID, service.AdvanceRequest{
		ScenarioID:    scenarioID,
		CurrentStepID: req.CurrentStepID,
		ChoiceIndex:   req.ChoiceIndex,
		QuizAnswer:    req.QuizAnswer,
	})
	if err != nil {
		advanceFailuresTotal.Inc()
		if errors.Is(err, models.ErrContentIntegrity) {
			// Server-side fault: authored content is broken. Logged with the
			// step id for content-authoring follow-up.
			h.logger.Error("Content integrity error during advance",
				zap.Stringer("userID", userID),
				zap.Stringer("currentStepID", req.CurrentStepID),
				zap.Error(err))
		}
		return handleServiceError(c, err)
	}

	advancesTotal.WithLabelValues(string(result.Status)).Inc()

	// Gating statuses are normal outcomes and share the success response.
	return c.JSON(http.StatusOK, newAdvanceResponseDTO(result))
}

func (h *ScenarioHandler) getPosition(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, APIError{Message: err.Error()})
	}

	scenarioID, err := uuid.Parse(c.Param("scenario_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid scenario ID format"})
	}

	progress, err := h.engine.GetPosition(c.Request().Context(), userID, scenarioID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, PositionResponseDTO{
		ScenarioID:     progress.ScenarioID,
		CurrentStepID:  progress.CurrentStepID,
		FurthestStepID: progress.FurthestStepID,
		CompletedAt:    progress.CompletedAt,
	})
}

func (h *ScenarioHandler) getStep(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return c.JSON(http.StatusUnauthorized, APIError{Message: err.Error()})
	}

	stepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid step ID format"})
	}

	view, err := h.engine.GetStepView(c.Request().Context(), stepID)
	if err != nil {
		return handleServiceError(c, err)
	}

	dto := StepResponseDTO{
		ID:      view.ID,
		Type:    string(view.Type),
		Content: view.Content,
	}
	if view.Quiz != nil {
		dto.Quiz = &QuizDTO{
			ID:       view.Quiz.ID,
			Question: view.Quiz.Question,
			Options:  view.Quiz.Options,
		}
	}

	return c.JSON(http.StatusOK, dto)
}

func getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userIDVal := c.Get(middleware.UserIDContextKey)
	if userIDVal == nil {
		return uuid.Nil, fmt.Errorf("user_id not found in context")
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid user_id type in context: %T", userIDVal)
	}
	if userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid nil user_id in context")
	}
	return userID, nil
}

func handleServiceError(c echo.Context, err error) error {
	var statusCode int
	var apiErr APIError

	switch {
	case errors.Is(err, models.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		apiErr = APIError{Message: "Unauthorized"}
	case errors.Is(err, models.ErrStepNotFound) || errors.Is(err, models.ErrQuizNotFound) ||
		errors.Is(err, models.ErrProgressNotFound) || errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		apiErr = APIError{Message: "Resource not found or access denied"}
	case errors.Is(err, service.ErrInvalidChoice) || errors.Is(err, service.ErrInvalidQuizAnswer):
		statusCode = http.StatusBadRequest
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, models.ErrBadRequest):
		statusCode = http.StatusBadRequest
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, models.ErrProgressConflict):
		statusCode = http.StatusConflict // 409 Conflict
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, models.ErrContentIntegrity):
		statusCode = http.StatusInternalServerError
		apiErr = APIError{Message: "Scenario content is inconsistent"}
	default:
		statusCode = http.StatusInternalServerError
		apiErr = APIError{Message: "Internal server error"}
	}
	return c.JSON(statusCode, apiErr)
}
