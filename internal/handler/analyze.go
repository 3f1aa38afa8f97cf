package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/Raman0101/YT-ANALYSIS/internal/middleware"
	"github.com/Raman0101/YT-ANALYSIS/internal/model"
)

// Client-facing messages for failures whose internal text is not exposed.
const (
	MsgChannelNotFound = "Channel not found"
	MsgUnexpected      = "Unexpected server error"
)

// Analyzer produces channel analyses; satisfied by *service.ChannelService.
type Analyzer interface {
	AnalyzeChannel(ctx context.Context, channelName string) (*model.AnalysisResult, error)
}

type AnalyzeHandler struct {
	svc Analyzer
}

func NewAnalyzeHandler(svc Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc}
}

// Analyze handles GET /api/analyze?channelName=...
func (h *AnalyzeHandler) Analyze(c fiber.Ctx) error {
	channelName, errMsg := middleware.ValidateChannelName(fiber.Query[string](c, "channelName"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}

	result, err := h.svc.AnalyzeChannel(c.Context(), channelName)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(result)
}

func (h *AnalyzeHandler) writeError(c fiber.Ctx, err error) error {
	if errors.Is(err, model.ErrChannelNotFound) {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, MsgChannelNotFound)
	}

	var upErr *model.UpstreamError
	if errors.As(err, &upErr) {
		log.Warn().
			Err(err).
			Str("request_id", middleware.RequestIDFrom(c)).
			Str("endpoint", upErr.Endpoint).
			Int("upstream_status", upErr.StatusCode).
			Msg("analyze: upstream failure")
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, upErr.Error())
	}

	log.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Msg("analyze: unexpected failure")
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError, MsgUnexpected)
}
