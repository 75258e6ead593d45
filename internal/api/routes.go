package api

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/speechprep/speechprep/domain/entities"
	"github.com/speechprep/speechprep/domain/normalizer"
	"github.com/speechprep/speechprep/internal/auth"
	"github.com/speechprep/speechprep/usecase"
)

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, synthesis *usecase.SynthesisService, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "speechprep-server",
		})
	})

	// Token issuance; clients exchange the shared API key for a JWT
	e.POST("/auth/token", func(c echo.Context) error {
		return issueToken(c, logger)
	})

	// API v1 routes
	v1 := e.Group("/api/v1", jwtMiddleware(logger))

	v1.POST("/synthesize", func(c echo.Context) error {
		return synthesize(c, synthesis, logger)
	})

	v1.GET("/languages", listLanguages)
}

// jwtMiddleware validates bearer tokens on the v1 group. Auth is only
// enforced when SPEECHPREP_API_KEY is configured; without it the server
// runs open, which suits local single-user use.
func jwtMiddleware(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if os.Getenv("SPEECHPREP_API_KEY") == "" {
				return next(c)
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" || token == header {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:   "missing_token",
					Message: "Authorization bearer token is required",
				})
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				logger.Warn("Token validation failed", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:   "invalid_token",
					Message: "Token is invalid or expired",
				})
			}

			c.Set("client_id", claims.ClientID)
			return next(c)
		}
	}
}

func issueToken(c echo.Context, logger *zap.Logger) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind token request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.ClientID == "" || req.APIKey == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Client ID and API key are required",
		})
	}

	expected := os.Getenv("SPEECHPREP_API_KEY")
	if expected == "" || req.APIKey != expected {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_credentials",
			Message: "API key is not valid",
		})
	}

	token, expiresAt, err := auth.GenerateClientToken(req.ClientID)
	if err != nil {
		logger.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to generate token",
		})
	}

	return c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}

func synthesize(c echo.Context, synthesis *usecase.SynthesisService, logger *zap.Logger) error {
	var req SynthesizeRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind synthesize request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.Text == "" || req.Language == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Text and language are required",
		})
	}

	requestID := uuid.New().String()
	logger.Info("Synthesize request received",
		zap.String("requestID", requestID),
		zap.String("language", req.Language))

	result, audio, err := synthesis.Synthesize(c.Request().Context(), req.Text, req.Language)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrUnsupportedLanguage):
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "unsupported_language",
				Message: err.Error(),
			})
		case errors.Is(err, normalizer.ErrEmptyResult):
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "empty_result",
				Message: "No speakable text remained after normalization",
			})
		default:
			logger.Error("Synthesis failed",
				zap.String("requestID", requestID),
				zap.Error(err))
			return c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:   "synthesis_failed",
				Message: err.Error(),
			})
		}
	}

	logger.Info("Synthesize request completed",
		zap.String("requestID", requestID),
		zap.String("language", result.Language),
		zap.Int("audioBytes", result.AudioBytes))

	c.Response().Header().Set(echo.HeaderXRequestID, requestID)
	return c.Blob(http.StatusOK, "audio/wav", audio)
}

func listLanguages(c echo.Context) error {
	profiles := entities.Profiles()
	languages := make([]LanguageInfo, 0, len(profiles))
	for _, p := range profiles {
		languages = append(languages, LanguageInfo{Name: p.Name, Code: p.Code})
	}
	return c.JSON(http.StatusOK, languages)
}
