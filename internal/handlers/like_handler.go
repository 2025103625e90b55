package handlers

import (
	"net/http"

	"github.com/anonto42/cafe-likes/internal/metrics"
	"github.com/anonto42/cafe-likes/internal/middleware"
	"github.com/anonto42/cafe-likes/internal/models"
	"github.com/anonto42/cafe-likes/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LikeHandler handles HTTP requests related to cafe likes
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, m *metrics.Metrics, logger *zap.Logger) *LikeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LikeHandler{
		likeRepository: likeRepo,
		metrics:        m,
		logger:         logger,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.GET("/likes", h.GetUserLikeStatusForCafe)
	g.GET("/likes/count", h.GetLikesCountForCafe)
	g.GET("/likes/mine", h.GetLikedCafes)
	g.POST("/like", h.LikeCafe)
	g.POST("/unlike", h.UnlikeCafe)
}

// GetUserLikeStatusForCafe reports whether the current user likes a cafe
func (h *LikeHandler) GetUserLikeStatusForCafe(c echo.Context) error {
	var q models.LikeStatusQuery
	if err := h.bindAndValidate(c, "status", &q); err != nil {
		return err
	}

	liked, err := h.likeRepository.HasUserLikedCafe(q.CafeID, middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.metrics.Observe("status", metrics.OutcomeRead)
	return c.JSON(http.StatusOK, models.LikeStatusResponse{Likes: liked})
}

// GetLikesCountForCafe returns the number of users that like a cafe
func (h *LikeHandler) GetLikesCountForCafe(c echo.Context) error {
	var q models.LikeStatusQuery
	if err := h.bindAndValidate(c, "count", &q); err != nil {
		return err
	}

	count, err := h.likeRepository.GetLikesCountByCafeID(q.CafeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.metrics.Observe("count", metrics.OutcomeRead)
	return c.JSON(http.StatusOK, echo.Map{"cafe_id": q.CafeID, "likes_count": count})
}

// GetLikedCafes lists the cafes the current user likes
func (h *LikeHandler) GetLikedCafes(c echo.Context) error {
	ids, err := h.likeRepository.GetLikedCafeIDs(middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.metrics.Observe("mine", metrics.OutcomeRead)
	return c.JSON(http.StatusOK, echo.Map{"cafe_ids": ids})
}

// LikeCafe handles liking a cafe. Liking twice is not an error.
func (h *LikeHandler) LikeCafe(c echo.Context) error {
	var req models.LikeRequest
	if err := h.bindAndValidate(c, "like", &req); err != nil {
		return err
	}

	userID := middleware.UserID(c)
	created, err := h.likeRepository.CreateLike(&models.Like{CafeID: req.CafeID, UserID: userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.record("like", created, req.CafeID, userID)
	return c.JSON(http.StatusOK, models.LikeMutationResponse{CafeID: req.CafeID, Likes: true})
}

// UnlikeCafe handles unliking a cafe. Unliking a cafe that is not liked is not an error.
func (h *LikeHandler) UnlikeCafe(c echo.Context) error {
	var req models.LikeRequest
	if err := h.bindAndValidate(c, "unlike", &req); err != nil {
		return err
	}

	userID := middleware.UserID(c)
	deleted, err := h.likeRepository.DeleteLike(req.CafeID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.record("unlike", deleted, req.CafeID, userID)
	return c.JSON(http.StatusOK, models.LikeMutationResponse{CafeID: req.CafeID, Likes: false})
}

func (h *LikeHandler) bindAndValidate(c echo.Context, action string, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		h.metrics.Observe(action, metrics.OutcomeRejected)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(dst); err != nil {
		h.metrics.Observe(action, metrics.OutcomeRejected)
		return err
	}
	return nil
}

func (h *LikeHandler) record(action string, changed bool, cafeID int64, userID string) {
	outcome := metrics.OutcomeUnchanged
	if changed {
		outcome = metrics.OutcomeChanged
	}
	h.metrics.Observe(action, outcome)
	h.logger.Info("like updated",
		zap.String("action", action),
		zap.Int64("cafe_id", cafeID),
		zap.String("user_id", userID),
		zap.Bool("changed", changed))
}
