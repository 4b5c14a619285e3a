package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kbzala12/Yt2026Ab/internal/cache"
	"github.com/kbzala12/Yt2026Ab/internal/catalog"
	"github.com/kbzala12/Yt2026Ab/internal/ledger"
	"github.com/kbzala12/Yt2026Ab/internal/logging"
	"github.com/kbzala12/Yt2026Ab/internal/metrics"
	"github.com/kbzala12/Yt2026Ab/internal/resolver"
	"github.com/kbzala12/Yt2026Ab/internal/store"
	"github.com/kbzala12/Yt2026Ab/internal/workflow"
	"github.com/kbzala12/Yt2026Ab/pkg/models"
)

// API wires the HTTP surface to the domain services. The cache is
// optional; when nil, reads go straight to the store.
type API struct {
	ledger   *ledger.Ledger
	workflow *workflow.Service
	catalog  *catalog.Catalog
	cache    *cache.Cache
	log      *logging.Logger
}

// errStatus maps domain errors to HTTP status codes. The error message
// itself is the user-visible text; presentation is the client's job.
func errStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUserNotFound),
		errors.Is(err, workflow.ErrSubmissionNotFound),
		errors.Is(err, catalog.ErrVideoNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrAlreadyClaimed),
		errors.Is(err, ledger.ErrDailyLimitReached),
		errors.Is(err, ledger.ErrWouldExceedLimit),
		errors.Is(err, ledger.ErrSubmissionLimitReached),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, workflow.ErrDuplicateSubmission),
		errors.Is(err, catalog.ErrDuplicateVideo):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrInvalidVideoURL):
		return http.StatusBadRequest
	case errors.Is(err, resolver.ErrLookupFailed):
		return http.StatusBadGateway
	case errors.Is(err, store.ErrStorage):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (api *API) fail(c *gin.Context, err error) {
	status := errStatus(err)
	if status >= 500 {
		api.log.WithError(err).Errorf("%s %s failed", c.Request.Method, c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// Login endpoint: creates the account on first login
func (api *API) login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := api.ledger.GetOrCreate(c.Request.Context(), req.Username)
	if err != nil {
		api.fail(c, err)
		return
	}

	api.invalidateUser(c, user.ID)
	c.JSON(http.StatusOK, user)
}

// Get user endpoint
func (api *API) getUser(c *gin.Context) {
	userID := c.Param("id")

	if api.cache != nil {
		if user, err := api.cache.GetUser(c.Request.Context(), userID); err == nil && user != nil {
			metrics.RecordCacheAccess("user", true)
			c.JSON(http.StatusOK, user)
			return
		}
		metrics.RecordCacheAccess("user", false)
	}

	user, err := api.ledger.Get(c.Request.Context(), userID)
	if err != nil {
		api.fail(c, err)
		return
	}

	if api.cache != nil {
		if err := api.cache.SetUser(c.Request.Context(), user); err != nil {
			api.log.WithError(err).Warn("failed to cache user")
		}
	}

	c.JSON(http.StatusOK, user)
}

// List users endpoint: public reduced view
func (api *API) listUsers(c *gin.Context) {
	users, err := api.ledger.List(c.Request.Context())
	if err != nil {
		api.fail(c, err)
		return
	}

	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}

	c.JSON(http.StatusOK, gin.H{"users": out})
}

// Claim daily bonus endpoint
func (api *API) claimDailyBonus(c *gin.Context) {
	userID := c.Param("id")

	user, err := api.ledger.ClaimDailyBonus(c.Request.Context(), userID)
	if err != nil {
		api.fail(c, err)
		return
	}

	api.invalidateUser(c, userID)
	c.JSON(http.StatusOK, user)
}

// Award watch reward endpoint
func (api *API) awardWatchReward(c *gin.Context) {
	userID := c.Param("id")

	user, err := api.ledger.AwardWatchReward(c.Request.Context(), userID)
	if err != nil {
		api.fail(c, err)
		return
	}

	api.invalidateUser(c, userID)
	c.JSON(http.StatusOK, user)
}

// Submit video endpoint
func (api *API) submitVideo(c *gin.Context) {
	var req struct {
		UserID   string `json:"user_id" binding:"required"`
		VideoURL string `json:"video_url" binding:"required"`
		Title    string `json:"title" binding:"required"`
		BotID    string `json:"bot_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := api.workflow.Submit(c.Request.Context(), req.UserID, req.VideoURL, req.Title, req.BotID)
	if err != nil {
		api.fail(c, err)
		return
	}

	api.invalidateUser(c, req.UserID)
	c.JSON(http.StatusCreated, user)
}

// List submissions endpoint: newest first
func (api *API) listSubmissions(c *gin.Context) {
	subs, err := api.workflow.ListPending(c.Request.Context())
	if err != nil {
		api.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

// Approve submission endpoint
func (api *API) approveSubmission(c *gin.Context) {
	submissionID := c.Param("id")

	if err := api.workflow.Approve(c.Request.Context(), submissionID); err != nil {
		api.fail(c, err)
		return
	}

	api.invalidateCatalog(c)
	c.JSON(http.StatusOK, gin.H{"message": "Submission approved", "submission_id": submissionID})
}

// Reject submission endpoint
func (api *API) rejectSubmission(c *gin.Context) {
	submissionID := c.Param("id")

	if err := api.workflow.Reject(c.Request.Context(), submissionID); err != nil {
		api.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission rejected", "submission_id": submissionID})
}

// Delete all submissions endpoint
func (api *API) deleteAllSubmissions(c *gin.Context) {
	if err := api.workflow.DeleteAllSubmissions(c.Request.Context()); err != nil {
		api.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All submissions have been deleted"})
}

// List published videos endpoint
func (api *API) listVideos(c *gin.Context) {
	if api.cache != nil {
		if videos, err := api.cache.GetCatalog(c.Request.Context()); err == nil && videos != nil {
			metrics.RecordCacheAccess("catalog", true)
			c.JSON(http.StatusOK, gin.H{"videos": videos})
			return
		}
		metrics.RecordCacheAccess("catalog", false)
	}

	videos, err := api.catalog.List(c.Request.Context())
	if err != nil {
		api.fail(c, err)
		return
	}

	if api.cache != nil {
		if err := api.cache.SetCatalog(c.Request.Context(), videos); err != nil {
			api.log.WithError(err).Warn("failed to cache catalog")
		}
	}

	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

// Admin add video endpoint
func (api *API) addVideo(c *gin.Context) {
	var req struct {
		VideoURL    string `json:"video_url" binding:"required"`
		Title       string `json:"title" binding:"required"`
		SubmittedBy string `json:"submitted_by" binding:"required"`
		BotID       string `json:"bot_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video, err := api.workflow.AdminAddVideo(c.Request.Context(), req.VideoURL, req.Title, req.SubmittedBy, req.BotID)
	if err != nil {
		api.fail(c, err)
		return
	}

	api.invalidateCatalog(c)
	c.JSON(http.StatusCreated, video)
}

// Delete published video endpoint
func (api *API) deleteVideo(c *gin.Context) {
	videoID := c.Param("id")

	if err := api.workflow.RemoveVideo(c.Request.Context(), videoID); err != nil {
		api.fail(c, err)
		return
	}

	api.invalidateCatalog(c)
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted", "video_id": videoID})
}

func (api *API) invalidateUser(c *gin.Context, userID string) {
	if api.cache == nil {
		return
	}
	if err := api.cache.DeleteUser(c.Request.Context(), userID); err != nil {
		api.log.WithError(err).Warn("failed to invalidate cached user")
	}
}

func (api *API) invalidateCatalog(c *gin.Context) {
	if api.cache == nil {
		return
	}
	if err := api.cache.InvalidateCatalog(c.Request.Context()); err != nil {
		api.log.WithError(err).Warn("failed to invalidate cached catalog")
	}
}
