package handlers

import (
	"net/http"

	"github.com/finbooks/ledger_core/internal/core/domain"
	portssvc "github.com/finbooks/ledger_core/internal/core/ports/services"
	"github.com/finbooks/ledger_core/internal/dto"
	"github.com/finbooks/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// entryHandler handles HTTP requests for journal entries: submission, drafts,
// posting and reversal.
type entryHandler struct {
	postingSvc  portssvc.PostingSvcFacade
	reversalSvc portssvc.ReversalSvcFacade
}

// registerEntryRoutes registers routes related to journal entries.
func registerEntryRoutes(rg *gin.RouterGroup, postingSvc portssvc.PostingSvcFacade, reversalSvc portssvc.ReversalSvcFacade) {
	h := &entryHandler{postingSvc: postingSvc, reversalSvc: reversalSvc}

	entries := rg.Group("/entries")
	{
		entries.POST("", h.submitEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.POST("/drafts", h.saveDraft)
		entries.POST("/:id/post", h.postDraft)
		entries.DELETE("/:id", h.discardDraft)
		entries.POST("/:id/reverse", h.reverseEntry)
	}
}

func (h *entryHandler) submitEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	entry, err := h.postingSvc.SubmitEntry(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to post entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

func (h *entryHandler) saveDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	entry, err := h.postingSvc.SaveDraft(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to save draft")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

func (h *entryHandler) postDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID := middleware.GetActorIDFromContext(c)
	entry, err := h.postingSvc.PostDraft(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to post draft")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *entryHandler) discardDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID := middleware.GetActorIDFromContext(c)
	if err := h.postingSvc.DiscardDraft(c.Request.Context(), c.Param("id"), actorID); err != nil {
		respondError(c, logger, err, "Failed to discard draft")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entry, err := h.postingSvc.GetEntryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	var status *domain.EntryStatus
	if params.Status != nil && *params.Status != "" {
		s := domain.EntryStatus(*params.Status)
		status = &s
	}

	entries, next, err := h.postingSvc.ListEntries(c.Request.Context(), status, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: next,
	})
}

func (h *entryHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	reversal, err := h.reversalSvc.ReverseEntry(c.Request.Context(), c.Param("id"), req.Reason, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal))
}
