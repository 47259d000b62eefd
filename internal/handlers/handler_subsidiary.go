package handlers

import (
	"net/http"

	portssvc "github.com/finbooks/ledger_core/internal/core/ports/services"
	"github.com/finbooks/ledger_core/internal/dto"
	"github.com/finbooks/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// subsidiaryHandler handles HTTP requests for subsidiary accounts.
type subsidiaryHandler struct {
	subsidiarySvc portssvc.SubsidiarySvcFacade
}

// registerSubsidiaryRoutes registers routes related to subsidiary accounts.
func registerSubsidiaryRoutes(rg *gin.RouterGroup, subsidiarySvc portssvc.SubsidiarySvcFacade) {
	h := &subsidiaryHandler{subsidiarySvc: subsidiarySvc}

	subs := rg.Group("/subsidiaries")
	{
		subs.POST("", h.createSubsidiary)
		subs.GET("/:id", h.getSubsidiary)
		subs.GET("/:id/balance", h.getBalance)
		subs.POST("/:id/credit-check", h.checkCreditLimit)
	}
}

func (h *subsidiaryHandler) createSubsidiary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSubsidiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	sub, err := h.subsidiarySvc.CreateSubsidiary(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create subsidiary account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSubsidiaryResponse(sub))
}

func (h *subsidiaryHandler) getSubsidiary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sub, err := h.subsidiarySvc.GetSubsidiaryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve subsidiary account")
		return
	}
	c.JSON(http.StatusOK, dto.ToSubsidiaryResponse(sub))
}

func (h *subsidiaryHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	balance, err := h.subsidiarySvc.GetSubsidiaryBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to compute subsidiary balance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: balance})
}

func (h *subsidiaryHandler) checkCreditLimit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreditCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	check, err := h.subsidiarySvc.CheckCreditLimit(c.Request.Context(), c.Param("id"), req.ProposedDebit)
	if err != nil {
		respondError(c, logger, err, "Failed to evaluate credit limit")
		return
	}
	c.JSON(http.StatusOK, check)
}
