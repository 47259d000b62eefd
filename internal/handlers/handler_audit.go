package handlers

import (
	"net/http"
	"time"

	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_core/internal/core/ports/services"
	"github.com/finbooks/ledger_core/internal/dto"
	"github.com/finbooks/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// auditHandler exposes the audit trail for inspection.
type auditHandler struct {
	auditSvc portssvc.AuditSvcFacade
}

// registerAuditRoutes registers routes for the audit trail.
func registerAuditRoutes(rg *gin.RouterGroup, auditSvc portssvc.AuditSvcFacade) {
	h := &auditHandler{auditSvc: auditSvc}
	rg.GET("/audit-events", h.listEvents)
}

func (h *auditHandler) listEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAuditEventsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	filter := portsrepo.AuditEventFilter{
		Table:     params.Table,
		Operation: params.Operation,
		ActorID:   params.ActorID,
	}
	if params.From != nil {
		filter.From = *params.From
	}
	if params.To != nil {
		// Make the upper bound inclusive of the whole day.
		filter.To = params.To.Add(24*time.Hour - time.Nanosecond)
	}

	events, next, err := h.auditSvc.ListEvents(c.Request.Context(), filter, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list audit events")
		return
	}
	c.JSON(http.StatusOK, dto.ListAuditEventsResponse{
		Events:    dto.ToAuditEventResponses(events),
		NextToken: next,
	})
}
