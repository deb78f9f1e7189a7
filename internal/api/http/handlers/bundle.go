package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/internal/api/http/middleware"
	"github.com/suiticket/v1/internal/api/http/types"
)

// PurchaseListedRequest 购买挂单的请求体
type PurchaseListedRequest struct {
	KioskID   string `json:"kioskId" binding:"required"`
	TicketID  string `json:"ticketId" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
}

func (r PurchaseListedRequest) validate() error {
	for name, v := range map[string]string{"kioskId": r.KioskID, "ticketId": r.TicketID, "recipient": r.Recipient} {
		if _, err := config.ParseAddress(v); err != nil {
			return fmt.Errorf("invalid %s %q: %v", name, v, err)
		}
	}
	return nil
}

// PurchaseListed POST /v1/:env/bundles/purchase-listed
//
// 返回未签名的交易包与费用明细，由调用方自行签名提交。
func (h *Handler) PurchaseListed(c *gin.Context) {
	cl, ok := h.client(c)
	if !ok {
		return
	}
	var req PurchaseListedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.WriteError(c, http.StatusBadRequest, types.ErrInvalidArgument, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		middleware.WriteError(c, http.StatusBadRequest, types.ErrInvalidArgument, err.Error())
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	recipient := config.NormalizeAddress(req.Recipient)
	plan, err := cl.Actions().PlanPurchase(ctx, config.NormalizeAddress(req.KioskID),
		config.NormalizeAddress(req.TicketID), recipient)
	if err != nil {
		h.fail(c, err)
		return
	}
	b, err := cl.Contracts().App.PurchaseListedTicket(plan.Request)
	if err != nil {
		h.fail(c, err)
		return
	}
	b.SetSender(recipient)
	respond(c, types.BundleResponse{Bundle: b, Quote: plan.Quote})
}
