package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/market"
	"github.com/suiticket/v1/internal/api/http/middleware"
	"github.com/suiticket/v1/internal/api/http/types"
)

// Listings GET /v1/:env/kiosks/:id/listings
//
// 单条挂单物化失败只会让该条缺失或带警告，不影响整体响应。
func (h *Handler) Listings(c *gin.Context) {
	cl, ok := h.client(c)
	if !ok {
		return
	}
	kioskID, ok := address(c, "id")
	if !ok {
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	listings, err := cl.Listings(ctx, kioskID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if listings == nil {
		listings = []market.Listing{}
	}
	respond(c, listings)
}

// Policy GET /v1/:env/policy
func (h *Handler) Policy(c *gin.Context) {
	cl, ok := h.client(c)
	if !ok {
		return
	}
	if !cl.Registry().Available(cl.Env(), config.RolePackage, config.RoleTransferPolicy) {
		h.fail(c, fmt.Errorf("%w: transfer policy (%s)", builder.ErrNotDeployed, cl.Env()))
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	respond(c, cl.Fees().PolicyConfig(ctx, "").View())
}

// Fees GET /v1/:env/fees?price=
//
// price 支持 MIST 整数或带 sui 后缀的小数，如 1.5sui。
func (h *Handler) Fees(c *gin.Context) {
	cl, ok := h.client(c)
	if !ok {
		return
	}
	raw := c.Query("price")
	if raw == "" {
		middleware.WriteError(c, http.StatusBadRequest, types.ErrInvalidArgument, "price is required")
		return
	}
	amount, err := builder.ParseAmount(raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	quote, err := cl.Quote(ctx, amount.Mist())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, quote)
}
