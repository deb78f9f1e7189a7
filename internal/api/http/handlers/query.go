package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/suiticket/v1/client/core/reconcile"
	"github.com/suiticket/v1/client/core/session"
)

// Organizer GET /v1/:env/profiles/organizer/:owner
//
// 未注册不是错误，返回 found=false 与原因。
func (h *Handler) Organizer(c *gin.Context) {
	cl, ok := h.client(c)
	if !ok {
		return
	}
	owner, ok := address(c, "owner")
	if !ok {
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	res, err := cl.Reconciler().ResolveOrganizer(ctx, session.New(cl.Env(), owner))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, res)
}

// User GET /v1/:env/profiles/user/:owner
func (h *Handler) User(c *gin.Context) {
	cl, ok := h.client(c)
	if !ok {
		return
	}
	owner, ok := address(c, "owner")
	if !ok {
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	res, err := cl.Reconciler().ResolveUser(ctx, session.New(cl.Env(), owner))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, res)
}

// OwnedTickets GET /v1/:env/accounts/:owner/tickets
func (h *Handler) OwnedTickets(c *gin.Context) {
	cl, ok := h.client(c)
	if !ok {
		return
	}
	owner, ok := address(c, "owner")
	if !ok {
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	tickets, err := cl.Reconciler().OwnedTickets(ctx, session.New(cl.Env(), owner))
	if err != nil {
		h.fail(c, err)
		return
	}
	if tickets == nil {
		tickets = []reconcile.Ticket{}
	}
	respond(c, tickets)
}

// Activity GET /v1/:env/activities/:id
func (h *Handler) Activity(c *gin.Context) {
	cl, ok := h.client(c)
	if !ok {
		return
	}
	id, ok := address(c, "id")
	if !ok {
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	act, err := cl.Reconciler().Activity(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, gin.H{"activity": act, "remaining": act.Remaining()})
}

// Ticket GET /v1/:env/tickets/:id，id 可以是保护对象
func (h *Handler) Ticket(c *gin.Context) {
	cl, ok := h.client(c)
	if !ok {
		return
	}
	id, ok := address(c, "id")
	if !ok {
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	t, err := cl.Reconciler().Ticket(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, gin.H{"ticket": t, "redeemed": t.Redeemed()})
}
