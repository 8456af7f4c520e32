package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"ecommerce/services"

	"github.com/gin-gonic/gin"
)

// Shared handlers for the soft-delete/restore lifecycle carried by users,
// products, orders and categories. Each entity's admin controller exposes
// thin named wrappers around these.

func listActive[T any](c *gin.Context, lc *services.Lifecycle[T], plural string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entities, err := lc.ListActive(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Fetch "+plural+" success", entities)
}

func listDeleted[T any](c *gin.Context, lc *services.Lifecycle[T], plural string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entities, err := lc.ListDeleted(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Fetch deleted "+plural+" success", entities)
}

func softDelete[T any](c *gin.Context, lc *services.Lifecycle[T], name string) {
	id, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := lc.SoftDelete(ctx, id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, capitalized(name)+" deleted", gin.H{"id": id.Hex()})
}

func restore[T any](c *gin.Context, lc *services.Lifecycle[T], name string) {
	id, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := lc.Restore(ctx, id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, capitalized(name)+" restored", gin.H{"id": id.Hex()})
}

func hardDelete[T any](c *gin.Context, lc *services.Lifecycle[T], name string) {
	id, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := lc.HardDelete(ctx, id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, capitalized(name)+" permanently deleted", gin.H{"id": id.Hex()})
}

func capitalized(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
