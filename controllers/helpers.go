package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/lifeline/blood-donation-go/config"
	middleware "github.com/lifeline/blood-donation-go/middleware"
	store "github.com/lifeline/blood-donation-go/store"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func readCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 5*time.Second)
}

func listCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 10*time.Second)
}

// pageFromQuery reads the zero-based ?page= and ?size= parameters.
func pageFromQuery(c *gin.Context) (store.Page, bool) {
	p := store.Page{Index: 0, Size: defaultPageSize}
	if v := c.Query("page"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a non-negative integer"})
			return p, false
		}
		p.Index = n
	}
	if v := c.Query("size"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a positive integer"})
			return p, false
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		p.Size = n
	}
	return p, true
}

func paramObjectID(c *gin.Context, what string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what + " id"})
		return oid, false
	}
	return oid, true
}

// internalError logs err and answers with a generic 500.
func internalError(cfg *config.Config, c *gin.Context, err error, msg string) {
	cfg.Logger.Error().
		Err(err).
		Str("request_id", middleware.RequestIDFrom(c)).
		Str("path", c.FullPath()).
		Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// notModified sets the ETag header and reports whether the client already
// holds this version.
func notModified(c *gin.Context, etag string) bool {
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	c.Header("ETag", etag)
	return false
}
