package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	config "github.com/lifeline/blood-donation-go/config"
	middleware "github.com/lifeline/blood-donation-go/middleware"
	models "github.com/lifeline/blood-donation-go/models"
	store "github.com/lifeline/blood-donation-go/store"
	utils "github.com/lifeline/blood-donation-go/utils"
)

// uploadThumbnail stores the optional multipart "image" file and returns
// its URL. An empty URL with ok=true means no file was sent.
func uploadThumbnail(cfg *config.Config, c *gin.Context) (string, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return "", true
	}
	fileHeader, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", true
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return "", false
	}
	if cfg.Images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads are not configured"})
		return "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
		return "", false
	}
	defer file.Close()

	url, err := cfg.Images.Upload(c.Request.Context(), file, utils.BlogFolder)
	if err != nil {
		cfg.Logger.Error().Err(err).Str("file", fileHeader.Filename).Msg("thumbnail upload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed", "file": fileHeader.Filename})
		return "", false
	}
	return url, true
}

// ---------------- CREATE ----------------
func CreatePost(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title     string `form:"title" json:"title" binding:"required"`
			Content   string `form:"content" json:"content" binding:"required"`
			Thumbnail string `form:"thumbnail" json:"thumbnail" binding:"omitempty,url"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		thumbnail, ok := uploadThumbnail(cfg, c)
		if !ok {
			return
		}
		if thumbnail == "" {
			thumbnail = input.Thumbnail
		}

		now := time.Now().UTC()
		post := models.BlogPost{
			Title:       input.Title,
			Thumbnail:   thumbnail,
			Content:     input.Content,
			Status:      models.PostDraft,
			AuthorEmail: middleware.CurrentEmail(c),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := readCtx(c)
		defer cancel()

		res, err := cfg.Store.Posts.Insert(ctx, &post)
		if err != nil {
			internalError(cfg, c, err, "could not create post")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"insertedId": res.InsertedID})
	}
}

func listPosts(cfg *config.Config, c *gin.Context, status models.PostStatus) {
	ctx, cancel := listCtx(c)
	defer cancel()

	posts, err := cfg.Store.Posts.List(ctx, status)
	if err != nil {
		internalError(cfg, c, err, "could not fetch posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// ---------------- LIST (dashboard) ----------------
func ListPosts(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var status models.PostStatus
		if s := c.Query("status"); s != "" {
			st, err := models.ParsePostStatus(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			status = st
		}
		listPosts(cfg, c, status)
	}
}

// ---------------- LIST (public) ----------------
func ListPublicPosts(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		listPosts(cfg, c, models.PostPublished)
	}
}

// ---------------- GET ----------------
func GetPost(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, ok := paramObjectID(c, "post")
		if !ok {
			return
		}

		ctx, cancel := readCtx(c)
		defer cancel()

		post, err := cfg.Store.Posts.FindByID(ctx, oid)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		if err != nil {
			internalError(cfg, c, err, "could not fetch post")
			return
		}

		if notModified(c, utils.GenerateETag(post.ID, post.UpdatedAt)) {
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// ---------------- UPDATE ----------------
func UpdatePost(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, ok := paramObjectID(c, "post")
		if !ok {
			return
		}

		var input struct {
			Title     string `form:"title" json:"title"`
			Content   string `form:"content" json:"content"`
			Thumbnail string `form:"thumbnail" json:"thumbnail" binding:"omitempty,url"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		thumbnail, ok := uploadThumbnail(cfg, c)
		if !ok {
			return
		}
		if thumbnail == "" {
			thumbnail = input.Thumbnail
		}

		update := bson.M{"updatedAt": time.Now().UTC()}
		if input.Title != "" {
			update["title"] = input.Title
		}
		if input.Content != "" {
			update["content"] = input.Content
		}
		if thumbnail != "" {
			update["thumbnail"] = thumbnail
		}
		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := readCtx(c)
		defer cancel()

		res, err := cfg.Store.Posts.Update(ctx, oid, update)
		if err != nil {
			internalError(cfg, c, err, "failed to update post")
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusOK, updateResult(res))
	}
}

// ---------------- STATUS ----------------
func UpdatePostStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, ok := paramObjectID(c, "post")
		if !ok {
			return
		}

		var input struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status, err := models.ParsePostStatus(input.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := readCtx(c)
		defer cancel()

		res, err := cfg.Store.Posts.Update(ctx, oid, bson.M{"status": status, "updatedAt": time.Now().UTC()})
		if err != nil {
			internalError(cfg, c, err, "failed to update post status")
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusOK, updateResult(res))
	}
}

// ---------------- DELETE ----------------
func DeletePost(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, ok := paramObjectID(c, "post")
		if !ok {
			return
		}

		ctx, cancel := readCtx(c)
		defer cancel()

		existing, err := cfg.Store.Posts.FindByID(ctx, oid)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		if err != nil {
			internalError(cfg, c, err, "could not fetch post")
			return
		}

		res, err := cfg.Store.Posts.Delete(ctx, oid)
		if err != nil {
			internalError(cfg, c, err, "failed to delete post")
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}

		if cfg.Images != nil && strings.Contains(existing.Thumbnail, "res.cloudinary.com") {
			if err := cfg.Images.Delete(c.Request.Context(), existing.Thumbnail); err != nil {
				cfg.Logger.Warn().Err(err).Str("post", oid.Hex()).Msg("thumbnail cleanup failed")
			}
		}

		c.JSON(http.StatusOK, gin.H{"deletedCount": res.DeletedCount, "id": oid.Hex()})
	}
}
