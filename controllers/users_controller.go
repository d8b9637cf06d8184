package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	config "github.com/lifeline/blood-donation-go/config"
	middleware "github.com/lifeline/blood-donation-go/middleware"
	models "github.com/lifeline/blood-donation-go/models"
	store "github.com/lifeline/blood-donation-go/store"
)

func updateResult(res *mongo.UpdateResult) gin.H {
	return gin.H{"matchedCount": res.MatchedCount, "modifiedCount": res.ModifiedCount}
}

// ---------------- REGISTER ----------------
func CreateUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name       string `json:"name"`
			Email      string `json:"email" binding:"required,email"`
			Avatar     string `json:"avatar" binding:"omitempty,url"`
			BloodGroup string `json:"bloodGroup" binding:"omitempty,bloodgroup"`
			District   string `json:"district"`
			Upazila    string `json:"upazila"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		email := strings.ToLower(strings.TrimSpace(input.Email))

		ctx, cancel := readCtx(c)
		defer cancel()

		// registration is idempotent per email
		if _, err := cfg.Store.Users.FindByEmail(ctx, email); err == nil {
			c.JSON(http.StatusOK, gin.H{"message": "user already exists", "insertedId": nil})
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			internalError(cfg, c, err, "could not look up user")
			return
		}

		now := time.Now().UTC()
		user := models.User{
			Name:       input.Name,
			Email:      email,
			Avatar:     input.Avatar,
			BloodGroup: input.BloodGroup,
			District:   input.District,
			Upazila:    input.Upazila,
			Role:       models.RoleDonor,
			Status:     models.UserActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		res, err := cfg.Store.Users.Insert(ctx, &user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusOK, gin.H{"message": "user already exists", "insertedId": nil})
				return
			}
			internalError(cfg, c, err, "could not create user")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"insertedId": res.InsertedID})
	}
}

// ---------------- LIST (admin) ----------------
func ListUsers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := pageFromQuery(c)
		if !ok {
			return
		}
		status := c.Query("status")
		if status != "" && !models.ValidUserStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}

		ctx, cancel := listCtx(c)
		defer cancel()

		page, err := cfg.Store.Users.List(ctx, store.UserFilter{Status: status}, p)
		if err != nil {
			internalError(cfg, c, err, "could not fetch users")
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": page.Items, "totalCount": page.Total})
	}
}

// ---------------- CURRENT USER ----------------
func GetCurrentUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.ToLower(strings.TrimSpace(c.Query("email")))
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}
		if email != middleware.CurrentEmail(c) {
			c.JSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}

		ctx, cancel := readCtx(c)
		defer cancel()

		user, err := cfg.Store.Users.FindByEmail(ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			internalError(cfg, c, err, "could not fetch user")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// ---------------- UPDATE PROFILE ----------------
func UpdateUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.ToLower(c.Param("email"))
		if email != middleware.CurrentEmail(c) {
			c.JSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}

		var input struct {
			Name       string `json:"name"`
			Avatar     string `json:"avatar" binding:"omitempty,url"`
			BloodGroup string `json:"bloodGroup" binding:"omitempty,bloodgroup"`
			District   string `json:"district"`
			Upazila    string `json:"upazila"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updatedAt": time.Now().UTC()}
		if input.Name != "" {
			update["name"] = input.Name
		}
		if input.Avatar != "" {
			update["avatar"] = input.Avatar
		}
		if input.BloodGroup != "" {
			update["bloodGroup"] = input.BloodGroup
		}
		if input.District != "" {
			update["district"] = input.District
		}
		if input.Upazila != "" {
			update["upazila"] = input.Upazila
		}
		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := readCtx(c)
		defer cancel()

		res, err := cfg.Store.Users.UpdateByEmail(ctx, email, update)
		if err != nil {
			internalError(cfg, c, err, "failed to update user")
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, updateResult(res))
	}
}

// ---------------- STATUS / ROLE (admin) ----------------
func UpdateUserStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, ok := paramObjectID(c, "user")
		if !ok {
			return
		}

		var input struct {
			Status string `json:"status" binding:"omitempty,userstatus"`
			Role   string `json:"role" binding:"omitempty,userrole"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updatedAt": time.Now().UTC()}
		if input.Status != "" {
			update["status"] = input.Status
		}
		if input.Role != "" {
			update["role"] = input.Role
		}
		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		if me := middleware.CurrentUser(c); me != nil && me.ID == oid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "admins cannot change their own status or role"})
			return
		}

		ctx, cancel := readCtx(c)
		defer cancel()

		res, err := cfg.Store.Users.UpdateByID(ctx, oid, update)
		if err != nil {
			internalError(cfg, c, err, "failed to update user status")
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, updateResult(res))
	}
}
