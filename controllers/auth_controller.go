package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	config "github.com/lifeline/blood-donation-go/config"
)

// IssueToken exchanges an email for a bearer token valid for one hour.
func IssueToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		token, err := cfg.Tokens.Issue(strings.ToLower(strings.TrimSpace(input.Email)))
		if err != nil {
			internalError(cfg, c, err, "could not issue token")
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
