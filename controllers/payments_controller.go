package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	config "github.com/lifeline/blood-donation-go/config"
	middleware "github.com/lifeline/blood-donation-go/middleware"
	models "github.com/lifeline/blood-donation-go/models"
	payment "github.com/lifeline/blood-donation-go/payment"
)

// ---------------- PAYMENT INTENT ----------------
func CreatePaymentIntent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Price float64 `json:"price" binding:"required,gt=0"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		amount := payment.MinorUnits(input.Price)
		if amount < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price is below the smallest chargeable amount"})
			return
		}
		if cfg.Payments == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": payment.ErrNotConfigured.Error()})
			return
		}

		secret, err := cfg.Payments.CreateIntent(c.Request.Context(), amount, cfg.Currency)
		if err != nil {
			if errors.Is(err, payment.ErrNotConfigured) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				return
			}
			cfg.Logger.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Int64("amount", amount).Msg("payment intent failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment processor error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
	}
}

// ---------------- RECORD PAYMENT ----------------

// RecordPayment stores the client's confirmation as sent. The amount is not
// reconciled against the processor.
func RecordPayment(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email         string     `json:"email" binding:"omitempty,email"`
			Name          string     `json:"name"`
			Amount        float64    `json:"amount" binding:"required,gt=0"`
			TransactionID string     `json:"transactionId" binding:"required"`
			Date          *time.Time `json:"date"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(input.Email)
		if email == "" {
			email = middleware.CurrentEmail(c)
		}
		date := time.Now().UTC()
		if input.Date != nil {
			date = input.Date.UTC()
		}

		p := models.Payment{
			Email:         email,
			Name:          input.Name,
			Amount:        input.Amount,
			TransactionID: input.TransactionID,
			Date:          date,
		}

		ctx, cancel := readCtx(c)
		defer cancel()

		res, err := cfg.Store.Payments.Insert(ctx, &p)
		if err != nil {
			internalError(cfg, c, err, "could not record payment")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"insertedId": res.InsertedID})
	}
}

// ---------------- LIST ----------------
func ListFunding(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := pageFromQuery(c)
		if !ok {
			return
		}

		ctx, cancel := listCtx(c)
		defer cancel()

		page, err := cfg.Store.Payments.List(ctx, p)
		if err != nil {
			internalError(cfg, c, err, "could not fetch funding")
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": page.Items, "totalCount": page.Total})
	}
}

// ---------------- TOTAL ----------------
func TotalFunding(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := listCtx(c)
		defer cancel()

		total, err := cfg.Store.Payments.Total(ctx)
		if err != nil {
			internalError(cfg, c, err, "could not sum funding")
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": total})
	}
}
