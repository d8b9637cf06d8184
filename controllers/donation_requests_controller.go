package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	config "github.com/lifeline/blood-donation-go/config"
	middleware "github.com/lifeline/blood-donation-go/middleware"
	models "github.com/lifeline/blood-donation-go/models"
	store "github.com/lifeline/blood-donation-go/store"
	utils "github.com/lifeline/blood-donation-go/utils"
)

type donationRequestInput struct {
	RequesterName string `json:"requesterName"`
	RecipientName string `json:"recipientName" binding:"required"`
	District      string `json:"district" binding:"required"`
	Upazila       string `json:"upazila" binding:"required"`
	HospitalName  string `json:"hospitalName" binding:"required"`
	FullAddress   string `json:"fullAddress"`
	BloodGroup    string `json:"bloodGroup" binding:"required,bloodgroup"`
	DonationDate  string `json:"donationDate" binding:"required,datetime=2006-01-02"`
	DonationTime  string `json:"donationTime" binding:"required,datetime=15:04"`
	Message       string `json:"message"`
}

// ---------------- CREATE ----------------
func CreateDonationRequest(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input donationRequestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := readCtx(c)
		defer cancel()

		email := middleware.CurrentEmail(c)
		requester, err := cfg.Store.Users.FindByEmail(ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"message": "register before creating a donation request"})
			return
		}
		if err != nil {
			internalError(cfg, c, err, "could not look up requester")
			return
		}
		if requester.IsBlocked() {
			c.JSON(http.StatusForbidden, gin.H{"message": "blocked users cannot create donation requests"})
			return
		}

		name := input.RequesterName
		if name == "" {
			name = requester.Name
		}

		now := time.Now().UTC()
		req := models.DonationRequest{
			RequesterName:  name,
			RequesterEmail: email,
			RecipientName:  input.RecipientName,
			District:       input.District,
			Upazila:        input.Upazila,
			HospitalName:   input.HospitalName,
			FullAddress:    input.FullAddress,
			BloodGroup:     input.BloodGroup,
			DonationDate:   input.DonationDate,
			DonationTime:   input.DonationTime,
			Message:        input.Message,
			Status:         models.StatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		res, err := cfg.Store.Requests.Insert(ctx, &req)
		if err != nil {
			internalError(cfg, c, err, "could not create donation request")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"insertedId": res.InsertedID})
	}
}

func statusFilter(c *gin.Context) (models.DonationStatus, bool) {
	s := c.Query("status")
	if s == "" {
		return "", true
	}
	st, err := models.ParseDonationStatus(s)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return st, true
}

func listRequests(cfg *config.Config, c *gin.Context, f store.RequestFilter) {
	p, ok := pageFromQuery(c)
	if !ok {
		return
	}

	ctx, cancel := listCtx(c)
	defer cancel()

	page, err := cfg.Store.Requests.List(ctx, f, p)
	if err != nil {
		internalError(cfg, c, err, "could not fetch donation requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": page.Items, "totalCount": page.Total})
}

// ---------------- LIST (own) ----------------
func ListMyDonationRequests(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := middleware.CurrentEmail(c)
		if q := c.Query("email"); q != "" && q != email {
			c.JSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}
		status, ok := statusFilter(c)
		if !ok {
			return
		}
		listRequests(cfg, c, store.RequestFilter{RequesterEmail: email, Status: status})
	}
}

// ---------------- LIST (admin / volunteer) ----------------
func ListAllDonationRequests(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := statusFilter(c)
		if !ok {
			return
		}
		listRequests(cfg, c, store.RequestFilter{Status: status})
	}
}

// ---------------- LIST (public) ----------------
func ListPublicDonationRequests(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		listRequests(cfg, c, store.RequestFilter{Status: models.StatusPending})
	}
}

// loadRequest fetches the :id request, writing 400/404/500 itself.
func loadRequest(ctx context.Context, cfg *config.Config, c *gin.Context) (*models.DonationRequest, bool) {
	oid, ok := paramObjectID(c, "donation request")
	if !ok {
		return nil, false
	}
	req, err := cfg.Store.Requests.FindByID(ctx, oid)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "donation request not found"})
		return nil, false
	}
	if err != nil {
		internalError(cfg, c, err, "could not fetch donation request")
		return nil, false
	}
	return req, true
}

// loadOwnRequest is loadRequest plus a requester ownership check.
func loadOwnRequest(ctx context.Context, cfg *config.Config, c *gin.Context) (*models.DonationRequest, bool) {
	req, ok := loadRequest(ctx, cfg, c)
	if !ok {
		return nil, false
	}
	if req.RequesterEmail != middleware.CurrentEmail(c) {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
		return nil, false
	}
	return req, true
}

// ---------------- GET ----------------
func GetDonationRequest(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := readCtx(c)
		defer cancel()

		req, ok := loadRequest(ctx, cfg, c)
		if !ok {
			return
		}
		if notModified(c, utils.GenerateETag(req.ID, req.UpdatedAt)) {
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

// transition moves req to the target status and writes the response. The
// write is guarded on the status that was read so a concurrent change
// surfaces as 409.
func transition(ctx context.Context, cfg *config.Config, c *gin.Context, req *models.DonationRequest, to models.DonationStatus, extra bson.M) bool {
	if _, err := req.Status.Transition(to); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return false
	}

	set := bson.M{"status": to, "updatedAt": time.Now().UTC()}
	for k, v := range extra {
		set[k] = v
	}

	res, err := cfg.Store.Requests.UpdateStatus(ctx, req.ID, req.Status, set)
	if err != nil {
		internalError(cfg, c, err, "failed to update donation request status")
		return false
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "donation request changed, reload and retry"})
		return false
	}
	c.JSON(http.StatusOK, updateResult(res))
	return true
}

func bindStatus(c *gin.Context) (models.DonationStatus, bool) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	st, err := models.ParseDonationStatus(input.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return st, true
}

// ---------------- UPDATE (owner) ----------------
func UpdateDonationRequest(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			RequesterName string `json:"requesterName"`
			RecipientName string `json:"recipientName"`
			District      string `json:"district"`
			Upazila       string `json:"upazila"`
			HospitalName  string `json:"hospitalName"`
			FullAddress   string `json:"fullAddress"`
			BloodGroup    string `json:"bloodGroup" binding:"omitempty,bloodgroup"`
			DonationDate  string `json:"donationDate" binding:"omitempty,datetime=2006-01-02"`
			DonationTime  string `json:"donationTime" binding:"omitempty,datetime=15:04"`
			Message       string `json:"message"`
			Status        string `json:"status"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{}
		for field, v := range map[string]string{
			"requesterName": input.RequesterName,
			"recipientName": input.RecipientName,
			"district":      input.District,
			"upazila":       input.Upazila,
			"hospitalName":  input.HospitalName,
			"fullAddress":   input.FullAddress,
			"bloodGroup":    input.BloodGroup,
			"donationDate":  input.DonationDate,
			"donationTime":  input.DonationTime,
			"message":       input.Message,
		} {
			if v != "" {
				update[field] = v
			}
		}

		var status models.DonationStatus
		if input.Status != "" {
			st, err := models.ParseDonationStatus(input.Status)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			status = st
		}
		if len(update) == 0 && status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := readCtx(c)
		defer cancel()

		req, ok := loadOwnRequest(ctx, cfg, c)
		if !ok {
			return
		}

		if status != "" {
			transition(ctx, cfg, c, req, status, update)
			return
		}

		update["updatedAt"] = time.Now().UTC()
		res, err := cfg.Store.Requests.Update(ctx, req.ID, update)
		if err != nil {
			internalError(cfg, c, err, "failed to update donation request")
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation request not found"})
			return
		}
		c.JSON(http.StatusOK, updateResult(res))
	}
}

// ---------------- CLAIM (donor) ----------------
func ClaimDonationRequest(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			DonorName string `json:"donorName"`
		}
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&input); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		ctx, cancel := readCtx(c)
		defer cancel()

		req, ok := loadRequest(ctx, cfg, c)
		if !ok {
			return
		}

		donorEmail := middleware.CurrentEmail(c)
		if req.RequesterEmail == donorEmail {
			c.JSON(http.StatusBadRequest, gin.H{"error": "requesters cannot donate to their own request"})
			return
		}
		if req.Status != models.StatusPending && req.Status != "" {
			c.JSON(http.StatusConflict, gin.H{"error": "donation request is no longer pending"})
			return
		}

		donorName := input.DonorName
		if donorName == "" {
			donorName = donorEmail
		}

		claimed := transition(ctx, cfg, c, req, models.StatusInProgress, bson.M{
			"donorName":  donorName,
			"donorEmail": donorEmail,
		})
		if claimed {
			notifyRequester(cfg, c, req, donorName, donorEmail)
		}
	}
}

// notifyRequester emails the requester about the donor. Failures are only
// logged; the claim already succeeded.
func notifyRequester(cfg *config.Config, c *gin.Context, req *models.DonationRequest, donorName, donorEmail string) {
	if cfg.Mailer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	subject, body := utils.DonorFoundEmail(req.RequesterName, donorName, donorEmail, req.DonationDate, req.HospitalName)
	if err := cfg.Mailer.SendEmail(ctx, req.RequesterEmail, req.RequesterName, subject, body); err != nil {
		cfg.Logger.Warn().
			Err(err).
			Str("request_id", middleware.RequestIDFrom(c)).
			Str("donation_request", req.ID.Hex()).
			Msg("donor notification failed")
	}
}

// ---------------- STATUS (owner) ----------------
func UpdateMyDonationStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		to, ok := bindStatus(c)
		if !ok {
			return
		}

		ctx, cancel := readCtx(c)
		defer cancel()

		req, ok := loadOwnRequest(ctx, cfg, c)
		if !ok {
			return
		}
		transition(ctx, cfg, c, req, to, nil)
	}
}

// ---------------- STATUS (admin / volunteer) ----------------
func UpdateDonationStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		to, ok := bindStatus(c)
		if !ok {
			return
		}

		ctx, cancel := readCtx(c)
		defer cancel()

		req, ok := loadRequest(ctx, cfg, c)
		if !ok {
			return
		}
		transition(ctx, cfg, c, req, to, nil)
	}
}

// ---------------- DELETE (owner) ----------------
func DeleteDonationRequest(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := readCtx(c)
		defer cancel()

		req, ok := loadOwnRequest(ctx, cfg, c)
		if !ok {
			return
		}

		res, err := cfg.Store.Requests.Delete(ctx, req.ID)
		if err != nil {
			internalError(cfg, c, err, "failed to delete donation request")
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation request not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deletedCount": res.DeletedCount, "id": req.ID.Hex()})
	}
}
