package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	config "github.com/lifeline/blood-donation-go/config"
	models "github.com/lifeline/blood-donation-go/models"
	store "github.com/lifeline/blood-donation-go/store"
)

func Root(c *gin.Context) {
	c.String(http.StatusOK, "Blood Donation server is running")
}

// ---------------- LOCATIONS ----------------
func ListDistricts(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := listCtx(c)
		defer cancel()

		districts, err := cfg.Store.Locations.Districts(ctx)
		if err != nil {
			internalError(cfg, c, err, "could not fetch districts")
			return
		}
		c.JSON(http.StatusOK, districts)
	}
}

func ListUpazilas(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := listCtx(c)
		defer cancel()

		upazilas, err := cfg.Store.Locations.Upazilas(ctx, c.Query("district_id"))
		if err != nil {
			internalError(cfg, c, err, "could not fetch upazilas")
			return
		}
		c.JSON(http.StatusOK, upazilas)
	}
}

// ---------------- SEARCH ----------------
func SearchDonors(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := store.DonorQuery{
			BloodGroup: c.Query("bloodGroup"),
			District:   c.Query("district"),
			Upazila:    c.Query("upazila"),
		}
		if q.BloodGroup != "" && !models.ValidBloodGroup(q.BloodGroup) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid blood group"})
			return
		}

		ctx, cancel := listCtx(c)
		defer cancel()

		donors, err := cfg.Store.Users.SearchDonors(ctx, q)
		if err != nil {
			internalError(cfg, c, err, "could not search donors")
			return
		}
		c.JSON(http.StatusOK, donors)
	}
}

// ---------------- STATS ----------------
func TotalUsers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := readCtx(c)
		defer cancel()

		n, err := cfg.Store.Users.Count(ctx)
		if err != nil {
			internalError(cfg, c, err, "could not count users")
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": n})
	}
}

func TotalDonationRequests(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := readCtx(c)
		defer cancel()

		n, err := cfg.Store.Requests.Count(ctx, store.RequestFilter{})
		if err != nil {
			internalError(cfg, c, err, "could not count donation requests")
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": n})
	}
}
