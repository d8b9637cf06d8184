package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	config "github.com/lifeline/blood-donation-go/config"
	controllers "github.com/lifeline/blood-donation-go/controllers"
	middleware "github.com/lifeline/blood-donation-go/middleware"
)

// NewRouter builds the engine with the global middleware and every route.
func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	SetupRoutes(r, cfg)
	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "If-None-Match", "X-Request-ID"},
		ExposeHeaders: []string{"ETag", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	verified := middleware.VerifyToken(cfg)
	admin := middleware.RequireAdmin(cfg)
	staff := middleware.RequireAdminOrVolunteer(cfg)

	// public
	r.GET("/", controllers.Root)
	r.POST("/jwt", controllers.IssueToken(cfg))
	r.GET("/districts", controllers.ListDistricts(cfg))
	r.GET("/upazilas", controllers.ListUpazilas(cfg))
	r.GET("/search", controllers.SearchDonors(cfg))
	r.GET("/all-donation-request-public", controllers.ListPublicDonationRequests(cfg))
	r.GET("/public-blogs", controllers.ListPublicPosts(cfg))
	r.GET("/posts/:id", controllers.GetPost(cfg))

	// users
	r.POST("/users", controllers.CreateUser(cfg))
	r.GET("/users", verified, admin, controllers.ListUsers(cfg))
	r.GET("/currentUsers", verified, controllers.GetCurrentUser(cfg))
	r.PATCH("/users/:email", verified, controllers.UpdateUser(cfg))
	r.PATCH("/users/updateStatus/:id", verified, admin, controllers.UpdateUserStatus(cfg))

	// donation requests
	r.POST("/create-donation-request", verified, controllers.CreateDonationRequest(cfg))
	r.GET("/my-donation-request", verified, controllers.ListMyDonationRequests(cfg))
	r.GET("/my-donation-request/:id", verified, controllers.GetDonationRequest(cfg))
	r.DELETE("/my-donation-request/:id", verified, controllers.DeleteDonationRequest(cfg))
	r.PATCH("/my-donation-request/updateStatus/:id", verified, controllers.UpdateMyDonationStatus(cfg))
	r.PATCH("/update-donation-request/:id", verified, controllers.UpdateDonationRequest(cfg))
	r.PATCH("/update-donation-request-done/:id", verified, controllers.ClaimDonationRequest(cfg))
	r.GET("/all-blood-donation-request", verified, staff, controllers.ListAllDonationRequests(cfg))
	r.PATCH("/donation-request/updateStatus/:id", verified, staff, controllers.UpdateDonationStatus(cfg))

	// blog
	r.POST("/posts", verified, staff, controllers.CreatePost(cfg))
	r.GET("/posts", verified, staff, controllers.ListPosts(cfg))
	r.DELETE("/posts/:id", verified, admin, controllers.DeletePost(cfg))
	r.PATCH("/update-blog/:id", verified, admin, controllers.UpdatePost(cfg))
	r.PATCH("/blogs/updateStatus/:id", verified, admin, controllers.UpdatePostStatus(cfg))

	// funding
	r.POST("/create-payment-intent", verified, controllers.CreatePaymentIntent(cfg))
	r.POST("/payment", verified, controllers.RecordPayment(cfg))
	r.GET("/allFunding", verified, controllers.ListFunding(cfg))
	r.GET("/total-funding", verified, staff, controllers.TotalFunding(cfg))

	// dashboard stats
	r.GET("/total-users", verified, staff, controllers.TotalUsers(cfg))
	r.GET("/total-donation-req", verified, staff, controllers.TotalDonationRequests(cfg))
}
