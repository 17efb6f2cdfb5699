package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"healthlink-backend/controllers"
	"healthlink-backend/lifecycle"
	"healthlink-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires controllers to routes.
func SetupRouter(
	ac *controllers.AuthController,
	uc *controllers.UserController,
	rc *controllers.ReportController,
	cc *controllers.CampaignController,
	xc *controllers.ConsultationController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", ac.Register)
			authRoutes.POST("/login", ac.Login)
		}

		users := api.Group("/users", middleware.RequireAuth())
		{
			users.GET("/me", uc.Me)
			users.PUT("/me", uc.UpdateMe)
			users.GET("", middleware.RequireCapability(lifecycle.CapManageUsers), uc.GetUsers)
		}

		reports := api.Group("/reports", middleware.RequireAuth())
		{
			reports.GET("", rc.GetReports)
			reports.POST("", rc.CreateReport)
			reports.GET("/:id", rc.GetReport)
			reports.PATCH("/:id/status", rc.UpdateReportStatus)
			reports.POST("/:id/followups", rc.AddFollowUp)
			reports.DELETE("/:id", rc.DeleteReport)
		}

		// listings stay readable without a token; the resolver treats the
		// anonymous viewer as least privileged
		campaigns := api.Group("/campaigns")
		{
			campaigns.GET("", middleware.OptionalAuth(), cc.GetCampaigns)
			campaigns.GET("/:id", middleware.OptionalAuth(), cc.GetCampaign)
			campaigns.GET("/:id/action", middleware.OptionalAuth(), cc.GetCampaignAction)

			campaigns.POST("", middleware.RequireAuth(), cc.CreateCampaign)
			campaigns.POST("/:id/register", middleware.RequireAuth(), cc.RegisterForCampaign)
			campaigns.POST("/:id/cancel", middleware.RequireAuth(), cc.CancelCampaign)
			campaigns.DELETE("/:id", middleware.RequireAuth(), cc.DeleteCampaign)
		}

		consultations := api.Group("/consultations", middleware.RequireAuth())
		{
			consultations.GET("", xc.GetConsultations)
			consultations.POST("", xc.RequestConsultation)
			consultations.GET("/:id", xc.GetConsultation)
			consultations.GET("/:id/action", xc.GetConsultationAction)
			consultations.GET("/:id/countdown", xc.GetConsultationCountdown)
			consultations.POST("/:id/respond", xc.RespondToConsultation)
			consultations.POST("/:id/cancel", xc.CancelConsultation)
			consultations.GET("/:id/join", xc.JoinConsultation)
		}
	}

	return r
}
