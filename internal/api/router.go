package api

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"parking-reservation-backend/config"
	"parking-reservation-backend/internal/auth"
	"parking-reservation-backend/internal/cache"
	"parking-reservation-backend/internal/jobs"
	"parking-reservation-backend/internal/mailer"
	"parking-reservation-backend/internal/mw"
	"parking-reservation-backend/internal/refdata"
	"parking-reservation-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, c *cache.Keyed, authSvc *auth.Service, queue *jobs.Queue, mail mailer.Sender, ref *refdata.Table) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, c, authSvc, queue, mail, ref)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	requireAuth := mw.RequireAuth(authSvc)
	requireAdmin := mw.RequireAdmin()

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", handler.Register)
			authGroup.POST("/login", handler.Login)
			authGroup.POST("/logout", handler.Logout)
		}

		public := api.Group("/public")
		{
			public.GET("/brands", handler.GetBrands)
			public.GET("/models/:brand_name", handler.GetModels)
			public.GET("/colors", handler.GetColors)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("/me", handler.Me)
			users.GET("/search", handler.SearchLots)
			users.POST("/bookings", handler.BookSpot)
			users.GET("/vehicles/:vehicle_number", handler.GetVehicle)
			users.GET("/reservations", handler.ListReservations)
			users.PUT("/reservations/:reservation_id", handler.ReleaseReservation)
			users.POST("/payments", handler.RecordPayment)
			users.GET("/summary", handler.UserSummary)
			users.POST("/export", handler.ExportUserData)
		}

		api.GET("/jobs/:job_id", requireAuth, handler.JobStatus)

		admin := api.Group("/admin", requireAuth, requireAdmin)
		{
			admin.GET("/parking-lots", handler.ListLots)
			admin.POST("/parking-lots", handler.CreateLot)
			admin.GET("/parking-lots/:lot_id", handler.GetLot)
			admin.PUT("/parking-lots/:lot_id", handler.UpdateLot)
			admin.DELETE("/parking-lots/:lot_id", handler.DeleteLot)
			admin.DELETE("/spots/:spot_id", handler.DeleteSpot)
			admin.GET("/reservations/spot/:spot_id", handler.SpotReservation)
			admin.GET("/search/:search_type", handler.AdminSearch)
			admin.GET("/users", handler.ListUsers)
			admin.GET("/summary", handler.AdminSummary)
		}
	}

	return r
}
