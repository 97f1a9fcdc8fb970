package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/necroledger/necroledger-api/internal/middleware"
	"github.com/necroledger/necroledger-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	User    *UserHandler
	Account *AccountHandler
	Journal *JournalHandler
	Audit   *AuditHandler
	Job     *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(),
		Auth:    NewAuthHandler(svcs.Auth),
		User:    NewUserHandler(svcs.Auth),
		Account: NewAccountHandler(svcs.Account),
		Journal: NewJournalHandler(svcs.Journal),
		Audit:   NewAuditHandler(svcs.Audit),
		Job:     NewJobHandler(svcs.Job),
	}
}

// RegisterRoutes mounts the API on v1
func (h *Handlers) RegisterRoutes(v1 *gin.RouterGroup, jwtSecret string) {
	// Public
	v1.GET("/health", h.Health.Index)
	v1.POST("/auth/login", h.Auth.Login)

	protected := v1.Group("")
	protected.Use(middleware.Auth(jwtSecret))
	{
		// Users can only change their own password
		protected.PATCH("/users/:user_id/change_password", middleware.RequireOwner(), h.User.ChangePassword)

		protected.GET("/accounts", h.Account.Index)
		protected.GET("/accounts/:account_id", h.Account.Show)

		journal := protected.Group("/journal")
		{
			journal.GET("/entries", h.Journal.Index)
			journal.POST("/entries", h.Journal.Create)
			journal.DELETE("/entries/:entry_id", h.Journal.Delete)
			journal.GET("/next_number", h.Journal.NextNumber)
			journal.GET("/summary/daily", h.Journal.DailySummary)
			journal.GET("/summary/period", h.Journal.PeriodSummary)
		}

		protected.GET("/audits", h.Audit.Index)

		protected.GET("/jobs/status", h.Job.Status)
		protected.POST("/jobs/integrity_check", h.Job.RunIntegrityCheck)
	}
}
