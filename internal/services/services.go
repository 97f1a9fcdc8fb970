package services

import (
	"github.com/necroledger/necroledger-api/internal/config"
	"github.com/necroledger/necroledger-api/internal/jobs"
	"github.com/necroledger/necroledger-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth    *AuthService
	Account *AccountService
	Journal *JournalService
	Audit   *AuditService
	Setup   *SetupService
	Job     *JobService
}

// NewServices creates all service instances. worker may be nil when background jobs are disabled.
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config) *Services {
	journalSvc := NewJournalService(repos)

	return &Services{
		Auth:    NewAuthService(repos, cfg),
		Account: NewAccountService(repos.Account),
		Journal: journalSvc,
		Audit:   NewAuditService(repos.Audit),
		Setup:   NewSetupService(repos, cfg.AdminPassword),
		Job:     NewJobService(worker, journalSvc),
	}
}
