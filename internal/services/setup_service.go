package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/necroledger/necroledger-api/internal/models"
	"github.com/necroledger/necroledger-api/internal/repository"
	"github.com/necroledger/necroledger-api/pkg/logger"
	"gorm.io/gorm"
)

// AdminUsername is the operator created on first start
const AdminUsername = "admin"

// DefaultAccounts is the basic chart of accounts created on first start
var DefaultAccounts = []models.Account{
	{Code: "1", Name: "ACTIVOS", Category: models.CategoryAsset, Description: "Cuenta de control de activos"},
	{Code: "1.1", Name: "CAJA GENERAL", Category: models.CategoryAsset, Description: "Efectivo en caja"},
	{Code: "1.2", Name: "BANCOS", Category: models.CategoryAsset, Description: "Cuentas bancarias"},
	{Code: "1.3", Name: "CUENTAS POR COBRAR", Category: models.CategoryAsset, Description: "Clientes por cobrar"},
	{Code: "1.4", Name: "INVENTARIOS", Category: models.CategoryAsset, Description: "Mercaderías en stock"},

	{Code: "2", Name: "PASIVOS", Category: models.CategoryLiability, Description: "Cuenta de control de pasivos"},
	{Code: "2.1", Name: "CUENTAS POR PAGAR", Category: models.CategoryLiability, Description: "Proveedores por pagar"},
	{Code: "2.2", Name: "PRÉSTAMOS BANCARIOS", Category: models.CategoryLiability, Description: "Deudas con bancos"},

	{Code: "3", Name: "PATRIMONIO", Category: models.CategoryEquity, Description: "Cuenta de control de patrimonio"},
	{Code: "3.1", Name: "CAPITAL SOCIAL", Category: models.CategoryEquity, Description: "Capital de los socios"},
	{Code: "3.2", Name: "UTILIDADES ACUMULADAS", Category: models.CategoryEquity, Description: "Ganancias retenidas"},

	{Code: "4", Name: "INGRESOS", Category: models.CategoryIncome, Description: "Cuenta de control de ingresos"},
	{Code: "4.1", Name: "VENTAS", Category: models.CategoryIncome, Description: "Ingresos por ventas"},
	{Code: "4.2", Name: "SERVICIOS", Category: models.CategoryIncome, Description: "Ingresos por servicios"},

	{Code: "5", Name: "GASTOS", Category: models.CategoryExpense, Description: "Cuenta de control de gastos"},
	{Code: "5.1", Name: "GASTOS DE VENTAS", Category: models.CategoryExpense, Description: "Gastos operativos de ventas"},
	{Code: "5.2", Name: "GASTOS ADMINISTRATIVOS", Category: models.CategoryExpense, Description: "Gastos de administración"},
	{Code: "5.3", Name: "GASTOS FINANCIEROS", Category: models.CategoryExpense, Description: "Intereses y gastos financieros"},
}

// SetupReport lists what EnsureDefaults created
type SetupReport struct {
	AdminCreated    bool     `json:"admin_created"`
	AccountsCreated []string `json:"accounts_created"`
}

// SetupService seeds a fresh database
type SetupService struct {
	repos         *repository.Repositories
	adminPassword string
}

// NewSetupService creates a new setup service
func NewSetupService(repos *repository.Repositories, adminPassword string) *SetupService {
	return &SetupService{repos: repos, adminPassword: adminPassword}
}

// EnsureDefaults creates the admin user and any missing default account. Existing records are left untouched.
func (s *SetupService) EnsureDefaults(ctx context.Context) (*SetupReport, error) {
	report := &SetupReport{AccountsCreated: []string{}}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		created, err := s.ensureAdmin(ctx, tx)
		if err != nil {
			return err
		}
		report.AdminCreated = created

		for _, def := range DefaultAccounts {
			_, err := tx.Account.FindByCode(ctx, def.Code)
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("buscar cuenta %s: %w", def.Code, err)
			}
			account := def
			account.Active = true
			if err := tx.Account.Create(ctx, &account); err != nil {
				return fmt.Errorf("crear cuenta %s: %w", def.Code, err)
			}
			report.AccountsCreated = append(report.AccountsCreated, def.Code)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if report.AdminCreated {
		logger.Info(fmt.Sprintf("[SetupService] User %s created", AdminUsername))
	}
	if len(report.AccountsCreated) > 0 {
		logger.Info(fmt.Sprintf("[SetupService] Created %d default accounts", len(report.AccountsCreated)))
	}
	return report, nil
}

func (s *SetupService) ensureAdmin(ctx context.Context, tx *repository.Repositories) (bool, error) {
	_, err := tx.User.FindByUsername(ctx, AdminUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("buscar usuario admin: %w", err)
	}
	if s.adminPassword == "" {
		return false, errors.New("ADMIN_PASSWORD no configurado")
	}

	hash, err := HashPassword(s.adminPassword)
	if err != nil {
		return false, err
	}
	admin := &models.User{
		Username:     AdminUsername,
		PasswordHash: hash,
		Email:        "admin@necroledger.com",
		Active:       true,
	}
	if err := tx.User.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("crear usuario admin: %w", err)
	}
	return true, nil
}
