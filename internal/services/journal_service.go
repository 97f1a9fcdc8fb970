package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/necroledger/necroledger-api/internal/models"
	"github.com/necroledger/necroledger-api/internal/repository"
	"github.com/necroledger/necroledger-api/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EntryNumberPrefix starts every generated entry number
const EntryNumberPrefix = "AS-"

// JournalService persists journal entries together with their audit trail
type JournalService struct {
	repos *repository.Repositories
	now   func() time.Time
}

// NewJournalService creates a new journal service
func NewJournalService(repos *repository.Repositories) *JournalService {
	return &JournalService{repos: repos, now: time.Now}
}

// WithNow replaces the clock used for entry numbers
func (s *JournalService) WithNow(now func() time.Time) *JournalService {
	s.now = now
	return s
}

// CreateEntryResult describes a persisted entry
type CreateEntryResult struct {
	Entry     *models.JournalEntry `json:"-"`
	Number    string               `json:"number"`
	Total     decimal.Decimal      `json:"total"`
	LineCount int                  `json:"line_count"`
	Message   string               `json:"message"`
}

// DeleteEntryResult describes a removed entry
type DeleteEntryResult struct {
	Number    string `json:"number"`
	LineCount int64  `json:"line_count"`
	Message   string `json:"message"`
}

// CreateEntry validates the proposal and stores the entry, its lines and a
// CREAR_ASIENTO audit record in a single transaction.
func (s *JournalService) CreateEntry(ctx context.Context, p *EntryProposal) (*CreateEntryResult, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: propuesta vacía", ErrInvalidEntry)
	}
	date := DayStart(p.Date)

	var entry *models.JournalEntry
	total, _ := p.Totals()

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := NewJournalValidator(tx.Journal, tx.Account).Validate(ctx, p); err != nil {
			return err
		}

		entry = &models.JournalEntry{
			Number:      p.Number,
			Date:        date,
			Description: p.Description,
			CreatedBy:   p.CreatedBy,
			Lines:       make([]models.JournalLine, 0, len(p.Lines)),
		}
		for _, l := range p.Lines {
			entry.Lines = append(entry.Lines, models.JournalLine{
				AccountID:   l.AccountID,
				Debit:       l.Debit,
				Credit:      l.Credit,
				Description: l.Description,
			})
		}

		if err := tx.Journal.Create(ctx, entry); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return &DuplicateNumberError{Number: p.Number}
			}
			return fmt.Errorf("guardar asiento: %w", err)
		}

		return tx.Audit.Create(ctx, &models.AuditLog{
			UserID:        p.CreatedBy,
			Action:        models.AuditCreateEntry,
			AffectedTable: models.AuditTableEntries,
			RecordID:      &entry.ID,
			Details:       fmt.Sprintf("Asiento %s creado: %s - Total: %s", entry.Number, entry.Description, FormatMoney(total)),
		})
	})
	if err != nil {
		if !IsDomainError(err) {
			logger.Error("[JournalService] Error creating entry", "number", p.Number, "error", err)
		}
		return nil, err
	}

	logger.Info(fmt.Sprintf("[JournalService] Entry %s created with %d lines", entry.Number, len(entry.Lines)))
	return &CreateEntryResult{
		Entry:     entry,
		Number:    entry.Number,
		Total:     total,
		LineCount: len(entry.Lines),
		Message: fmt.Sprintf("Asiento %s creado exitosamente. Total: %s, Líneas: %d",
			entry.Number, FormatMoney(total), len(entry.Lines)),
	}, nil
}

// DeleteEntry removes an entry and its lines and appends an ELIMINAR_ASIENTO audit record
func (s *JournalService) DeleteEntry(ctx context.Context, entryID, userID uint) (*DeleteEntryResult, error) {
	var result DeleteEntryResult

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		entry, err := tx.Journal.FindByID(ctx, entryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: asiento %d", ErrNotFound, entryID)
			}
			return fmt.Errorf("buscar asiento: %w", err)
		}

		lines, err := tx.Journal.Delete(ctx, entry.ID)
		if err != nil {
			return fmt.Errorf("eliminar asiento: %w", err)
		}
		result.Number = entry.Number
		result.LineCount = lines

		return tx.Audit.Create(ctx, &models.AuditLog{
			UserID:        optionalID(userID),
			Action:        models.AuditDeleteEntry,
			AffectedTable: models.AuditTableEntries,
			RecordID:      &entryID,
			Details:       fmt.Sprintf("Asiento %s eliminado con %d líneas", entry.Number, lines),
		})
	})
	if err != nil {
		if !IsDomainError(err) {
			logger.Error("[JournalService] Error deleting entry", "entry_id", entryID, "error", err)
		}
		return nil, err
	}

	result.Message = fmt.Sprintf("Asiento %s eliminado exitosamente", result.Number)
	logger.Info(fmt.Sprintf("[JournalService] Entry %s deleted (%d lines)", result.Number, result.LineCount))
	return &result, nil
}

// ListEntries returns entries dated within the inclusive day range; nil bounds are open
func (s *JournalService) ListEntries(ctx context.Context, from, to *time.Time) ([]models.JournalEntry, error) {
	var filter repository.JournalFilter
	if from != nil {
		start := DayStart(*from)
		filter.From = &start
	}
	if to != nil {
		end := DayStart(*to).AddDate(0, 0, 1)
		filter.Before = &end
	}
	return s.repos.Journal.List(ctx, filter)
}

// FindEntry returns one entry with its lines
func (s *JournalService) FindEntry(ctx context.Context, entryID uint) (*models.JournalEntry, error) {
	entry, err := s.repos.Journal.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: asiento %d", ErrNotFound, entryID)
		}
		return nil, err
	}
	return entry, nil
}

// GenerateEntryNumber returns AS-YYYYMMDD-NNN for today, NNN being one more
// than the entries already numbered for the day. Concurrent callers may get
// the same number; the second create then fails with ErrDuplicateNumber.
func (s *JournalService) GenerateEntryNumber(ctx context.Context) (string, error) {
	prefix := EntryNumberPrefix + s.now().Format("20060102") + "-"
	count, err := s.repos.Journal.CountByNumberPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("contar asientos del día: %w", err)
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

// DailySummary aggregates the entries of a single day
func (s *JournalService) DailySummary(ctx context.Context, date time.Time) (*models.JournalSummary, error) {
	return s.PeriodSummary(ctx, date, date)
}

// PeriodSummary aggregates the entries dated from..to, both days included
func (s *JournalService) PeriodSummary(ctx context.Context, from, to time.Time) (*models.JournalSummary, error) {
	start := DayStart(from)
	end := DayStart(to)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: la fecha final es anterior a la inicial", ErrInvalidEntry)
	}

	summary, err := s.repos.Journal.Summarize(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	summary.To = end
	return summary, nil
}

// FindUnbalanced returns persisted entries whose lines no longer balance
func (s *JournalService) FindUnbalanced(ctx context.Context) ([]repository.UnbalancedEntry, error) {
	return s.repos.Journal.FindUnbalanced(ctx, BalanceTolerance)
}

// CheckIntegrity logs every unbalanced entry. It runs as a scheduled job.
func (s *JournalService) CheckIntegrity(ctx context.Context) error {
	entries, err := s.FindUnbalanced(ctx)
	if err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	for _, e := range entries {
		logger.Warn("[JournalService] Unbalanced entry",
			"entry_id", e.ID,
			"number", e.Number,
			"total_debit", e.TotalDebit.StringFixed(2),
			"total_credit", e.TotalCredit.StringFixed(2),
		)
	}
	logger.Info(fmt.Sprintf("[JournalService] Integrity check found %d unbalanced entries", len(entries)))
	return nil
}

// DayStart truncates t to midnight UTC of its calendar day
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
