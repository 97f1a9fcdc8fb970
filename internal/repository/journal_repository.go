package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/necroledger/necroledger-api/internal/models"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JournalRepository defines the interface for journal entry data access
type JournalRepository interface {
	Create(ctx context.Context, entry *models.JournalEntry) error
	FindByID(ctx context.Context, id uint) (*models.JournalEntry, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	CountByNumberPrefix(ctx context.Context, prefix string) (int64, error)
	List(ctx context.Context, filter JournalFilter) ([]models.JournalEntry, error)
	Delete(ctx context.Context, id uint) (int64, error)
	Summarize(ctx context.Context, from, to time.Time) (*models.JournalSummary, error)
	FindUnbalanced(ctx context.Context, tolerance decimal.Decimal) ([]UnbalancedEntry, error)
}

// JournalFilter restricts a listing to entries dated in [From, Before)
type JournalFilter struct {
	From   *time.Time
	Before *time.Time
}

// UnbalancedEntry is an entry whose stored lines do not balance
type UnbalancedEntry struct {
	ID          uint            `json:"id"`
	Number      string          `json:"number"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

type journalRepository struct {
	db *gorm.DB
}

// NewJournalRepository creates a new journal repository
func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

// Create inserts the entry row and then its lines, which receive the generated entry id
func (r *journalRepository) Create(ctx context.Context, entry *models.JournalEntry) error {
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Create(entry).Error; err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: asiento %s", ErrDuplicateKey, entry.Number)
		}
		return err
	}

	if len(entry.Lines) == 0 {
		return nil
	}
	for i := range entry.Lines {
		entry.Lines[i].EntryID = entry.ID
	}
	return db.Omit(clause.Associations).CreateInBatches(&entry.Lines, 100).Error
}

func (r *journalRepository) FindByID(ctx context.Context, id uint) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := r.preloadLines(r.db.WithContext(ctx)).First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *journalRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.JournalEntry{}).
		Where("numero = ?", number).
		Count(&count).Error
	return count > 0, err
}

func (r *journalRepository) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.JournalEntry{}).
		Where("numero LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

// List returns entries with their lines and accounts, newest date first.
// Within a date, numbers are compared as strings.
func (r *journalRepository) List(ctx context.Context, filter JournalFilter) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry

	db := r.preloadLines(r.db.WithContext(ctx))
	if filter.From != nil {
		db = db.Where("fecha >= ?", *filter.From)
	}
	if filter.Before != nil {
		db = db.Where("fecha < ?", *filter.Before)
	}

	err := db.Order("fecha DESC").Order("numero DESC").Find(&entries).Error
	return entries, err
}

// Delete removes the lines of the entry and then the entry itself, returning the number of lines removed
func (r *journalRepository) Delete(ctx context.Context, id uint) (int64, error) {
	db := r.db.WithContext(ctx)

	lines := db.Where("asiento_id = ?", id).Delete(&models.JournalLine{})
	if lines.Error != nil {
		return 0, lines.Error
	}

	result := db.Delete(&models.JournalEntry{}, id)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return lines.RowsAffected, nil
}

// Summarize aggregates entries dated in [from, to)
func (r *journalRepository) Summarize(ctx context.Context, from, to time.Time) (*models.JournalSummary, error) {
	db := r.db.WithContext(ctx)

	var count int64
	err := db.Model(&models.JournalEntry{}).
		Where("fecha >= ? AND fecha < ?", from, to).
		Count(&count).Error
	if err != nil {
		return nil, err
	}

	var totals struct {
		TotalDebit  decimal.Decimal
		TotalCredit decimal.Decimal
	}
	err = db.Table("lineas_asiento AS l").
		Joins("JOIN asientos_contables AS e ON e.id = l.asiento_id").
		Where("e.fecha >= ? AND e.fecha < ?", from, to).
		Select("COALESCE(SUM(l.debe), 0) AS total_debit, COALESCE(SUM(l.haber), 0) AS total_credit").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	debit := totals.TotalDebit.Round(2)
	credit := totals.TotalCredit.Round(2)
	return &models.JournalSummary{
		From:        from,
		To:          to,
		EntryCount:  count,
		TotalDebit:  debit,
		TotalCredit: credit,
		Difference:  debit.Sub(credit),
	}, nil
}

// FindUnbalanced returns entries whose lines differ by more than tolerance
func (r *journalRepository) FindUnbalanced(ctx context.Context, tolerance decimal.Decimal) ([]UnbalancedEntry, error) {
	var rows []UnbalancedEntry
	err := r.db.WithContext(ctx).
		Table("asientos_contables AS e").
		Joins("JOIN lineas_asiento AS l ON l.asiento_id = e.id").
		Select("e.id AS id, e.numero AS number, SUM(l.debe) AS total_debit, SUM(l.haber) AS total_credit").
		Group("e.id, e.numero").
		Order("e.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// SQLite sums numeric columns as REAL; compare at cent precision
	unbalanced := make([]UnbalancedEntry, 0)
	for _, row := range rows {
		row.TotalDebit = row.TotalDebit.Round(2)
		row.TotalCredit = row.TotalCredit.Round(2)
		if row.TotalDebit.Sub(row.TotalCredit).Abs().GreaterThan(tolerance) {
			unbalanced = append(unbalanced, row)
		}
	}
	return unbalanced, nil
}

func (r *journalRepository) preloadLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Lines.Account")
}
