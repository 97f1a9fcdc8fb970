package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/necroledger/necroledger-api/internal/models"
	"github.com/necroledger/necroledger-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAccounts(t *testing.T, repos *Repositories) (*models.Account, *models.Account) {
	t.Helper()
	ctx := context.Background()
	a := &models.Account{Code: "1.1", Name: "CAJA", Category: models.CategoryAsset, Active: true}
	b := &models.Account{Code: "1.2", Name: "BANCOS", Category: models.CategoryAsset, Active: true}
	require.NoError(t, repos.Account.Create(ctx, a))
	require.NoError(t, repos.Account.Create(ctx, b))
	return a, b
}

func newEntry(number string, date time.Time, a, b *models.Account, amount int64) *models.JournalEntry {
	return &models.JournalEntry{
		Number: number,
		Date:   date,
		Lines: []models.JournalLine{
			{AccountID: a.ID, Debit: decimal.NewFromInt(amount), Credit: decimal.Zero},
			{AccountID: b.ID, Debit: decimal.Zero, Credit: decimal.NewFromInt(amount)},
		},
	}
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(testutil.NewTestDB(t))
	seedAccounts(t, repos)
	require.NoError(t, repos.Account.Create(ctx, &models.Account{Code: "1.0", Name: "OLD", Active: false}))

	err := repos.Account.Create(ctx, &models.Account{Code: "1.1", Name: "DUP", Active: true})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	active, err := repos.Account.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "1.1", active[0].Code)
	assert.Equal(t, "1.2", active[1].Code)

	_, err = repos.Account.FindByID(ctx, 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestJournalRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(testutil.NewTestDB(t))
	a, b := seedAccounts(t, repos)

	entry := newEntry("AS-20240101-001", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), a, b, 500)
	require.NoError(t, repos.Journal.Create(ctx, entry))
	require.NotZero(t, entry.ID)
	assert.Equal(t, entry.ID, entry.Lines[0].EntryID)

	found, err := repos.Journal.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 2)
	require.NotNil(t, found.Lines[0].Account)
	assert.Equal(t, "CAJA", found.Lines[0].Account.Name)
	assert.True(t, found.TotalCredit().Equal(decimal.NewFromInt(500)))

	exists, err := repos.Journal.NumberExists(ctx, "AS-20240101-001")
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := repos.Journal.CountByNumberPrefix(ctx, "AS-20240101-")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	err = repos.Journal.Create(ctx, newEntry("AS-20240101-001", time.Now(), a, b, 1))
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestJournalRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(testutil.NewTestDB(t))
	a, b := seedAccounts(t, repos)

	entry := newEntry("AS-20240101-001", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), a, b, 10)
	require.NoError(t, repos.Journal.Create(ctx, entry))

	lines, err := repos.Journal.Delete(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), lines)

	_, err = repos.Journal.Delete(ctx, entry.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositories_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(testutil.NewTestDB(t))
	a, b := seedAccounts(t, repos)

	boom := errors.New("boom")
	err := repos.Transaction(ctx, func(tx *Repositories) error {
		if err := tx.Journal.Create(ctx, newEntry("AS-20240101-001", time.Now(), a, b, 10)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	entries, err := repos.Journal.List(ctx, JournalFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJournalRepository_SummarizeAndUnbalanced(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repos := NewRepositories(db)
	a, b := seedAccounts(t, repos)

	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Journal.Create(ctx, newEntry("AS-20240201-001", day, a, b, 100)))
	require.NoError(t, repos.Journal.Create(ctx, newEntry("AS-20240202-001", day.AddDate(0, 0, 1), a, b, 40)))

	summary, err := repos.Journal.Summarize(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.EntryCount)
	assert.True(t, summary.TotalDebit.Equal(decimal.NewFromInt(100)))

	unbalanced, err := repos.Journal.FindUnbalanced(ctx, decimal.RequireFromString("0.01"))
	require.NoError(t, err)
	assert.Empty(t, unbalanced)

	require.NoError(t, db.Model(&models.JournalLine{}).
		Where("haber > 0").
		Update("haber", decimal.NewFromInt(35)).Error)

	unbalanced, err = repos.Journal.FindUnbalanced(ctx, decimal.RequireFromString("0.01"))
	require.NoError(t, err)
	assert.Len(t, unbalanced, 2)
}

func TestJournalRepository_FindUnbalanced_AtTolerance(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(testutil.NewTestDB(t))
	a, b := seedAccounts(t, repos)
	tolerance := decimal.RequireFromString("0.01")

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	amounts := []struct {
		number string
		debit  string
		credit string
	}{
		{"AS-20240301-001", "500.01", "500.00"},
		{"AS-20240301-002", "1000000.00", "999999.99"},
		{"AS-20240301-003", "0.01", "0.00"},
		{"AS-20240301-004", "100.00", "99.99"},
	}
	for _, am := range amounts {
		require.NoError(t, repos.Journal.Create(ctx, &models.JournalEntry{
			Number: am.number,
			Date:   day,
			Lines: []models.JournalLine{
				{AccountID: a.ID, Debit: decimal.RequireFromString(am.debit), Credit: decimal.Zero},
				{AccountID: b.ID, Debit: decimal.Zero, Credit: decimal.RequireFromString(am.credit)},
			},
		}))
	}

	unbalanced, err := repos.Journal.FindUnbalanced(ctx, tolerance)
	require.NoError(t, err)
	assert.Empty(t, unbalanced)

	require.NoError(t, repos.Journal.Create(ctx, &models.JournalEntry{
		Number: "AS-20240301-005",
		Date:   day,
		Lines: []models.JournalLine{
			{AccountID: a.ID, Debit: decimal.RequireFromString("1000000.00"), Credit: decimal.Zero},
			{AccountID: b.ID, Debit: decimal.Zero, Credit: decimal.RequireFromString("999999.98")},
		},
	}))

	unbalanced, err = repos.Journal.FindUnbalanced(ctx, tolerance)
	require.NoError(t, err)
	require.Len(t, unbalanced, 1)
	assert.Equal(t, "AS-20240301-005", unbalanced[0].Number)
	assert.True(t, unbalanced[0].TotalCredit.Equal(decimal.RequireFromString("999999.98")))
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(testutil.NewTestDB(t))

	user := &models.User{Username: "admin", PasswordHash: "h1", Active: true}
	require.NoError(t, repos.User.Create(ctx, user))
	assert.ErrorIs(t, repos.User.Create(ctx, &models.User{Username: "admin", PasswordHash: "h2"}), ErrDuplicateKey)

	require.NoError(t, repos.User.UpdatePasswordHash(ctx, user.ID, "h3"))
	found, err := repos.User.FindActiveByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "h3", found.PasswordHash)

	assert.ErrorIs(t, repos.User.UpdatePasswordHash(ctx, 999, "x"), gorm.ErrRecordNotFound)
}
