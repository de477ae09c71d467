package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fintrack/internal/db/dbtest"
	"fintrack/internal/model"
)

func TestExpenseRepository_OwnershipIsolation(t *testing.T) {
	gormDB := dbtest.New(t)
	users := NewUserRepository(gormDB)
	repo := NewExpenseRepository(gormDB)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	lunch := &model.Expense{Amount: 42.5, Description: "lunch", Category: model.ExpenseCategoryGroceries, UserID: alice.ID}
	require.NoError(t, repo.Create(ctx, lunch))
	assert.False(t, lunch.Date.IsZero())

	got, err := repo.FindByIDForUser(ctx, lunch.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 42.5, got.Amount)

	_, err = repo.FindByIDForUser(ctx, lunch.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	bobs, err := repo.ListByUser(ctx, bob.ID, "")
	require.NoError(t, err)
	assert.Empty(t, bobs)
}

func TestExpenseRepository_DefaultsAndOrdering(t *testing.T) {
	gormDB := dbtest.New(t)
	alice := createUser(t, NewUserRepository(gormDB), "alice")
	repo := NewExpenseRepository(gormDB)
	ctx := context.Background()

	older := &model.Expense{Amount: 1, Description: "older", Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), UserID: alice.ID}
	newer := &model.Expense{Amount: 2, Description: "newer", Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), UserID: alice.ID}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))
	assert.Equal(t, model.ExpenseCategoryOther, older.Category)

	list, err := repo.ListByUser(ctx, alice.ID, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Description)
	assert.Equal(t, "older", list[1].Description)
}

func TestExpenseRepository_Search(t *testing.T) {
	gormDB := dbtest.New(t)
	alice := createUser(t, NewUserRepository(gormDB), "alice")
	repo := NewExpenseRepository(gormDB)
	ctx := context.Background()

	for _, e := range []*model.Expense{
		{Amount: 10, Description: "Team Lunch", Category: model.ExpenseCategoryGroceries, UserID: alice.ID},
		{Amount: 20, Description: "bus ticket", Category: model.ExpenseCategoryTransport, UserID: alice.ID},
		{Amount: 30, Description: "100% juice", Category: model.ExpenseCategoryGroceries, UserID: alice.ID},
	} {
		require.NoError(t, repo.Create(ctx, e))
	}

	tests := []struct {
		query string
		want  int
	}{
		{query: "lunch", want: 1},
		{query: "groceries", want: 2},
		{query: "TRANSPORT", want: 1},
		{query: "%", want: 1},
		{query: "nothing", want: 0},
		{query: "  ", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := repo.ListByUser(ctx, alice.ID, tt.query)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestExpenseRepository_UpdateKeepsOwner(t *testing.T) {
	gormDB := dbtest.New(t)
	users := NewUserRepository(gormDB)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	repo := NewExpenseRepository(gormDB)
	ctx := context.Background()

	e := &model.Expense{Amount: 5, Description: "coffee", UserID: alice.ID}
	require.NoError(t, repo.Create(ctx, e))

	e.Amount = 6.5
	e.Description = "large coffee"
	require.NoError(t, repo.Update(ctx, e))

	got, err := repo.FindByIDForUser(ctx, e.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 6.5, got.Amount)
	assert.Equal(t, "large coffee", got.Description)

	forged := *got
	forged.UserID = bob.ID
	forged.Amount = 999
	require.NoError(t, repo.Update(ctx, &forged))

	got, err = repo.FindByIDForUser(ctx, e.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 6.5, got.Amount)
}
