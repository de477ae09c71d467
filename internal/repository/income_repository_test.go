package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fintrack/internal/db/dbtest"
	"fintrack/internal/model"
)

func TestIncomeRepository_CRUD(t *testing.T) {
	gormDB := dbtest.New(t)
	users := NewUserRepository(gormDB)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	repo := NewIncomeRepository(gormDB)
	ctx := context.Background()

	salary := &model.Income{Amount: 3000, Description: "March salary", Source: model.IncomeSourceSalary, UserID: alice.ID}
	gift := &model.Income{Amount: 50, Description: "birthday", UserID: alice.ID}
	require.NoError(t, repo.Create(ctx, salary))
	require.NoError(t, repo.Create(ctx, gift))
	assert.Equal(t, model.IncomeSourceOther, gift.Source)

	_, err := repo.FindByIDForUser(ctx, salary.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.ListByUser(ctx, alice.ID, "salary")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, salary.ID, found[0].ID)

	salary.Amount = 3100
	require.NoError(t, repo.Update(ctx, salary))
	got, err := repo.FindByIDForUser(ctx, salary.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 3100.0, got.Amount)
}
