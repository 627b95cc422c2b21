package repository

import (
	"testing"
	"time"

	"github.com/laced-shop/laced-backend/internal/app/model"
	"github.com/laced-shop/laced-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartRepoTest(t *testing.T) (CartRepository, []model.ProductVariant, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	product := &model.Product{Name: "Air Runner", Price: decimal.RequireFromString("10.00")}
	testDB.Create(product)

	variants := []model.ProductVariant{
		{ProductID: product.ID, Size: "42", StockQuantity: 5},
		{ProductID: product.ID, Size: "43", StockQuantity: 5},
	}
	for i := range variants {
		testDB.Create(&variants[i])
	}

	return NewCartRepository(testDB), variants, testDB
}

func TestCartRepository_FindOrCreateByUser(t *testing.T) {
	repo, _, testDB := setupCartRepoTest(t)

	user := &model.User{Email: "a@example.com", PasswordHash: "h", Name: "A"}
	testDB.Create(user)

	first, err := repo.FindOrCreateByUser(user.ID)
	require.NoError(t, err)

	second, err := repo.FindOrCreateByUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestCartRepository_UpsertItem_Accumulates(t *testing.T) {
	repo, variants, _ := setupCartRepoTest(t)

	cart, err := repo.FindOrCreateBySession("sess-1")
	require.NoError(t, err)

	require.NoError(t, repo.UpsertItem(cart.ID, variants[0].ID, 2))
	require.NoError(t, repo.UpsertItem(cart.ID, variants[0].ID, 3))

	items, err := repo.FindItems(cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartRepository_FindItems_PreloadsPrices(t *testing.T) {
	repo, variants, _ := setupCartRepoTest(t)

	cart, err := repo.FindOrCreateBySession("sess-2")
	require.NoError(t, err)
	require.NoError(t, repo.UpsertItem(cart.ID, variants[0].ID, 1))

	items, err := repo.FindItems(cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Variant.Product.Price.Equal(decimal.RequireFromString("10.00")))
}

func TestCartRepository_MoveItems_DisjointVariants(t *testing.T) {
	repo, variants, _ := setupCartRepoTest(t)

	from, _ := repo.FindOrCreateBySession("from")
	to, _ := repo.FindOrCreateBySession("to")

	require.NoError(t, repo.UpsertItem(from.ID, variants[0].ID, 2))
	require.NoError(t, repo.UpsertItem(to.ID, variants[1].ID, 1))

	require.NoError(t, repo.MoveItems(from.ID, to.ID))

	fromItems, _ := repo.FindItems(from.ID)
	assert.Len(t, fromItems, 0)

	toItems, _ := repo.FindItems(to.ID)
	assert.Len(t, toItems, 2)
}

func TestCartRepository_MoveItems_FoldsConflicts(t *testing.T) {
	repo, variants, _ := setupCartRepoTest(t)

	from, _ := repo.FindOrCreateBySession("from")
	to, _ := repo.FindOrCreateBySession("to")

	require.NoError(t, repo.UpsertItem(from.ID, variants[0].ID, 2))
	require.NoError(t, repo.UpsertItem(to.ID, variants[0].ID, 3))

	require.NoError(t, repo.MoveItems(from.ID, to.ID))

	toItems, _ := repo.FindItems(to.ID)
	require.Len(t, toItems, 1)
	assert.Equal(t, 5, toItems[0].Quantity)

	fromItems, _ := repo.FindItems(from.ID)
	assert.Len(t, fromItems, 0)
}

func TestCartRepository_DeleteItem_ReportsAffected(t *testing.T) {
	repo, variants, _ := setupCartRepoTest(t)

	cart, _ := repo.FindOrCreateBySession("sess-3")
	require.NoError(t, repo.UpsertItem(cart.ID, variants[0].ID, 1))

	affected, err := repo.DeleteItem(cart.ID, variants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.DeleteItem(cart.ID, variants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestCartRepository_DeleteStaleAnonymous(t *testing.T) {
	repo, variants, testDB := setupCartRepoTest(t)

	stale, _ := repo.FindOrCreateBySession("stale")
	_, err := repo.FindOrCreateBySession("fresh")
	require.NoError(t, err)
	nonEmpty, _ := repo.FindOrCreateBySession("nonempty")
	require.NoError(t, repo.UpsertItem(nonEmpty.ID, variants[0].ID, 1))

	user := &model.User{Email: "u@example.com", PasswordHash: "h", Name: "U"}
	testDB.Create(user)
	userCart, _ := repo.FindOrCreateByUser(user.ID)

	// Age the stale, non-empty and user carts past the cutoff.
	old := time.Now().Add(-48 * time.Hour)
	for _, id := range []uint{stale.ID, nonEmpty.ID, userCart.ID} {
		require.NoError(t, testDB.Model(&model.Cart{}).Where("id = ?", id).Update("updated_at", old).Error)
	}

	removed, err := repo.DeleteStaleAnonymous(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	// Fresh, non-empty and user-owned carts all survive.
	_, err = repo.FindBySession("fresh")
	assert.NoError(t, err)
	_, err = repo.FindBySession("nonempty")
	assert.NoError(t, err)
	_, err = repo.FindByUser(user.ID)
	assert.NoError(t, err)
	_, err = repo.FindBySession("stale")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
