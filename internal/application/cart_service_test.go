package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agriassist/agriassist-api/internal/domain/entity"
	repo "github.com/agriassist/agriassist-api/internal/domain/repository"
	"github.com/agriassist/agriassist-api/internal/domain/repository/mocks"
)

var neemOil = &entity.Product{ID: "neem-oil", Name: "Neem Oil 1L", Price: 450, Category: "Pesticides"}

func newCartService(t *testing.T) (*CartService, *mocks.CartStore, *mocks.ProductRepository) {
	t.Helper()
	st := &mocks.CartStore{}
	pr := &mocks.ProductRepository{}
	t.Cleanup(func() {
		st.AssertExpectations(t)
		pr.AssertExpectations(t)
	})
	return NewCartService(st, pr, nil), st, pr
}

func TestCartService_AddSnapshotsProduct(t *testing.T) {
	svc, st, pr := newCartService(t)
	pr.On("GetByID", mock.Anything, "neem-oil").Return(neemOil, nil)
	st.On("Get", mock.Anything, "u1").Return(entity.NewCart("u1"), nil)
	st.On("Save", mock.Anything, mock.AnythingOfType("*entity.Cart")).Return(nil)

	v, err := svc.Add(context.Background(), "u1", "neem-oil", 2)
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "Neem Oil 1L", v.Items[0].Product.Name)
	assert.Equal(t, 2, v.Count)
	assert.InDelta(t, 900, v.Total, 1e-9)
}

func TestCartService_AddUnknownProduct(t *testing.T) {
	svc, _, pr := newCartService(t)
	pr.On("GetByID", mock.Anything, "nope").Return(nil, repo.ErrNotFound)

	_, err := svc.Add(context.Background(), "u1", "nope", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddRejectsZeroQuantity(t *testing.T) {
	svc, _, _ := newCartService(t)
	_, err := svc.Add(context.Background(), "u1", "neem-oil", 0)
	assert.ErrorIs(t, err, entity.ErrInvalidQuantity)
}

func TestCartService_UpdateQuantityToZeroRemoves(t *testing.T) {
	svc, st, _ := newCartService(t)
	c := entity.NewCart("u1")
	require.NoError(t, c.Add(*neemOil, 3))
	st.On("Get", mock.Anything, "u1").Return(c, nil)
	st.On("Save", mock.Anything, mock.MatchedBy(func(c *entity.Cart) bool { return len(c.Items) == 0 })).Return(nil)

	v, err := svc.UpdateQuantity(context.Background(), "u1", "neem-oil", 0)
	require.NoError(t, err)
	assert.Empty(t, v.Items)
	assert.Zero(t, v.Total)
}

func TestCartService_RemoveMissingItem(t *testing.T) {
	svc, st, _ := newCartService(t)
	st.On("Get", mock.Anything, "u1").Return(entity.NewCart("u1"), nil)

	_, err := svc.Remove(context.Background(), "u1", "neem-oil")
	assert.ErrorIs(t, err, ErrItemNotInCart)
}

func TestCartService_Clear(t *testing.T) {
	svc, st, _ := newCartService(t)
	st.On("Delete", mock.Anything, "u1").Return(nil)
	assert.NoError(t, svc.Clear(context.Background(), "u1"))
}
