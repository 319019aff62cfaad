package db

import (
	"context"
	"testing"
	"time"

	"github.com/dattatraygorde/Order-Taking-System/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomer(email string) *model.Customer {
	return &model.Customer{FirstName: "Test", LastName: "User", Email: email, Address: "X Street"}
}

func TestCustomerStoreCRUD(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	store := NewCustomerStore(gdb)

	c := newCustomer("test.user@example.com")
	require.NoError(t, store.Create(ctx, c))
	require.NotZero(t, c.ID)
	require.False(t, c.CreatedAt.IsZero())

	got, err := store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "test.user@example.com", got.Email)
	assert.WithinDuration(t, c.CreatedAt, got.CreatedAt, time.Second)

	exists, err := store.EmailExists(ctx, "test.user@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = store.EmailExists(ctx, "Test.User@example.com")
	require.NoError(t, err)
	assert.False(t, exists, "email match is exact")

	got.FirstName = "Renamed"
	got.CreatedAt = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Update(ctx, &got))

	reloaded, err := store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.FirstName)
	assert.WithinDuration(t, c.CreatedAt, reloaded.CreatedAt, time.Second, "created_at is immutable")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.Delete(ctx, c.ID))
	require.NoError(t, store.Delete(ctx, c.ID), "delete is idempotent")
	_, err = store.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerStoreUniqueEmail(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	store := NewCustomerStore(gdb)

	require.NoError(t, store.Create(ctx, newCustomer("dup@example.com")))
	err := store.Create(ctx, newCustomer("dup@example.com"))
	assert.ErrorIs(t, err, ErrDuplicate)

	other := newCustomer("other@example.com")
	require.NoError(t, store.Create(ctx, other))
	other.Email = "dup@example.com"
	assert.ErrorIs(t, store.Update(ctx, other), ErrDuplicate)
}

func TestCustomerStoreUpdateMissing(t *testing.T) {
	gdb := openTestDB(t)
	c := newCustomer("ghost@example.com")
	c.ID = 99
	assert.ErrorIs(t, NewCustomerStore(gdb).Update(context.Background(), c), ErrNotFound)
}

func TestCustomerStoreDeleteReferenced(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	customers := NewCustomerStore(gdb)
	vegetables := NewVegetableStore(gdb)
	orders := NewOrderStore(gdb, nil)

	c := newCustomer("busy@example.com")
	require.NoError(t, customers.Create(ctx, c))
	v := &model.Vegetable{Name: "Leek"}
	require.NoError(t, vegetables.Create(ctx, v))
	require.NoError(t, orders.Create(ctx, &model.Order{
		CustomerID: c.ID,
		OrderDate:  model.NewDate(2025, time.January, 1),
		Items:      []model.OrderItem{{VegetableID: v.ID, Quantity: 1}},
	}))

	assert.ErrorIs(t, customers.Delete(ctx, c.ID), ErrInUse)
	assert.ErrorIs(t, vegetables.Delete(ctx, v.ID), ErrInUse)
}
