package service

import (
	"context"
	"testing"

	"movieshop/internal/apperr"
	"movieshop/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemMovieNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, repository.NewCartRepository(db), repository.NewMovieRepository(db))

	err := svc.AddItem(context.Background(), 1, 999, 1)
	assert.ErrorIs(t, err, apperr.ErrMovieNotFound)
}

func TestAddItemInvalidQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, repository.NewCartRepository(db), repository.NewMovieRepository(db))
	movie := seedMovie(t, db, "The Long Rain", "10.00", 5)

	err := svc.AddItem(context.Background(), 1, movie.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidQuantity)
}

func TestAddItemUnavailableLeavesCartUnchanged(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, repository.NewCartRepository(db), repository.NewMovieRepository(db))
	movie := seedMovie(t, db, "Sold Out", "10.00", 0)

	err := svc.AddItem(context.Background(), 1, movie.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrUnavailable)

	detail, err := svc.Detail(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, detail.Lines)
	assert.True(t, detail.Total.IsZero())
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, repository.NewCartRepository(db), repository.NewMovieRepository(db))
	movie := seedMovie(t, db, "The Long Rain", "10.00", 5)

	require.NoError(t, svc.AddItem(context.Background(), 1, movie.ID, 2))
	require.NoError(t, svc.AddItem(context.Background(), 1, movie.ID, 1))

	detail, err := svc.Detail(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, int32(3), detail.Lines[0].Quantity)

	// accumulated quantity may not pass availability either
	err = svc.AddItem(context.Background(), 1, movie.ID, 3)
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
}

func TestDetailComputesTotalAtReadTime(t *testing.T) {
	db := newTestDB(t)
	movieRepo := repository.NewMovieRepository(db)
	svc := NewCartService(db, repository.NewCartRepository(db), movieRepo)

	movieA := seedMovie(t, db, "Movie A", "10.00", 5)
	movieB := seedMovie(t, db, "Movie B", "5.00", 5)

	require.NoError(t, svc.AddItem(context.Background(), 1, movieA.ID, 2))
	require.NoError(t, svc.AddItem(context.Background(), 1, movieB.ID, 1))

	detail, err := svc.Detail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "25.00", detail.Total.StringFixed(2))

	// price change before checkout shows up on the next read
	require.NoError(t, db.Model(movieA).Update("price", "11.00").Error)

	detail, err = svc.Detail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "27.00", detail.Total.StringFixed(2))
}

func TestRemoveItemNotInCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, repository.NewCartRepository(db), repository.NewMovieRepository(db))
	movie := seedMovie(t, db, "The Long Rain", "10.00", 5)

	err := svc.RemoveItem(context.Background(), 1, movie.ID)
	assert.ErrorIs(t, err, apperr.ErrCartItemNotFound)
}

func TestClearEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, repository.NewCartRepository(db), repository.NewMovieRepository(db))

	err := svc.Clear(context.Background(), 1)
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)
}

func TestClearRemovesAllItems(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, repository.NewCartRepository(db), repository.NewMovieRepository(db))
	movie := seedMovie(t, db, "The Long Rain", "10.00", 5)

	require.NoError(t, svc.AddItem(context.Background(), 1, movie.ID, 2))
	require.NoError(t, svc.Clear(context.Background(), 1))

	detail, err := svc.Detail(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, detail.Lines)
}
