package service

import (
	"context"
	"path/filepath"
	"testing"

	"movieshop/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Movie{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.PaymentIntent{},
		&model.WebhookEvent{},
	))

	return db
}

func seedMovie(t *testing.T, db *gorm.DB, title string, price string, availability int32) *model.Movie {
	t.Helper()

	movie := &model.Movie{
		UUID:         uuid.New(),
		Title:        title,
		Year:         2020,
		Price:        decimal.RequireFromString(price),
		Availability: availability,
	}
	require.NoError(t, db.Create(movie).Error)

	return movie
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		Email:        email,
		PasswordHash: "x",
		Role:         model.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)

	return user
}

func movieAvailability(t *testing.T, db *gorm.DB, movieID uint) int32 {
	t.Helper()

	var movie model.Movie
	require.NoError(t, db.WithContext(context.Background()).First(&movie, movieID).Error)

	return movie.Availability
}
