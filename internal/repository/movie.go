package repository

import (
	"context"
	"errors"

	"movieshop/internal/apperr"
	"movieshop/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, movieID uint) (*model.Movie, error)
	List(ctx context.Context) ([]*model.Movie, error)
	DecrementAvailability(ctx context.Context, tx *gorm.DB, movieID uint, qty int32) error
	IncrementAvailability(ctx context.Context, tx *gorm.DB, movieID uint, qty int32) error
}

type movieRepoImpl struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepoImpl{
		db: db,
	}
}

func (r *movieRepoImpl) Seed(ctx context.Context) error {
	movies := []model.Movie{
		{UUID: uuid.New(), Title: "The Long Rain", Year: 2021, Description: "A storm chaser loses more than the storm", Price: decimal.NewFromFloat(10.00), Availability: 25},
		{UUID: uuid.New(), Title: "Northern Lights", Year: 2019, Description: "Two strangers share a night train to Tromso", Price: decimal.NewFromFloat(5.00), Availability: 40},
		{UUID: uuid.New(), Title: "Paper Harbor", Year: 2023, Description: "A dock worker finds a ledger that should not exist", Price: decimal.NewFromFloat(12.50), Availability: 10},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&movies).Error
}

func (r *movieRepoImpl) FindByID(ctx context.Context, movieID uint) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.WithContext(ctx).
		Where("id = ?", movieID).
		First(&movie).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrMovieNotFound
		}
		return nil, err
	}

	return &movie, nil
}

func (r *movieRepoImpl) List(ctx context.Context) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.WithContext(ctx).
		Order("id desc").
		Find(&movies).Error
	if err != nil {
		return nil, err
	}

	return movies, nil
}

// DecrementAvailability is the compare-and-decrement that serializes racing
// checkouts. The WHERE clause only matches while enough stock remains; zero
// rows affected means the caller lost the race.
func (r *movieRepoImpl) DecrementAvailability(ctx context.Context, tx *gorm.DB, movieID uint, qty int32) error {
	result := tx.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ? AND availability >= ?", movieID, qty).
		Update("availability", gorm.Expr("availability - ?", qty))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrOutOfStock
	}

	return nil
}

func (r *movieRepoImpl) IncrementAvailability(ctx context.Context, tx *gorm.DB, movieID uint, qty int32) error {
	return tx.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ?", movieID).
		Update("availability", gorm.Expr("availability + ?", qty)).Error
}
