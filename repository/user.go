package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
	"github.com/tnqbao/gau-document-service/infra"
	"gorm.io/gorm"
)

const userCacheTTL = 5 * time.Minute

type UserRepository struct {
	db    *gorm.DB
	cache *infra.RedisClient
}

func NewUserRepository(db *gorm.DB, cache *infra.RedisClient) *UserRepository {
	return &UserRepository{db: db, cache: cache}
}

func (r *UserRepository) Create(user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return r.db.Create(user).Error
}

// FindByID resolves a user, consulting the Redis cache first. The boolean
// reports existence; a missing user is not an error.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, bool, error) {
	if r.cache != nil {
		var cached entity.User
		if err := r.cache.Get(ctx, userCacheKey(id), &cached); err == nil {
			return &cached, true, nil
		}
	}

	var user entity.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if r.cache != nil {
		_ = r.cache.Set(ctx, userCacheKey(id), &user, userCacheTTL)
	}

	return &user, true, nil
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, bool, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &user, true, nil
}

func (r *UserRepository) FindAll() ([]entity.User, error) {
	var users []entity.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	r.invalidate(ctx, user.ID)
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&entity.User{}, "id = ?", id).Error; err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *UserRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if r.cache != nil {
		_ = r.cache.Delete(ctx, userCacheKey(id))
	}
}

func userCacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}
