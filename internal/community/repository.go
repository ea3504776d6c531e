package community

import (
	"errors"
	"fmt"

	"community-service/internal/shared/httpx"

	"gorm.io/gorm"
)

var ErrCommunityNotFound = fmt.Errorf("%w: community not found", httpx.ErrNotFound)

type Repository interface {
	Create(c *Community) error
	GetAll() ([]WithCount, error)
	GetByID(id uint) (*Community, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(c *Community) error {
	return r.db.Create(c).Error
}

func (r *repository) GetAll() ([]WithCount, error) {
	var out []WithCount
	err := r.db.Model(&Community{}).
		Select("communities.*, count(posts.id) AS posts_count").
		Joins("LEFT JOIN posts ON posts.community_id = communities.id").
		Group("communities.id").
		Order("communities.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []WithCount{}
	}
	return out, nil
}

func (r *repository) GetByID(id uint) (*Community, error) {
	var c Community
	if err := r.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, err
	}
	return &c, nil
}
