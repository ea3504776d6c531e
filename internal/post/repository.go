package post

import (
	"fmt"

	"community-service/internal/shared/httpx"

	"gorm.io/gorm"
)

// ErrNotFoundOrNotOwner deliberately covers both a missing post and a post
// owned by someone else, so the response never reveals which.
var ErrNotFoundOrNotOwner = fmt.Errorf("%w: post not found", httpx.ErrNotFound)

type Repository interface {
	Create(p *Post) error
	ListByCommunity(communityID uint) ([]Enriched, error)
	DeleteOwned(postID uint, userID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(p *Post) error {
	return r.db.Create(p).Error
}

type listRow struct {
	Post
	AuthorName string
}

func (r *repository) ListByCommunity(communityID uint) ([]Enriched, error) {
	var rows []listRow
	err := r.db.Table("posts").
		Select("posts.*, users.name AS author_name").
		Joins("LEFT JOIN users ON users.id = posts.user_id").
		Where("posts.community_id = ?", communityID).
		Order("posts.created_at DESC, posts.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]Enriched, 0, len(rows))
	for _, row := range rows {
		out = append(out, Enriched{Post: row.Post, Author: AuthorView{Name: row.AuthorName}})
	}
	return out, nil
}

// DeleteOwned conjoins id and owner in one predicate; zero affected rows maps
// to the conflated outcome regardless of why.
func (r *repository) DeleteOwned(postID uint, userID string) error {
	res := r.db.Where("id = ? AND user_id = ?", postID, userID).Delete(&Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFoundOrNotOwner
	}
	return nil
}
