package post

import (
	"context"
	"fmt"
	"log"
	"strings"

	"community-service/internal/identity"
	"community-service/internal/shared/httpx"
	"community-service/internal/user"
)

var (
	ErrMissingContent   = fmt.Errorf("%w: post must include text or an image", httpx.ErrValidation)
	ErrMissingCommunity = fmt.Errorf("%w: communityId is required", httpx.ErrValidation)
)

type Ingestor interface {
	EnsureBucket(ctx context.Context) error
	Ingest(ctx context.Context, data []byte, contentType, originalName string) (string, error)
}

type EventWriter interface {
	WriteJSON(ctx context.Context, v any) error
}

type Service interface {
	Create(ctx context.Context, p identity.Principal, in CreateInput) (*Enriched, error)
	ListByCommunity(communityID uint) ([]Enriched, error)
	Delete(postID uint, principalID string) error
}

type service struct {
	repo   Repository
	media  Ingestor
	users  user.Repository
	events EventWriter
}

// NewService wires the create-post pipeline. events may be nil; publishing is
// best-effort and never fails a request.
func NewService(repo Repository, media Ingestor, users user.Repository, events EventWriter) Service {
	return &service{repo: repo, media: media, users: users, events: events}
}

func (s *service) Create(ctx context.Context, p identity.Principal, in CreateInput) (*Enriched, error) {
	if in.CommunityID == 0 {
		return nil, ErrMissingCommunity
	}
	text := strings.TrimSpace(in.Text)
	hasImage := len(in.Image) > 0
	if text == "" && !hasImage {
		return nil, ErrMissingContent
	}

	var imageURL *string
	if hasImage {
		if err := s.media.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		url, err := s.media.Ingest(ctx, in.Image, in.ImageContentType, in.ImageFilename)
		if err != nil {
			return nil, err
		}
		imageURL = &url
	}

	if err := s.users.Upsert(&user.User{ID: p.ID, Name: p.Name, Email: p.Email}); err != nil {
		log.Printf("user directory upsert for %s failed: %v", p.ID, err)
	}

	row := &Post{
		CommunityID: in.CommunityID,
		UserID:      p.ID,
		Text:        text,
		ImageURL:    imageURL,
	}
	if err := s.repo.Create(row); err != nil {
		if imageURL != nil {
			// No compensation across the upload/insert boundary; surface the
			// inconsistency instead of hiding it.
			log.Printf("post insert failed, media object orphaned at %s: %v", *imageURL, err)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	if s.events != nil {
		evt := map[string]any{
			"post_id":      row.ID,
			"community_id": row.CommunityID,
			"user_id":      row.UserID,
			"created_at":   row.CreatedAt,
		}
		if err := s.events.WriteJSON(ctx, evt); err != nil {
			log.Printf("posts.created publish for post %d failed: %v", row.ID, err)
		}
	}

	return &Enriched{Post: *row, Author: AuthorView{Name: p.Name}}, nil
}

func (s *service) ListByCommunity(communityID uint) ([]Enriched, error) {
	return s.repo.ListByCommunity(communityID)
}

func (s *service) Delete(postID uint, principalID string) error {
	return s.repo.DeleteOwned(postID, principalID)
}
