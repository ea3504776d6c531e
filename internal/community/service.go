package community

import (
	"fmt"
	"log"
	"strings"

	"community-service/internal/identity"
	"community-service/internal/shared/httpx"
	"community-service/internal/user"
)

var ErrNameRequired = fmt.Errorf("%w: community name is required", httpx.ErrValidation)

type Service interface {
	Create(p identity.Principal, in CreateReq) (*Community, error)
	GetAll() ([]WithCount, error)
	GetByID(id uint) (*Community, error)
}

type service struct {
	repo  Repository
	users user.Repository
}

func NewService(repo Repository, users user.Repository) Service {
	return &service{repo: repo, users: users}
}

func (s *service) Create(p identity.Principal, in CreateReq) (*Community, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	// Keep the directory row current so author joins resolve.
	if err := s.users.Upsert(&user.User{ID: p.ID, Name: p.Name, Email: p.Email}); err != nil {
		log.Printf("user directory upsert for %s failed: %v", p.ID, err)
	}

	c := &Community{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedBy:   p.ID,
	}
	if err := s.repo.Create(c); err != nil {
		return nil, fmt.Errorf("create community: %w", err)
	}
	return c, nil
}

func (s *service) GetAll() ([]WithCount, error) {
	return s.repo.GetAll()
}

func (s *service) GetByID(id uint) (*Community, error) {
	return s.repo.GetByID(id)
}
