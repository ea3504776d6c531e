package community

import (
	"net/http"
	"strconv"

	"community-service/internal/identity"
	"community-service/internal/shared/httpx"
	"community-service/internal/shared/validate"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	p, err := identity.FromCtx(r)
	if err != nil {
		return err
	}
	in, err := httpx.Decode[CreateReq](r)
	if err != nil {
		return err
	}
	if err := validate.Struct(in); err != nil {
		return err
	}
	c, err := h.svc.Create(p, in)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, c, http.StatusCreated)
	return nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	items, err := h.svc.GetAll()
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, items, http.StatusOK)
	return nil
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseUint(r.PathValue("community_id"), 10, 64)
	if err != nil {
		return ErrCommunityNotFound
	}
	c, err := h.svc.GetByID(uint(id))
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, c, http.StatusOK)
	return nil
}
