package post

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"community-service/internal/identity"
	"community-service/internal/media"
	"community-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	p, err := identity.FromCtx(r)
	if err != nil {
		return err
	}

	// Transport-level cap; the ingest service enforces the limit again.
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		return fmt.Errorf("%w: invalid multipart body", httpx.ErrValidation)
	}

	in := CreateInput{Text: r.FormValue("text")}
	if v := r.FormValue("communityId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return ErrMissingCommunity
		}
		in.CommunityID = uint(id)
	}

	file, hdr, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		if hdr.Size > media.MaxUploadSize {
			return media.ErrTooLarge
		}
		data, err := io.ReadAll(file)
		if err != nil {
			return fmt.Errorf("%w: unreadable image upload", httpx.ErrValidation)
		}
		in.Image = data
		in.ImageContentType = hdr.Header.Get("Content-Type")
		in.ImageFilename = hdr.Filename
	case errors.Is(err, http.ErrMissingFile):
		// text-only post
	default:
		return fmt.Errorf("%w: invalid image upload", httpx.ErrValidation)
	}

	out, err := h.svc.Create(r.Context(), p, in)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, out, http.StatusCreated)
	return nil
}

func (h *Handler) ListByCommunity(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseUint(r.PathValue("community_id"), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid community id", httpx.ErrValidation)
	}
	items, err := h.svc.ListByCommunity(uint(id))
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, items, http.StatusOK)
	return nil
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	p, err := identity.FromCtx(r)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(r.PathValue("post_id"), 10, 64)
	if err != nil {
		return ErrNotFoundOrNotOwner
	}
	if err := h.svc.Delete(uint(id), p.ID); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"success": true}, http.StatusOK)
	return nil
}
