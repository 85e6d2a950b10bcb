package handlers

import (
	"net/http"

	apierrors "github.com/BlueLaysLover/backend--yt/internal/errors"
	"github.com/BlueLaysLover/backend--yt/internal/http/middleware"
	"github.com/BlueLaysLover/backend--yt/internal/service"
	"github.com/BlueLaysLover/backend--yt/internal/storage"
)

// imageKindFrom нормализует вид изображения; пустое значение — аватар.
func imageKindFrom(raw string) (storage.ImageKind, bool) {
	switch raw {
	case "", string(storage.ImageAvatar):
		return storage.ImageAvatar, true
	case string(storage.ImageCover):
		return storage.ImageCover, true
	default:
		return "", false
	}
}

// AvatarPresign выдаёт presigned PUT URL для загрузки аватара/обложки.
// Файл не проходит через сервис: клиент грузит его напрямую в asset host.
func (h *Handlers) AvatarPresign(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrMissingToken)
		return
	}

	var in presignRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	kind, ok := imageKindFrom(in.Kind)
	if !ok {
		apierrors.WriteError(w, r, storage.ErrInvalidArgument)
		return
	}

	info, err := h.Service.ImageUploadURL(r.Context(), accountID, kind, in.ContentType, in.ContentLength)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, presignResponse{
		UploadURL:      info.UploadURL,
		Key:            info.Key,
		ExpiresSec:     int64(info.Expires.Seconds()),
		RequiredHeader: info.RequiredHeader,
	})
}

// AvatarConfirm подтверждает загрузку и сохраняет публичный URL в аккаунте.
func (h *Handlers) AvatarConfirm(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrMissingToken)
		return
	}

	var in confirmRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	kind, ok := imageKindFrom(in.Kind)
	if !ok {
		apierrors.WriteError(w, r, storage.ErrInvalidArgument)
		return
	}

	url, err := h.Service.ConfirmImageUpload(r.Context(), accountID, kind, in.Key)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, confirmResponse{URL: url})
}
