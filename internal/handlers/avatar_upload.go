package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/imageproc"
	"github.com/BruksfildServices01/gym-manager/internal/storage"
)

var (
	ErrAvatarTooLarge = httperr.ErrRule("avatar_too_large", "The avatar file is too large.")
	ErrAvatarInvalid  = httperr.ErrRule("invalid_avatar", "The avatar must be a JPEG, PNG or GIF image.")
	ErrAvatarDisabled = httperr.ErrRule("avatar_upload_disabled", "Avatar uploads are not configured.")
)

// AvatarUploader converts uploaded pictures to webp and stores them.
type AvatarUploader struct {
	store    storage.Storage
	proc     *imageproc.Processor
	maxBytes int64
}

func NewAvatarUploader(store storage.Storage, proc *imageproc.Processor, maxBytes int64) *AvatarUploader {
	return &AvatarUploader{store: store, proc: proc, maxBytes: maxBytes}
}

// Upload returns the public URL of the stored avatar.
func (u *AvatarUploader) Upload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if u == nil || u.store == nil {
		return "", ErrAvatarDisabled
	}
	if u.maxBytes > 0 && fh.Size > u.maxBytes {
		return "", ErrAvatarTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := u.proc.Avatar(f)
	if err != nil {
		if errors.Is(err, imageproc.ErrNotAnImage) {
			return "", ErrAvatarInvalid
		}
		return "", err
	}

	key := "avatars/" + uuid.NewString() + imageproc.AvatarExt
	return u.store.Save(ctx, key, bytes.NewReader(data), imageproc.AvatarContentType)
}
