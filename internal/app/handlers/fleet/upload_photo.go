package fleet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"roamvan/internal/app/commands"
	"roamvan/internal/app/uow"
	domainfleet "roamvan/internal/domain/fleet"
	"roamvan/internal/infra/storage/s3"
)

const uploadItemPhotoKey = "fleet.photos.upload"

type UploadItemPhotoCommand struct {
	ItemID      string
	ObjectKey   string
	ContentType string
	Reader      io.Reader
}

func (c UploadItemPhotoCommand) Key() string { return uploadItemPhotoKey }

type UploadItemPhotoResult struct {
	ItemID string   `json:"item_id"`
	Photos []string `json:"photos"`
}

type UploadItemPhotoHandler struct {
	Logger   *slog.Logger
	Uploader s3.Uploader
	Now      func() time.Time
}

func (h *UploadItemPhotoHandler) Handle(ctx context.Context, cmd UploadItemPhotoCommand) (*UploadItemPhotoResult, error) {
	if h.Uploader == nil {
		return nil, errors.New("photo uploader unavailable")
	}
	if strings.TrimSpace(cmd.ItemID) == "" {
		return nil, errors.New("item id is required")
	}
	if cmd.Reader == nil {
		return nil, errors.New("photo reader is required")
	}
	if strings.TrimSpace(cmd.ObjectKey) == "" {
		return nil, errors.New("object key is required")
	}

	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	item, err := unit.Fleet().ByID(ctx, domainfleet.ItemID(cmd.ItemID))
	if err != nil {
		return nil, err
	}

	publicURL, err := h.Uploader.Upload(ctx, cmd.ObjectKey, cmd.Reader, cmd.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	item.AddPhoto(publicURL, now)
	if err := unit.Fleet().Save(ctx, item); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("item photo added", "item_id", item.ID, "object_key", cmd.ObjectKey)
	}

	return &UploadItemPhotoResult{
		ItemID: string(item.ID),
		Photos: append([]string(nil), item.PhotoURLs...),
	}, nil
}

var _ commands.Handler[UploadItemPhotoCommand, *UploadItemPhotoResult] = (*UploadItemPhotoHandler)(nil)
