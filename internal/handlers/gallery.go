package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"
	"github.com/sortie-unique/agency-api/internal/auth"
	"github.com/sortie-unique/agency-api/internal/models"
	"github.com/sortie-unique/agency-api/internal/storage"
	"gorm.io/gorm"
)

type GalleryHandler struct {
	db          *gorm.DB
	storage     storage.Storage
	authHandler *auth.AuthHandler
}

func NewGalleryHandler(db *gorm.DB, store storage.Storage, authHandler *auth.AuthHandler) *GalleryHandler {
	return &GalleryHandler{db: db, storage: store, authHandler: authHandler}
}

type ListGalleryInput struct {
	Limit int `query:"limit" minimum:"0" doc:"Cap on returned images, 0 means all" required:"false"`
}

type ListGalleryOutput struct {
	Body []models.GalleryImage
}

// HandleList returns gallery images newest first. The home page asks for
// limit=4.
func (h *GalleryHandler) HandleList(ctx context.Context, input *ListGalleryInput) (*ListGalleryOutput, error) {
	query := h.db.WithContext(ctx).Order("created_at desc")
	if input.Limit > 0 {
		query = query.Limit(input.Limit)
	}

	var items []models.GalleryImage
	if err := query.Find(&items).Error; err != nil {
		logrus.WithError(err).Error("ListGallery: Failed to query gallery")
		return nil, huma.Error500InternalServerError("Failed to load gallery items")
	}
	if items == nil {
		items = []models.GalleryImage{}
	}
	return &ListGalleryOutput{Body: items}, nil
}

type FeaturedOutput struct {
	Body models.GalleryImage
}

func (h *GalleryHandler) HandleFeatured(ctx context.Context, input *struct{}) (*FeaturedOutput, error) {
	var item models.GalleryImage
	if err := h.db.WithContext(ctx).Where("is_featured = ?", true).First(&item).Error; err != nil {
		return nil, huma.Error404NotFound("No featured image")
	}
	return &FeaturedOutput{Body: item}, nil
}

type AdminListGalleryInput struct {
	auth.AuthInput
}

func (h *GalleryHandler) HandleAdminList(ctx context.Context, input *AdminListGalleryInput) (*ListGalleryOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}
	return h.HandleList(ctx, &ListGalleryInput{})
}

type UploadGalleryInput struct {
	auth.AuthInput
	Body struct {
		Title    string `json:"title" required:"true"`
		FileName string `json:"file_name" required:"true" doc:"Original file name, used for the extension"`
		Data     string `json:"data" required:"true" doc:"Base64-encoded file content"`
	}
}

type UploadGalleryOutput struct {
	Body models.GalleryImage
}

// HandleUpload stores the file first and the metadata row second; a failed
// row insert cleans the file up again so storage does not accumulate
// orphans.
func (h *GalleryHandler) HandleUpload(ctx context.Context, input *UploadGalleryInput) (*UploadGalleryOutput, error) {
	userID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Body.Title) == "" {
		return nil, huma.Error400BadRequest("Please select a file and enter a title")
	}

	data, err := base64.StdEncoding.DecodeString(input.Body.Data)
	if err != nil {
		return nil, huma.Error400BadRequest("File content is not valid base64")
	}

	objectPath := storage.ObjectPath("gallery", userID, input.Body.FileName)
	if err := h.storage.Upload(ctx, objectPath, bytes.NewReader(data)); err != nil {
		logrus.WithError(err).Error("UploadGallery: Failed to store file")
		return nil, huma.Error500InternalServerError("Failed to upload image")
	}

	item := models.GalleryImage{
		Title:      input.Body.Title,
		ImageURL:   h.storage.PublicURL(objectPath),
		ObjectPath: objectPath,
	}
	if err := h.db.WithContext(ctx).Create(&item).Error; err != nil {
		logrus.WithError(err).Error("UploadGallery: Failed to create gallery row")
		if removeErr := h.storage.Remove(ctx, objectPath); removeErr != nil {
			logrus.WithError(removeErr).Warn("UploadGallery: Failed to clean up stored file")
		}
		return nil, huma.Error500InternalServerError("Failed to upload image")
	}

	return &UploadGalleryOutput{Body: item}, nil
}

type GalleryIDInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

// HandleDelete removes the metadata row and then best-effort removes the
// stored file. A file-removal failure is logged but the delete still
// succeeds; the row is already gone and retrying the whole operation would
// 404.
func (h *GalleryHandler) HandleDelete(ctx context.Context, input *GalleryIDInput) (*struct{}, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var item models.GalleryImage
	if err := h.db.WithContext(ctx).First(&item, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Image not found")
	}

	if err := h.db.WithContext(ctx).Delete(&item).Error; err != nil {
		logrus.WithError(err).Error("DeleteGallery: Failed to delete gallery row")
		return nil, huma.Error500InternalServerError("Failed to delete image")
	}

	if item.ObjectPath != "" {
		if err := h.storage.Remove(ctx, item.ObjectPath); err != nil {
			logrus.WithError(err).WithField("path", item.ObjectPath).Warn("DeleteGallery: Failed to remove stored file")
		}
	}

	return nil, nil
}

// HandleSetFeatured makes the target image the only featured one. Both
// writes happen in one transaction, so the at-most-one invariant holds even
// when two admins race.
func (h *GalleryHandler) HandleSetFeatured(ctx context.Context, input *GalleryIDInput) (*FeaturedOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var item models.GalleryImage
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, input.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.GalleryImage{}).
			Where("is_featured = ? AND id <> ?", true, item.ID).
			Update("is_featured", false).Error; err != nil {
			return err
		}
		item.IsFeatured = true
		return tx.Save(&item).Error
	})
	if err != nil {
		logrus.WithError(err).Error("SetFeatured: Failed to set featured image")
		return nil, huma.Error500InternalServerError("Failed to set featured image")
	}

	return &FeaturedOutput{Body: item}, nil
}

func (h *GalleryHandler) HandleRemoveFeatured(ctx context.Context, input *GalleryIDInput) (*struct{}, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	if err := h.db.WithContext(ctx).Model(&models.GalleryImage{}).
		Where("id = ?", input.ID).
		Update("is_featured", false).Error; err != nil {
		logrus.WithError(err).Error("RemoveFeatured: Failed to clear featured flag")
		return nil, huma.Error500InternalServerError("Failed to remove featured image")
	}

	return nil, nil
}
