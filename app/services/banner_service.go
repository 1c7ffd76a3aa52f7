package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/go-playground/validator/v10"
)

type BannerInput struct {
	Title    string `json:"title" validate:"required,max=255"`
	Subtitle string `json:"subtitle" validate:"max=500"`
	LinkURL  string `json:"linkUrl" validate:"omitempty,max=1024"`
	IsActive *bool  `json:"isActive"`
}

type BannerPatch struct {
	Title    *string `json:"title" validate:"omitnil,required,max=255"`
	Subtitle *string `json:"subtitle" validate:"omitnil,max=500"`
	LinkURL  *string `json:"linkUrl" validate:"omitnil,max=1024"`
	IsActive *bool   `json:"isActive"`
}

// BannerView carries a signed image URL next to the stored base URL.
type BannerView struct {
	models.Banner
	SignedImageURL string `json:"signedImageUrl"`
}

// bannerOwner is the storage owner segment for carousel images.
const bannerOwner = "banners"

type BannerService struct {
	banners  repositories.BannerRepositoryImpl
	gateway  StorageGateway
	batcher  *SignedURLBatcher
	validate *validator.Validate
	signTTL  time.Duration
}

func NewBannerService(banners repositories.BannerRepositoryImpl, gateway StorageGateway, batcher *SignedURLBatcher, signTTL time.Duration) *BannerService {
	if signTTL <= 0 {
		signTTL = DefaultSignedURLExpiry
	}
	return &BannerService{banners: banners, gateway: gateway, batcher: batcher, validate: validator.New(), signTTL: signTTL}
}

func (s *BannerService) views(ctx context.Context, banners []models.Banner) []BannerView {
	urls := make([]string, len(banners))
	for i, b := range banners {
		urls[i] = b.ImageURL
	}
	signed := urls
	if s.batcher != nil {
		signed = s.batcher.BatchSign(ctx, urls, AssetImage, s.signTTL)
	}
	out := make([]BannerView, len(banners))
	for i, b := range banners {
		out[i] = BannerView{Banner: b, SignedImageURL: signed[i]}
	}
	return out
}

func (s *BannerService) ListActive(ctx context.Context) ([]BannerView, error) {
	banners, err := s.banners.GetAll(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return s.views(ctx, banners), nil
}

func (s *BannerService) ListAll(ctx context.Context) ([]BannerView, error) {
	banners, err := s.banners.GetAll(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return s.views(ctx, banners), nil
}

func (s *BannerService) get(ctx context.Context, id string) (*models.Banner, error) {
	banner, err := s.banners.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load banner: %w", err)
	}
	if banner == nil {
		return nil, helpers.ErrNotFound
	}
	return banner, nil
}

// uploadImage stores a banner image. Unlike product files, a banner cannot
// exist without its image, so the failure is returned.
func (s *BannerService) uploadImage(ctx context.Context, bannerID string, image FileUpload) (string, error) {
	if err := AssetImage.Check(image.ContentType, int64(len(image.Data))); err != nil {
		return "", err
	}
	return s.gateway.Upload(ctx, UploadRequest{
		Data:        image.Data,
		Filename:    image.Filename,
		ContentType: image.ContentType,
		Kind:        AssetImage,
		OwnerID:     bannerOwner,
		ProductID:   bannerID,
	})
}

func (s *BannerService) deleteImage(ctx context.Context, u string) {
	if u == "" {
		return
	}
	if err := s.gateway.Delete(ctx, u); err != nil {
		log.Printf("WARN BannerService.deleteImage: %s: %v", u, err)
	}
}

func (s *BannerService) Create(ctx context.Context, in BannerInput, image *FileUpload) (*BannerView, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validate.Struct(in); err != nil {
		return nil, helpers.ValidationFrom(err)
	}
	if image == nil {
		return nil, helpers.NewValidationError("image is required", map[string]string{"image": "image is required"})
	}
	all, err := s.banners.GetAll(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	imageURL, err := s.uploadImage(ctx, "", *image)
	if err != nil {
		return nil, err
	}
	banner := &models.Banner{
		Title:    in.Title,
		Subtitle: strings.TrimSpace(in.Subtitle),
		ImageURL: imageURL,
		LinkURL:  strings.TrimSpace(in.LinkURL),
		IsActive: boolOr(in.IsActive, true),
		Order:    len(all),
	}
	if err := s.banners.Create(ctx, banner); err != nil {
		s.deleteImage(ctx, imageURL)
		return nil, fmt.Errorf("create banner: %w", err)
	}
	return &s.views(ctx, []models.Banner{*banner})[0], nil
}

// Update applies a partial update. A replacement image is stored first and
// the old one is deleted after the row is saved.
func (s *BannerService) Update(ctx context.Context, id string, patch BannerPatch, image *FileUpload) (*BannerView, error) {
	trimPtr(patch.Title)
	if err := s.validate.Struct(patch); err != nil {
		return nil, helpers.ValidationFrom(err)
	}
	banner, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldImage := ""
	if image != nil {
		u, err := s.uploadImage(ctx, banner.ID, *image)
		if err != nil {
			return nil, err
		}
		oldImage = banner.ImageURL
		banner.ImageURL = u
	}
	if patch.Title != nil {
		banner.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		banner.Subtitle = strings.TrimSpace(*patch.Subtitle)
	}
	if patch.LinkURL != nil {
		banner.LinkURL = strings.TrimSpace(*patch.LinkURL)
	}
	if patch.IsActive != nil {
		banner.IsActive = *patch.IsActive
	}
	if err := s.banners.Update(ctx, banner); err != nil {
		if oldImage != "" {
			s.deleteImage(ctx, banner.ImageURL)
		}
		return nil, fmt.Errorf("update banner: %w", err)
	}
	s.deleteImage(ctx, oldImage)
	return &s.views(ctx, []models.Banner{*banner})[0], nil
}

func (s *BannerService) Delete(ctx context.Context, id string) error {
	banner, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.banners.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return helpers.ErrNotFound
		}
		return fmt.Errorf("delete banner: %w", err)
	}
	s.deleteImage(ctx, banner.ImageURL)
	return nil
}

func (s *BannerService) Reorder(ctx context.Context, ids []string) ([]BannerView, error) {
	all, err := s.banners.GetAll(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	current := make([]string, len(all))
	for i, b := range all {
		current[i] = b.ID
	}
	if err := checkPermutation(ids, current); err != nil {
		return nil, err
	}
	if err := s.banners.Reorder(ctx, ids); err != nil {
		return nil, fmt.Errorf("reorder banners: %w", err)
	}
	return s.ListAll(ctx)
}

func (s *BannerService) ToggleActive(ctx context.Context, id string) (*BannerView, error) {
	banner, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	banner.IsActive = !banner.IsActive
	if err := s.banners.Update(ctx, banner); err != nil {
		return nil, fmt.Errorf("toggle banner: %w", err)
	}
	return &s.views(ctx, []models.Banner{*banner})[0], nil
}
