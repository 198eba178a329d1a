package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"
	"github.com/Jatin546/routebuddy-mobile-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
)

const maxProfileImages = 6

type userStore interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	UpdateFields(ctx context.Context, userID string, fields bson.M) error
	AddBlockedUser(ctx context.Context, userID, blockedID string) error
	RemoveBlockedUser(ctx context.Context, userID, blockedID string) error
}

type mediaUploader interface {
	UploadBase64(ctx context.Context, key, b64 string) (string, error)
}

// UserService handles profile, verification and block management
type UserService struct {
	users userStore
	media mediaUploader
}

// NewUserService creates a new user service
func NewUserService(users userStore, media mediaUploader) *UserService {
	return &UserService{users: users, media: media}
}

// ProfileUpdate carries the optional profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name          *string  `json:"name"`
	Bio           *string  `json:"bio"`
	ProfileImages []string `json:"profile_images"`
}

// UpdateProfile applies a partial profile update. Images arrive base64
// encoded, are capped at six and stored in S3; the persisted values are
// object URLs.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	fields := bson.M{}

	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Bio != nil {
		fields["bio"] = *update.Bio
	}
	if update.ProfileImages != nil {
		images := update.ProfileImages
		if len(images) > maxProfileImages {
			images = images[:maxProfileImages]
		}
		urls := make([]string, 0, len(images))
		for i, img := range images {
			url, err := s.storeImage(ctx, fmt.Sprintf("profiles/%s/%d", userID, i), img)
			if err != nil {
				return nil, err
			}
			urls = append(urls, url)
		}
		fields["profile_images"] = urls
	}

	if len(fields) > 0 {
		if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	return s.users.GetByID(ctx, userID)
}

// VerifyID stores the uploaded identity document and flags the user
// verified.
func (s *UserService) VerifyID(ctx context.Context, userID, idImage string) error {
	if idImage == "" {
		return fmt.Errorf("%w: id_image is required", ErrValidation)
	}

	url, err := s.storeImage(ctx, fmt.Sprintf("verification/%s", userID), idImage)
	if err != nil {
		return err
	}

	return s.users.UpdateFields(ctx, userID, bson.M{
		"id_verification_image": url,
		"verified":              true,
	})
}

// storeImage uploads when a media store is configured; otherwise the
// payload is kept inline, matching the pre-S3 behavior.
func (s *UserService) storeImage(ctx context.Context, key, b64 string) (string, error) {
	if s.media == nil {
		return b64, nil
	}
	return s.media.UploadBase64(ctx, key, b64)
}

// GetPublicProfile returns the public view of another user
func (s *UserService) GetPublicProfile(ctx context.Context, userID string) (*models.PublicProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &models.PublicProfile{
		UserID:        user.UserID,
		Name:          user.Name,
		Picture:       user.Picture,
		ProfileImages: user.ProfileImages,
		Bio:           user.Bio,
		Verified:      user.Verified,
		CreatedAt:     user.CreatedAt,
	}, nil
}

// Block adds targetID to the user's blocked set. Idempotent.
func (s *UserService) Block(ctx context.Context, userID, targetID string) error {
	if targetID == "" || targetID == userID {
		return fmt.Errorf("%w: invalid target user", ErrValidation)
	}
	return s.users.AddBlockedUser(ctx, userID, targetID)
}

// Unblock removes targetID from the user's blocked set. Idempotent.
func (s *UserService) Unblock(ctx context.Context, userID, targetID string) error {
	if targetID == "" {
		return fmt.Errorf("%w: invalid target user", ErrValidation)
	}
	return s.users.RemoveBlockedUser(ctx, userID, targetID)
}

// SetPushToken registers or clears the device push token for a user
func (s *UserService) SetPushToken(ctx context.Context, userID string, token *string) error {
	return s.users.UpdateFields(ctx, userID, bson.M{"push_token": token})
}
