package service

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/healthtrack/internal/error_values"
	"github.com/limbo/healthtrack/internal/repository"
	"github.com/limbo/healthtrack/pkg/entity"
)

type ProfileService struct {
	repo repository.ProfilesRepositoryI
}

func NewProfileService(profilesRepo repository.ProfilesRepositoryI) *ProfileService {
	if profilesRepo == nil {
		log.Fatal("provided nil profilesRepo")
	}
	return &ProfileService{
		repo: profilesRepo,
	}
}

func (ps *ProfileService) Get(ctx context.Context, uid uuid.UUID) (*entity.Profile, error) {
	profile, err := ps.repo.GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProfileNotFound) {
			return nil, err
		}
		return nil, errors.New("profiles repository error: " + err.Error())
	}
	return profile, nil
}

func (ps *ProfileService) Save(ctx context.Context, uid uuid.UUID, req *SaveProfileRequest) (*entity.Profile, error) {
	if err := validate.Struct(*req); err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			joined := errors.New("validation error: ")
			for _, fieldErr := range validationError {
				joined = errors.Join(joined, fieldErr)
			}
			return nil, joined
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	profile, err := ps.repo.Upsert(ctx, &entity.Profile{
		UserID:   uid,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrOwnerNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("profiles repository error: " + err.Error())
	}
	return profile, nil
}
