package service

import (
	"context"

	"bloodconnect/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileResolver resolves the optional owned profile of a principal. Every
// operation that needs "the donor/hospital/bank behind this user" goes
// through here instead of re-deriving it from the role inline.
type ProfileResolver interface {
	DonorID(ctx context.Context, userID uuid.UUID) (*uint, error)
	HospitalID(ctx context.Context, userID uuid.UUID) (*uint, error)
	BloodBankID(ctx context.Context, userID uuid.UUID) (*uint, error)
}

type profileResolver struct {
	db           *gorm.DB
	donorRepo    repository.DonorRepository
	hospitalRepo repository.HospitalRepository
	bankRepo     repository.BloodBankRepository
}

func NewProfileResolver(
	db *gorm.DB,
	donorRepo repository.DonorRepository,
	hospitalRepo repository.HospitalRepository,
	bankRepo repository.BloodBankRepository,
) ProfileResolver {
	return &profileResolver{
		db:           db,
		donorRepo:    donorRepo,
		hospitalRepo: hospitalRepo,
		bankRepo:     bankRepo,
	}
}

func (r *profileResolver) DonorID(ctx context.Context, userID uuid.UUID) (*uint, error) {
	donor, err := r.donorRepo.FindByUserID(r.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if donor == nil {
		return nil, nil
	}
	return &donor.ID, nil
}

func (r *profileResolver) HospitalID(ctx context.Context, userID uuid.UUID) (*uint, error) {
	hospital, err := r.hospitalRepo.FindByUserID(r.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if hospital == nil {
		return nil, nil
	}
	return &hospital.ID, nil
}

func (r *profileResolver) BloodBankID(ctx context.Context, userID uuid.UUID) (*uint, error) {
	bank, err := r.bankRepo.FindByUserID(r.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if bank == nil {
		return nil, nil
	}
	return &bank.ID, nil
}
