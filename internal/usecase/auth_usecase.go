package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bloodconnect/internal/converter"
	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/domain/entity"
	"bloodconnect/internal/domain/repository"
	"bloodconnect/internal/service"
	"bloodconnect/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrUserInactive       = errors.New("user account is deactivated")
)

type AuthUsecase interface {
	RegisterDonor(ctx context.Context, req *dto.RegisterDonorRequest) (*dto.UserResponse, error)
	RegisterHospital(ctx context.Context, req *dto.RegisterHospitalRequest) (*dto.UserResponse, error)
	RegisterBloodBank(ctx context.Context, req *dto.RegisterBloodBankRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	donorRepo    repository.DonorRepository
	hospitalRepo repository.HospitalRepository
	bankRepo     repository.BloodBankRepository
	inventory    repository.BloodInventoryRepository
	audit        service.AuditService
	jwtService   *jwt.JWTService
	redisClient  *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	donorRepo repository.DonorRepository,
	hospitalRepo repository.HospitalRepository,
	bankRepo repository.BloodBankRepository,
	inventory repository.BloodInventoryRepository,
	audit service.AuditService,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		donorRepo:    donorRepo,
		hospitalRepo: hospitalRepo,
		bankRepo:     bankRepo,
		inventory:    inventory,
		audit:        audit,
		jwtService:   jwtService,
		redisClient:  redisClient,
	}
}

func (u *authUsecase) RegisterDonor(ctx context.Context, req *dto.RegisterDonorRequest) (*dto.UserResponse, error) {
	bloodType := entity.BloodType(req.BloodType)
	if !bloodType.IsValid() {
		return nil, ErrInvalidBloodType
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.createUser(tx, req.Email, req.Password, req.FullName, entity.RoleIDDonor)
	if err != nil {
		return nil, err
	}

	donor := &entity.Donor{
		UserID:    &user.ID,
		Name:      req.FullName,
		BloodType: bloodType,
		Phone:     req.Phone,
		Email:     &req.Email,
		City:      req.City,
		Address:   req.Address,
		Available: true,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if err := u.donorRepo.Create(tx, donor); err != nil {
		u.log.Warnf("Failed to create donor profile: %+v", err)
		return nil, err
	}

	u.audit.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserRegister, "donor", fmt.Sprintf("%d", donor.ID), donor)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.userResponse(user, entity.RoleDonor), nil
}

func (u *authUsecase) RegisterHospital(ctx context.Context, req *dto.RegisterHospitalRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.createUser(tx, req.Email, req.Password, req.FullName, entity.RoleIDHospital)
	if err != nil {
		return nil, err
	}

	hospital := &entity.Hospital{
		UserID:           &user.ID,
		Name:             req.Name,
		Address:          req.Address,
		City:             req.City,
		Phone:            req.Phone,
		Email:            &req.Email,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		EmergencyContact: req.EmergencyContact,
	}

	if err := u.hospitalRepo.Create(tx, hospital); err != nil {
		u.log.Warnf("Failed to create hospital profile: %+v", err)
		return nil, err
	}

	u.audit.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserRegister, "hospital", fmt.Sprintf("%d", hospital.ID), hospital)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.userResponse(user, entity.RoleHospital), nil
}

func (u *authUsecase) RegisterBloodBank(ctx context.Context, req *dto.RegisterBloodBankRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.createUser(tx, req.Email, req.Password, req.FullName, entity.RoleIDBloodBank)
	if err != nil {
		return nil, err
	}

	bank := &entity.BloodBank{
		UserID:         &user.ID,
		Name:           req.Name,
		Address:        req.Address,
		City:           req.City,
		Phone:          req.Phone,
		Email:          &req.Email,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		OperatingHours: req.OperatingHours,
	}

	if err := u.bankRepo.Create(tx, bank); err != nil {
		u.log.Warnf("Failed to create blood bank profile: %+v", err)
		return nil, err
	}

	// Every bank starts with an explicit zero row per blood type so that
	// inventory reads never have to special-case missing rows
	if err := u.inventory.InitBank(tx, bank.ID); err != nil {
		u.log.Warnf("Failed to seed inventory for bank %d: %+v", bank.ID, err)
		return nil, err
	}

	u.audit.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserRegister, "blood_bank", fmt.Sprintf("%d", bank.ID), bank)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.userResponse(user, entity.RoleBloodBank), nil
}

func (u *authUsecase) createUser(tx *gorm.DB, email, password, fullName string, roleID int) (*entity.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashedPassword),
		FullName: fullName,
		RoleID:   roleID,
		IsActive: true,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	return user, nil
}

func (u *authUsecase) userResponse(user *entity.User, role string) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.storeTokens(ctx, user.ID, accessTokenID, refreshTokenID); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, accessTokenID, refreshTokenID string) error {
	accessPattern := fmt.Sprintf("access_token:*:%s", accessTokenID)
	refreshPattern := fmt.Sprintf("refresh_token:*:%s", refreshTokenID)

	for _, pattern := range []string{accessPattern, refreshPattern} {
		keys, err := u.redisClient.Keys(ctx, pattern).Result()
		if err != nil {
			u.log.Warnf("Failed to get token keys for %s: %+v", pattern, err)
			return err
		}
		if len(keys) > 0 {
			if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
				u.log.Warnf("Failed to delete tokens for %s: %+v", pattern, err)
				return err
			}
		}
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	refreshKey := fmt.Sprintf("refresh_token:%s:%s", claims.UserID.String(), claims.TokenID)
	exists, err := u.redisClient.Exists(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to check refresh token in Redis: %+v", err)
		return nil, err
	}
	if exists == 0 {
		return nil, ErrTokenRevoked
	}

	// Rotate: the old refresh token is single-use
	if err := u.redisClient.Del(ctx, refreshKey).Err(); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(claims.UserID, claims.Email, claims.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(claims.UserID, claims.Email, claims.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.storeTokens(ctx, claims.UserID, accessTokenID, refreshTokenID); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) storeTokens(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	accessKey := fmt.Sprintf("access_token:%s:%s", userID.String(), accessTokenID)
	refreshKey := fmt.Sprintf("refresh_token:%s:%s", userID.String(), refreshTokenID)

	if err := u.redisClient.Set(ctx, accessKey, "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return err
	}

	if err := u.redisClient.Set(ctx, refreshKey, "valid", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return err
	}

	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
