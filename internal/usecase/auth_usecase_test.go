package usecase

import (
	"context"
	"testing"
	"time"

	"bloodconnect/config"
	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/domain/entity"
	"bloodconnect/internal/repository"
	"bloodconnect/internal/service"
	"bloodconnect/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type authFixture struct {
	db      *gorm.DB
	usecase AuthUsecase
	jwt     *jwt.JWTService
	redis   *redis.Client
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db := openTestDB(t)
	log := testLogger()

	roles := []entity.Role{
		{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin},
		{ID: entity.RoleIDDonor, RoleName: entity.RoleDonor},
		{ID: entity.RoleIDHospital, RoleName: entity.RoleHospital},
		{ID: entity.RoleIDBloodBank, RoleName: entity.RoleBloodBank},
	}
	require.NoError(t, db.Create(&roles).Error)

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})

	userRepo := repository.NewUserRepository()
	donorRepo := repository.NewDonorRepository()
	hospitalRepo := repository.NewHospitalRepository()
	bankRepo := repository.NewBloodBankRepository()
	inventoryRepo := repository.NewBloodInventoryRepository()
	audit := service.NewAuditService(db, log, repository.NewAuditLogRepository())

	return &authFixture{
		db:      db,
		usecase: NewAuthUsecase(db, log, userRepo, donorRepo, hospitalRepo, bankRepo, inventoryRepo, audit, jwtService, client),
		jwt:     jwtService,
		redis:   client,
	}
}

func registerDonorAccount(t *testing.T, f *authFixture, email string) *dto.UserResponse {
	t.Helper()

	resp, err := f.usecase.RegisterDonor(context.Background(), &dto.RegisterDonorRequest{
		Email:     email,
		Password:  "secret-password",
		FullName:  "Sari Dewi",
		BloodType: "O+",
		Phone:     "+62811000111",
		City:      "Bandung",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterDonorCreatesProfile(t *testing.T) {
	f := newAuthFixture(t)

	resp := registerDonorAccount(t, f, "sari@example.com")
	assert.Equal(t, entity.RoleDonor, resp.Role)

	var donor entity.Donor
	require.NoError(t, f.db.Where("user_id = ?", resp.ID).First(&donor).Error)
	assert.Equal(t, "Sari Dewi", donor.Name)
	assert.Equal(t, entity.BloodType("O+"), donor.BloodType)
	assert.True(t, donor.Available)
}

func TestRegisterDonorRejectsInvalidBloodType(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.usecase.RegisterDonor(context.Background(), &dto.RegisterDonorRequest{
		Email:     "sari@example.com",
		Password:  "secret-password",
		FullName:  "Sari Dewi",
		BloodType: "O#",
		Phone:     "+62811",
		City:      "Bandung",
	})
	assert.ErrorIs(t, err, ErrInvalidBloodType)
}

func TestRegisterBloodBankSeedsInventory(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.usecase.RegisterBloodBank(context.Background(), &dto.RegisterBloodBankRequest{
		Email:    "bank@example.com",
		Password: "secret-password",
		FullName: "Operator PMI",
		Name:     "PMI Pusat",
		Address:  "Jl. Gatot Subroto 96",
		City:     "Jakarta",
		Phone:    "+62215550101",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBloodBank, resp.Role)

	var bank entity.BloodBank
	require.NoError(t, f.db.Where("user_id = ?", resp.ID).First(&bank).Error)

	var count int64
	require.NoError(t, f.db.Model(&entity.BloodInventory{}).Where("blood_bank_id = ?", bank.ID).Count(&count).Error)
	assert.Equal(t, int64(len(entity.BloodTypes)), count)
}

func TestLoginIssuesStoredTokenPair(t *testing.T) {
	f := newAuthFixture(t)
	registerDonorAccount(t, f, "sari@example.com")
	ctx := context.Background()

	tokens, err := f.usecase.Login(ctx, &dto.LoginRequest{
		Email:    "sari@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), tokens.ExpiresIn)

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleIDDonor, claims.RoleID)

	// Issued tokens are tracked in Redis for revocation checks
	exists, err := f.redis.Exists(ctx, "access_token:"+claims.UserID.String()+":"+claims.TokenID).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newAuthFixture(t)
	registerDonorAccount(t, f, "sari@example.com")
	ctx := context.Background()

	_, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "sari@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.usecase.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsDeactivatedUser(t *testing.T) {
	f := newAuthFixture(t)
	resp := registerDonorAccount(t, f, "sari@example.com")

	require.NoError(t, f.db.Model(&entity.User{}).Where("id = ?", resp.ID).Update("is_active", false).Error)

	_, err := f.usecase.Login(context.Background(), &dto.LoginRequest{
		Email:    "sari@example.com",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestRefreshTokenRotatesSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	registerDonorAccount(t, f, "sari@example.com")
	ctx := context.Background()

	tokens, err := f.usecase.Login(ctx, &dto.LoginRequest{
		Email:    "sari@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	rotated, err := f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)

	// The consumed refresh token cannot be replayed
	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// The rotated one still works
	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: rotated.RefreshToken})
	assert.NoError(t, err)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	registerDonorAccount(t, f, "sari@example.com")
	ctx := context.Background()

	tokens, err := f.usecase.Login(ctx, &dto.LoginRequest{
		Email:    "sari@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesTokens(t *testing.T) {
	f := newAuthFixture(t)
	registerDonorAccount(t, f, "sari@example.com")
	ctx := context.Background()

	tokens, err := f.usecase.Login(ctx, &dto.LoginRequest{
		Email:    "sari@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	accessClaims, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	refreshClaims, err := f.jwt.ValidateToken(tokens.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, f.usecase.Logout(ctx, accessClaims.TokenID, refreshClaims.TokenID))

	exists, err := f.redis.Exists(ctx,
		"access_token:"+accessClaims.UserID.String()+":"+accessClaims.TokenID,
		"refresh_token:"+refreshClaims.UserID.String()+":"+refreshClaims.TokenID,
	).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestGetCurrentUserUnknown(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.usecase.GetCurrentUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
