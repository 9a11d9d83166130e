package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/timewell/timewell-backend/internal/logger"
	"github.com/timewell/timewell-backend/internal/requestdata"
	"github.com/timewell/timewell-backend/internal/types"
)

type memUserTokenRepo struct {
	tokens []*types.UserToken
}

func (m *memUserTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *types.UserToken) (*types.UserToken, error) {
	m.tokens = append(m.tokens, token)
	return token, nil
}

func (m *memUserTokenRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserToken, error) {
	var out []*types.UserToken
	for _, t := range m.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memUserTokenRepo) GetByAccessToken(ctx context.Context, tx *gorm.DB, accessToken string) (*types.UserToken, error) {
	for _, t := range m.tokens {
		if t.AccessToken == accessToken {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserTokenRepo) GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error) {
	for _, t := range m.tokens {
		if t.RefreshToken == refreshToken {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserTokenRepo) DeleteByID(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID) error {
	out := m.tokens[:0]
	for _, t := range m.tokens {
		if t.ID != tokenID {
			out = append(out, t)
		}
	}
	m.tokens = out
	return nil
}

func (m *memUserTokenRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	out := m.tokens[:0]
	for _, t := range m.tokens {
		if t.UserID != userID {
			out = append(out, t)
		}
	}
	m.tokens = out
	return nil
}

func newTestAuthService(t *testing.T, tokenRepo *memUserTokenRepo) *authService {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	return &authService{
		log:           log,
		userTokenRepo: tokenRepo,
		jwtSecretKey:  "test-secret",
		accessTTL:     time.Hour,
		refreshTTL:    24 * time.Hour,
	}
}

func TestAccessTokenRoundtrip(t *testing.T) {
	tokenRepo := &memUserTokenRepo{}
	as := newTestAuthService(t, tokenRepo)

	user := &types.User{ID: uuid.New()}
	accessToken, err := as.generateAccessToken(user)
	require.NoError(t, err)
	tokenRepo.tokens = append(tokenRepo.tokens, &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour),
	})

	ctx, err := as.SetContextFromToken(context.Background(), accessToken)
	require.NoError(t, err)
	rd := requestdata.GetRequestData(ctx)
	require.NotNil(t, rd)
	require.Equal(t, user.ID, rd.UserID)
	require.Equal(t, accessToken, rd.TokenString)
	require.Equal(t, "refresh-1", rd.RefreshToken)
}

func TestSetContextFromTokenRejectsBadToken(t *testing.T) {
	as := newTestAuthService(t, &memUserTokenRepo{})
	_, err := as.SetContextFromToken(context.Background(), "not-a-jwt")
	require.Error(t, err)
}

func TestSetContextFromTokenRejectsWrongKey(t *testing.T) {
	as := newTestAuthService(t, &memUserTokenRepo{})
	other := &authService{log: as.log, jwtSecretKey: "different-secret", accessTTL: time.Hour}
	token, err := other.generateAccessToken(&types.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = as.SetContextFromToken(context.Background(), token)
	require.Error(t, err)
}

func TestSetContextFromTokenEmptyPassthrough(t *testing.T) {
	as := newTestAuthService(t, &memUserTokenRepo{})
	ctx, err := as.SetContextFromToken(context.Background(), "")
	require.NoError(t, err)
	require.Nil(t, requestdata.GetRequestData(ctx))
}
