package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyh422797297/juan-le-me/internal/models"
	"gorm.io/gorm"
)

// stubUserRepo is an in-memory UserRepository that records the context it was
// called with.
type stubUserRepo struct {
	lastCtx context.Context
	users   map[uint]*models.User
}

func (s *stubUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	s.lastCtx = ctx
	if s.users == nil {
		s.users = make(map[uint]*models.User)
	}
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	s.lastCtx = ctx
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	s.lastCtx = ctx
	var out []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *stubUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.lastCtx = ctx
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	s.lastCtx = ctx
	for _, u := range s.users {
		if u.FirebaseUID == firebaseUID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateUser(ctx context.Context, user *models.User) error {
	s.lastCtx = ctx
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) DeleteUser(ctx context.Context, id uint) error {
	s.lastCtx = ctx
	delete(s.users, id)
	return nil
}

func newProfileRequest(t *testing.T, repo *stubUserRepo, claims *models.JwtCustomClaims) (echo.Context, *httptest.ResponseRecorder, *UserHandler) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set("user", claims)
	}
	return c, rec, NewUserHandler(repo, nil)
}

func TestGetProfileThreadsRequestContext(t *testing.T) {
	repo := &stubUserRepo{users: map[uint]*models.User{}}
	u := &models.User{Username: "vera", Email: "vera@example.com"}
	u.ID = 7
	repo.users[7] = u

	c, rec, h := newProfileRequest(t, repo, &models.JwtCustomClaims{UserID: 7})
	require.NoError(t, h.GetProfile(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, c.Request().Context(), repo.lastCtx)

	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "vera", got.Username)
}

func TestGetProfileUnknownUser(t *testing.T) {
	repo := &stubUserRepo{users: map[uint]*models.User{}}

	c, _, h := newProfileRequest(t, repo, &models.JwtCustomClaims{UserID: 99})
	err := h.GetProfile(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestGetProfileUnauthenticated(t *testing.T) {
	c, _, h := newProfileRequest(t, &stubUserRepo{}, nil)
	err := h.GetProfile(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestGetUserReturnsCompactProjection(t *testing.T) {
	repo := &stubUserRepo{users: map[uint]*models.User{}}
	u := &models.User{Username: "vera", Email: "vera@example.com", AvatarURL: "https://example.com/a.png"}
	u.ID = 7
	repo.users[7] = u

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/7", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")

	h := NewUserHandler(repo, nil)
	require.NoError(t, h.GetUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, c.Request().Context(), repo.lastCtx)

	var got models.UserCompact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.UserCompact{ID: 7, Username: "vera", AvatarURL: "https://example.com/a.png"}, got)

	// The full row's email must not leak through the compact projection.
	assert.NotContains(t, rec.Body.String(), "vera@example.com")
}
