package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-document-service/config"
	"github.com/tnqbao/gau-document-service/entity"
)

func testEnvConfig() *config.EnvConfig {
	cfg := &config.EnvConfig{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.Expire = 3600
	return cfg
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testEnvConfig()
	user := &entity.User{ID: uuid.New(), Role: entity.RoleEditor}

	signed, err := GenerateToken(user, cfg)
	require.NoError(t, err)

	token, err := ParseToken(signed, cfg)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, user.ID.String(), claims["user_id"])
	require.Equal(t, string(entity.RoleEditor), claims["role"])
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	cfg := testEnvConfig()
	user := &entity.User{ID: uuid.New(), Role: entity.RoleViewer}

	signed, err := GenerateToken(user, cfg)
	require.NoError(t, err)

	other := testEnvConfig()
	other.JWT.SecretKey = "another-secret"
	_, err = ParseToken(signed, other)
	require.Error(t, err)
}

func TestInjectAndReadActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	userID := uuid.New()
	claims := jwt.MapClaims{"user_id": userID.String(), "role": "ADMIN"}
	require.NoError(t, InjectClaimsToContext(c, claims))

	actor, err := GetActorFromContext(c)
	require.NoError(t, err)
	require.Equal(t, userID, actor.ID)
	require.Equal(t, entity.RoleAdmin, actor.Role)
}

func TestInjectClaimsRejectsBadUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	require.Error(t, InjectClaimsToContext(c, jwt.MapClaims{"user_id": "not-a-uuid"}))
	require.Error(t, InjectClaimsToContext(c, jwt.MapClaims{"user_id": 42}))
}
