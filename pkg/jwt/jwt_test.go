package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-api/pkg/jwt"
)

func TestGenerateParse(t *testing.T) {
	token, err := jwt.Generate("secret", "u1", "r1", "manager", "restaurant-api", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "r1", claims.RestaurantID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "restaurant-api", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	token, err := jwt.Generate("secret", "u1", "r1", "manager", "", -1)
	require.NoError(t, err)
	_, err = jwt.Parse("secret", token)
	assert.Error(t, err)
}

func TestEmptySecret(t *testing.T) {
	_, err := jwt.Generate("", "u1", "r1", "manager", "", 5)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
	_, err = jwt.Parse("", "x")
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}

func TestParse_RechazaOtroAlgoritmo(t *testing.T) {
	claims := jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u1",
		RestaurantID:     "r1",
		Role:             "manager",
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = jwt.Parse("secret", token)
	assert.ErrorIs(t, err, gojwt.ErrTokenSignatureInvalid)
}

func TestParse_ExpiracionObligatoria(t *testing.T) {
	claims := jwt.Claims{UserID: "u1", RestaurantID: "r1", Role: "manager"}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = jwt.Parse("secret", token)
	assert.ErrorIs(t, err, gojwt.ErrTokenRequiredClaimMissing)
}
