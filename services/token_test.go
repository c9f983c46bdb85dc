package services

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"hoa/constants"
	apperrors "hoa/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildToken(t *testing.T, userinfo map[string]interface{}) string {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{"userinfo": userinfo})
	require.NoError(t, err)
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return "header." + encoded + ".signature"
}

func TestGetUserIDFromToken(t *testing.T) {
	token := buildToken(t, map[string]interface{}{
		"userid": 7,
		"role":   constants.RoleAccountant,
	})

	userID, role, err := GetUserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
	assert.Equal(t, constants.RoleAccountant, role)
}

func TestGetUserIDFromTokenRejectsUnknownRole(t *testing.T) {
	token := buildToken(t, map[string]interface{}{
		"userid": 7,
		"role":   9,
	})

	_, _, err := GetUserIDFromToken(token)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidRole))
}

func TestGetUserIDFromTokenRejectsMalformed(t *testing.T) {
	_, _, err := GetUserIDFromToken("không-phải-jwt")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidToken))

	// Payload hợp lệ nhưng thiếu userinfo
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"7"}`))
	_, _, err = GetUserIDFromToken("header." + payload + ".signature")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidToken))
}
