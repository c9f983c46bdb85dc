package services

import (
	"encoding/json"
	"strings"

	"hoa/constants"
	apperrors "hoa/errors"

	"github.com/dgrijalva/jwt-go"
)

// GetUserIDFromToken lấy userID và role từ token
func GetUserIDFromToken(tokenString string) (uint, int, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return 0, 0, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Token không hợp lệ", nil)
	}

	// Giải mã phần payload của token
	payload, err := jwt.DecodeSegment(parts[1])
	if err != nil {
		return 0, 0, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Không thể giải mã token", err)
	}

	claimsMap := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claimsMap); err != nil {
		return 0, 0, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Không thể parse token", err)
	}

	// Trích xuất userID và role từ claims
	userInfo, ok := claimsMap["userinfo"].(map[string]interface{})
	if !ok {
		return 0, 0, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Không tìm thấy thông tin user trong token", nil)
	}

	userID, okID := userInfo["userid"].(float64)
	if !okID {
		return 0, 0, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Không tìm thấy ID user trong token", nil)
	}

	role, okRole := userInfo["role"].(float64)
	if !okRole {
		return 0, 0, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Không tìm thấy role trong token", nil)
	}

	// Chỉ chấp nhận các role của hệ thống: cư dân, admin, kế toán
	switch int(role) {
	case constants.RoleResident, constants.RoleAdmin, constants.RoleAccountant:
	default:
		return 0, 0, apperrors.NewAppError(apperrors.ErrCodeInvalidRole, "Role trong token không hợp lệ", nil)
	}

	return uint(userID), int(role), nil
}

// GetIDFromToken lấy userID từ token
func GetIDFromToken(tokenString string) (uint, error) {
	userID, _, err := GetUserIDFromToken(tokenString)
	return userID, err
}
