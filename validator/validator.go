package validator

import (
	"regexp"

	"hoa/errors"
	"hoa/models"

	"github.com/shopspring/decimal"
)

// ValidateUnit validate thông tin căn hộ
func ValidateUnit(unit *models.Unit) error {
	if unit.UnitName == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Tên căn hộ không được để trống", nil)
	}

	if unit.Building == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Tòa nhà không được để trống", nil)
	}

	if unit.RentAmount.LessThanOrEqual(decimal.Zero) {
		return errors.NewAppError(errors.ErrCodeInvalidRent, "Tiền thuê phải lớn hơn 0", nil)
	}

	if unit.Bedrooms < 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "Số phòng ngủ không được âm", nil)
	}

	return nil
}

// ValidateAssignment validate phân bổ cư dân vào căn hộ
func ValidateAssignment(assignment *models.AssignedUnit) error {
	if assignment.UnitID == nil || assignment.AssignedByID == nil {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Cần cả căn hộ và cư dân để phân bổ", nil)
	}

	if assignment.MoveInDate == nil {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Ngày chuyển vào không được để trống", nil)
	}

	switch assignment.UnitStatus {
	case "", models.UnitStatusOwnerOccupied, models.UnitStatusRentedShortTerm, models.UnitStatusAirBnb:
	default:
		return errors.NewAppError(errors.ErrCodeValidation, "Trạng thái căn hộ không hợp lệ", nil)
	}

	return nil
}

// ValidatePaymentMethod validate phương thức thanh toán
func ValidatePaymentMethod(method *models.PaymentMethod) error {
	if method.Name == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Tên phương thức không được để trống", nil)
	}

	if method.AccountNumber != "" && !isValidAccountNumber(method.AccountNumber) {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "Số tài khoản không hợp lệ", nil)
	}

	return nil
}

// isValidAccountNumber kiểm tra số tài khoản hợp lệ
func isValidAccountNumber(account string) bool {
	accountRegex := regexp.MustCompile(`^[0-9]{6,20}$`)
	return accountRegex.MatchString(account)
}
