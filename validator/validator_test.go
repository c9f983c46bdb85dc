package validator

import (
	"testing"
	"time"

	apperrors "hoa/errors"
	"hoa/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateUnit(t *testing.T) {
	valid := func() *models.Unit {
		return &models.Unit{
			UnitName:   "A-101",
			Building:   "Tòa A",
			RentAmount: decimal.NewFromInt(8000),
		}
	}

	assert.NoError(t, ValidateUnit(valid()))

	noName := valid()
	noName.UnitName = ""
	assert.True(t, apperrors.Is(ValidateUnit(noName), apperrors.ErrCodeRequiredField))

	freeRent := valid()
	freeRent.RentAmount = decimal.Zero
	assert.True(t, apperrors.Is(ValidateUnit(freeRent), apperrors.ErrCodeInvalidRent))
}

func TestValidateAssignment(t *testing.T) {
	unitID := uint(1)
	userID := uint(2)
	moveIn := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)

	valid := func() *models.AssignedUnit {
		return &models.AssignedUnit{
			UnitID:       &unitID,
			AssignedByID: &userID,
			MoveInDate:   &moveIn,
			UnitStatus:   models.UnitStatusOwnerOccupied,
		}
	}

	assert.NoError(t, ValidateAssignment(valid()))

	noUnit := valid()
	noUnit.UnitID = nil
	assert.True(t, apperrors.Is(ValidateAssignment(noUnit), apperrors.ErrCodeRequiredField))

	noMoveIn := valid()
	noMoveIn.MoveInDate = nil
	assert.True(t, apperrors.Is(ValidateAssignment(noMoveIn), apperrors.ErrCodeRequiredField))

	badStatus := valid()
	badStatus.UnitStatus = "hotel"
	assert.True(t, apperrors.Is(ValidateAssignment(badStatus), apperrors.ErrCodeValidation))
}

func TestValidatePaymentMethod(t *testing.T) {
	assert.NoError(t, ValidatePaymentMethod(&models.PaymentMethod{
		Name:          "Chuyển khoản",
		AccountNumber: "0123456789",
	}))

	assert.True(t, apperrors.Is(
		ValidatePaymentMethod(&models.PaymentMethod{AccountNumber: "0123456789"}),
		apperrors.ErrCodeRequiredField))

	assert.True(t, apperrors.Is(
		ValidatePaymentMethod(&models.PaymentMethod{Name: "Chuyển khoản", AccountNumber: "abc"}),
		apperrors.ErrCodeInvalidFormat))
}
