package services

import (
	"testing"
	"time"

	"hoa/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAmount(t *testing.T) {
	rates := RateTable{
		Security:    decimal.NewFromInt(2000),
		Amenities:   decimal.NewFromInt(2500),
		Maintenance: decimal.NewFromInt(1500),
	}

	total, err := ComputeAmount(decimal.NewFromInt(10000), true, true, false, rates)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(13500)), "10000 + bảo trì 1500 + an ninh 2000, got %s", total)

	total, err = ComputeAmount(decimal.NewFromInt(10000), false, false, false, rates)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(10000)))

	_, err = ComputeAmount(decimal.Zero, true, true, true, rates)
	assert.Error(t, err)
	_, err = ComputeAmount(decimal.NewFromInt(-100), true, true, true, rates)
	assert.Error(t, err)
}

func TestIsEligible(t *testing.T) {
	unitID := uint(1)
	userID := uint(2)
	moveIn := date(2025, time.January, 25)

	active := func() *models.AssignedUnit {
		return &models.AssignedUnit{
			UnitID:       &unitID,
			Unit:         &models.Unit{ID: unitID},
			AssignedByID: &userID,
			AssignedBy:   &models.User{ID: userID, IsActive: true, AccountStatus: models.AccountStatusActive},
			MoveInDate:   &moveIn,
		}
	}

	assert.True(t, IsEligible(active()))

	deleted := active()
	now := time.Now()
	deleted.DeletedAt = &now
	assert.False(t, IsEligible(deleted), "đã chuyển đi thì không sinh hóa đơn")

	noMoveIn := active()
	noMoveIn.MoveInDate = nil
	assert.False(t, IsEligible(noMoveIn))

	suspended := active()
	suspended.AssignedBy.AccountStatus = models.AccountStatusSuspended
	assert.False(t, IsEligible(suspended))

	inactive := active()
	inactive.AssignedBy.IsActive = false
	assert.False(t, IsEligible(inactive))
}

func TestGenerateBillsOnLeadDay(t *testing.T) {
	db := setupTestDB(t)
	user, unit, _ := seedAssignment(t, db, "8000.00", date(2025, time.January, 25))

	svc := NewBillingService(BillingServiceOptions{DB: db})

	// Ngày neo 25, sinh trước 7 ngày: chỉ đúng ngày 18 mới sinh
	created, err := svc.GenerateBills(date(2025, time.March, 17))
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	created, err = svc.GenerateBills(date(2025, time.March, 18))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	var bill models.MonthlyBill
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&bill).Error)
	assert.Equal(t, date(2025, time.March, 25), models.DateOnly(bill.DueDate))
	assert.Equal(t, models.BillPaymentPending, bill.PaymentStatus)
	assert.Equal(t, models.BillDueUpcoming, bill.DueStatus)
	require.NotNil(t, bill.UnitID)
	assert.Equal(t, unit.ID, *bill.UnitID)
	// 8000 thuê + 1500 bảo trì + 2000 an ninh + 2500 tiện ích
	assert.True(t, bill.AmountDue.Equal(decimal.NewFromInt(14000)), "got %s", bill.AmountDue)
}

func TestGenerateBillsIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedAssignment(t, db, "8000.00", date(2025, time.January, 25))

	svc := NewBillingService(BillingServiceOptions{DB: db})
	today := date(2025, time.March, 18)

	created, err := svc.GenerateBills(today)
	require.NoError(t, err)
	require.Equal(t, 1, created)

	// Chạy lại cùng ngày không sinh thêm
	created, err = svc.GenerateBills(today)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	var count int64
	require.NoError(t, db.Model(&models.MonthlyBill{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGenerateBillsSkipsIneligible(t *testing.T) {
	db := setupTestDB(t)
	user, _, assigned := seedAssignment(t, db, "8000.00", date(2025, time.January, 25))

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("account_status", models.AccountStatusSuspended).Error)

	svc := NewBillingService(BillingServiceOptions{DB: db})
	created, err := svc.GenerateBills(date(2025, time.March, 18))
	require.NoError(t, err)
	assert.Equal(t, 0, created, "tài khoản suspended không sinh hóa đơn")

	// Khôi phục tài khoản nhưng cư dân đã chuyển đi
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("account_status", models.AccountStatusActive).Error)
	now := time.Now()
	require.NoError(t, db.Model(&models.AssignedUnit{}).Where("id = ?", assigned.ID).
		Update("deleted_at", now).Error)

	created, err = svc.GenerateBills(date(2025, time.March, 18))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestGenerateBillsSkipsInvalidRent(t *testing.T) {
	db := setupTestDB(t)
	_, unit, _ := seedAssignment(t, db, "8000.00", date(2025, time.January, 25))

	require.NoError(t, db.Model(&models.Unit{}).Where("id = ?", unit.ID).
		Update("rent_amount", decimal.Zero).Error)

	svc := NewBillingService(BillingServiceOptions{DB: db})
	created, err := svc.GenerateBills(date(2025, time.March, 18))
	require.NoError(t, err)
	assert.Equal(t, 0, created, "tiền thuê bằng 0 thì bỏ qua, không lỗi cả lượt chạy")
}

func TestGenerateBillsSurvivesNotifierFailure(t *testing.T) {
	db := setupTestDB(t)
	user, _, _ := seedAssignment(t, db, "8000.00", date(2025, time.January, 25))

	svc := NewBillingService(BillingServiceOptions{DB: db, Notifier: brokenNotifier{}})

	// Kênh thông báo hỏng không được làm hỏng việc sinh hóa đơn
	created, err := svc.GenerateBills(date(2025, time.March, 18))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	var count int64
	require.NoError(t, db.Model(&models.MonthlyBill{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRefreshStatuses(t *testing.T) {
	db := setupTestDB(t)
	user, unit, _ := seedAssignment(t, db, "8000.00", date(2025, time.January, 10))

	bill := models.MonthlyBill{
		UserID:        user.ID,
		UnitID:        &unit.ID,
		AmountDue:     decimal.NewFromInt(14000),
		DueDate:       date(2025, time.March, 10),
		PaymentStatus: models.BillPaymentPending,
		DueStatus:     models.BillDueUpcoming,
	}
	require.NoError(t, db.Create(&bill).Error)

	svc := NewBillingService(BillingServiceOptions{DB: db})

	updated, err := svc.RefreshStatuses(date(2025, time.March, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	require.NoError(t, db.First(&bill, bill.ID).Error)
	assert.Equal(t, models.BillDueToday, bill.DueStatus)

	// Cùng ngày chạy lại không ghi gì
	updated, err = svc.RefreshStatuses(date(2025, time.March, 10))
	require.NoError(t, err)
	assert.Equal(t, 0, updated)

	updated, err = svc.RefreshStatuses(date(2025, time.March, 11))
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	require.NoError(t, db.First(&bill, bill.ID).Error)
	assert.Equal(t, models.BillDueOverdue, bill.DueStatus)
}

func TestRefreshStatusesKeepsPaidDone(t *testing.T) {
	db := setupTestDB(t)
	user, unit, _ := seedAssignment(t, db, "8000.00", date(2025, time.January, 10))

	bill := models.MonthlyBill{
		UserID:        user.ID,
		UnitID:        &unit.ID,
		AmountDue:     decimal.NewFromInt(14000),
		DueDate:       date(2025, time.March, 10),
		PaymentStatus: models.BillPaymentPaid,
	}
	require.NoError(t, db.Create(&bill).Error)

	svc := NewBillingService(BillingServiceOptions{DB: db})
	updated, err := svc.RefreshStatuses(date(2025, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, updated)

	require.NoError(t, db.First(&bill, bill.ID).Error)
	assert.Equal(t, models.BillDueDone, bill.DueStatus, "hóa đơn đã thanh toán luôn là done dù quá ngày")
}
