package services

import (
	"testing"
	"time"

	apperrors "hoa/errors"
	"hoa/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedAdvancePayment tạo thanh toán trước đã completed cho cư dân chỉ đăng ký
// phí an ninh: 8000 thuê + 2000 an ninh = 10000/tháng
func seedAdvancePayment(t *testing.T, db *gorm.DB, start, end time.Time) (*models.User, *models.Unit, *models.PaymentRecord) {
	t.Helper()
	user, unit, assigned := seedAssignment(t, db, "8000.00", date(2025, time.January, 5))
	require.NoError(t, db.Model(&models.AssignedUnit{}).Where("id = ?", assigned.ID).
		Updates(map[string]interface{}{"maintenance": false, "amenities": false}).Error)

	payment := &models.PaymentRecord{
		UserID:           user.ID,
		Amount:           decimal.NewFromInt(30000),
		Status:           models.PaymentStatusCompleted,
		PaymentType:      models.PaymentTypeAdvance,
		UnitID:           &unit.ID,
		AdvanceStartDate: &start,
		AdvanceEndDate:   &end,
	}
	require.NoError(t, db.Create(payment).Error)
	return user, unit, payment
}

func TestAllocateCreatesPaidBills(t *testing.T) {
	db := setupTestDB(t)
	user, unit, payment := seedAdvancePayment(t, db,
		date(2025, time.January, 5), date(2025, time.March, 31))

	svc := NewAdvanceService(AdvanceServiceOptions{DB: db})

	created, err := svc.Allocate(payment)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	var bills []models.MonthlyBill
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("due_date").Find(&bills).Error)
	require.Len(t, bills, 3)

	wantDates := []time.Time{
		date(2025, time.January, 5),
		date(2025, time.February, 5),
		date(2025, time.March, 5),
	}
	for i, bill := range bills {
		assert.Equal(t, wantDates[i], models.DateOnly(bill.DueDate))
		assert.Equal(t, models.BillPaymentPaid, bill.PaymentStatus)
		assert.Equal(t, models.BillDueDone, bill.DueStatus)
		assert.True(t, bill.AmountDue.Equal(decimal.NewFromInt(10000)), "got %s", bill.AmountDue)
		require.NotNil(t, bill.UnitID)
		assert.Equal(t, unit.ID, *bill.UnitID)
	}

	require.NoError(t, db.First(payment, payment.ID).Error)
	assert.True(t, payment.IsAdvanceAllocated)
	assert.Equal(t, 3, payment.AdvanceMonthsPaid)
}

func TestAllocateTwiceIsNoop(t *testing.T) {
	db := setupTestDB(t)
	_, _, payment := seedAdvancePayment(t, db,
		date(2025, time.January, 5), date(2025, time.March, 31))

	svc := NewAdvanceService(AdvanceServiceOptions{DB: db})

	created, err := svc.Allocate(payment)
	require.NoError(t, err)
	require.Equal(t, 3, created)

	created, err = svc.Allocate(payment)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	var count int64
	require.NoError(t, db.Model(&models.MonthlyBill{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestAllocateLosesClaimRace(t *testing.T) {
	db := setupTestDB(t)
	_, _, payment := seedAdvancePayment(t, db,
		date(2025, time.January, 5), date(2025, time.March, 31))

	// Tiến trình khác đã claim cờ trong DB, bản sao trong tay vẫn là false
	require.NoError(t, db.Model(&models.PaymentRecord{}).Where("id = ?", payment.ID).
		Update("is_advance_allocated", true).Error)

	svc := NewAdvanceService(AdvanceServiceOptions{DB: db})
	created, err := svc.Allocate(payment)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	var count int64
	require.NoError(t, db.Model(&models.MonthlyBill{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAllocateSkipsExistingBill(t *testing.T) {
	db := setupTestDB(t)
	user, unit, payment := seedAdvancePayment(t, db,
		date(2025, time.January, 5), date(2025, time.March, 31))

	// Kỳ tháng 2 đã có hóa đơn từ trước, chưa thanh toán
	existing := models.MonthlyBill{
		UserID:        user.ID,
		UnitID:        &unit.ID,
		AmountDue:     decimal.NewFromInt(9500),
		DueDate:       date(2025, time.February, 5),
		PaymentStatus: models.BillPaymentPending,
		DueStatus:     models.BillDueUpcoming,
	}
	require.NoError(t, db.Create(&existing).Error)

	svc := NewAdvanceService(AdvanceServiceOptions{DB: db})
	created, err := svc.Allocate(payment)
	require.NoError(t, err)
	assert.Equal(t, 2, created, "kỳ đã có hóa đơn không được tạo trùng")

	var total int64
	require.NoError(t, db.Model(&models.MonthlyBill{}).Count(&total).Error)
	assert.Equal(t, int64(3), total)

	// Hóa đơn cũ giữ nguyên, không bị ghi đè
	var after models.MonthlyBill
	require.NoError(t, db.First(&after, existing.ID).Error)
	assert.True(t, after.AmountDue.Equal(decimal.NewFromInt(9500)), "got %s", after.AmountDue)
	assert.Equal(t, models.BillPaymentPending, after.PaymentStatus)

	require.NoError(t, db.First(payment, payment.ID).Error)
	assert.Equal(t, 2, payment.AdvanceMonthsPaid)
}

func TestAllocateClampsShortMonths(t *testing.T) {
	db := setupTestDB(t)
	start := date(2025, time.January, 31)
	end := date(2025, time.March, 31)
	_, _, payment := seedAdvancePayment(t, db, start, end)

	svc := NewAdvanceService(AdvanceServiceOptions{DB: db})
	created, err := svc.Allocate(payment)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	var bills []models.MonthlyBill
	require.NoError(t, db.Order("due_date").Find(&bills).Error)
	require.Len(t, bills, 3)
	assert.Equal(t, date(2025, time.January, 31), models.DateOnly(bills[0].DueDate))
	assert.Equal(t, date(2025, time.February, 28), models.DateOnly(bills[1].DueDate))
	assert.Equal(t, date(2025, time.March, 31), models.DateOnly(bills[2].DueDate))
}

func TestAllocateSkipsNotAllocatable(t *testing.T) {
	db := setupTestDB(t)
	_, _, payment := seedAdvancePayment(t, db,
		date(2025, time.January, 5), date(2025, time.March, 31))

	svc := NewAdvanceService(AdvanceServiceOptions{DB: db})

	pending := *payment
	pending.Status = models.PaymentStatusPending
	created, err := svc.Allocate(&pending)
	require.NoError(t, err)
	assert.Equal(t, 0, created, "thanh toán chưa hoàn tất không được phân bổ")

	regular := *payment
	regular.PaymentType = models.PaymentTypeRegular
	created, err = svc.Allocate(&regular)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	noDates := *payment
	noDates.AdvanceStartDate = nil
	created, err = svc.Allocate(&noDates)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestCalculateAdvance(t *testing.T) {
	db := setupTestDB(t)
	user, unit, assigned := seedAssignment(t, db, "8000.00", date(2025, time.January, 5))
	require.NoError(t, db.Model(&models.AssignedUnit{}).Where("id = ?", assigned.ID).
		Updates(map[string]interface{}{"maintenance": false, "amenities": false}).Error)

	svc := NewAdvanceService(AdvanceServiceOptions{DB: db})

	quote, err := svc.CalculateAdvance(user.ID, unit.ID,
		date(2025, time.January, 5), date(2025, time.March, 31))
	require.NoError(t, err)
	assert.Equal(t, 3, quote.MonthsCovered)
	assert.True(t, quote.MonthlyAmount.Equal(decimal.NewFromInt(10000)), "got %s", quote.MonthlyAmount)
	assert.True(t, quote.TotalAmount.Equal(decimal.NewFromInt(30000)), "got %s", quote.TotalAmount)

	_, err = svc.CalculateAdvance(user.ID, unit.ID,
		date(2025, time.March, 31), date(2025, time.January, 5))
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidDateRange))

	_, err = svc.CalculateAdvance(9999, unit.ID,
		date(2025, time.January, 5), date(2025, time.March, 31))
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeUserNotFound))
}
