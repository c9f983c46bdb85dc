package services

import (
	"errors"
	"log"
	"time"

	apperrors "hoa/errors"
	"hoa/models"
	"hoa/services/logger"
	"hoa/services/notification"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdvanceServiceOptions chứa các dependency của AdvanceService
type AdvanceServiceOptions struct {
	DB       *gorm.DB
	Rates    *RateTable
	Clock    Clock
	Logger   logger.Logger
	Notifier notification.Service
}

// AdvanceService phân bổ một thanh toán trước thành chuỗi hóa đơn đã thanh
// toán, mỗi tháng trong khoảng trả trước một hóa đơn
type AdvanceService struct {
	db       *gorm.DB
	rates    RateTable
	clock    Clock
	logger   logger.Logger
	notifier notification.Service
}

// NewAdvanceService tạo một instance mới của AdvanceService
func NewAdvanceService(opts AdvanceServiceOptions) *AdvanceService {
	rates := DefaultRateTable()
	if opts.Rates != nil {
		rates = *opts.Rates
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &AdvanceService{
		db:       opts.DB,
		rates:    rates,
		clock:    opts.Clock,
		logger:   opts.Logger,
		notifier: opts.Notifier,
	}
}

// Allocate chuyển một thanh toán trước đã hoàn tất thành hóa đơn đã thanh toán
// cho từng tháng trong [AdvanceStartDate, AdvanceEndDate]. Ngày đến hạn lấy
// theo ngày của AdvanceStartDate, lùi về cuối tháng với tháng ngắn hơn.
// Cờ IsAdvanceAllocated được claim bằng UPDATE có điều kiện TRƯỚC khi sinh
// hóa đơn, nên hai lần hoàn tất trùng nhau chỉ có một lần phân bổ; gọi lại
// sau khi đã phân bổ là no-op trả về 0. Trả về số hóa đơn đã tạo.
func (s *AdvanceService) Allocate(payment *models.PaymentRecord) (int, error) {
	if !payment.IsAllocatable() {
		return 0, nil
	}

	res := s.db.Model(&models.PaymentRecord{}).
		Where("id = ? AND is_advance_allocated = ?", payment.ID, false).
		Update("is_advance_allocated", true)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Tiến trình khác đã claim việc phân bổ cho thanh toán này
		return 0, nil
	}
	payment.IsAdvanceAllocated = true

	monthlyTotal := s.monthlyTotal(payment)

	start := models.DateOnly(*payment.AdvanceStartDate)
	end := models.DateOnly(*payment.AdvanceEndDate)
	anchorDay := start.Day()

	billsCreated := 0
	for year, month := start.Year(), start.Month(); ; year, month = nextMonth(year, month) {
		dueDate := DueDateInMonth(year, month, anchorDay)
		if dueDate.After(end) {
			break
		}

		bill := models.MonthlyBill{
			UserID:        payment.UserID,
			UnitID:        payment.UnitID,
			AmountDue:     monthlyTotal,
			DueDate:       dueDate,
			PaymentStatus: models.BillPaymentPaid,
			DueStatus:     models.BillDueDone,
		}
		created, err := insertBillIdempotent(s.db, &bill)
		if err != nil {
			return billsCreated, err
		}
		if created {
			billsCreated++
		}
	}

	payment.AdvanceMonthsPaid = billsCreated
	if err := s.db.Model(&models.PaymentRecord{}).
		Where("id = ?", payment.ID).
		Update("advance_months_paid", billsCreated).Error; err != nil {
		return billsCreated, err
	}

	log.Printf("✅ Đã phân bổ thanh toán trước #%d: %d hóa đơn", payment.ID, billsCreated)
	return billsCreated, nil
}

// monthlyTotal tính tổng tiền một tháng của thanh toán trước: tiền thuê của
// căn hộ (0 nếu không gắn căn hộ) cộng phí dịch vụ theo phân bổ còn hiệu lực
// của cặp (căn hộ, cư dân); không tìm thấy phân bổ thì chỉ tính tiền thuê.
func (s *AdvanceService) monthlyTotal(payment *models.PaymentRecord) decimal.Decimal {
	monthlyRent := decimal.Zero
	if payment.UnitID != nil {
		var unit models.Unit
		if err := s.db.First(&unit, *payment.UnitID).Error; err == nil {
			monthlyRent = unit.RentAmount
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("Không đọc được căn hộ %d: %v", *payment.UnitID, err)
		}
	}

	var assigned models.AssignedUnit
	err := s.db.Where("unit_id = ? AND assigned_by_id = ? AND deleted_at IS NULL", payment.UnitID, payment.UserID).
		First(&assigned).Error
	if err == nil {
		monthlyRent = monthlyRent.Add(s.rates.AdditionalCharges(assigned.Maintenance, assigned.Security, assigned.Amenities))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("Không đọc được phân bổ căn hộ của user %d: %v", payment.UserID, err)
	}

	return monthlyRent.Round(2)
}

// AdvanceQuote là kết quả báo giá cho một khoảng thanh toán trước
type AdvanceQuote struct {
	UserID            uint            `json:"userId"`
	UnitID            uint            `json:"unitId"`
	StartDate         string          `json:"startDate"`
	EndDate           string          `json:"endDate"`
	MonthsCovered     int             `json:"monthsCovered"`
	BaseRent          decimal.Decimal `json:"baseRent"`
	AdditionalCharges decimal.Decimal `json:"additionalCharges"`
	MonthlyAmount     decimal.Decimal `json:"monthlyAmount"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
}

// CalculateAdvance báo giá tổng tiền cho một khoảng thanh toán trước mà chưa
// ghi gì vào hệ thống, dùng cho bước xác nhận trước khi cư dân chuyển tiền
func (s *AdvanceService) CalculateAdvance(userID, unitID uint, start, end time.Time) (*AdvanceQuote, error) {
	start = models.DateOnly(start)
	end = models.DateOnly(end)
	if !start.Before(end) {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidDateRange, "Ngày bắt đầu phải trước ngày kết thúc", nil)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrCodeUserNotFound, "Không tìm thấy cư dân", err)
		}
		return nil, err
	}
	var unit models.Unit
	if err := s.db.First(&unit, unitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrCodeUnitNotFound, "Không tìm thấy căn hộ", err)
		}
		return nil, err
	}

	additional := decimal.Zero
	var assigned models.AssignedUnit
	err := s.db.Where("unit_id = ? AND assigned_by_id = ? AND deleted_at IS NULL", unitID, userID).
		First(&assigned).Error
	if err == nil {
		additional = s.rates.AdditionalCharges(assigned.Maintenance, assigned.Security, assigned.Amenities)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	anchorDay := start.Day()
	months := 0
	for year, month := start.Year(), start.Month(); ; year, month = nextMonth(year, month) {
		if DueDateInMonth(year, month, anchorDay).After(end) {
			break
		}
		months++
	}

	monthly := unit.RentAmount.Add(additional).Round(2)
	return &AdvanceQuote{
		UserID:            userID,
		UnitID:            unitID,
		StartDate:         start.Format("2006-01-02"),
		EndDate:           end.Format("2006-01-02"),
		MonthsCovered:     months,
		BaseRent:          unit.RentAmount,
		AdditionalCharges: additional,
		MonthlyAmount:     monthly,
		TotalAmount:       monthly.Mul(decimal.NewFromInt(int64(months))),
	}, nil
}
