package services

import (
	"log"
	"time"

	"hoa/constants"
	apperrors "hoa/errors"
	"hoa/models"
	"hoa/services/logger"
	"hoa/services/notification"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BillingServiceOptions chứa các dependency của BillingService
type BillingServiceOptions struct {
	DB       *gorm.DB
	Rates    *RateTable
	Clock    Clock
	Logger   logger.Logger
	Notifier notification.Service
}

// BillingService sinh hóa đơn định kỳ và cập nhật trạng thái đến hạn.
// Cả hai tác vụ đều idempotent theo ngày nên chạy lại nhiều lần trong
// ngày không tạo thêm hóa đơn hay đổi trạng thái.
type BillingService struct {
	db       *gorm.DB
	rates    RateTable
	clock    Clock
	logger   logger.Logger
	notifier notification.Service
}

// NewBillingService tạo một instance mới của BillingService
func NewBillingService(opts BillingServiceOptions) *BillingService {
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
	return &BillingService{
		db:       opts.DB,
		rates:    rates,
		clock:    opts.Clock,
		logger:   opts.Logger,
		notifier: opts.Notifier,
	}
}

// ComputeAmount tính tổng tiền hóa đơn: tiền thuê cơ bản cộng phí dịch vụ
// theo các cờ đã đăng ký. Tiền thuê không hợp lệ (<= 0) trả về lỗi; vòng
// sinh hóa đơn bỏ qua các phân bổ như vậy thay vì dừng cả lượt chạy.
func ComputeAmount(rent decimal.Decimal, maintenance, security, amenities bool, rates RateTable) (decimal.Decimal, error) {
	if rent.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, apperrors.NewAppError(apperrors.ErrCodeInvalidRent, "Tiền thuê phải lớn hơn 0", nil)
	}
	return rent.Add(rates.AdditionalCharges(maintenance, security, amenities)).Round(2), nil
}

// IsEligible là điều kiện sinh hóa đơn cho một phân bổ: còn hiệu lực, có căn
// hộ, có ngày chuyển vào và cư dân đang hoạt động với tài khoản active
func IsEligible(a *models.AssignedUnit) bool {
	if !a.IsActive() || a.Unit == nil || a.AssignedBy == nil || a.MoveInDate == nil {
		return false
	}
	return a.AssignedBy.CanBeBilled()
}

// GenerateBills sinh hóa đơn cho các căn hộ đang có người ở, trước ngày đến
// hạn đúng BillLeadDays ngày. Mỗi phân bổ chỉ sinh tối đa một hóa đơn cho
// một kỳ; ràng buộc unique ở tầng lưu trữ chặn nốt trường hợp hai lượt chạy
// chồng nhau. Trả về số hóa đơn đã tạo.
func (s *BillingService) GenerateBills(today time.Time) (int, error) {
	today = models.DateOnly(today)

	var assignments []models.AssignedUnit
	if err := s.db.Preload("Unit").Preload("AssignedBy").
		Where("deleted_at IS NULL AND unit_id IS NOT NULL AND assigned_by_id IS NOT NULL").
		Find(&assignments).Error; err != nil {
		return 0, err
	}

	count := 0
	for i := range assignments {
		assigned := &assignments[i]
		if !IsEligible(assigned) {
			continue
		}

		total, err := ComputeAmount(assigned.Unit.RentAmount, assigned.Maintenance, assigned.Security, assigned.Amenities, s.rates)
		if err != nil {
			s.logger.Debug("Bỏ qua căn hộ %s: %v", assigned.Unit.UnitName, err)
			continue
		}

		anchorDay := assigned.MoveInDate.Day()
		nextDue := NextDueDate(today, anchorDay)
		generateOn := nextDue.AddDate(0, 0, -constants.BillLeadDays)

		if !today.Equal(generateOn) {
			continue
		}

		var existing int64
		if err := s.db.Model(&models.MonthlyBill{}).
			Where("user_id = ? AND due_date = ?", *assigned.AssignedByID, nextDue).
			Count(&existing).Error; err != nil {
			return count, err
		}
		if existing > 0 {
			continue
		}

		bill := models.MonthlyBill{
			UserID:        *assigned.AssignedByID,
			UnitID:        assigned.UnitID,
			AmountDue:     total,
			DueDate:       nextDue,
			PaymentStatus: models.BillPaymentPending,
		}
		bill.UpdateDueStatus(today)

		created, err := insertBillIdempotent(s.db, &bill)
		if err != nil {
			return count, err
		}
		if !created {
			// Một tiến trình khác đã tạo hóa đơn cho kỳ này
			continue
		}
		count++
		notifyOverdueCount(s.db, s.notifier, s.logger, bill.UserID)
	}

	log.Printf("✅ Đã sinh %d hóa đơn (trước ngày đến hạn %d ngày)", count, constants.BillLeadDays)
	return count, nil
}

// RefreshStatuses tính lại trạng thái đến hạn của toàn bộ hóa đơn theo ngày
// hiện tại, chỉ ghi những hóa đơn có thay đổi. Trả về số hóa đơn đã cập nhật.
func (s *BillingService) RefreshStatuses(today time.Time) (int, error) {
	today = models.DateOnly(today)

	var bills []models.MonthlyBill
	if err := s.db.Find(&bills).Error; err != nil {
		return 0, err
	}

	count := 0
	becameOverdue := map[uint]bool{}
	for i := range bills {
		bill := &bills[i]
		before := bill.DueStatus
		bill.UpdateDueStatus(today)
		if bill.DueStatus == before {
			continue
		}
		if err := s.db.Model(&models.MonthlyBill{}).
			Where("id = ?", bill.ID).
			Update("due_status", bill.DueStatus).Error; err != nil {
			return count, err
		}
		count++
		if bill.DueStatus == models.BillDueOverdue {
			becameOverdue[bill.UserID] = true
		}
	}

	for userID := range becameOverdue {
		notifyOverdueCount(s.db, s.notifier, s.logger, userID)
	}

	log.Printf("🔄 Đã cập nhật trạng thái %d hóa đơn", count)
	return count, nil
}

// insertBillIdempotent ghi hóa đơn với ON CONFLICT DO NOTHING trên ràng buộc
// (user_id, unit_id, due_date). Trả về false khi writer khác đã tạo trước:
// trùng hóa đơn được coi là thành công không hiệu lực, không phải lỗi.
func insertBillIdempotent(db *gorm.DB, bill *models.MonthlyBill) (bool, error) {
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "unit_id"}, {Name: "due_date"}},
		DoNothing: true,
	}).Create(bill)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// notifyOverdueCount báo số hóa đơn quá hạn hiện tại cho cư dân qua websocket.
// Lỗi gửi thông báo chỉ được log, không làm hỏng nghiệp vụ hóa đơn.
func notifyOverdueCount(db *gorm.DB, notifier notification.Service, lg logger.Logger, userID uint) {
	if notifier == nil {
		return
	}
	var overdue int64
	if err := db.Model(&models.MonthlyBill{}).
		Where("user_id = ? AND due_status = ?", userID, models.BillDueOverdue).
		Count(&overdue).Error; err != nil {
		lg.Error("Không đếm được hóa đơn quá hạn của user %d: %v", userID, err)
		return
	}
	msg := notification.NewMessageBuilder(userID, int(overdue)).Build()
	if err := notifier.SendToUser(userID, msg); err != nil {
		lg.Warn("Gửi thông báo cho user %d thất bại: %v", userID, err)
	}
}
