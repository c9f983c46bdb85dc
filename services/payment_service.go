package services

import (
	"errors"

	apperrors "hoa/errors"
	"hoa/models"
	"hoa/services/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentServiceOptions chứa các dependency của PaymentService
type PaymentServiceOptions struct {
	DB        *gorm.DB
	Clock     Clock
	Logger    logger.Logger
	Bills     *BillService
	Allocator *AdvanceService
}

// PaymentService ghi nhận thanh toán của cư dân và xử lý các bước đi kèm khi
// thanh toán hoàn tất: đánh dấu hóa đơn đã thu, phân bổ thanh toán trước
type PaymentService struct {
	db        *gorm.DB
	clock     Clock
	logger    logger.Logger
	bills     *BillService
	allocator *AdvanceService
}

// NewPaymentService tạo một instance mới của PaymentService
func NewPaymentService(opts PaymentServiceOptions) *PaymentService {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &PaymentService{
		db:        opts.DB,
		clock:     opts.Clock,
		logger:    opts.Logger,
		bills:     opts.Bills,
		allocator: opts.Allocator,
	}
}

// Validate kiểm tra tính hợp lệ của một thanh toán trước khi ghi nhận.
// Khoảng ngày của thanh toán trước được chặn ở đây, trước khi thanh toán có
// thể chuyển sang completed; allocator về sau tin vào dữ liệu đã validate.
func (s *PaymentService) Validate(p *models.PaymentRecord) error {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidAmount, "Số tiền phải lớn hơn 0", nil)
	}

	if p.UserID != 0 && p.BillID != nil {
		var existing int64
		if err := s.db.Model(&models.PaymentRecord{}).
			Where("user_id = ? AND bill_id = ?", p.UserID, *p.BillID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperrors.NewAppError(apperrors.ErrCodePaymentExists, "Hóa đơn này đã có thanh toán được ghi nhận", nil)
		}
	}

	if p.PaymentType == models.PaymentTypeAdvance {
		if p.AdvanceStartDate == nil || p.AdvanceEndDate == nil {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidDateRange, "Thanh toán trước cần cả ngày bắt đầu và ngày kết thúc", nil)
		}
		start := models.DateOnly(*p.AdvanceStartDate)
		end := models.DateOnly(*p.AdvanceEndDate)
		today := models.DateOnly(s.clock.Now())
		if start.Before(today) {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidDateRange, "Ngày bắt đầu phải từ hôm nay trở đi", nil)
		}
		if !start.Before(end) {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidDateRange, "Ngày bắt đầu phải trước ngày kết thúc", nil)
		}
	}
	return nil
}

// Create validate rồi ghi nhận thanh toán. Thanh toán trước được tạo ở trạng
// thái completed sẽ được phân bổ ngay trong cùng request; trả về số hóa đơn
// đã sinh từ việc phân bổ (0 với thanh toán thường).
func (s *PaymentService) Create(payment *models.PaymentRecord) (int, error) {
	if err := s.Validate(payment); err != nil {
		return 0, err
	}
	if err := s.db.Create(payment).Error; err != nil {
		return 0, err
	}

	if payment.PaymentType == models.PaymentTypeAdvance && payment.Status == models.PaymentStatusCompleted {
		return s.allocator.Allocate(payment)
	}
	return 0, nil
}

// Complete đánh dấu một thanh toán đã hoàn tất và chạy các bước đi kèm:
// hóa đơn liên kết được chuyển sang đã thu, thanh toán trước chưa phân bổ
// thì phân bổ. Trả về bản ghi thanh toán và số hóa đơn sinh từ phân bổ.
func (s *PaymentService) Complete(paymentID uint) (*models.PaymentRecord, int, error) {
	var payment models.PaymentRecord
	if err := s.db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.NewAppError(apperrors.ErrCodePaymentNotFound, "Không tìm thấy thanh toán", err)
		}
		return nil, 0, err
	}

	if payment.Status != models.PaymentStatusCompleted {
		now := s.clock.Now()
		payment.Status = models.PaymentStatusCompleted
		payment.PaymentDate = &now
		if err := s.db.Save(&payment).Error; err != nil {
			return nil, 0, err
		}
	}

	if payment.BillID != nil {
		if _, err := s.bills.MarkPaid(*payment.BillID); err != nil {
			return nil, 0, err
		}
	}

	billsCreated := 0
	if payment.PaymentType == models.PaymentTypeAdvance && !payment.IsAdvanceAllocated {
		created, err := s.allocator.Allocate(&payment)
		if err != nil {
			return nil, 0, err
		}
		billsCreated = created
	}

	return &payment, billsCreated, nil
}

// Reject đánh dấu một thanh toán bị từ chối
func (s *PaymentService) Reject(paymentID uint) (*models.PaymentRecord, error) {
	var payment models.PaymentRecord
	if err := s.db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrCodePaymentNotFound, "Không tìm thấy thanh toán", err)
		}
		return nil, err
	}
	payment.Status = models.PaymentStatusRejected
	if err := s.db.Save(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}
