package services

import (
	"errors"
	"time"

	apperrors "hoa/errors"
	"hoa/models"
	"hoa/services/logger"
	"hoa/services/notification"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillServiceOptions chứa các dependency của BillService
type BillServiceOptions struct {
	DB       *gorm.DB
	Clock    Clock
	Logger   logger.Logger
	Notifier notification.Service
}

// BillService phục vụ tra cứu hóa đơn, đánh dấu đã thanh toán và các
// báo cáo tổng hợp theo tháng/năm cho phần back office
type BillService struct {
	db       *gorm.DB
	clock    Clock
	logger   logger.Logger
	notifier notification.Service
}

// NewBillService tạo một instance mới của BillService
func NewBillService(opts BillServiceOptions) *BillService {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &BillService{
		db:       opts.DB,
		clock:    opts.Clock,
		logger:   opts.Logger,
		notifier: opts.Notifier,
	}
}

// BillFilter là điều kiện lọc danh sách hóa đơn
type BillFilter struct {
	UserID        uint
	PaymentStatus string
	DueStatus     string
	Page          int
	Limit         int
}

// List trả về danh sách hóa đơn theo bộ lọc, kèm tổng số bản ghi
func (s *BillService) List(filter BillFilter) ([]models.MonthlyBill, int64, error) {
	tx := s.db.Model(&models.MonthlyBill{})
	if filter.UserID != 0 {
		tx = tx.Where("user_id = ?", filter.UserID)
	}
	if filter.PaymentStatus != "" {
		tx = tx.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.DueStatus != "" {
		tx = tx.Where("due_status = ?", filter.DueStatus)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	var bills []models.MonthlyBill
	if err := tx.Preload("Unit").Preload("User").
		Order("due_date DESC").
		Offset(filter.Page * limit).Limit(limit).
		Find(&bills).Error; err != nil {
		return nil, 0, err
	}
	return bills, total, nil
}

// GetByID trả về một hóa đơn theo ID
func (s *BillService) GetByID(billID uint) (*models.MonthlyBill, error) {
	var bill models.MonthlyBill
	if err := s.db.Preload("Unit").Preload("User").First(&bill, billID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrCodeBillNotFound, "Không tìm thấy hóa đơn", err)
		}
		return nil, err
	}
	return &bill, nil
}

// MarkPaid đánh dấu hóa đơn đã thanh toán; trạng thái đến hạn thành done.
// Gọi lại trên hóa đơn đã thanh toán là no-op.
func (s *BillService) MarkPaid(billID uint) (*models.MonthlyBill, error) {
	var bill models.MonthlyBill
	if err := s.db.First(&bill, billID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrCodeBillNotFound, "Không tìm thấy hóa đơn", err)
		}
		return nil, err
	}
	if bill.PaymentStatus == models.BillPaymentPaid {
		return &bill, nil
	}

	bill.PaymentStatus = models.BillPaymentPaid
	bill.UpdateDueStatus(s.clock.Now())
	if err := s.db.Save(&bill).Error; err != nil {
		return nil, err
	}

	notifyOverdueCount(s.db, s.notifier, s.logger, bill.UserID)
	return &bill, nil
}

// MonthlySummary là tổng hợp hóa đơn của một tháng
type MonthlySummary struct {
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	TotalDue       decimal.Decimal `json:"totalDue"`
	TotalCollected decimal.Decimal `json:"totalCollected"`
	PendingCount   int64           `json:"pendingCount"`
	PaidCount      int64           `json:"paidCount"`
	OverdueCount   int64           `json:"overdueCount"`
}

// SummarizeMonth tổng hợp hóa đơn đến hạn trong một tháng: tổng phải thu,
// tổng đã thu và số lượng theo trạng thái
func (s *BillService) SummarizeMonth(year int, month time.Month) (*MonthlySummary, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	inMonth := func() *gorm.DB {
		return s.db.Model(&models.MonthlyBill{}).Where("due_date >= ? AND due_date < ?", from, to)
	}

	summary := &MonthlySummary{Year: year, Month: int(month)}

	if err := inMonth().Where("payment_status = ?", models.BillPaymentPending).
		Select("COALESCE(SUM(amount_due), 0)").Scan(&summary.TotalDue).Error; err != nil {
		return nil, err
	}
	if err := inMonth().Where("payment_status = ?", models.BillPaymentPaid).
		Select("COALESCE(SUM(amount_due), 0)").Scan(&summary.TotalCollected).Error; err != nil {
		return nil, err
	}
	if err := inMonth().Where("payment_status = ?", models.BillPaymentPending).
		Count(&summary.PendingCount).Error; err != nil {
		return nil, err
	}
	if err := inMonth().Where("payment_status = ?", models.BillPaymentPaid).
		Count(&summary.PaidCount).Error; err != nil {
		return nil, err
	}
	if err := inMonth().Where("due_status = ?", models.BillDueOverdue).
		Count(&summary.OverdueCount).Error; err != nil {
		return nil, err
	}
	return summary, nil
}

// YearlySummary là tổng hợp hóa đơn của một năm, chia theo tháng
type YearlySummary struct {
	Year        int              `json:"year"`
	TotalPaid   decimal.Decimal  `json:"totalPaid"`
	TotalUnpaid decimal.Decimal  `json:"totalUnpaid"`
	Months      []MonthlySummary `json:"months"`
}

// SummarizeYear tổng hợp hóa đơn của một năm theo từng tháng
func (s *BillService) SummarizeYear(year int) (*YearlySummary, error) {
	result := &YearlySummary{
		Year:        year,
		TotalPaid:   decimal.Zero,
		TotalUnpaid: decimal.Zero,
	}
	for month := time.January; month <= time.December; month++ {
		summary, err := s.SummarizeMonth(year, month)
		if err != nil {
			return nil, err
		}
		result.Months = append(result.Months, *summary)
		result.TotalPaid = result.TotalPaid.Add(summary.TotalCollected)
		result.TotalUnpaid = result.TotalUnpaid.Add(summary.TotalDue)
	}
	return result, nil
}

// OverdueUser là một cư dân đang có hóa đơn quá hạn
type OverdueUser struct {
	UserID       uint            `json:"userId"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	OverdueCount int64           `json:"overdueCount"`
	TotalOverdue decimal.Decimal `json:"totalOverdue"`
}

// OverdueUsers liệt kê các cư dân đang có hóa đơn quá hạn kèm số lượng và
// tổng tiền, phục vụ màn hình nhắc nợ
func (s *BillService) OverdueUsers() ([]OverdueUser, error) {
	var rows []OverdueUser
	err := s.db.Model(&models.MonthlyBill{}).
		Select("monthly_bills.user_id AS user_id, users.name AS name, users.email AS email, COUNT(monthly_bills.id) AS overdue_count, COALESCE(SUM(monthly_bills.amount_due), 0) AS total_overdue").
		Joins("JOIN users ON users.id = monthly_bills.user_id").
		Where("monthly_bills.due_status = ?", models.BillDueOverdue).
		Group("monthly_bills.user_id, users.name, users.email").
		Order("total_overdue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
