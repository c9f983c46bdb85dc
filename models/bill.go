package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Trạng thái thanh toán của hóa đơn
const (
	BillPaymentPending = "pending"
	BillPaymentPaid    = "paid"
)

// Trạng thái đến hạn của hóa đơn, suy ra từ ngày đến hạn và trạng thái thanh toán
const (
	BillDueUpcoming = "upcoming"
	BillDueToday    = "due_today"
	BillDueOverdue  = "overdue"
	BillDueDone     = "done" // khi đã thanh toán
)

// MonthlyBill là hóa đơn hàng tháng của một cư dân.
// Ràng buộc unique (user_id, unit_id, due_date) chặn việc tạo trùng hóa đơn
// khi hai tiến trình cùng chạy (xem BillingService và AdvanceService).
type MonthlyBill struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"uniqueIndex:idx_bills_user_unit_due" json:"userId"`
	User          *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	UnitID        *uint           `gorm:"uniqueIndex:idx_bills_user_unit_due" json:"unitId"`
	Unit          *Unit           `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	AmountDue     decimal.Decimal `gorm:"type:numeric(10,2)" json:"amountDue"`
	DueDate       time.Time       `gorm:"type:date;uniqueIndex:idx_bills_user_unit_due" json:"dueDate"`
	PaymentStatus string          `gorm:"size:20;default:pending" json:"paymentStatus"` // pending, paid
	DueStatus     string          `gorm:"size:20;default:upcoming" json:"dueStatus"`    // upcoming, due_today, overdue, done
	SmsSent       bool            `gorm:"default:false" json:"smsSent"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

// UpdateDueStatus tính lại trạng thái đến hạn theo ngày hiện tại.
// Hóa đơn đã thanh toán luôn là done, bất kể ngày đến hạn.
func (b *MonthlyBill) UpdateDueStatus(today time.Time) {
	if b.PaymentStatus == BillPaymentPaid {
		b.DueStatus = BillDueDone
		return
	}

	due := DateOnly(b.DueDate)
	now := DateOnly(today)

	switch {
	case due.Equal(now):
		b.DueStatus = BillDueToday
	case due.Before(now):
		b.DueStatus = BillDueOverdue
	default:
		b.DueStatus = BillDueUpcoming
	}
}

// BeforeSave giữ bất biến: đã thanh toán thì trạng thái đến hạn phải là done.
// Phần phụ thuộc ngày do service tính qua UpdateDueStatus với clock được inject.
func (b *MonthlyBill) BeforeSave(tx *gorm.DB) error {
	if b.PaymentStatus == BillPaymentPaid {
		b.DueStatus = BillDueDone
	}
	b.DueDate = DateOnly(b.DueDate)
	return nil
}

// DateOnly cắt phần giờ, chuẩn hóa về nửa đêm UTC để so sánh theo ngày
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
