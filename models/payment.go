package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trạng thái của một lần thanh toán
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusRejected  = "rejected"
)

// Loại thanh toán
const (
	PaymentTypeRegular = "regular" // thanh toán cho một hóa đơn
	PaymentTypeAdvance = "advance" // thanh toán trước nhiều kỳ
)

type PaymentMethod struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"size:50" json:"name"`
	AccountName   string `gorm:"size:100" json:"accountName"`
	AccountNumber string `gorm:"size:100" json:"accountNumber"`
	Instructions  string `json:"instructions"`
	IsActive      bool   `gorm:"default:true" json:"isActive"`
}

// PaymentRecord ghi nhận một lần thanh toán của cư dân.
// Với thanh toán trước (advance), IsAdvanceAllocated chỉ chuyển false -> true
// đúng một lần; AdvanceService claim cờ này bằng UPDATE có điều kiện trước khi
// sinh hóa đơn để hai lần hoàn tất trùng nhau không cùng phân bổ.
type PaymentRecord struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"index" json:"userId"`
	User            *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount          decimal.Decimal `gorm:"type:numeric(10,2)" json:"amount"`
	Status          string          `gorm:"size:20;default:pending" json:"status"`       // pending, completed, rejected
	PaymentType     string          `gorm:"size:20;default:regular" json:"paymentType"`  // regular, advance
	UnitID          *uint           `json:"unitId,omitempty"`
	Unit            *Unit           `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	BillID          *uint           `json:"billId,omitempty"`
	Bill            *MonthlyBill    `gorm:"foreignKey:BillID" json:"bill,omitempty"`
	PaymentMethodID *uint           `json:"paymentMethodId,omitempty"`
	PaymentMethod   *PaymentMethod  `gorm:"foreignKey:PaymentMethodID" json:"paymentMethod,omitempty"`
	PaymentDate     *time.Time      `json:"paymentDate,omitempty"`
	ReferenceNumber string          `gorm:"size:100" json:"referenceNumber"`
	ProofOfPayment  string          `json:"proofOfPayment"` // URL ảnh chứng từ trên Cloudinary
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`

	// Các trường cho thanh toán trước nhiều kỳ
	AdvanceStartDate   *time.Time `gorm:"type:date" json:"advanceStartDate,omitempty"`
	AdvanceEndDate     *time.Time `gorm:"type:date" json:"advanceEndDate,omitempty"`
	AdvanceMonthsPaid  int        `gorm:"default:0" json:"advanceMonthsPaid"`
	IsAdvanceAllocated bool       `gorm:"default:false" json:"isAdvanceAllocated"`
}

// IsAllocatable kiểm tra các tiền đề để phân bổ thanh toán trước
func (p *PaymentRecord) IsAllocatable() bool {
	return p.PaymentType == PaymentTypeAdvance &&
		p.Status == PaymentStatusCompleted &&
		!p.IsAdvanceAllocated &&
		p.AdvanceStartDate != nil &&
		p.AdvanceEndDate != nil
}
