package dto

// CreatePaymentRequest là DTO cho request ghi nhận thanh toán
type CreatePaymentRequest struct {
	UserID           uint    `json:"userId" binding:"required"`
	Amount           float64 `json:"amount" binding:"required"`
	Status           string  `json:"status"`
	PaymentType      string  `json:"paymentType"`
	UnitID           *uint   `json:"unitId"`
	BillID           *uint   `json:"billId"`
	PaymentMethodID  *uint   `json:"paymentMethodId"`
	ReferenceNumber  string  `json:"referenceNumber"`
	ProofOfPayment   string  `json:"proofOfPayment"`
	AdvanceStartDate string  `json:"advanceStartDate"` // YYYY-MM-DD
	AdvanceEndDate   string  `json:"advanceEndDate"`   // YYYY-MM-DD
}

// UpdatePaymentStatusRequest là DTO cho request cập nhật trạng thái thanh toán
type UpdatePaymentStatusRequest struct {
	ID     uint   `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"` // completed, rejected
}

// CalculateAdvanceRequest là DTO cho request báo giá thanh toán trước
type CalculateAdvanceRequest struct {
	UserID    uint   `json:"userId" binding:"required"`
	UnitID    uint   `json:"unitId" binding:"required"`
	StartDate string `json:"startDate" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"endDate" binding:"required"`   // YYYY-MM-DD
}

// PaymentMethodRequest là DTO cho request tạo/cập nhật phương thức thanh toán
type PaymentMethodRequest struct {
	Name          string `json:"name" binding:"required"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	Instructions  string `json:"instructions"`
	IsActive      *bool  `json:"isActive"`
}

// PaymentResponse là DTO cho response của thanh toán
type PaymentResponse struct {
	ID                uint   `json:"id"`
	UserID            uint   `json:"userId"`
	Amount            string `json:"amount"`
	Status            string `json:"status"`
	PaymentType       string `json:"paymentType"`
	UnitID            *uint  `json:"unitId,omitempty"`
	BillID            *uint  `json:"billId,omitempty"`
	ReferenceNumber   string `json:"referenceNumber,omitempty"`
	ProofOfPayment    string `json:"proofOfPayment,omitempty"`
	PaymentDate       string `json:"paymentDate,omitempty"`
	AdvanceStartDate  string `json:"advanceStartDate,omitempty"`
	AdvanceEndDate    string `json:"advanceEndDate,omitempty"`
	AdvanceMonthsPaid int    `json:"advanceMonthsPaid"`
	AdvanceAllocation string `json:"advanceAllocation,omitempty"`
	CreatedAt         string `json:"createdAt"`
}
