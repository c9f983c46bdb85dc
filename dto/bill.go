package dto

// BillResponse là DTO cho response của hóa đơn
type BillResponse struct {
	ID            uint   `json:"id"`
	UserID        uint   `json:"userId"`
	UserName      string `json:"userName,omitempty"`
	UnitID        *uint  `json:"unitId,omitempty"`
	UnitName      string `json:"unitName,omitempty"`
	Building      string `json:"building,omitempty"`
	AmountDue     string `json:"amountDue"`
	DueDate       string `json:"dueDate"`
	PaymentStatus string `json:"paymentStatus"`
	DueStatus     string `json:"dueStatus"`
	CreatedAt     string `json:"createdAt"`
}
