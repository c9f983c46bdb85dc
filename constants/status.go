package constants

// User role
const (
	RoleResident   = 0
	RoleAdmin      = 1
	RoleAccountant = 2
)

// Ngày sinh hóa đơn trước ngày đến hạn
const BillLeadDays = 7
