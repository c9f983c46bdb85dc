package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateTable chứa đơn giá cố định hàng tháng của các dịch vụ kèm theo căn hộ.
// Dùng chung một bảng giá, inject vào mọi service cần tính phí để generator,
// allocator và báo cáo không bị lệch đơn giá với nhau.
type RateTable struct {
	Security    decimal.Decimal
	Amenities   decimal.Decimal
	Maintenance decimal.Decimal
}

// DefaultRateTable trả về bảng giá dịch vụ hiện hành
func DefaultRateTable() RateTable {
	return RateTable{
		Security:    decimal.NewFromInt(2000),
		Amenities:   decimal.NewFromInt(2500),
		Maintenance: decimal.NewFromInt(1500),
	}
}

// AdditionalCharges tính tổng phí dịch vụ theo các cờ đã đăng ký
func (r RateTable) AdditionalCharges(maintenance, security, amenities bool) decimal.Decimal {
	total := decimal.Zero
	if security {
		total = total.Add(r.Security)
	}
	if amenities {
		total = total.Add(r.Amenities)
	}
	if maintenance {
		total = total.Add(r.Maintenance)
	}
	return total
}

// Clock trừu tượng hóa nguồn thời gian để test giả lập được ngày bất kỳ
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock trả về clock dùng thời gian hệ thống
func SystemClock() Clock { return systemClock{} }
