package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trạng thái sử dụng của căn hộ đã gán
const (
	UnitStatusOwnerOccupied   = "owner_occupied"
	UnitStatusRentedShortTerm = "rented_short_term"
	UnitStatusAirBnb          = "air_bnb"
)

type Unit struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UnitName    string          `gorm:"size:100" json:"unitName"`
	Building    string          `gorm:"size:100" json:"building"`
	Bedrooms    int             `gorm:"default:0" json:"bedrooms"`
	FloorArea   decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"floorArea"`
	RentAmount  decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"rentAmount"` // Tiền thuê cơ bản hàng tháng
	IsAvailable bool            `gorm:"default:true" json:"isAvailable"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	CreatedByID *uint           `json:"createdById,omitempty"`
	DeletedAt   *time.Time      `gorm:"index" json:"deletedAt,omitempty"`
}

// AssignedUnit liên kết căn hộ với cư dân đang ở và các dịch vụ đăng ký kèm
type AssignedUnit struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UnitID       *uint      `gorm:"index" json:"unitId"`
	Unit         *Unit      `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	AssignedByID *uint      `gorm:"index" json:"assignedById"`
	AssignedBy   *User      `gorm:"foreignKey:AssignedByID" json:"assignedBy,omitempty"`
	MoveInDate   *time.Time `json:"moveInDate"`
	Building     string     `gorm:"size:100" json:"building"`
	Maintenance  bool       `gorm:"default:true" json:"maintenance"` // Phí bảo trì
	Security     bool       `gorm:"default:true" json:"security"`    // Phí an ninh
	Amenities    bool       `gorm:"default:true" json:"amenities"`   // Phí tiện ích
	UnitStatus   string     `gorm:"size:20;default:owner_occupied" json:"unitStatus"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt    *time.Time `gorm:"index" json:"deletedAt,omitempty"`
}

// SoftDelete đánh dấu cư dân đã chuyển đi, không xóa hẳn bản ghi
func (a *AssignedUnit) SoftDelete(at time.Time) {
	a.DeletedAt = &at
}

// IsActive kiểm tra phân bổ còn hiệu lực hay đã chuyển đi
func (a *AssignedUnit) IsActive() bool {
	return a.DeletedAt == nil
}
