package models

import (
	"time"
)

// Trạng thái tài khoản cư dân
const (
	AccountStatusActive    = "active"
	AccountStatusSuspended = "suspended"
)

type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Name          string    `gorm:"default:New Resident" json:"name"`
	Email         string    `gorm:"unique" json:"email"`
	PhoneNumber   string    `gorm:"type:varchar(11)" json:"phoneNumber"`
	Role          int       `gorm:"default:0" json:"role"` // 0: cư dân, 1: admin, 2: kế toán
	IsActive      bool      `gorm:"default:true" json:"isActive"`
	AccountStatus string    `gorm:"default:active" json:"accountStatus"` // active, suspended
}

// CanBeBilled kiểm tra cư dân còn đủ điều kiện để phát sinh hóa đơn
func (u *User) CanBeBilled() bool {
	return u.IsActive && u.AccountStatus == AccountStatusActive
}
