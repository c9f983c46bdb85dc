package services

import (
	"errors"
	"testing"
	"time"

	"hoa/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fixedClock trả về một thời điểm cố định, dùng giả lập "hôm nay" trong test
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// brokenNotifier giả lập kênh websocket đang hỏng
type brokenNotifier struct{}

func (brokenNotifier) SendToUser(userID uint, message string) error {
	return errors.New("websocket không khả dụng")
}

func (brokenNotifier) Broadcast(message string) error {
	return errors.New("websocket không khả dụng")
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Unit{},
		&models.AssignedUnit{},
		&models.MonthlyBill{},
		&models.PaymentMethod{},
		&models.PaymentRecord{},
	)
	require.NoError(t, err)
	return db
}

// seedAssignment tạo cư dân + căn hộ + phân bổ còn hiệu lực, trả về cả ba
func seedAssignment(t *testing.T, db *gorm.DB, rent string, moveIn time.Time) (*models.User, *models.Unit, *models.AssignedUnit) {
	user := &models.User{
		Name:          "Nguyễn Văn A",
		Email:         "resident@example.com",
		IsActive:      true,
		AccountStatus: models.AccountStatusActive,
	}
	require.NoError(t, db.Create(user).Error)

	unit := &models.Unit{
		UnitName:    "A-101",
		Building:    "Tòa A",
		RentAmount:  decimal.RequireFromString(rent),
		IsAvailable: false,
	}
	require.NoError(t, db.Create(unit).Error)

	assigned := &models.AssignedUnit{
		UnitID:       &unit.ID,
		AssignedByID: &user.ID,
		MoveInDate:   &moveIn,
		Building:     unit.Building,
		Maintenance:  true,
		Security:     true,
		Amenities:    true,
		UnitStatus:   models.UnitStatusOwnerOccupied,
	}
	require.NoError(t, db.Create(assigned).Error)
	return user, unit, assigned
}
