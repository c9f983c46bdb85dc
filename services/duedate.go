package services

import (
	"time"

	"hoa/models"
)

// NextDueDate tính ngày đến hạn kế tiếp từ ngày neo (ngày trong tháng lấy theo
// ngày chuyển vào). Hôm nay chưa qua ngày neo thì đến hạn ngay trong tháng này,
// ngược lại sang tháng sau. Tháng ngắn hơn ngày neo thì lùi về ngày cuối tháng,
// tính lại trên từng lần gọi vì tháng đích thay đổi theo hôm nay.
func NextDueDate(today time.Time, anchorDay int) time.Time {
	t := models.DateOnly(today)
	year, month := t.Year(), t.Month()
	if t.Day() > anchorDay {
		// time.Date tự chuẩn hóa tháng 13 thành tháng 1 năm sau
		month++
	}
	return DueDateInMonth(year, month, anchorDay)
}

// DueDateInMonth trả về ngày đến hạn trong một tháng cụ thể, lùi ngày neo về
// ngày cuối tháng khi tháng ngắn hơn (vd: neo 30 trong tháng 2)
func DueDateInMonth(year int, month time.Month, anchorDay int) time.Time {
	day := anchorDay
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}
