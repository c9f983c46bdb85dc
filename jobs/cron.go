package jobs

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// BillScheduler định nghĩa interface cho các tác vụ hóa đơn chạy định kỳ.
// Cả hai tác vụ đều idempotent theo ngày nên chạy dày hơn một lần/ngày
// cũng không sinh trùng hóa đơn.
type BillScheduler interface {
	GenerateBills(today time.Time) (int, error)
	RefreshStatuses(today time.Time) (int, error)
}

var billScheduler BillScheduler

// SetBillScheduler thiết lập implementation cho BillScheduler
func SetBillScheduler(s BillScheduler) {
	billScheduler = s
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron) error {
	// Chạy lúc 0h mỗi ngày: sinh hóa đơn trước rồi cập nhật trạng thái
	_, err := c.AddFunc("0 0 * * *", func() {
		today := time.Now()
		log.Printf("Đang chạy tác vụ hóa đơn định kỳ lúc: %v", today)
		if billScheduler == nil {
			log.Printf("Lỗi: BillScheduler chưa được thiết lập")
			return
		}
		if _, err := billScheduler.GenerateBills(today); err != nil {
			log.Printf("Lỗi khi sinh hóa đơn: %v", err)
		}
		if _, err := billScheduler.RefreshStatuses(today); err != nil {
			log.Printf("Lỗi khi cập nhật trạng thái hóa đơn: %v", err)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
