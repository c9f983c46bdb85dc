package controllers

import (
	"log"
	"strconv"
	"time"

	"hoa/config"
	"hoa/dto"
	"hoa/models"
	"hoa/response"
	"hoa/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type BillController struct {
	db    *gorm.DB
	redis *redis.Client
	bills *services.BillService
}

func NewBillController(db *gorm.DB, redisCli *redis.Client, bills *services.BillService) *BillController {
	return &BillController{
		db:    db,
		redis: redisCli,
		bills: bills,
	}
}

func toBillResponse(bill *models.MonthlyBill) dto.BillResponse {
	resp := dto.BillResponse{
		ID:            bill.ID,
		UserID:        bill.UserID,
		UnitID:        bill.UnitID,
		AmountDue:     bill.AmountDue.StringFixed(2),
		DueDate:       bill.DueDate.Format("2006-01-02"),
		PaymentStatus: bill.PaymentStatus,
		DueStatus:     bill.DueStatus,
		CreatedAt:     bill.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if bill.User != nil {
		resp.UserName = bill.User.Name
	}
	if bill.Unit != nil {
		resp.UnitName = bill.Unit.UnitName
		resp.Building = bill.Unit.Building
	}
	return resp
}

// GetBills trả về danh sách hóa đơn, lọc theo cư dân và trạng thái
func (ctl *BillController) GetBills(c *gin.Context) {
	filter := services.BillFilter{
		PaymentStatus: c.Query("paymentStatus"),
		DueStatus:     c.Query("dueStatus"),
		Page:          0,
		Limit:         10,
	}

	if userIDStr := c.Query("userId"); userIDStr != "" {
		if userID, err := strconv.Atoi(userIDStr); err == nil && userID > 0 {
			filter.UserID = uint(userID)
		}
	}
	if pageStr := c.Query("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page >= 0 {
			filter.Page = page
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	bills, total, err := ctl.bills.List(filter)
	if err != nil {
		response.ServerError(c)
		return
	}

	billResponses := make([]dto.BillResponse, 0, len(bills))
	for i := range bills {
		billResponses = append(billResponses, toBillResponse(&bills[i]))
	}

	response.SuccessWithPagination(c, billResponses, filter.Page, filter.Limit, int(total))
}

// GetBillDetail trả về chi tiết một hóa đơn
func (ctl *BillController) GetBillDetail(c *gin.Context) {
	billID, err := strconv.Atoi(c.Param("id"))
	if err != nil || billID <= 0 {
		response.BadRequest(c, "ID hóa đơn không hợp lệ")
		return
	}

	bill, err := ctl.bills.GetByID(uint(billID))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, toBillResponse(bill))
}

// GetMonthlySummary tổng hợp hóa đơn của một tháng (mặc định tháng hiện tại)
func (ctl *BillController) GetMonthlySummary(c *gin.Context) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if yearStr := c.Query("year"); yearStr != "" {
		if parsed, err := strconv.Atoi(yearStr); err == nil && parsed > 0 {
			year = parsed
		}
	}
	if monthStr := c.Query("month"); monthStr != "" {
		if parsed, err := strconv.Atoi(monthStr); err == nil && parsed >= 1 && parsed <= 12 {
			month = parsed
		}
	}

	summary, err := ctl.bills.SummarizeMonth(year, time.Month(month))
	if err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, summary)
}

// GetYearlySummary tổng hợp hóa đơn của một năm theo từng tháng, có cache
func (ctl *BillController) GetYearlySummary(c *gin.Context) {
	year := time.Now().Year()
	if yearStr := c.Query("year"); yearStr != "" {
		if parsed, err := strconv.Atoi(yearStr); err == nil && parsed > 0 {
			year = parsed
		}
	}

	cacheKey := services.YearlyReportCacheKey(year)

	var summary services.YearlySummary
	if err := services.GetFromRedis(config.Ctx, ctl.redis, cacheKey, &summary); err == nil && summary.Year == year {
		response.Success(c, summary)
		return
	}

	result, err := ctl.bills.SummarizeYear(year)
	if err != nil {
		response.ServerError(c)
		return
	}

	if err := services.SetToRedis(config.Ctx, ctl.redis, cacheKey, result, 10*time.Minute); err != nil {
		log.Printf("Lỗi khi lưu dữ liệu vào Redis: %v", err)
	}
	response.Success(c, result)
}

// GetOverdueUsers liệt kê cư dân đang có hóa đơn quá hạn
func (ctl *BillController) GetOverdueUsers(c *gin.Context) {
	cacheKey := services.OverdueUsersCacheKey

	var cached []services.OverdueUser
	if err := services.GetFromRedis(config.Ctx, ctl.redis, cacheKey, &cached); err == nil && len(cached) > 0 {
		response.Success(c, cached)
		return
	}

	users, err := ctl.bills.OverdueUsers()
	if err != nil {
		response.ServerError(c)
		return
	}

	if err := services.SetToRedis(config.Ctx, ctl.redis, cacheKey, users, 5*time.Minute); err != nil {
		log.Printf("Lỗi khi lưu dữ liệu vào Redis: %v", err)
	}
	response.Success(c, users)
}
