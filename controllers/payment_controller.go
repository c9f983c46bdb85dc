package controllers

import (
	"errors"
	"strconv"
	"time"

	"hoa/config"
	"hoa/dto"
	apperrors "hoa/errors"
	"hoa/models"
	"hoa/response"
	"hoa/services"
	"hoa/validator"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentController struct {
	db       *gorm.DB
	payments *services.PaymentService
	advance  *services.AdvanceService
}

func NewPaymentController(db *gorm.DB, payments *services.PaymentService, advance *services.AdvanceService) *PaymentController {
	return &PaymentController{
		db:       db,
		payments: payments,
		advance:  advance,
	}
}

// handleServiceError map AppError sang response tương ứng
func handleServiceError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		response.ServerError(c)
		return
	}
	switch appErr.Code {
	case apperrors.ErrCodeUserNotFound, apperrors.ErrCodeUnitNotFound,
		apperrors.ErrCodeBillNotFound, apperrors.ErrCodePaymentNotFound,
		apperrors.ErrCodeUnitNotAssigned, apperrors.ErrCodeDBNotFound:
		response.NotFound(c)
	case apperrors.ErrCodeDBDuplicate, apperrors.ErrCodePaymentExists, apperrors.ErrCodeBillExists:
		response.BadRequest(c, appErr.Message)
	default:
		response.BadRequest(c, appErr.Message)
	}
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func toPaymentResponse(payment *models.PaymentRecord) dto.PaymentResponse {
	resp := dto.PaymentResponse{
		ID:                payment.ID,
		UserID:            payment.UserID,
		Amount:            payment.Amount.StringFixed(2),
		Status:            payment.Status,
		PaymentType:       payment.PaymentType,
		UnitID:            payment.UnitID,
		BillID:            payment.BillID,
		ReferenceNumber:   payment.ReferenceNumber,
		ProofOfPayment:    payment.ProofOfPayment,
		AdvanceMonthsPaid: payment.AdvanceMonthsPaid,
		CreatedAt:         payment.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if payment.PaymentDate != nil {
		resp.PaymentDate = payment.PaymentDate.Format("2006-01-02 15:04:05")
	}
	if payment.AdvanceStartDate != nil {
		resp.AdvanceStartDate = payment.AdvanceStartDate.Format("2006-01-02")
	}
	if payment.AdvanceEndDate != nil {
		resp.AdvanceEndDate = payment.AdvanceEndDate.Format("2006-01-02")
	}
	return resp
}

// CreatePayment ghi nhận một thanh toán mới; thanh toán trước đã hoàn tất
// được phân bổ ngay và trả về số hóa đơn đã sinh
func (ctl *PaymentController) CreatePayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Dữ liệu thanh toán không hợp lệ")
		return
	}

	startDate, err := parseDate(req.AdvanceStartDate)
	if err != nil {
		response.ValidationError(c, "Ngày bắt đầu không đúng định dạng YYYY-MM-DD")
		return
	}
	endDate, err := parseDate(req.AdvanceEndDate)
	if err != nil {
		response.ValidationError(c, "Ngày kết thúc không đúng định dạng YYYY-MM-DD")
		return
	}

	status := req.Status
	if status == "" {
		status = models.PaymentStatusPending
	}
	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentTypeRegular
	}

	payment := models.PaymentRecord{
		UserID:           req.UserID,
		Amount:           decimal.NewFromFloat(req.Amount),
		Status:           status,
		PaymentType:      paymentType,
		UnitID:           req.UnitID,
		BillID:           req.BillID,
		PaymentMethodID:  req.PaymentMethodID,
		ReferenceNumber:  req.ReferenceNumber,
		ProofOfPayment:   req.ProofOfPayment,
		AdvanceStartDate: startDate,
		AdvanceEndDate:   endDate,
	}

	billsCreated, err := ctl.payments.Create(&payment)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := toPaymentResponse(&payment)
	if billsCreated > 0 {
		resp.AdvanceAllocation = strconv.Itoa(billsCreated) + " hóa đơn đã được tạo từ thanh toán trước"
	}
	response.Created(c, resp)
}

// UpdatePaymentStatus cập nhật trạng thái một thanh toán. Chuyển sang
// completed sẽ đánh dấu hóa đơn liên kết đã thu và phân bổ thanh toán trước.
func (ctl *PaymentController) UpdatePaymentStatus(c *gin.Context) {
	var req dto.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Dữ liệu cập nhật không hợp lệ")
		return
	}

	switch req.Status {
	case models.PaymentStatusCompleted:
		payment, billsCreated, err := ctl.payments.Complete(req.ID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		resp := toPaymentResponse(payment)
		if billsCreated > 0 {
			resp.AdvanceAllocation = strconv.Itoa(billsCreated) + " hóa đơn đã được tạo từ thanh toán trước"
		}
		response.Success(c, resp)
	case models.PaymentStatusRejected:
		payment, err := ctl.payments.Reject(req.ID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		response.Success(c, toPaymentResponse(payment))
	default:
		response.BadRequest(c, "Trạng thái thanh toán không hợp lệ")
	}
}

// GetPayments trả về danh sách thanh toán, lọc theo cư dân
func (ctl *PaymentController) GetPayments(c *gin.Context) {
	page := 0
	limit := 10
	if pageStr := c.Query("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed >= 0 {
			page = parsed
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	tx := ctl.db.Model(&models.PaymentRecord{})
	if userIDStr := c.Query("userId"); userIDStr != "" {
		if userID, err := strconv.Atoi(userIDStr); err == nil && userID > 0 {
			tx = tx.Where("user_id = ?", userID)
		}
	}
	if status := c.Query("status"); status != "" {
		tx = tx.Where("status = ?", status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		response.ServerError(c)
		return
	}

	var payments []models.PaymentRecord
	if err := tx.Order("created_at DESC").Offset(page * limit).Limit(limit).Find(&payments).Error; err != nil {
		response.ServerError(c)
		return
	}

	paymentResponses := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		paymentResponses = append(paymentResponses, toPaymentResponse(&payments[i]))
	}
	response.SuccessWithPagination(c, paymentResponses, page, limit, int(total))
}

// GetPaymentDetail trả về chi tiết một thanh toán
func (ctl *PaymentController) GetPaymentDetail(c *gin.Context) {
	paymentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || paymentID <= 0 {
		response.BadRequest(c, "ID thanh toán không hợp lệ")
		return
	}

	var payment models.PaymentRecord
	if err := ctl.db.First(&payment, paymentID).Error; err != nil {
		response.NotFound(c)
		return
	}
	response.Success(c, toPaymentResponse(&payment))
}

// CalculateAdvancePayment báo giá tổng tiền cho một khoảng thanh toán trước
func (ctl *PaymentController) CalculateAdvancePayment(c *gin.Context) {
	var req dto.CalculateAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Dữ liệu báo giá không hợp lệ")
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil || startDate == nil {
		response.ValidationError(c, "Ngày bắt đầu không đúng định dạng YYYY-MM-DD")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil || endDate == nil {
		response.ValidationError(c, "Ngày kết thúc không đúng định dạng YYYY-MM-DD")
		return
	}

	quote, err := ctl.advance.CalculateAdvance(req.UserID, req.UnitID, *startDate, *endDate)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, quote)
}

// UploadProof upload ảnh chứng từ thanh toán lên Cloudinary và trả về URL
func (ctl *PaymentController) UploadProof(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Thiếu file chứng từ")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.ServerError(c)
		return
	}
	defer src.Close()

	resp, err := config.Cloudinary.Upload.Upload(config.Ctx, src, uploader.UploadParams{Folder: "proofs"})
	if err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, gin.H{"url": resp.SecureURL})
}

// CreatePaymentMethod tạo một phương thức thanh toán
func (ctl *PaymentController) CreatePaymentMethod(c *gin.Context) {
	var req dto.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Dữ liệu phương thức thanh toán không hợp lệ")
		return
	}

	method := models.PaymentMethod{
		Name:          req.Name,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		Instructions:  req.Instructions,
		IsActive:      true,
	}
	if req.IsActive != nil {
		method.IsActive = *req.IsActive
	}
	if err := validator.ValidatePaymentMethod(&method); err != nil {
		handleServiceError(c, err)
		return
	}

	if err := ctl.db.Create(&method).Error; err != nil {
		response.ServerError(c)
		return
	}
	response.Created(c, method)
}

// GetPaymentMethods trả về danh sách phương thức thanh toán
func (ctl *PaymentController) GetPaymentMethods(c *gin.Context) {
	var methods []models.PaymentMethod
	if err := ctl.db.Find(&methods).Error; err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, methods)
}

// UpdatePaymentMethod cập nhật một phương thức thanh toán
func (ctl *PaymentController) UpdatePaymentMethod(c *gin.Context) {
	methodID, err := strconv.Atoi(c.Param("id"))
	if err != nil || methodID <= 0 {
		response.BadRequest(c, "ID phương thức không hợp lệ")
		return
	}

	var method models.PaymentMethod
	if err := ctl.db.First(&method, methodID).Error; err != nil {
		response.NotFound(c)
		return
	}

	var req dto.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Dữ liệu phương thức thanh toán không hợp lệ")
		return
	}

	method.Name = req.Name
	method.AccountName = req.AccountName
	method.AccountNumber = req.AccountNumber
	method.Instructions = req.Instructions
	if req.IsActive != nil {
		method.IsActive = *req.IsActive
	}
	if err := validator.ValidatePaymentMethod(&method); err != nil {
		handleServiceError(c, err)
		return
	}

	if err := ctl.db.Save(&method).Error; err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, method)
}

// DeletePaymentMethod xóa một phương thức thanh toán
func (ctl *PaymentController) DeletePaymentMethod(c *gin.Context) {
	methodID, err := strconv.Atoi(c.Param("id"))
	if err != nil || methodID <= 0 {
		response.BadRequest(c, "ID phương thức không hợp lệ")
		return
	}

	if err := ctl.db.Delete(&models.PaymentMethod{}, methodID).Error; err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, gin.H{"message": "Đã xóa phương thức thanh toán"})
}
