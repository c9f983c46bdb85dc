package controllers

import (
	"strconv"

	"hoa/dto"
	"hoa/models"
	"hoa/response"
	"hoa/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UnitController struct {
	db    *gorm.DB
	units *services.UnitService
}

func NewUnitController(db *gorm.DB, units *services.UnitService) *UnitController {
	return &UnitController{db: db, units: units}
}

// CreateUnit tạo căn hộ mới
func (ctl *UnitController) CreateUnit(c *gin.Context) {
	var req dto.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Dữ liệu căn hộ không hợp lệ")
		return
	}

	unit := models.Unit{
		UnitName:    req.UnitName,
		Building:    req.Building,
		Bedrooms:    req.Bedrooms,
		FloorArea:   decimal.NewFromFloat(req.FloorArea),
		RentAmount:  decimal.NewFromFloat(req.RentAmount),
		IsAvailable: true,
	}
	if err := ctl.units.Create(&unit); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, unit)
}

// GetUnits trả về danh sách căn hộ, lọc theo tòa nhà
func (ctl *UnitController) GetUnits(c *gin.Context) {
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

	units, total, err := ctl.units.List(c.Query("building"), page, limit)
	if err != nil {
		response.ServerError(c)
		return
	}
	response.SuccessWithPagination(c, units, page, limit, int(total))
}

// GetUnitDetail trả về chi tiết một căn hộ
func (ctl *UnitController) GetUnitDetail(c *gin.Context) {
	unitID, err := strconv.Atoi(c.Param("id"))
	if err != nil || unitID <= 0 {
		response.BadRequest(c, "ID căn hộ không hợp lệ")
		return
	}

	unit, err := ctl.units.GetByID(uint(unitID))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, unit)
}

// UpdateUnit cập nhật thông tin căn hộ
func (ctl *UnitController) UpdateUnit(c *gin.Context) {
	var req dto.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Dữ liệu cập nhật không hợp lệ")
		return
	}

	unit, err := ctl.units.GetByID(req.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if req.UnitName != nil {
		unit.UnitName = *req.UnitName
	}
	if req.Building != nil {
		unit.Building = *req.Building
	}
	if req.Bedrooms != nil {
		unit.Bedrooms = *req.Bedrooms
	}
	if req.FloorArea != nil {
		unit.FloorArea = decimal.NewFromFloat(*req.FloorArea)
	}
	if req.RentAmount != nil {
		unit.RentAmount = decimal.NewFromFloat(*req.RentAmount)
	}

	if err := ctl.units.Update(unit); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, unit)
}

// DeleteUnit xóa mềm một căn hộ
func (ctl *UnitController) DeleteUnit(c *gin.Context) {
	unitID, err := strconv.Atoi(c.Param("id"))
	if err != nil || unitID <= 0 {
		response.BadRequest(c, "ID căn hộ không hợp lệ")
		return
	}

	if err := ctl.units.SoftDelete(uint(unitID)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Đã xóa căn hộ"})
}

// AssignUnit phân bổ cư dân vào căn hộ và đăng ký các dịch vụ kèm theo
func (ctl *UnitController) AssignUnit(c *gin.Context) {
	var req dto.AssignUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Dữ liệu phân bổ không hợp lệ")
		return
	}

	moveIn, err := parseDate(req.MoveInDate)
	if err != nil || moveIn == nil {
		response.ValidationError(c, "Ngày chuyển vào không đúng định dạng YYYY-MM-DD")
		return
	}

	assignment := models.AssignedUnit{
		UnitID:       &req.UnitID,
		AssignedByID: &req.UserID,
		MoveInDate:   moveIn,
		Maintenance:  true,
		Security:     true,
		Amenities:    true,
		UnitStatus:   models.UnitStatusOwnerOccupied,
	}
	if req.Maintenance != nil {
		assignment.Maintenance = *req.Maintenance
	}
	if req.Security != nil {
		assignment.Security = *req.Security
	}
	if req.Amenities != nil {
		assignment.Amenities = *req.Amenities
	}
	if req.UnitStatus != "" {
		assignment.UnitStatus = req.UnitStatus
	}

	if err := ctl.units.Assign(&assignment); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, assignment)
}

// MoveOut kết thúc một phân bổ, căn hộ trở lại trạng thái trống
func (ctl *UnitController) MoveOut(c *gin.Context) {
	assignmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assignmentID <= 0 {
		response.BadRequest(c, "ID phân bổ không hợp lệ")
		return
	}

	if err := ctl.units.MoveOut(uint(assignmentID)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Cư dân đã chuyển đi"})
}

// SearchUnits tìm kiếm căn hộ gần đúng theo tên hoặc tòa nhà
func (ctl *UnitController) SearchUnits(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "Thiếu từ khóa tìm kiếm")
		return
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	units, err := ctl.units.Search(query, limit)
	if err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, units)
}
