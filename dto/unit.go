package dto

// CreateUnitRequest là DTO cho request tạo căn hộ
type CreateUnitRequest struct {
	UnitName   string  `json:"unitName" binding:"required"`
	Building   string  `json:"building" binding:"required"`
	Bedrooms   int     `json:"bedrooms"`
	FloorArea  float64 `json:"floorArea"`
	RentAmount float64 `json:"rentAmount" binding:"required"`
}

// UpdateUnitRequest là DTO cho request cập nhật căn hộ
type UpdateUnitRequest struct {
	ID         uint     `json:"id" binding:"required"`
	UnitName   *string  `json:"unitName"`
	Building   *string  `json:"building"`
	Bedrooms   *int     `json:"bedrooms"`
	FloorArea  *float64 `json:"floorArea"`
	RentAmount *float64 `json:"rentAmount"`
}

// AssignUnitRequest là DTO cho request phân bổ cư dân vào căn hộ
type AssignUnitRequest struct {
	UnitID      uint   `json:"unitId" binding:"required"`
	UserID      uint   `json:"userId" binding:"required"`
	MoveInDate  string `json:"moveInDate" binding:"required"` // YYYY-MM-DD
	Maintenance *bool  `json:"maintenance"`
	Security    *bool  `json:"security"`
	Amenities   *bool  `json:"amenities"`
	UnitStatus  string `json:"unitStatus"`
}
