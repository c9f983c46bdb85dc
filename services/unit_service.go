package services

import (
	"errors"
	"sort"
	"strings"

	apperrors "hoa/errors"
	"hoa/models"
	"hoa/services/logger"
	"hoa/validator"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"gorm.io/gorm"
)

// UnitServiceOptions chứa các dependency của UnitService
type UnitServiceOptions struct {
	DB     *gorm.DB
	Clock  Clock
	Logger logger.Logger
}

// UnitService quản lý căn hộ và phân bổ cư dân vào căn hộ
type UnitService struct {
	db     *gorm.DB
	clock  Clock
	logger logger.Logger
}

// NewUnitService tạo một instance mới của UnitService
func NewUnitService(opts UnitServiceOptions) *UnitService {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &UnitService{
		db:     opts.DB,
		clock:  opts.Clock,
		logger: opts.Logger,
	}
}

// Create thêm một căn hộ mới
func (s *UnitService) Create(unit *models.Unit) error {
	if err := validator.ValidateUnit(unit); err != nil {
		return err
	}
	return s.db.Create(unit).Error
}

// GetByID lấy căn hộ theo ID, không tính căn đã xóa mềm
func (s *UnitService) GetByID(unitID uint) (*models.Unit, error) {
	var unit models.Unit
	if err := s.db.Where("deleted_at IS NULL").First(&unit, unitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrCodeUnitNotFound, "Không tìm thấy căn hộ", err)
		}
		return nil, err
	}
	return &unit, nil
}

// List trả về danh sách căn hộ còn hiệu lực, kèm tổng số bản ghi
func (s *UnitService) List(building string, page, limit int) ([]models.Unit, int64, error) {
	tx := s.db.Model(&models.Unit{}).Where("deleted_at IS NULL")
	if building != "" {
		tx = tx.Where("building = ?", building)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 10
	}
	var units []models.Unit
	if err := tx.Order("building, unit_name").Offset(page * limit).Limit(limit).Find(&units).Error; err != nil {
		return nil, 0, err
	}
	return units, total, nil
}

// Update cập nhật thông tin căn hộ
func (s *UnitService) Update(unit *models.Unit) error {
	return s.db.Save(unit).Error
}

// SoftDelete xóa mềm một căn hộ
func (s *UnitService) SoftDelete(unitID uint) error {
	now := s.clock.Now()
	res := s.db.Model(&models.Unit{}).
		Where("id = ? AND deleted_at IS NULL", unitID).
		Updates(map[string]interface{}{"deleted_at": now, "is_available": false})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NewAppError(apperrors.ErrCodeUnitNotFound, "Không tìm thấy căn hộ", nil)
	}
	return nil
}

// Assign gán một cư dân vào căn hộ. Căn hộ đang có phân bổ còn hiệu lực thì
// từ chối để giữ mỗi căn chỉ một cư dân tại một thời điểm.
func (s *UnitService) Assign(assignment *models.AssignedUnit) error {
	if err := validator.ValidateAssignment(assignment); err != nil {
		return err
	}

	var existing int64
	if err := s.db.Model(&models.AssignedUnit{}).
		Where("unit_id = ? AND deleted_at IS NULL", *assignment.UnitID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return apperrors.NewAppError(apperrors.ErrCodeUnitNotAssigned, "Căn hộ đang có cư dân khác", nil)
	}

	if err := s.db.Create(assignment).Error; err != nil {
		return err
	}

	return s.db.Model(&models.Unit{}).
		Where("id = ?", *assignment.UnitID).
		Update("is_available", false).Error
}

// MoveOut xóa mềm phân bổ khi cư dân chuyển đi và trả căn hộ về trạng thái trống
func (s *UnitService) MoveOut(assignmentID uint) error {
	var assignment models.AssignedUnit
	if err := s.db.First(&assignment, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewAppError(apperrors.ErrCodeUnitNotAssigned, "Không tìm thấy phân bổ căn hộ", err)
		}
		return err
	}
	if !assignment.IsActive() {
		return nil
	}

	assignment.SoftDelete(s.clock.Now())
	if err := s.db.Save(&assignment).Error; err != nil {
		return err
	}

	if assignment.UnitID != nil {
		return s.db.Model(&models.Unit{}).
			Where("id = ?", *assignment.UnitID).
			Update("is_available", true).Error
	}
	return nil
}

// Hàm chuẩn hóa chuỗi tìm kiếm
func normalizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ToLower(unidecode.Unidecode(input))
	return input
}

// Tạo đối tượng closestmatch cho danh sách từ khóa
func createMatcher(keywords []string) *closestmatch.ClosestMatch {
	return closestmatch.New(keywords, []int{2, 3})
}

// Tính độ tương đồng giữa hai chuỗi
func calculateSimilarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := float64(len(a))
	if float64(len(b)) > maxLen {
		maxLen = float64(len(b))
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/maxLen
}

// Search tìm căn hộ theo tên hoặc tòa nhà, chấp nhận gõ không dấu và sai
// chính tả nhẹ; kết quả xếp theo điểm phù hợp giảm dần
func (s *UnitService) Search(query string, limit int) ([]models.Unit, error) {
	var units []models.Unit
	if err := s.db.Where("deleted_at IS NULL").Find(&units).Error; err != nil {
		return nil, err
	}

	normalizedQuery := normalizeInput(query)
	if normalizedQuery == "" || len(units) == 0 {
		return units, nil
	}

	buildings := make(map[string]bool)
	for _, u := range units {
		if u.Building != "" {
			buildings[normalizeInput(u.Building)] = true
		}
	}
	buildingList := make([]string, 0, len(buildings))
	for b := range buildings {
		buildingList = append(buildingList, b)
	}
	cmBuilding := createMatcher(buildingList)
	closestBuilding := cmBuilding.Closest(normalizedQuery)

	type scored struct {
		unit  models.Unit
		score float64
	}
	var results []scored
	for _, u := range units {
		score := calculateSimilarity(normalizedQuery, normalizeInput(u.UnitName))
		if closestBuilding != "" && normalizeInput(u.Building) == closestBuilding {
			score += 0.5
		}
		if strings.Contains(normalizeInput(u.UnitName), normalizedQuery) {
			score += 1.0
		}
		if score > 0.3 {
			results = append(results, scored{unit: u, score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].score > results[j].score })

	if limit <= 0 || limit > len(results) {
		limit = len(results)
	}
	matched := make([]models.Unit, 0, limit)
	for _, r := range results[:limit] {
		matched = append(matched, r.unit)
	}
	return matched, nil
}
