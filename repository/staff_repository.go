package repository

import (
	"github.com/Vishnukant2275/easyorderin/entity"

	"gorm.io/gorm"
)

type StaffRepository struct {
	DB *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{DB: db}
}

func (r *StaffRepository) FindByEmail(email string) (*entity.Staff, error) {
	var s entity.Staff
	if err := r.DB.Where("email = ?", email).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StaffRepository) CountByEmail(email string) (int64, error) {
	var count int64
	if err := r.DB.Model(&entity.Staff{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *StaffRepository) Create(s *entity.Staff) error {
	return r.DB.Create(s).Error
}
