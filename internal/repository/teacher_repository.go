package repository

import (
	"school_admin_backend/internal/model"

	"gorm.io/gorm"
)

type TeacherRepository struct {
	DB *gorm.DB
}

func NewTeacherRepository(db *gorm.DB) *TeacherRepository {
	return &TeacherRepository{DB: db}
}

func (r *TeacherRepository) FindByID(id uint, scopes ...func(*gorm.DB) *gorm.DB) (*model.Teacher, error) {
	var t model.Teacher
	err := r.DB.Scopes(scopes...).Preload("User").First(&t, id).Error
	return &t, err
}

func (r *TeacherRepository) FindByUserID(userID uint) (*model.Teacher, error) {
	var t model.Teacher
	err := r.DB.Preload("User").Where("user_id = ?", userID).First(&t).Error
	return &t, err
}

func (r *TeacherRepository) List(scopes ...func(*gorm.DB) *gorm.DB) ([]model.Teacher, error) {
	var ts []model.Teacher
	err := r.DB.Scopes(scopes...).Preload("User").Order("id asc").Find(&ts).Error
	return ts, err
}
