package repository

import (
	"school_admin_backend/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) FindByID(id uint, scopes ...func(*gorm.DB) *gorm.DB) (*model.Student, error) {
	var s model.Student
	err := r.DB.Scopes(scopes...).
		Preload("User").
		Preload("AssignedTeacher.User").
		First(&s, id).Error
	return &s, err
}

func (r *StudentRepository) FindByUserID(userID uint) (*model.Student, error) {
	var s model.Student
	err := r.DB.Preload("User").Where("user_id = ?", userID).First(&s).Error
	return &s, err
}

func (r *StudentRepository) List(scopes ...func(*gorm.DB) *gorm.DB) ([]model.Student, error) {
	var ss []model.Student
	err := r.DB.Scopes(scopes...).
		Preload("User").
		Preload("AssignedTeacher.User").
		Order("id asc").
		Find(&ss).Error
	return ss, err
}

func (r *StudentRepository) ListByTeacher(teacherID uint) ([]model.Student, error) {
	var ss []model.Student
	err := r.DB.Preload("User").Where("assigned_teacher_id = ?", teacherID).Find(&ss).Error
	return ss, err
}
