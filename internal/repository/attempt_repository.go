package repository

import (
	"school_admin_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) List(scopes ...func(*gorm.DB) *gorm.DB) ([]model.ExamAttempt, error) {
	var as []model.ExamAttempt
	err := r.DB.Scopes(scopes...).
		Preload("Exam").
		Preload("Student.User").
		Preload("Answers.Question").
		Order("submitted_at desc").
		Find(&as).Error
	return as, err
}

func (r *AttemptRepository) ListByStudent(studentID uint) ([]model.ExamAttempt, error) {
	var as []model.ExamAttempt
	err := r.DB.Where("student_id = ?", studentID).
		Preload("Exam").
		Preload("Answers.Question").
		Order("submitted_at desc").
		Find(&as).Error
	return as, err
}

func (r *AttemptRepository) CountByExam(examID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&model.ExamAttempt{}).Where("exam_id = ?", examID).Count(&n).Error
	return n, err
}
