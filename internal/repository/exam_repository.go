package repository

import (
	"school_admin_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) FindByID(id uint, scopes ...func(*gorm.DB) *gorm.DB) (*model.Exam, error) {
	var e model.Exam
	err := r.DB.Scopes(scopes...).Preload("Teacher.User").First(&e, id).Error
	return &e, err
}

func (r *ExamRepository) List(scopes ...func(*gorm.DB) *gorm.DB) ([]model.Exam, error) {
	var es []model.Exam
	err := r.DB.Scopes(scopes...).Preload("Teacher.User").Order("created_at desc").Find(&es).Error
	return es, err
}

func (r *ExamRepository) ListQuestions(examID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("exam_id = ?", examID).Order("id asc").Find(&qs).Error
	return qs, err
}
