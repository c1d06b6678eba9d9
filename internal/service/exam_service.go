package service

import (
	"errors"

	"school_admin_backend/internal/model"
	"school_admin_backend/internal/repository"
	"school_admin_backend/internal/util"

	"gorm.io/gorm"
)

// ExamService owns exam authoring: the exactly-5-questions rule on
// create, and full question-set replacement on update.
type ExamService struct {
	ExamRepo    *repository.ExamRepository
	TeacherRepo *repository.TeacherRepository
	Visibility  *VisibilityService
	DB          *gorm.DB
}

func NewExamService(
	examRepo *repository.ExamRepository,
	teacherRepo *repository.TeacherRepository,
	visibility *VisibilityService,
	db *gorm.DB,
) *ExamService {
	return &ExamService{
		ExamRepo:    examRepo,
		TeacherRepo: teacherRepo,
		Visibility:  visibility,
		DB:          db,
	}
}

type QuestionRequest struct {
	QuestionText  string `json:"questionText" binding:"required"`
	Option1       string `json:"option1" binding:"required"`
	Option2       string `json:"option2" binding:"required"`
	Option3       string `json:"option3" binding:"required"`
	Option4       string `json:"option4" binding:"required"`
	CorrectOption string `json:"correctOption" binding:"required,oneof=1 2 3 4"`
}

type ExamRequest struct {
	Title       string            `json:"title" binding:"required"`
	Subject     string            `json:"subject" binding:"required"`
	TargetClass string            `json:"targetClass"`
	TeacherID   *uint             `json:"teacherId"`
	Questions   []QuestionRequest `json:"questions" binding:"required"`
}

func buildQuestions(examID uint, reqs []QuestionRequest) []model.Question {
	qs := make([]model.Question, len(reqs))
	for i, q := range reqs {
		qs[i] = model.Question{
			ExamID:        examID,
			QuestionText:  q.QuestionText,
			Option1:       q.Option1,
			Option2:       q.Option2,
			Option3:       q.Option3,
			Option4:       q.Option4,
			CorrectOption: q.CorrectOption,
		}
	}
	return qs
}

// CreateExam validates the fixed question set and resolves the owning
// teacher: a teacher creator without an explicit teacherId owns the exam
// through their own profile.
func (s *ExamService) CreateExam(claims *util.Claims, req ExamRequest) (*model.Exam, error) {
	if len(req.Questions) != model.ExamQuestionCount {
		return nil, util.ErrQuestionCount
	}

	teacherID := req.TeacherID
	if claims.Role == model.RoleTeacher && teacherID == nil {
		t, err := s.TeacherRepo.FindByUserID(claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrProfileNotFound
			}
			return nil, err
		}
		teacherID = &t.ID
	}

	targetClass := req.TargetClass
	if targetClass == "" {
		targetClass = "1"
	}

	exam := &model.Exam{
		Title:       req.Title,
		Subject:     req.Subject,
		TargetClass: targetClass,
		TeacherID:   teacherID,
		CreatedByID: claims.UserID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(exam).Error; err != nil {
			return err
		}
		questions := buildQuestions(exam.ID, req.Questions)
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
		exam.Questions = questions
		return nil
	})
	if err != nil {
		return nil, translateDBError(err)
	}
	return exam, nil
}

func (s *ExamService) GetExam(claims *util.Claims, id uint) (*model.Exam, error) {
	e, err := s.ExamRepo.FindByID(id, s.Visibility.ExamScope(claims))
	if err != nil {
		return nil, translateDBError(err)
	}
	return e, nil
}

func (s *ExamService) ListExams(claims *util.Claims) ([]model.Exam, error) {
	return s.ExamRepo.List(s.Visibility.ExamScope(claims))
}

type ExamUpdateRequest struct {
	Title       *string           `json:"title"`
	Subject     *string           `json:"subject"`
	TargetClass *string           `json:"targetClass"`
	TeacherID   *uint             `json:"teacherId"`
	Questions   []QuestionRequest `json:"questions"`
}

// UpdateExam edits exam metadata. A supplied question set replaces the
// old one wholesale (delete then recreate) and must again total exactly
// five.
func (s *ExamService) UpdateExam(claims *util.Claims, id uint, req ExamUpdateRequest) (*model.Exam, error) {
	e, err := s.ExamRepo.FindByID(id, s.Visibility.ExamScope(claims))
	if err != nil {
		return nil, translateDBError(err)
	}

	if req.Questions != nil && len(req.Questions) != model.ExamQuestionCount {
		return nil, util.ErrQuestionCount
	}

	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Subject != nil {
		e.Subject = *req.Subject
	}
	if req.TargetClass != nil {
		e.TargetClass = *req.TargetClass
	}
	if req.TeacherID != nil {
		e.TeacherID = req.TeacherID
		e.Teacher = nil
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Teacher", "Questions").Save(e).Error; err != nil {
			return err
		}
		if req.Questions == nil {
			return nil
		}
		if err := tx.Unscoped().Where("exam_id = ?", e.ID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		questions := buildQuestions(e.ID, req.Questions)
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
		e.Questions = questions
		return nil
	})
	if err != nil {
		return nil, translateDBError(err)
	}
	return e, nil
}

// DeleteExam removes the exam with its questions, attempts and answers.
func (s *ExamService) DeleteExam(claims *util.Claims, id uint) error {
	e, err := s.ExamRepo.FindByID(id, s.Visibility.ExamScope(claims))
	if err != nil {
		return translateDBError(err)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var attemptIDs []uint
		if err := tx.Model(&model.ExamAttempt{}).
			Where("exam_id = ?", e.ID).
			Pluck("id", &attemptIDs).Error; err != nil {
			return err
		}
		if len(attemptIDs) > 0 {
			if err := tx.Where("attempt_id IN ?", attemptIDs).
				Delete(&model.StudentAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&model.ExamAttempt{}, attemptIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("exam_id = ?", e.ID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Exam{}, e.ID).Error
	})
}

// StudentQuestion is the question view served to students: no correct
// option designator.
type StudentQuestion struct {
	ID           uint   `json:"id"`
	QuestionText string `json:"questionText"`
	Option1      string `json:"option1"`
	Option2      string `json:"option2"`
	Option3      string `json:"option3"`
	Option4      string `json:"option4"`
}

// ListQuestions returns an exam's questions within the caller's
// visibility. Students get the stripped view.
func (s *ExamService) ListQuestions(claims *util.Claims, examID uint) (interface{}, error) {
	if _, err := s.ExamRepo.FindByID(examID, s.Visibility.ExamScope(claims)); err != nil {
		return nil, translateDBError(err)
	}

	qs, err := s.ExamRepo.ListQuestions(examID)
	if err != nil {
		return nil, err
	}

	if claims.Role != model.RoleStudent {
		return qs, nil
	}

	view := make([]StudentQuestion, len(qs))
	for i, q := range qs {
		view[i] = StudentQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Option1:      q.Option1,
			Option2:      q.Option2,
			Option3:      q.Option3,
			Option4:      q.Option4,
		}
	}
	return view, nil
}
