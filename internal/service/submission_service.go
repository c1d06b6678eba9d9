package service

import (
	"errors"
	"fmt"
	"time"

	"school_admin_backend/internal/model"
	"school_admin_backend/internal/repository"
	"school_admin_backend/internal/util"
	"school_admin_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmissionService is the grading transaction: one atomic, at-most-once
// submission per (student, exam) pair.
type SubmissionService struct {
	AttemptRepo *repository.AttemptRepository
	ExamRepo    *repository.ExamRepository
	StudentRepo *repository.StudentRepository
	Visibility  *VisibilityService
	DB          *gorm.DB
}

func NewSubmissionService(
	attemptRepo *repository.AttemptRepository,
	examRepo *repository.ExamRepository,
	studentRepo *repository.StudentRepository,
	visibility *VisibilityService,
	db *gorm.DB,
) *SubmissionService {
	return &SubmissionService{
		AttemptRepo: attemptRepo,
		ExamRepo:    examRepo,
		StudentRepo: studentRepo,
		Visibility:  visibility,
		DB:          db,
	}
}

type AnswerRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

type SubmissionRequest struct {
	Answers []AnswerRequest `json:"answers" binding:"required"`
}

// GradeAnswer compares the submitted answer against the question's
// correct-option designator ("1".."4"). Option text is never consulted.
func GradeAnswer(q *model.Question, answer string) bool {
	return answer == q.CorrectOption
}

// Submit runs the whole submission as one transaction. The attempt row
// is inserted first so the composite unique index decides concurrent
// duplicates; a duplicate key surfaces as ErrAlreadySubmitted. An
// invalid question reference rolls the attempt back, leaving nothing
// behind.
func (s *SubmissionService) Submit(claims *util.Claims, examID uint, req SubmissionRequest) (*model.ExamAttempt, error) {
	student, err := s.StudentRepo.FindByUserID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}

	if len(req.Answers) != model.ExamQuestionCount {
		return nil, util.ErrAnswerCount
	}

	exam, err := s.ExamRepo.FindByID(examID, s.Visibility.ExamScope(claims))
	if err != nil {
		return nil, translateDBError(err)
	}

	now := time.Now()
	attempt := &model.ExamAttempt{
		StudentID:   student.ID,
		ExamID:      exam.ID,
		AttemptedAt: now,
		SubmittedAt: now,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return util.ErrAlreadySubmitted
			}
			return err
		}

		score := 0
		for _, ans := range req.Answers {
			var q model.Question
			if err := tx.Where("id = ? AND exam_id = ?", ans.QuestionID, exam.ID).First(&q).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w (question %d)", util.ErrQuestionNotInExam, ans.QuestionID)
				}
				return err
			}

			correct := GradeAnswer(&q, ans.Answer)
			if correct {
				score++
			}

			record := &model.StudentAnswer{
				AttemptID:  attempt.ID,
				QuestionID: q.ID,
				Answer:     ans.Answer,
				IsCorrect:  correct,
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
			attempt.Answers = append(attempt.Answers, *record)
		}

		attempt.Marks = score
		return tx.Model(&model.ExamAttempt{}).Where("id = ?", attempt.ID).
			Update("marks", score).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("exam submitted",
		zap.Uint("studentId", student.ID),
		zap.Uint("examId", exam.ID),
		zap.Int("marks", attempt.Marks))

	return attempt, nil
}

// MyMarks lists the calling student's own attempts.
func (s *SubmissionService) MyMarks(claims *util.Claims) ([]model.ExamAttempt, error) {
	student, err := s.StudentRepo.FindByUserID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 无档案时返回空列表而不是报错
			return []model.ExamAttempt{}, nil
		}
		return nil, err
	}
	return s.AttemptRepo.ListByStudent(student.ID)
}

// ListAttempts returns attempts within the caller's visibility, with an
// optional exam filter.
func (s *SubmissionService) ListAttempts(claims *util.Claims, examID uint) ([]model.ExamAttempt, error) {
	scopes := []func(*gorm.DB) *gorm.DB{s.Visibility.AttemptScope(claims)}
	if examID > 0 {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("exam_id = ?", examID)
		})
	}
	return s.AttemptRepo.List(scopes...)
}
