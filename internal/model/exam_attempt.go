package model

import "time"

// ExamAttempt records one student's single submission for one exam.
// The composite unique index is the at-most-once guarantee: a concurrent
// duplicate insert fails at the storage layer and is translated to
// ErrAlreadySubmitted, never checked-then-inserted in application code.
// swagger:model ExamAttempt
type ExamAttempt struct {
	BaseModel
	StudentID   uint            `gorm:"uniqueIndex:uq_student_exam;type:bigint unsigned;not null" json:"studentId"`
	Student     *Student        `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	ExamID      uint            `gorm:"uniqueIndex:uq_student_exam;type:bigint unsigned;not null" json:"examId"`
	Exam        *Exam           `gorm:"foreignKey:ExamID" json:"exam,omitempty"`
	Marks       int             `gorm:"default:0" json:"marks"`
	AttemptedAt time.Time       `json:"attemptedAt"`
	SubmittedAt time.Time       `json:"submittedAt"`
	Answers     []StudentAnswer `gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"answers,omitempty"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}

// StudentAnswer is one submitted answer within an attempt. IsCorrect is
// computed once at submission time and never recomputed.
// swagger:model StudentAnswer
type StudentAnswer struct {
	BaseModel
	AttemptID  uint      `gorm:"index;type:bigint unsigned;not null" json:"attemptId"`
	QuestionID uint      `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	Question   *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	Answer     string    `gorm:"type:text" json:"answer"`
	IsCorrect  bool      `gorm:"default:false" json:"isCorrect"`
}

func (StudentAnswer) TableName() string {
	return "student_answers"
}
