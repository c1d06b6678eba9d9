package util

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidDate        = errors.New("invalid date, expected format YYYY-MM-DD")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrProfileNotFound    = errors.New("profile not found for user")
	ErrAlreadySubmitted   = errors.New("exam already submitted")
	ErrQuestionNotInExam  = errors.New("question does not belong to this exam")
	ErrQuestionCount      = errors.New("each exam must contain exactly 5 questions")
	ErrAnswerCount        = errors.New("you must answer exactly 5 questions")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrEmailNotFound      = errors.New("email not found")
)
