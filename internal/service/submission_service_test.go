package service

import (
	"testing"

	"school_admin_backend/internal/model"
	"school_admin_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeAnswer(t *testing.T) {
	q := &model.Question{
		Option1:       "alpha",
		Option2:       "beta",
		Option3:       "gamma",
		Option4:       "delta",
		CorrectOption: "2",
	}

	tests := []struct {
		name    string
		answer  string
		correct bool
	}{
		{"matching designator", "2", true},
		{"wrong designator", "1", false},
		{"option text is never accepted", "beta", false},
		{"empty answer", "", false},
		{"out of range designator", "5", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.correct, GradeAnswer(q, tt.answer))
		})
	}
}

func TestSubmitGradesAllCorrect(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env)
	student := seedStudent(t, env, "amina", "R001", "1", nil)
	exam := seedExam(t, env, admin, "Term 1", "1", nil)

	attempt, err := env.submission.Submit(claimsFor(student.User), exam.ID, SubmissionRequest{
		Answers: correctAnswers(exam),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ExamQuestionCount, attempt.Marks)
	require.Len(t, attempt.Answers, model.ExamQuestionCount)
	for _, a := range attempt.Answers {
		assert.True(t, a.IsCorrect)
	}

	var persisted model.ExamAttempt
	require.NoError(t, env.db.First(&persisted, attempt.ID).Error)
	assert.Equal(t, model.ExamQuestionCount, persisted.Marks)
}

func TestSubmitGradesPartial(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env)
	student := seedStudent(t, env, "amina", "R001", "1", nil)
	exam := seedExam(t, env, admin, "Term 1", "1", nil)

	answers := correctAnswers(exam)
	answers[0].Answer = "1"
	answers[1].Answer = "4"

	attempt, err := env.submission.Submit(claimsFor(student.User), exam.ID, SubmissionRequest{
		Answers: answers,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempt.Marks)

	wrong := 0
	for _, a := range attempt.Answers {
		if !a.IsCorrect {
			wrong++
		}
	}
	assert.Equal(t, 2, wrong)
}

func TestSubmitTwiceIsRejected(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env)
	student := seedStudent(t, env, "amina", "R001", "1", nil)
	exam := seedExam(t, env, admin, "Term 1", "1", nil)

	_, err := env.submission.Submit(claimsFor(student.User), exam.ID, SubmissionRequest{
		Answers: correctAnswers(exam),
	})
	require.NoError(t, err)

	_, err = env.submission.Submit(claimsFor(student.User), exam.ID, SubmissionRequest{
		Answers: correctAnswers(exam),
	})
	assert.ErrorIs(t, err, util.ErrAlreadySubmitted)

	n, err := env.submission.AttemptRepo.CountByExam(exam.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSubmitWrongAnswerCount(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env)
	student := seedStudent(t, env, "amina", "R001", "1", nil)
	exam := seedExam(t, env, admin, "Term 1", "1", nil)

	_, err := env.submission.Submit(claimsFor(student.User), exam.ID, SubmissionRequest{
		Answers: correctAnswers(exam)[:3],
	})
	assert.ErrorIs(t, err, util.ErrAnswerCount)
}

func TestSubmitForeignQuestionRollsBack(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env)
	student := seedStudent(t, env, "amina", "R001", "1", nil)
	exam := seedExam(t, env, admin, "Term 1", "1", nil)
	other := seedExam(t, env, admin, "Term 2", "1", nil)

	answers := correctAnswers(exam)
	answers[4].QuestionID = other.Questions[0].ID

	_, err := env.submission.Submit(claimsFor(student.User), exam.ID, SubmissionRequest{
		Answers: answers,
	})
	assert.ErrorIs(t, err, util.ErrQuestionNotInExam)

	// 回滚必须彻底：不留下半截答卷
	var attempts, recorded int64
	require.NoError(t, env.db.Model(&model.ExamAttempt{}).Count(&attempts).Error)
	require.NoError(t, env.db.Model(&model.StudentAnswer{}).Count(&recorded).Error)
	assert.Zero(t, attempts)
	assert.Zero(t, recorded)

	// 回滚后可重新提交
	attempt, err := env.submission.Submit(claimsFor(student.User), exam.ID, SubmissionRequest{
		Answers: correctAnswers(exam),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ExamQuestionCount, attempt.Marks)
}

func TestSubmitOutsideTargetClassIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env)
	student := seedStudent(t, env, "amina", "R001", "2", nil)
	exam := seedExam(t, env, admin, "Term 1", "1", nil)

	_, err := env.submission.Submit(claimsFor(student.User), exam.ID, SubmissionRequest{
		Answers: correctAnswers(exam),
	})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestSubmitWithoutProfile(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env)
	exam := seedExam(t, env, admin, "Term 1", "1", nil)

	orphan := &model.User{
		Username: "ghost",
		Email:    "ghost@school.test",
		Password: "x",
		Role:     model.RoleStudent,
	}
	require.NoError(t, env.db.Create(orphan).Error)

	_, err := env.submission.Submit(claimsFor(orphan), exam.ID, SubmissionRequest{
		Answers: correctAnswers(exam),
	})
	assert.ErrorIs(t, err, util.ErrProfileNotFound)
}

func TestMyMarksWithoutProfileIsEmpty(t *testing.T) {
	env := newTestEnv(t)

	orphan := &model.User{
		Username: "ghost",
		Email:    "ghost@school.test",
		Password: "x",
		Role:     model.RoleStudent,
	}
	require.NoError(t, env.db.Create(orphan).Error)

	marks, err := env.submission.MyMarks(claimsFor(orphan))
	require.NoError(t, err)
	assert.Empty(t, marks)
}

func TestMyMarksListsOwnAttempts(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env)
	student := seedStudent(t, env, "amina", "R001", "1", nil)
	other := seedStudent(t, env, "baraka", "R002", "1", nil)
	exam := seedExam(t, env, admin, "Term 1", "1", nil)

	_, err := env.submission.Submit(claimsFor(student.User), exam.ID, SubmissionRequest{
		Answers: correctAnswers(exam),
	})
	require.NoError(t, err)
	_, err = env.submission.Submit(claimsFor(other.User), exam.ID, SubmissionRequest{
		Answers: correctAnswers(exam),
	})
	require.NoError(t, err)

	marks, err := env.submission.MyMarks(claimsFor(student.User))
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, student.ID, marks[0].StudentID)
}

func TestListAttemptsVisibilityAndFilter(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env)
	teacherA := seedTeacher(t, env, "mwangi", "EMP001")
	mine := seedStudent(t, env, "amina", "R001", "1", &teacherA.ID)
	other := seedStudent(t, env, "baraka", "R002", "1", nil)
	first := seedExam(t, env, admin, "Term 1", "1", nil)
	second := seedExam(t, env, admin, "Term 2", "1", nil)

	for _, st := range []*model.Student{mine, other} {
		for _, exam := range []*model.Exam{first, second} {
			_, err := env.submission.Submit(claimsFor(st.User), exam.ID, SubmissionRequest{
				Answers: correctAnswers(exam),
			})
			require.NoError(t, err)
		}
	}

	all, err := env.submission.ListAttempts(admin, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	filtered, err := env.submission.ListAttempts(admin, first.ID)
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	// 教师只看到名下学生的答卷
	teachers, err := env.submission.ListAttempts(claimsFor(teacherA.User), 0)
	require.NoError(t, err)
	require.Len(t, teachers, 2)
	for _, a := range teachers {
		assert.Equal(t, mine.ID, a.StudentID)
	}

	// 学生只看到本人的
	own, err := env.submission.ListAttempts(claimsFor(other.User), 0)
	require.NoError(t, err)
	require.Len(t, own, 2)
	for _, a := range own {
		assert.Equal(t, other.ID, a.StudentID)
	}
}
