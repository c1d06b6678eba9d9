package service

import (
	"fmt"
	"testing"

	"school_admin_backend/internal/model"
	"school_admin_backend/internal/repository"
	"school_admin_backend/internal/util"
	"school_admin_backend/pkg/database"
	"school_admin_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		// 与生产配置一致：唯一索引冲突转换为 gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库按连接隔离，限制为单连接
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	db         *gorm.DB
	visibility *VisibilityService
	roster     *RosterService
	exams      *ExamService
	submission *SubmissionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	examRepo := repository.NewExamRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)

	vis := NewVisibilityService(db)
	return &testEnv{
		db:         db,
		visibility: vis,
		roster:     NewRosterService(teacherRepo, studentRepo, userRepo, vis, db),
		exams:      NewExamService(examRepo, teacherRepo, vis, db),
		submission: NewSubmissionService(attemptRepo, examRepo, studentRepo, vis, db),
	}
}

func claimsFor(user *model.User) *util.Claims {
	return &util.Claims{UserID: user.ID, Role: user.Role, Username: user.Username}
}

func seedAdmin(t *testing.T, env *testEnv) *util.Claims {
	t.Helper()

	admin := &model.User{
		Username: "admin",
		Email:    "admin@school.test",
		Password: "x",
		Role:     model.RoleAdmin,
	}
	require.NoError(t, env.db.Create(admin).Error)
	return claimsFor(admin)
}

func seedTeacher(t *testing.T, env *testEnv, username, employeeID string) *model.Teacher {
	t.Helper()

	teacher, err := env.roster.CreateTeacher(TeacherRequest{
		User: UserRequest{
			Username:  username,
			Email:     username + "@school.test",
			Password:  "secret123",
			FirstName: "T",
			LastName:  username,
		},
		EmployeeID:    employeeID,
		DateOfJoining: "2020-09-01",
	})
	require.NoError(t, err)
	return teacher
}

func seedStudent(t *testing.T, env *testEnv, username, rollNumber, className string, teacherID *uint) *model.Student {
	t.Helper()

	student, err := env.roster.CreateStudent(StudentRequest{
		User: UserRequest{
			Username:  username,
			Email:     username + "@school.test",
			Password:  "secret123",
			FirstName: "S",
			LastName:  username,
		},
		RollNumber:        rollNumber,
		ClassName:         className,
		DateOfBirth:       "2008-04-15",
		AdmissionDate:     "2021-09-01",
		AssignedTeacherID: teacherID,
	})
	require.NoError(t, err)
	return student
}

// fiveQuestions builds a valid question set with every correct option
// set to "2".
func fiveQuestions() []QuestionRequest {
	qs := make([]QuestionRequest, model.ExamQuestionCount)
	for i := range qs {
		qs[i] = QuestionRequest{
			QuestionText:  fmt.Sprintf("Question %d", i+1),
			Option1:       "alpha",
			Option2:       "beta",
			Option3:       "gamma",
			Option4:       "delta",
			CorrectOption: "2",
		}
	}
	return qs
}

func seedExam(t *testing.T, env *testEnv, claims *util.Claims, title, targetClass string, teacherID *uint) *model.Exam {
	t.Helper()

	exam, err := env.exams.CreateExam(claims, ExamRequest{
		Title:       title,
		Subject:     "Mathematics",
		TargetClass: targetClass,
		TeacherID:   teacherID,
		Questions:   fiveQuestions(),
	})
	require.NoError(t, err)
	return exam
}

// correctAnswers answers every question with its correct option.
func correctAnswers(exam *model.Exam) []AnswerRequest {
	answers := make([]AnswerRequest, len(exam.Questions))
	for i, q := range exam.Questions {
		answers[i] = AnswerRequest{QuestionID: q.ID, Answer: q.CorrectOption}
	}
	return answers
}
