package service

import (
	"testing"

	"school_admin_backend/internal/model"
	"school_admin_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateTeacherCreatesOwningUser(t *testing.T) {
	env := newTestEnv(t)

	teacher := seedTeacher(t, env, "mwangi", "EMP001")

	require.NotNil(t, teacher.User)
	assert.Equal(t, model.RoleTeacher, teacher.User.Role)
	assert.Equal(t, teacher.User.ID, teacher.UserID)

	var user model.User
	require.NoError(t, env.db.Where("username = ?", "mwangi").First(&user).Error)
	assert.NotEqual(t, "secret123", user.Password, "password must be stored hashed")
}

func TestCreateTeacherDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	seedTeacher(t, env, "mwangi", "EMP001")

	_, err := env.roster.CreateTeacher(TeacherRequest{
		User: UserRequest{
			Username: "mwangi",
			Email:    "other@school.test",
			Password: "secret123",
		},
		EmployeeID:    "EMP002",
		DateOfJoining: "2021-01-10",
	})
	assert.ErrorIs(t, err, util.ErrDuplicateKey)

	// 事务回滚：不能留下孤立 user
	var n int64
	require.NoError(t, env.db.Model(&model.User{}).Where("email = ?", "other@school.test").Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateTeacherDuplicateEmployeeID(t *testing.T) {
	env := newTestEnv(t)
	seedTeacher(t, env, "mwangi", "EMP001")

	_, err := env.roster.CreateTeacher(TeacherRequest{
		User: UserRequest{
			Username: "otieno",
			Email:    "otieno@school.test",
			Password: "secret123",
		},
		EmployeeID:    "EMP001",
		DateOfJoining: "2021-01-10",
	})
	assert.ErrorIs(t, err, util.ErrDuplicateKey)

	var n int64
	require.NoError(t, env.db.Model(&model.User{}).Where("username = ?", "otieno").Count(&n).Error)
	assert.Zero(t, n, "profile failure must roll the user back")
}

func TestMalformedDateRejectedAsValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.roster.CreateTeacher(TeacherRequest{
		User: UserRequest{
			Username: "mwangi",
			Email:    "mwangi@school.test",
			Password: "secret123",
		},
		EmployeeID:    "EMP001",
		DateOfJoining: "31-12-2020",
	})
	assert.ErrorIs(t, err, util.ErrInvalidDate)

	// 日期校验在事务之前，不能留下半成品数据
	var n int64
	require.NoError(t, env.db.Model(&model.User{}).Count(&n).Error)
	assert.Zero(t, n)

	teacher := seedTeacher(t, env, "otieno", "EMP002")
	bad := "2020/09/01"
	_, err = env.roster.UpdateTeacher(teacher.ID, TeacherUpdateRequest{DateOfJoining: &bad})
	assert.ErrorIs(t, err, util.ErrInvalidDate)

	student := seedStudent(t, env, "amina", "R001", "1", nil)
	_, _, err = env.roster.UpdateStudent(claimsFor(student.User), student.ID, StudentUpdateRequest{DateOfBirth: &bad})
	assert.ErrorIs(t, err, util.ErrInvalidDate)
}

func TestUpdateStudentAssignedTeacherAdvisory(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env)
	teacherA := seedTeacher(t, env, "mwangi", "EMP001")
	teacherB := seedTeacher(t, env, "otieno", "EMP002")
	student := seedStudent(t, env, "amina", "R001", "1", &teacherA.ID)

	// 带教教师调用方：字段被丢弃并返回提示，其余更新仍生效
	phone := "0700111222"
	updated, warning, err := env.roster.UpdateStudent(claimsFor(teacherA.User), student.ID, StudentUpdateRequest{
		PhoneNumber:       &phone,
		AssignedTeacherID: &teacherB.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, AssignedTeacherWarning, warning)
	assert.Equal(t, "0700111222", updated.PhoneNumber)
	require.NotNil(t, updated.AssignedTeacherID)
	assert.Equal(t, teacherA.ID, *updated.AssignedTeacherID)

	// 学生本人同样是软拒绝
	grade := "B"
	updated, warning, err = env.roster.UpdateStudent(claimsFor(student.User), student.ID, StudentUpdateRequest{
		Grade:             &grade,
		AssignedTeacherID: &teacherB.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, AssignedTeacherWarning, warning)
	assert.Equal(t, "B", updated.Grade)
	assert.Equal(t, teacherA.ID, *updated.AssignedTeacherID)

	// 管理员调用方：字段正常生效，无提示
	updated, warning, err = env.roster.UpdateStudent(admin, student.ID, StudentUpdateRequest{
		AssignedTeacherID: &teacherB.ID,
	})
	require.NoError(t, err)
	assert.Empty(t, warning)
	require.NotNil(t, updated.AssignedTeacherID)
	assert.Equal(t, teacherB.ID, *updated.AssignedTeacherID)
}

func TestUpdateStudentOutsideVisibilityIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	teacherA := seedTeacher(t, env, "mwangi", "EMP001")
	teacherB := seedTeacher(t, env, "otieno", "EMP002")
	student := seedStudent(t, env, "amina", "R001", "1", &teacherB.ID)

	phone := "0700111222"
	_, _, err := env.roster.UpdateStudent(claimsFor(teacherA.User), student.ID, StudentUpdateRequest{
		PhoneNumber: &phone,
	})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestDeleteTeacherUnassignsStudents(t *testing.T) {
	env := newTestEnv(t)
	teacher := seedTeacher(t, env, "mwangi", "EMP001")
	student := seedStudent(t, env, "amina", "R001", "1", &teacher.ID)

	require.NoError(t, env.roster.DeleteTeacher(teacher.ID))

	var st model.Student
	require.NoError(t, env.db.First(&st, student.ID).Error)
	assert.Nil(t, st.AssignedTeacherID)

	err := env.db.First(&model.User{}, teacher.UserID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "owning user must be removed with the profile")
}

func TestDeleteStudentCascades(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env)
	teacher := seedTeacher(t, env, "mwangi", "EMP001")
	student := seedStudent(t, env, "amina", "R001", "1", &teacher.ID)
	exam := seedExam(t, env, admin, "Term 1", "1", &teacher.ID)

	_, err := env.submission.Submit(claimsFor(student.User), exam.ID, SubmissionRequest{
		Answers: correctAnswers(exam),
	})
	require.NoError(t, err)

	require.NoError(t, env.roster.DeleteStudent(admin, student.ID))

	var attempts, answers, users int64
	require.NoError(t, env.db.Model(&model.ExamAttempt{}).Where("student_id = ?", student.ID).Count(&attempts).Error)
	require.NoError(t, env.db.Model(&model.StudentAnswer{}).Count(&answers).Error)
	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", student.UserID).Count(&users).Error)
	assert.Zero(t, attempts)
	assert.Zero(t, answers)
	assert.Zero(t, users)
}

func TestDeleteTeacherFreesIdentity(t *testing.T) {
	env := newTestEnv(t)
	teacher := seedTeacher(t, env, "mwangi", "EMP001")

	require.NoError(t, env.roster.DeleteTeacher(teacher.ID))

	// 删除后同样的用户名/工号/邮箱必须能重新注册
	recreated := seedTeacher(t, env, "mwangi", "EMP001")
	assert.Equal(t, "EMP001", recreated.EmployeeID)
	assert.Equal(t, "mwangi", recreated.User.Username)
}

func TestDeleteStudentFreesIdentity(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env)
	student := seedStudent(t, env, "amina", "R001", "1", nil)

	require.NoError(t, env.roster.DeleteStudent(admin, student.ID))

	recreated := seedStudent(t, env, "amina", "R001", "1", nil)
	assert.Equal(t, "R001", recreated.RollNumber)
	assert.Equal(t, "amina", recreated.User.Username)
}

func TestDeleteStudentSelfAllowedOthersHidden(t *testing.T) {
	env := newTestEnv(t)
	first := seedStudent(t, env, "amina", "R001", "1", nil)
	second := seedStudent(t, env, "baraka", "R002", "1", nil)

	// 其他学生的档案对学生不可见：404 而不是 403
	err := env.roster.DeleteStudent(claimsFor(first.User), second.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	require.NoError(t, env.roster.DeleteStudent(claimsFor(first.User), first.ID))

	err = env.db.First(&model.Student{}, first.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStudentVisibilityScopes(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env)
	teacherA := seedTeacher(t, env, "mwangi", "EMP001")
	teacherB := seedTeacher(t, env, "otieno", "EMP002")
	mine := seedStudent(t, env, "amina", "R001", "1", &teacherA.ID)
	seedStudent(t, env, "baraka", "R002", "1", &teacherB.ID)
	seedStudent(t, env, "chacha", "R003", "2", nil)

	all, err := env.roster.ListStudents(admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assigned, err := env.roster.ListStudents(claimsFor(teacherA.User))
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, mine.ID, assigned[0].ID)

	self, err := env.roster.ListStudents(claimsFor(mine.User))
	require.NoError(t, err)
	require.Len(t, self, 1)
	assert.Equal(t, mine.ID, self[0].ID)
}

func TestTeacherVisibilityScopes(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env)
	teacherA := seedTeacher(t, env, "mwangi", "EMP001")
	seedTeacher(t, env, "otieno", "EMP002")
	student := seedStudent(t, env, "amina", "R001", "1", &teacherA.ID)

	all, err := env.roster.ListTeachers(admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	self, err := env.roster.ListTeachers(claimsFor(teacherA.User))
	require.NoError(t, err)
	require.Len(t, self, 1)
	assert.Equal(t, teacherA.ID, self[0].ID)

	none, err := env.roster.ListTeachers(claimsFor(student.User))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateOwnTeacherPhoneOnly(t *testing.T) {
	env := newTestEnv(t)
	teacher := seedTeacher(t, env, "mwangi", "EMP001")

	phone := "0711222333"
	updated, err := env.roster.UpdateOwnTeacher(claimsFor(teacher.User), TeacherSelfUpdateRequest{
		PhoneNumber: &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "0711222333", updated.PhoneNumber)

	var persisted model.Teacher
	require.NoError(t, env.db.First(&persisted, teacher.ID).Error)
	assert.Equal(t, "0711222333", persisted.PhoneNumber)
}

func TestStudentsOfTeacher(t *testing.T) {
	env := newTestEnv(t)
	teacher := seedTeacher(t, env, "mwangi", "EMP001")
	seedStudent(t, env, "amina", "R001", "1", &teacher.ID)
	seedStudent(t, env, "baraka", "R002", "1", &teacher.ID)
	seedStudent(t, env, "chacha", "R003", "1", nil)

	students, err := env.roster.StudentsOfTeacher(teacher.ID)
	require.NoError(t, err)
	assert.Len(t, students, 2)

	_, err = env.roster.StudentsOfTeacher(9999)
	assert.ErrorIs(t, err, util.ErrNotFound)
}
