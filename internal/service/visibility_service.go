package service

import (
	"school_admin_backend/internal/model"
	"school_admin_backend/internal/util"

	"gorm.io/gorm"
)

// VisibilityService 按角色计算数据可见范围。所有范围以 gorm scope 的形式
// 返回，由 repository 应用到查询上；被过滤掉的对象对调用方表现为 404，
// 而不是 403，避免泄露存在性。
type VisibilityService struct {
	DB *gorm.DB
}

func NewVisibilityService(db *gorm.DB) *VisibilityService {
	return &VisibilityService{DB: db}
}

func all(db *gorm.DB) *gorm.DB { return db }

func none(db *gorm.DB) *gorm.DB { return db.Where("1 = 0") }

func (v *VisibilityService) teacherIDsOf(userID uint) *gorm.DB {
	return v.DB.Model(&model.Teacher{}).Select("id").Where("user_id = ?", userID)
}

func (v *VisibilityService) studentIDsOf(userID uint) *gorm.DB {
	return v.DB.Model(&model.Student{}).Select("id").Where("user_id = ?", userID)
}

// TeacherScope: admin sees all teachers, a teacher only themselves,
// students none.
func (v *VisibilityService) TeacherScope(claims *util.Claims) func(*gorm.DB) *gorm.DB {
	switch claims.Role {
	case model.RoleAdmin:
		return all
	case model.RoleTeacher:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("user_id = ?", claims.UserID)
		}
	}
	return none
}

// StudentScope: admin sees all students, a teacher only students assigned
// to them, a student only themselves.
func (v *VisibilityService) StudentScope(claims *util.Claims) func(*gorm.DB) *gorm.DB {
	switch claims.Role {
	case model.RoleAdmin:
		return all
	case model.RoleTeacher:
		sub := v.teacherIDsOf(claims.UserID)
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("assigned_teacher_id IN (?)", sub)
		}
	case model.RoleStudent:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("user_id = ?", claims.UserID)
		}
	}
	return none
}

// ExamScope: admin sees all exams, a teacher the exams they own or
// created, a student only exams targeting their own class. Class matching
// is an exact string comparison between Student.ClassName and
// Exam.TargetClass.
func (v *VisibilityService) ExamScope(claims *util.Claims) func(*gorm.DB) *gorm.DB {
	switch claims.Role {
	case model.RoleAdmin:
		return all
	case model.RoleTeacher:
		sub := v.teacherIDsOf(claims.UserID)
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("teacher_id IN (?) OR created_by_id = ?", sub, claims.UserID)
		}
	case model.RoleStudent:
		sub := v.DB.Model(&model.Student{}).Select("class_name").Where("user_id = ?", claims.UserID)
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("target_class IN (?)", sub)
		}
	}
	return none
}

// AttemptScope: admin sees all attempts, a teacher the attempts of their
// assigned students, a student only their own.
func (v *VisibilityService) AttemptScope(claims *util.Claims) func(*gorm.DB) *gorm.DB {
	switch claims.Role {
	case model.RoleAdmin:
		return all
	case model.RoleTeacher:
		teachers := v.teacherIDsOf(claims.UserID)
		students := v.DB.Model(&model.Student{}).Select("id").Where("assigned_teacher_id IN (?)", teachers)
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("student_id IN (?)", students)
		}
	case model.RoleStudent:
		sub := v.studentIDsOf(claims.UserID)
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("student_id IN (?)", sub)
		}
	}
	return none
}

// CanAssignTeacher reports whether the caller may change a student's
// assigned_teacher field. Non-admin attempts are soft-rejected: the field
// is dropped and the response carries an advisory warning.
func (v *VisibilityService) CanAssignTeacher(claims *util.Claims) bool {
	return claims.Role == model.RoleAdmin
}
