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

const dateLayout = "2006-01-02"

// AssignedTeacherWarning is returned as an advisory when a non-admin
// caller tries to change a student's assigned teacher. The field is
// dropped, the rest of the update still applies.
const AssignedTeacherWarning = "Assigned teacher can only be changed by admin."

// RosterService owns teacher and student profiles together with their
// owning user accounts. Creation wraps user+profile in one transaction;
// deletion is the explicit two-step profile-then-user removal.
type RosterService struct {
	TeacherRepo *repository.TeacherRepository
	StudentRepo *repository.StudentRepository
	UserRepo    *repository.UserRepository
	Visibility  *VisibilityService
	DB          *gorm.DB
}

func NewRosterService(
	teacherRepo *repository.TeacherRepository,
	studentRepo *repository.StudentRepository,
	userRepo *repository.UserRepository,
	visibility *VisibilityService,
	db *gorm.DB,
) *RosterService {
	return &RosterService{
		TeacherRepo: teacherRepo,
		StudentRepo: studentRepo,
		UserRepo:    userRepo,
		Visibility:  visibility,
		DB:          db,
	}
}

type UserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type TeacherRequest struct {
	User                  UserRequest `json:"user" binding:"required"`
	EmployeeID            string      `json:"employeeId" binding:"required"`
	PhoneNumber           string      `json:"phoneNumber"`
	SubjectSpecialization string      `json:"subjectSpecialization"`
	DateOfJoining         string      `json:"dateOfJoining" binding:"required"`
	Status                int         `json:"status"`
}

// parseDate rejects anything that is not YYYY-MM-DD; the sentinel keeps
// malformed input a 400 at the request boundary.
func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", util.ErrInvalidDate, value)
	}
	return t, nil
}

func translateDBError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrDuplicateKey
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotFound
	}
	return err
}

// CreateTeacher creates the owning user (role fixed to teacher) and the
// profile in a single transaction; a profile failure leaves no user behind.
func (s *RosterService) CreateTeacher(req TeacherRequest) (*model.Teacher, error) {
	joined, err := parseDate(req.DateOfJoining)
	if err != nil {
		return nil, err
	}

	hashed, err := HashPassword(req.User.Password)
	if err != nil {
		return nil, err
	}

	teacher := &model.Teacher{
		EmployeeID:            req.EmployeeID,
		PhoneNumber:           req.PhoneNumber,
		SubjectSpecialization: req.SubjectSpecialization,
		DateOfJoining:         joined,
		Status:                req.Status,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		user := &model.User{
			Username:  req.User.Username,
			Email:     req.User.Email,
			FirstName: req.User.FirstName,
			LastName:  req.User.LastName,
			Password:  hashed,
			Role:      model.RoleTeacher,
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		teacher.UserID = user.ID
		teacher.User = user
		return tx.Create(teacher).Error
	})
	if err != nil {
		return nil, translateDBError(err)
	}
	return teacher, nil
}

func (s *RosterService) GetTeacher(claims *util.Claims, id uint) (*model.Teacher, error) {
	t, err := s.TeacherRepo.FindByID(id, s.Visibility.TeacherScope(claims))
	if err != nil {
		return nil, translateDBError(err)
	}
	return t, nil
}

func (s *RosterService) ListTeachers(claims *util.Claims) ([]model.Teacher, error) {
	return s.TeacherRepo.List(s.Visibility.TeacherScope(claims))
}

// GetOwnTeacher resolves the caller's own teacher profile.
func (s *RosterService) GetOwnTeacher(claims *util.Claims) (*model.Teacher, error) {
	t, err := s.TeacherRepo.FindByUserID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}
	return t, nil
}

type TeacherUpdateRequest struct {
	Email                 *string `json:"email"`
	FirstName             *string `json:"firstName"`
	LastName              *string `json:"lastName"`
	PhoneNumber           *string `json:"phoneNumber"`
	SubjectSpecialization *string `json:"subjectSpecialization"`
	DateOfJoining         *string `json:"dateOfJoining"`
	Status                *int    `json:"status"`
}

func (s *RosterService) UpdateTeacher(id uint, req TeacherUpdateRequest) (*model.Teacher, error) {
	t, err := s.TeacherRepo.FindByID(id)
	if err != nil {
		return nil, translateDBError(err)
	}

	if req.PhoneNumber != nil {
		t.PhoneNumber = *req.PhoneNumber
	}
	if req.SubjectSpecialization != nil {
		t.SubjectSpecialization = *req.SubjectSpecialization
	}
	if req.DateOfJoining != nil {
		joined, err := parseDate(*req.DateOfJoining)
		if err != nil {
			return nil, err
		}
		t.DateOfJoining = joined
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.Email != nil {
		t.User.Email = *req.Email
	}
	if req.FirstName != nil {
		t.User.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		t.User.LastName = *req.LastName
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(t.User).Error; err != nil {
			return err
		}
		return tx.Omit("User").Save(t).Error
	})
	if err != nil {
		return nil, translateDBError(err)
	}
	return t, nil
}

// TeacherSelfUpdateRequest is the narrow surface a teacher may edit on
// their own profile.
type TeacherSelfUpdateRequest struct {
	PhoneNumber *string `json:"phoneNumber"`
}

func (s *RosterService) UpdateOwnTeacher(claims *util.Claims, req TeacherSelfUpdateRequest) (*model.Teacher, error) {
	t, err := s.GetOwnTeacher(claims)
	if err != nil {
		return nil, err
	}
	if req.PhoneNumber != nil {
		t.PhoneNumber = *req.PhoneNumber
		if err := s.DB.Model(&model.Teacher{}).Where("id = ?", t.ID).
			Update("phone_number", t.PhoneNumber).Error; err != nil {
			return nil, err
		}
	}
	return t, nil
}

// DeleteTeacher removes the profile, then the owning user, in one
// transaction. Students assigned to the teacher keep their rows with the
// reference nulled.
func (s *RosterService) DeleteTeacher(id uint) error {
	t, err := s.TeacherRepo.FindByID(id)
	if err != nil {
		return translateDBError(err)
	}

	logger.Log.Warn("deleting teacher profile and owning user",
		zap.Uint("teacherId", t.ID), zap.Uint("userId", t.UserID))

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Student{}).
			Where("assigned_teacher_id = ?", t.ID).
			Update("assigned_teacher_id", nil).Error; err != nil {
			return err
		}
		// 硬删除：用户名、工号、邮箱必须可以重新注册
		if err := tx.Unscoped().Delete(&model.Teacher{}, t.ID).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.User{}, t.UserID).Error
	})
}

// StudentsOfTeacher lists the students assigned to one teacher (admin
// roster drill-down).
func (s *RosterService) StudentsOfTeacher(teacherID uint) ([]model.Student, error) {
	if _, err := s.TeacherRepo.FindByID(teacherID); err != nil {
		return nil, translateDBError(err)
	}
	return s.StudentRepo.ListByTeacher(teacherID)
}

type StudentRequest struct {
	User              UserRequest `json:"user" binding:"required"`
	RollNumber        string      `json:"rollNumber" binding:"required"`
	ClassName         string      `json:"className"`
	Grade             string      `json:"grade"`
	PhoneNumber       string      `json:"phoneNumber"`
	DateOfBirth       string      `json:"dateOfBirth" binding:"required"`
	AdmissionDate     string      `json:"admissionDate" binding:"required"`
	Status            int         `json:"status"`
	AssignedTeacherID *uint       `json:"assignedTeacherId"`
}

func (s *RosterService) CreateStudent(req StudentRequest) (*model.Student, error) {
	birth, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	admitted, err := parseDate(req.AdmissionDate)
	if err != nil {
		return nil, err
	}

	hashed, err := HashPassword(req.User.Password)
	if err != nil {
		return nil, err
	}

	className := req.ClassName
	if className == "" {
		className = "1"
	}

	student := &model.Student{
		RollNumber:        req.RollNumber,
		ClassName:         className,
		Grade:             req.Grade,
		PhoneNumber:       req.PhoneNumber,
		DateOfBirth:       birth,
		AdmissionDate:     admitted,
		Status:            req.Status,
		AssignedTeacherID: req.AssignedTeacherID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		user := &model.User{
			Username:  req.User.Username,
			Email:     req.User.Email,
			FirstName: req.User.FirstName,
			LastName:  req.User.LastName,
			Password:  hashed,
			Role:      model.RoleStudent,
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		student.UserID = user.ID
		student.User = user
		return tx.Create(student).Error
	})
	if err != nil {
		return nil, translateDBError(err)
	}
	return student, nil
}

func (s *RosterService) GetStudent(claims *util.Claims, id uint) (*model.Student, error) {
	st, err := s.StudentRepo.FindByID(id, s.Visibility.StudentScope(claims))
	if err != nil {
		return nil, translateDBError(err)
	}
	return st, nil
}

func (s *RosterService) ListStudents(claims *util.Claims) ([]model.Student, error) {
	return s.StudentRepo.List(s.Visibility.StudentScope(claims))
}

// StudentUpdateRequest lists exactly the mutable student fields.
// AssignedTeacherID carries its own authorization rule: only an admin
// caller may apply it.
type StudentUpdateRequest struct {
	Email             *string `json:"email"`
	FirstName         *string `json:"firstName"`
	LastName          *string `json:"lastName"`
	PhoneNumber       *string `json:"phoneNumber"`
	Grade             *string `json:"grade"`
	ClassName         *string `json:"className"`
	DateOfBirth       *string `json:"dateOfBirth"`
	AdmissionDate     *string `json:"admissionDate"`
	Status            *int    `json:"status"`
	AssignedTeacherID *uint   `json:"assignedTeacherId"`
}

// UpdateStudent applies a field-level update within the caller's
// visibility: teachers reach their assigned students, students only
// themselves, misses surface as not-found. A non-admin caller touching
// AssignedTeacherID gets the field dropped and an advisory warning back;
// nothing fails.
func (s *RosterService) UpdateStudent(claims *util.Claims, id uint, req StudentUpdateRequest) (*model.Student, string, error) {
	st, err := s.StudentRepo.FindByID(id, s.Visibility.StudentScope(claims))
	if err != nil {
		return nil, "", translateDBError(err)
	}

	warning := ""
	if req.AssignedTeacherID != nil {
		if s.Visibility.CanAssignTeacher(claims) {
			st.AssignedTeacherID = req.AssignedTeacherID
			st.AssignedTeacher = nil
		} else {
			warning = AssignedTeacherWarning
			logger.Log.Info("assigned_teacher change dropped for non-admin caller",
				zap.Uint("studentId", st.ID), zap.String("caller", claims.Username))
		}
	}

	if req.PhoneNumber != nil {
		st.PhoneNumber = *req.PhoneNumber
	}
	if req.Grade != nil {
		st.Grade = *req.Grade
	}
	if req.ClassName != nil {
		st.ClassName = *req.ClassName
	}
	if req.DateOfBirth != nil {
		birth, err := parseDate(*req.DateOfBirth)
		if err != nil {
			return nil, "", err
		}
		st.DateOfBirth = birth
	}
	if req.AdmissionDate != nil {
		admitted, err := parseDate(*req.AdmissionDate)
		if err != nil {
			return nil, "", err
		}
		st.AdmissionDate = admitted
	}
	if req.Status != nil {
		st.Status = *req.Status
	}
	if req.Email != nil {
		st.User.Email = *req.Email
	}
	if req.FirstName != nil {
		st.User.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		st.User.LastName = *req.LastName
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(st.User).Error; err != nil {
			return err
		}
		return tx.Omit("User", "AssignedTeacher").Save(st).Error
	})
	if err != nil {
		return nil, "", translateDBError(err)
	}
	return st, warning, nil
}

// DeleteStudent removes the student's attempts, the profile, then the
// owning user. The visibility scope decides who can reach the row;
// lookups outside it surface as not-found.
func (s *RosterService) DeleteStudent(claims *util.Claims, id uint) error {
	st, err := s.StudentRepo.FindByID(id, s.Visibility.StudentScope(claims))
	if err != nil {
		return translateDBError(err)
	}

	logger.Log.Warn("deleting student profile and owning user",
		zap.Uint("studentId", st.ID), zap.Uint("userId", st.UserID))

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var attemptIDs []uint
		if err := tx.Model(&model.ExamAttempt{}).
			Where("student_id = ?", st.ID).
			Pluck("id", &attemptIDs).Error; err != nil {
			return err
		}
		if len(attemptIDs) > 0 {
			if err := tx.Unscoped().Where("attempt_id IN ?", attemptIDs).
				Delete(&model.StudentAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Delete(&model.ExamAttempt{}, attemptIDs).Error; err != nil {
				return err
			}
		}
		// 硬删除：用户名、学号、邮箱必须可以重新注册
		if err := tx.Unscoped().Delete(&model.Student{}, st.ID).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.User{}, st.UserID).Error
	})
}
