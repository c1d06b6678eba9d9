package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"school_admin_backend/internal/repository"
	"school_admin_backend/pkg/logger"

	"go.uber.org/zap"
)

// 批量导入学生时的初始密码，首次登录后应自行修改
const importDefaultPassword = "default123"

// 响应里最多回显的行错误条数，完整错误记入日志
const importMaxEchoedErrors = 10

var studentExportHeader = []string{
	"ID", "Username", "First Name", "Last Name", "Email",
	"Roll Number", "Class", "Grade", "Phone", "Assigned Teacher",
}

var teacherExportHeader = []string{
	"ID", "Username", "First Name", "Last Name", "Email",
	"Employee ID", "Specialization", "Phone", "Date of Joining",
}

// CsvService handles the admin-only tabular import/export surface.
type CsvService struct {
	StudentRepo *repository.StudentRepository
	TeacherRepo *repository.TeacherRepository
	Roster      *RosterService
}

func NewCsvService(studentRepo *repository.StudentRepository, teacherRepo *repository.TeacherRepository, roster *RosterService) *CsvService {
	return &CsvService{
		StudentRepo: studentRepo,
		TeacherRepo: teacherRepo,
		Roster:      roster,
	}
}

// ExportStudents streams all students as CSV with the fixed column order.
func (s *CsvService) ExportStudents(w io.Writer) error {
	students, err := s.StudentRepo.List()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(studentExportHeader); err != nil {
		return err
	}

	for _, st := range students {
		teacherName := "None"
		if st.AssignedTeacher != nil && st.AssignedTeacher.User != nil {
			teacherName = st.AssignedTeacher.User.FullName()
		}
		row := []string{
			strconv.FormatUint(uint64(st.ID), 10),
			st.User.Username,
			st.User.FirstName,
			st.User.LastName,
			st.User.Email,
			st.RollNumber,
			st.ClassName,
			st.Grade,
			st.PhoneNumber,
			teacherName,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportTeachers streams all teachers as CSV with the fixed column order.
func (s *CsvService) ExportTeachers(w io.Writer) error {
	teachers, err := s.TeacherRepo.List()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(teacherExportHeader); err != nil {
		return err
	}

	for _, t := range teachers {
		row := []string{
			strconv.FormatUint(uint64(t.ID), 10),
			t.User.Username,
			t.User.FirstName,
			t.User.LastName,
			t.User.Email,
			t.EmployeeID,
			t.SubjectSpecialization,
			t.PhoneNumber,
			t.DateOfJoining.Format(dateLayout),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type ImportResult struct {
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportStudents reads rows of named columns and creates one student per
// row. Rows fail independently: errors are collected and the batch
// completes. The response echoes at most importMaxEchoedErrors row errors.
func (s *CsvService) ImportStudents(r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	result := &ImportResult{}
	fail := func(msg string) {
		result.Failed++
		if len(result.Errors) < importMaxEchoedErrors {
			result.Errors = append(result.Errors, msg)
		} else {
			logger.Log.Warn("student CSV import row error", zap.String("error", msg))
		}
	}

	// 表头占第 1 行，数据从第 2 行开始计数
	for rowNum := 2; ; rowNum++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			fail(fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		req := StudentRequest{
			User: UserRequest{
				Username:  field(row, "username"),
				Email:     field(row, "email"),
				FirstName: field(row, "first_name"),
				LastName:  field(row, "last_name"),
				Password:  importDefaultPassword,
			},
			RollNumber:    field(row, "roll_number"),
			PhoneNumber:   field(row, "phone_number"),
			Grade:         field(row, "grade"),
			ClassName:     field(row, "class_name"),
			DateOfBirth:   field(row, "date_of_birth"),
			AdmissionDate: field(row, "admission_date"),
		}
		if raw := field(row, "assigned_teacher_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				fail(fmt.Sprintf("Row %d: invalid assigned_teacher_id %q", rowNum, raw))
				continue
			}
			tid := uint(id)
			req.AssignedTeacherID = &tid
		}

		if _, err := s.Roster.CreateStudent(req); err != nil {
			fail(fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Created++
	}

	logger.Log.Info("student CSV import finished",
		zap.Int("created", result.Created),
		zap.Int("failed", result.Failed))

	return result, nil
}
