package model

import "time"

// Student is the roster profile owning a User with role=student.
// AssignedTeacher is a non-owning association: removing the teacher
// nulls the reference instead of deleting the student.
// swagger:model Student
type Student struct {
	BaseModel
	UserID            uint      `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	User              *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RollNumber        string    `gorm:"size:20;unique;not null" json:"rollNumber"`
	ClassName         string    `gorm:"size:50;default:'1'" json:"className"`
	Grade             string    `gorm:"size:20" json:"grade"`
	PhoneNumber       string    `gorm:"size:15" json:"phoneNumber"`
	DateOfBirth       time.Time `gorm:"type:date" json:"dateOfBirth"`
	AdmissionDate     time.Time `gorm:"type:date" json:"admissionDate"`
	Status            int       `gorm:"default:0" json:"status"`
	AssignedTeacherID *uint     `gorm:"index;type:bigint unsigned" json:"assignedTeacherId"`
	AssignedTeacher   *Teacher  `gorm:"foreignKey:AssignedTeacherID;constraint:OnDelete:SET NULL" json:"assignedTeacher,omitempty"`
}

func (Student) TableName() string {
	return "students"
}
