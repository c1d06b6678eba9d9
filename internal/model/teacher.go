package model

import "time"

// Teacher is the roster profile owning a User with role=teacher.
// Deleting a Teacher also deletes the owning User (explicit two-step
// delete in the roster service, not a database cascade).
// swagger:model Teacher
type Teacher struct {
	BaseModel
	UserID                uint      `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	User                  *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EmployeeID            string    `gorm:"size:20;unique;not null" json:"employeeId"`
	PhoneNumber           string    `gorm:"size:15" json:"phoneNumber"`
	SubjectSpecialization string    `gorm:"size:100" json:"subjectSpecialization"`
	DateOfJoining         time.Time `gorm:"type:date" json:"dateOfJoining"`
	Status                int       `gorm:"default:0" json:"status"`
}

func (Teacher) TableName() string {
	return "teachers"
}
