package model

// ExamQuestionCount is the fixed size of every exam's question set,
// enforced on create and on full question-set replacement.
const ExamQuestionCount = 5

// swagger:model Exam
type Exam struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Subject     string     `gorm:"size:100;not null" json:"subject"`
	TargetClass string     `gorm:"size:10;default:'1'" json:"targetClass"`
	TeacherID   *uint      `gorm:"index;type:bigint unsigned" json:"teacherId"`
	Teacher     *Teacher   `gorm:"foreignKey:TeacherID;constraint:OnDelete:SET NULL" json:"teacher,omitempty"`
	CreatedByID uint       `gorm:"index;type:bigint unsigned" json:"createdById"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID" json:"-"`
	Questions   []Question `gorm:"foreignKey:ExamID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

// Question is a four-option multiple choice item. CorrectOption holds
// the designator "1".."4"; grading compares the submitted answer against
// this code, never against the option text.
// swagger:model Question
type Question struct {
	BaseModel
	ExamID        uint   `gorm:"index;type:bigint unsigned;not null" json:"examId"`
	QuestionText  string `gorm:"type:text;not null" json:"questionText"`
	Option1       string `gorm:"size:255;not null" json:"option1"`
	Option2       string `gorm:"size:255;not null" json:"option2"`
	Option3       string `gorm:"size:255;not null" json:"option3"`
	Option4       string `gorm:"size:255;not null" json:"option4"`
	CorrectOption string `gorm:"size:1;not null" json:"correctOption"`
}

func (Question) TableName() string {
	return "questions"
}
