package database

import (
	"fmt"
	"log"
	"school_admin_backend/internal/config"
	"school_admin_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// 唯一索引冲突需要统一转换为 gorm.ErrDuplicatedKey
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate runs AutoMigrate for every entity. The composite unique index
// on exam_attempts(student_id, exam_id) created here is what enforces
// the at-most-one-attempt rule under concurrent submissions.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Teacher{},
		&model.Student{},
		&model.Exam{},
		&model.Question{},
		&model.ExamAttempt{},
		&model.StudentAnswer{},
	)
}
