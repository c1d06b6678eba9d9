// 初始化管理员账号脚本
//
// 在空库上创建首个 admin 用户，已存在同名用户时直接退出。
//
// 用法: go run scripts/seed_admin.go [-username admin] [-password ...]

package main

import (
	"errors"
	"flag"
	"log"

	"school_admin_backend/internal/config"
	"school_admin_backend/internal/model"
	"school_admin_backend/internal/service"
	"school_admin_backend/pkg/database"
	"school_admin_backend/pkg/logger"

	"gorm.io/gorm"
)

func main() {
	username := flag.String("username", "admin", "管理员用户名")
	password := flag.String("password", "", "管理员初始密码（必填）")
	email := flag.String("email", "admin@school-admin.local", "管理员邮箱")
	flag.Parse()

	if *password == "" {
		log.Fatal("必须通过 -password 指定初始密码")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	// 空库上先建表
	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	var existing model.User
	err = db.Where("username = ?", *username).First(&existing).Error
	if err == nil {
		log.Printf("用户 %s 已存在 (id=%d)，跳过创建", *username, existing.ID)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("查询用户失败: %v", err)
	}

	hashed, err := service.HashPassword(*password)
	if err != nil {
		log.Fatalf("密码加密失败: %v", err)
	}

	admin := model.User{
		Username: *username,
		Email:    *email,
		Password: hashed,
		Role:     model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("创建管理员失败: %v", err)
	}

	log.Printf("管理员 %s 创建成功 (id=%d)", admin.Username, admin.ID)
}
