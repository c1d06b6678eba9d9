package app

import (
	"school_admin_backend/docs"
	"school_admin_backend/internal/middleware"
	"school_admin_backend/internal/model"
	"school_admin_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
		public.POST("/password-reset", c.reset.RequestReset)
		public.POST("/password-reset-confirm/:token", c.reset.ConfirmReset)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 教师档案：创建/更新/删除仅管理员，查看按角色过滤
		teachers := authGroup.Group("/teachers")
		{
			teachers.GET("", c.teacher.ListTeachers)
			teachers.GET("/:id", c.teacher.GetTeacher)
			teachers.GET("/:id/students", middleware.RoleMiddleware(model.RoleAdmin), c.teacher.TeacherStudents)
			teachers.POST("", middleware.RoleMiddleware(model.RoleAdmin), c.teacher.CreateTeacher)
			teachers.PUT("/:id", middleware.RoleMiddleware(model.RoleAdmin), c.teacher.UpdateTeacher)
			teachers.DELETE("/:id", middleware.RoleMiddleware(model.RoleAdmin), c.teacher.DeleteTeacher)
		}

		// 教师端本人档案
		self := authGroup.Group("/teacher/me")
		self.Use(middleware.RoleMiddleware(model.RoleTeacher))
		{
			self.GET("", c.teacher.GetSelf)
			self.PUT("", c.teacher.UpdateSelf)
		}

		// 学生档案：更新/删除由服务层可见范围决定（范围外 404），
		// assigned_teacher 字段仅管理员可改
		students := authGroup.Group("/students")
		{
			students.GET("", c.student.ListStudents)
			students.GET("/:id", c.student.GetStudent)
			students.POST("", middleware.RoleMiddleware(model.RoleTeacher), c.student.CreateStudent)
			students.PUT("/:id", c.student.UpdateStudent)
			students.DELETE("/:id", c.student.DeleteStudent)
		}

		// 考试与答卷
		exams := authGroup.Group("/exams")
		{
			exams.GET("", c.exam.ListExams)
			exams.GET("/:id", c.exam.GetExam)
			exams.GET("/:id/questions", c.exam.ListQuestions)
			exams.POST("", middleware.RoleMiddleware(model.RoleTeacher), c.exam.CreateExam)
			exams.PUT("/:id", middleware.RoleMiddleware(model.RoleTeacher), c.exam.UpdateExam)
			exams.DELETE("/:id", middleware.RoleMiddleware(model.RoleTeacher), c.exam.DeleteExam)
			exams.POST("/:id/attend", middleware.RoleMiddleware(model.RoleStudent), c.exam.Attend)
			exams.GET("/my-marks", middleware.RoleMiddleware(model.RoleStudent), c.exam.MyMarks)
		}

		authGroup.GET("/student-exams", c.exam.ListAttempts)
	}

	// 3. 管理员数据导入导出
	adminGroup := router.Group("/api")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(model.RoleAdmin))
	{
		adminGroup.GET("/export/students", c.csv.ExportStudents)
		adminGroup.GET("/export/teachers", c.csv.ExportTeachers)
		adminGroup.POST("/import/students", c.csv.ImportStudents)
	}
}
