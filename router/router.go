package router

import (
	"net/http"

	"trialbalance/api"
	"trialbalance/config"
	"trialbalance/database"
	_ "trialbalance/docs"
	"trialbalance/logger"
	"trialbalance/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
// gatherer 为 nil 时 /metrics 使用默认注册表
func SetupRouter(cfg *config.Config, repo database.Repository, ingester api.Ingester, gatherer prometheus.Gatherer) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger.L()))

	// CORS 中间件
	r.Use(CORSMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Prometheus 指标
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	uploadHandler := api.NewUploadHandler(ingester, cfg.Ingest.MaxUploadMB)
	fileHandler := api.NewFileHandler(repo)
	documentHandler := api.NewDocumentHandler(repo)
	exportHandler := api.NewExportHandler(repo, cfg.Ingest.CategoryMarker)
	categoryHandler := api.NewCategoryHandler(repo)

	// API v1 路由组，全部需要 JWT 认证
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth())
	{
		// 上传（按 IP 限流）
		v1.POST("/uploads", middleware.RateLimit(cfg.Ingest.UploadRateLimit, cfg.Ingest.UploadRateWindow), uploadHandler.Upload)

		// 源文件
		files := v1.Group("/files")
		{
			files.GET("", fileHandler.List)
			files.GET("/:id/download", fileHandler.Download)
		}

		// 对账单
		documents := v1.Group("/documents")
		{
			documents.GET("", documentHandler.List)
			documents.GET("/:id", documentHandler.Get)
			documents.DELETE("/:id", documentHandler.Delete)
			documents.GET("/:id/export/excel", exportHandler.ExportExcel)
			documents.GET("/:id/export/csv", exportHandler.ExportCSV)
		}

		// 类别
		v1.GET("/categories", categoryHandler.List)
		v1.DELETE("/categories/:id", categoryHandler.Delete)
	}

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
