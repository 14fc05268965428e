package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"trialbalance/config"
	"trialbalance/database"
	"trialbalance/logger"
	"trialbalance/middleware"
	"trialbalance/router"
	"trialbalance/service"

	"go.uber.org/zap"
)

// @title 试算平衡表导入 API
// @version 1.0
// @description 上传银行试算平衡表（xlsx），按银行和期间去重入库，支持查询、删除和导出
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
	tokenClient string
	mailTest    string
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
	flag.StringVar(&tokenClient, "token", "", "为指定调用方签发访问令牌后退出")
	flag.StringVar(&mailTest, "mail-test", "", "向指定地址发送测试邮件后退出")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("试算平衡表导入服务 v1.0.0")
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	// 初始化 JWT
	middleware.InitJWT(cfg)

	if tokenClient != "" {
		token, err := middleware.GenerateToken(tokenClient, cfg.JWT.ExpireTime)
		if err != nil {
			log.Fatalf("签发令牌失败: %v", err)
		}
		fmt.Println(token)
		return
	}

	emailService := service.NewEmailService(&cfg.Email)
	if mailTest != "" {
		if err := emailService.SendTestEmail(mailTest); err != nil {
			log.Fatalf("发送测试邮件失败: %v", err)
		}
		log.Printf("测试邮件已发送至 %s", mailTest)
		return
	}

	// 打印配置信息
	config.PrintConfig()

	l, err := logger.Init(cfg.Log)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库
	if err := database.Init(cfg); err != nil {
		l.Fatal("数据库初始化失败", zap.Error(err))
	}

	store := database.NewStore(database.GetDB())
	ingestor := service.NewIngestor(store, cfg.Ingest)
	ingestor.Metrics = service.NewMetrics(nil)
	ingestor.Notifier = emailService

	// 设置路由
	r := router.SetupRouter(cfg, store, ingestor, nil)

	l.Info("试算平衡表导入服务已启动",
		zap.String("api", "http://localhost"+cfg.Server.Port+"/api/v1/"),
		zap.String("swagger", "http://localhost"+cfg.Server.Port+"/swagger/index.html"),
		zap.String("metrics", "http://localhost"+cfg.Server.Port+"/metrics"))

	if err := r.Run(cfg.Server.Port); err != nil {
		l.Fatal("服务器启动失败", zap.Error(err))
	}
}
