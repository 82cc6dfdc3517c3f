package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/config"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/controller"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/middleware"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/repository"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/router"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/service"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/task"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/pkg/cache"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/pkg/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	// 1. 加载配置
	cfg := config.Load()

	if cfg.JWTSecret != "" {
		jwtCfg := middleware.DefaultJWTConfig()
		jwtCfg.SecretKey = cfg.JWTSecret
		middleware.SetJWTConfig(jwtCfg)
	}

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db)

	// 4. 启动定时任务
	initTasks(deps)

	// 5. 初始化路由
	r := gin.Default()
	router.InitRoutes(r,
		deps.Controllers.Auth,
		deps.Controllers.Order,
		deps.Controllers.Product,
		deps.Controllers.Category,
		deps.Controllers.Dashboard,
	)

	// 6. 启动服务
	startServer(r, cfg.ServerPort)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Snapshots   cache.SnapshotCache
	Repos       *Repositories
	Services    *Services
	Controllers *Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Order    repository.OrderDocumentRepository
	Product  repository.ProductRepository
	Seller   repository.SellerRepository
	Category repository.CategoryRepository
}

// Services 服务集合
type Services struct {
	Order    *service.OrderService
	Product  *service.ProductService
	Seller   *service.SellerService
	Category *service.CategoryService
	Storage  *service.StorageService
}

// Controllers 控制器集合
type Controllers struct {
	Auth      *controller.AuthController
	Order     *controller.OrderController
	Product   *controller.ProductController
	Category  *controller.CategoryController
	Dashboard *controller.DashboardController
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(cfg.DBDriver, cfg.DBDSN,
		&model.Seller{},
		&model.OrderDocument{},
		&model.ProductDocument{}, &model.SellerProduct{}, &model.SellerProductSummary{},
		&model.Category{}, &model.Subcategory{}, &model.SubUnderCategory{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Order:    repository.NewOrderDocumentRepository(db),
		Product:  repository.NewProductRepository(db),
		Seller:   repository.NewSellerRepository(db),
		Category: repository.NewCategoryRepository(db),
	}

	// -------- 快照缓存 --------
	snapshots, err := cache.New(&cache.Config{
		Provider:      cfg.CacheProvider,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	if err != nil {
		log.Printf("警告: 缓存初始化失败, 回退内存缓存: %v", err)
		snapshots = cache.NewMemoryCache()
	}

	// -------- 存储服务 --------
	storageSvc := initStorageService(cfg)

	// -------- 业务服务 --------
	services := &Services{
		Order:    service.NewOrderService(repos.Order, snapshots),
		Product:  service.NewProductService(repos.Product, repos.Seller, repos.Category),
		Seller:   service.NewSellerService(repos.Seller),
		Category: service.NewCategoryService(repos.Category),
		Storage:  storageSvc,
	}

	// -------- Controller 层 --------
	controllers := &Controllers{
		Auth:      controller.NewAuthController(services.Seller),
		Order:     controller.NewOrderController(services.Order),
		Product:   controller.NewProductController(services.Product, services.Storage),
		Category:  controller.NewCategoryController(services.Category),
		Dashboard: controller.NewDashboardController(services.Order, services.Product),
	}

	return &Dependencies{
		DB:          db,
		Snapshots:   snapshots,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initStorageService 初始化存储服务
func initStorageService(cfg *config.Config) *service.StorageService {
	storageCfg := &service.StorageConfig{
		Provider:  cfg.StorageProvider,
		Bucket:    cfg.StorageBucket,
		Region:    cfg.StorageRegion,
		AccessKey: cfg.StorageAccess,
		SecretKey: cfg.StorageSecret,
		CDNDomain: cfg.StorageCDN,
		BasePath:  cfg.StorageBasePath,
	}
	if cfg.StorageProvider == "local" {
		storageCfg.BasePath = cfg.StorageLocalDir
	}

	storageSvc, err := service.NewStorageService(storageCfg)
	if err != nil {
		log.Fatalf("存储服务初始化失败: %v", err)
	}
	return storageSvc
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	janitor := task.NewCacheJanitorTask(deps.Snapshots, "")
	if err := janitor.Start(); err != nil {
		log.Printf("警告: 快照清理任务启动失败: %v", err)
		return
	}
	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}
