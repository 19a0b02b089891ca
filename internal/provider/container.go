package provider

import (
	"github.com/craftmart-shop/internal/authz"
	"github.com/craftmart-shop/internal/cache"
	"github.com/craftmart-shop/internal/config"
	"github.com/craftmart-shop/internal/logger"
	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/payment"
	"github.com/craftmart-shop/internal/payment/paypal"
	"github.com/craftmart-shop/internal/queue"
	"github.com/craftmart-shop/internal/repository"
	"github.com/craftmart-shop/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Gateway     payment.Gateway

	// Repositories
	AdminRepo    repository.AdminRepository
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	CartRepo     repository.CartRepository
	AddressRepo  repository.AddressRepository
	OrderRepo    repository.OrderRepository
	PaymentRepo  repository.PaymentRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	UserAuthService *service.UserAuthService
	EmailService    *service.EmailService
	CaptchaService  *service.CaptchaService
	CategoryService *service.CategoryService
	ProductService  *service.ProductService
	CartService     *service.CartService
	AddressService  *service.AddressService
	OrderService    *service.OrderService
	PaymentService  *service.PaymentService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	gateway, err := paypal.NewClient(paypal.Config{
		Mode:     c.Config.Payment.PayPal.Mode,
		Currency: c.Config.Payment.PayPal.Currency,
	})
	if err != nil {
		logger.Errorw("provider_init_paypal_failed", "error", err)
		panic(err)
	}
	c.Gateway = gateway

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CartService = service.NewCartService(c.Config, c.CartRepo, c.ProductRepo)
	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.OrderService = service.NewOrderService(
		c.Config,
		c.OrderRepo,
		c.ProductRepo,
		c.CartRepo,
		c.AddressRepo,
		c.PaymentRepo,
		gateway,
		c.QueueClient,
	)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo)
}
