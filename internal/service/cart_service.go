package service

import (
	"strings"
	"time"

	"github.com/craftmart-shop/internal/config"
	"github.com/craftmart-shop/internal/logger"
	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartIdentity 购物车归属：登录用户 UserID 或游客 SessionID，二选一。
type CartIdentity struct {
	UserID    uint
	SessionID string
}

// IsGuest 是否游客身份
func (id CartIdentity) IsGuest() bool {
	return id.UserID == 0
}

// AddCartItemInput 加购输入
type AddCartItemInput struct {
	Identity  CartIdentity
	ProductID uint
	Quantity  int
}

// UpdateCartLineInput 更新购物车行输入
type UpdateCartLineInput struct {
	Identity CartIdentity
	LineID   uint
	Quantity int
}

// CartService 购物车服务
type CartService struct {
	cfg         *config.Config
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cfg *config.Config, cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cfg:         cfg,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// NewGuestSessionID 生成游客会话标识
func NewGuestSessionID() string {
	return uuid.NewString()
}

// GetOrCreate 按身份取购物车，不存在则创建。
// 游客购物车带过期时间，每次访问顺延。
func (s *CartService) GetOrCreate(identity CartIdentity) (*models.Cart, error) {
	cart, err := s.find(identity)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		if cart.IsGuest() {
			if err := s.touchGuestExpiry(cart); err != nil {
				return nil, err
			}
		}
		return cart, nil
	}
	return s.create(identity)
}

// Get 按身份取购物车，不存在时返回空购物车视图（不落库）。
func (s *CartService) Get(identity CartIdentity) (*models.Cart, error) {
	cart, err := s.find(identity)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return s.emptyView(identity), nil
	}
	return cart, nil
}

// AddItem 加购。同一商品重复加购时数量合并，单价保留首次加入时的快照。
func (s *CartService) AddItem(input AddCartItemInput) (*models.Cart, error) {
	if input.ProductID == 0 || input.Quantity <= 0 {
		return nil, ErrQuantityInvalid
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotAvailable
	}

	cart, err := s.GetOrCreate(input.Identity)
	if err != nil {
		return nil, err
	}

	line, err := s.cartRepo.GetLine(cart.ID, input.ProductID)
	if err != nil {
		return nil, err
	}
	requested := input.Quantity
	if line != nil {
		requested += line.Quantity
	}
	if requested > product.StockQuantity {
		return nil, ErrInsufficientStock
	}

	if line != nil {
		if err := s.cartRepo.UpdateLineQuantity(line.ID, requested); err != nil {
			return nil, err
		}
	} else {
		newLine := &models.CartLine{
			CartID:    cart.ID,
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
			UnitPrice: product.Price,
		}
		if err := s.cartRepo.CreateLine(newLine); err != nil {
			return nil, err
		}
	}

	return s.refresh(cart.ID)
}

// UpdateLine 更新购物车行数量。数量为 0 时移除该行。
func (s *CartService) UpdateLine(input UpdateCartLineInput) (*models.Cart, error) {
	if input.Quantity < 0 {
		return nil, ErrQuantityInvalid
	}
	cart, err := s.find(input.Identity)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartLineNotFound
	}
	line, err := s.cartRepo.GetLineByID(cart.ID, input.LineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, ErrCartLineNotFound
	}

	if input.Quantity == 0 {
		if err := s.cartRepo.DeleteLine(line.ID); err != nil {
			return nil, err
		}
		return s.refresh(cart.ID)
	}

	product, err := s.productRepo.GetByID(line.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotAvailable
	}
	if input.Quantity > product.StockQuantity {
		return nil, ErrInsufficientStock
	}
	if err := s.cartRepo.UpdateLineQuantity(line.ID, input.Quantity); err != nil {
		return nil, err
	}
	return s.refresh(cart.ID)
}

// RemoveLine 移除购物车行
func (s *CartService) RemoveLine(identity CartIdentity, lineID uint) (*models.Cart, error) {
	cart, err := s.find(identity)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartLineNotFound
	}
	line, err := s.cartRepo.GetLineByID(cart.ID, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, ErrCartLineNotFound
	}
	if err := s.cartRepo.DeleteLine(line.ID); err != nil {
		return nil, err
	}
	return s.refresh(cart.ID)
}

// Clear 清空购物车
func (s *CartService) Clear(identity CartIdentity) error {
	cart, err := s.find(identity)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	if err := s.cartRepo.DeleteLines(cart.ID); err != nil {
		return err
	}
	_, err = s.refresh(cart.ID)
	return err
}

// MergeGuestCart 登录后把游客购物车并入用户购物车。
// 同一商品数量相加并截断到当前库存；游客购物车随后删除。
func (s *CartService) MergeGuestCart(userID uint, sessionID string) (*models.Cart, error) {
	sessionID = strings.TrimSpace(sessionID)
	if userID == 0 || sessionID == "" {
		return s.find(CartIdentity{UserID: userID})
	}
	guestCart, err := s.cartRepo.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if guestCart == nil || len(guestCart.Lines) == 0 {
		if guestCart != nil {
			if err := s.cartRepo.Delete(guestCart.ID); err != nil {
				return nil, err
			}
		}
		return s.find(CartIdentity{UserID: userID})
	}

	userCart, err := s.GetOrCreate(CartIdentity{UserID: userID})
	if err != nil {
		return nil, err
	}

	for _, guestLine := range guestCart.Lines {
		product, err := s.productRepo.GetByID(guestLine.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive || product.StockQuantity <= 0 {
			continue
		}
		existing, err := s.cartRepo.GetLine(userCart.ID, guestLine.ProductID)
		if err != nil {
			return nil, err
		}
		quantity := guestLine.Quantity
		if existing != nil {
			quantity += existing.Quantity
		}
		if quantity > product.StockQuantity {
			quantity = product.StockQuantity
		}
		if existing != nil {
			if err := s.cartRepo.UpdateLineQuantity(existing.ID, quantity); err != nil {
				return nil, err
			}
			continue
		}
		if err := s.cartRepo.CreateLine(&models.CartLine{
			CartID:    userCart.ID,
			ProductID: guestLine.ProductID,
			Quantity:  quantity,
			UnitPrice: guestLine.UnitPrice,
		}); err != nil {
			return nil, err
		}
	}

	if err := s.cartRepo.Delete(guestCart.ID); err != nil {
		return nil, err
	}
	logger.Infow("guest_cart_merged",
		"user_id", userID,
		"guest_cart_id", guestCart.ID,
		"guest_lines", len(guestCart.Lines),
	)
	return s.refresh(userCart.ID)
}

// CleanupExpiredGuestCarts 删除过期游客购物车，返回清理数量。
func (s *CartService) CleanupExpiredGuestCarts(before time.Time, limit int) (int, error) {
	ids, err := s.cartRepo.ListExpiredGuestIDs(before, limit)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, id := range ids {
		if err := s.cartRepo.Delete(id); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *CartService) find(identity CartIdentity) (*models.Cart, error) {
	if identity.UserID != 0 {
		return s.cartRepo.GetByUserID(identity.UserID)
	}
	sessionID := strings.TrimSpace(identity.SessionID)
	if sessionID == "" {
		return nil, nil
	}
	return s.cartRepo.GetBySessionID(sessionID)
}

func (s *CartService) create(identity CartIdentity) (*models.Cart, error) {
	cart := &models.Cart{}
	if identity.UserID != 0 {
		userID := identity.UserID
		cart.UserID = &userID
	} else {
		sessionID := strings.TrimSpace(identity.SessionID)
		if sessionID == "" {
			sessionID = NewGuestSessionID()
		}
		cart.SessionID = &sessionID
		expiresAt := time.Now().Add(s.guestTTL())
		cart.ExpiresAt = &expiresAt
	}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) emptyView(identity CartIdentity) *models.Cart {
	cart := &models.Cart{
		TotalAmount: models.NewMoneyFromDecimal(decimal.Zero),
		Lines:       []models.CartLine{},
	}
	if identity.UserID != 0 {
		userID := identity.UserID
		cart.UserID = &userID
	} else if sessionID := strings.TrimSpace(identity.SessionID); sessionID != "" {
		cart.SessionID = &sessionID
	}
	return cart
}

// refresh 重算派生字段并返回最新购物车。
func (s *CartService) refresh(cartID uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByID(cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, gorm.ErrRecordNotFound
	}
	total := decimal.Zero
	items := 0
	for _, line := range cart.Lines {
		total = total.Add(line.UnitPrice.MulQuantity(line.Quantity).Decimal)
		items += line.Quantity
	}
	expiresAt := cart.ExpiresAt
	if cart.IsGuest() {
		refreshed := time.Now().Add(s.guestTTL())
		expiresAt = &refreshed
	}
	if err := s.cartRepo.UpdateDerived(cart.ID, models.NewMoneyFromDecimal(total), items, expiresAt); err != nil {
		return nil, err
	}
	cart.TotalAmount = models.NewMoneyFromDecimal(total)
	cart.TotalItems = items
	cart.ExpiresAt = expiresAt
	return cart, nil
}

func (s *CartService) touchGuestExpiry(cart *models.Cart) error {
	expiresAt := time.Now().Add(s.guestTTL())
	if err := s.cartRepo.UpdateDerived(cart.ID, cart.TotalAmount, cart.TotalItems, &expiresAt); err != nil {
		return err
	}
	cart.ExpiresAt = &expiresAt
	return nil
}

func (s *CartService) guestTTL() time.Duration {
	hours := 72
	if s.cfg != nil && s.cfg.Cart.GuestTTLHours > 0 {
		hours = s.cfg.Cart.GuestTTLHours
	}
	return time.Duration(hours) * time.Hour
}
