package service

import (
	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/repository"
)

// StockShortage 单个商品的库存缺口
type StockShortage struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// StockValidator 结算前的库存预检。
// 预检通过不代表落库一定成功，最终以条件扣减为准。
type StockValidator struct {
	productRepo repository.ProductRepository
}

// NewStockValidator 创建库存校验器
func NewStockValidator(productRepo repository.ProductRepository) *StockValidator {
	return &StockValidator{productRepo: productRepo}
}

// Validate 校验购物车各行库存，返回全部缺口明细。
func (v *StockValidator) Validate(lines []models.CartLine) ([]StockShortage, error) {
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	products, err := v.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var shortages []StockShortage
	for _, line := range lines {
		product := byID[line.ProductID]
		if product == nil || !product.IsActive {
			name := ""
			if product != nil {
				name = product.Name
			}
			shortages = append(shortages, StockShortage{
				ProductID:   line.ProductID,
				ProductName: name,
				Requested:   line.Quantity,
				Available:   0,
			})
			continue
		}
		if line.Quantity > product.StockQuantity {
			shortages = append(shortages, StockShortage{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   line.Quantity,
				Available:   product.StockQuantity,
			})
		}
	}
	return shortages, nil
}
