package repository

import (
	"github.com/laced-shop/laced-backend/internal/app/model"
	"github.com/laced-shop/laced-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	FindAll() ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindVariantByID(id uint) (*model.ProductVariant, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Variants").Order("id").Find(&products).Error
	if err != nil {
		logger.Error("Failed to list products from database", err, nil)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Variants").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindVariantByID is the catalog lookup contract used by the cart and
// checkout pipeline: variant plus its product (for the current price).
func (r *productRepository) FindVariantByID(id uint) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := r.db.Preload("Product").First(&variant, id).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}
