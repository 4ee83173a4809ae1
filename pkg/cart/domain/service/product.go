package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"healthcare/pkg/cart/domain/model"
	"healthcare/pkg/common/domain"
)

var ErrInvalidProduct = errors.WithMessage(domain.ErrInvalidInput, "product name is required and stock cannot be negative")

// errUnchanged stops executeOnProduct before the store when an action has
// nothing to write.
var errUnchanged = errors.New("product unchanged")

type ProductService interface {
	CreateProduct(name, description string, priceCents int64, initialStock int) (*model.Product, error)
	GetProduct(productID uuid.UUID) (*model.Product, error)
	ListProducts() ([]model.Product, error)
	ChangeProductPrice(productID uuid.UUID, newPriceCents int64) error
	ReceiveStock(productID uuid.UUID, quantity int) error
	SetAvailability(productID uuid.UUID, available bool) error
	ArchiveProduct(productID uuid.UUID) error
}

func NewProductService(repo model.ProductRepository, dispatcher domain.EventDispatcher) ProductService {
	return &productService{repo: repo, dispatcher: dispatcher}
}

type productService struct {
	repo       model.ProductRepository
	dispatcher domain.EventDispatcher
}

func (s *productService) CreateProduct(name, description string, priceCents int64, initialStock int) (*model.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" || initialStock < 0 {
		return nil, ErrInvalidProduct
	}
	if priceCents < 0 {
		return nil, model.ErrNegativePrice
	}

	productID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:            productID,
		Name:          name,
		Description:   description,
		PriceCents:    priceCents,
		StockQuantity: initialStock,
		Status:        model.Available,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	dispatchEvents(s.dispatcher, model.ProductCreated{ProductID: productID, Name: name})
	return product, nil
}

func (s *productService) GetProduct(productID uuid.UUID) (*model.Product, error) {
	return s.repo.Find(productID)
}

func (s *productService) ListProducts() ([]model.Product, error) {
	return s.repo.List()
}

func (s *productService) ChangeProductPrice(productID uuid.UUID, newPriceCents int64) error {
	if newPriceCents < 0 {
		return model.ErrNegativePrice
	}

	var oldPrice int64
	err := s.executeOnProduct(productID, func(p *model.Product) error {
		if p.Status == model.Archived {
			return model.ErrProductNotAvailable
		}
		oldPrice = p.PriceCents
		p.PriceCents = newPriceCents
		return nil
	})
	if err != nil {
		return err
	}

	dispatchEvents(s.dispatcher, model.ProductPriceChanged{
		ProductID:     productID,
		OldPriceCents: oldPrice,
		NewPriceCents: newPriceCents,
	})
	return nil
}

// ReceiveStock adds delivered units; it is the only stock increase that does
// not come from a cart.
func (s *productService) ReceiveStock(productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}

	var newQuantity int
	err := s.executeOnProduct(productID, func(p *model.Product) error {
		if p.Status == model.Archived {
			return model.ErrProductNotAvailable
		}
		p.Release(quantity)
		newQuantity = p.StockQuantity
		return nil
	})
	if err != nil {
		return err
	}

	dispatchEvents(s.dispatcher, model.ProductStockChanged{
		ProductID:    productID,
		ChangeAmount: quantity,
		NewQuantity:  newQuantity,
	})
	return nil
}

func (s *productService) SetAvailability(productID uuid.UUID, available bool) error {
	status := model.Unavailable
	if available {
		status = model.Available
	}
	return s.changeStatus(productID, status)
}

func (s *productService) ArchiveProduct(productID uuid.UUID) error {
	return s.changeStatus(productID, model.Archived)
}

func (s *productService) changeStatus(productID uuid.UUID, newStatus model.ProductStatus) error {
	var oldStatus model.ProductStatus
	err := s.executeOnProduct(productID, func(p *model.Product) error {
		oldStatus = p.Status
		if oldStatus == newStatus {
			return errUnchanged
		}
		if oldStatus == model.Archived {
			return model.ErrProductNotAvailable
		}
		p.Status = newStatus
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}

	dispatchEvents(s.dispatcher, model.ProductStatusChanged{
		ProductID: productID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	})
	return nil
}

func (s *productService) executeOnProduct(productID uuid.UUID, action func(p *model.Product) error) error {
	return retryOnConflict(func() error {
		product, err := s.repo.Find(productID)
		if err != nil {
			return err
		}

		if err := action(product); err != nil {
			return err
		}

		return updateProduct(s.repo, product)
	})
}

func updateProduct(repo model.ProductRepository, product *model.Product) error {
	product.Version++
	product.UpdatedAt = time.Now().UTC()
	return repo.Update(product)
}

// maxUpdateAttempts bounds how often a read-modify-write on a product is
// replayed after losing an optimistic lock.
const maxUpdateAttempts = 3

func retryOnConflict(operation func() error) error {
	var err error
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err = operation()
		if !errors.Is(err, model.ErrProductConflict) {
			return err
		}
		log.WithField("attempt", attempt).Warn("product modified concurrently, retrying")
	}
	return err
}
