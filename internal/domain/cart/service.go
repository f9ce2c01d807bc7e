// internal/domain/cart/service.go
package cart

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/labuuit/backend/internal/config"
	"github.com/labuuit/backend/internal/domain/product"
	"github.com/labuuit/backend/internal/pkg/apperror"
)

// Service handles cart business logic. Cart writes for one user are
// serialized through a per-user lock so concurrent requests cannot read the
// same cart state and overwrite each other's changes.
type Service struct {
	db     *gorm.DB
	config *config.Config
	locks  sync.Map // userID -> *sync.Mutex
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{db: db, config: cfg}
}

// AddItemRequest represents the payload for adding a product to the cart
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateItemRequest represents the payload for setting an item quantity.
// Quantity is a pointer so an absent field binds as invalid rather than
// as an implicit removal.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// ItemView is a cart line joined with current product display data. Price
// stays the snapshot taken when the item was added.
type ItemView struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Image     string  `json:"image"`
	ImageAlt  string  `json:"image_alt"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// View is the API representation of a cart
type View struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	Items      []ItemView `json:"items"`
	TotalPrice float64    `json:"total_price"`
}

func (s *Service) userLock(userID uint) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// GetCart returns the user's cart, creating an empty one on first access
func (s *Service) GetCart(userID uint) (*View, error) {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	cart, err := s.loadOrCreate(s.db, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(cart)
}

// AddToCart adds a product to the user's cart. Adding a product already in
// the cart increments its quantity; the stored price snapshot is kept.
func (s *Service) AddToCart(userID uint, req *AddItemRequest) (*View, error) {
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	var cart *Cart
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var p product.Product
		if err := tx.Where("id = ?", req.ProductID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("product not found")
			}
			return apperror.Internal(err)
		}

		var err error
		cart, err = s.loadOrCreate(tx, userID)
		if err != nil {
			return err
		}

		merged := false
		for i := range cart.Items {
			if cart.Items[i].ProductID == req.ProductID {
				cart.Items[i].Quantity += quantity
				if err := tx.Model(&cart.Items[i]).Update("quantity", cart.Items[i].Quantity).Error; err != nil {
					return apperror.Internal(err)
				}
				merged = true
				break
			}
		}
		if !merged {
			item := CartItem{
				CartID:    cart.ID,
				ProductID: req.ProductID,
				Quantity:  quantity,
				Price:     p.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return apperror.Internal(err)
			}
			cart.Items = append(cart.Items, item)
		}

		return s.persistTotal(tx, cart)
	})
	if err != nil {
		return nil, apperror.From(err)
	}
	return s.buildView(cart)
}

// UpdateItemQuantity sets the exact quantity of a cart line. The line must
// exist; once located, a quantity of zero or less removes it.
func (s *Service) UpdateItemQuantity(userID, productID uint, quantity int) (*View, error) {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	var cart *Cart
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = s.load(tx, userID)
		if err != nil {
			return err
		}

		idx := -1
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return apperror.NotFound("item not in cart")
		}

		if quantity <= 0 {
			if err := tx.Delete(&CartItem{}, cart.Items[idx].ID).Error; err != nil {
				return apperror.Internal(err)
			}
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		} else {
			cart.Items[idx].Quantity = quantity
			if err := tx.Model(&cart.Items[idx]).Update("quantity", quantity).Error; err != nil {
				return apperror.Internal(err)
			}
		}

		return s.persistTotal(tx, cart)
	})
	if err != nil {
		return nil, apperror.From(err)
	}
	return s.buildView(cart)
}

// RemoveItem removes a product from the cart. Removing a product that is not
// in the cart is a no-op.
func (s *Service) RemoveItem(userID, productID uint) (*View, error) {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	var cart *Cart
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = s.load(tx, userID)
		if err != nil {
			return err
		}

		kept := cart.Items[:0]
		removed := false
		for _, item := range cart.Items {
			if item.ProductID == productID {
				if err := tx.Delete(&CartItem{}, item.ID).Error; err != nil {
					return apperror.Internal(err)
				}
				removed = true
				continue
			}
			kept = append(kept, item)
		}
		cart.Items = kept
		if !removed {
			return nil
		}

		return s.persistTotal(tx, cart)
	})
	if err != nil {
		return nil, apperror.From(err)
	}
	return s.buildView(cart)
}

// ClearCart removes every item from the cart. The cart row itself is kept.
func (s *Service) ClearCart(userID uint) (*View, error) {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	var cart *Cart
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = s.load(tx, userID)
		if err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&CartItem{}).Error; err != nil {
			return apperror.Internal(err)
		}
		cart.Items = nil

		return s.persistTotal(tx, cart)
	})
	if err != nil {
		return nil, apperror.From(err)
	}
	return s.buildView(cart)
}

func (s *Service) load(tx *gorm.DB, userID uint) (*Cart, error) {
	var cart Cart
	err := tx.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("cart not found")
		}
		return nil, apperror.Internal(err)
	}
	return &cart, nil
}

func (s *Service) loadOrCreate(tx *gorm.DB, userID uint) (*Cart, error) {
	cart, err := s.load(tx, userID)
	if err == nil {
		return cart, nil
	}
	if !apperror.IsKind(err, apperror.KindNotFound) {
		return nil, err
	}

	fresh := Cart{UserID: userID}
	if createErr := tx.Create(&fresh).Error; createErr != nil {
		return nil, apperror.Internal(createErr)
	}
	return &fresh, nil
}

func (s *Service) persistTotal(tx *gorm.DB, cart *Cart) error {
	cart.RecomputeTotal()
	if err := tx.Model(&Cart{}).Where("id = ?", cart.ID).Update("total_price", cart.TotalPrice).Error; err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// buildView joins cart lines with current product display data. A line whose
// product has since been deleted is still shown with its stored price.
func (s *Service) buildView(cart *Cart) (*View, error) {
	view := &View{
		ID:         cart.ID,
		UserID:     cart.UserID,
		Items:      make([]ItemView, 0, len(cart.Items)),
		TotalPrice: cart.TotalPrice,
	}
	if len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]uint, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	var products []product.Product
	if err := s.db.Preload("Images").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	byID := make(map[uint]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, item := range cart.Items {
		iv := ItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Subtotal:  item.Price * float64(item.Quantity),
		}
		if p, ok := byID[item.ProductID]; ok {
			iv.Name = p.Name
			iv.Slug = p.Slug
			if img := p.PrimaryImage(); img != nil {
				iv.Image = img.URL
				iv.ImageAlt = img.AltText
			}
		}
		view.Items = append(view.Items, iv)
	}
	return view, nil
}
