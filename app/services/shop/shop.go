package shop

import (
	"context"
	stderrors "errors"
	"strings"

	"VenueHub/app/common/consts/errno"
	"VenueHub/app/dal/mongox"
	orderdal "VenueHub/app/dal/order"
	"VenueHub/app/dal/shop"
	venuesvc "VenueHub/app/services/venue"

	"github.com/zeromicro/x/errors"
)

const maxLineQuantity = 99

type Service struct {
	products shop.ProductModel
	baskets  shop.BasketModel
	orders   orderdal.OrderModel
	venues   *venuesvc.Service
}

func NewService(products shop.ProductModel, baskets shop.BasketModel, orders orderdal.OrderModel, venues *venuesvc.Service) *Service {
	return &Service{products: products, baskets: baskets, orders: orders, venues: venues}
}

type ProductReq struct {
	Name        string
	Description string
	PriceCents  int64
	Currency    string
	Stock       int64
}

func (s *Service) CreateProduct(ctx context.Context, actor venuesvc.Actor, venueID string, req ProductReq) (*shop.Product, error) {
	v, err := s.venues.Manageable(ctx, venueID, actor)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || req.PriceCents <= 0 || req.Stock < 0 {
		return nil, errors.New(errno.InvalidParam, "product needs a name, a positive price and non-negative stock")
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "usd"
	}
	p := &shop.Product{
		VenueID:     v.ID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		PriceCents:  req.PriceCents,
		Currency:    currency,
		Stock:       req.Stock,
		Active:      true,
	}
	if err := s.products.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context, venueID string, page, size int64) ([]*shop.Product, int64, error) {
	v, err := s.venues.Get(ctx, venueID)
	if err != nil {
		return nil, 0, err
	}
	return s.products.FindPageByVenue(ctx, v.ID, page, size)
}

func (s *Service) GetBasket(ctx context.Context, userID string) (*shop.Basket, error) {
	uid, err := mongox.ObjectID(userID)
	if err != nil {
		return nil, errors.New(errno.InvalidToken, "invalid caller")
	}
	return s.baskets.FindOrCreateOpen(ctx, uid)
}

// AddItem sets the quantity of productID in the caller's open basket. A
// basket only holds products of a single venue.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int64) (*shop.Basket, error) {
	if quantity <= 0 || quantity > maxLineQuantity {
		return nil, errors.New(errno.InvalidParam, "quantity must be within 1-99")
	}
	p, err := s.products.FindOne(ctx, productID)
	if stderrors.Is(err, shop.ErrNotFound) || stderrors.Is(err, shop.ErrInvalidObjectId) {
		return nil, errors.New(errno.ProductNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	if !p.Active || p.Stock < quantity {
		return nil, errors.New(errno.ProductUnavailable, "product is unavailable in that quantity")
	}

	b, err := s.GetBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(b.Items) > 0 && b.VenueID != p.VenueID {
		return nil, errors.New(errno.InvalidParam, "basket already holds products from another venue")
	}

	b.VenueID = p.VenueID
	b.Currency = p.Currency
	line := shop.BasketItem{ProductID: p.ID, Name: p.Name, Quantity: quantity, UnitPriceCents: p.PriceCents}
	replaced := false
	for i := range b.Items {
		if b.Items[i].ProductID == p.ID {
			b.Items[i] = line
			replaced = true
		}
	}
	if !replaced {
		b.Items = append(b.Items, line)
	}
	if err := s.baskets.SaveItems(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*shop.Basket, error) {
	b, err := s.GetBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := b.Items[:0]
	for _, it := range b.Items {
		if it.ProductID.Hex() != productID {
			items = append(items, it)
		}
	}
	b.Items = items
	if err := s.baskets.SaveItems(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// PricedBasket loads basketID and checks it belongs to userID and can be
// paid for.
func (s *Service) PricedBasket(ctx context.Context, userID, basketID string) (*shop.Basket, error) {
	b, err := s.baskets.FindOne(ctx, basketID)
	if stderrors.Is(err, shop.ErrNotFound) || stderrors.Is(err, shop.ErrInvalidObjectId) {
		return nil, errors.New(errno.BasketNotFound, "basket not found")
	}
	if err != nil {
		return nil, err
	}
	if b.UserID.Hex() != userID {
		return nil, errors.New(errno.BasketForbidden, "basket belongs to another user")
	}
	if len(b.Items) == 0 || b.Total() <= 0 {
		return nil, errors.New(errno.BasketEmpty, "basket is empty")
	}
	return b, nil
}

func (s *Service) ListOrders(ctx context.Context, userID string, page, size int64) ([]*orderdal.Order, int64, error) {
	uid, err := mongox.ObjectID(userID)
	if err != nil {
		return nil, 0, errors.New(errno.InvalidToken, "invalid caller")
	}
	return s.orders.FindPageByUser(ctx, uid, page, size)
}

func (s *Service) GetOrder(ctx context.Context, actor venuesvc.Actor, id string) (*orderdal.Order, error) {
	o, err := s.orders.FindOne(ctx, id)
	if stderrors.Is(err, orderdal.ErrNotFound) || stderrors.Is(err, orderdal.ErrInvalidObjectId) {
		return nil, errors.New(errno.OrderNotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && o.UserID.Hex() != actor.UserID {
		return nil, errors.New(errno.OrderNotFound, "order not found")
	}
	return o, nil
}
