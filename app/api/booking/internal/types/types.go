package types

import (
	activitydal "VenueHub/app/dal/activity"
	affiliatedal "VenueHub/app/dal/affiliate"
	dealdal "VenueHub/app/dal/deal"
	orderdal "VenueHub/app/dal/order"
	shopdal "VenueHub/app/dal/shop"
	tabledal "VenueHub/app/dal/table"
	userdal "VenueHub/app/dal/user"
	venuedal "VenueHub/app/dal/venue"
)

type IdPath struct {
	Id string `path:"id"`
}

type PageQuery struct {
	Page int64 `form:"page,optional"`
	Size int64 `form:"size,optional"`
}

type StatusResponse struct {
	Success bool `json:"success"`
}

// users

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,optional"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PasswordSetupRequest struct {
	Email string `json:"email"`
}

type SetPasswordRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

type SessionResponse struct {
	User         *userdal.User `json:"user"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresIn    int64         `json:"expiresIn"`
}

type UpdateRoleRequest struct {
	Id   string `path:"id"`
	Role string `json:"role"`
}

// venues

type ListVenuesRequest struct {
	City string `form:"city,optional"`
	Page int64  `form:"page,optional"`
	Size int64  `form:"size,optional"`
}

type VenueRequest struct {
	Id          string `path:"id,optional"`
	Name        string `json:"name"`
	Slug        string `json:"slug,optional"`
	City        string `json:"city,optional"`
	Address     string `json:"address,optional"`
	Description string `json:"description,optional"`
}

type VenueListResponse struct {
	Venues []*venuedal.Venue `json:"venues"`
	Total  int64             `json:"total"`
}

// activities

type ListActivitiesRequest struct {
	Id   string `path:"id"`
	Page int64  `form:"page,optional"`
	Size int64  `form:"size,optional"`
}

type ActivityListResponse struct {
	Activities []*activitydal.Activity `json:"activities"`
	Total      int64                   `json:"total"`
}

type ActivityRequest struct {
	Id          string `path:"id,optional"`
	VenueId     string `json:"venueId,optional"`
	ParentId    string `json:"parentId,optional"`
	Title       string `json:"title"`
	Description string `json:"description,optional"`
	Category    string `json:"category,optional"`
	StartTime   string `json:"startTime,optional"`
	EndTime     string `json:"endTime,optional"`
	Currency    string `json:"currency,optional"`
	Status      string `json:"status,optional"`
}

type ScheduleRequest struct {
	Id         string `path:"id"`
	StartsAt   string `json:"startsAt"`
	EndsAt     string `json:"endsAt,optional"`
	Capacity   int    `json:"capacity"`
	PriceCents int64  `json:"priceCents"`
}

type RemoveScheduleRequest struct {
	Id         string `path:"id"`
	ScheduleId string `path:"scheduleId"`
}

// tables

type CreateTableRequest struct {
	VenueId string `json:"venueId"`
	Name    string `json:"name"`
	Seats   int64  `json:"seats"`
}

type TableListResponse struct {
	Tables []*tabledal.Table `json:"tables"`
}

type ReserveRequest struct {
	Id        string `path:"id"`
	Slot      string `json:"slot"`
	PartySize int64  `json:"partySize"`
}

type VenueReservationsRequest struct {
	Id   string `path:"id"`
	From string `form:"from,optional"`
	To   string `form:"to,optional"`
}

type ReservationListResponse struct {
	Reservations []*tabledal.Reservation `json:"reservations"`
}

// shop

type ListProductsRequest struct {
	Id   string `path:"id"`
	Page int64  `form:"page,optional"`
	Size int64  `form:"size,optional"`
}

type ProductListResponse struct {
	Products []*shopdal.Product `json:"products"`
	Total    int64              `json:"total"`
}

type CreateProductRequest struct {
	VenueId     string `json:"venueId"`
	Name        string `json:"name"`
	Description string `json:"description,optional"`
	PriceCents  int64  `json:"priceCents"`
	Currency    string `json:"currency,optional"`
	Stock       int64  `json:"stock,optional"`
}

type AddBasketItemRequest struct {
	ProductId string `json:"productId"`
	Quantity  int64  `json:"quantity,default=1"`
}

type RemoveBasketItemRequest struct {
	ProductId string `path:"productId"`
}

type OrderListResponse struct {
	Orders []*orderdal.Order `json:"orders"`
	Total  int64             `json:"total"`
}

// deals

type CreateDealRequest struct {
	Code        string `json:"code"`
	VenueId     string `json:"venueId,optional"`
	Kind        string `json:"kind"`
	AmountOff   int64  `json:"amountOff,optional"`
	PercentOff  int64  `json:"percentOff,optional"`
	MaxDiscount int64  `json:"maxDiscount,optional"`
	MinSpend    int64  `json:"minSpend,optional"`
	StartsAt    string `json:"startsAt,optional"`
	EndsAt      string `json:"endsAt,optional"`
	UsageLimit  int64  `json:"usageLimit,optional"`
}

type DealListResponse struct {
	Deals []*dealdal.DiscountCode `json:"deals"`
	Total int64                   `json:"total"`
}

type ValidateDealRequest struct {
	Code    string `json:"code"`
	Amount  int64  `json:"amount"`
	VenueId string `json:"venueId,optional"`
}

// affiliates

type CodePath struct {
	Code string `path:"code"`
}

type TrackClickResponse struct {
	Counted bool `json:"counted"`
}

type CommissionListResponse struct {
	Commissions []*affiliatedal.Commission `json:"commissions"`
	Total       int64                      `json:"total"`
}

// payments

type PaymentIntentRequest struct {
	IdempotencyKey string `header:"Idempotency-Key,optional"`
	Kind           string `json:"kind"`
	ActivityId     string `json:"activityId,optional"`
	ScheduleId     string `json:"scheduleId,optional"`
	Quantity       int64  `json:"quantity,default=1"`
	BasketId       string `json:"basketId,optional"`
	DiscountCode   string `json:"discountCode,optional"`
	AffiliateCode  string `json:"affiliateCode,optional"`
}

type PaymentIntentResponse struct {
	PaymentIntentId string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	OriginalPrice   int64  `json:"originalPrice"`
	DiscountAmount  int64  `json:"discountAmount"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}
