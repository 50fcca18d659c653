package handler

import (
	"net/http"

	activity "VenueHub/app/api/booking/internal/handler/activity"
	affiliate "VenueHub/app/api/booking/internal/handler/affiliate"
	deal "VenueHub/app/api/booking/internal/handler/deal"
	payment "VenueHub/app/api/booking/internal/handler/payment"
	shop "VenueHub/app/api/booking/internal/handler/shop"
	table "VenueHub/app/api/booking/internal/handler/table"
	user "VenueHub/app/api/booking/internal/handler/user"
	venue "VenueHub/app/api/booking/internal/handler/venue"
	"VenueHub/app/api/booking/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

const maxUploadBytes = 11 << 20

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/users/register",
				Handler: user.RegisterUserHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/users/login",
				Handler: user.LoginUserHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/users/password/setup",
				Handler: user.RequestPasswordSetupHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/users/password",
				Handler: user.SetPasswordHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/venues",
				Handler: venue.ListVenuesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/venues/:id",
				Handler: venue.GetVenueHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/venues/:id/activities",
				Handler: activity.ListActivitiesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/venues/:id/tables",
				Handler: table.ListTablesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/venues/:id/products",
				Handler: shop.ListProductsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/activities/:id",
				Handler: activity.GetActivityHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/affiliates/click/:code",
				Handler: affiliate.TrackClickHandler(serverCtx),
			},
		},
		rest.WithPrefix("/api"),
	)

	server.AddRoutes(
		rest.WithMiddlewares(
			[]rest.Middleware{serverCtx.AuthMiddleware},
			[]rest.Route{
				{
					Method:  http.MethodGet,
					Path:    "/users/me",
					Handler: user.GetProfileHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/users/logout",
					Handler: user.LogoutUserHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/tables/:id/reservations",
					Handler: table.ReserveTableHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/reservations/me",
					Handler: table.MyReservationsHandler(serverCtx),
				},
				{
					Method:  http.MethodDelete,
					Path:    "/reservations/:id",
					Handler: table.CancelReservationHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/basket",
					Handler: shop.GetBasketHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/basket/items",
					Handler: shop.AddBasketItemHandler(serverCtx),
				},
				{
					Method:  http.MethodDelete,
					Path:    "/basket/items/:productId",
					Handler: shop.RemoveBasketItemHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/orders",
					Handler: shop.ListOrdersHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/orders/:id",
					Handler: shop.GetOrderHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/deals/validate",
					Handler: deal.ValidateDealHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/affiliates",
					Handler: affiliate.CreateAffiliateHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/affiliates/me",
					Handler: affiliate.MyAffiliateHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/affiliates/commissions",
					Handler: affiliate.ListCommissionsHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/payments/intent",
					Handler: payment.CreatePaymentIntentHandler(serverCtx),
				},
			}...,
		),
		rest.WithPrefix("/api"),
	)

	server.AddRoutes(
		rest.WithMiddlewares(
			[]rest.Middleware{serverCtx.AuthMiddleware, serverCtx.CasbinMiddleware},
			[]rest.Route{
				{
					Method:  http.MethodPost,
					Path:    "/admin/venues",
					Handler: venue.CreateVenueHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/admin/venues/:id",
					Handler: venue.GetManagedVenueHandler(serverCtx),
				},
				{
					Method:  http.MethodPut,
					Path:    "/admin/venues/:id",
					Handler: venue.UpdateVenueHandler(serverCtx),
				},
				{
					Method:  http.MethodDelete,
					Path:    "/admin/venues/:id",
					Handler: venue.DeleteVenueHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/admin/venues/:id/reservations",
					Handler: table.VenueReservationsHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/admin/activities",
					Handler: activity.CreateActivityHandler(serverCtx),
				},
				{
					Method:  http.MethodPut,
					Path:    "/admin/activities/:id",
					Handler: activity.UpdateActivityHandler(serverCtx),
				},
				{
					Method:  http.MethodDelete,
					Path:    "/admin/activities/:id",
					Handler: activity.DeleteActivityHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/admin/activities/:id/schedules",
					Handler: activity.AddScheduleHandler(serverCtx),
				},
				{
					Method:  http.MethodDelete,
					Path:    "/admin/activities/:id/schedules/:scheduleId",
					Handler: activity.RemoveScheduleHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/admin/tables",
					Handler: table.CreateTableHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/admin/products",
					Handler: shop.CreateProductHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/admin/deals",
					Handler: deal.ListDealsHandler(serverCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/admin/deals",
					Handler: deal.CreateDealHandler(serverCtx),
				},
				{
					Method:  http.MethodPut,
					Path:    "/admin/users/:id/role",
					Handler: user.UpdateUserRoleHandler(serverCtx),
				},
			}...,
		),
		rest.WithPrefix("/api"),
	)

	server.AddRoutes(
		rest.WithMiddlewares(
			[]rest.Middleware{serverCtx.AuthMiddleware, serverCtx.CasbinMiddleware},
			rest.Route{
				Method:  http.MethodPost,
				Path:    "/admin/activities/:id/media",
				Handler: activity.UploadMediaHandler(serverCtx),
			},
		),
		rest.WithPrefix("/api"),
		rest.WithMaxBytes(maxUploadBytes),
	)

	// Stripe signs the raw body, so the webhook stays outside /api and its
	// middlewares.
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/stripe-webhook",
				Handler: payment.StripeWebhookHandler(serverCtx),
			},
		},
	)
}
