package logic

import (
	"VenueHub/app/api/booking/internal/types"
	venuesvc "VenueHub/app/services/venue"
)

func toVenueReq(req *types.VenueRequest) venuesvc.VenueReq {
	return venuesvc.VenueReq{
		Name:        req.Name,
		Slug:        req.Slug,
		City:        req.City,
		Address:     req.Address,
		Description: req.Description,
	}
}
