package logic

import (
	"VenueHub/app/api/booking/internal/logic/helper"
	"VenueHub/app/api/booking/internal/types"
	activitysvc "VenueHub/app/services/activity"
)

func toActivityReq(req *types.ActivityRequest) (activitysvc.ActivityReq, error) {
	start, err := helper.ParseTime("startTime", req.StartTime, false)
	if err != nil {
		return activitysvc.ActivityReq{}, err
	}
	end, err := helper.ParseTime("endTime", req.EndTime, false)
	if err != nil {
		return activitysvc.ActivityReq{}, err
	}
	return activitysvc.ActivityReq{
		ParentID:    req.ParentId,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		StartTime:   start,
		EndTime:     end,
		Currency:    req.Currency,
		Status:      req.Status,
	}, nil
}
