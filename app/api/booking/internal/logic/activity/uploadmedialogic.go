// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"
	"mime/multipart"

	"VenueHub/app/api/booking/internal/logic/helper"
	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/common/consts/errno"
	activitydal "VenueHub/app/dal/activity"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
)

type UploadMediaLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewUploadMediaLogic(ctx context.Context, svcCtx *svc.ServiceContext) *UploadMediaLogic {
	return &UploadMediaLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *UploadMediaLogic) UploadMedia(activityID string, fh *multipart.FileHeader) (resp *activitydal.Media, err error) {
	actor, err := helper.Actor(l.ctx)
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errors.New(errno.InvalidParam, "unreadable upload")
	}
	defer f.Close()

	return l.svcCtx.Activities.AttachMedia(l.ctx, actor, activityID, fh.Filename, fh.Header.Get("Content-Type"), fh.Size, f)
}
