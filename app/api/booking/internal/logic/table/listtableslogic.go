// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"

	"VenueHub/app/api/booking/internal/svc"
	"VenueHub/app/api/booking/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListTablesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListTablesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListTablesLogic {
	return &ListTablesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListTablesLogic) ListTables(req *types.IdPath) (resp *types.TableListResponse, err error) {
	tables, err := l.svcCtx.Tables.ListTables(l.ctx, req.Id)
	if err != nil {
		return nil, err
	}
	return &types.TableListResponse{Tables: tables}, nil
}
