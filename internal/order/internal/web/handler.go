// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package web

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mall/internal/order/internal/domain"
	"github.com/ecodeclub/mall/internal/order/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc   service.Service
	cache ecache.Cache
}

func NewHandler(svc service.Service, cache ecache.Cache) *Handler {
	return &Handler{svc: svc, cache: cache}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/order")
	g.POST("/create", ginx.BS[CreateOrderReq](h.Create))
	g.GET("/detail", ginx.S(h.Detail))
	g.GET("/lists", ginx.S(h.List))
	g.POST("/delete", ginx.BS[DeleteOrderReq](h.Delete))

	as := g.Group("/after_sales")
	as.POST("/apply", ginx.BS[ApplyAfterSaleReq](h.ApplyAfterSale))
	as.POST("/cancel", ginx.BS[CancelAfterSaleReq](h.CancelAfterSale))
	as.POST("/logistics", ginx.BS[ReturnLogisticsReq](h.FillReturnLogistics))
	as.POST("/resubmit", ginx.BS[ResubmitAfterSaleReq](h.ResubmitAfterSale))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

// Create 下单, 支持购物车勾选行和直接购买两种入口
func (h *Handler) Create(ctx *ginx.Context, req CreateOrderReq, sess session.Session) (ginx.Result, error) {
	if err := h.checkRequestID(ctx.Request.Context(), req.RequestID); err != nil {
		return systemErrorResult, fmt.Errorf("请求ID错误: %w", err)
	}

	order, err := h.svc.CreateOrder(ctx.Request.Context(), service.CreateOrderInput{
		BuyerID:     sess.Claims().Uid,
		IsFromCart:  req.IsFromCart,
		CartIDs:     req.CartIDs,
		CommodityID: req.CommodityID,
		Quantity:    req.Quantity,
		Attrs:       req.SKU,
		AddressID:   req.AddressID,
		Remark:      req.Remark,
	})
	if err != nil {
		return errResult(err), fmt.Errorf("创建订单失败: %w", err)
	}

	return ginx.Result{
		Data: CreateOrderResp{
			OrderID:         order.ID,
			OrderSN:         order.SN,
			TotalAmount:     order.TotalAmount,
			ActualPayAmount: order.ActualPayAmount,
		},
	}, nil
}

func (h *Handler) checkRequestID(ctx context.Context, requestID string) error {
	if requestID == "" {
		return fmt.Errorf("请求ID为空")
	}

	key := fmt.Sprintf("order:create:%s", requestID)
	val := h.cache.Get(ctx, key)
	if !val.KeyNotFound() {
		return fmt.Errorf("重复请求")
	}
	if err := h.cache.Set(ctx, key, requestID, 0); err != nil {
		return fmt.Errorf("缓存请求ID失败: %w", err)
	}
	return nil
}

func (h *Handler) Detail(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	var req DetailOrderReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		return invalidInputResult, err
	}
	order, err := h.svc.FindOrder(ctx.Request.Context(), req.OrderID, req.OrderSN, sess.Claims().Uid)
	if err != nil {
		return orderNotFoundResult, fmt.Errorf("订单未找到: %w", err)
	}
	return ginx.Result{
		Data: DetailOrderResp{Order: toOrderVO(order)},
	}, nil
}

func (h *Handler) List(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	var req ListOrdersReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		return invalidInputResult, err
	}
	query, err := toListQuery(req)
	if err != nil {
		return invalidInputResult, err
	}
	query.BuyerID = sess.Claims().Uid

	orders, total, err := h.svc.ListOrders(ctx.Request.Context(), query)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: toListResp(orders, total, query),
	}, nil
}

func (h *Handler) Delete(ctx *ginx.Context, req DeleteOrderReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.DeleteOrder(ctx.Request.Context(), req.OrderID, sess.Claims().Uid)
	if err != nil {
		return orderNotFoundResult, fmt.Errorf("删除订单失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) ApplyAfterSale(ctx *ginx.Context, req ApplyAfterSaleReq, sess session.Session) (ginx.Result, error) {
	wo, err := h.svc.ApplyAfterSale(ctx.Request.Context(), sess.Claims().Uid,
		req.SubOrderID, req.Type, req.Reason, req.ReturnType)
	if err != nil {
		return errResult(err), fmt.Errorf("申请售后失败: %w", err)
	}
	return ginx.Result{
		Data: ApplyAfterSaleResp{WorkOrderID: wo.ID, WorkOrderSN: wo.SN},
	}, nil
}

func (h *Handler) CancelAfterSale(ctx *ginx.Context, req CancelAfterSaleReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.CancelAfterSale(ctx.Request.Context(), sess.Claims().Uid, req.WorkOrderID)
	if err != nil {
		return errResult(err), fmt.Errorf("撤销售后失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) FillReturnLogistics(ctx *ginx.Context, req ReturnLogisticsReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.FillReturnLogistics(ctx.Request.Context(), sess.Claims().Uid,
		req.WorkOrderID, req.LogisticsCompany, req.LogisticsNo)
	if err != nil {
		return errResult(err), fmt.Errorf("回填退货物流失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) ResubmitAfterSale(ctx *ginx.Context, req ResubmitAfterSaleReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.ResubmitAfterSale(ctx.Request.Context(), sess.Claims().Uid,
		req.WorkOrderID, req.Type, req.Reason, req.ReturnType)
	if err != nil {
		return errResult(err), fmt.Errorf("重新提交售后失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func errResult(err error) ginx.Result {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		return orderNotFoundResult
	case errors.Is(err, service.ErrInvalidTransition):
		return invalidTransitionResult
	case errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrIncompleteSpecs),
		errors.Is(err, service.ErrInvalidAddress),
		errors.Is(err, service.ErrEmptySelection),
		errors.Is(err, service.ErrEmptyReason),
		errors.Is(err, service.ErrEmptyLogistics):
		return invalidInputResult
	default:
		return systemErrorResult
	}
}

func toListQuery(req ListOrdersReq) (domain.ListQuery, error) {
	payWay, err := parseFilter(req.PayWay)
	if err != nil {
		return domain.ListQuery{}, fmt.Errorf("pay_way非法: %w", err)
	}
	payStatus, err := parseFilter(req.PayStatus)
	if err != nil {
		return domain.ListQuery{}, fmt.Errorf("pay_status非法: %w", err)
	}
	page, size := req.Page, req.Size
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	return domain.ListQuery{
		Keyword:   req.Keyword,
		PayWay:    payWay,
		PayStatus: payStatus,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Offset:    (page - 1) * size,
		Limit:     size,
	}, nil
}

// parseFilter 空串表示不过滤
func parseFilter(val string) (int64, error) {
	if val == "" {
		return -1, nil
	}
	return strconv.ParseInt(val, 10, 64)
}

func toListResp(orders []domain.Order, total int64, query domain.ListQuery) ListOrdersResp {
	size := query.Limit
	lastPage := int((total + int64(size) - 1) / int64(size))
	return ListOrdersResp{
		CurrentPage: query.Offset/size + 1,
		LastPage:    lastPage,
		PerPage:     size,
		Total:       total,
		Lists: slice.Map(orders, func(idx int, src domain.Order) Order {
			return toOrderVO(src)
		}),
	}
}

func toOrderVO(order domain.Order) Order {
	return Order{
		ID:              order.ID,
		SN:              order.SN,
		TotalAmount:     order.TotalAmount,
		DiscountAmount:  order.DiscountAmount,
		ActualPayAmount: order.ActualPayAmount,
		PayStatus:       order.PayStatus.ToUint8(),
		PayWay:          order.PayWay,
		PayTime:         order.PayTime,
		DeliveryTime:    order.DeliveryTime,
		ReceiverName:    order.Receiver.Name,
		ReceiverPhone:   order.Receiver.Phone,
		ReceiverAddress: order.Receiver.Address,
		Remark:          order.Remark,
		CreateTime:      order.Ctime,
		GoodsList: slice.Map(order.Items, func(idx int, src domain.OrderItem) OrderGoodsItem {
			return OrderGoodsItem{
				SubOrderID:       src.ID,
				CommodityID:      src.SPUID,
				Title:            src.Name,
				Image:            src.Image,
				Price:            src.Price,
				Quantity:         src.Quantity,
				SKU:              src.Attrs,
				DeliveryStatus:   src.DeliveryStatus.ToUint8(),
				LogisticsCompany: src.LogisticsCompany,
				LogisticsNo:      src.LogisticsNo,
				Status:           src.AfterSaleStatus.ToUint8(),
				WorkOrderID:      src.WorkOrderID,
			}
		}),
	}
}
