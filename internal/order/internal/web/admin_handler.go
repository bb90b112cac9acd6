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
	"fmt"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/mall/internal/order/internal/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler 管理端订单操作, 挂在独立的管理服务上
type AdminHandler struct {
	svc service.Service
}

func NewAdminHandler(svc service.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/finance/order")
	g.GET("/lists", ginx.W(h.List))
	g.GET("/detail", ginx.W(h.Detail))
	g.POST("/delivery", ginx.B[DeliverReq](h.Deliver))
	g.POST("/after_sales/handle", ginx.B[HandleAfterSaleReq](h.HandleAfterSale))
}

func (h *AdminHandler) PublicRoutes(_ *gin.Engine) {}

func (h *AdminHandler) List(ctx *ginx.Context) (ginx.Result, error) {
	var req ListOrdersReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		return invalidInputResult, err
	}
	query, err := toListQuery(req)
	if err != nil {
		return invalidInputResult, err
	}

	orders, total, err := h.svc.ListOrders(ctx.Request.Context(), query)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: toListResp(orders, total, query),
	}, nil
}

func (h *AdminHandler) Detail(ctx *ginx.Context) (ginx.Result, error) {
	var req DetailOrderReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		return invalidInputResult, err
	}
	order, err := h.svc.FindOrder(ctx.Request.Context(), req.OrderID, req.OrderSN, 0)
	if err != nil {
		return orderNotFoundResult, fmt.Errorf("订单未找到: %w", err)
	}
	return ginx.Result{
		Data: DetailOrderResp{Order: toOrderVO(order)},
	}, nil
}

// Deliver 子订单发货
func (h *AdminHandler) Deliver(ctx *ginx.Context, req DeliverReq) (ginx.Result, error) {
	err := h.svc.DeliverOrderItem(ctx.Request.Context(), req.SubOrderID,
		req.LogisticsCompany, req.LogisticsNo)
	if err != nil {
		return errResult(err), fmt.Errorf("发货失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *AdminHandler) HandleAfterSale(ctx *ginx.Context, req HandleAfterSaleReq) (ginx.Result, error) {
	var err error
	switch req.Action {
	case "agree":
		err = h.svc.AgreeAfterSale(ctx.Request.Context(), req.WorkOrderID)
	case "refuse":
		err = h.svc.RefuseAfterSale(ctx.Request.Context(), req.WorkOrderID, req.RefuseReason)
	case "confirm":
		err = h.svc.ConfirmAfterSale(ctx.Request.Context(), req.WorkOrderID)
	default:
		return invalidInputResult, fmt.Errorf("未知的售后处理动作: %s", req.Action)
	}
	if err != nil {
		return errResult(err), fmt.Errorf("处理售后失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}
