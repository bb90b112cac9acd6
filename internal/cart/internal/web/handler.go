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

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mall/internal/cart/internal/domain"
	"github.com/ecodeclub/mall/internal/cart/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/cart")
	g.POST("/add", ginx.BS[AddCartItemReq](h.Add))
	g.POST("/update_quantity", ginx.BS[UpdateQuantityReq](h.UpdateQuantity))
	g.POST("/select", ginx.BS[SelectReq](h.Select))
	g.POST("/delete", ginx.BS[DeleteReq](h.Delete))
	g.POST("/clear", ginx.S(h.Clear))
	g.GET("/lists", ginx.S(h.List))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

// Add 加入购物车, 同SKU重复加购合并数量
func (h *Handler) Add(ctx *ginx.Context, req AddCartItemReq, sess session.Session) (ginx.Result, error) {
	id, err := h.svc.Add(ctx.Request.Context(), sess.Claims().Uid, req.CommodityID, req.Quantity, req.SKU)
	if err != nil {
		return systemErrorResult, fmt.Errorf("加入购物车失败: %w", err)
	}
	return ginx.Result{Data: AddCartItemResp{ID: id}}, nil
}

func (h *Handler) UpdateQuantity(ctx *ginx.Context, req UpdateQuantityReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.UpdateQuantity(ctx.Request.Context(), sess.Claims().Uid, req.ID, req.Quantity)
	if err != nil {
		return systemErrorResult, fmt.Errorf("修改数量失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) Select(ctx *ginx.Context, req SelectReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.UpdateSelected(ctx.Request.Context(), sess.Claims().Uid, req.IDs, req.Selected)
	if err != nil {
		return systemErrorResult, fmt.Errorf("修改勾选失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) Delete(ctx *ginx.Context, req DeleteReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.Delete(ctx.Request.Context(), sess.Claims().Uid, req.IDs)
	if err != nil {
		return systemErrorResult, fmt.Errorf("删除购物车行失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) Clear(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	err := h.svc.Clear(ctx.Request.Context(), sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, fmt.Errorf("清空购物车失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) List(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	items, err := h.svc.List(ctx.Request.Context(), sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListCartResp{
			Items: slice.Map(items, func(idx int, src domain.CartItem) CartItem {
				return CartItem{
					ID:          src.ID,
					CommodityID: src.SPUID,
					Title:       src.Name,
					Image:       src.Image,
					Price:       src.Price,
					Stock:       src.Stock,
					Quantity:    src.Quantity,
					SKU:         src.Attrs,
					IsSelected:  src.Selected,
				}
			}),
		},
	}, nil
}
