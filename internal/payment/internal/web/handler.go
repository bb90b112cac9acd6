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
	"errors"
	"fmt"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mall/internal/payment/internal/domain"
	"github.com/ecodeclub/mall/internal/payment/internal/service"
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
	g := server.Group("/payment")
	g.POST("/prepay", ginx.BS[PrepayReq](h.Prepay))
	g.GET("/check_pay_status", ginx.S(h.CheckPayStatus))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) Prepay(ctx *ginx.Context, req PrepayReq, sess session.Session) (ginx.Result, error) {
	res, err := h.svc.Prepay(ctx.Request.Context(), service.PrepayInput{
		OrderID: req.OrderID,
		PayerID: sess.Claims().Uid,
		Channel: domain.ChannelType(req.PayWay),
		OpenID:  req.Openid,
	})
	if err != nil {
		return errResult(err), fmt.Errorf("预支付失败: %w", err)
	}
	return ginx.Result{Data: toPrepayResp(res)}, nil
}

// CheckPayStatus 买家支付完成(或放弃)后回到订单页时调用,
// 以服务端向微信的查单结果为准, 客户端感知到的支付结果不可信
func (h *Handler) CheckPayStatus(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	var req CheckPayStatusReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		return invalidOrderResult, fmt.Errorf("解析查询参数失败: %w", err)
	}
	paid, err := h.svc.CheckPayStatus(ctx.Request.Context(), req.OrderID, sess.Claims().Uid)
	if err != nil {
		return errResult(err), fmt.Errorf("查询支付状态失败: %w", err)
	}
	return ginx.Result{Data: CheckPayStatusResp{Paid: paid}}, nil
}

func toPrepayResp(res domain.WechatPrepayResult) PrepayResp {
	if res.CodeURL != "" {
		return PrepayResp{CodeURL: res.CodeURL}
	}
	return PrepayResp{
		PrepayID:  res.JSAPI.PrepayID,
		AppID:     res.JSAPI.AppID,
		TimeStamp: res.JSAPI.TimeStamp,
		NonceStr:  res.JSAPI.NonceStr,
		Package:   res.JSAPI.Package,
		SignType:  res.JSAPI.SignType,
		PaySign:   res.JSAPI.PaySign,
	}
}

func errResult(err error) ginx.Result {
	switch {
	case errors.Is(err, service.ErrPaymentNotFound):
		return paymentNotFoundResult
	case errors.Is(err, service.ErrOrderNotPayable),
		errors.Is(err, service.ErrUnknownChannel):
		return invalidOrderResult
	default:
		return systemErrorResult
	}
}
