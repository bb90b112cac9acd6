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

package wechat

import (
	"context"
	"fmt"
	"time"

	"github.com/ecodeclub/mall/internal/payment/internal/domain"
	"github.com/gotomicro/ego/core/elog"
	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/jsapi"
)

//go:generate mockgen -source=./jsapi.go -package=wechatmocks -destination=./mocks/jsapi.mock.go -typed JSAPIService
type JSAPIService interface {
	PrepayWithRequestPayment(ctx context.Context, req jsapi.PrepayRequest) (resp *jsapi.PrepayWithRequestPaymentResponse, result *core.APIResult, err error)
	QueryOrderByOutTradeNo(ctx context.Context, req jsapi.QueryOrderByOutTradeNoRequest) (resp *payments.Transaction, result *core.APIResult, err error)
}

type JSAPIPaymentService struct {
	svc JSAPIService
	basePaymentService
}

func NewJSAPIPaymentService(svc JSAPIService, appid, mchid, notifyURL string) *JSAPIPaymentService {
	return &JSAPIPaymentService{
		svc: svc,
		basePaymentService: basePaymentService{
			l:         elog.DefaultLogger,
			name:      domain.ChannelTypeWechatJSAPI,
			desc:      "微信小程序",
			appID:     appid,
			mchID:     mchid,
			notifyURL: notifyURL,
		},
	}
}

// Prepay 返回小程序端调起 wx.requestPayment 所需的参数,
// openid 由小程序端随预支付请求一并上送
func (n *JSAPIPaymentService) Prepay(ctx context.Context, pmt domain.Payment, openID string) (domain.WechatJSAPIPrepay, error) {
	if pmt.TotalAmount == 0 {
		return domain.WechatJSAPIPrepay{}, fmt.Errorf("缺少微信支付金额信息")
	}
	if openID == "" {
		return domain.WechatJSAPIPrepay{}, fmt.Errorf("缺少支付者的 openid")
	}

	resp, _, err := n.svc.PrepayWithRequestPayment(ctx,
		jsapi.PrepayRequest{
			Appid:       core.String(n.appID),
			Mchid:       core.String(n.mchID),
			Description: core.String(pmt.OrderDescription),
			OutTradeNo:  core.String(pmt.OrderSN),
			TimeExpire:  core.Time(time.UnixMilli(pmt.Deadline)),
			NotifyUrl:   core.String(n.notifyURL),
			Amount: &jsapi.Amount{
				Currency: core.String("CNY"),
				Total:    core.Int64(pmt.TotalAmount),
			},
			Payer: &jsapi.Payer{Openid: core.String(openID)},
		},
	)
	if err != nil {
		return domain.WechatJSAPIPrepay{}, fmt.Errorf("微信预支付失败: %w", err)
	}

	return domain.WechatJSAPIPrepay{
		PrepayID:  *resp.PrepayId,
		AppID:     *resp.Appid,
		TimeStamp: *resp.TimeStamp,
		NonceStr:  *resp.NonceStr,
		Package:   *resp.Package,
		SignType:  *resp.SignType,
		PaySign:   *resp.PaySign,
	}, nil
}

// QueryOrderBySN 主动向微信查单
func (n *JSAPIPaymentService) QueryOrderBySN(ctx context.Context, orderSN string) (domain.Payment, error) {
	txn, _, err := n.svc.QueryOrderByOutTradeNo(ctx, jsapi.QueryOrderByOutTradeNoRequest{
		OutTradeNo: core.String(orderSN),
		Mchid:      core.String(n.mchID),
	})
	if err != nil {
		return domain.Payment{}, err
	}

	status, err := GetPaymentStatus(*txn.TradeState)
	if err != nil {
		return domain.Payment{}, err
	}
	return n.convertToPaymentDomain(txn, status), nil
}
