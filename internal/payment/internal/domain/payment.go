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

package domain

type ChannelType int64

const (
	// ChannelTypeWechatNative 微信扫码支付
	ChannelTypeWechatNative ChannelType = 1
	// ChannelTypeWechatJSAPI 微信小程序/公众号支付
	ChannelTypeWechatJSAPI ChannelType = 2
)

func (c ChannelType) ToInt64() int64 {
	return int64(c)
}

type PaymentStatus int64

func (s PaymentStatus) ToInt64() int64 {
	return int64(s)
}

const (
	PaymentStatusUnpaid        PaymentStatus = 0
	PaymentStatusProcessing    PaymentStatus = 1
	PaymentStatusPaidSuccess   PaymentStatus = 2
	PaymentStatusPaidFailed    PaymentStatus = 3
	PaymentStatusRefund        PaymentStatus = 4
	PaymentStatusTimeoutClosed PaymentStatus = 5
)

type Payment struct {
	ID      int64
	SN      string
	PayerID int64
	OrderID int64
	OrderSN string
	// OrderDescription 订单的简要描述, 透传给支付渠道
	OrderDescription string
	Channel          ChannelType
	TotalAmount      int64
	// Deadline 支付截止时间, 超过该时间未支付的记录会被关单任务关闭
	Deadline int64
	PaidAt   int64
	Status   PaymentStatus
	// TxnID 支付渠道侧的交易流水号
	TxnID string
	Ctime int64
	Utime int64
}

// WechatPrepayResult 预支付的结果, Native渠道只有CodeURL,
// JSAPI渠道只有调起支付所需的那组参数
type WechatPrepayResult struct {
	CodeURL string
	JSAPI   WechatJSAPIPrepay
}

// WechatJSAPIPrepay 小程序端调起 wx.requestPayment 所需的参数
type WechatJSAPIPrepay struct {
	PrepayID  string
	AppID     string
	TimeStamp string
	NonceStr  string
	Package   string
	SignType  string
	PaySign   string
}
