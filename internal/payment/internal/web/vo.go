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

type PrepayReq struct {
	OrderID int64 `json:"order_id"`
	// PayWay 1=微信扫码 2=微信小程序
	PayWay int64 `json:"pay_way"`
	// Openid 小程序支付时必传
	Openid string `json:"openid"`
}

type PrepayResp struct {
	// CodeURL 扫码支付的二维码内容, 仅扫码支付返回
	CodeURL string `json:"code_url,omitempty"`
	// 以下为小程序调起支付的参数, 仅小程序支付返回
	PrepayID  string `json:"prepay_id,omitempty"`
	AppID     string `json:"app_id,omitempty"`
	TimeStamp string `json:"time_stamp,omitempty"`
	NonceStr  string `json:"nonce_str,omitempty"`
	Package   string `json:"package,omitempty"`
	SignType  string `json:"sign_type,omitempty"`
	PaySign   string `json:"pay_sign,omitempty"`
}

type CheckPayStatusReq struct {
	OrderID int64 `form:"order_id"`
}

type CheckPayStatusResp struct {
	Paid bool `json:"paid"`
}
