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

package payment

import (
	"github.com/ecodeclub/mall/internal/payment/internal/domain"
	"github.com/ecodeclub/mall/internal/payment/internal/job"
	"github.com/ecodeclub/mall/internal/payment/internal/service"
	"github.com/ecodeclub/mall/internal/payment/internal/web"
)

type (
	Handler            = web.Handler
	WechatHandler      = web.WechatHandler
	Payment            = domain.Payment
	ChannelType        = domain.ChannelType
	Service            = service.Service
	PrepayInput        = service.PrepayInput
	SyncWechatOrderJob = job.SyncWechatOrderJob
)

const (
	ChannelTypeWechatNative = domain.ChannelTypeWechatNative
	ChannelTypeWechatJSAPI  = domain.ChannelTypeWechatJSAPI

	StatusUnpaid      = domain.PaymentStatusUnpaid
	StatusProcessing  = domain.PaymentStatusProcessing
	StatusPaidSuccess = domain.PaymentStatusPaidSuccess
	StatusPaidFailed  = domain.PaymentStatusPaidFailed
)

type Module struct {
	Hdl                *Handler
	WechatHdl          *WechatHandler
	Svc                Service
	SyncWechatOrderJob *SyncWechatOrderJob
}
