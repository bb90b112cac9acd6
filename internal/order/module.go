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

package order

import (
	"github.com/ecodeclub/mall/internal/order/internal/domain"
	"github.com/ecodeclub/mall/internal/order/internal/event"
	"github.com/ecodeclub/mall/internal/order/internal/job"
	"github.com/ecodeclub/mall/internal/order/internal/service"
	"github.com/ecodeclub/mall/internal/order/internal/web"
)

type (
	Handler               = web.Handler
	AdminHandler          = web.AdminHandler
	Order                 = domain.Order
	OrderItem             = domain.OrderItem
	WorkOrder             = domain.WorkOrder
	PayStatus             = domain.PayStatus
	DeliveryStatus        = domain.DeliveryStatus
	AfterSaleStatus       = domain.AfterSaleStatus
	ListQuery             = domain.ListQuery
	Service               = service.Service
	CreateOrderInput      = service.CreateOrderInput
	PaymentConsumer       = event.PaymentConsumer
	CloseExpiredOrdersJob = job.CloseExpiredOrdersJob
)

const (
	PayStatusWaiting  = domain.PayStatusWaiting
	PayStatusPaid     = domain.PayStatusPaid
	PayStatusRefunded = domain.PayStatusRefunded
)

type Module struct {
	Hdl                   *Handler
	AdminHdl              *AdminHandler
	Svc                   Service
	C                     *PaymentConsumer
	CloseExpiredOrdersJob *CloseExpiredOrdersJob
}
