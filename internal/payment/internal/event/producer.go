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

package event

import (
	"context"

	"github.com/ecodeclub/mall/internal/pkg/mqx"
	"github.com/ecodeclub/mq-api"
)

type PaymentEventProducer interface {
	Produce(ctx context.Context, evt PaymentEvent) error
}

func NewPaymentEventProducer(q mq.MQ) (PaymentEventProducer, error) {
	// 以订单SN作为分区键, 同一笔订单的事件按序消费
	return mqx.NewGeneralProducer(q, PaymentEventName, func(evt PaymentEvent) string {
		return evt.OrderSN
	})
}
