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
	"encoding/json"
	"fmt"

	"github.com/ecodeclub/mall/internal/order/internal/service"
	"github.com/ecodeclub/mq-api"
	"github.com/gotomicro/ego/core/elog"
)

// PaymentConsumer 消费支付事件, 把订单从待支付推进到已支付
type PaymentConsumer struct {
	svc      service.Service
	consumer mq.Consumer
	logger   *elog.Component
}

func NewPaymentConsumer(svc service.Service, q mq.MQ) (*PaymentConsumer, error) {
	const groupID = "order"
	consumer, err := q.Consumer(paymentEvents, groupID)
	if err != nil {
		return nil, err
	}
	return &PaymentConsumer{
		svc:      svc,
		consumer: consumer,
		logger:   elog.DefaultLogger,
	}, nil
}

func (c *PaymentConsumer) Start(ctx context.Context) {
	go func() {
		for {
			er := c.Consume(ctx)
			if er != nil {
				c.logger.Error("消费支付事件失败", elog.FieldErr(er))
			}
		}
	}()
}

func (c *PaymentConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}

	var evt PaymentEvent
	err = json.Unmarshal(msg.Value, &evt)
	if err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}

	if evt.Status != PaymentStatusPaidSuccess {
		c.logger.Warn("忽略非支付成功事件",
			elog.String("order_sn", evt.OrderSN),
			elog.Int64("status", evt.Status))
		return nil
	}

	err = c.svc.MarkOrderPaid(ctx, evt.OrderSN, evt.PayWay, evt.PaidAt)
	if err != nil {
		c.logger.Error("标记订单已支付失败",
			elog.FieldErr(err),
			elog.String("order_sn", evt.OrderSN),
			elog.Int64("payer_id", evt.PayerID))
	}
	return err
}
