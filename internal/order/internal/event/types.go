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

const paymentEvents = "payment_events"

// PaymentEvent 与payment模块的事件结构保持一致
type PaymentEvent struct {
	OrderSN string `json:"order_sn"`
	PayerID int64  `json:"payer_id"`
	PayWay  int64  `json:"pay_way"`
	Status  int64  `json:"status"`
	PaidAt  int64  `json:"paid_at"`
}

// payment模块的支付状态中只有这两个会发事件
const (
	PaymentStatusPaidSuccess = 2
	PaymentStatusRefunded    = 4
)
