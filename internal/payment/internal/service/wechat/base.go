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
	"errors"
	"fmt"
	"time"

	"github.com/ecodeclub/mall/internal/payment/internal/domain"
	"github.com/gotomicro/ego/core/elog"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
)

var (
	wechatCallBackType2PaymentStatus = map[string]domain.PaymentStatus{
		"SUCCESS":    domain.PaymentStatusPaidSuccess, // 支付成功
		"PAYERROR":   domain.PaymentStatusPaidFailed,  // 支付失败(其他原因，如银行返回失败)
		"CLOSED":     domain.PaymentStatusPaidFailed,  // 已关闭
		"REVOKED":    domain.PaymentStatusPaidFailed,  // 已撤销（付款码支付）
		"NOTPAY":     domain.PaymentStatusUnpaid,      // 未支付
		"USERPAYING": domain.PaymentStatusProcessing,  // 用户支付中（付款码支付）
		"REFUND":     domain.PaymentStatusRefund,      // 转入退款
	}

	errUnknownTransactionState = errors.New("未知的微信事务状态")
	errIgnoredPaymentStatus    = errors.New("忽略的支付状态")
)

// GetPaymentStatus 把微信的交易状态映射为内部状态
func GetPaymentStatus(tradeState string) (domain.PaymentStatus, error) {
	status, ok := wechatCallBackType2PaymentStatus[tradeState]
	if !ok {
		return 0, fmt.Errorf("%w, %s", errUnknownTransactionState, tradeState)
	}
	return status, nil
}

type basePaymentService struct {
	l    *elog.Component
	name domain.ChannelType
	desc string

	appID     string
	mchID     string
	notifyURL string
}

// ConvertCallbackTransactionToDomain 回调通知里只处理终态,
// 非终态的通知留给主动查单与定时任务兜底
func (b *basePaymentService) ConvertCallbackTransactionToDomain(txn *payments.Transaction) (domain.Payment, error) {
	status, err := GetPaymentStatus(*txn.TradeState)
	if err != nil {
		return domain.Payment{}, err
	}

	if status != domain.PaymentStatusPaidSuccess && status != domain.PaymentStatusPaidFailed {
		b.l.Warn("忽略的微信支付通知状态",
			elog.String("TradeState", *txn.TradeState),
			elog.Any("PaymentStatus", status),
		)
		return domain.Payment{}, fmt.Errorf("%w, %d", errIgnoredPaymentStatus, status.ToInt64())
	}

	return b.convertToPaymentDomain(txn, status), nil
}

func (b *basePaymentService) convertToPaymentDomain(txn *payments.Transaction, status domain.PaymentStatus) domain.Payment {
	var paidAt int64
	if status == domain.PaymentStatusPaidSuccess {
		paidAt = time.Now().UnixMilli()
	}
	// 未支付时微信不会返回transaction_id
	var txnID string
	if txn.TransactionId != nil {
		txnID = *txn.TransactionId
	}
	return domain.Payment{
		OrderSN: *txn.OutTradeNo,
		TxnID:   txnID,
		Channel: b.name,
		PaidAt:  paidAt,
		Status:  status,
	}
}
