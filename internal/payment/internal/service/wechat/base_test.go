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
	"testing"

	"github.com/ecodeclub/mall/internal/payment/internal/domain"
	"github.com/gotomicro/ego/core/elog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
)

func TestGetPaymentStatus(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		tradeState string
		want       domain.PaymentStatus
	}{
		{tradeState: "SUCCESS", want: domain.PaymentStatusPaidSuccess},
		{tradeState: "PAYERROR", want: domain.PaymentStatusPaidFailed},
		{tradeState: "CLOSED", want: domain.PaymentStatusPaidFailed},
		{tradeState: "REVOKED", want: domain.PaymentStatusPaidFailed},
		{tradeState: "NOTPAY", want: domain.PaymentStatusUnpaid},
		{tradeState: "USERPAYING", want: domain.PaymentStatusProcessing},
		{tradeState: "REFUND", want: domain.PaymentStatusRefund},
	}
	for _, tc := range testCases {
		t.Run(tc.tradeState, func(t *testing.T) {
			t.Parallel()
			status, err := GetPaymentStatus(tc.tradeState)
			require.NoError(t, err)
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestGetPaymentStatus_UnknownState(t *testing.T) {
	t.Parallel()
	_, err := GetPaymentStatus("WHATEVER")
	assert.ErrorIs(t, err, errUnknownTransactionState)
}

func TestConvertCallbackTransactionToDomain(t *testing.T) {
	t.Parallel()
	base := &basePaymentService{
		l:    elog.DefaultLogger,
		name: domain.ChannelTypeWechatNative,
	}

	pmt, err := base.ConvertCallbackTransactionToDomain(&payments.Transaction{
		OutTradeNo:    core.String("OrderSN-1"),
		TransactionId: core.String("wx-txn-1"),
		TradeState:    core.String("SUCCESS"),
	})
	require.NoError(t, err)
	assert.Equal(t, "OrderSN-1", pmt.OrderSN)
	assert.Equal(t, "wx-txn-1", pmt.TxnID)
	assert.Equal(t, domain.PaymentStatusPaidSuccess, pmt.Status)
	assert.NotZero(t, pmt.PaidAt)

	// 失败的终态不记支付时间
	pmt, err = base.ConvertCallbackTransactionToDomain(&payments.Transaction{
		OutTradeNo:    core.String("OrderSN-1"),
		TransactionId: core.String("wx-txn-1"),
		TradeState:    core.String("PAYERROR"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaidFailed, pmt.Status)
	assert.Zero(t, pmt.PaidAt)
}
