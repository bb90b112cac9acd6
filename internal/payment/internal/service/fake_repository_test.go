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

package service

import (
	"context"
	"time"

	"github.com/ecodeclub/mall/internal/payment/internal/domain"
	"gorm.io/gorm"
)

// fakePaymentRepository 内存版仓储, 语义与DAO保持一致
type fakePaymentRepository struct {
	payments    map[int64]domain.Payment
	nextID      int64
	createCalls int
}

func newFakePaymentRepository() *fakePaymentRepository {
	return &fakePaymentRepository{
		payments: make(map[int64]domain.Payment),
		nextID:   1,
	}
}

func (f *fakePaymentRepository) CreatePayment(_ context.Context, pmt domain.Payment) (domain.Payment, error) {
	f.createCalls++
	pmt.ID = f.nextID
	f.nextID++
	now := time.Now().UnixMilli()
	pmt.Ctime, pmt.Utime = now, now
	f.payments[pmt.ID] = pmt
	return pmt, nil
}

func (f *fakePaymentRepository) FindPaymentByOrderID(_ context.Context, orderID int64) (domain.Payment, error) {
	for _, pmt := range f.payments {
		if pmt.OrderID == orderID {
			return pmt, nil
		}
	}
	return domain.Payment{}, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepository) FindPaymentBySN(_ context.Context, sn string) (domain.Payment, error) {
	for _, pmt := range f.payments {
		if pmt.SN == sn {
			return pmt, nil
		}
	}
	return domain.Payment{}, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepository) FindPaymentByOrderSN(_ context.Context, orderSN string) (domain.Payment, error) {
	for _, pmt := range f.payments {
		if pmt.OrderSN == orderSN {
			return pmt, nil
		}
	}
	return domain.Payment{}, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepository) UpdateChannel(_ context.Context, pmtID int64, channel domain.ChannelType) error {
	pmt, ok := f.payments[pmtID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	pmt.Channel = channel
	pmt.Utime = time.Now().UnixMilli()
	f.payments[pmtID] = pmt
	return nil
}

func (f *fakePaymentRepository) UpdateTxnIDAndStatus(_ context.Context, orderSN, txnID string, status domain.PaymentStatus, paidAt int64) error {
	for id, pmt := range f.payments {
		if pmt.OrderSN == orderSN && pmt.Status <= domain.PaymentStatusProcessing {
			pmt.TxnID = txnID
			pmt.Status = status
			pmt.PaidAt = paidAt
			pmt.Utime = time.Now().UnixMilli()
			f.payments[id] = pmt
		}
	}
	return nil
}

func (f *fakePaymentRepository) UpdateStatus(_ context.Context, orderSN string, status domain.PaymentStatus) error {
	for id, pmt := range f.payments {
		if pmt.OrderSN == orderSN && pmt.Status <= domain.PaymentStatusProcessing {
			pmt.Status = status
			pmt.Utime = time.Now().UnixMilli()
			f.payments[id] = pmt
		}
	}
	return nil
}

func (f *fakePaymentRepository) FindTimeoutPayments(_ context.Context, offset, limit int, t time.Time) ([]domain.Payment, error) {
	var res []domain.Payment
	for _, pmt := range f.payments {
		if pmt.Status <= domain.PaymentStatusProcessing && pmt.Deadline <= t.UnixMilli() {
			res = append(res, pmt)
		}
	}
	if offset >= len(res) {
		return nil, nil
	}
	end := offset + limit
	if end > len(res) {
		end = len(res)
	}
	return res[offset:end], nil
}

func (f *fakePaymentRepository) TotalTimeoutPayments(_ context.Context, t time.Time) (int64, error) {
	var count int64
	for _, pmt := range f.payments {
		if pmt.Status <= domain.PaymentStatusProcessing && pmt.Deadline <= t.UnixMilli() {
			count++
		}
	}
	return count, nil
}
