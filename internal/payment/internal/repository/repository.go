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

package repository

import (
	"context"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/mall/internal/payment/internal/domain"
	"github.com/ecodeclub/mall/internal/payment/internal/repository/dao"
)

type PaymentRepository interface {
	CreatePayment(ctx context.Context, pmt domain.Payment) (domain.Payment, error)
	FindPaymentByOrderID(ctx context.Context, orderID int64) (domain.Payment, error)
	FindPaymentBySN(ctx context.Context, sn string) (domain.Payment, error)
	FindPaymentByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error)
	UpdateChannel(ctx context.Context, pmtID int64, channel domain.ChannelType) error
	UpdateTxnIDAndStatus(ctx context.Context, orderSN, txnID string, status domain.PaymentStatus, paidAt int64) error
	UpdateStatus(ctx context.Context, orderSN string, status domain.PaymentStatus) error
	FindTimeoutPayments(ctx context.Context, offset, limit int, t time.Time) ([]domain.Payment, error)
	TotalTimeoutPayments(ctx context.Context, t time.Time) (int64, error)
}

func NewPaymentRepository(d dao.PaymentDAO) PaymentRepository {
	return &paymentRepository{dao: d}
}

type paymentRepository struct {
	dao dao.PaymentDAO
}

func (p *paymentRepository) CreatePayment(ctx context.Context, pmt domain.Payment) (domain.Payment, error) {
	created, err := p.dao.Insert(ctx, p.toEntity(pmt))
	if err != nil {
		return domain.Payment{}, err
	}
	return p.toDomain(created), nil
}

func (p *paymentRepository) FindPaymentByOrderID(ctx context.Context, orderID int64) (domain.Payment, error) {
	pmt, err := p.dao.FindByOrderID(ctx, orderID)
	if err != nil {
		return domain.Payment{}, err
	}
	return p.toDomain(pmt), nil
}

func (p *paymentRepository) FindPaymentBySN(ctx context.Context, sn string) (domain.Payment, error) {
	pmt, err := p.dao.FindBySN(ctx, sn)
	if err != nil {
		return domain.Payment{}, err
	}
	return p.toDomain(pmt), nil
}

func (p *paymentRepository) FindPaymentByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error) {
	pmt, err := p.dao.FindByOrderSN(ctx, orderSN)
	if err != nil {
		return domain.Payment{}, err
	}
	return p.toDomain(pmt), nil
}

func (p *paymentRepository) UpdateChannel(ctx context.Context, pmtID int64, channel domain.ChannelType) error {
	return p.dao.UpdateChannel(ctx, pmtID, channel.ToInt64())
}

func (p *paymentRepository) UpdateTxnIDAndStatus(ctx context.Context, orderSN, txnID string, status domain.PaymentStatus, paidAt int64) error {
	return p.dao.UpdateTxnIDAndStatus(ctx, orderSN, txnID, status.ToInt64(), paidAt)
}

func (p *paymentRepository) UpdateStatus(ctx context.Context, orderSN string, status domain.PaymentStatus) error {
	return p.dao.UpdateStatus(ctx, orderSN, status.ToInt64())
}

func (p *paymentRepository) FindTimeoutPayments(ctx context.Context, offset, limit int, t time.Time) ([]domain.Payment, error) {
	pmts, err := p.dao.FindTimeoutPayments(ctx, offset, limit, t.UnixMilli())
	if err != nil {
		return nil, err
	}
	return slice.Map(pmts, func(idx int, src dao.Payment) domain.Payment {
		return p.toDomain(src)
	}), nil
}

func (p *paymentRepository) TotalTimeoutPayments(ctx context.Context, t time.Time) (int64, error) {
	return p.dao.TotalTimeoutPayments(ctx, t.UnixMilli())
}

func (p *paymentRepository) toEntity(pmt domain.Payment) dao.Payment {
	return dao.Payment{
		Id:               pmt.ID,
		SN:               pmt.SN,
		PayerId:          pmt.PayerID,
		OrderId:          pmt.OrderID,
		OrderSn:          pmt.OrderSN,
		OrderDescription: pmt.OrderDescription,
		Channel:          pmt.Channel.ToInt64(),
		TotalAmount:      pmt.TotalAmount,
		Deadline:         pmt.Deadline,
		PaidAt:           pmt.PaidAt,
		Status:           pmt.Status.ToInt64(),
		TxnID:            pmt.TxnID,
	}
}

func (p *paymentRepository) toDomain(pmt dao.Payment) domain.Payment {
	return domain.Payment{
		ID:               pmt.Id,
		SN:               pmt.SN,
		PayerID:          pmt.PayerId,
		OrderID:          pmt.OrderId,
		OrderSN:          pmt.OrderSn,
		OrderDescription: pmt.OrderDescription,
		Channel:          domain.ChannelType(pmt.Channel),
		TotalAmount:      pmt.TotalAmount,
		Deadline:         pmt.Deadline,
		PaidAt:           pmt.PaidAt,
		Status:           domain.PaymentStatus(pmt.Status),
		TxnID:            pmt.TxnID,
		Ctime:            pmt.Ctime,
		Utime:            pmt.Utime,
	}
}
