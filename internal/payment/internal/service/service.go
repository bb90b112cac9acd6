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
	"errors"
	"fmt"
	"time"

	"github.com/ecodeclub/mall/internal/order"
	"github.com/ecodeclub/mall/internal/payment/internal/domain"
	"github.com/ecodeclub/mall/internal/payment/internal/event"
	"github.com/ecodeclub/mall/internal/payment/internal/repository"
	"github.com/ecodeclub/mall/internal/payment/internal/service/wechat"
	"github.com/ecodeclub/mall/internal/pkg/sequencenumber"
	"github.com/gotomicro/ego/core/elog"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound = errors.New("支付记录未找到")
	ErrOrderNotPayable = errors.New("订单当前不可支付")
	ErrUnknownChannel  = errors.New("未知的支付渠道")
)

// paymentDeadline 预支付后的付款时限, 与订单的自动关闭时限保持一致
const paymentDeadline = 30 * time.Minute

type PrepayInput struct {
	OrderID int64
	PayerID int64
	Channel domain.ChannelType
	// OpenID 小程序支付时上送
	OpenID string
}

// wechatChannel 微信侧的查单能力, native与jsapi都满足
type wechatChannel interface {
	QueryOrderBySN(ctx context.Context, orderSN string) (domain.Payment, error)
}

type Service interface {
	// Prepay 为订单创建(或复用)支付记录并向微信下预支付单
	Prepay(ctx context.Context, input PrepayInput) (domain.WechatPrepayResult, error)
	// CheckPayStatus 返回订单是否已支付成功。已成功的支付直接返回true,
	// 不会再访问微信; 未进入终态时返回false且不产生任何副作用
	CheckPayStatus(ctx context.Context, orderID, payerID int64) (bool, error)
	HandleWechatCallback(ctx context.Context, txn *payments.Transaction) error
	FindPaymentByOrderID(ctx context.Context, orderID int64) (domain.Payment, error)

	FindTimeoutPayments(ctx context.Context, offset, limit int, t time.Time) ([]domain.Payment, int64, error)
	CloseTimeoutPayment(ctx context.Context, pmt domain.Payment) error
	SyncWechatInfo(ctx context.Context, pmt domain.Payment) error
}

func NewService(repo repository.PaymentRepository,
	orderSvc order.Service,
	native *wechat.NativePaymentService,
	jsapi *wechat.JSAPIPaymentService,
	snGenerator *sequencenumber.Generator,
	producer event.PaymentEventProducer) Service {
	return &service{
		repo:        repo,
		orderSvc:    orderSvc,
		native:      native,
		jsapi:       jsapi,
		snGenerator: snGenerator,
		producer:    producer,
		l:           elog.DefaultLogger,
	}
}

type service struct {
	repo        repository.PaymentRepository
	orderSvc    order.Service
	native      *wechat.NativePaymentService
	jsapi       *wechat.JSAPIPaymentService
	snGenerator *sequencenumber.Generator
	producer    event.PaymentEventProducer
	l           *elog.Component
}

func (s *service) Prepay(ctx context.Context, input PrepayInput) (domain.WechatPrepayResult, error) {
	ord, err := s.orderSvc.FindOrder(ctx, input.OrderID, "", input.PayerID)
	if err != nil {
		return domain.WechatPrepayResult{}, fmt.Errorf("%w: %w", ErrOrderNotPayable, err)
	}
	if ord.PayStatus != order.PayStatusWaiting || ord.ClosedAt != 0 {
		return domain.WechatPrepayResult{}, ErrOrderNotPayable
	}

	pmt, err := s.findOrCreatePayment(ctx, ord, input)
	if err != nil {
		return domain.WechatPrepayResult{}, err
	}

	switch input.Channel {
	case domain.ChannelTypeWechatNative:
		codeURL, err := s.native.Prepay(ctx, pmt)
		if err != nil {
			return domain.WechatPrepayResult{}, err
		}
		return domain.WechatPrepayResult{CodeURL: codeURL}, nil
	case domain.ChannelTypeWechatJSAPI:
		params, err := s.jsapi.Prepay(ctx, pmt, input.OpenID)
		if err != nil {
			return domain.WechatPrepayResult{}, err
		}
		return domain.WechatPrepayResult{JSAPI: params}, nil
	default:
		return domain.WechatPrepayResult{}, fmt.Errorf("%w: %d", ErrUnknownChannel, input.Channel)
	}
}

func (s *service) findOrCreatePayment(ctx context.Context, ord order.Order, input PrepayInput) (domain.Payment, error) {
	pmt, err := s.repo.FindPaymentByOrderID(ctx, input.OrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.createPayment(ctx, ord, input)
	}
	if err != nil {
		return domain.Payment{}, err
	}
	// 已有支付记录, 买家重新发起支付。已进入终态的不允许再次支付
	if pmt.Status != domain.PaymentStatusUnpaid && pmt.Status != domain.PaymentStatusProcessing {
		return domain.Payment{}, ErrOrderNotPayable
	}
	if pmt.Channel != input.Channel {
		if err := s.repo.UpdateChannel(ctx, pmt.ID, input.Channel); err != nil {
			return domain.Payment{}, err
		}
		pmt.Channel = input.Channel
	}
	return pmt, nil
}

func (s *service) createPayment(ctx context.Context, ord order.Order, input PrepayInput) (domain.Payment, error) {
	sn, err := s.snGenerator.Generate(input.PayerID)
	if err != nil {
		return domain.Payment{}, err
	}
	pmt, err := s.repo.CreatePayment(ctx, domain.Payment{
		SN:               sn,
		PayerID:          input.PayerID,
		OrderID:          ord.ID,
		OrderSN:          ord.SN,
		OrderDescription: orderDescription(ord),
		Channel:          input.Channel,
		TotalAmount:      ord.ActualPayAmount,
		Deadline:         time.Now().Add(paymentDeadline).UnixMilli(),
		Status:           domain.PaymentStatusUnpaid,
	})
	if err != nil {
		return domain.Payment{}, err
	}
	err = s.orderSvc.UpdateOrderPaymentInfo(ctx, ord.ID, input.PayerID, pmt.ID, pmt.SN)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("回填订单支付信息失败: %w", err)
	}
	return pmt, nil
}

func orderDescription(ord order.Order) string {
	if len(ord.Items) == 0 {
		return ord.SN
	}
	title := ord.Items[0].Name
	if len(ord.Items) > 1 {
		title = fmt.Sprintf("%s等%d件商品", title, len(ord.Items))
	}
	return title
}

func (s *service) CheckPayStatus(ctx context.Context, orderID, payerID int64) (bool, error) {
	pmt, err := s.repo.FindPaymentByOrderID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, ErrPaymentNotFound
	}
	if err != nil {
		return false, err
	}
	if pmt.PayerID != payerID {
		return false, ErrPaymentNotFound
	}

	switch pmt.Status {
	case domain.PaymentStatusPaidSuccess:
		return true, nil
	case domain.PaymentStatusPaidFailed, domain.PaymentStatusRefund, domain.PaymentStatusTimeoutClosed:
		return false, nil
	}

	channel, err := s.channelOf(pmt)
	if err != nil {
		return false, err
	}
	res, err := channel.QueryOrderBySN(ctx, pmt.OrderSN)
	if err != nil {
		return false, err
	}
	if res.Status != domain.PaymentStatusPaidSuccess && res.Status != domain.PaymentStatusPaidFailed {
		// 微信侧也未到终态, 保持等待支付
		return false, nil
	}
	if err := s.handlePaymentResult(ctx, pmt, res); err != nil {
		return false, err
	}
	return res.Status == domain.PaymentStatusPaidSuccess, nil
}

func (s *service) HandleWechatCallback(ctx context.Context, txn *payments.Transaction) error {
	res, err := s.native.ConvertCallbackTransactionToDomain(txn)
	if err != nil {
		return err
	}
	pmt, err := s.repo.FindPaymentByOrderSN(ctx, res.OrderSN)
	if err != nil {
		return fmt.Errorf("回调的支付记录未找到, order_sn=%s: %w", res.OrderSN, err)
	}
	return s.handlePaymentResult(ctx, pmt, res)
}

// handlePaymentResult 把微信侧的终态落库并对外发事件
func (s *service) handlePaymentResult(ctx context.Context, pmt domain.Payment, res domain.Payment) error {
	err := s.repo.UpdateTxnIDAndStatus(ctx, pmt.OrderSN, res.TxnID, res.Status, res.PaidAt)
	if err != nil {
		return err
	}
	evt := event.PaymentEvent{
		OrderSN: pmt.OrderSN,
		PayerID: pmt.PayerID,
		PayWay:  pmt.Channel.ToInt64(),
		Status:  res.Status.ToInt64(),
		PaidAt:  res.PaidAt,
	}
	if err := s.producer.Produce(ctx, evt); err != nil {
		// 发送失败不影响支付结果, 后续由定时任务对账兜底
		s.l.Error("发送支付事件失败",
			elog.FieldErr(err),
			elog.String("order_sn", pmt.OrderSN),
		)
	}
	return nil
}

func (s *service) FindPaymentByOrderID(ctx context.Context, orderID int64) (domain.Payment, error) {
	pmt, err := s.repo.FindPaymentByOrderID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Payment{}, ErrPaymentNotFound
	}
	return pmt, err
}

func (s *service) FindTimeoutPayments(ctx context.Context, offset, limit int, t time.Time) ([]domain.Payment, int64, error) {
	var (
		eg    errgroup.Group
		pmts  []domain.Payment
		total int64
	)
	eg.Go(func() error {
		var err error
		pmts, err = s.repo.FindTimeoutPayments(ctx, offset, limit, t)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalTimeoutPayments(ctx, t)
		return err
	})
	return pmts, total, eg.Wait()
}

func (s *service) CloseTimeoutPayment(ctx context.Context, pmt domain.Payment) error {
	return s.repo.UpdateStatus(ctx, pmt.OrderSN, domain.PaymentStatusTimeoutClosed)
}

// SyncWechatInfo 超时记录先主动查一次微信, 拿到终态就落库发事件, 仍未支付则关闭
func (s *service) SyncWechatInfo(ctx context.Context, pmt domain.Payment) error {
	channel, err := s.channelOf(pmt)
	if err != nil {
		return err
	}
	res, err := channel.QueryOrderBySN(ctx, pmt.OrderSN)
	if err != nil {
		return err
	}
	if res.Status == domain.PaymentStatusPaidSuccess || res.Status == domain.PaymentStatusPaidFailed {
		return s.handlePaymentResult(ctx, pmt, res)
	}
	return s.CloseTimeoutPayment(ctx, pmt)
}

func (s *service) channelOf(pmt domain.Payment) (wechatChannel, error) {
	switch pmt.Channel {
	case domain.ChannelTypeWechatNative:
		return s.native, nil
	case domain.ChannelTypeWechatJSAPI:
		return s.jsapi, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownChannel, pmt.Channel)
	}
}
