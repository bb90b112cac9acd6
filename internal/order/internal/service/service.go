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

	"github.com/ecodeclub/mall/internal/address"
	"github.com/ecodeclub/mall/internal/cart"
	"github.com/ecodeclub/mall/internal/order/internal/domain"
	"github.com/ecodeclub/mall/internal/order/internal/repository"
	"github.com/ecodeclub/mall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/mall/internal/pkg/snowflake"
	"github.com/ecodeclub/mall/internal/product"
	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrOrderNotFound     = errors.New("订单未找到")
	ErrInvalidTransition = errors.New("当前状态不允许该操作")
	ErrOutOfStock        = errors.New("商品库存不足")
	ErrIncompleteSpecs   = errors.New("规格选择不完整")
	ErrInvalidAddress    = errors.New("收货地址无效")
	ErrEmptySelection    = errors.New("没有可下单的商品")
	ErrEmptyReason       = errors.New("售后原因不能为空")
	ErrEmptyLogistics    = errors.New("物流公司和单号不能为空")
)

// CreateOrderInput 下单入参, 来自购物车勾选行或直接购买二选一
type CreateOrderInput struct {
	BuyerID     int64
	IsFromCart  bool
	CartIDs     []int64
	CommodityID int64
	Quantity    int64
	Attrs       map[string]string
	AddressID   int64
	Remark      string
}

type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (domain.Order, error)
	// FindOrder 按ID或SN查找, buyerID为0时不限定买家(管理端)
	FindOrder(ctx context.Context, orderID int64, orderSN string, buyerID int64) (domain.Order, error)
	ListOrders(ctx context.Context, query domain.ListQuery) ([]domain.Order, int64, error)
	DeleteOrder(ctx context.Context, orderID, buyerID int64) error
	UpdateOrderPaymentInfo(ctx context.Context, orderID, buyerID, paymentID int64, paymentSN string) error
	// MarkOrderPaid 支付事件驱动, 重复事件直接忽略
	MarkOrderPaid(ctx context.Context, orderSN string, payWay, payTime int64) error
	DeliverOrderItem(ctx context.Context, subOrderID int64, company, no string) error

	ApplyAfterSale(ctx context.Context, uid, subOrderID, typ int64, reason string, returnType int64) (domain.WorkOrder, error)
	CancelAfterSale(ctx context.Context, uid, workOrderID int64) error
	FillReturnLogistics(ctx context.Context, uid, workOrderID int64, company, no string) error
	ResubmitAfterSale(ctx context.Context, uid, workOrderID, typ int64, reason string, returnType int64) error
	AgreeAfterSale(ctx context.Context, workOrderID int64) error
	RefuseAfterSale(ctx context.Context, workOrderID int64, refuseReason string) error
	ConfirmAfterSale(ctx context.Context, workOrderID int64) error

	FindExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, int64, error)
	CloseExpiredOrders(ctx context.Context, orderIDs []int64) error
}

func NewService(repo repository.OrderRepository,
	productSvc product.Service,
	cartSvc cart.Service,
	addressSvc address.Service,
	snGenerator *sequencenumber.Generator,
	subOrderIDGenerator *snowflake.Generator,
) Service {
	return &service{
		repo:                repo,
		productSvc:          productSvc,
		cartSvc:             cartSvc,
		addressSvc:          addressSvc,
		snGenerator:         snGenerator,
		subOrderIDGenerator: subOrderIDGenerator,
		logger:              elog.DefaultLogger,
	}
}

type service struct {
	repo                repository.OrderRepository
	productSvc          product.Service
	cartSvc             cart.Service
	addressSvc          address.Service
	snGenerator         *sequencenumber.Generator
	subOrderIDGenerator *snowflake.Generator
	logger              *elog.Component
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (domain.Order, error) {
	addr, err := s.addressSvc.FindByID(ctx, input.AddressID, input.BuyerID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	var items []domain.OrderItem
	if input.IsFromCart {
		items, err = s.itemsFromCart(ctx, input.BuyerID, input.CartIDs)
	} else {
		items, err = s.itemsFromDirectBuy(ctx, input.CommodityID, input.Quantity, input.Attrs)
	}
	if err != nil {
		return domain.Order{}, err
	}

	orderSN, err := s.snGenerator.Generate(input.BuyerID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("生成订单序列号失败: %w", err)
	}

	var totalAmount int64
	for i := range items {
		items[i].ID = s.subOrderIDGenerator.Generate()
		totalAmount += items[i].Price * items[i].Quantity
	}
	// 优惠体系尚未接入, 优惠金额恒为0
	var discountAmount int64

	order, err := s.repo.CreateOrder(ctx, domain.Order{
		SN:              orderSN,
		BuyerID:         input.BuyerID,
		TotalAmount:     totalAmount,
		DiscountAmount:  discountAmount,
		ActualPayAmount: totalAmount - discountAmount,
		PayStatus:       domain.PayStatusWaiting,
		Receiver: domain.Receiver{
			Name:    addr.Name,
			Phone:   addr.Phone,
			Address: addr.FullAddress(),
		},
		Remark: input.Remark,
		Items:  items,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("创建订单失败: %w", err)
	}

	if input.IsFromCart {
		// 下单成功后清掉被消费的购物车行, 失败不影响订单,
		// 客户端以下一次购物车列表为准
		if er := s.cartSvc.RemoveByIDs(ctx, input.BuyerID, input.CartIDs); er != nil {
			s.logger.Warn("清理已下单购物车行失败",
				elog.FieldErr(er),
				elog.Int64("buyer_id", input.BuyerID),
				elog.String("order_sn", order.SN))
		}
	}
	return order, nil
}

func (s *service) itemsFromCart(ctx context.Context, uid int64, cartIDs []int64) ([]domain.OrderItem, error) {
	if len(cartIDs) == 0 {
		return nil, ErrEmptySelection
	}
	lines, err := s.cartSvc.FindSelectedByIDs(ctx, uid, cartIDs)
	if err != nil {
		return nil, fmt.Errorf("查找购物车行失败: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptySelection
	}
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		sku, err := s.productSvc.FindSKUByID(ctx, line.SKUID)
		if err != nil {
			return nil, fmt.Errorf("商品未找到: %w", err)
		}
		if line.Quantity > sku.Stock {
			return nil, fmt.Errorf("%w: sku=%s 库存=%d", ErrOutOfStock, sku.SN, sku.Stock)
		}
		items = append(items, domain.OrderItem{
			SPUID:    line.SPUID,
			SKUID:    sku.ID,
			SKUSN:    sku.SN,
			Name:     line.Name,
			Image:    line.Image,
			Price:    sku.Price,
			Quantity: line.Quantity,
			Attrs:    line.Attrs,
		})
	}
	return items, nil
}

func (s *service) itemsFromDirectBuy(ctx context.Context, commodityID, quantity int64, attrs map[string]string) ([]domain.OrderItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: 数量非法", ErrOutOfStock)
	}
	spu, err := s.productSvc.FindByID(ctx, commodityID)
	if err != nil {
		return nil, fmt.Errorf("商品未找到: %w", err)
	}
	if !spu.SpecsCompleted(attrs) {
		return nil, ErrIncompleteSpecs
	}
	sku, ok := spu.MatchSKU(attrs)
	if !ok {
		return nil, fmt.Errorf("%w: 未找到对应规格", ErrIncompleteSpecs)
	}
	if quantity > sku.Stock {
		return nil, fmt.Errorf("%w: sku=%s 库存=%d", ErrOutOfStock, sku.SN, sku.Stock)
	}
	return []domain.OrderItem{
		{
			SPUID:    spu.ID,
			SKUID:    sku.ID,
			SKUSN:    sku.SN,
			Name:     spu.Name,
			Image:    sku.Image,
			Price:    sku.Price,
			Quantity: quantity,
			Attrs:    attrs,
		},
	}, nil
}

func (s *service) FindOrder(ctx context.Context, orderID int64, orderSN string, buyerID int64) (domain.Order, error) {
	if orderID > 0 {
		return s.repo.FindOrderByID(ctx, orderID, buyerID)
	}
	if orderSN != "" {
		return s.repo.FindOrderBySN(ctx, orderSN, buyerID)
	}
	return domain.Order{}, ErrOrderNotFound
}

func (s *service) ListOrders(ctx context.Context, query domain.ListQuery) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListOrders(ctx, query)
		return err
	})

	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalOrders(ctx, query)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) DeleteOrder(ctx context.Context, orderID, buyerID int64) error {
	return s.repo.DeleteOrder(ctx, orderID, buyerID)
}

func (s *service) UpdateOrderPaymentInfo(ctx context.Context, orderID, buyerID, paymentID int64, paymentSN string) error {
	return s.repo.UpdateOrderPaymentInfo(ctx, orderID, buyerID, paymentID, paymentSN)
}

func (s *service) MarkOrderPaid(ctx context.Context, orderSN string, payWay, payTime int64) error {
	affected, err := s.repo.MarkOrderPaid(ctx, orderSN, payWay, payTime)
	if err != nil {
		return err
	}
	if !affected {
		s.logger.Info("重复的支付成功事件, 忽略", elog.String("order_sn", orderSN))
	}
	return nil
}

func (s *service) DeliverOrderItem(ctx context.Context, subOrderID int64, company, no string) error {
	if company == "" || no == "" {
		return ErrEmptyLogistics
	}
	item, err := s.repo.FindOrderItemByID(ctx, subOrderID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	}
	if !item.DeliveryStatus.CanDeliver() {
		return fmt.Errorf("%w: 子订单已发货或已退款", ErrInvalidTransition)
	}
	return s.repo.DeliverOrderItem(ctx, subOrderID, company, no)
}

func (s *service) ApplyAfterSale(ctx context.Context, uid, subOrderID, typ int64, reason string, returnType int64) (domain.WorkOrder, error) {
	if reason == "" {
		return domain.WorkOrder{}, ErrEmptyReason
	}
	item, err := s.repo.FindOrderItemByID(ctx, subOrderID)
	if err != nil {
		return domain.WorkOrder{}, fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	}
	order, err := s.repo.FindOrderByID(ctx, item.OrderID, uid)
	if err != nil {
		return domain.WorkOrder{}, fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	}
	if !item.AfterSaleStatus.CanApply() {
		return domain.WorkOrder{}, fmt.Errorf("%w: 子订单已有售后工单", ErrInvalidTransition)
	}

	sn, err := s.snGenerator.Generate(uid)
	if err != nil {
		return domain.WorkOrder{}, fmt.Errorf("生成工单序列号失败: %w", err)
	}
	wo := domain.WorkOrder{
		SN:         sn,
		UID:        uid,
		OrderID:    order.ID,
		SubOrderID: subOrderID,
		Type:       typ,
		Reason:     reason,
		ReturnType: returnType,
		Status:     domain.AfterSaleStatusRequested,
	}
	id, err := s.repo.CreateWorkOrder(ctx, wo)
	if err != nil {
		return domain.WorkOrder{}, fmt.Errorf("创建售后工单失败: %w", err)
	}
	wo.ID = id
	return wo, nil
}

func (s *service) CancelAfterSale(ctx context.Context, uid, workOrderID int64) error {
	wo, err := s.findOwnWorkOrder(ctx, uid, workOrderID)
	if err != nil {
		return err
	}
	if !wo.Status.CanCancel() {
		return fmt.Errorf("%w: 工单不在申请中", ErrInvalidTransition)
	}
	return s.repo.CancelWorkOrder(ctx, workOrderID)
}

func (s *service) FillReturnLogistics(ctx context.Context, uid, workOrderID int64, company, no string) error {
	if company == "" || no == "" {
		return ErrEmptyLogistics
	}
	wo, err := s.findOwnWorkOrder(ctx, uid, workOrderID)
	if err != nil {
		return err
	}
	if !wo.Status.CanFillLogistics() {
		return fmt.Errorf("%w: 商家尚未同意退货", ErrInvalidTransition)
	}
	return s.repo.FillWorkOrderLogistics(ctx, workOrderID, company, no)
}

func (s *service) ResubmitAfterSale(ctx context.Context, uid, workOrderID, typ int64, reason string, returnType int64) error {
	if reason == "" {
		return ErrEmptyReason
	}
	wo, err := s.findOwnWorkOrder(ctx, uid, workOrderID)
	if err != nil {
		return err
	}
	if !wo.Status.CanResubmit() {
		return fmt.Errorf("%w: 只有被拒绝的工单可以重新提交", ErrInvalidTransition)
	}
	return s.repo.ResubmitWorkOrder(ctx, workOrderID, typ, reason, returnType)
}

func (s *service) findOwnWorkOrder(ctx context.Context, uid, workOrderID int64) (domain.WorkOrder, error) {
	wo, err := s.repo.FindWorkOrderByID(ctx, workOrderID)
	if err != nil {
		return domain.WorkOrder{}, fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	}
	if wo.UID != uid {
		return domain.WorkOrder{}, ErrOrderNotFound
	}
	return wo, nil
}

func (s *service) AgreeAfterSale(ctx context.Context, workOrderID int64) error {
	wo, err := s.repo.FindWorkOrderByID(ctx, workOrderID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	}
	if !wo.Status.CanHandle() {
		return fmt.Errorf("%w: 工单不在申请中", ErrInvalidTransition)
	}
	return s.repo.UpdateWorkOrderStatus(ctx, workOrderID, domain.AfterSaleStatusReturnApproved, "")
}

func (s *service) RefuseAfterSale(ctx context.Context, workOrderID int64, refuseReason string) error {
	if refuseReason == "" {
		return ErrEmptyReason
	}
	wo, err := s.repo.FindWorkOrderByID(ctx, workOrderID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	}
	if !wo.Status.CanHandle() {
		return fmt.Errorf("%w: 工单不在申请中", ErrInvalidTransition)
	}
	return s.repo.UpdateWorkOrderStatus(ctx, workOrderID, domain.AfterSaleStatusRefused, refuseReason)
}

func (s *service) ConfirmAfterSale(ctx context.Context, workOrderID int64) error {
	wo, err := s.repo.FindWorkOrderByID(ctx, workOrderID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	}
	if !wo.Status.CanConfirm() {
		return fmt.Errorf("%w: 工单不在可确认状态", ErrInvalidTransition)
	}
	// 确认收货即完结工单, 退货退款的子订单同时标记为已退款
	refundDelivery := wo.Type == domain.AfterSaleTypeReturnAndRefund
	if err = s.repo.ConfirmWorkOrder(ctx, workOrderID, refundDelivery); err != nil {
		return err
	}
	return s.refreshOrderRefundStatus(ctx, wo.OrderID)
}

// refreshOrderRefundStatus 所有子订单都退款后, 订单整体标记为已退款
func (s *service) refreshOrderRefundStatus(ctx context.Context, orderID int64) error {
	order, err := s.repo.FindOrderByID(ctx, orderID, 0)
	if err != nil {
		return err
	}
	if order.PayStatus != domain.PayStatusPaid {
		return nil
	}
	allRefunded := len(order.Items) > 0
	for _, item := range order.Items {
		if item.DeliveryStatus != domain.DeliveryStatusRefunded {
			allRefunded = false
			break
		}
	}
	if !allRefunded {
		return nil
	}
	return s.repo.UpdateOrderPayStatus(ctx, orderID, domain.PayStatusRefunded)
}

func (s *service) FindExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListExpiredOrders(ctx, offset, limit, ctime)
		return err
	})

	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalExpiredOrders(ctx, ctime)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) CloseExpiredOrders(ctx context.Context, orderIDs []int64) error {
	return s.repo.CloseExpiredOrders(ctx, orderIDs, time.Now().UnixMilli())
}
