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
	"encoding/json"
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/mall/internal/order/internal/domain"
	"github.com/ecodeclub/mall/internal/order/internal/repository/dao"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	FindOrderByID(ctx context.Context, id, buyerID int64) (domain.Order, error)
	FindOrderBySN(ctx context.Context, sn string, buyerID int64) (domain.Order, error)
	FindOrderItemByID(ctx context.Context, id int64) (domain.OrderItem, error)
	ListOrders(ctx context.Context, query domain.ListQuery) ([]domain.Order, error)
	TotalOrders(ctx context.Context, query domain.ListQuery) (int64, error)
	DeleteOrder(ctx context.Context, id, buyerID int64) error
	UpdateOrderPaymentInfo(ctx context.Context, orderID, buyerID, paymentID int64, paymentSN string) error
	MarkOrderPaid(ctx context.Context, sn string, payWay, payTime int64) (bool, error)
	UpdateOrderPayStatus(ctx context.Context, orderID int64, status domain.PayStatus) error
	DeliverOrderItem(ctx context.Context, subOrderID int64, company, no string) error

	CreateWorkOrder(ctx context.Context, wo domain.WorkOrder) (int64, error)
	FindWorkOrderByID(ctx context.Context, id int64) (domain.WorkOrder, error)
	CancelWorkOrder(ctx context.Context, id int64) error
	UpdateWorkOrderStatus(ctx context.Context, id int64, status domain.AfterSaleStatus, refuseReason string) error
	FillWorkOrderLogistics(ctx context.Context, id int64, company, no string) error
	ResubmitWorkOrder(ctx context.Context, id, typ int64, reason string, returnType int64) error
	ConfirmWorkOrder(ctx context.Context, id int64, refundDelivery bool) error

	ListExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, error)
	TotalExpiredOrders(ctx context.Context, ctime int64) (int64, error)
	CloseExpiredOrders(ctx context.Context, ids []int64, closedAt int64) error
}

func NewRepository(d dao.OrderDAO) OrderRepository {
	return &orderRepository{d: d}
}

type orderRepository struct {
	d dao.OrderDAO
}

func (o *orderRepository) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	oid, err := o.d.CreateOrder(ctx, o.toOrderEntity(order), o.toOrderItemEntities(order.Items))
	if err != nil {
		return domain.Order{}, err
	}
	order.ID = oid
	for i := range order.Items {
		order.Items[i].OrderID = oid
	}
	return order, nil
}

func (o *orderRepository) FindOrderByID(ctx context.Context, id, buyerID int64) (domain.Order, error) {
	var (
		order dao.Order
		err   error
	)
	if buyerID > 0 {
		order, err = o.d.FindOrderByIDAndBuyerID(ctx, id, buyerID)
	} else {
		order, err = o.d.FindOrderByID(ctx, id)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("通过订单ID查找订单失败: %w", err)
	}
	return o.attachItems(ctx, order)
}

func (o *orderRepository) FindOrderBySN(ctx context.Context, sn string, buyerID int64) (domain.Order, error) {
	var (
		order dao.Order
		err   error
	)
	if buyerID > 0 {
		order, err = o.d.FindOrderBySNAndBuyerID(ctx, sn, buyerID)
	} else {
		order, err = o.d.FindOrderBySN(ctx, sn)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("通过订单序列号查找订单失败: %w", err)
	}
	return o.attachItems(ctx, order)
}

func (o *orderRepository) attachItems(ctx context.Context, order dao.Order) (domain.Order, error) {
	items, err := o.d.FindOrderItemsByOrderID(ctx, order.Id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("查找子订单失败: %w", err)
	}
	return o.toOrderDomain(order, items), nil
}

func (o *orderRepository) FindOrderItemByID(ctx context.Context, id int64) (domain.OrderItem, error) {
	item, err := o.d.FindOrderItemByID(ctx, id)
	if err != nil {
		return domain.OrderItem{}, err
	}
	return o.toOrderItemDomain(item), nil
}

func (o *orderRepository) ListOrders(ctx context.Context, query domain.ListQuery) ([]domain.Order, error) {
	orders, err := o.d.ListOrders(ctx, o.toListParams(query))
	if err != nil {
		return nil, err
	}
	res := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		od, er := o.attachItems(ctx, order)
		if er != nil {
			return nil, er
		}
		res = append(res, od)
	}
	return res, nil
}

func (o *orderRepository) TotalOrders(ctx context.Context, query domain.ListQuery) (int64, error) {
	return o.d.CountOrders(ctx, o.toListParams(query))
}

func (o *orderRepository) toListParams(query domain.ListQuery) dao.ListOrdersParams {
	return dao.ListOrdersParams{
		BuyerID:   query.BuyerID,
		Keyword:   query.Keyword,
		PayWay:    query.PayWay,
		PayStatus: query.PayStatus,
		StartTime: query.StartTime,
		EndTime:   query.EndTime,
		Offset:    query.Offset,
		Limit:     query.Limit,
	}
}

func (o *orderRepository) DeleteOrder(ctx context.Context, id, buyerID int64) error {
	return o.d.DeleteOrder(ctx, id, buyerID)
}

func (o *orderRepository) UpdateOrderPaymentInfo(ctx context.Context, orderID, buyerID, paymentID int64, paymentSN string) error {
	return o.d.UpdateOrderPaymentInfo(ctx, orderID, buyerID, paymentID, paymentSN)
}

func (o *orderRepository) MarkOrderPaid(ctx context.Context, sn string, payWay, payTime int64) (bool, error) {
	return o.d.MarkOrderPaid(ctx, sn, payWay, payTime)
}

func (o *orderRepository) UpdateOrderPayStatus(ctx context.Context, orderID int64, status domain.PayStatus) error {
	return o.d.UpdateOrderPayStatus(ctx, orderID, int64(status.ToUint8()))
}

func (o *orderRepository) DeliverOrderItem(ctx context.Context, subOrderID int64, company, no string) error {
	return o.d.DeliverOrderItem(ctx, subOrderID, company, no)
}

func (o *orderRepository) CreateWorkOrder(ctx context.Context, wo domain.WorkOrder) (int64, error) {
	return o.d.CreateWorkOrder(ctx, dao.WorkOrder{
		SN:         wo.SN,
		Uid:        wo.UID,
		OrderId:    wo.OrderID,
		SubOrderId: wo.SubOrderID,
		Type:       wo.Type,
		Reason:     wo.Reason,
		ReturnType: wo.ReturnType,
		Status:     int64(wo.Status.ToUint8()),
	})
}

func (o *orderRepository) FindWorkOrderByID(ctx context.Context, id int64) (domain.WorkOrder, error) {
	wo, err := o.d.FindWorkOrderByID(ctx, id)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	return domain.WorkOrder{
		ID:               wo.Id,
		SN:               wo.SN,
		UID:              wo.Uid,
		OrderID:          wo.OrderId,
		SubOrderID:       wo.SubOrderId,
		Type:             wo.Type,
		Reason:           wo.Reason,
		ReturnType:       wo.ReturnType,
		Status:           domain.AfterSaleStatus(wo.Status),
		RefuseReason:     wo.RefuseReason,
		LogisticsCompany: wo.LogisticsCompany,
		LogisticsNo:      wo.LogisticsNo,
		Ctime:            wo.Ctime,
		Utime:            wo.Utime,
	}, nil
}

func (o *orderRepository) CancelWorkOrder(ctx context.Context, id int64) error {
	return o.d.DeleteWorkOrder(ctx, id)
}

func (o *orderRepository) UpdateWorkOrderStatus(ctx context.Context, id int64, status domain.AfterSaleStatus, refuseReason string) error {
	return o.d.UpdateWorkOrderStatus(ctx, id, int64(status.ToUint8()), refuseReason)
}

func (o *orderRepository) FillWorkOrderLogistics(ctx context.Context, id int64, company, no string) error {
	return o.d.FillWorkOrderLogistics(ctx, id, company, no)
}

func (o *orderRepository) ResubmitWorkOrder(ctx context.Context, id, typ int64, reason string, returnType int64) error {
	return o.d.ResubmitWorkOrder(ctx, id, typ, reason, returnType)
}

func (o *orderRepository) ConfirmWorkOrder(ctx context.Context, id int64, refundDelivery bool) error {
	return o.d.ConfirmWorkOrder(ctx, id, refundDelivery)
}

func (o *orderRepository) ListExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, error) {
	orders, err := o.d.ListExpiredOrders(ctx, offset, limit, ctime)
	if err != nil {
		return nil, err
	}
	return slice.Map(orders, func(idx int, src dao.Order) domain.Order {
		return o.toOrderDomain(src, nil)
	}), nil
}

func (o *orderRepository) TotalExpiredOrders(ctx context.Context, ctime int64) (int64, error) {
	return o.d.TotalExpiredOrders(ctx, ctime)
}

func (o *orderRepository) CloseExpiredOrders(ctx context.Context, ids []int64, closedAt int64) error {
	return o.d.CloseExpiredOrders(ctx, ids, closedAt)
}

func (o *orderRepository) toOrderEntity(order domain.Order) dao.Order {
	return dao.Order{
		Id:              order.ID,
		SN:              order.SN,
		BuyerId:         order.BuyerID,
		PaymentId:       order.PaymentID,
		PaymentSn:       order.PaymentSN,
		TotalAmount:     order.TotalAmount,
		DiscountAmount:  order.DiscountAmount,
		ActualPayAmount: order.ActualPayAmount,
		PayStatus:       int64(order.PayStatus.ToUint8()),
		PayWay:          order.PayWay,
		PayTime:         order.PayTime,
		DeliveryTime:    order.DeliveryTime,
		ReceiverName:    order.Receiver.Name,
		ReceiverPhone:   order.Receiver.Phone,
		ReceiverAddress: order.Receiver.Address,
		Remark:          order.Remark,
		ClosedAt:        order.ClosedAt,
	}
}

func (o *orderRepository) toOrderItemEntities(items []domain.OrderItem) []dao.OrderItem {
	return slice.Map(items, func(idx int, src domain.OrderItem) dao.OrderItem {
		attrs, _ := json.Marshal(src.Attrs)
		return dao.OrderItem{
			Id:               src.ID,
			SPUId:            src.SPUID,
			SKUId:            src.SKUID,
			SKUSN:            src.SKUSN,
			Name:             src.Name,
			Image:            src.Image,
			Price:            src.Price,
			Quantity:         src.Quantity,
			Attrs:            string(attrs),
			DeliveryStatus:   int64(src.DeliveryStatus.ToUint8()),
			AfterSaleStatus:  int64(src.AfterSaleStatus.ToUint8()),
			WorkOrderId:      src.WorkOrderID,
			LogisticsCompany: src.LogisticsCompany,
			LogisticsNo:      src.LogisticsNo,
		}
	})
}

func (o *orderRepository) toOrderDomain(order dao.Order, items []dao.OrderItem) domain.Order {
	return domain.Order{
		ID:              order.Id,
		SN:              order.SN,
		BuyerID:         order.BuyerId,
		PaymentID:       order.PaymentId,
		PaymentSN:       order.PaymentSn,
		TotalAmount:     order.TotalAmount,
		DiscountAmount:  order.DiscountAmount,
		ActualPayAmount: order.ActualPayAmount,
		PayStatus:       domain.PayStatus(order.PayStatus),
		PayWay:          order.PayWay,
		PayTime:         order.PayTime,
		DeliveryTime:    order.DeliveryTime,
		Receiver: domain.Receiver{
			Name:    order.ReceiverName,
			Phone:   order.ReceiverPhone,
			Address: order.ReceiverAddress,
		},
		Remark:   order.Remark,
		ClosedAt: order.ClosedAt,
		Items: slice.Map(items, func(idx int, src dao.OrderItem) domain.OrderItem {
			return o.toOrderItemDomain(src)
		}),
		Ctime: order.Ctime,
		Utime: order.Utime,
	}
}

func (o *orderRepository) toOrderItemDomain(item dao.OrderItem) domain.OrderItem {
	attrs := make(map[string]string)
	_ = json.Unmarshal([]byte(item.Attrs), &attrs)
	return domain.OrderItem{
		ID:               item.Id,
		OrderID:          item.OrderId,
		SPUID:            item.SPUId,
		SKUID:            item.SKUId,
		SKUSN:            item.SKUSN,
		Name:             item.Name,
		Image:            item.Image,
		Price:            item.Price,
		Quantity:         item.Quantity,
		Attrs:            attrs,
		DeliveryStatus:   domain.DeliveryStatus(item.DeliveryStatus),
		LogisticsCompany: item.LogisticsCompany,
		LogisticsNo:      item.LogisticsNo,
		AfterSaleStatus:  domain.AfterSaleStatus(item.AfterSaleStatus),
		WorkOrderID:      item.WorkOrderId,
		Ctime:            item.Ctime,
		Utime:            item.Utime,
	}
}
