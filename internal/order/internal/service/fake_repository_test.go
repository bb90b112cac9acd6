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

	"github.com/ecodeclub/mall/internal/order/internal/domain"
	"gorm.io/gorm"
)

// fakeOrderRepository 内存版仓储, 行为与GORM实现保持一致
type fakeOrderRepository struct {
	nextOrderID      int64
	nextWorkOrderID  int64
	createOrderCalls int
	orders           map[int64]domain.Order
	items            map[int64]domain.OrderItem
	workOrders       map[int64]domain.WorkOrder
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{
		nextOrderID:     1,
		nextWorkOrderID: 1,
		orders:          make(map[int64]domain.Order),
		items:           make(map[int64]domain.OrderItem),
		workOrders:      make(map[int64]domain.WorkOrder),
	}
}

func (f *fakeOrderRepository) CreateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	f.createOrderCalls++
	order.ID = f.nextOrderID
	f.nextOrderID++
	order.Ctime = time.Now().UnixMilli()
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		f.items[order.Items[i].ID] = order.Items[i]
	}
	stored := order
	stored.Items = nil
	f.orders[order.ID] = stored
	return order, nil
}

func (f *fakeOrderRepository) FindOrderByID(_ context.Context, id, buyerID int64) (domain.Order, error) {
	order, ok := f.orders[id]
	if !ok || (buyerID > 0 && order.BuyerID != buyerID) {
		return domain.Order{}, gorm.ErrRecordNotFound
	}
	return f.attachItems(order), nil
}

func (f *fakeOrderRepository) FindOrderBySN(_ context.Context, sn string, buyerID int64) (domain.Order, error) {
	for _, order := range f.orders {
		if order.SN == sn && (buyerID == 0 || order.BuyerID == buyerID) {
			return f.attachItems(order), nil
		}
	}
	return domain.Order{}, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepository) attachItems(order domain.Order) domain.Order {
	order.Items = nil
	for _, item := range f.items {
		if item.OrderID == order.ID {
			order.Items = append(order.Items, item)
		}
	}
	return order
}

func (f *fakeOrderRepository) FindOrderItemByID(_ context.Context, id int64) (domain.OrderItem, error) {
	item, ok := f.items[id]
	if !ok {
		return domain.OrderItem{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (f *fakeOrderRepository) ListOrders(_ context.Context, query domain.ListQuery) ([]domain.Order, error) {
	var res []domain.Order
	for _, order := range f.orders {
		if f.match(order, query) {
			res = append(res, f.attachItems(order))
		}
	}
	if query.Offset >= len(res) {
		return nil, nil
	}
	end := query.Offset + query.Limit
	if end > len(res) {
		end = len(res)
	}
	return res[query.Offset:end], nil
}

func (f *fakeOrderRepository) TotalOrders(_ context.Context, query domain.ListQuery) (int64, error) {
	var total int64
	for _, order := range f.orders {
		if f.match(order, query) {
			total++
		}
	}
	return total, nil
}

func (f *fakeOrderRepository) match(order domain.Order, query domain.ListQuery) bool {
	if query.BuyerID > 0 && order.BuyerID != query.BuyerID {
		return false
	}
	if query.PayStatus >= 0 && int64(order.PayStatus.ToUint8()) != query.PayStatus {
		return false
	}
	if query.PayWay >= 0 && order.PayWay != query.PayWay {
		return false
	}
	return true
}

func (f *fakeOrderRepository) DeleteOrder(_ context.Context, id, buyerID int64) error {
	order, ok := f.orders[id]
	if !ok || order.BuyerID != buyerID {
		return gorm.ErrRecordNotFound
	}
	delete(f.orders, id)
	for itemID, item := range f.items {
		if item.OrderID == id {
			delete(f.items, itemID)
		}
	}
	return nil
}

func (f *fakeOrderRepository) UpdateOrderPaymentInfo(_ context.Context, orderID, buyerID, paymentID int64, paymentSN string) error {
	order, ok := f.orders[orderID]
	if !ok || order.BuyerID != buyerID {
		return gorm.ErrRecordNotFound
	}
	order.PaymentID = paymentID
	order.PaymentSN = paymentSN
	f.orders[orderID] = order
	return nil
}

func (f *fakeOrderRepository) MarkOrderPaid(_ context.Context, sn string, payWay, payTime int64) (bool, error) {
	for id, order := range f.orders {
		if order.SN != sn {
			continue
		}
		if order.PayStatus != domain.PayStatusWaiting {
			return false, nil
		}
		order.PayStatus = domain.PayStatusPaid
		order.PayWay = payWay
		order.PayTime = payTime
		f.orders[id] = order
		return true, nil
	}
	return false, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepository) UpdateOrderPayStatus(_ context.Context, orderID int64, status domain.PayStatus) error {
	order, ok := f.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.PayStatus = status
	f.orders[orderID] = order
	return nil
}

func (f *fakeOrderRepository) DeliverOrderItem(_ context.Context, subOrderID int64, company, no string) error {
	item, ok := f.items[subOrderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.DeliveryStatus = domain.DeliveryStatusDelivered
	item.LogisticsCompany = company
	item.LogisticsNo = no
	f.items[subOrderID] = item

	order := f.orders[item.OrderID]
	if order.DeliveryTime == 0 {
		order.DeliveryTime = time.Now().UnixMilli()
		f.orders[item.OrderID] = order
	}
	return nil
}

func (f *fakeOrderRepository) CreateWorkOrder(_ context.Context, wo domain.WorkOrder) (int64, error) {
	wo.ID = f.nextWorkOrderID
	f.nextWorkOrderID++
	f.workOrders[wo.ID] = wo

	item := f.items[wo.SubOrderID]
	item.AfterSaleStatus = wo.Status
	item.WorkOrderID = wo.ID
	f.items[wo.SubOrderID] = item
	return wo.ID, nil
}

func (f *fakeOrderRepository) FindWorkOrderByID(_ context.Context, id int64) (domain.WorkOrder, error) {
	wo, ok := f.workOrders[id]
	if !ok {
		return domain.WorkOrder{}, gorm.ErrRecordNotFound
	}
	return wo, nil
}

func (f *fakeOrderRepository) CancelWorkOrder(_ context.Context, id int64) error {
	wo, ok := f.workOrders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.workOrders, id)

	item := f.items[wo.SubOrderID]
	item.AfterSaleStatus = domain.AfterSaleStatusNone
	item.WorkOrderID = 0
	f.items[wo.SubOrderID] = item
	return nil
}

func (f *fakeOrderRepository) UpdateWorkOrderStatus(_ context.Context, id int64, status domain.AfterSaleStatus, refuseReason string) error {
	wo, ok := f.workOrders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	wo.Status = status
	wo.RefuseReason = refuseReason
	f.workOrders[id] = wo

	item := f.items[wo.SubOrderID]
	item.AfterSaleStatus = status
	f.items[wo.SubOrderID] = item
	return nil
}

func (f *fakeOrderRepository) FillWorkOrderLogistics(_ context.Context, id int64, company, no string) error {
	wo, ok := f.workOrders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	wo.LogisticsCompany = company
	wo.LogisticsNo = no
	f.workOrders[id] = wo
	return nil
}

func (f *fakeOrderRepository) ResubmitWorkOrder(_ context.Context, id, typ int64, reason string, returnType int64) error {
	wo, ok := f.workOrders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	wo.Type = typ
	wo.Reason = reason
	wo.ReturnType = returnType
	wo.Status = domain.AfterSaleStatusRequested
	wo.RefuseReason = ""
	f.workOrders[id] = wo

	item := f.items[wo.SubOrderID]
	item.AfterSaleStatus = domain.AfterSaleStatusRequested
	f.items[wo.SubOrderID] = item
	return nil
}

func (f *fakeOrderRepository) ConfirmWorkOrder(_ context.Context, id int64, refundDelivery bool) error {
	wo, ok := f.workOrders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	wo.Status = domain.AfterSaleStatusCompleted
	f.workOrders[id] = wo

	item := f.items[wo.SubOrderID]
	item.AfterSaleStatus = domain.AfterSaleStatusCompleted
	if refundDelivery {
		item.DeliveryStatus = domain.DeliveryStatusRefunded
	}
	f.items[wo.SubOrderID] = item
	return nil
}

func (f *fakeOrderRepository) ListExpiredOrders(_ context.Context, offset, limit int, ctime int64) ([]domain.Order, error) {
	var res []domain.Order
	for _, order := range f.orders {
		if order.PayStatus == domain.PayStatusWaiting && order.ClosedAt == 0 && order.Ctime <= ctime {
			res = append(res, order)
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

func (f *fakeOrderRepository) TotalExpiredOrders(_ context.Context, ctime int64) (int64, error) {
	var total int64
	for _, order := range f.orders {
		if order.PayStatus == domain.PayStatusWaiting && order.ClosedAt == 0 && order.Ctime <= ctime {
			total++
		}
	}
	return total, nil
}

func (f *fakeOrderRepository) CloseExpiredOrders(_ context.Context, ids []int64, closedAt int64) error {
	for _, id := range ids {
		order, ok := f.orders[id]
		if !ok || order.PayStatus != domain.PayStatusWaiting {
			continue
		}
		order.ClosedAt = closedAt
		f.orders[id] = order
	}
	return nil
}
