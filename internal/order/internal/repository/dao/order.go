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

package dao

import (
	"context"
	"errors"
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

var (
	// ErrRowNotAffected 带状态前置条件的更新没有命中任何行,
	// 说明状态已被并发修改或前置条件不成立
	ErrRowNotAffected = errors.New("并发状态非法")
)

type OrderDAO interface {
	CreateOrder(ctx context.Context, order Order, items []OrderItem) (int64, error)
	FindOrderByID(ctx context.Context, id int64) (Order, error)
	FindOrderByIDAndBuyerID(ctx context.Context, id, buyerID int64) (Order, error)
	FindOrderBySN(ctx context.Context, sn string) (Order, error)
	FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (Order, error)
	FindOrderItemsByOrderID(ctx context.Context, orderID int64) ([]OrderItem, error)
	FindOrderItemByID(ctx context.Context, id int64) (OrderItem, error)
	ListOrders(ctx context.Context, params ListOrdersParams) ([]Order, error)
	CountOrders(ctx context.Context, params ListOrdersParams) (int64, error)
	DeleteOrder(ctx context.Context, id, buyerID int64) error
	UpdateOrderPaymentInfo(ctx context.Context, orderID, buyerID, paymentID int64, paymentSN string) error
	MarkOrderPaid(ctx context.Context, sn string, payWay, payTime int64) (bool, error)
	UpdateOrderPayStatus(ctx context.Context, orderID, status int64) error
	DeliverOrderItem(ctx context.Context, subOrderID int64, company, no string) error

	CreateWorkOrder(ctx context.Context, wo WorkOrder) (int64, error)
	FindWorkOrderByID(ctx context.Context, id int64) (WorkOrder, error)
	DeleteWorkOrder(ctx context.Context, id int64) error
	UpdateWorkOrderStatus(ctx context.Context, id, status int64, refuseReason string) error
	FillWorkOrderLogistics(ctx context.Context, id int64, company, no string) error
	ResubmitWorkOrder(ctx context.Context, id, typ int64, reason string, returnType int64) error
	ConfirmWorkOrder(ctx context.Context, id int64, refundDelivery bool) error

	ListExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]Order, error)
	TotalExpiredOrders(ctx context.Context, ctime int64) (int64, error)
	CloseExpiredOrders(ctx context.Context, ids []int64, closedAt int64) error
}

// ListOrdersParams PayWay/PayStatus 为-1表示不过滤
type ListOrdersParams struct {
	BuyerID   int64
	Keyword   string
	PayWay    int64
	PayStatus int64
	StartTime int64
	EndTime   int64
	Offset    int
	Limit     int
}

func NewOrderGORMDAO(db *egorm.Component) OrderDAO {
	return &orderGORMDAO{db: db}
}

type orderGORMDAO struct {
	db *egorm.Component
}

func (d *orderGORMDAO) CreateOrder(ctx context.Context, order Order, items []OrderItem) (int64, error) {
	now := time.Now().UnixMilli()
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order.Ctime, order.Utime = now, now
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderId = order.Id
			items[i].Ctime, items[i].Utime = now, now
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return 0, err
	}
	return order.Id, nil
}

func (d *orderGORMDAO) FindOrderByID(ctx context.Context, id int64) (Order, error) {
	var order Order
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	return order, err
}

func (d *orderGORMDAO) FindOrderByIDAndBuyerID(ctx context.Context, id, buyerID int64) (Order, error) {
	var order Order
	err := d.db.WithContext(ctx).
		Where("id = ? AND buyer_id = ?", id, buyerID).First(&order).Error
	return order, err
}

func (d *orderGORMDAO) FindOrderBySN(ctx context.Context, sn string) (Order, error) {
	var order Order
	err := d.db.WithContext(ctx).Where("sn = ?", sn).First(&order).Error
	return order, err
}

func (d *orderGORMDAO) FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (Order, error) {
	var order Order
	err := d.db.WithContext(ctx).
		Where("sn = ? AND buyer_id = ?", sn, buyerID).First(&order).Error
	return order, err
}

func (d *orderGORMDAO) FindOrderItemsByOrderID(ctx context.Context, orderID int64) ([]OrderItem, error) {
	var items []OrderItem
	err := d.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

func (d *orderGORMDAO) FindOrderItemByID(ctx context.Context, id int64) (OrderItem, error) {
	var item OrderItem
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	return item, err
}

func (d *orderGORMDAO) buildListQuery(ctx context.Context, params ListOrdersParams) *gorm.DB {
	query := d.db.WithContext(ctx).Model(&Order{})
	if params.BuyerID > 0 {
		query = query.Where("buyer_id = ?", params.BuyerID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("sn LIKE ? OR receiver_name LIKE ? OR receiver_phone LIKE ?", kw, kw, kw)
	}
	if params.PayWay >= 0 {
		query = query.Where("pay_way = ?", params.PayWay)
	}
	if params.PayStatus >= 0 {
		query = query.Where("pay_status = ?", params.PayStatus)
	}
	if params.StartTime > 0 {
		query = query.Where("ctime >= ?", params.StartTime)
	}
	if params.EndTime > 0 {
		query = query.Where("ctime <= ?", params.EndTime)
	}
	return query
}

func (d *orderGORMDAO) ListOrders(ctx context.Context, params ListOrdersParams) ([]Order, error) {
	var orders []Order
	err := d.buildListQuery(ctx, params).
		Order("id DESC").
		Offset(params.Offset).Limit(params.Limit).
		Find(&orders).Error
	return orders, err
}

func (d *orderGORMDAO) CountOrders(ctx context.Context, params ListOrdersParams) (int64, error) {
	var count int64
	err := d.buildListQuery(ctx, params).Count(&count).Error
	return count, err
}

func (d *orderGORMDAO) DeleteOrder(ctx context.Context, id, buyerID int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND buyer_id = ?", id, buyerID).Delete(&Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("order_id = ?", id).Delete(&OrderItem{}).Error
	})
}

func (d *orderGORMDAO) UpdateOrderPaymentInfo(ctx context.Context, orderID, buyerID, paymentID int64, paymentSN string) error {
	return d.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND buyer_id = ?", orderID, buyerID).
		Updates(map[string]any{
			"payment_id": paymentID,
			"payment_sn": paymentSN,
			"utime":      time.Now().UnixMilli(),
		}).Error
}

// MarkOrderPaid 返回false表示订单已经是支付完成状态, 本次为重复通知
func (d *orderGORMDAO) MarkOrderPaid(ctx context.Context, sn string, payWay, payTime int64) (bool, error) {
	res := d.db.WithContext(ctx).Model(&Order{}).
		Where("sn = ? AND pay_status = ?", sn, 0).
		Updates(map[string]any{
			"pay_status": 1,
			"pay_way":    payWay,
			"pay_time":   payTime,
			"utime":      time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (d *orderGORMDAO) UpdateOrderPayStatus(ctx context.Context, orderID, status int64) error {
	return d.db.WithContext(ctx).Model(&Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"pay_status": status,
			"utime":      time.Now().UnixMilli(),
		}).Error
}

func (d *orderGORMDAO) DeliverOrderItem(ctx context.Context, subOrderID int64, company, no string) error {
	now := time.Now().UnixMilli()
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item OrderItem
		if err := tx.Where("id = ?", subOrderID).First(&item).Error; err != nil {
			return err
		}
		res := tx.Model(&OrderItem{}).
			Where("id = ? AND delivery_status = ?", subOrderID, 0).
			Updates(map[string]any{
				"delivery_status":   1,
				"logistics_company": company,
				"logistics_no":      no,
				"utime":             now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRowNotAffected
		}
		// 首次发货时间作为订单发货时间
		return tx.Model(&Order{}).
			Where("id = ? AND delivery_time = ?", item.OrderId, 0).
			Updates(map[string]any{"delivery_time": now, "utime": now}).Error
	})
}

func (d *orderGORMDAO) CreateWorkOrder(ctx context.Context, wo WorkOrder) (int64, error) {
	now := time.Now().UnixMilli()
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wo.Ctime, wo.Utime = now, now
		if err := tx.Create(&wo).Error; err != nil {
			return err
		}
		res := tx.Model(&OrderItem{}).
			Where("id = ? AND after_sale_status = ?", wo.SubOrderId, 0).
			Updates(map[string]any{
				"after_sale_status": int64(wo.Status),
				"work_order_id":     wo.Id,
				"utime":             now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRowNotAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return wo.Id, nil
}

func (d *orderGORMDAO) FindWorkOrderByID(ctx context.Context, id int64) (WorkOrder, error) {
	var wo WorkOrder
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&wo).Error
	return wo, err
}

// DeleteWorkOrder 撤销工单, 子订单回到无售后状态
func (d *orderGORMDAO) DeleteWorkOrder(ctx context.Context, id int64) error {
	now := time.Now().UnixMilli()
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wo WorkOrder
		if err := tx.Where("id = ?", id).First(&wo).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND status = ?", id, 1).Delete(&WorkOrder{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRowNotAffected
		}
		return tx.Model(&OrderItem{}).
			Where("id = ?", wo.SubOrderId).
			Updates(map[string]any{
				"after_sale_status": 0,
				"work_order_id":     0,
				"utime":             now,
			}).Error
	})
}

func (d *orderGORMDAO) UpdateWorkOrderStatus(ctx context.Context, id, status int64, refuseReason string) error {
	return d.updateWorkOrderAndItem(ctx, id, []int64{1}, map[string]any{
		"status":        status,
		"refuse_reason": refuseReason,
	}, map[string]any{
		"after_sale_status": status,
	})
}

func (d *orderGORMDAO) FillWorkOrderLogistics(ctx context.Context, id int64, company, no string) error {
	res := d.db.WithContext(ctx).Model(&WorkOrder{}).
		Where("id = ? AND status = ?", id, 2).
		Updates(map[string]any{
			"logistics_company": company,
			"logistics_no":      no,
			"utime":             time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRowNotAffected
	}
	return nil
}

func (d *orderGORMDAO) ResubmitWorkOrder(ctx context.Context, id, typ int64, reason string, returnType int64) error {
	return d.updateWorkOrderAndItem(ctx, id, []int64{4}, map[string]any{
		"type":          typ,
		"reason":        reason,
		"return_type":   returnType,
		"status":        1,
		"refuse_reason": "",
	}, map[string]any{
		"after_sale_status": 1,
	})
}

func (d *orderGORMDAO) ConfirmWorkOrder(ctx context.Context, id int64, refundDelivery bool) error {
	itemFields := map[string]any{
		"after_sale_status": 3,
	}
	if refundDelivery {
		itemFields["delivery_status"] = 2
	}
	return d.updateWorkOrderAndItem(ctx, id, []int64{2, 3}, map[string]any{
		"status": 3,
	}, itemFields)
}

// updateWorkOrderAndItem 工单状态流转以前置状态为条件,
// 并发的处理/撤销只有一个能命中
func (d *orderGORMDAO) updateWorkOrderAndItem(ctx context.Context, id int64, fromStatuses []int64, woFields, itemFields map[string]any) error {
	now := time.Now().UnixMilli()
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wo WorkOrder
		if err := tx.Where("id = ?", id).First(&wo).Error; err != nil {
			return err
		}
		woFields["utime"] = now
		res := tx.Model(&WorkOrder{}).
			Where("id = ? AND status IN ?", id, fromStatuses).
			Updates(woFields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRowNotAffected
		}
		itemFields["utime"] = now
		return tx.Model(&OrderItem{}).
			Where("id = ?", wo.SubOrderId).Updates(itemFields).Error
	})
}

func (d *orderGORMDAO) ListExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]Order, error) {
	var orders []Order
	err := d.db.WithContext(ctx).
		Where("pay_status = ? AND closed_at = ? AND ctime <= ?", 0, 0, ctime).
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (d *orderGORMDAO) TotalExpiredOrders(ctx context.Context, ctime int64) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Order{}).
		Where("pay_status = ? AND closed_at = ? AND ctime <= ?", 0, 0, ctime).
		Count(&count).Error
	return count, err
}

func (d *orderGORMDAO) CloseExpiredOrders(ctx context.Context, ids []int64, closedAt int64) error {
	if len(ids) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).Model(&Order{}).
		Where("id IN ? AND pay_status = ?", ids, 0).
		Updates(map[string]any{
			"closed_at": closedAt,
			"utime":     time.Now().UnixMilli(),
		}).Error
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Order{}, &OrderItem{}, &WorkOrder{})
}

type Order struct {
	Id              int64  `gorm:"primaryKey;autoIncrement;comment:订单自增ID"`
	SN              string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_order_sn;comment:订单序列号"`
	BuyerId         int64  `gorm:"not null;index:idx_buyer_id;comment:购买者ID"`
	PaymentId       int64  `gorm:"index:idx_payment_id;comment:支付自增ID"`
	PaymentSn       string `gorm:"type:varchar(255);comment:支付序列号"`
	TotalAmount     int64  `gorm:"not null;comment:商品总价;单位为分, 999表示9.99元"`
	DiscountAmount  int64  `gorm:"not null;comment:优惠金额;单位为分"`
	ActualPayAmount int64  `gorm:"not null;comment:实付金额;单位为分"`
	PayStatus       int64  `gorm:"type:tinyint unsigned;not null;default:0;index:idx_pay_status;comment:支付状态 0=待支付 1=已支付 2=已退款"`
	PayWay          int64  `gorm:"type:tinyint unsigned;not null;default:0;comment:支付方式 1=微信Native 2=微信JSAPI"`
	PayTime         int64  `gorm:"not null;default:0;comment:支付时间"`
	DeliveryTime    int64  `gorm:"not null;default:0;comment:发货时间"`
	ReceiverName    string `gorm:"type:varchar(255);not null;comment:收货人"`
	ReceiverPhone   string `gorm:"type:varchar(32);not null;comment:收货人电话"`
	ReceiverAddress string `gorm:"type:varchar(512);not null;comment:收货地址"`
	Remark          string `gorm:"type:varchar(512);comment:买家备注"`
	ClosedAt        int64  `gorm:"not null;default:0;comment:订单关闭时间"`
	Ctime           int64
	Utime           int64
}

type OrderItem struct {
	Id               int64  `gorm:"primaryKey;comment:子订单ID, 雪花算法生成"`
	OrderId          int64  `gorm:"not null;index:idx_order_id;comment:订单自增ID"`
	SPUId            int64  `gorm:"not null;comment:SPU自增ID"`
	SKUId            int64  `gorm:"not null;index:idx_sku_id;comment:SKU自增ID"`
	SKUSN            string `gorm:"type:varchar(255);not null;comment:SKU序列号"`
	Name             string `gorm:"type:varchar(255);not null;comment:商品名称快照"`
	Image            string `gorm:"type:varchar(512);comment:商品图片快照"`
	Price            int64  `gorm:"not null;comment:下单时单价;单位为分"`
	Quantity         int64  `gorm:"not null;comment:购买数量"`
	Attrs            string `gorm:"type:varchar(512);comment:规格选择快照, JSON"`
	DeliveryStatus   int64  `gorm:"type:tinyint unsigned;not null;default:0;comment:发货状态 0=待发货 1=已发货 2=已退款"`
	LogisticsCompany string `gorm:"type:varchar(255);comment:物流公司"`
	LogisticsNo      string `gorm:"type:varchar(255);comment:物流单号"`
	AfterSaleStatus  int64  `gorm:"type:tinyint unsigned;not null;default:0;comment:售后状态 0=无 1=申请中 2=同意退货 3=已完成 4=已拒绝"`
	WorkOrderId      int64  `gorm:"not null;default:0;comment:售后工单ID, 0表示无工单"`
	Ctime            int64
	Utime            int64
}

type WorkOrder struct {
	Id               int64  `gorm:"primaryKey;autoIncrement;comment:工单自增ID"`
	SN               string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_work_order_sn;comment:工单序列号"`
	Uid              int64  `gorm:"not null;index:idx_uid;comment:买家ID"`
	OrderId          int64  `gorm:"not null;index:idx_work_order_order_id;comment:订单自增ID"`
	SubOrderId       int64  `gorm:"not null;index:idx_sub_order_id;comment:子订单ID"`
	Type             int64  `gorm:"type:tinyint unsigned;not null;comment:售后类型 1=仅退款 2=退货退款"`
	Reason           string `gorm:"type:varchar(512);not null;comment:申请原因"`
	ReturnType       int64  `gorm:"type:tinyint unsigned;not null;default:0;comment:退货方式"`
	Status           int64  `gorm:"type:tinyint unsigned;not null;default:1;comment:工单状态 1=申请中 2=同意退货 3=已完成 4=已拒绝"`
	RefuseReason     string `gorm:"type:varchar(512);comment:拒绝原因"`
	LogisticsCompany string `gorm:"type:varchar(255);comment:退货物流公司"`
	LogisticsNo      string `gorm:"type:varchar(255);comment:退货物流单号"`
	Ctime            int64
	Utime            int64
}
