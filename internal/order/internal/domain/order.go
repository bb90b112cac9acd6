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

package domain

type PayStatus uint8

func (s PayStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	PayStatusWaiting  PayStatus = 0
	PayStatusPaid     PayStatus = 1
	PayStatusRefunded PayStatus = 2
)

// DeliveryStatus 每个子订单独立推进
type DeliveryStatus uint8

func (s DeliveryStatus) ToUint8() uint8 {
	return uint8(s)
}

// CanDeliver 只有未发货的子订单才能发货
func (s DeliveryStatus) CanDeliver() bool {
	return s == DeliveryStatusWaiting
}

const (
	DeliveryStatusWaiting   DeliveryStatus = 0
	DeliveryStatusDelivered DeliveryStatus = 1
	DeliveryStatusRefunded  DeliveryStatus = 2
)

// AfterSaleStatus 售后工单状态, 同步冗余在子订单上
type AfterSaleStatus uint8

func (s AfterSaleStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	AfterSaleStatusNone           AfterSaleStatus = 0
	AfterSaleStatusRequested      AfterSaleStatus = 1
	AfterSaleStatusReturnApproved AfterSaleStatus = 2
	AfterSaleStatusCompleted      AfterSaleStatus = 3
	AfterSaleStatusRefused        AfterSaleStatus = 4
)

func (s AfterSaleStatus) CanApply() bool {
	return s == AfterSaleStatusNone
}

func (s AfterSaleStatus) CanCancel() bool {
	return s == AfterSaleStatusRequested
}

// CanHandle 商家同意/拒绝都只能处理申请中的工单
func (s AfterSaleStatus) CanHandle() bool {
	return s == AfterSaleStatusRequested
}

// CanFillLogistics 买家回填退货物流, 只在商家同意退货后
func (s AfterSaleStatus) CanFillLogistics() bool {
	return s == AfterSaleStatusReturnApproved
}

// CanConfirm 商家确认收货完结工单
func (s AfterSaleStatus) CanConfirm() bool {
	return s == AfterSaleStatusReturnApproved || s == AfterSaleStatusCompleted
}

func (s AfterSaleStatus) CanResubmit() bool {
	return s == AfterSaleStatusRefused
}

// 售后类型
const (
	AfterSaleTypeRefundOnly      int64 = 1
	AfterSaleTypeReturnAndRefund int64 = 2
)

// 支付方式
const (
	PayWayWechatNative int64 = 1
	PayWayWechatJSAPI  int64 = 2
)

type Order struct {
	ID              int64
	SN              string
	BuyerID         int64
	PaymentID       int64
	PaymentSN       string
	TotalAmount     int64
	DiscountAmount  int64
	ActualPayAmount int64
	PayStatus       PayStatus
	PayWay          int64
	PayTime         int64
	DeliveryTime    int64
	Receiver        Receiver
	Remark          string
	// ClosedAt 非零表示超时未支付被关闭
	ClosedAt int64
	Items    []OrderItem
	Ctime    int64
	Utime    int64
}

// Receiver 下单时从地址簿冻结的收货人快照
type Receiver struct {
	Name    string
	Phone   string
	Address string
}

// OrderItem 子订单, 价格/数量/规格是下单时的快照, 不随商品变动
type OrderItem struct {
	ID               int64
	OrderID          int64
	SPUID            int64
	SKUID            int64
	SKUSN            string
	Name             string
	Image            string
	Price            int64
	Quantity         int64
	Attrs            map[string]string
	DeliveryStatus   DeliveryStatus
	LogisticsCompany string
	LogisticsNo      string
	AfterSaleStatus  AfterSaleStatus
	WorkOrderID      int64
	Ctime            int64
	Utime            int64
}

// WorkOrder 售后工单, 一个工单只对应一个子订单
type WorkOrder struct {
	ID               int64
	SN               string
	UID              int64
	OrderID          int64
	SubOrderID       int64
	Type             int64
	Reason           string
	ReturnType       int64
	Status           AfterSaleStatus
	RefuseReason     string
	LogisticsCompany string
	LogisticsNo      string
	Ctime            int64
	Utime            int64
}

// ListQuery 订单分页查询条件, PayWay/PayStatus 为-1表示不过滤
type ListQuery struct {
	BuyerID   int64
	Keyword   string
	PayWay    int64
	PayStatus int64
	StartTime int64
	EndTime   int64
	Offset    int
	Limit     int
}
