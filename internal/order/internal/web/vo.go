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

package web

// CreateOrderReq 购物车下单与直接购买二选一
type CreateOrderReq struct {
	RequestID   string            `json:"request_id"`
	IsFromCart  bool              `json:"is_from_cart"`
	CartIDs     []int64           `json:"cart_ids,omitempty"`
	CommodityID int64             `json:"commodity_id,omitempty"`
	Quantity    int64             `json:"quantity,omitempty"`
	SKU         map[string]string `json:"sku,omitempty"`
	AddressID   int64             `json:"address_id"`
	Remark      string            `json:"remark,omitempty"`
}

type CreateOrderResp struct {
	OrderID         int64  `json:"order_id"`
	OrderSN         string `json:"order_sn"`
	TotalAmount     int64  `json:"total_amount"`
	ActualPayAmount int64  `json:"actual_pay_amount"`
}

// DetailOrderReq order_id和order_sn至少传一个
type DetailOrderReq struct {
	OrderID int64  `form:"order_id"`
	OrderSN string `form:"order_sn"`
}

type DetailOrderResp struct {
	Order Order `json:"order"`
}

// ListOrdersReq pay_way/pay_status为空字符串表示不过滤
type ListOrdersReq struct {
	Keyword   string `form:"keyword"`
	PayWay    string `form:"pay_way"`
	PayStatus string `form:"pay_status"`
	StartTime int64  `form:"start_time"`
	EndTime   int64  `form:"end_time"`
	Page      int    `form:"page"`
	Size      int    `form:"size"`
}

type ListOrdersResp struct {
	CurrentPage int     `json:"current_page"`
	LastPage    int     `json:"last_page"`
	PerPage     int     `json:"per_page"`
	Total       int64   `json:"total"`
	Lists       []Order `json:"lists"`
}

type DeleteOrderReq struct {
	OrderID int64 `json:"order_id"`
}

type ApplyAfterSaleReq struct {
	SubOrderID int64  `json:"sub_order_id"`
	Type       int64  `json:"type"`
	Reason     string `json:"reason"`
	ReturnType int64  `json:"return_type"`
}

type ApplyAfterSaleResp struct {
	WorkOrderID int64  `json:"work_order_id"`
	WorkOrderSN string `json:"work_order_sn"`
}

type CancelAfterSaleReq struct {
	WorkOrderID int64 `json:"work_order_id"`
}

type ReturnLogisticsReq struct {
	WorkOrderID      int64  `json:"work_order_id"`
	LogisticsCompany string `json:"logistics_company"`
	LogisticsNo      string `json:"logistics_no"`
}

type ResubmitAfterSaleReq struct {
	WorkOrderID int64  `json:"work_order_id"`
	Type        int64  `json:"type"`
	Reason      string `json:"reason"`
	ReturnType  int64  `json:"return_type"`
}

// DeliverReq 管理端发货
type DeliverReq struct {
	SubOrderID       int64  `json:"sub_order_id"`
	LogisticsCompany string `json:"logistics_company"`
	LogisticsNo      string `json:"logistics_no"`
}

// HandleAfterSaleReq 管理端处理售后, action为agree/refuse/confirm
type HandleAfterSaleReq struct {
	WorkOrderID  int64  `json:"work_order_id"`
	Action       string `json:"action"`
	RefuseReason string `json:"refuse_reason,omitempty"`
}

type Order struct {
	ID              int64            `json:"order_id"`
	SN              string           `json:"order_sn"`
	TotalAmount     int64            `json:"total_amount"`
	DiscountAmount  int64            `json:"discount_amount"`
	ActualPayAmount int64            `json:"actual_pay_amount"`
	PayStatus       uint8            `json:"pay_status"`
	PayWay          int64            `json:"pay_way"`
	PayTime         int64            `json:"pay_time,omitempty"`
	DeliveryTime    int64            `json:"delivery_time,omitempty"`
	ReceiverName    string           `json:"receiver_name"`
	ReceiverPhone   string           `json:"receiver_phone"`
	ReceiverAddress string           `json:"receiver_address"`
	Remark          string           `json:"remark,omitempty"`
	CreateTime      int64            `json:"create_time"`
	GoodsList       []OrderGoodsItem `json:"goods_list"`
}

type OrderGoodsItem struct {
	SubOrderID       int64             `json:"sub_order_id"`
	CommodityID      int64             `json:"commodity_id"`
	Title            string            `json:"title"`
	Image            string            `json:"image,omitempty"`
	Price            int64             `json:"price"`
	Quantity         int64             `json:"quantity"`
	SKU              map[string]string `json:"sku,omitempty"`
	DeliveryStatus   uint8             `json:"delivery_status"`
	LogisticsCompany string            `json:"logistics_company,omitempty"`
	LogisticsNo      string            `json:"logistics_no,omitempty"`
	Status           uint8             `json:"status"`
	WorkOrderID      int64             `json:"work_order_id,omitempty"`
}
