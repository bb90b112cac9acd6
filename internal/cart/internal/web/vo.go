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

// AddCartItemReq 加入购物车
type AddCartItemReq struct {
	CommodityID int64             `json:"commodity_id"`
	Quantity    int64             `json:"quantity"`
	SKU         map[string]string `json:"sku,omitempty"`
}

type AddCartItemResp struct {
	ID int64 `json:"id"`
}

// UpdateQuantityReq 修改数量
type UpdateQuantityReq struct {
	ID       int64 `json:"id"`
	Quantity int64 `json:"quantity"`
}

// SelectReq ids为空表示全选/全不选
type SelectReq struct {
	IDs      []int64 `json:"ids,omitempty"`
	Selected bool    `json:"is_selected"`
}

// DeleteReq 删除购物车行
type DeleteReq struct {
	IDs []int64 `json:"ids"`
}

type ListCartResp struct {
	Items []CartItem `json:"lists"`
}

type CartItem struct {
	ID          int64             `json:"id"`
	CommodityID int64             `json:"commodity_id"`
	Title       string            `json:"title"`
	Image       string            `json:"image"`
	Price       int64             `json:"price"`
	Stock       int64             `json:"stock"`
	Quantity    int64             `json:"quantity"`
	SKU         map[string]string `json:"sku,omitempty"`
	IsSelected  bool              `json:"is_selected"`
}
