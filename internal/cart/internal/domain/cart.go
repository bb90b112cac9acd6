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

// CartItem 购物车行, 下单前"用户想买什么"的唯一来源
// Price和Stock是加购/刷新时的快照, 订单价格以下单时刻的商品价为准
type CartItem struct {
	ID       int64
	UID      int64
	SPUID    int64
	SKUID    int64
	SKUSN    string
	Name     string
	Image    string
	Price    int64
	Stock    int64
	Quantity int64
	// Attrs 用户选中的规格, 比如 {"color": "red"}
	Attrs    map[string]string
	Selected bool
}

// ValidQuantity 数量必须落在 [1, 库存] 内
func (c CartItem) ValidQuantity(quantity int64) bool {
	return quantity >= 1 && quantity <= c.Stock
}
