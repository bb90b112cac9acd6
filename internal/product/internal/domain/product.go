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

type Status uint8

func (s Status) ToUint8() uint8 {
	return uint8(s)
}

const (
	StatusOffShelf Status = 1 // 下架
	StatusOnShelf  Status = 2 // 上架
)

// SPU 商品, 对外即spec里的commodity
// SpecKeys 声明了规格选项, 为空表示单规格商品
type SPU struct {
	ID       int64
	SN       string
	Name     string
	Desc     string
	Image    string
	SpecKeys []string
	SKUs     []SKU
	Status   Status
}

// SKU 具体规格变体, 价格单位为分
type SKU struct {
	ID    int64
	SN    string
	Price int64
	Stock int64
	Image string
	// Attrs 规格键值, 比如 {"color": "red", "size": "L"}
	Attrs  map[string]string
	Status Status
}

// MatchSKU 按用户选择的规格找出SKU
// 单规格商品忽略attrs直接返回第一个SKU
func (s SPU) MatchSKU(attrs map[string]string) (SKU, bool) {
	if len(s.SpecKeys) == 0 {
		if len(s.SKUs) == 0 {
			return SKU{}, false
		}
		return s.SKUs[0], true
	}
	if !s.SpecsCompleted(attrs) {
		return SKU{}, false
	}
	for _, sku := range s.SKUs {
		if matches(sku.Attrs, attrs) {
			return sku, true
		}
	}
	return SKU{}, false
}

// SpecsCompleted 每个规格选项都必须有选择
func (s SPU) SpecsCompleted(attrs map[string]string) bool {
	for _, key := range s.SpecKeys {
		if attrs[key] == "" {
			return false
		}
	}
	return true
}

func matches(skuAttrs, chosen map[string]string) bool {
	for k, v := range skuAttrs {
		if chosen[k] != v {
			return false
		}
	}
	return len(skuAttrs) == len(chosen)
}
