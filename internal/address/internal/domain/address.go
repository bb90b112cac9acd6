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

import "strings"

type Address struct {
	ID       int64
	UID      int64
	Name     string
	Phone    string
	Province string
	City     string
	County   string
	Detail   string
}

// FullAddress 下单时落到订单快照里的完整收货地址
func (a Address) FullAddress() string {
	return strings.Join([]string{a.Province, a.City, a.County, a.Detail}, "")
}
