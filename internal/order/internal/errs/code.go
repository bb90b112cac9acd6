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

package errs

var (
	SystemError = ErrorCode{Code: 502001, Msg: "系统错误"}
	// OrderNotFound 订单或子订单不存在, 或不属于当前用户
	OrderNotFound = ErrorCode{Code: 502002, Msg: "订单未找到"}
	// InvalidTransition 状态机拒绝了本次操作
	InvalidTransition = ErrorCode{Code: 502003, Msg: "当前状态不允许该操作"}
	// InvalidOrderInput 下单入参校验失败, 库存不足/规格不全/地址无效等
	InvalidOrderInput = ErrorCode{Code: 502004, Msg: "下单参数非法"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
