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

//go:build wireinject

package startup

import (
	"github.com/ecodeclub/mall/internal/address"
	"github.com/ecodeclub/mall/internal/cart"
	"github.com/ecodeclub/mall/internal/order"
	"github.com/ecodeclub/mall/internal/product"
	testioc "github.com/ecodeclub/mall/internal/test/ioc"
	"github.com/google/wire"
)

type Module struct {
	Handler      *order.Handler
	AdminHandler *order.AdminHandler
	Svc          order.Service
}

func InitModule(productSvc product.Service, cartSvc cart.Service, addressSvc address.Service) (*Module, error) {
	wire.Build(testioc.BaseSet,
		order.InitModule,
		wire.FieldsOf(new(*order.Module), "Hdl", "AdminHdl", "Svc"),
		wire.Struct(new(Module), "*"),
	)

	return new(Module), nil
}
