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

package order

import (
	"sync"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/mall/internal/address"
	"github.com/ecodeclub/mall/internal/cart"
	"github.com/ecodeclub/mall/internal/order/internal/event"
	"github.com/ecodeclub/mall/internal/order/internal/job"
	"github.com/ecodeclub/mall/internal/order/internal/repository"
	"github.com/ecodeclub/mall/internal/order/internal/repository/dao"
	"github.com/ecodeclub/mall/internal/order/internal/service"
	"github.com/ecodeclub/mall/internal/order/internal/web"
	"github.com/ecodeclub/mall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/mall/internal/pkg/snowflake"
	"github.com/ecodeclub/mall/internal/product"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

var ModuleSet = wire.NewSet(
	InitTablesOnce,
	repository.NewRepository,
	sequencenumber.NewGenerator,
	initSubOrderIDGenerator,
	service.NewService,
	web.NewHandler,
	web.NewAdminHandler,
	event.NewPaymentConsumer,
	initCloseExpiredOrdersJob)

func InitModule(db *egorm.Component, cache ecache.Cache, q mq.MQ,
	productSvc product.Service, cartSvc cart.Service, addressSvc address.Service) (*Module, error) {
	wire.Build(ModuleSet, wire.Struct(new(Module), "*"))
	return new(Module), nil
}

var once = &sync.Once{}

func InitTablesOnce(db *egorm.Component) dao.OrderDAO {
	once.Do(func() {
		_ = dao.InitTables(db)
	})
	return dao.NewOrderGORMDAO(db)
}

func initSubOrderIDGenerator() *snowflake.Generator {
	generator, err := snowflake.NewGenerator(1)
	if err != nil {
		panic(err)
	}
	return generator
}

func initCloseExpiredOrdersJob(svc service.Service) *job.CloseExpiredOrdersJob {
	const (
		limit  = 100
		minute = 30
	)
	return job.NewCloseExpiredOrdersJob(svc, limit, minute, time.Minute)
}
