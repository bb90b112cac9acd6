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

package payment

import (
	"sync"

	"github.com/ecodeclub/mall/internal/order"
	"github.com/ecodeclub/mall/internal/payment/internal/event"
	"github.com/ecodeclub/mall/internal/payment/internal/job"
	"github.com/ecodeclub/mall/internal/payment/internal/repository"
	"github.com/ecodeclub/mall/internal/payment/internal/repository/dao"
	"github.com/ecodeclub/mall/internal/payment/internal/service"
	"github.com/ecodeclub/mall/internal/payment/internal/service/wechat"
	"github.com/ecodeclub/mall/internal/payment/internal/web"
	"github.com/ecodeclub/mall/internal/payment/ioc"
	"github.com/ecodeclub/mall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/jsapi"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/native"
)

var ModuleSet = wire.NewSet(
	ioc.InitWechatConfig,
	ioc.InitWechatClient,
	ioc.InitNativeApiService,
	wire.Bind(new(wechat.NativeAPIService), new(*native.NativeApiService)),
	ioc.InitWechatNativePaymentService,
	ioc.InitJSApiService,
	wire.Bind(new(wechat.JSAPIService), new(*jsapi.JsapiApiService)),
	ioc.InitWechatJSAPIPaymentService,
	ioc.InitWechatNotifyHandler,
	InitTablesOnce,
	repository.NewPaymentRepository,
	sequencenumber.NewGenerator,
	event.NewPaymentEventProducer,
	service.NewService,
	web.NewHandler,
	web.NewWechatHandler,
	initSyncWechatOrderJob)

func InitModule(db *egorm.Component, q mq.MQ, orderSvc order.Service) (*Module, error) {
	wire.Build(ModuleSet, wire.Struct(new(Module), "*"))
	return new(Module), nil
}

var once = &sync.Once{}

func InitTablesOnce(db *egorm.Component) dao.PaymentDAO {
	once.Do(func() {
		_ = dao.InitTables(db)
	})
	return dao.NewPaymentGORMDAO(db)
}

func initSyncWechatOrderJob(svc service.Service) *job.SyncWechatOrderJob {
	const (
		seconds = 10
		limit   = 100
	)
	return job.NewSyncWechatOrderJob(svc, seconds, limit)
}
