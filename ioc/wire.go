//go:build wireinject

package ioc

import (
	"github.com/ecodeclub/mall/internal/address"
	"github.com/ecodeclub/mall/internal/cart"
	"github.com/ecodeclub/mall/internal/order"
	"github.com/ecodeclub/mall/internal/payment"
	"github.com/ecodeclub/mall/internal/product"
	"github.com/google/wire"
)

var BaseSet = wire.NewSet(InitDB, InitRedis, InitCache, InitMQ, InitSession)

func InitApp() (*App, error) {
	wire.Build(wire.Struct(new(App), "*"),
		BaseSet,
		product.InitService,
		address.InitService,
		cart.InitModule,
		wire.FieldsOf(new(*cart.Module), "Hdl", "Svc"),
		order.InitModule,
		wire.FieldsOf(new(*order.Module), "Hdl", "AdminHdl", "Svc", "CloseExpiredOrdersJob"),
		payment.InitModule,
		wire.FieldsOf(new(*payment.Module), "Hdl", "WechatHdl", "SyncWechatOrderJob"),
		initGinxServer,
		InitAdminServer,
		initCronJobs,
		initConsumers)
	return new(App), nil
}

func initConsumers(om *order.Module) []Consumer {
	return []Consumer{om.C}
}
