package ioc

import (
	"context"

	"github.com/gotomicro/ego/server/egin"
	"github.com/gotomicro/ego/task/ecron"
)

// Consumer 后台事件消费者, 随应用启动
type Consumer interface {
	Start(ctx context.Context)
}

type App struct {
	Web       *egin.Component
	Admin     AdminServer
	Crons     []ecron.Ecron
	Consumers []Consumer
}
