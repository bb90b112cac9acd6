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

package job

import (
	"context"
	"fmt"
	"time"

	"github.com/ecodeclub/mall/internal/payment/internal/service"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/task/ecron"
)

var _ ecron.NamedJob = (*SyncWechatOrderJob)(nil)

// SyncWechatOrderJob 定期处理超过支付截止时间仍未进入终态的支付记录:
// 先向微信查一次单, 拿到终态就落库, 否则按超时关闭
type SyncWechatOrderJob struct {
	svc service.Service
	// seconds 查询时间的冗余量, 避免与正在支付的记录擦边
	seconds int64
	limit   int
	l       *elog.Component
}

func NewSyncWechatOrderJob(svc service.Service, seconds int64, limit int) *SyncWechatOrderJob {
	return &SyncWechatOrderJob{
		svc:     svc,
		seconds: seconds,
		limit:   limit,
		l:       elog.DefaultLogger,
	}
}

func (s *SyncWechatOrderJob) Name() string {
	return "sync_wechat_order_job"
}

func (s *SyncWechatOrderJob) Run(ctx context.Context) error {
	deadline := time.Now().Add(time.Duration(-s.seconds) * time.Second)

	for {
		payments, total, err := s.svc.FindTimeoutPayments(ctx, 0, s.limit, deadline)
		if err != nil {
			return fmt.Errorf("获取超时支付记录失败: %w", err)
		}

		for _, pmt := range payments {
			err = s.svc.SyncWechatInfo(ctx, pmt)
			if err != nil {
				s.l.Error("同步微信支付信息失败",
					elog.FieldErr(err),
					elog.String("order_sn", pmt.OrderSN),
					elog.Int64("payment_id", pmt.ID),
				)
			}
		}

		if len(payments) < s.limit || int64(s.limit) >= total {
			return nil
		}
	}
}
