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

package dao

import (
	"context"
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

type PaymentDAO interface {
	Insert(ctx context.Context, pmt Payment) (Payment, error)
	FindByOrderID(ctx context.Context, orderID int64) (Payment, error)
	FindBySN(ctx context.Context, sn string) (Payment, error)
	FindByOrderSN(ctx context.Context, orderSN string) (Payment, error)
	UpdateChannel(ctx context.Context, pmtID int64, channel int64) error
	// UpdateTxnIDAndStatus 只有尚未进入终态的记录才会被更新, 支付成功回调
	// 与主动查单可能并发到达, 先到者生效
	UpdateTxnIDAndStatus(ctx context.Context, orderSN string, txnID string, status int64, paidAt int64) error
	UpdateStatus(ctx context.Context, orderSN string, status int64) error
	FindTimeoutPayments(ctx context.Context, offset, limit int, t int64) ([]Payment, error)
	TotalTimeoutPayments(ctx context.Context, t int64) (int64, error)
}

type PaymentGORMDAO struct {
	db *egorm.Component
}

func NewPaymentGORMDAO(db *egorm.Component) PaymentDAO {
	return &PaymentGORMDAO{db: db}
}

func (g *PaymentGORMDAO) Insert(ctx context.Context, pmt Payment) (Payment, error) {
	now := time.Now().UnixMilli()
	pmt.Ctime, pmt.Utime = now, now
	err := g.db.WithContext(ctx).Create(&pmt).Error
	return pmt, err
}

func (g *PaymentGORMDAO) FindByOrderID(ctx context.Context, orderID int64) (Payment, error) {
	var res Payment
	err := g.db.WithContext(ctx).Where("order_id = ?", orderID).First(&res).Error
	return res, err
}

func (g *PaymentGORMDAO) FindBySN(ctx context.Context, sn string) (Payment, error) {
	var res Payment
	err := g.db.WithContext(ctx).Where("sn = ?", sn).First(&res).Error
	return res, err
}

func (g *PaymentGORMDAO) FindByOrderSN(ctx context.Context, orderSN string) (Payment, error) {
	var res Payment
	err := g.db.WithContext(ctx).Where("order_sn = ?", orderSN).First(&res).Error
	return res, err
}

func (g *PaymentGORMDAO) UpdateChannel(ctx context.Context, pmtID int64, channel int64) error {
	return g.db.WithContext(ctx).Model(&Payment{}).
		Where("id = ?", pmtID).
		Updates(map[string]any{
			"channel": channel,
			"utime":   time.Now().UnixMilli(),
		}).Error
}

func (g *PaymentGORMDAO) UpdateTxnIDAndStatus(ctx context.Context, orderSN string, txnID string, status int64, paidAt int64) error {
	return g.db.WithContext(ctx).Model(&Payment{}).
		Where("order_sn = ? AND status <= ?", orderSN, statusProcessing).
		Updates(map[string]any{
			"txn_id":  txnID,
			"status":  status,
			"paid_at": paidAt,
			"utime":   time.Now().UnixMilli(),
		}).Error
}

func (g *PaymentGORMDAO) UpdateStatus(ctx context.Context, orderSN string, status int64) error {
	return g.db.WithContext(ctx).Model(&Payment{}).
		Where("order_sn = ? AND status <= ?", orderSN, statusProcessing).
		Updates(map[string]any{
			"status": status,
			"utime":  time.Now().UnixMilli(),
		}).Error
}

func (g *PaymentGORMDAO) FindTimeoutPayments(ctx context.Context, offset, limit int, t int64) ([]Payment, error) {
	var res []Payment
	err := g.timeoutQuery(ctx, t).
		Order("id ASC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (g *PaymentGORMDAO) TotalTimeoutPayments(ctx context.Context, t int64) (int64, error) {
	var count int64
	err := g.timeoutQuery(ctx, t).Select("COUNT(id)").Count(&count).Error
	return count, err
}

func (g *PaymentGORMDAO) timeoutQuery(ctx context.Context, t int64) *gorm.DB {
	return g.db.WithContext(ctx).Model(&Payment{}).
		Where("status <= ? AND deadline <= ?", statusProcessing, t)
}

// statusProcessing 之下的状态都算未完成支付
const statusProcessing = 1

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Payment{})
}

type Payment struct {
	Id      int64  `gorm:"primaryKey;autoIncrement;comment:支付自增ID"`
	SN      string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_payment_sn;comment:支付序列号"`
	PayerId int64  `gorm:"index:idx_payer_id;comment:支付者ID"`
	OrderId int64  `gorm:"not null;uniqueIndex:uniq_order_id;comment:订单自增ID"`
	OrderSn string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_order_sn;comment:订单序列号"`
	// OrderDescription 透传给支付渠道展示给买家
	OrderDescription string `gorm:"type:varchar(255);not null;comment:订单简要描述"`
	Channel          int64  `gorm:"type:tinyint unsigned;not null;default:1;comment:支付渠道 1=微信扫码 2=微信小程序"`
	TotalAmount      int64  `gorm:"not null;comment:支付总金额, 单位为分"`
	Deadline         int64  `gorm:"not null;index:idx_deadline;comment:支付截止时间"`
	PaidAt           int64  `gorm:"comment:支付时间"`
	Status           int64  `gorm:"type:tinyint unsigned;not null;default:0;comment:支付状态 0=未支付 1=处理中 2=支付成功 3=支付失败 4=已退款 5=超时关闭"`
	TxnID            string `gorm:"column:txn_id;type:varchar(255);comment:支付渠道的事务ID"`
	Ctime            int64
	Utime            int64
}
