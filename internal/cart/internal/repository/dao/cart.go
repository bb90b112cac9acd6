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
	"errors"
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

var ErrRecordNotFound = gorm.ErrRecordNotFound

type CartItemDAO interface {
	Insert(ctx context.Context, item CartItem) (int64, error)
	FindByUID(ctx context.Context, uid int64) ([]CartItem, error)
	FindByIDs(ctx context.Context, uid int64, ids []int64) ([]CartItem, error)
	FindByUIDAndSKUID(ctx context.Context, uid, skuID int64) (CartItem, error)
	UpdateQuantity(ctx context.Context, uid, id, quantity int64) error
	UpdateSelected(ctx context.Context, uid int64, ids []int64, selected bool) error
	Delete(ctx context.Context, uid int64, ids []int64) error
	Clear(ctx context.Context, uid int64) error
}

func NewCartItemGORMDAO(db *egorm.Component) CartItemDAO {
	return &gormCartItemDAO{db: db}
}

type gormCartItemDAO struct {
	db *egorm.Component
}

func (g *gormCartItemDAO) Insert(ctx context.Context, item CartItem) (int64, error) {
	now := time.Now().UnixMilli()
	item.Ctime, item.Utime = now, now
	err := g.db.WithContext(ctx).Create(&item).Error
	return item.Id, err
}

func (g *gormCartItemDAO) FindByUID(ctx context.Context, uid int64) ([]CartItem, error) {
	var res []CartItem
	err := g.db.WithContext(ctx).Where("uid = ?", uid).Order("id desc").Find(&res).Error
	return res, err
}

func (g *gormCartItemDAO) FindByIDs(ctx context.Context, uid int64, ids []int64) ([]CartItem, error) {
	var res []CartItem
	err := g.db.WithContext(ctx).Where("uid = ? AND id IN ?", uid, ids).Find(&res).Error
	return res, err
}

func (g *gormCartItemDAO) FindByUIDAndSKUID(ctx context.Context, uid, skuID int64) (CartItem, error) {
	var res CartItem
	err := g.db.WithContext(ctx).Where("uid = ? AND sku_id = ?", uid, skuID).First(&res).Error
	return res, err
}

func (g *gormCartItemDAO) UpdateQuantity(ctx context.Context, uid, id, quantity int64) error {
	res := g.db.WithContext(ctx).Model(&CartItem{}).
		Where("id = ? AND uid = ?", id, uid).
		Updates(map[string]any{
			"quantity": quantity,
			"utime":    time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("购物车行未找到")
	}
	return nil
}

func (g *gormCartItemDAO) UpdateSelected(ctx context.Context, uid int64, ids []int64, selected bool) error {
	query := g.db.WithContext(ctx).Model(&CartItem{}).Where("uid = ?", uid)
	// ids为空表示全选/全不选
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	return query.Updates(map[string]any{
		"selected": selected,
		"utime":    time.Now().UnixMilli(),
	}).Error
}

func (g *gormCartItemDAO) Delete(ctx context.Context, uid int64, ids []int64) error {
	return g.db.WithContext(ctx).Where("uid = ? AND id IN ?", uid, ids).Delete(&CartItem{}).Error
}

func (g *gormCartItemDAO) Clear(ctx context.Context, uid int64) error {
	return g.db.WithContext(ctx).Where("uid = ?", uid).Delete(&CartItem{}).Error
}

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&CartItem{})
}

type CartItem struct {
	Id       int64  `gorm:"primaryKey;autoIncrement;comment:购物车行自增ID"`
	Uid      int64  `gorm:"not null;uniqueIndex:uniq_uid_sku,priority:1;comment:用户ID"`
	SPUId    int64  `gorm:"column:spu_id;not null;comment:SPU自增ID"`
	SKUId    int64  `gorm:"column:sku_id;not null;uniqueIndex:uniq_uid_sku,priority:2;comment:SKU自增ID"`
	SKUSN    string `gorm:"column:sku_sn;type:varchar(255);not null;comment:SKU序列号"`
	Name     string `gorm:"type:varchar(255);not null;comment:商品名称快照"`
	Image    string `gorm:"type:varchar(512);not null;comment:商品图快照"`
	Price    int64  `gorm:"not null;comment:加购时单价快照;单位为分"`
	Quantity int64  `gorm:"not null;comment:数量"`
	Attrs    string `gorm:"type:varchar(512);not null;default:'{}';comment:选中规格,JSON对象"`
	Selected bool   `gorm:"not null;default:true;comment:是否勾选"`
	Ctime    int64
	Utime    int64
}
