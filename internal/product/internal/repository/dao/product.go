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

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

type ProductDAO interface {
	FindSPUByID(ctx context.Context, id int64) (SPU, error)
	FindSKUsBySPUID(ctx context.Context, spuID int64) ([]SKU, error)
	FindSKUByID(ctx context.Context, id int64) (SKU, error)
}

func NewProductGORMDAO(db *egorm.Component) ProductDAO {
	return &gormProductDAO{db: db}
}

type gormProductDAO struct {
	db *egorm.Component
}

func (g *gormProductDAO) FindSPUByID(ctx context.Context, id int64) (SPU, error) {
	var res SPU
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	return res, err
}

func (g *gormProductDAO) FindSKUsBySPUID(ctx context.Context, spuID int64) ([]SKU, error) {
	var res []SKU
	err := g.db.WithContext(ctx).Where("spu_id = ?", spuID).Order("id asc").Find(&res).Error
	return res, err
}

func (g *gormProductDAO) FindSKUByID(ctx context.Context, id int64) (SKU, error) {
	var res SKU
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	return res, err
}

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&SPU{}, &SKU{})
}

type SPU struct {
	Id       int64  `gorm:"primaryKey;autoIncrement;comment:商品SPU自增ID"`
	SN       string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_spu_sn;comment:SPU序列号"`
	Name     string `gorm:"type:varchar(255);not null;comment:商品名称"`
	Desc     string `gorm:"not null;comment:商品描述"`
	Image    string `gorm:"type:varchar(512);not null;comment:商品主图"`
	SpecKeys string `gorm:"type:varchar(512);not null;default:'[]';comment:规格选项声明,JSON数组"`
	Status   uint8  `gorm:"type:tinyint unsigned;not null;default:2;comment:状态 1=下架 2=上架"`
	Ctime    int64
	Utime    int64
}

type SKU struct {
	Id    int64  `gorm:"primaryKey;autoIncrement;comment:SKU自增ID"`
	SN    string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_sku_sn;comment:SKU序列号"`
	SPUId int64  `gorm:"column:spu_id;not null;index:idx_spu_id;comment:SPU自增ID"`
	Price int64  `gorm:"not null;comment:单价;单位为分, 999表示9.99元"`
	Stock int64  `gorm:"not null;comment:库存"`
	Image string `gorm:"type:varchar(512);not null;comment:SKU图"`
	Attrs string `gorm:"type:varchar(512);not null;default:'{}';comment:规格键值,JSON对象"`
	Status uint8 `gorm:"type:tinyint unsigned;not null;default:2;comment:状态 1=下架 2=上架"`
	Ctime int64
	Utime int64
}
