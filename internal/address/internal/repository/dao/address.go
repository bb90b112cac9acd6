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

type AddressDAO interface {
	FindByIDAndUID(ctx context.Context, id, uid int64) (Address, error)
}

func NewAddressGORMDAO(db *egorm.Component) AddressDAO {
	return &gormAddressDAO{db: db}
}

type gormAddressDAO struct {
	db *egorm.Component
}

func (g *gormAddressDAO) FindByIDAndUID(ctx context.Context, id, uid int64) (Address, error) {
	var res Address
	err := g.db.WithContext(ctx).Where("id = ? AND uid = ?", id, uid).First(&res).Error
	return res, err
}

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&Address{})
}

type Address struct {
	Id       int64  `gorm:"primaryKey;autoIncrement;comment:地址自增ID"`
	Uid      int64  `gorm:"not null;index:idx_uid;comment:用户ID"`
	Name     string `gorm:"type:varchar(64);not null;comment:收货人"`
	Phone    string `gorm:"type:varchar(32);not null;comment:收货电话"`
	Province string `gorm:"type:varchar(64);not null;comment:省"`
	City     string `gorm:"type:varchar(64);not null;comment:市"`
	County   string `gorm:"type:varchar(64);not null;comment:区县"`
	Detail   string `gorm:"type:varchar(255);not null;comment:详细地址"`
	Ctime    int64
	Utime    int64
}
