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

package repository

import (
	"context"
	"encoding/json"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/mall/internal/cart/internal/domain"
	"github.com/ecodeclub/mall/internal/cart/internal/repository/dao"
)

type CartRepository interface {
	Add(ctx context.Context, item domain.CartItem) (int64, error)
	List(ctx context.Context, uid int64) ([]domain.CartItem, error)
	FindByIDs(ctx context.Context, uid int64, ids []int64) ([]domain.CartItem, error)
	FindByUIDAndSKUID(ctx context.Context, uid, skuID int64) (domain.CartItem, error)
	UpdateQuantity(ctx context.Context, uid, id, quantity int64) error
	UpdateSelected(ctx context.Context, uid int64, ids []int64, selected bool) error
	Delete(ctx context.Context, uid int64, ids []int64) error
	Clear(ctx context.Context, uid int64) error
}

func NewCartRepository(d dao.CartItemDAO) CartRepository {
	return &cartRepository{dao: d}
}

type cartRepository struct {
	dao dao.CartItemDAO
}

func (c *cartRepository) Add(ctx context.Context, item domain.CartItem) (int64, error) {
	return c.dao.Insert(ctx, c.toEntity(item))
}

func (c *cartRepository) List(ctx context.Context, uid int64) ([]domain.CartItem, error) {
	items, err := c.dao.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return slice.Map(items, func(idx int, src dao.CartItem) domain.CartItem {
		return c.toDomain(src)
	}), nil
}

func (c *cartRepository) FindByIDs(ctx context.Context, uid int64, ids []int64) ([]domain.CartItem, error) {
	items, err := c.dao.FindByIDs(ctx, uid, ids)
	if err != nil {
		return nil, err
	}
	return slice.Map(items, func(idx int, src dao.CartItem) domain.CartItem {
		return c.toDomain(src)
	}), nil
}

func (c *cartRepository) FindByUIDAndSKUID(ctx context.Context, uid, skuID int64) (domain.CartItem, error) {
	item, err := c.dao.FindByUIDAndSKUID(ctx, uid, skuID)
	if err != nil {
		return domain.CartItem{}, err
	}
	return c.toDomain(item), nil
}

func (c *cartRepository) UpdateQuantity(ctx context.Context, uid, id, quantity int64) error {
	return c.dao.UpdateQuantity(ctx, uid, id, quantity)
}

func (c *cartRepository) UpdateSelected(ctx context.Context, uid int64, ids []int64, selected bool) error {
	return c.dao.UpdateSelected(ctx, uid, ids, selected)
}

func (c *cartRepository) Delete(ctx context.Context, uid int64, ids []int64) error {
	return c.dao.Delete(ctx, uid, ids)
}

func (c *cartRepository) Clear(ctx context.Context, uid int64) error {
	return c.dao.Clear(ctx, uid)
}

func (c *cartRepository) toEntity(item domain.CartItem) dao.CartItem {
	attrs, _ := json.Marshal(item.Attrs)
	return dao.CartItem{
		Id:       item.ID,
		Uid:      item.UID,
		SPUId:    item.SPUID,
		SKUId:    item.SKUID,
		SKUSN:    item.SKUSN,
		Name:     item.Name,
		Image:    item.Image,
		Price:    item.Price,
		Quantity: item.Quantity,
		Attrs:    string(attrs),
		Selected: item.Selected,
	}
}

func (c *cartRepository) toDomain(item dao.CartItem) domain.CartItem {
	attrs := make(map[string]string)
	_ = json.Unmarshal([]byte(item.Attrs), &attrs)
	return domain.CartItem{
		ID:       item.Id,
		UID:      item.Uid,
		SPUID:    item.SPUId,
		SKUID:    item.SKUId,
		SKUSN:    item.SKUSN,
		Name:     item.Name,
		Image:    item.Image,
		Price:    item.Price,
		Quantity: item.Quantity,
		Attrs:    attrs,
		Selected: item.Selected,
	}
}
