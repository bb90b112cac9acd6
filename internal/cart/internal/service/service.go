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

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecodeclub/mall/internal/cart/internal/domain"
	"github.com/ecodeclub/mall/internal/cart/internal/repository"
	"github.com/ecodeclub/mall/internal/product"
)

var (
	ErrIncompleteSpecs = errors.New("规格选择不完整")
	ErrSKUNotFound     = errors.New("未找到对应规格的商品")
	ErrInvalidQuantity = errors.New("商品数量非法")
)

type Service interface {
	Add(ctx context.Context, uid, commodityID, quantity int64, attrs map[string]string) (int64, error)
	UpdateQuantity(ctx context.Context, uid, id, quantity int64) error
	UpdateSelected(ctx context.Context, uid int64, ids []int64, selected bool) error
	Delete(ctx context.Context, uid int64, ids []int64) error
	Clear(ctx context.Context, uid int64) error
	List(ctx context.Context, uid int64) ([]domain.CartItem, error)
	// FindSelectedByIDs 下单时按ID取勾选行, 带上实时库存
	FindSelectedByIDs(ctx context.Context, uid int64, ids []int64) ([]domain.CartItem, error)
	// RemoveByIDs 下单成功后清掉被消费的行
	RemoveByIDs(ctx context.Context, uid int64, ids []int64) error
}

func NewService(repo repository.CartRepository, productSvc product.Service) Service {
	return &service{repo: repo, productSvc: productSvc}
}

type service struct {
	repo       repository.CartRepository
	productSvc product.Service
}

func (s *service) Add(ctx context.Context, uid, commodityID, quantity int64, attrs map[string]string) (int64, error) {
	spu, err := s.productSvc.FindByID(ctx, commodityID)
	if err != nil {
		return 0, fmt.Errorf("商品未找到: %w", err)
	}
	if !spu.SpecsCompleted(attrs) {
		return 0, ErrIncompleteSpecs
	}
	sku, ok := spu.MatchSKU(attrs)
	if !ok {
		return 0, ErrSKUNotFound
	}

	// 同一个SKU重复加购时合并数量
	existing, err := s.repo.FindByUIDAndSKUID(ctx, uid, sku.ID)
	if err == nil {
		merged := existing.Quantity + quantity
		if merged < 1 || merged > sku.Stock {
			return 0, fmt.Errorf("%w: 库存=%d", ErrInvalidQuantity, sku.Stock)
		}
		return existing.ID, s.repo.UpdateQuantity(ctx, uid, existing.ID, merged)
	}

	if quantity < 1 || quantity > sku.Stock {
		return 0, fmt.Errorf("%w: 库存=%d", ErrInvalidQuantity, sku.Stock)
	}
	return s.repo.Add(ctx, domain.CartItem{
		UID:      uid,
		SPUID:    spu.ID,
		SKUID:    sku.ID,
		SKUSN:    sku.SN,
		Name:     spu.Name,
		Image:    sku.Image,
		Price:    sku.Price,
		Quantity: quantity,
		Attrs:    attrs,
		Selected: true,
	})
}

func (s *service) UpdateQuantity(ctx context.Context, uid, id, quantity int64) error {
	items, err := s.repo.FindByIDs(ctx, uid, []int64{id})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("购物车行未找到: id=%d", id)
	}
	sku, err := s.productSvc.FindSKUByID(ctx, items[0].SKUID)
	if err != nil {
		return fmt.Errorf("商品未找到: %w", err)
	}
	if quantity < 1 || quantity > sku.Stock {
		return fmt.Errorf("%w: 库存=%d", ErrInvalidQuantity, sku.Stock)
	}
	return s.repo.UpdateQuantity(ctx, uid, id, quantity)
}

func (s *service) UpdateSelected(ctx context.Context, uid int64, ids []int64, selected bool) error {
	return s.repo.UpdateSelected(ctx, uid, ids, selected)
}

func (s *service) Delete(ctx context.Context, uid int64, ids []int64) error {
	return s.repo.Delete(ctx, uid, ids)
}

func (s *service) Clear(ctx context.Context, uid int64) error {
	return s.repo.Clear(ctx, uid)
}

func (s *service) List(ctx context.Context, uid int64) ([]domain.CartItem, error) {
	items, err := s.repo.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.refreshStock(ctx, items), nil
}

func (s *service) FindSelectedByIDs(ctx context.Context, uid int64, ids []int64) ([]domain.CartItem, error) {
	items, err := s.repo.FindByIDs(ctx, uid, ids)
	if err != nil {
		return nil, err
	}
	res := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if item.Selected {
			res = append(res, item)
		}
	}
	return s.refreshStock(ctx, res), nil
}

func (s *service) RemoveByIDs(ctx context.Context, uid int64, ids []int64) error {
	return s.repo.Delete(ctx, uid, ids)
}

// refreshStock 把实时库存带回给前端, 查询失败就保持0, 由下单时的强校验兜底
func (s *service) refreshStock(ctx context.Context, items []domain.CartItem) []domain.CartItem {
	for i := range items {
		sku, err := s.productSvc.FindSKUByID(ctx, items[i].SKUID)
		if err != nil {
			continue
		}
		items[i].Stock = sku.Stock
		items[i].Price = sku.Price
	}
	return items
}
