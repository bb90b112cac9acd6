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
	"github.com/ecodeclub/mall/internal/product/internal/domain"
	"github.com/ecodeclub/mall/internal/product/internal/repository/dao"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (domain.SPU, error)
	FindSKUByID(ctx context.Context, id int64) (domain.SKU, error)
}

func NewProductRepository(d dao.ProductDAO) ProductRepository {
	return &productRepository{dao: d}
}

type productRepository struct {
	dao dao.ProductDAO
}

func (p *productRepository) FindByID(ctx context.Context, id int64) (domain.SPU, error) {
	spu, err := p.dao.FindSPUByID(ctx, id)
	if err != nil {
		return domain.SPU{}, err
	}
	skus, err := p.dao.FindSKUsBySPUID(ctx, spu.Id)
	if err != nil {
		return domain.SPU{}, err
	}
	return p.toDomain(spu, skus), nil
}

func (p *productRepository) FindSKUByID(ctx context.Context, id int64) (domain.SKU, error) {
	sku, err := p.dao.FindSKUByID(ctx, id)
	if err != nil {
		return domain.SKU{}, err
	}
	return p.toSKUDomain(sku), nil
}

func (p *productRepository) toDomain(spu dao.SPU, skus []dao.SKU) domain.SPU {
	var specKeys []string
	_ = json.Unmarshal([]byte(spu.SpecKeys), &specKeys)
	return domain.SPU{
		ID:       spu.Id,
		SN:       spu.SN,
		Name:     spu.Name,
		Desc:     spu.Desc,
		Image:    spu.Image,
		SpecKeys: specKeys,
		Status:   domain.Status(spu.Status),
		SKUs: slice.Map(skus, func(idx int, src dao.SKU) domain.SKU {
			return p.toSKUDomain(src)
		}),
	}
}

func (p *productRepository) toSKUDomain(sku dao.SKU) domain.SKU {
	attrs := make(map[string]string)
	_ = json.Unmarshal([]byte(sku.Attrs), &attrs)
	return domain.SKU{
		ID:     sku.Id,
		SN:     sku.SN,
		Price:  sku.Price,
		Stock:  sku.Stock,
		Image:  sku.Image,
		Attrs:  attrs,
		Status: domain.Status(sku.Status),
	}
}
