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

	"github.com/ecodeclub/mall/internal/address/internal/domain"
	"github.com/ecodeclub/mall/internal/address/internal/repository/dao"
)

type AddressRepository interface {
	FindByID(ctx context.Context, id, uid int64) (domain.Address, error)
}

func NewAddressRepository(d dao.AddressDAO) AddressRepository {
	return &addressRepository{dao: d}
}

type addressRepository struct {
	dao dao.AddressDAO
}

func (a *addressRepository) FindByID(ctx context.Context, id, uid int64) (domain.Address, error) {
	addr, err := a.dao.FindByIDAndUID(ctx, id, uid)
	if err != nil {
		return domain.Address{}, err
	}
	return domain.Address{
		ID:       addr.Id,
		UID:      addr.Uid,
		Name:     addr.Name,
		Phone:    addr.Phone,
		Province: addr.Province,
		City:     addr.City,
		County:   addr.County,
		Detail:   addr.Detail,
	}, nil
}
