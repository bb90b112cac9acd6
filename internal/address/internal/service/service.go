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

	"github.com/ecodeclub/mall/internal/address/internal/domain"
	"github.com/ecodeclub/mall/internal/address/internal/repository"
)

type Service interface {
	// FindByID 只能查到自己的地址, 查不到视为前置条件不满足
	FindByID(ctx context.Context, id, uid int64) (domain.Address, error)
}

func NewService(repo repository.AddressRepository) Service {
	return &service{repo: repo}
}

type service struct {
	repo repository.AddressRepository
}

func (s *service) FindByID(ctx context.Context, id, uid int64) (domain.Address, error) {
	return s.repo.FindByID(ctx, id, uid)
}
