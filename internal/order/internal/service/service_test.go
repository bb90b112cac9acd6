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
	"testing"

	"github.com/ecodeclub/mall/internal/address"
	"github.com/ecodeclub/mall/internal/cart"
	"github.com/ecodeclub/mall/internal/order/internal/domain"
	"github.com/ecodeclub/mall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/mall/internal/pkg/snowflake"
	"github.com/ecodeclub/mall/internal/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testUID       = 234
	testAddressID = 7
)

type fakeProductService struct{}

func (f *fakeProductService) FindByID(_ context.Context, id int64) (product.SPU, error) {
	spus := map[int64]product.SPU{
		5: {
			ID:       5,
			SN:       "SPUSN5",
			Name:     "商品5",
			SpecKeys: []string{"color"},
			SKUs: []product.SKU{
				{ID: 51, SN: "SKU51", Price: 100, Stock: 1, Attrs: map[string]string{"color": "red"}},
			},
		},
		6: {
			ID:   6,
			SN:   "SPUSN6",
			Name: "商品6",
			SKUs: []product.SKU{
				{ID: 61, SN: "SKU61", Price: 200, Stock: 10},
			},
		},
	}
	spu, ok := spus[id]
	if !ok {
		return product.SPU{}, gorm.ErrRecordNotFound
	}
	return spu, nil
}

func (f *fakeProductService) FindSKUByID(_ context.Context, id int64) (product.SKU, error) {
	skus := map[int64]product.SKU{
		11: {ID: 11, SN: "SKU11", Price: 50, Stock: 10},
		21: {ID: 21, SN: "SKU21", Price: 30, Stock: 10},
		31: {ID: 31, SN: "SKU31", Price: 70, Stock: 0},
	}
	sku, ok := skus[id]
	if !ok {
		return product.SKU{}, gorm.ErrRecordNotFound
	}
	return sku, nil
}

type fakeCartService struct {
	lines      []cart.CartItem
	removedIDs []int64
}

func (f *fakeCartService) Add(_ context.Context, _, _, _ int64, _ map[string]string) (int64, error) {
	panic("不应该被调用")
}

func (f *fakeCartService) UpdateQuantity(_ context.Context, _, _, _ int64) error {
	panic("不应该被调用")
}

func (f *fakeCartService) UpdateSelected(_ context.Context, _ int64, _ []int64, _ bool) error {
	panic("不应该被调用")
}

func (f *fakeCartService) Delete(_ context.Context, _ int64, _ []int64) error {
	panic("不应该被调用")
}

func (f *fakeCartService) Clear(_ context.Context, _ int64) error {
	panic("不应该被调用")
}

func (f *fakeCartService) List(_ context.Context, _ int64) ([]cart.CartItem, error) {
	return f.lines, nil
}

func (f *fakeCartService) FindSelectedByIDs(_ context.Context, uid int64, ids []int64) ([]cart.CartItem, error) {
	var res []cart.CartItem
	for _, line := range f.lines {
		if line.UID != uid || !line.Selected {
			continue
		}
		for _, id := range ids {
			if line.ID == id {
				res = append(res, line)
			}
		}
	}
	return res, nil
}

func (f *fakeCartService) RemoveByIDs(_ context.Context, _ int64, ids []int64) error {
	f.removedIDs = append(f.removedIDs, ids...)
	return nil
}

type fakeAddressService struct{}

func (f *fakeAddressService) FindByID(_ context.Context, id, uid int64) (address.Address, error) {
	if id != testAddressID || uid != testUID {
		return address.Address{}, gorm.ErrRecordNotFound
	}
	return address.Address{
		ID:       id,
		UID:      uid,
		Name:     "张三",
		Phone:    "13888888888",
		Province: "广东省",
		City:     "深圳市",
		County:   "南山区",
		Detail:   "科技园1号",
	}, nil
}

func newTestService(t *testing.T, cartSvc cart.Service) (Service, *fakeOrderRepository) {
	t.Helper()
	repo := newFakeOrderRepository()
	subOrderIDGen, err := snowflake.NewGenerator(1)
	require.NoError(t, err)
	svc := NewService(repo, &fakeProductService{}, cartSvc, &fakeAddressService{},
		sequencenumber.NewGenerator(), subOrderIDGen)
	return svc, repo
}

func defaultCartLines() []cart.CartItem {
	return []cart.CartItem{
		{ID: 1, UID: testUID, SPUID: 100, SKUID: 11, SKUSN: "SKU11", Name: "商品A", Price: 50, Quantity: 1, Selected: true},
		{ID: 2, UID: testUID, SPUID: 200, SKUID: 21, SKUSN: "SKU21", Name: "商品B", Price: 30, Quantity: 1, Selected: true},
		{ID: 3, UID: testUID, SPUID: 300, SKUID: 31, SKUSN: "SKU31", Name: "商品C", Price: 70, Quantity: 1, Selected: false},
	}
}

func TestService_CreateOrder_FromCart(t *testing.T) {
	cartSvc := &fakeCartService{lines: defaultCartLines()}
	svc, repo := newTestService(t, cartSvc)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		BuyerID:    testUID,
		IsFromCart: true,
		CartIDs:    []int64{1, 2},
		AddressID:  testAddressID,
	})
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.NotEmpty(t, order.SN)
	assert.Equal(t, int64(80), order.TotalAmount)
	assert.Equal(t, int64(80), order.ActualPayAmount)
	assert.Equal(t, order.ActualPayAmount, order.TotalAmount-order.DiscountAmount)
	assert.Equal(t, domain.PayStatusWaiting, order.PayStatus)
	assert.Equal(t, "张三", order.Receiver.Name)
	assert.Contains(t, order.Receiver.Address, "深圳市")
	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		assert.NotZero(t, item.ID)
		assert.Equal(t, domain.DeliveryStatusWaiting, item.DeliveryStatus)
		assert.Equal(t, domain.AfterSaleStatusNone, item.AfterSaleStatus)
		assert.Zero(t, item.WorkOrderID)
	}
	// 被消费的购物车行被清理, 未勾选的行不受影响
	assert.Equal(t, []int64{1, 2}, cartSvc.removedIDs)
	assert.Equal(t, 1, repo.createOrderCalls)
}

func TestService_CreateOrder_DirectBuy(t *testing.T) {
	testCases := []struct {
		name    string
		input   CreateOrderInput
		wantErr error
	}{
		{
			name: "单规格直接购买成功",
			input: CreateOrderInput{
				BuyerID:     testUID,
				CommodityID: 6,
				Quantity:    2,
				AddressID:   testAddressID,
			},
		},
		{
			name: "库存不足",
			input: CreateOrderInput{
				BuyerID:     testUID,
				CommodityID: 5,
				Quantity:    2,
				Attrs:       map[string]string{"color": "red"},
				AddressID:   testAddressID,
			},
			wantErr: ErrOutOfStock,
		},
		{
			name: "规格选择不完整",
			input: CreateOrderInput{
				BuyerID:     testUID,
				CommodityID: 5,
				Quantity:    1,
				AddressID:   testAddressID,
			},
			wantErr: ErrIncompleteSpecs,
		},
		{
			name: "地址无效",
			input: CreateOrderInput{
				BuyerID:     testUID,
				CommodityID: 6,
				Quantity:    1,
				AddressID:   999,
			},
			wantErr: ErrInvalidAddress,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newTestService(t, &fakeCartService{})
			order, err := svc.CreateOrder(context.Background(), tc.input)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				// 校验失败不允许有任何写入
				assert.Zero(t, repo.createOrderCalls)
				return
			}
			require.NoError(t, err)
			require.Len(t, order.Items, 1)
			assert.Equal(t, tc.input.Quantity*200, order.TotalAmount)
			assert.Equal(t, order.TotalAmount-order.DiscountAmount, order.ActualPayAmount)
		})
	}
}

func TestService_CreateOrder_EmptySelection(t *testing.T) {
	svc, repo := newTestService(t, &fakeCartService{lines: defaultCartLines()})
	// 只引用了未勾选的行
	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		BuyerID:    testUID,
		IsFromCart: true,
		CartIDs:    []int64{3},
		AddressID:  testAddressID,
	})
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Zero(t, repo.createOrderCalls)
}

func TestService_MarkOrderPaid_Idempotent(t *testing.T) {
	svc, repo := newTestService(t, &fakeCartService{})
	order := mustCreateDirectOrder(t, svc)

	err := svc.MarkOrderPaid(context.Background(), order.SN, domain.PayWayWechatNative, 1000)
	require.NoError(t, err)
	got := repo.orders[order.ID]
	assert.Equal(t, domain.PayStatusPaid, got.PayStatus)
	assert.Equal(t, int64(1000), got.PayTime)

	// 重复事件不改变已有支付信息
	err = svc.MarkOrderPaid(context.Background(), order.SN, domain.PayWayWechatJSAPI, 2000)
	require.NoError(t, err)
	got = repo.orders[order.ID]
	assert.Equal(t, domain.PayStatusPaid, got.PayStatus)
	assert.Equal(t, int64(1000), got.PayTime)
	assert.Equal(t, domain.PayWayWechatNative, got.PayWay)
}

func TestService_DeliverOrderItem(t *testing.T) {
	svc, repo := newTestService(t, &fakeCartService{})
	order := mustCreateDirectOrder(t, svc)
	subOrderID := order.Items[0].ID

	t.Run("缺物流信息", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeliverOrderItem(context.Background(), subOrderID, "SF", ""), ErrEmptyLogistics)
	})

	t.Run("正常发货", func(t *testing.T) {
		err := svc.DeliverOrderItem(context.Background(), subOrderID, "SF", "SF123")
		require.NoError(t, err)
		item := repo.items[subOrderID]
		assert.Equal(t, domain.DeliveryStatusDelivered, item.DeliveryStatus)
		assert.Equal(t, "SF", item.LogisticsCompany)
		assert.Equal(t, "SF123", item.LogisticsNo)
		assert.NotZero(t, repo.orders[order.ID].DeliveryTime)
	})

	t.Run("重复发货被拒绝", func(t *testing.T) {
		err := svc.DeliverOrderItem(context.Background(), subOrderID, "SF", "SF456")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestService_ApplyAfterSale(t *testing.T) {
	svc, repo := newTestService(t, &fakeCartService{})
	order := mustCreateDirectOrder(t, svc)
	subOrderID := order.Items[0].ID

	t.Run("原因为空", func(t *testing.T) {
		_, err := svc.ApplyAfterSale(context.Background(), testUID, subOrderID,
			domain.AfterSaleTypeRefundOnly, "", 1)
		assert.ErrorIs(t, err, ErrEmptyReason)
	})

	t.Run("首次申请成功", func(t *testing.T) {
		wo, err := svc.ApplyAfterSale(context.Background(), testUID, subOrderID,
			domain.AfterSaleTypeRefundOnly, "尺码不对", 1)
		require.NoError(t, err)
		assert.NotZero(t, wo.ID)
		assert.NotEmpty(t, wo.SN)
		assert.Equal(t, domain.AfterSaleStatusRequested, wo.Status)

		item := repo.items[subOrderID]
		assert.Equal(t, domain.AfterSaleStatusRequested, item.AfterSaleStatus)
		assert.Equal(t, wo.ID, item.WorkOrderID)
	})

	t.Run("申请中不允许重复申请", func(t *testing.T) {
		_, err := svc.ApplyAfterSale(context.Background(), testUID, subOrderID,
			domain.AfterSaleTypeRefundOnly, "再次申请", 1)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("别人的子订单查不到", func(t *testing.T) {
		_, err := svc.ApplyAfterSale(context.Background(), testUID+1, subOrderID,
			domain.AfterSaleTypeRefundOnly, "不是我的", 1)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestService_CancelAfterSale(t *testing.T) {
	svc, repo := newTestService(t, &fakeCartService{})
	order := mustCreateDirectOrder(t, svc)
	subOrderID := order.Items[0].ID

	wo, err := svc.ApplyAfterSale(context.Background(), testUID, subOrderID,
		domain.AfterSaleTypeRefundOnly, "不想要了", 1)
	require.NoError(t, err)

	err = svc.CancelAfterSale(context.Background(), testUID, wo.ID)
	require.NoError(t, err)

	// 撤销后子订单回到无售后, 工单ID清空
	item := repo.items[subOrderID]
	assert.Equal(t, domain.AfterSaleStatusNone, item.AfterSaleStatus)
	assert.Zero(t, item.WorkOrderID)

	// 工单已不存在, 再撤销报未找到
	err = svc.CancelAfterSale(context.Background(), testUID, wo.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestService_CancelAfterSale_OnlyFromRequested(t *testing.T) {
	svc, _ := newTestService(t, &fakeCartService{})
	order := mustCreateDirectOrder(t, svc)

	wo, err := svc.ApplyAfterSale(context.Background(), testUID, order.Items[0].ID,
		domain.AfterSaleTypeReturnAndRefund, "质量问题", 1)
	require.NoError(t, err)
	require.NoError(t, svc.AgreeAfterSale(context.Background(), wo.ID))

	// 商家已同意, 买家不能再撤销
	err = svc.CancelAfterSale(context.Background(), testUID, wo.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_FillReturnLogistics(t *testing.T) {
	svc, repo := newTestService(t, &fakeCartService{})
	order := mustCreateDirectOrder(t, svc)

	wo, err := svc.ApplyAfterSale(context.Background(), testUID, order.Items[0].ID,
		domain.AfterSaleTypeReturnAndRefund, "质量问题", 1)
	require.NoError(t, err)

	// 状态1不允许回填物流
	err = svc.FillReturnLogistics(context.Background(), testUID, wo.ID, "SF", "SF123")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, svc.AgreeAfterSale(context.Background(), wo.ID))

	err = svc.FillReturnLogistics(context.Background(), testUID, wo.ID, "SF", "SF123")
	require.NoError(t, err)
	got := repo.workOrders[wo.ID]
	assert.Equal(t, "SF", got.LogisticsCompany)
	assert.Equal(t, "SF123", got.LogisticsNo)

	err = svc.FillReturnLogistics(context.Background(), testUID, wo.ID, "", "")
	assert.ErrorIs(t, err, ErrEmptyLogistics)
}

func TestService_RefuseAndResubmit(t *testing.T) {
	svc, repo := newTestService(t, &fakeCartService{})
	order := mustCreateDirectOrder(t, svc)
	subOrderID := order.Items[0].ID

	wo, err := svc.ApplyAfterSale(context.Background(), testUID, subOrderID,
		domain.AfterSaleTypeRefundOnly, "不想要了", 1)
	require.NoError(t, err)

	// 拒绝必须带原因
	assert.ErrorIs(t, svc.RefuseAfterSale(context.Background(), wo.ID, ""), ErrEmptyReason)

	require.NoError(t, svc.RefuseAfterSale(context.Background(), wo.ID, "超过退货期限"))
	assert.Equal(t, domain.AfterSaleStatusRefused, repo.workOrders[wo.ID].Status)
	assert.Equal(t, domain.AfterSaleStatusRefused, repo.items[subOrderID].AfterSaleStatus)

	// 已拒绝的工单不能再拒绝/同意
	assert.ErrorIs(t, svc.RefuseAfterSale(context.Background(), wo.ID, "再拒一次"), ErrInvalidTransition)
	assert.ErrorIs(t, svc.AgreeAfterSale(context.Background(), wo.ID), ErrInvalidTransition)

	// 重新提交回到申请中
	err = svc.ResubmitAfterSale(context.Background(), testUID, wo.ID,
		domain.AfterSaleTypeReturnAndRefund, "补充凭证后重新申请", 1)
	require.NoError(t, err)
	got := repo.workOrders[wo.ID]
	assert.Equal(t, domain.AfterSaleStatusRequested, got.Status)
	assert.Equal(t, domain.AfterSaleTypeReturnAndRefund, got.Type)
	assert.Empty(t, got.RefuseReason)
	assert.Equal(t, domain.AfterSaleStatusRequested, repo.items[subOrderID].AfterSaleStatus)

	// 申请中不允许重新提交
	err = svc.ResubmitAfterSale(context.Background(), testUID, wo.ID,
		domain.AfterSaleTypeRefundOnly, "再来一次", 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_ConfirmAfterSale(t *testing.T) {
	svc, repo := newTestService(t, &fakeCartService{})
	order := mustCreateDirectOrder(t, svc)
	subOrderID := order.Items[0].ID
	require.NoError(t, svc.MarkOrderPaid(context.Background(), order.SN, domain.PayWayWechatNative, 1000))

	wo, err := svc.ApplyAfterSale(context.Background(), testUID, subOrderID,
		domain.AfterSaleTypeReturnAndRefund, "质量问题", 1)
	require.NoError(t, err)

	// 申请中不允许确认收货
	assert.ErrorIs(t, svc.ConfirmAfterSale(context.Background(), wo.ID), ErrInvalidTransition)

	require.NoError(t, svc.AgreeAfterSale(context.Background(), wo.ID))
	require.NoError(t, svc.ConfirmAfterSale(context.Background(), wo.ID))

	assert.Equal(t, domain.AfterSaleStatusCompleted, repo.workOrders[wo.ID].Status)
	item := repo.items[subOrderID]
	assert.Equal(t, domain.AfterSaleStatusCompleted, item.AfterSaleStatus)
	assert.Equal(t, domain.DeliveryStatusRefunded, item.DeliveryStatus)
	// 唯一的子订单退款后, 订单整体变为已退款
	assert.Equal(t, domain.PayStatusRefunded, repo.orders[order.ID].PayStatus)
}

func mustCreateDirectOrder(t *testing.T, svc Service) domain.Order {
	t.Helper()
	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		BuyerID:     testUID,
		CommodityID: 6,
		Quantity:    1,
		AddressID:   testAddressID,
	})
	require.NoError(t, err)
	return order
}
