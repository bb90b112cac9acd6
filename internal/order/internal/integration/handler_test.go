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

//go:build e2e

package integration

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ecodeclub/ekit/iox"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mall/internal/address"
	"github.com/ecodeclub/mall/internal/cart"
	"github.com/ecodeclub/mall/internal/order/internal/domain"
	"github.com/ecodeclub/mall/internal/order/internal/errs"
	"github.com/ecodeclub/mall/internal/order/internal/integration/startup"
	"github.com/ecodeclub/mall/internal/order/internal/repository/dao"
	"github.com/ecodeclub/mall/internal/order/internal/service"
	"github.com/ecodeclub/mall/internal/order/internal/web"
	"github.com/ecodeclub/mall/internal/product"
	"github.com/ecodeclub/mall/internal/test"
	testioc "github.com/ecodeclub/mall/internal/test/ioc"
	"github.com/ego-component/egorm"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/server/egin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	testUID       = 234
	testAddressID = 11
)

type fakeProductService struct{}

func (f *fakeProductService) FindByID(_ context.Context, id int64) (product.SPU, error) {
	spus := map[int64]product.SPU{
		// 单规格商品
		100: {
			ID:     100,
			SN:     "SPUSN100",
			Name:   "商品SPU100",
			Status: product.StatusOnShelf,
			SKUs: []product.SKU{
				{ID: 1000, SN: "SKUSN1000", Price: 990, Stock: 10, Status: product.StatusOnShelf},
			},
		},
		// 多规格商品
		101: {
			ID:       101,
			SN:       "SPUSN101",
			Name:     "商品SPU101",
			Status:   product.StatusOnShelf,
			SpecKeys: []string{"color"},
			SKUs: []product.SKU{
				{ID: 1010, SN: "SKUSN1010", Price: 9900, Stock: 1,
					Attrs: map[string]string{"color": "red"}, Status: product.StatusOnShelf},
				{ID: 1011, SN: "SKUSN1011", Price: 9900, Stock: 0,
					Attrs: map[string]string{"color": "blue"}, Status: product.StatusOnShelf},
			},
		},
	}
	spu, ok := spus[id]
	if !ok {
		return product.SPU{}, fmt.Errorf("fakeProductService未配置的商品ID=%d", id)
	}
	return spu, nil
}

func (f *fakeProductService) FindSKUByID(ctx context.Context, id int64) (product.SKU, error) {
	for _, spuID := range []int64{100, 101} {
		spu, err := f.FindByID(ctx, spuID)
		if err != nil {
			return product.SKU{}, err
		}
		for _, sku := range spu.SKUs {
			if sku.ID == id {
				return sku, nil
			}
		}
	}
	return product.SKU{}, fmt.Errorf("fakeProductService未配置的SKU ID=%d", id)
}

// fakeCartService 只支持下单路径用到的两个方法
type fakeCartService struct {
	lines      map[int64]cart.CartItem
	removedIDs []int64
}

func (f *fakeCartService) FindSelectedByIDs(_ context.Context, uid int64, ids []int64) ([]cart.CartItem, error) {
	res := make([]cart.CartItem, 0, len(ids))
	for _, id := range ids {
		line, ok := f.lines[id]
		if !ok || line.UID != uid {
			continue
		}
		res = append(res, line)
	}
	return res, nil
}

func (f *fakeCartService) RemoveByIDs(_ context.Context, _ int64, ids []int64) error {
	f.removedIDs = append(f.removedIDs, ids...)
	return nil
}

func (f *fakeCartService) Add(_ context.Context, _, _, _ int64, _ map[string]string) (int64, error) {
	panic("不应该调用 Add")
}

func (f *fakeCartService) UpdateQuantity(_ context.Context, _, _, _ int64) error {
	panic("不应该调用 UpdateQuantity")
}

func (f *fakeCartService) UpdateSelected(_ context.Context, _ int64, _ []int64, _ bool) error {
	panic("不应该调用 UpdateSelected")
}

func (f *fakeCartService) Delete(_ context.Context, _ int64, _ []int64) error {
	panic("不应该调用 Delete")
}

func (f *fakeCartService) Clear(_ context.Context, _ int64) error {
	panic("不应该调用 Clear")
}

func (f *fakeCartService) List(_ context.Context, _ int64) ([]cart.CartItem, error) {
	panic("不应该调用 List")
}

type fakeAddressService struct{}

func (f *fakeAddressService) FindByID(_ context.Context, id, uid int64) (address.Address, error) {
	if id != testAddressID || uid != testUID {
		return address.Address{}, fmt.Errorf("fakeAddressService未配置的地址ID=%d", id)
	}
	return address.Address{
		ID:       testAddressID,
		UID:      testUID,
		Name:     "王二",
		Phone:    "13800001111",
		Province: "广东省",
		City:     "深圳市",
		County:   "南山区",
		Detail:   "科技园路1号",
	}, nil
}

type HandlerTestSuite struct {
	suite.Suite
	server    *egin.Component
	db        *egorm.Component
	svc       service.Service
	cartSvc   *fakeCartService
	requestID atomic.Int64
}

func (s *HandlerTestSuite) SetupSuite() {
	s.cartSvc = &fakeCartService{
		lines: map[int64]cart.CartItem{
			31: {ID: 31, UID: testUID, SPUID: 100, SKUID: 1000, SKUSN: "SKUSN1000",
				Name: "商品SPU100", Price: 990, Stock: 10, Quantity: 2, Selected: true},
			32: {ID: 32, UID: testUID, SPUID: 101, SKUID: 1010, SKUSN: "SKUSN1010",
				Name: "商品SPU101", Price: 9900, Stock: 1, Quantity: 1,
				Attrs: map[string]string{"color": "red"}, Selected: true},
		},
	}
	module, err := startup.InitModule(&fakeProductService{}, s.cartSvc, &fakeAddressService{})
	require.NoError(s.T(), err)

	econf.Set("server", map[string]any{"contextTimeout": "1s"})
	server := egin.Load("server").Build()
	server.Use(func(ctx *gin.Context) {
		ctx.Set("_session", session.NewMemorySession(session.Claims{
			Uid: testUID,
		}))
	})
	module.Handler.PrivateRoutes(server.Engine)
	module.AdminHandler.PrivateRoutes(server.Engine)

	s.server = server
	s.svc = module.Svc
	s.db = testioc.InitDB()
	err = dao.InitTables(s.db)
	require.NoError(s.T(), err)
	s.requestID.Store(time.Now().UnixNano())
}

func (s *HandlerTestSuite) TearDownSuite() {
	for _, table := range []string{"orders", "order_items", "work_orders"} {
		err := s.db.Exec(fmt.Sprintf("DROP TABLE `%s`", table)).Error
		require.NoError(s.T(), err)
	}
}

func (s *HandlerTestSuite) TearDownTest() {
	for _, table := range []string{"orders", "order_items", "work_orders"} {
		err := s.db.Exec(fmt.Sprintf("TRUNCATE TABLE `%s`", table)).Error
		require.NoError(s.T(), err)
	}
}

// newRequestID 请求ID在redis里去重且不过期, 每次都要唯一
func (s *HandlerTestSuite) newRequestID() string {
	return fmt.Sprintf("request-%d", s.requestID.Add(1))
}

func (s *HandlerTestSuite) createOrder(t *testing.T, req web.CreateOrderReq) web.CreateOrderResp {
	t.Helper()
	if req.RequestID == "" {
		req.RequestID = s.newRequestID()
	}
	httpReq, err := http.NewRequest(http.MethodPost,
		"/order/create", iox.NewJSONReader(req))
	httpReq.Header.Set("content-type", "application/json")
	require.NoError(t, err)
	recorder := test.NewJSONResponseRecorder[web.CreateOrderResp]()
	s.server.ServeHTTP(recorder, httpReq)
	require.Equal(t, 200, recorder.Code)
	return recorder.MustScan().Data
}

func (s *HandlerTestSuite) orderDetail(t *testing.T, orderID int64) web.Order {
	t.Helper()
	httpReq, err := http.NewRequest(http.MethodGet,
		fmt.Sprintf("/order/detail?order_id=%d", orderID), nil)
	require.NoError(t, err)
	recorder := test.NewJSONResponseRecorder[web.DetailOrderResp]()
	s.server.ServeHTTP(recorder, httpReq)
	require.Equal(t, 200, recorder.Code)
	return recorder.MustScan().Data.Order
}

func (s *HandlerTestSuite) TestCreateOrder() {
	testCases := []struct {
		name           string
		req            web.CreateOrderReq
		assertRespFunc func(t *testing.T, resp web.CreateOrderResp)
	}{
		{
			name: "直接购买_单规格商品",
			req: web.CreateOrderReq{
				CommodityID: 100,
				Quantity:    3,
				AddressID:   testAddressID,
				Remark:      "发顺丰",
			},
			assertRespFunc: func(t *testing.T, resp web.CreateOrderResp) {
				t.Helper()
				assert.NotZero(t, resp.OrderID)
				assert.NotZero(t, resp.OrderSN)
				assert.Equal(t, int64(2970), resp.TotalAmount)
				assert.Equal(t, int64(2970), resp.ActualPayAmount)
			},
		},
		{
			name: "直接购买_多规格商品",
			req: web.CreateOrderReq{
				CommodityID: 101,
				Quantity:    1,
				SKU:         map[string]string{"color": "red"},
				AddressID:   testAddressID,
			},
			assertRespFunc: func(t *testing.T, resp web.CreateOrderResp) {
				t.Helper()
				assert.NotZero(t, resp.OrderSN)
				assert.Equal(t, int64(9900), resp.TotalAmount)
			},
		},
	}
	for _, tc := range testCases {
		s.T().Run(tc.name, func(t *testing.T) {
			resp := s.createOrder(t, tc.req)
			tc.assertRespFunc(t, resp)

			order := s.orderDetail(t, resp.OrderID)
			assert.Equal(t, resp.OrderSN, order.SN)
			assert.Equal(t, domain.PayStatusWaiting.ToUint8(), order.PayStatus)
			assert.Equal(t, "王二", order.ReceiverName)
			assert.Equal(t, "广东省深圳市南山区科技园路1号", order.ReceiverAddress)
			require.Len(t, order.GoodsList, 1)
			assert.NotZero(t, order.GoodsList[0].SubOrderID)
			assert.Equal(t, tc.req.CommodityID, order.GoodsList[0].CommodityID)
		})
	}
}

func (s *HandlerTestSuite) TestCreateOrderFromCart() {
	resp := s.createOrder(s.T(), web.CreateOrderReq{
		IsFromCart: true,
		CartIDs:    []int64{31, 32},
		AddressID:  testAddressID,
	})
	// 990*2 + 9900*1
	assert.Equal(s.T(), int64(11880), resp.TotalAmount)
	assert.Equal(s.T(), []int64{31, 32}, s.cartSvc.removedIDs)

	order := s.orderDetail(s.T(), resp.OrderID)
	require.Len(s.T(), order.GoodsList, 2)
	quantities := map[int64]int64{}
	for _, item := range order.GoodsList {
		quantities[item.CommodityID] = item.Quantity
		if item.CommodityID == 101 {
			assert.Equal(s.T(), map[string]string{"color": "red"}, item.SKU)
		}
	}
	assert.Equal(s.T(), map[int64]int64{100: 2, 101: 1}, quantities)
}

func (s *HandlerTestSuite) TestCreateOrderFailed() {
	testCases := []struct {
		name     string
		req      web.CreateOrderReq
		wantResp test.Result[any]
	}{
		{
			name: "请求ID为空",
			req: web.CreateOrderReq{
				CommodityID: 100,
				Quantity:    1,
				AddressID:   testAddressID,
			},
			wantResp: test.Result[any]{
				Code: errs.SystemError.Code,
				Msg:  errs.SystemError.Msg,
			},
		},
		{
			name: "库存不足",
			req: web.CreateOrderReq{
				RequestID:   s.newRequestID(),
				CommodityID: 100,
				Quantity:    11,
				AddressID:   testAddressID,
			},
			wantResp: test.Result[any]{
				Code: errs.InvalidOrderInput.Code,
				Msg:  errs.InvalidOrderInput.Msg,
			},
		},
		{
			name: "多规格商品未选规格",
			req: web.CreateOrderReq{
				RequestID:   s.newRequestID(),
				CommodityID: 101,
				Quantity:    1,
				AddressID:   testAddressID,
			},
			wantResp: test.Result[any]{
				Code: errs.InvalidOrderInput.Code,
				Msg:  errs.InvalidOrderInput.Msg,
			},
		},
		{
			name: "收货地址不属于当前用户",
			req: web.CreateOrderReq{
				RequestID:   s.newRequestID(),
				CommodityID: 100,
				Quantity:    1,
				AddressID:   999,
			},
			wantResp: test.Result[any]{
				Code: errs.InvalidOrderInput.Code,
				Msg:  errs.InvalidOrderInput.Msg,
			},
		},
		{
			name: "购物车勾选为空",
			req: web.CreateOrderReq{
				RequestID:  s.newRequestID(),
				IsFromCart: true,
				AddressID:  testAddressID,
			},
			wantResp: test.Result[any]{
				Code: errs.InvalidOrderInput.Code,
				Msg:  errs.InvalidOrderInput.Msg,
			},
		},
	}
	for _, tc := range testCases {
		s.T().Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost,
				"/order/create", iox.NewJSONReader(tc.req))
			req.Header.Set("content-type", "application/json")
			require.NoError(t, err)
			recorder := test.NewJSONResponseRecorder[any]()
			s.server.ServeHTTP(recorder, req)
			require.Equal(t, 500, recorder.Code)
			assert.Equal(t, tc.wantResp, recorder.MustScan())
		})
	}
}

func (s *HandlerTestSuite) TestCreateOrderDuplicateRequestID() {
	t := s.T()
	requestID := s.newRequestID()
	req := web.CreateOrderReq{
		RequestID:   requestID,
		CommodityID: 100,
		Quantity:    1,
		AddressID:   testAddressID,
	}
	httpReq, err := http.NewRequest(http.MethodPost,
		"/order/create", iox.NewJSONReader(req))
	httpReq.Header.Set("content-type", "application/json")
	require.NoError(t, err)
	recorder := test.NewJSONResponseRecorder[web.CreateOrderResp]()
	s.server.ServeHTTP(recorder, httpReq)
	require.Equal(t, 200, recorder.Code)

	httpReq, err = http.NewRequest(http.MethodPost,
		"/order/create", iox.NewJSONReader(req))
	httpReq.Header.Set("content-type", "application/json")
	require.NoError(t, err)
	dupRecorder := test.NewJSONResponseRecorder[any]()
	s.server.ServeHTTP(dupRecorder, httpReq)
	require.Equal(t, 500, dupRecorder.Code)
	assert.Equal(t, errs.SystemError.Code, dupRecorder.MustScan().Code)
}

func (s *HandlerTestSuite) TestListOrders() {
	t := s.T()
	for i := 0; i < 3; i++ {
		s.createOrder(t, web.CreateOrderReq{
			CommodityID: 100,
			Quantity:    1,
			AddressID:   testAddressID,
		})
	}

	httpReq, err := http.NewRequest(http.MethodGet, "/order/lists?page=1&size=2", nil)
	require.NoError(t, err)
	recorder := test.NewJSONResponseRecorder[web.ListOrdersResp]()
	s.server.ServeHTTP(recorder, httpReq)
	require.Equal(t, 200, recorder.Code)
	resp := recorder.MustScan().Data
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 1, resp.CurrentPage)
	assert.Equal(t, 2, resp.LastPage)
	assert.Equal(t, 2, resp.PerPage)
	require.Len(t, resp.Lists, 2)

	// 按支付状态过滤, 尚无已支付订单
	httpReq, err = http.NewRequest(http.MethodGet, "/order/lists?page=1&size=10&pay_status=1", nil)
	require.NoError(t, err)
	recorder = test.NewJSONResponseRecorder[web.ListOrdersResp]()
	s.server.ServeHTTP(recorder, httpReq)
	require.Equal(t, 200, recorder.Code)
	assert.Equal(t, int64(0), recorder.MustScan().Data.Total)
}

func (s *HandlerTestSuite) TestDeleteOrder() {
	t := s.T()
	resp := s.createOrder(t, web.CreateOrderReq{
		CommodityID: 100,
		Quantity:    1,
		AddressID:   testAddressID,
	})

	httpReq, err := http.NewRequest(http.MethodPost,
		"/order/delete", iox.NewJSONReader(web.DeleteOrderReq{OrderID: resp.OrderID}))
	httpReq.Header.Set("content-type", "application/json")
	require.NoError(t, err)
	recorder := test.NewJSONResponseRecorder[any]()
	s.server.ServeHTTP(recorder, httpReq)
	require.Equal(t, 200, recorder.Code)

	httpReq, err = http.NewRequest(http.MethodGet,
		fmt.Sprintf("/order/detail?order_id=%d", resp.OrderID), nil)
	require.NoError(t, err)
	recorder = test.NewJSONResponseRecorder[any]()
	s.server.ServeHTTP(recorder, httpReq)
	require.Equal(t, 500, recorder.Code)
	assert.Equal(t, errs.OrderNotFound.Code, recorder.MustScan().Code)
}

// TestAfterSaleReturnFlow 退货退款主链路:
// 支付 -> 发货 -> 申请售后 -> 同意退货 -> 回填物流 -> 确认收货
func (s *HandlerTestSuite) TestAfterSaleReturnFlow() {
	t := s.T()
	resp := s.createOrder(t, web.CreateOrderReq{
		CommodityID: 100,
		Quantity:    1,
		AddressID:   testAddressID,
	})
	err := s.svc.MarkOrderPaid(context.Background(),
		resp.OrderSN, domain.PayWayWechatNative, time.Now().UnixMilli())
	require.NoError(t, err)

	order := s.orderDetail(t, resp.OrderID)
	require.Len(t, order.GoodsList, 1)
	subOrderID := order.GoodsList[0].SubOrderID

	s.postOK(t, "/finance/order/delivery", web.DeliverReq{
		SubOrderID:       subOrderID,
		LogisticsCompany: "顺丰",
		LogisticsNo:      "SF001",
	})

	applyReq, err := http.NewRequest(http.MethodPost,
		"/order/after_sales/apply", iox.NewJSONReader(web.ApplyAfterSaleReq{
			SubOrderID: subOrderID,
			Type:       domain.AfterSaleTypeReturnAndRefund,
			Reason:     "尺码不合适",
			ReturnType: 1,
		}))
	applyReq.Header.Set("content-type", "application/json")
	require.NoError(t, err)
	applyRecorder := test.NewJSONResponseRecorder[web.ApplyAfterSaleResp]()
	s.server.ServeHTTP(applyRecorder, applyReq)
	require.Equal(t, 200, applyRecorder.Code)
	workOrderID := applyRecorder.MustScan().Data.WorkOrderID
	require.NotZero(t, workOrderID)

	order = s.orderDetail(t, resp.OrderID)
	assert.Equal(t, domain.AfterSaleStatusRequested.ToUint8(), order.GoodsList[0].Status)
	assert.Equal(t, workOrderID, order.GoodsList[0].WorkOrderID)

	s.postOK(t, "/finance/order/after_sales/handle", web.HandleAfterSaleReq{
		WorkOrderID: workOrderID,
		Action:      "agree",
	})
	s.postOK(t, "/order/after_sales/logistics", web.ReturnLogisticsReq{
		WorkOrderID:      workOrderID,
		LogisticsCompany: "中通",
		LogisticsNo:      "ZT002",
	})
	s.postOK(t, "/finance/order/after_sales/handle", web.HandleAfterSaleReq{
		WorkOrderID: workOrderID,
		Action:      "confirm",
	})

	order = s.orderDetail(t, resp.OrderID)
	assert.Equal(t, domain.AfterSaleStatusCompleted.ToUint8(), order.GoodsList[0].Status)
	assert.Equal(t, domain.DeliveryStatusRefunded.ToUint8(), order.GoodsList[0].DeliveryStatus)
	// 唯一子订单退款后, 订单整体变为已退款
	assert.Equal(t, domain.PayStatusRefunded.ToUint8(), order.PayStatus)
}

// TestAfterSaleRefuseAndResubmit 拒绝 -> 重新提交 -> 撤销
func (s *HandlerTestSuite) TestAfterSaleRefuseAndResubmit() {
	t := s.T()
	resp := s.createOrder(t, web.CreateOrderReq{
		CommodityID: 100,
		Quantity:    1,
		AddressID:   testAddressID,
	})
	order := s.orderDetail(t, resp.OrderID)
	subOrderID := order.GoodsList[0].SubOrderID

	applyReq, err := http.NewRequest(http.MethodPost,
		"/order/after_sales/apply", iox.NewJSONReader(web.ApplyAfterSaleReq{
			SubOrderID: subOrderID,
			Type:       domain.AfterSaleTypeRefundOnly,
			Reason:     "不想要了",
		}))
	applyReq.Header.Set("content-type", "application/json")
	require.NoError(t, err)
	applyRecorder := test.NewJSONResponseRecorder[web.ApplyAfterSaleResp]()
	s.server.ServeHTTP(applyRecorder, applyReq)
	require.Equal(t, 200, applyRecorder.Code)
	workOrderID := applyRecorder.MustScan().Data.WorkOrderID

	// 同一子订单重复申请被状态机拒绝
	dupReq, err := http.NewRequest(http.MethodPost,
		"/order/after_sales/apply", iox.NewJSONReader(web.ApplyAfterSaleReq{
			SubOrderID: subOrderID,
			Type:       domain.AfterSaleTypeRefundOnly,
			Reason:     "再申请一次",
		}))
	dupReq.Header.Set("content-type", "application/json")
	require.NoError(t, err)
	dupRecorder := test.NewJSONResponseRecorder[any]()
	s.server.ServeHTTP(dupRecorder, dupReq)
	require.Equal(t, 500, dupRecorder.Code)
	assert.Equal(t, errs.InvalidTransition.Code, dupRecorder.MustScan().Code)

	s.postOK(t, "/finance/order/after_sales/handle", web.HandleAfterSaleReq{
		WorkOrderID:  workOrderID,
		Action:       "refuse",
		RefuseReason: "不符合退款条件",
	})
	order = s.orderDetail(t, resp.OrderID)
	assert.Equal(t, domain.AfterSaleStatusRefused.ToUint8(), order.GoodsList[0].Status)

	s.postOK(t, "/order/after_sales/resubmit", web.ResubmitAfterSaleReq{
		WorkOrderID: workOrderID,
		Type:        domain.AfterSaleTypeRefundOnly,
		Reason:      "补充了新的凭证",
	})
	order = s.orderDetail(t, resp.OrderID)
	assert.Equal(t, domain.AfterSaleStatusRequested.ToUint8(), order.GoodsList[0].Status)

	s.postOK(t, "/order/after_sales/cancel", web.CancelAfterSaleReq{
		WorkOrderID: workOrderID,
	})
	order = s.orderDetail(t, resp.OrderID)
	assert.Equal(t, domain.AfterSaleStatusNone.ToUint8(), order.GoodsList[0].Status)
	assert.Zero(t, order.GoodsList[0].WorkOrderID)
}

// TestAfterSaleStaleTransitionRejected 工单状态已经流转后,
// 基于旧状态的并发处理/撤销不会命中任何行
func (s *HandlerTestSuite) TestAfterSaleStaleTransitionRejected() {
	t := s.T()
	resp := s.createOrder(t, web.CreateOrderReq{
		CommodityID: 100,
		Quantity:    1,
		AddressID:   testAddressID,
	})
	order := s.orderDetail(t, resp.OrderID)
	subOrderID := order.GoodsList[0].SubOrderID

	applyReq, err := http.NewRequest(http.MethodPost,
		"/order/after_sales/apply", iox.NewJSONReader(web.ApplyAfterSaleReq{
			SubOrderID: subOrderID,
			Type:       domain.AfterSaleTypeReturnAndRefund,
			Reason:     "颜色不对",
			ReturnType: 1,
		}))
	applyReq.Header.Set("content-type", "application/json")
	require.NoError(t, err)
	applyRecorder := test.NewJSONResponseRecorder[web.ApplyAfterSaleResp]()
	s.server.ServeHTTP(applyRecorder, applyReq)
	require.Equal(t, 200, applyRecorder.Code)
	workOrderID := applyRecorder.MustScan().Data.WorkOrderID

	s.postOK(t, "/finance/order/after_sales/handle", web.HandleAfterSaleReq{
		WorkOrderID: workOrderID,
		Action:      "agree",
	})

	// 另一个基于申请中旧状态的写入, 此时工单已是同意退货
	d := dao.NewOrderGORMDAO(s.db)
	err = d.UpdateWorkOrderStatus(context.Background(), workOrderID,
		int64(domain.AfterSaleStatusRefused.ToUint8()), "晚到的拒绝")
	assert.ErrorIs(t, err, dao.ErrRowNotAffected)
	err = d.DeleteWorkOrder(context.Background(), workOrderID)
	assert.ErrorIs(t, err, dao.ErrRowNotAffected)

	// 工单状态没有被晚到的写入破坏
	order = s.orderDetail(t, resp.OrderID)
	assert.Equal(t, domain.AfterSaleStatusReturnApproved.ToUint8(), order.GoodsList[0].Status)
	assert.Equal(t, workOrderID, order.GoodsList[0].WorkOrderID)
}

func (s *HandlerTestSuite) postOK(t *testing.T, path string, body any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, path, iox.NewJSONReader(body))
	req.Header.Set("content-type", "application/json")
	require.NoError(t, err)
	recorder := test.NewJSONResponseRecorder[any]()
	s.server.ServeHTTP(recorder, req)
	require.Equal(t, 200, recorder.Code)
}

func TestHandler(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
