package web

import (
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/mall/internal/payment/internal/errs"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	paymentNotFoundResult = ginx.Result{
		Code: errs.PaymentNotFound.Code,
		Msg:  errs.PaymentNotFound.Msg,
	}
	invalidOrderResult = ginx.Result{
		Code: errs.InvalidOrder.Code,
		Msg:  errs.InvalidOrder.Msg,
	}
)
