package web

import (
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/mall/internal/order/internal/errs"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	orderNotFoundResult = ginx.Result{
		Code: errs.OrderNotFound.Code,
		Msg:  errs.OrderNotFound.Msg,
	}
	invalidTransitionResult = ginx.Result{
		Code: errs.InvalidTransition.Code,
		Msg:  errs.InvalidTransition.Msg,
	}
	invalidInputResult = ginx.Result{
		Code: errs.InvalidOrderInput.Code,
		Msg:  errs.InvalidOrderInput.Msg,
	}
)
