package test

import (
	"errors"

	"github.com/ecodeclub/ginx/gctx"
	"github.com/ecodeclub/ginx/session"
)

// 测试里session由各自的中间件直接塞进gin的ctx
const sessionKey = "_session"

func init() {
	session.SetDefaultProvider(&SessionProvider{})
}

type SessionProvider struct{}

func (s *SessionProvider) NewSession(ctx *gctx.Context, uid int64, jwtData map[string]string, sessData map[string]any) (session.Session, error) {
	return nil, nil
}

func (s *SessionProvider) Get(ctx *gctx.Context) (session.Session, error) {
	val, ok := ctx.Get(sessionKey)
	if !ok {
		return nil, errors.New("测试session未注入")
	}
	return val.(session.Session), nil
}

func (s *SessionProvider) Destroy(ctx *gctx.Context) error {
	return nil
}

func (s *SessionProvider) UpdateClaims(ctx *gctx.Context, claims session.Claims) error {
	return nil
}

func (s *SessionProvider) RenewAccessToken(ctx *gctx.Context) error {
	return nil
}
