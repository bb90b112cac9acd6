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

// Package config 描述 config/local.yaml 的结构, 供部署时对照
package config

type MallConfig struct {
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	Wechat  WechatPaymentConfig
}

type DBConfig struct {
	DSN string
}

type RedisConfig struct {
	Addr     string
	Password string
}

type SessionConfig struct {
	SessionEncryptedKey string
	// TTL 登录态有效期, 为空时默认七天
	TTL          string
	CookieDomain string
}

type WechatPaymentConfig struct {
	AppID        string
	MchID        string
	MchKey       string
	MchSerialNum string
	KeyPath      string

	PaymentNotifyURL string
}
