package adapter

import (
	"context"

	"github.com/pkg/errors"

	"warehouse/internal/pkg/httpclient"
)

// AccountHTTPAdapter 实现了 port.AccountService 接口。
type AccountHTTPAdapter struct {
	client  *httpclient.Client
	url     string
	retries int
}

// NewAccountHTTPAdapter 创建一个新的账户服务适配器。
func NewAccountHTTPAdapter(client *httpclient.Client, url string, retries int) *AccountHTTPAdapter {
	return &AccountHTTPAdapter{client: client, url: url, retries: retries}
}

// GetAccounts 按登录名批量获取账号。
func (a *AccountHTTPAdapter) GetAccounts(ctx context.Context, logins []string) (map[string]string, error) {
	var accounts map[string]string
	if err := a.client.PostJSONWithRetry(ctx, a.url, logins, &accounts, a.retries); err != nil {
		return nil, errors.Wrap(err, "account service")
	}
	return accounts, nil
}
