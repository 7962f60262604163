package adapter

import (
	"context"

	"github.com/pkg/errors"

	"warehouse/internal/pkg/httpclient"
)

// CrmHTTPAdapter 实现了 port.CrmService 接口。
type CrmHTTPAdapter struct {
	client  *httpclient.Client
	url     string
	retries int
}

// NewCrmHTTPAdapter 创建一个新的 CRM 服务适配器。
func NewCrmHTTPAdapter(client *httpclient.Client, url string, retries int) *CrmHTTPAdapter {
	return &CrmHTTPAdapter{client: client, url: url, retries: retries}
}

// GetCrms 按登录名批量获取 CRM 标识。
func (a *CrmHTTPAdapter) GetCrms(ctx context.Context, logins []string) (map[string]string, error) {
	var crms map[string]string
	if err := a.client.PostJSONWithRetry(ctx, a.url, logins, &crms, a.retries); err != nil {
		return nil, errors.Wrap(err, "crm service")
	}
	return crms, nil
}
