package oss

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Transport is the HTTP capability the client drives: one blocking round
// trip per call. Implementations own pooling, TLS and any retry policy; the
// client owns signing and decoding and never retries.
type Transport interface {
	Do(ctx context.Context, method, url string, header http.Header, body []byte) (*TransportResponse, error)
}

type TransportResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type restyTransport struct {
	client *resty.Client
}

func newRestyTransport() *restyTransport {
	return &restyTransport{client: resty.New()}
}

func (t *restyTransport) Do(ctx context.Context, method, url string, header http.Header, body []byte) (*TransportResponse, error) {
	req := t.client.R().SetContext(ctx)
	if header != nil {
		req.SetHeaderMultiValues(header)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "request failed", Err: err}
	}

	return &TransportResponse{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}
