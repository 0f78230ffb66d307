package network

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TransportError marks failures that happened before a response was received
// (DNS, connection refused, timeouts). Processor rejections are not
// TransportErrors; those still produce a status code and body.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %s", e.URL, e.Err.Error())
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type NetworkController struct {
	BaseUrl string
	Client  *http.Client
}

func (network *NetworkController) httpClient() *http.Client {
	if network.Client != nil {
		return network.Client
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (network *NetworkController) Get(path string, headers *map[string]string, params *map[string]string) (*[]byte, *int, error) {
	reqURL := network.BaseUrl + path
	if params != nil {
		query := url.Values{}
		for key, value := range *params {
			query.Set(key, value)
		}
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, err
	}
	if headers != nil {
		for key, value := range *headers {
			req.Header.Set(key, value)
		}
	}
	return network.execute(req)
}

func (network *NetworkController) Post(path string, headers *map[string]string, body map[string]any) (*[]byte, *int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequest(http.MethodPost, network.BaseUrl+path, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if headers != nil {
		for key, value := range *headers {
			req.Header.Set(key, value)
		}
	}
	return network.execute(req)
}

func (network *NetworkController) PostForm(path string, form url.Values) (*[]byte, *int, error) {
	req, err := http.NewRequest(http.MethodPost, network.BaseUrl+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return network.execute(req)
}

func (network *NetworkController) execute(req *http.Request) (*[]byte, *int, error) {
	res, err := network.httpClient().Do(req)
	if err != nil {
		return nil, nil, &TransportError{URL: req.URL.String(), Err: err}
	}
	defer res.Body.Close()
	response, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, nil, &TransportError{URL: req.URL.String(), Err: err}
	}
	return &response, &res.StatusCode, nil
}
