package interfaces

import "net/http"

// ApplicationContext carries a parsed request body and request metadata from
// the transport layer into controllers without tying them to gin.
type ApplicationContext[T interface{}] struct {
	Body       *T
	Ctx        interface{}
	Header     http.Header
	UserAgent  string
	DeviceName string
}

func (ac *ApplicationContext[T]) GetHeader(key string) *string {
	if ac.Header == nil {
		return nil
	}
	value := ac.Header.Get(key)
	if value == "" {
		return nil
	}
	return &value
}
