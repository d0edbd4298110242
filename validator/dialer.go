package validator

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/net/proxy"
)

// NewProxyDialer creates a DialContext that connects to mail exchanges through a SOCKS5 proxy. Credentials are
// optional, forward is used to reach the proxy itself and may be nil.
func NewProxyDialer(address, user, password string, forward *net.Dialer) (DialContext, error) {
	var auth *proxy.Auth
	if user != "" {
		auth = &proxy.Auth{
			User:     user,
			Password: password,
		}
	}

	if forward == nil {
		forward = &net.Dialer{}
	}

	d, err := proxy.SOCKS5("tcp", address, auth, forward)
	if err != nil {
		return nil, fmt.Errorf("unable to create SOCKS5 dialer for %q %w", address, err)
	}

	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, errors.New("SOCKS5 dialer doesn't support contexts")
	}

	return cd, nil
}
