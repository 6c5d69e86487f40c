package cookie

// Option configures a cookie Client.
type Option func(*Client)

// WithCookieName sets the cookie name for the session cookie.
func WithCookieName(name string) Option {
	return func(c *Client) {
		c.cookieName = name
	}
}

// WithCookieDomain sets the domain for the session cookie.
func WithCookieDomain(domain string) Option {
	return func(c *Client) {
		c.domain = domain
	}
}

// WithXSRFCookieName sets the cookie name for the XSRF cookie.
func WithXSRFCookieName(name string) Option {
	return func(c *Client) {
		c.stCookieName = name
	}
}

// WithXSRFHeaderName sets the header name for the XSRF header.
func WithXSRFHeaderName(name string) Option {
	return func(c *Client) {
		c.stHeaderName = name
	}
}

// WithInsecureCookies drops the Secure attribute for local development.
func WithInsecureCookies() Option {
	return func(c *Client) {
		c.insecure = true
	}
}
