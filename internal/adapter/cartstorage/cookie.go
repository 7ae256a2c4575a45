package cartstorage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/niksmo/furnistore/internal/core/cart"
)

// maxCookieValue keeps the cookie under the common 4096 byte browser limit
// together with its name and attributes.
const maxCookieValue = 3800

var ErrTooLarge = errors.New("value exceeds cookie size limit")

type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
	Path   string
}

var _ cart.Storage = (*Cookie)(nil)

// A Cookie stores values in cookies of one request/response exchange. The
// client holds the data; the server keeps nothing between requests.
//
// Values written during the exchange are visible to later reads of the
// same Cookie.
type Cookie struct {
	w       http.ResponseWriter
	r       *http.Request
	cfg     CookieConfig
	written map[string]*[]byte
}

func NewCookie(w http.ResponseWriter, r *http.Request, cfg CookieConfig) *Cookie {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &Cookie{
		w:       w,
		r:       r,
		cfg:     cfg,
		written: make(map[string]*[]byte),
	}
}

func (c *Cookie) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const op = "Cookie.Get"

	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if v, ok := c.written[key]; ok {
		if v == nil {
			return nil, false, nil
		}
		return *v, true, nil
	}

	ck, err := c.r.Cookie(key)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	data, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		// a tampered or truncated cookie reads as an empty cart
		return nil, false, nil
	}
	return data, true, nil
}

func (c *Cookie) Set(ctx context.Context, key string, data []byte) error {
	const op = "Cookie.Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	value := base64.RawURLEncoding.EncodeToString(data)
	if len(value) > maxCookieValue {
		return fmt.Errorf("%s: %w", op, ErrTooLarge)
	}

	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     c.cfg.Path,
		MaxAge:   int(c.cfg.MaxAge.Seconds()),
		Secure:   c.cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	stored := append([]byte(nil), data...)
	c.written[key] = &stored
	return nil
}

func (c *Cookie) Clear(ctx context.Context, key string) error {
	const op = "Cookie.Clear"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     c.cfg.Path,
		MaxAge:   -1,
		Secure:   c.cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.written[key] = nil
	return nil
}
