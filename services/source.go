package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yourusername/reserved/models"
)

// Source provides the authoritative reserved list.
type Source interface {
	Fetch(ctx context.Context) ([]string, error)
}

// HTTPSource downloads the list from the first mirror that answers with a
// parseable 200 response.
type HTTPSource struct {
	Mirrors   []models.Mirror
	Timeout   time.Duration
	UserAgent string
}

func NewHTTPSource(mirrors []models.Mirror, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPSource{Mirrors: mirrors, Timeout: timeout, UserAgent: "reserved-usernames/1"}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]string, error) {
	if len(s.Mirrors) == 0 {
		return nil, fmt.Errorf("%w: no mirrors configured", ErrFetch)
	}
	var errs []error
	for _, m := range s.Mirrors {
		names, err := s.fetchMirror(ctx, m)
		if err == nil {
			return names, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", m.URL, err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrFetch, errors.Join(errs...))
}

type fetchResult struct {
	code int
	body []byte
	errs []error
}

func (s *HTTPSource) fetchMirror(ctx context.Context, m models.Mirror) ([]string, error) {
	format, err := ParseFormat(m.Format)
	if err != nil || format == FormatArray {
		return nil, fmt.Errorf("%w: mirror format %q", ErrUnsupportedFormat, m.Format)
	}

	// The agent has no context support; its own timeout bounds the goroutine.
	done := make(chan fetchResult, 1)
	go func() {
		a := fiber.Get(m.URL)
		a.Timeout(s.Timeout).UserAgent(s.UserAgent)
		if err := a.Parse(); err != nil {
			fiber.ReleaseAgent(a)
			done <- fetchResult{errs: []error{err}}
			return
		}
		code, body, errs := a.Bytes()
		done <- fetchResult{code: code, body: body, errs: errs}
	}()

	var res fetchResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	if len(res.errs) > 0 {
		return nil, errors.Join(res.errs...)
	}
	if res.code != fiber.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", res.code)
	}
	names, err := parseNames(res.body, format)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("mirror returned an empty list")
	}
	return names, nil
}
