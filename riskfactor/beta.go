// Package riskfactor resolves per-symbol risk scalars (market beta) from a
// chain of providers. Factors are consumed once, before a run starts, to
// pre-scale executor parameters and portfolio allocation; nothing reads
// them mid-run.
package riskfactor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Factor is a beta value plus where it came from.
type Factor struct {
	Beta   float64
	Source string
}

type Provider interface {
	Beta(ctx context.Context, symbol string) (Factor, error)
	Name() string
}

// DefaultBeta is the documented last-resort value: scale nothing.
const DefaultBeta = 1.0

// HTTPProvider queries a stock-info endpoint for the beta field.
type HTTPProvider struct {
	client  *resty.Client
	baseURL string
}

func NewHTTP(baseURL string) *HTTPProvider {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &HTTPProvider{client: client, baseURL: baseURL}
}

func (p *HTTPProvider) Name() string { return "http" }

type stockInfoResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Beta *float64 `json:"beta"`
	} `json:"data"`
}

func (p *HTTPProvider) Beta(ctx context.Context, symbol string) (Factor, error) {
	var body stockInfoResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("%s/api/stocks/%s", p.baseURL, symbol))
	if err != nil {
		return Factor{}, fmt.Errorf("beta fetch %s: %w", symbol, err)
	}
	if resp.IsError() {
		return Factor{}, fmt.Errorf("beta fetch %s: status %s", symbol, resp.Status())
	}
	if !body.Success || body.Data.Beta == nil {
		return Factor{}, fmt.Errorf("beta fetch %s: no beta in response", symbol)
	}
	if *body.Data.Beta <= 0 {
		return Factor{}, fmt.Errorf("beta fetch %s: non-positive beta %.4f", symbol, *body.Data.Beta)
	}
	return Factor{Beta: *body.Data.Beta, Source: p.Name()}, nil
}

// StaticProvider serves betas from configuration. Missing symbols are an
// error so the chain can fall through to the default.
type StaticProvider struct {
	Betas map[string]float64
}

func (p *StaticProvider) Name() string { return "static" }

func (p *StaticProvider) Beta(_ context.Context, symbol string) (Factor, error) {
	b, ok := p.Betas[symbol]
	if !ok {
		return Factor{}, fmt.Errorf("beta static: no entry for %s", symbol)
	}
	if b <= 0 {
		return Factor{}, fmt.Errorf("beta static: non-positive beta %.4f for %s", b, symbol)
	}
	return Factor{Beta: b, Source: p.Name()}, nil
}

// Chain tries providers in order and degrades to DefaultBeta rather than
// failing a run over a missing risk factor.
type Chain struct {
	providers []Provider
	log       logrus.FieldLogger
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers, log: logrus.StandardLogger()}
}

func (c *Chain) SetLogger(l logrus.FieldLogger) { c.log = l }

func (c *Chain) Resolve(ctx context.Context, symbol string) Factor {
	for _, p := range c.providers {
		f, err := p.Beta(ctx, symbol)
		if err != nil {
			c.log.WithFields(logrus.Fields{
				"symbol":   symbol,
				"provider": p.Name(),
			}).WithError(err).Warn("beta provider failed, trying next")
			continue
		}
		return f
	}
	return Factor{Beta: DefaultBeta, Source: "default"}
}
