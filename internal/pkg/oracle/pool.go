package oracle

import (
	"context"
	"errors"

	"loopmod/internal/pkg/hash"
)

// ErrNoReplicas indicates the pool has no configured scoring endpoints.
var ErrNoReplicas = errors.New("no scoring replicas configured")

// Pool routes classification requests across scoring service replicas using
// consistent hashing on the content, so retries for the same content land on
// the same replica and benefit from its local model cache.
type Pool struct {
	ring    *hash.ConsistentHash
	clients map[string]*Client
}

// NewPool creates a pool over the given replica base URLs.
func NewPool(config Config, endpoints []string) *Pool {
	p := &Pool{
		ring:    hash.NewConsistentHash(),
		clients: make(map[string]*Client, len(endpoints)),
	}
	for _, ep := range endpoints {
		cfg := config
		cfg.BaseURL = ep
		p.clients[ep] = NewClient(cfg)
		p.ring.Add(ep)
	}
	return p
}

// Pick returns the client responsible for the given content.
func (p *Pool) Pick(content string) (*Client, error) {
	node, ok := p.ring.Get(content)
	if !ok {
		return nil, ErrNoReplicas
	}
	endpoint, ok := node.(string)
	if !ok {
		return nil, ErrNoReplicas
	}
	client, ok := p.clients[endpoint]
	if !ok {
		return nil, ErrNoReplicas
	}
	return client, nil
}

// Classify routes the request to the replica owning the content.
func (p *Pool) Classify(ctx context.Context, content, contentType string) (*Result, error) {
	client, err := p.Pick(content)
	if err != nil {
		return nil, err
	}
	return client.Classify(ctx, content, contentType)
}

// Remove drops a replica from the ring, e.g. after repeated failures.
func (p *Pool) Remove(endpoint string) {
	p.ring.Remove(endpoint)
	delete(p.clients, endpoint)
}

// Size returns the number of configured replicas.
func (p *Pool) Size() int {
	return len(p.clients)
}
