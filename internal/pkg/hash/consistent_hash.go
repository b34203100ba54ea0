package hash

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
)

const (
	_minReplicas = 100
	_prime       = 16777619
)

type (
	Func func(data []byte) uint64

	// ConsistentHash maps keys onto a stable ring of nodes so that the same
	// content keeps hitting the same backend across calls.
	ConsistentHash struct {
		lock     sync.RWMutex
		ring     map[uint64][]any
		nodes    map[string]struct{}
		keys     []uint64
		hashFunc Func
		replicas int
	}
)

// ConsistentHashOption configures a ConsistentHash.
type ConsistentHashOption func(c *ConsistentHash)

// WithReplicas sets the number of virtual replicas per node.
func WithReplicas(replicas int) ConsistentHashOption {
	return func(c *ConsistentHash) {
		c.replicas = replicas
	}
}

// WithHashFunc sets the hash function.
func WithHashFunc(hashFunc Func) ConsistentHashOption {
	return func(c *ConsistentHash) {
		c.hashFunc = hashFunc
	}
}

// NewConsistentHash creates a new ConsistentHash.
// Defaults to murmur3 64-bit hashing and 100 virtual replicas.
func NewConsistentHash(opts ...ConsistentHashOption) *ConsistentHash {
	c := &ConsistentHash{
		ring:     make(map[uint64][]any),
		nodes:    make(map[string]struct{}),
		hashFunc: Hash,
		replicas: _minReplicas,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add adds the given node to the ring.
func (h *ConsistentHash) Add(node any) {
	h.AddWithReplicas(node, h.replicas)
}

// AddWithReplicas adds the given node with the specified number of replicas.
func (h *ConsistentHash) AddWithReplicas(node any, replicas int) {
	h.Remove(node)

	if replicas > h.replicas {
		replicas = h.replicas
	}

	nodeRepresent := represent(node)
	h.lock.Lock()
	defer h.lock.Unlock()
	h.nodes[nodeRepresent] = struct{}{}

	for i := 0; i < replicas; i++ {
		hv := h.hashFunc([]byte(nodeRepresent + strconv.Itoa(i)))
		h.keys = append(h.keys, hv)
		h.ring[hv] = append(h.ring[hv], node)
	}

	sort.Slice(h.keys, func(i, j int) bool {
		return h.keys[i] < h.keys[j]
	})
}

// Get returns the node responsible for the given value v.
func (h *ConsistentHash) Get(v any) (any, bool) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	if len(h.ring) == 0 {
		return nil, false
	}

	hv := h.hashFunc([]byte(represent(v)))
	index := sort.Search(len(h.keys), func(i int) bool {
		return h.keys[i] >= hv
	}) % len(h.keys)

	nodes := h.ring[h.keys[index]]
	switch len(nodes) {
	case 0:
		return nil, false
	case 1:
		return nodes[0], true
	default:
		// Break hash collisions deterministically.
		innerIndex := h.hashFunc([]byte(innerRepresent(v)))
		pos := int(innerIndex % uint64(len(nodes)))
		return nodes[pos], true
	}
}

// Remove removes the given node from the ring.
func (h *ConsistentHash) Remove(node any) {
	nodeRepresent := represent(node)

	h.lock.Lock()
	defer h.lock.Unlock()

	if _, ok := h.nodes[nodeRepresent]; !ok {
		return
	}

	for i := 0; i < h.replicas; i++ {
		hv := h.hashFunc([]byte(nodeRepresent + strconv.Itoa(i)))
		index := sort.Search(len(h.keys), func(i int) bool {
			return h.keys[i] >= hv
		})
		if index < len(h.keys) && h.keys[index] == hv {
			h.keys = append(h.keys[:index], h.keys[index+1:]...)
		}
		h.removeRingNode(hv, nodeRepresent)
	}

	delete(h.nodes, nodeRepresent)
}

func (h *ConsistentHash) removeRingNode(hv uint64, nodeRepresent string) {
	if nodes, ok := h.ring[hv]; ok {
		newNodes := nodes[:0]
		for _, x := range nodes {
			if represent(x) != nodeRepresent {
				newNodes = append(newNodes, x)
			}
		}
		if len(newNodes) > 0 {
			h.ring[hv] = newNodes
		} else {
			delete(h.ring, hv)
		}
	}
}

func innerRepresent(node any) string {
	return fmt.Sprintf("%d:%v", _prime, node)
}

func represent(node any) string {
	return fmt.Sprintf("%v", node)
}
