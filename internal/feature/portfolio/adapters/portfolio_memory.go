// Package adapters は顧客リポジトリの実装を提供します。
package adapters

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"wealth_backend/internal/feature/portfolio/domain/entity"
	"wealth_backend/internal/feature/portfolio/usecase"
	"wealth_backend/internal/shared/apperr"
)

// SampleClients はDBなしでダッシュボードを動かすための顧客データです。
var SampleClients = []entity.Client{
	{
		ID:          1,
		Name:        "Aiko Tanaka",
		RiskProfile: "conservative",
		Holdings: []entity.Holding{
			{Ticker: "MSFT", Quantity: 40, AvgCost: 310.25},
			{Ticker: "JNJ", Quantity: 120, AvgCost: 158.4},
		},
	},
	{
		ID:          2,
		Name:        "Daniel Weber",
		RiskProfile: "balanced",
		Holdings: []entity.Holding{
			{Ticker: "AAPL", Quantity: 75, AvgCost: 172.1},
			{Ticker: "GOOGL", Quantity: 30, AvgCost: 131.8},
			{Ticker: "NESN", Quantity: 50, AvgCost: 98.6},
		},
	},
	{
		ID:          3,
		Name:        "Maria Rossi",
		RiskProfile: "growth",
		Holdings: []entity.Holding{
			{Ticker: "NVDA", Quantity: 60, AvgCost: 88.9},
			{Ticker: "TSLA", Quantity: 25, AvgCost: 201.5},
		},
	},
}

type clientMemory struct {
	mu      sync.RWMutex
	clients map[int64]entity.Client
}

var _ usecase.ClientRepository = (*clientMemory)(nil)

// NewClientMemoryRepository は clients を複製して保持するリポジトリを生成します。
func NewClientMemoryRepository(clients []entity.Client) *clientMemory {
	m := make(map[int64]entity.Client, len(clients))
	for _, c := range clients {
		m[c.ID] = cloneClient(c)
	}
	return &clientMemory{clients: m}
}

func (r *clientMemory) List(ctx context.Context) ([]entity.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, cloneClient(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *clientMemory) FindByID(ctx context.Context, id int64) (entity.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[id]
	if !ok {
		return entity.Client{}, fmt.Errorf("%w: client %d", apperr.ErrNotFound, id)
	}
	return cloneClient(c), nil
}

func cloneClient(c entity.Client) entity.Client {
	c.Holdings = append([]entity.Holding(nil), c.Holdings...)
	return c
}
