package service

import (
	"context"

	"github.com/Niranjannn-ux/hotel-ordering-system/display-svc/internal/domain"
	"github.com/Niranjannn-ux/hotel-ordering-system/display-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	Apply(ctx context.Context, order domain.BoardOrder) (storage.ApplyResult, error)
	OpenOrders(ctx context.Context) ([]domain.BoardOrder, error)
	Prune(ctx context.Context, keep map[string]bool) (int, error)
}

type SnapshotSource interface {
	KitchenQueue(ctx context.Context) ([]domain.BoardOrder, error)
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	Process(ctx context.Context, event domain.Event) error
	Resync(ctx context.Context) (int, error)
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ SnapshotSource    = (*storage.OrderClient)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
