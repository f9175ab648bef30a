package service

import "context"

// TxManager runs fn inside one database transaction carried by ctx.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type OwnerResolver interface {
	OwnerFor(service string) string
}
