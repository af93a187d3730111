package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxManager runs units of work in multi-document transactions.
type TxManager struct {
	client *mongo.Client
}

func NewTxManager(client *mongo.Client) *TxManager {
	return &TxManager{client: client}
}

// WithTx runs fn inside a session transaction. The session travels in the
// ctx handed to fn, so repository calls made with it join the transaction.
// Transient errors are retried by the driver, so fn may run more than once.
func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	sess, err := m.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
