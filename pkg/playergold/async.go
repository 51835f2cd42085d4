package playergold

import "context"

// ErrorCallback receives the message of a failed asynchronous operation:
// the raw response body for transport failures, a fixed literal for decode failures.
type ErrorCallback func(message string)

// GetBalanceAsync runs GetBalance on the dispatcher and reports through exactly one callback.
func (c *Client) GetBalanceAsync(ctx context.Context, address string, onSuccess func(Balance), onError ErrorCallback) {
	dispatchOp(c, ctx, func(ctx context.Context) (Balance, error) {
		return c.GetBalance(ctx, address)
	}, onSuccess, onError)
}

// CreateTransactionAsync runs CreateTransaction on the dispatcher and reports through exactly one callback.
func (c *Client) CreateTransactionAsync(ctx context.Context, req TransactionRequest, onSuccess func(TransactionReceipt), onError ErrorCallback) {
	dispatchOp(c, ctx, func(ctx context.Context) (TransactionReceipt, error) {
		return c.CreateTransaction(ctx, req)
	}, onSuccess, onError)
}

// GetTransactionAsync runs GetTransaction on the dispatcher and reports through exactly one callback.
func (c *Client) GetTransactionAsync(ctx context.Context, hash string, onSuccess func(TransactionRecord), onError ErrorCallback) {
	dispatchOp(c, ctx, func(ctx context.Context) (TransactionRecord, error) {
		return c.GetTransaction(ctx, hash)
	}, onSuccess, onError)
}

// GetNetworkStatusAsync runs GetNetworkStatus on the dispatcher and reports through exactly one callback.
func (c *Client) GetNetworkStatusAsync(ctx context.Context, onSuccess func(NetworkStatus), onError ErrorCallback) {
	dispatchOp(c, ctx, c.GetNetworkStatus, onSuccess, onError)
}

// dispatchOp runs op on the client's dispatcher. Nil callbacks are skipped.
func dispatchOp[T any](c *Client, ctx context.Context, op func(context.Context) (T, error), onSuccess func(T), onError ErrorCallback) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		if onError != nil {
			onError(ErrClosed.Error())
		}
		return
	}
	c.pending.Add(1)
	c.mu.RUnlock()

	c.dispatch(func() {
		// released before the callbacks so they may call Close
		v, err := func() (T, error) {
			defer c.pending.Done()
			return op(ctx)
		}()
		if err != nil {
			if onError != nil {
				onError(err.Error())
			}
			return
		}
		if onSuccess != nil {
			onSuccess(v)
		}
	})
}
