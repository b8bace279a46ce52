package redis

import (
	"context"
	"io"
)

// Shutdown wraps the client's Close for ShutdownHook, so the connection
// pool drains during graceful shutdown:
//
//	err := app.Run(":8080",
//	    microframe.ShutdownHook(redis.Shutdown(client)),
//	)
func Shutdown(client io.Closer) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Close()
	}
}
