package events

import "context"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Broker транспорт публикации сообщений
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}
