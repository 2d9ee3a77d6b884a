package events

import "errors"

var (
	// ErrMarshal возвращается, когда сообщение не удалось сериализовать
	ErrMarshal = errors.New("events: failed to marshal payload")

	// ErrPublish возвращается при ошибке записи в брокер
	ErrPublish = errors.New("events: failed to publish message")
)
