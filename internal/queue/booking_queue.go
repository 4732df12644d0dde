package queue

import (
	"context"

	"event-booking/internal/model"
)

type Delivery struct {
	Data *model.Booking
	Ack  func()
	Nack func(requeue bool)
}

type BookingQueue interface {
	// 發送已驗證的預約到隊列
	PublishBooking(ctx context.Context, booking *model.Booking) error
	// 訂閱預約隊列；ctx 結束時 channel 會被關閉
	SubscribeBookings(ctx context.Context) (<-chan Delivery, error)
}

// BookingQueueImpl 用 Go channel 模擬 MQ，單一行程內使用
type BookingQueueImpl struct {
	ch chan *model.Booking
}

func NewBookingQueue(bufferSize int) BookingQueue {
	return &BookingQueueImpl{
		ch: make(chan *model.Booking, bufferSize),
	}
}

func (q *BookingQueueImpl) PublishBooking(ctx context.Context, booking *model.Booking) error {
	select {
	case q.ch <- booking:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *BookingQueueImpl) SubscribeBookings(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case booking, ok := <-q.ch:
				if !ok {
					return
				}

				d := Delivery{
					Data: booking,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							// 不阻塞 worker：放回隊列失敗就丟棄
							select {
							case q.ch <- booking:
							default:
							}
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
