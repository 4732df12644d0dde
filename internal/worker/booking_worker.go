package worker

import (
	"context"
	"sync"

	"event-booking/internal/queue"
	"event-booking/internal/service"
	apperrors "event-booking/pkg/app_errors"
	"event-booking/pkg/logger"

	"go.uber.org/zap"
)

type BookingWorker interface {
	// 訂閱預約隊列並在背景寫入
	Start(ctx context.Context) error
	// 等待背景 goroutine 結束（ctx 取消後）
	Wait()
}

type BookingWorkerImpl struct {
	service service.BookingService
	queue   queue.BookingQueue
	wg      sync.WaitGroup
}

func NewBookingWorker(service service.BookingService, queue queue.BookingQueue) BookingWorker {
	return &BookingWorkerImpl{
		service: service,
		queue:   queue,
	}
}

func (w *BookingWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeBookings(ctx)
	if err != nil {
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for msg := range msgs {
			w.handle(ctx, msg)
		}
	}()
	return nil
}

func (w *BookingWorkerImpl) Wait() {
	w.wg.Wait()
}

func (w *BookingWorkerImpl) handle(ctx context.Context, msg queue.Delivery) {
	err := w.service.Dispatch(ctx, msg.Data)
	if err == nil {
		msg.Ack()
		return
	}

	log := logger.WithComponent("worker").With(zap.String("booking_id", msg.Data.ID.String()), zap.Error(err))
	if apperrors.IsRetryable(err) {
		// 資料庫暫時連不上，稍後重試
		log.Warn("dispatch failed, requeue")
		msg.Nack(true)
		return
	}
	log.Error("dispatch rejected, discard")
	msg.Nack(false)
}
