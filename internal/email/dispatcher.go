package email

import (
	"context"
	"sync"

	"markethub_backend/internal/logger"
)

// Message — письмо в очереди на отправку
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Dispatcher асинхронно отправляет письма через буферизованную очередь.
// Ошибки отправки логируются и не ретраятся: уведомления не должны
// влиять на исход доменной операции.
type Dispatcher struct {
	sender Sender
	queue  chan Message
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDispatcher(sender Sender, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		sender: sender,
		queue:  make(chan Message, queueSize),
	}
}

// Start запускает горутину-воркер. Останавливается при отмене ctx
// или после Close, когда очередь опустеет.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-d.queue:
				if !ok {
					return
				}
				if err := d.sender.Send(msg.To, msg.Subject, msg.HTMLBody); err != nil {
					logger.Warn("failed to send email",
						"to", msg.To,
						"subject", msg.Subject,
						"error", err)
				} else {
					logger.Debug("email sent", "to", msg.To, "subject", msg.Subject)
				}
			}
		}
	}()
}

// Enqueue ставит письмо в очередь, не блокируясь.
// Переполненная очередь роняет письмо с warning-логом.
func (d *Dispatcher) Enqueue(msg Message) {
	if msg.To == "" {
		return
	}
	select {
	case d.queue <- msg:
	default:
		logger.Warn("email queue full, dropping message", "to", msg.To, "subject", msg.Subject)
	}
}

// Close закрывает очередь и ждет, пока воркер дошлет остаток
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
