package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/danielacalcdecampo/agrocota/internal/service/quotation"
)

// ProgressEvent evento de progresso
type ProgressEvent struct {
	Type      string    `json:"type"`    // start/sheet/done/error
	Message   string    `json:"message"` // mensagem
	Data      any       `json:"data"`    // dados extras
	Timestamp time.Time `json:"timestamp"`
}

// ImportStream executa Import e publica o progresso no canal devolvido
// O canal é fechado ao final; o último evento é "done" ou "error".
// O consumidor precisa drenar o canal ou cancelar ctx.
func (c *Coordinator) ImportStream(ctx context.Context, filename string, data []byte, req quotation.Request) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)

		c.sendProgress(ctx, progressChan, ProgressEvent{
			Type:      "start",
			Message:   "Lendo planilha",
			Data:      map[string]string{"filename": filename},
			Timestamp: time.Now(),
		})

		q, p, err := c.Import(ctx, filename, data, req)
		if p != nil && p.Result != nil {
			for _, s := range p.Result.Sheets {
				c.sendProgress(ctx, progressChan, ProgressEvent{
					Type:      "sheet",
					Message:   fmt.Sprintf("Aba %q: %d itens", s.SheetName, s.Accepted),
					Data:      s,
					Timestamp: time.Now(),
				})
			}
		}
		if err != nil {
			c.sendProgress(ctx, progressChan, ProgressEvent{
				Type:      "error",
				Message:   err.Error(),
				Data:      p,
				Timestamp: time.Now(),
			})
			return
		}

		c.sendProgress(ctx, progressChan, ProgressEvent{
			Type:      "done",
			Message:   "Cotação salva",
			Data:      map[string]any{"quotation": q, "preview": p},
			Timestamp: time.Now(),
		})
	}()

	return progressChan
}

// sendProgress espera o consumidor; desiste só quando ctx termina
func (c *Coordinator) sendProgress(ctx context.Context, ch chan<- ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	case <-ctx.Done():
	}
}
