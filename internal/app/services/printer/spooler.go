// Package printer formats receipts and fires them at a raw-text printer
// endpoint. The channel is fire-and-forget: no acknowledgment, and failures
// never surface to the caller.
package printer

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/foodvanpos/posd/internal/app/domain/catalog"
	"github.com/foodvanpos/posd/internal/app/domain/sale"
	"github.com/foodvanpos/posd/pkg/logger"
)

// Spooler sends receipt text over TCP. An empty address disables printing.
type Spooler struct {
	addr        string
	dialTimeout time.Duration
	log         *logger.Logger
}

// New constructs a spooler for the given printer address.
func New(addr string, log *logger.Logger) *Spooler {
	if log == nil {
		log = logger.NewDefault("printer")
	}
	return &Spooler{
		addr:        strings.TrimSpace(addr),
		dialTimeout: 3 * time.Second,
		log:         log,
	}
}

// Print formats and sends the receipt. Errors are logged and swallowed; a
// checkout never fails because of the printer.
func (s *Spooler) Print(rec sale.Record) {
	if s.addr == "" {
		return
	}
	if err := s.send(Receipt(rec)); err != nil {
		s.log.WithError(err).WithField("sale_id", rec.ID).Warn("receipt print failed")
	}
}

func (s *Spooler) send(text string) error {
	conn, err := net.DialTimeout("tcp", s.addr, s.dialTimeout)
	if err != nil {
		return fmt.Errorf("dial printer: %w", err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(s.dialTimeout))
	if _, err := conn.Write([]byte(text)); err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}
	return nil
}

// Receipt renders the plain-text receipt for a sale.
func Receipt(rec sale.Record) string {
	var b strings.Builder
	b.WriteString("      FOOD VAN POS\n")
	b.WriteString("------------------------\n")
	b.WriteString(rec.Timestamp.Format("2006-01-02 15:04:05"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Sale %s\n", rec.ID))
	b.WriteString("------------------------\n")
	for _, line := range rec.Items {
		b.WriteString(fmt.Sprintf("%-14s x%-2d %5d\n", trim(line.Name, 14), line.Quantity, line.Price*line.Quantity))
	}
	b.WriteString("------------------------\n")
	b.WriteString(fmt.Sprintf("TOTAL %s %d\n", catalog.Currency, rec.Total))
	b.WriteString("  Thank you, come again\n\n")
	return b.String()
}

func trim(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
