package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"go.bug.st/serial"

	"github.com/airvigil/airvigil/internal/reading"
)

// Defaults for the hardware channel.
const (
	DefaultPortName          = "COM3"
	DefaultBaudRate          = 9600
	DefaultReconnectInterval = 5 * time.Second
)

// OpenPortFunc opens the hardware stream. The default opens a serial port.
type OpenPortFunc func(name string, mode *serial.Mode) (io.ReadCloser, error)

func openSerialPort(name string, mode *serial.Mode) (io.ReadCloser, error) {
	return serial.Open(name, mode)
}

// Config holds configuration for the hardware ingestor.
type Config struct {
	// PortName is the serial device (default: COM3).
	PortName string

	// BaudRate for the serial connection (default: 9600).
	BaudRate int

	// Readings persists parsed readings and triggers alert checks.
	Readings *reading.Service

	// Logger for ingestion events.
	Logger zerolog.Logger

	// OpenPort overrides how the stream is opened (tests).
	OpenPort OpenPortFunc

	// ReconnectInterval is the fixed delay between reconnect attempts
	// (default: 5 seconds).
	ReconnectInterval time.Duration
}

// Ingestor consumes the hardware line stream, parses each line into a
// reading and persists it. Disconnects and open failures are retried
// forever on a fixed interval; the rest of the process never blocks on the
// hardware being present.
type Ingestor struct {
	portName  string
	baudRate  int
	readings  *reading.Service
	logger    zerolog.Logger
	openPort  OpenPortFunc
	reconnect time.Duration
}

// NewIngestor creates a hardware ingestor.
func NewIngestor(cfg Config) *Ingestor {
	if cfg.PortName == "" {
		cfg.PortName = DefaultPortName
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.OpenPort == nil {
		cfg.OpenPort = openSerialPort
	}
	if cfg.ReconnectInterval == 0 {
		cfg.ReconnectInterval = DefaultReconnectInterval
	}

	return &Ingestor{
		portName:  cfg.PortName,
		baudRate:  cfg.BaudRate,
		readings:  cfg.Readings,
		logger:    cfg.Logger,
		openPort:  cfg.OpenPort,
		reconnect: cfg.ReconnectInterval,
	}
}

// Run consumes the hardware stream until ctx is cancelled, reconnecting on
// every failure. It always returns nil on shutdown.
func (i *Ingestor) Run(ctx context.Context) error {
	policy := backoff.WithContext(backoff.NewConstantBackOff(i.reconnect), ctx)

	_ = backoff.Retry(func() error {
		if err := i.session(ctx); err != nil {
			i.logger.Warn().Err(err).
				Str("port", i.portName).
				Dur("retry_in", i.reconnect).
				Msg("serial session ended")
			return err
		}
		return nil
	}, policy)

	return nil
}

// session opens the port and consumes lines until the stream breaks or ctx
// is cancelled. Returns nil only on cancellation.
func (i *Ingestor) session(ctx context.Context) error {
	port, err := i.openPort(i.portName, &serial.Mode{BaudRate: i.baudRate})
	if err != nil {
		return fmt.Errorf("opening %s: %w", i.portName, err)
	}

	// Closing the port unblocks the scanner when ctx is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			port.Close()
		case <-done:
			port.Close()
		}
	}()

	i.logger.Info().Str("port", i.portName).Int("baud", i.baudRate).Msg("serial port connected")

	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		r, err := ParseLine(scanner.Text())
		if err != nil {
			if !errors.Is(err, ErrEmptyLine) {
				i.logger.Warn().Err(err).Msg("skipping unparsable sensor line")
			}
			continue
		}

		if _, err := i.readings.Ingest(ctx, r); err != nil {
			i.logger.Error().Err(err).Msg("storing sensor reading")
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stream: %w", err)
	}
	return errors.New("serial stream closed")
}
