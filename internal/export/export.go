package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/chrisdamba/comanda/internal/cloudwriter"
	"github.com/chrisdamba/comanda/internal/logger"
	"github.com/chrisdamba/comanda/internal/models"
	"github.com/schollz/progressbar/v3"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

const (
	DestinationLocal = "local"
	DestinationS3    = "s3"
)

// PaymentRow is one exported payment. Amounts are decimal strings so no
// precision is lost.
type PaymentRow struct {
	ID            int64  `parquet:"name=id, type=INT64"`
	OrderID       int64  `parquet:"name=order_id, type=INT64"`
	Amount        string `parquet:"name=amount, type=BYTE_ARRAY, convertedtype=UTF8"`
	PaymentMethod string `parquet:"name=payment_method, type=BYTE_ARRAY, convertedtype=UTF8"`
	TransactionID string `parquet:"name=transaction_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	CardLastFour  string `parquet:"name=card_last_four, type=BYTE_ARRAY, convertedtype=UTF8"`
	ChangeAmount  string `parquet:"name=change_amount, type=BYTE_ARRAY, convertedtype=UTF8"`
	ProcessedBy   string `parquet:"name=processed_by, type=BYTE_ARRAY, convertedtype=UTF8"`
	CreatedAt     int64  `parquet:"name=created_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	ProcessedAt   *int64 `parquet:"name=processed_at, type=INT64, convertedtype=TIMESTAMP_MILLIS, repetitiontype=OPTIONAL"`
}

func NewPaymentRow(p *models.Payment) PaymentRow {
	row := PaymentRow{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Amount:        p.Amount.StringFixed(2),
		PaymentMethod: string(p.Method),
		TransactionID: p.TransactionID,
		CardLastFour:  p.CardLastFour,
		ProcessedBy:   p.ProcessedBy,
		CreatedAt:     p.CreatedAt.UnixMilli(),
	}
	if p.ChangeAmount != nil {
		row.ChangeAmount = p.ChangeAmount.StringFixed(2)
	}
	if p.ProcessedAt != nil {
		ms := p.ProcessedAt.UnixMilli()
		row.ProcessedAt = &ms
	}
	return row
}

type PaymentLister interface {
	ListCompletedBetween(ctx context.Context, start, end time.Time) ([]*models.Payment, error)
}

type Result struct {
	Location string
	Rows     int
}

type Exporter struct {
	payments PaymentLister
	cfg      models.ExportConfig
	factory  cloudwriter.CloudWriterFactory
	progress io.Writer
	log      *logger.Logger
}

func NewExporter(payments PaymentLister, cfg models.ExportConfig, log *logger.Logger) *Exporter {
	return &Exporter{payments: payments, cfg: cfg, progress: os.Stderr, log: log}
}

// WithCloudWriterFactory overrides the S3 factory built from the export config.
func (e *Exporter) WithCloudWriterFactory(f cloudwriter.CloudWriterFactory) *Exporter {
	e.factory = f
	return e
}

// WithProgress redirects the progress bar. A nil writer hides it.
func (e *Exporter) WithProgress(w io.Writer) *Exporter {
	if w == nil {
		w = io.Discard
	}
	e.progress = w
	return e
}

func FileName(start, end time.Time) string {
	return fmt.Sprintf("payments_%s_%s.parquet", start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// ExportPayments writes the COMPLETED payments created between start and end
// to a Parquet file at the configured destination.
func (e *Exporter) ExportPayments(ctx context.Context, start, end time.Time) (*Result, error) {
	payments, err := e.payments.ListCompletedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	fw, location, err := e.open(ctx, FileName(start, end))
	if err != nil {
		return nil, err
	}

	pw, err := writer.NewParquetWriter(fw, new(PaymentRow), 4)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	pw.RowGroupSize = 128 * 1024 * 1024
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	bar := progressbar.NewOptions(len(payments),
		progressbar.OptionSetWriter(e.progress),
		progressbar.OptionSetDescription("exporting payments"),
		progressbar.OptionShowCount(),
	)
	for _, p := range payments {
		if err := ctx.Err(); err != nil {
			fw.Close()
			return nil, err
		}
		if err := pw.Write(NewPaymentRow(p)); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to write payment %d: %w", p.ID, err)
		}
		bar.Add(1)
	}
	bar.Finish()

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", location, err)
	}

	e.log.Info("export_payments", "payments exported",
		"location", location,
		"rows", len(payments),
		"start", start.Format(time.RFC3339),
		"end", end.Format(time.RFC3339),
	)
	return &Result{Location: location, Rows: len(payments)}, nil
}

func (e *Exporter) open(ctx context.Context, name string) (source.ParquetFile, string, error) {
	switch e.cfg.Destination {
	case "", DestinationLocal:
		dir := e.cfg.OutputDir
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, "", fmt.Errorf("failed to create output directory: %w", err)
		}
		filePath := filepath.Join(dir, name)
		fw, err := local.NewLocalFileWriter(filePath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create local file writer: %w", err)
		}
		return fw, filePath, nil
	case DestinationS3:
		factory := e.factory
		if factory == nil {
			f, err := cloudwriter.NewS3WriterFactory(ctx, e.cfg.Region)
			if err != nil {
				return nil, "", err
			}
			factory = f
		}
		objectPath := path.Join(e.cfg.OutputDir, name)
		cw, err := factory.NewWriter(e.cfg.Bucket, objectPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		return newCloudParquetFile(cw), fmt.Sprintf("s3://%s/%s", e.cfg.Bucket, objectPath), nil
	default:
		return nil, "", fmt.Errorf("unsupported export destination: %s", e.cfg.Destination)
	}
}
