package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chrisdamba/foodstore/internal/cloudwriter"
	"github.com/chrisdamba/foodstore/internal/events"
	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/chrisdamba/foodstore/internal/repositories"
	"github.com/shopspring/decimal"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"go.uber.org/zap"
)

type sliceOrders struct {
	orders []*models.Order
	calls  int
	err    error
}

func (s *sliceOrders) NextNumber(context.Context) (int64, error) {
	return 0, nil
}

func (s *sliceOrders) Create(context.Context, *models.Order) error {
	return nil
}

func (s *sliceOrders) List(_ context.Context, f repositories.OrderFilter) ([]*models.Order, int, error) {
	s.calls++
	if s.err != nil {
		return nil, 0, s.err
	}
	var matched []*models.Order
	for _, o := range s.orders {
		if !o.CreatedAt.Before(f.Since) {
			matched = append(matched, o)
		}
	}
	if f.Offset >= len(matched) {
		return nil, len(matched), nil
	}
	return matched[f.Offset:min(f.Offset+f.Limit, len(matched))], len(matched), nil
}

func makeOrders(n int, start time.Time, step time.Duration) []*models.Order {
	out := make([]*models.Order, n)
	for i := range out {
		out[i] = &models.Order{
			ID:            fmt.Sprintf("order-%d", i),
			Number:        fmt.Sprintf("ORD-%06d", i+1),
			Status:        models.OrderStatusPlaced,
			PaymentMethod: models.PaymentCashOnDelivery,
			Items:         []models.OrderItem{{MenuItemID: "A", RestaurantID: "r1", Name: "Biryani", Quantity: 2, UnitPrice: decimal.NewFromInt(100), DeliveryFee: decimal.NewFromInt(20)}},
			Subtotal:      decimal.NewFromInt(200),
			DeliveryFee:   decimal.NewFromInt(40),
			Discount:      decimal.Zero,
			TotalAmount:   decimal.NewFromInt(240),
			CreatedAt:     start.Add(time.Duration(i) * step),
		}
	}
	return out
}

type countingProgress struct {
	max   int
	added int
}

func (p *countingProgress) ChangeMax(max int) {
	p.max = max
}

func (p *countingProgress) Add(n int) error {
	p.added += n
	return nil
}

func TestExportLocalParquet(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC)
	repo := &sliceOrders{orders: makeOrders(7, start, time.Hour)} // spans two days
	out := NewParquetOutput(dir, "orders", nil, "", zap.NewNop())
	progress := &countingProgress{}

	ex := &Exporter{Orders: repo, Output: out, BatchSize: 3, Progress: progress}
	n, err := ex.Export(context.Background(), time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 || progress.max != 7 || progress.added != 7 {
		t.Fatalf("written=%d max=%d added=%d", n, progress.max, progress.added)
	}
	if repo.calls != 3 {
		t.Errorf("expected 3 batches, got %d", repo.calls)
	}

	parts := out.Partitions()
	want := []string{
		models.TopicOrderPlaced + "/year=2024/month=06/day=01",
		models.TopicOrderPlaced + "/year=2024/month=06/day=02",
	}
	if len(parts) != len(want) || parts[0] != want[0] || parts[1] != want[1] {
		t.Fatalf("partitions = %v", parts)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	day2 := filepath.Join(dir, "orders", models.TopicOrderPlaced, "year=2024", "month=06", "day=02", dataFile)
	fr, err := local.NewLocalFileReader(day2)
	if err != nil {
		t.Fatal(err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(events.OrderPlacedEvent), 1)
	if err != nil {
		t.Fatal(err)
	}
	defer pr.ReadStop()

	rows := int(pr.GetNumRows())
	if rows != 5 {
		t.Fatalf("day 2 rows = %d, want 5", rows)
	}
	got := make([]events.OrderPlacedEvent, rows)
	if err := pr.Read(&got); err != nil {
		t.Fatal(err)
	}
	if got[0].TotalAmount != 240 || got[0].ItemCount != 2 || got[0].EventType != events.EventTypeOrderPlaced {
		t.Errorf("first row = %+v", got[0])
	}
}

func TestExportSince(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := &sliceOrders{orders: makeOrders(10, start, 24*time.Hour)}
	out := NewParquetOutput(t.TempDir(), "orders", nil, "", zap.NewNop())
	defer out.Close()

	n, err := (&Exporter{Orders: repo, Output: out}).Export(context.Background(), start.AddDate(0, 0, 6))
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("exported %d orders, want 4", n)
	}
}

type memCloudWriter struct {
	buf    *bytes.Buffer
	closed *bool
}

func (w memCloudWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w memCloudWriter) Close() error {
	*w.closed = true
	return nil
}

type memFactory struct {
	objects map[string]*bytes.Buffer
	closed  map[string]*bool
}

func (f *memFactory) NewWriter(bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	key := bucket + "/" + objectPath
	f.objects[key] = &bytes.Buffer{}
	f.closed[key] = new(bool)
	return memCloudWriter{buf: f.objects[key], closed: f.closed[key]}, nil
}

func TestExportToCloud(t *testing.T) {
	f := &memFactory{objects: map[string]*bytes.Buffer{}, closed: map[string]*bool{}}
	out := NewParquetOutput("unused", "orders", f, "analytics", zap.NewNop())
	repo := &sliceOrders{orders: makeOrders(2, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), time.Minute)}

	if _, err := (&Exporter{Orders: repo, Output: out}).Export(context.Background(), time.Time{}); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	key := "analytics/orders/" + models.TopicOrderPlaced + "/year=2024/month=06/day=01/" + dataFile
	obj, ok := f.objects[key]
	if !ok {
		t.Fatalf("object %s not written, have %v", key, f.objects)
	}
	if !*f.closed[key] {
		t.Error("object should be closed")
	}
	data := obj.Bytes()
	if !bytes.HasPrefix(data, []byte("PAR1")) || !bytes.HasSuffix(data, []byte("PAR1")) {
		t.Error("object is not a parquet file")
	}
	if _, err := os.Stat("unused"); !os.IsNotExist(err) {
		t.Error("cloud export must not touch the local base path")
	}
}

func TestExportListError(t *testing.T) {
	repo := &sliceOrders{err: errors.New("db down")}
	out := NewParquetOutput(t.TempDir(), "orders", nil, "", zap.NewNop())
	if _, err := (&Exporter{Orders: repo, Output: out}).Export(context.Background(), time.Time{}); err == nil {
		t.Error("expected error")
	}
}
