package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"bazaar/internal/pkg/metrics"
	"bazaar/internal/service/order/application"
	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/port"
)

type fakeRepo struct {
	orders    map[string]*domain.Order
	createErr error
	saveErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeRepo) Create(_ context.Context, order *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("%w: order %s already exists", domain.ErrConflict, order.ID)
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeRepo) Save(_ context.Context, order *domain.Order) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, exists := r.orders[order.ID]; !exists {
		return fmt.Errorf("%w: order %s", domain.ErrNotFound, order.ID)
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	return order, nil
}

func (r *fakeRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.OwnerID == ownerID {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakePricing struct {
	prices map[string]float64
	err    error
	calls  int
}

func (p *fakePricing) GetItem(_ context.Context, itemID string) (port.PricedItem, error) {
	p.calls++
	if p.err != nil {
		return port.PricedItem{}, p.err
	}
	price, ok := p.prices[itemID]
	if !ok {
		return port.PricedItem{}, fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
	}
	return port.PricedItem{ItemID: itemID, Name: "item " + itemID, Price: price}, nil
}

type fakeLedger struct {
	stock        map[string]int
	incrementErr error
	increments   []string
}

func (l *fakeLedger) TryDecrement(_ context.Context, itemID string, qty int) (bool, error) {
	current, ok := l.stock[itemID]
	if !ok {
		return false, fmt.Errorf("%w: inventory record for item %s", domain.ErrNotFound, itemID)
	}
	if current < qty {
		return false, nil
	}
	l.stock[itemID] = current - qty
	return true, nil
}

func (l *fakeLedger) Increment(_ context.Context, itemID string, qty int) (int, error) {
	l.increments = append(l.increments, itemID)
	if l.incrementErr != nil {
		return 0, l.incrementErr
	}
	current, ok := l.stock[itemID]
	if !ok {
		return 0, fmt.Errorf("%w: inventory record for item %s", domain.ErrNotFound, itemID)
	}
	l.stock[itemID] = current + qty
	return current + qty, nil
}

type fakePayment struct {
	result port.PaymentResult
	err    error
	calls  int
}

func (p *fakePayment) Submit(_ context.Context, _, _ string, _ float64) (port.PaymentResult, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.result, nil
}

type fakePublisher struct {
	events []domain.OrderEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event domain.OrderEvent) error {
	p.events = append(p.events, event)
	return p.err
}

type fixture struct {
	repo      *fakeRepo
	pricing   *fakePricing
	ledger    *fakeLedger
	payment   *fakePayment
	publisher *fakePublisher
	service   *application.Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:      newFakeRepo(),
		pricing:   &fakePricing{prices: map[string]float64{"apple": 2.5, "pear": 4}},
		ledger:    &fakeLedger{stock: map[string]int{"apple": 10, "pear": 10}},
		payment:   &fakePayment{result: port.PaymentAccepted},
		publisher: &fakePublisher{},
	}
	f.service = application.NewService(
		f.repo,
		f.pricing,
		f.ledger,
		f.payment,
		f.publisher,
		otel.Tracer("test"),
		metrics.NewSagaMetrics(prometheus.NewRegistry(), "order"),
	)
	return f
}

func twoLines() []application.LineRequest {
	return []application.LineRequest{
		{ItemID: "apple", Quantity: 2},
		{ItemID: "pear", Quantity: 1},
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("payment accepted yields a PAID order", func(t *testing.T) {
		f := newFixture()

		order, err := f.service.Create(ctx, "alice", twoLines())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if order.Status != domain.StatusPaid {
			t.Fatalf("status = %s, want %s", order.Status, domain.StatusPaid)
		}
		if want := 2*2.5 + 1*4; order.TotalPrice != want {
			t.Errorf("total = %v, want %v", order.TotalPrice, want)
		}
		if f.ledger.stock["apple"] != 8 || f.ledger.stock["pear"] != 9 {
			t.Errorf("stock = %v, want apple 8 pear 9", f.ledger.stock)
		}
		stored, err := f.repo.FindByID(ctx, order.ID)
		if err != nil {
			t.Fatalf("order not persisted: %v", err)
		}
		if stored.Status != domain.StatusPaid {
			t.Errorf("persisted status = %s, want PAID", stored.Status)
		}
		if len(f.publisher.events) != 2 ||
			f.publisher.events[0].Status != domain.StatusCreated ||
			f.publisher.events[1].Status != domain.StatusPaid {
			t.Errorf("events = %+v, want CREATED then PAID", f.publisher.events)
		}
	})

	t.Run("payment rejected settles as CANCELLED with stock restored", func(t *testing.T) {
		f := newFixture()
		f.payment.result = port.PaymentRejected

		order, err := f.service.Create(ctx, "alice", twoLines())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if order.Status != domain.StatusCancelled {
			t.Fatalf("status = %s, want %s", order.Status, domain.StatusCancelled)
		}
		if f.ledger.stock["apple"] != 10 || f.ledger.stock["pear"] != 10 {
			t.Errorf("stock = %v, want fully restored", f.ledger.stock)
		}
		stored, err := f.repo.FindByID(ctx, order.ID)
		if err != nil {
			t.Fatalf("order not persisted: %v", err)
		}
		if stored.Status != domain.StatusCancelled {
			t.Errorf("persisted status = %s, want CANCELLED", stored.Status)
		}
	})

	t.Run("unreachable payment gateway settles like a rejection", func(t *testing.T) {
		f := newFixture()
		f.payment.err = errors.New("connection refused")

		order, err := f.service.Create(ctx, "alice", twoLines())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if order.Status != domain.StatusCancelled {
			t.Fatalf("status = %s, want CANCELLED", order.Status)
		}
		if f.ledger.stock["apple"] != 10 || f.ledger.stock["pear"] != 10 {
			t.Errorf("stock = %v, want fully restored", f.ledger.stock)
		}
	})

	t.Run("insufficient stock aborts with conflict and restores prior lines", func(t *testing.T) {
		f := newFixture()
		f.ledger.stock["pear"] = 0

		_, err := f.service.Create(ctx, "alice", twoLines())
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("err = %v, want ErrConflict", err)
		}
		if f.ledger.stock["apple"] != 10 {
			t.Errorf("apple stock = %d, want the reserved 2 restored", f.ledger.stock["apple"])
		}
		if len(f.repo.orders) != 0 {
			t.Errorf("order was persisted despite aborted saga")
		}
		if len(f.publisher.events) != 0 {
			t.Errorf("events published despite aborted saga: %+v", f.publisher.events)
		}
		if f.payment.calls != 0 {
			t.Errorf("payment submitted despite aborted saga")
		}
	})

	t.Run("unknown item fails pricing with not found and no side effects", func(t *testing.T) {
		f := newFixture()

		_, err := f.service.Create(ctx, "alice", []application.LineRequest{{ItemID: "mango", Quantity: 1}})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
		if f.ledger.stock["apple"] != 10 || f.ledger.stock["pear"] != 10 {
			t.Errorf("stock touched by failed pricing: %v", f.ledger.stock)
		}
		if len(f.repo.orders) != 0 {
			t.Errorf("order persisted despite failed pricing")
		}
	})

	t.Run("catalog outage maps to upstream unavailable", func(t *testing.T) {
		f := newFixture()
		f.pricing.err = errors.New("connection refused")

		_, err := f.service.Create(ctx, "alice", twoLines())
		if !errors.Is(err, domain.ErrUpstreamUnavailable) {
			t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
		}
	})

	t.Run("persist conflict releases reservations", func(t *testing.T) {
		f := newFixture()
		f.repo.createErr = fmt.Errorf("%w: duplicate", domain.ErrConflict)

		_, err := f.service.Create(ctx, "alice", twoLines())
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("err = %v, want ErrConflict", err)
		}
		if f.ledger.stock["apple"] != 10 || f.ledger.stock["pear"] != 10 {
			t.Errorf("stock = %v, want fully restored", f.ledger.stock)
		}
	})

	t.Run("publish failure does not fail the order", func(t *testing.T) {
		f := newFixture()
		f.publisher.err = errors.New("broker down")

		order, err := f.service.Create(ctx, "alice", twoLines())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if order.Status != domain.StatusPaid {
			t.Errorf("status = %s, want PAID", order.Status)
		}
	})

	t.Run("invalid requests are rejected up front", func(t *testing.T) {
		f := newFixture()

		cases := map[string]struct {
			caller string
			lines  []application.LineRequest
		}{
			"missing caller":    {caller: "", lines: twoLines()},
			"no lines":          {caller: "alice", lines: nil},
			"blank item id":     {caller: "alice", lines: []application.LineRequest{{ItemID: "", Quantity: 1}}},
			"zero quantity":     {caller: "alice", lines: []application.LineRequest{{ItemID: "apple", Quantity: 0}}},
			"negative quantity": {caller: "alice", lines: []application.LineRequest{{ItemID: "apple", Quantity: -2}}},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				if _, err := f.service.Create(ctx, tc.caller, tc.lines); !errors.Is(err, domain.ErrInvalid) {
					t.Errorf("err = %v, want ErrInvalid", err)
				}
			})
		}
		if f.pricing.calls != 0 {
			t.Errorf("pricing called for invalid requests")
		}
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order, err := f.service.Create(ctx, "alice", twoLines())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	t.Run("owner reads their order", func(t *testing.T) {
		got, err := f.service.Get(ctx, order.ID, "alice")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.ID != order.ID {
			t.Errorf("got order %s, want %s", got.ID, order.ID)
		}
	})

	t.Run("other callers are forbidden", func(t *testing.T) {
		if _, err := f.service.Get(ctx, order.ID, "mallory"); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("missing order is not found", func(t *testing.T) {
		if _, err := f.service.Get(ctx, "nope", "alice"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	orders, err := f.service.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if orders == nil || len(orders) != 0 {
		t.Fatalf("orders = %v, want empty non-nil slice", orders)
	}

	if _, err := f.service.Create(ctx, "alice", twoLines()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	orders, err = f.service.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("len = %d, want 1", len(orders))
	}
	if got, _ := f.service.List(ctx, "bob"); len(got) != 0 {
		t.Errorf("bob sees alice's orders")
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	// Updates only apply to CREATED orders, so seed one directly instead of
	// running the saga, which always settles past CREATED.
	seed := func(f *fixture) *domain.Order {
		order, err := domain.NewOrder("order-1", "alice", []domain.OrderLine{
			{ItemID: "apple", Quantity: 2, UnitPrice: 2.5},
		})
		if err != nil {
			t.Fatalf("NewOrder: %v", err)
		}
		if err := f.repo.Create(ctx, order); err != nil {
			t.Fatalf("seed: %v", err)
		}
		return order
	}

	t.Run("replaces lines and re-prices from the catalog", func(t *testing.T) {
		f := newFixture()
		order := seed(f)

		updated, err := f.service.Update(ctx, order.ID, "alice", []application.LineRequest{
			{ItemID: "pear", Quantity: 3},
		})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if len(updated.Lines) != 1 || updated.Lines[0].ItemID != "pear" {
			t.Fatalf("lines = %+v, want single pear line", updated.Lines)
		}
		if updated.Lines[0].UnitPrice != 4 {
			t.Errorf("unit price = %v, want the catalog's 4", updated.Lines[0].UnitPrice)
		}
		if updated.TotalPrice != 12 {
			t.Errorf("total = %v, want 12", updated.TotalPrice)
		}
		if len(f.ledger.increments) != 0 {
			t.Errorf("update touched inventory: %v", f.ledger.increments)
		}
	})

	t.Run("non-CREATED orders cannot be updated", func(t *testing.T) {
		f := newFixture()
		order := seed(f)
		if err := order.MarkPaid(); err != nil {
			t.Fatalf("MarkPaid: %v", err)
		}

		_, err := f.service.Update(ctx, order.ID, "alice", twoLines())
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("err = %v, want ErrConflict", err)
		}
	})

	t.Run("other callers are forbidden", func(t *testing.T) {
		f := newFixture()
		order := seed(f)

		_, err := f.service.Update(ctx, order.ID, "mallory", twoLines())
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("restocks every line and publishes CANCELLED", func(t *testing.T) {
		f := newFixture()
		order, err := f.service.Create(ctx, "alice", twoLines())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		f.publisher.events = nil

		cancelled, err := f.service.Cancel(ctx, order.ID, "alice")
		if err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if cancelled.Status != domain.StatusCancelled {
			t.Fatalf("status = %s, want CANCELLED", cancelled.Status)
		}
		if f.ledger.stock["apple"] != 10 || f.ledger.stock["pear"] != 10 {
			t.Errorf("stock = %v, want fully restored", f.ledger.stock)
		}
		if len(f.publisher.events) != 1 || f.publisher.events[0].Status != domain.StatusCancelled {
			t.Errorf("events = %+v, want one CANCELLED event", f.publisher.events)
		}
	})

	t.Run("cancelling twice is idempotent and restocks once", func(t *testing.T) {
		f := newFixture()
		order, err := f.service.Create(ctx, "alice", twoLines())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := f.service.Cancel(ctx, order.ID, "alice"); err != nil {
			t.Fatalf("first Cancel: %v", err)
		}
		before := len(f.ledger.increments)

		again, err := f.service.Cancel(ctx, order.ID, "alice")
		if err != nil {
			t.Fatalf("second Cancel: %v", err)
		}
		if again.Status != domain.StatusCancelled {
			t.Errorf("status = %s, want CANCELLED", again.Status)
		}
		if len(f.ledger.increments) != before {
			t.Errorf("second cancel restocked again")
		}
	})

	t.Run("stuck restock does not block cancellation", func(t *testing.T) {
		f := newFixture()
		order, err := f.service.Create(ctx, "alice", twoLines())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		f.ledger.incrementErr = errors.New("ledger down")

		cancelled, err := f.service.Cancel(ctx, order.ID, "alice")
		if err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if cancelled.Status != domain.StatusCancelled {
			t.Errorf("status = %s, want CANCELLED despite failed restock", cancelled.Status)
		}
		if len(f.ledger.increments) != 2 {
			t.Errorf("increment attempts = %d, want every line tried", len(f.ledger.increments))
		}
	})

	t.Run("other callers are forbidden", func(t *testing.T) {
		f := newFixture()
		order, err := f.service.Create(ctx, "alice", twoLines())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := f.service.Cancel(ctx, order.ID, "mallory"); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})
}
