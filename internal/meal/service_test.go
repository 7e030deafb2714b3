package meal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"mealdesk/internal/deadline"
	"mealdesk/internal/notify"
	"mealdesk/internal/report"
	"mealdesk/internal/submission"
)

var kolkata = time.FixedZone("IST", 5*3600+1800)

// --------------------------------------------------
// Test doubles
// --------------------------------------------------

type failingRepository struct {
	inserts int
}

func (f *failingRepository) Insert(ctx context.Context, order *Order) error {
	f.inserts++
	return errors.New("store unavailable")
}

func (f *failingRepository) ListAll(ctx context.Context) ([]*Order, error) {
	return nil, errors.New("store unavailable")
}

// cancelAwareRepository fails the way a driver does when its context is
// already cancelled.
type cancelAwareRepository struct {
	*InMemoryRepository
}

func (r cancelAwareRepository) Insert(ctx context.Context, order *Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.InMemoryRepository.Insert(ctx, order)
}

type recordingNotifier struct {
	mu     sync.Mutex
	orders []notify.OrderConfirmation
	err    error
}

func (n *recordingNotifier) SendOrderConfirmation(ctx context.Context, c notify.OrderConfirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, c)
	return n.err
}

func (n *recordingNotifier) SendBookingConfirmation(ctx context.Context, c notify.BookingConfirmation) error {
	return nil
}

// 2024-01-09 10:00 IST: lunch and dinner for the 10th are both open.
func testPolicy() *deadline.Policy {
	now := time.Date(2024, 1, 9, 10, 0, 0, 0, kolkata)
	return deadline.NewPolicy(kolkata, func() time.Time { return now })
}

func newTestService(repo Repository, n notify.Notifier) *Service {
	return NewService(repo, testPolicy(), n, time.Second)
}

func chickenLunch(date string) Form {
	f := NewForm(date)
	f.UserName = "Alice"
	f.UserEmail = "alice@x.com"
	f.MealType = []Slot{SlotLunch}
	f.LunchPreference = PreferenceChicken
	f.LunchType = TypeRotiOnly
	return f
}

func vegDinner(date string) Form {
	f := NewForm(date)
	f.UserName = "Alice"
	f.UserEmail = "alice@x.com"
	f.MealType = []Slot{SlotDinner}
	f.DinnerPreference = PreferenceVeg
	f.DinnerType = TypeRotiRiceCombined
	return f
}

// --------------------------------------------------
// Tests
// --------------------------------------------------

func TestSubmitRoundTripThroughGroupByUser(t *testing.T) {
	repo := NewInMemoryRepository()
	n := &recordingNotifier{}
	svc := newTestService(repo, n)

	res, order := svc.Submit(context.Background(), chickenLunch("2024-01-10"))
	if !res.Succeeded() {
		t.Fatalf("expected success, got %+v", res)
	}
	if order.ID == "" || order.CreatedAt.IsZero() {
		t.Fatal("expected store-assigned id and timestamp")
	}

	orders, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	users := report.GroupByUser(orders)
	if len(users) != 1 || users[0].Email != "alice@x.com" || users[0].TotalAmount != order.TotalPrice {
		t.Fatalf("unexpected user groups %+v", users)
	}

	if len(n.orders) != 1 || n.orders[0].Total != 113 {
		t.Fatalf("expected one confirmation, got %+v", n.orders)
	}
}

func TestSubmitTwoOrdersForAlice(t *testing.T) {
	svc := newTestService(NewInMemoryRepository(), nil)
	ctx := context.Background()

	for _, f := range []Form{chickenLunch("2024-01-10"), vegDinner("2024-01-11")} {
		if res, _ := svc.Submit(ctx, f); !res.Succeeded() {
			t.Fatalf("submit failed: %+v", res)
		}
	}

	sum, err := svc.Summary(ctx, "2024-01-10", report.Range{Start: "2024-01-01", End: "2024-01-31"})
	if err != nil {
		t.Fatal(err)
	}

	if len(sum.UserSummary) != 1 || sum.UserSummary[0].Count != 2 || sum.UserSummary[0].TotalAmount != 206 {
		t.Fatalf("unexpected user summary %+v", sum.UserSummary)
	}
	if len(sum.DailySummary) != 2 || sum.DailySummary[0].TotalAmount != 93 || sum.DailySummary[1].TotalAmount != 113 {
		t.Fatalf("unexpected daily summary %+v", sum.DailySummary)
	}
	if sum.Stats.TotalOrders != 2 || sum.Stats.LunchOrders != 1 || sum.Stats.DinnerOrders != 1 || sum.Stats.TotalRevenue != 206 {
		t.Fatalf("unexpected stats %+v", sum.Stats)
	}
	if len(sum.DailyOrders) != 1 || sum.RangeTotal != 206 {
		t.Fatalf("unexpected daily orders %d / range total %d", len(sum.DailyOrders), sum.RangeTotal)
	}
}

func TestSubmitRejectedNeverReachesStore(t *testing.T) {
	repo := &failingRepository{}
	svc := newTestService(repo, nil)

	res, order := svc.Submit(context.Background(), Form{})

	if res.Kind != submission.KindRejected || order != nil {
		t.Fatalf("expected rejection, got %+v", res)
	}
	if repo.inserts != 0 {
		t.Fatal("store must not be called for invalid input")
	}
}

func TestSubmitRepeatedMealIsRejected(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := newTestService(repo, nil)

	f := chickenLunch("2024-01-10")
	f.MealType = []Slot{SlotLunch, SlotLunch, SlotLunch}

	res, order := svc.Submit(context.Background(), f)
	if res.Kind != submission.KindRejected || order != nil {
		t.Fatalf("expected rejection, got %+v", res)
	}
	if orders, _ := repo.ListAll(context.Background()); len(orders) != 0 {
		t.Fatalf("nothing should be stored, got %d", len(orders))
	}
}

func TestSubmitSurvivesClientDisconnect(t *testing.T) {
	repo := cancelAwareRepository{NewInMemoryRepository()}
	svc := newTestService(repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, order := svc.Submit(ctx, chickenLunch("2024-01-10"))
	if !res.Succeeded() || order == nil {
		t.Fatalf("store write must not follow the request context, got %+v", res)
	}
	if orders, _ := repo.ListAll(context.Background()); len(orders) != 1 {
		t.Fatalf("expected stored order, got %d", len(orders))
	}
}

func TestSubmitStoreFailure(t *testing.T) {
	n := &recordingNotifier{}
	svc := newTestService(&failingRepository{}, n)

	res, order := svc.Submit(context.Background(), chickenLunch("2024-01-10"))

	if res.Kind != submission.KindFailed || order != nil {
		t.Fatalf("expected failure, got %+v", res)
	}
	if len(n.orders) != 0 {
		t.Fatal("no confirmation on failure")
	}
}

func TestNotifyFailureKeepsOrder(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := newTestService(repo, &recordingNotifier{err: errors.New("smtp down")})

	res, _ := svc.Submit(context.Background(), chickenLunch("2024-01-10"))
	if !res.Succeeded() {
		t.Fatalf("notification failure must not fail the order: %+v", res)
	}
	orders, _ := repo.ListAll(context.Background())
	if len(orders) != 1 {
		t.Fatalf("expected stored order, got %d", len(orders))
	}
}

func TestSubmitPastDeadlineIsRejected(t *testing.T) {
	svc := newTestService(NewInMemoryRepository(), nil)

	// Lunch for the 9th closed at 21:00 on the 8th.
	res, _ := svc.Submit(context.Background(), chickenLunch("2024-01-09"))

	if res.Kind != submission.KindRejected {
		t.Fatalf("expected rejection, got %+v", res)
	}
	if !strings.Contains(res.Errors["lunch"], "closed") {
		t.Fatalf("expected lunch deadline error, got %v", res.Errors)
	}

	// Dinner for the 9th is still open until 16:30.
	if res, _ := svc.Submit(context.Background(), vegDinner("2024-01-09")); !res.Succeeded() {
		t.Fatalf("dinner should be open: %+v", res)
	}
}

func TestSubmitBadDate(t *testing.T) {
	svc := newTestService(NewInMemoryRepository(), nil)

	res, _ := svc.Submit(context.Background(), chickenLunch("10/01/2024"))

	if res.Errors["orderDate"] == "" {
		t.Fatalf("expected orderDate error, got %v", res.Errors)
	}
}

func TestExportRangeCSV(t *testing.T) {
	svc := newTestService(NewInMemoryRepository(), nil)
	ctx := context.Background()

	f := chickenLunch("2024-01-10")
	f.UserName = "Smith, Alice"
	if res, _ := svc.Submit(ctx, f); !res.Succeeded() {
		t.Fatalf("submit failed: %+v", res)
	}
	if res, _ := svc.Submit(ctx, vegDinner("2024-01-20")); !res.Succeeded() {
		t.Fatalf("submit failed: %+v", res)
	}

	body, name, err := svc.Export(ctx, report.Range{Start: "2024-01-01", End: "2024-01-15"}, report.FormatCSV)
	if err != nil {
		t.Fatal(err)
	}

	if name != "food-orders-2024-01-01-to-2024-01-15.csv" {
		t.Fatalf("unexpected filename %q", name)
	}
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %q", body)
	}
	if !strings.HasPrefix(lines[0], "Date,Name,Email,Meal Type") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], `"Smith, Alice"`) {
		t.Fatalf("expected quoted name, got %q", lines[1])
	}
}

func TestExportInvalidRange(t *testing.T) {
	svc := newTestService(NewInMemoryRepository(), nil)

	_, _, err := svc.Export(context.Background(), report.Range{Start: "2024-02-01", End: "2024-01-01"}, report.FormatCSV)
	if !report.IsInputError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
