package services_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"bazaar/internal/domain"
	"bazaar/internal/repos"
	"bazaar/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// One connection: every pool conn of a :memory: DSN would otherwise
	// open its own empty database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema := `
	CREATE TABLE items(
	  id TEXT PRIMARY KEY,
	  seller_id TEXT NOT NULL,
	  title TEXT NOT NULL,
	  description TEXT,
	  price NUMERIC NOT NULL,
	  discount_price NUMERIC,
	  qty INTEGER NOT NULL,
	  min_threshold INTEGER NOT NULL DEFAULT 5,
	  max_capacity INTEGER NOT NULL DEFAULT 100,
	  active INTEGER NOT NULL DEFAULT 1,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
	  updated_at TEXT
	);
	CREATE TABLE orders(
	  id TEXT PRIMARY KEY,
	  buyer_id TEXT NOT NULL,
	  seller_id TEXT NOT NULL,
	  total NUMERIC NOT NULL,
	  status TEXT NOT NULL DEFAULT 'PENDING',
	  payment_status TEXT NOT NULL DEFAULT 'PENDING',
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
	  updated_at TEXT
	);
	CREATE TABLE order_items(
	  order_id TEXT NOT NULL,
	  item_id TEXT NOT NULL,
	  qty INTEGER NOT NULL,
	  price NUMERIC NOT NULL,
	  PRIMARY KEY (order_id, item_id)
	);
	CREATE TABLE promo_codes(code TEXT PRIMARY KEY, percent INTEGER NOT NULL);

	INSERT INTO items(id,seller_id,title,price,discount_price,qty,min_threshold,max_capacity) VALUES
	  ('lamp-1','v1','Brass Lamp',899,NULL,5,3,50),
	  ('mug-1','v1','Camping Mug',150,129,10,5,200),
	  ('soap-1','v2','Olive Soap',99,79,0,5,500);
	INSERT INTO promo_codes(code,percent) VALUES ('SAVE10',10),('WELCOME20',20);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

// recNotifier records dispatched notifications for assertions.
type recNotifier struct {
	mu    sync.Mutex
	low   []string
	moves []string
}

func (n *recNotifier) LowStock(it domain.StockItem) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.low = append(n.low, it.ID)
}

func (n *recNotifier) StatusChanged(orderID string, from, to domain.OrderStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.moves = append(n.moves, string(from)+">"+string(to))
}

func newLedger(t *testing.T) (*services.LedgerService, *recNotifier) {
	t.Helper()
	db := memdb(t)
	n := &recNotifier{}
	return services.NewLedgerService(repos.NewStockRepo(db), n), n
}

func TestLedger_GetClassifies(t *testing.T) {
	svc, _ := newLedger(t)

	inf, err := svc.Get("lamp-1")
	if err != nil {
		t.Fatal(err)
	}
	if inf.Qty != 5 || inf.MinThreshold != 3 || inf.MaxCapacity != 50 {
		t.Fatalf("bad numbers: %+v", inf)
	}
	if inf.Level != domain.InStock {
		t.Fatalf("5 > threshold 3 should be IN_STOCK, got %s", inf.Level)
	}

	inf, err = svc.Get("soap-1")
	if err != nil {
		t.Fatal(err)
	}
	if inf.Level != domain.OutOfStock {
		t.Fatalf("qty 0 should be OUT_OF_STOCK, got %s", inf.Level)
	}

	if _, err := svc.Get("ghost"); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("want ErrItemNotFound, got %v", err)
	}
}

func TestLedger_AdjustBounds(t *testing.T) {
	svc, n := newLedger(t)

	// 5 -> 3: lands exactly on the threshold, now low, notification fired.
	inf, err := svc.Adjust("lamp-1", -2)
	if err != nil {
		t.Fatal(err)
	}
	if inf.Qty != 3 || inf.Level != domain.LowStock {
		t.Fatalf("want qty 3 LOW_STOCK, got %+v", inf)
	}
	if len(n.low) != 1 || n.low[0] != "lamp-1" {
		t.Fatalf("want one low-stock notification for lamp-1, got %v", n.low)
	}

	// Over-draw fails, names the conflict, leaves quantity alone.
	_, err = svc.Adjust("lamp-1", -4)
	var insufficient *domain.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if insufficient.ItemID != "lamp-1" || insufficient.Requested != 4 || insufficient.Available != 3 {
		t.Fatalf("error should name the numbers: %+v", insufficient)
	}
	if inf, _ := svc.Get("lamp-1"); inf.Qty != 3 {
		t.Fatalf("failed adjust must not move quantity, got %d", inf.Qty)
	}

	// Restock past capacity fails the same way.
	_, err = svc.Adjust("lamp-1", 100)
	var capacity *domain.CapacityExceededError
	if !errors.As(err, &capacity) {
		t.Fatalf("want CapacityExceededError, got %v", err)
	}
	if capacity.Requested != 103 || capacity.MaxCapacity != 50 {
		t.Fatalf("error should name the numbers: %+v", capacity)
	}

	// Zero is not an adjustment.
	var badQty *domain.InvalidQuantityError
	if _, err := svc.Adjust("lamp-1", 0); !errors.As(err, &badQty) {
		t.Fatalf("want InvalidQuantityError, got %v", err)
	}

	if _, err := svc.Adjust("ghost", 1); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("want ErrItemNotFound, got %v", err)
	}
}

func TestLedger_Set(t *testing.T) {
	svc, _ := newLedger(t)

	inf, err := svc.Set("lamp-1", 50)
	if err != nil {
		t.Fatal(err)
	}
	if inf.Qty != 50 || inf.Level != domain.InStock {
		t.Fatalf("want qty 50 IN_STOCK, got %+v", inf)
	}

	var badQty *domain.InvalidQuantityError
	if _, err := svc.Set("lamp-1", 51); !errors.As(err, &badQty) {
		t.Fatalf("above capacity: want InvalidQuantityError, got %v", err)
	}
	if _, err := svc.Set("lamp-1", -1); !errors.As(err, &badQty) {
		t.Fatalf("negative: want InvalidQuantityError, got %v", err)
	}
	if _, err := svc.Set("ghost", 5); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("want ErrItemNotFound, got %v", err)
	}

	if inf, _ := svc.Get("lamp-1"); inf.Qty != 50 {
		t.Fatalf("rejected sets must not move quantity, got %d", inf.Qty)
	}
}

// Two buyers over the same remaining stock: exactly one wins.
func TestLedger_ConcurrentDecrement(t *testing.T) {
	svc, _ := newLedger(t)

	// lamp-1 holds 5; two decrements of 3 cannot both fit.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Adjust("lamp-1", -3)
		}(i)
	}
	wg.Wait()

	var okCount, insufficientCount int
	for _, err := range errs {
		var insufficient *domain.InsufficientStockError
		switch {
		case err == nil:
			okCount++
		case errors.As(err, &insufficient):
			insufficientCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 || insufficientCount != 1 {
		t.Fatalf("want exactly one winner, got ok=%d insufficient=%d", okCount, insufficientCount)
	}
	if inf, _ := svc.Get("lamp-1"); inf.Qty != 2 {
		t.Fatalf("want final qty 2, got %d", inf.Qty)
	}
}
