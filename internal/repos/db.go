package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	// SQLite takes one writer at a time; a single pooled connection keeps
	// concurrent writers queued instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Users first: items carry a seller FK.
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('BUYER','VENDOR','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- value of the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Items: sellable units plus their inventory record. qty is bounded on
-- both sides at the schema level as a backstop behind the conditional
-- updates in StockRepo.
CREATE TABLE IF NOT EXISTS items(
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL REFERENCES users(id),
  title TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  discount_price NUMERIC CHECK (discount_price IS NULL OR (discount_price >= 0 AND discount_price <= price)),
  qty INTEGER NOT NULL DEFAULT 0 CHECK (qty >= 0 AND qty <= max_capacity),
  min_threshold INTEGER NOT NULL DEFAULT 5 CHECK (min_threshold >= 0),
  max_capacity INTEGER NOT NULL DEFAULT 100 CHECK (max_capacity >= 0),
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_items_seller ON items(seller_id);
CREATE INDEX IF NOT EXISTS idx_items_active ON items(active);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL REFERENCES users(id),
  seller_id TEXT NOT NULL REFERENCES users(id),
  total NUMERIC NOT NULL CHECK (total >= 0),
  status TEXT NOT NULL DEFAULT 'PENDING'
    CHECK (status IN ('PENDING','CONFIRMED','IN_PROGRESS','COMPLETED','CANCELLED','REFUNDED')),
  payment_status TEXT NOT NULL DEFAULT 'PENDING'
    CHECK (payment_status IN ('PENDING','PAID','FAILED','REFUNDED')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_buyer  ON orders(buyer_id);
CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  item_id  TEXT NOT NULL REFERENCES items(id),
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, item_id)
);

-- Promo codes (case-insensitive lookup)
CREATE TABLE IF NOT EXISTS promo_codes(
  code TEXT PRIMARY KEY,
  percent INTEGER NOT NULL CHECK (percent >= 0 AND percent <= 100),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_promo_code_nocase ON promo_codes(LOWER(code));
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM items`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo items/promos")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO items(id,seller_id,title,description,price,discount_price,qty,min_threshold,max_capacity) VALUES
	  ('mug-001','v-acme','Enamel Camping Mug','Classic 350ml mug',149.00,129.00,40,5,200),
	  ('lamp-001','v-acme','Brass Desk Lamp','Adjustable arm, E27 socket',899.00,NULL,12,3,50),
	  ('soap-001','v-acme','Olive Oil Soap (3-pack)','Cold pressed',99.00,79.00,120,20,500),
	  ('clean-001','v-handy','Home Deep Clean (2h slot)','Two cleaners, materials included',650.00,NULL,8,2,16)`)

	tx.MustExec(`INSERT INTO promo_codes(code,percent) VALUES
	  ('SAVE10',10),
	  ('WELCOME20',20)`)

	return tx.Commit()
}

// seedUsers ensures the demo buyer, vendors and admin exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-buyer", "buyer@bazaar.test", "Billie", "BUYER", "Passw0rd!"),
		mk("v-acme", "acme@bazaar.test", "Acme Supplies", "VENDOR", "Passw0rd!"),
		mk("v-handy", "handy@bazaar.test", "Handy Services", "VENDOR", "Passw0rd!"),
		mk("u-admin", "admin@bazaar.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO UPDATE SET password_hash=excluded.password_hash
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}
	return tx.Commit()
}
