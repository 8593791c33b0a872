package sqlite

// schema is the card catalog DDL. features/benefits hold JSON arrays of
// strings, eligibility/fees hold JSON objects; everything else is a flat
// scalar column.
const schema = `
CREATE TABLE IF NOT EXISTS cards (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT UNIQUE NOT NULL,
  issuer TEXT NOT NULL,
  card_type TEXT NOT NULL,
  network TEXT NOT NULL,
  annual_fee REAL DEFAULT 0,
  joining_fee REAL DEFAULT 0,
  interest_rate REAL,
  cashback_rate REAL,
  rewards_rate REAL,
  rewards_type TEXT,
  welcome_bonus TEXT,
  features TEXT DEFAULT '[]',
  benefits TEXT DEFAULT '[]',
  eligibility TEXT DEFAULT '{}',
  fees TEXT DEFAULT '{}',
  image_url TEXT,
  card_color TEXT DEFAULT '#1a1a2e',
  card_gradient TEXT DEFAULT 'linear-gradient(135deg, #1a1a2e 0%, #16213e 100%)',
  rating REAL DEFAULT 4.0,
  popularity_score INTEGER DEFAULT 0,
  is_popular INTEGER DEFAULT 0,
  highlight TEXT,
  created_at TEXT DEFAULT (datetime('now')),
  updated_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_cards_card_type ON cards(card_type);
CREATE INDEX IF NOT EXISTS idx_cards_issuer ON cards(issuer);
CREATE INDEX IF NOT EXISTS idx_cards_popularity ON cards(popularity_score DESC);
`
