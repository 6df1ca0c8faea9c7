package mysql

const upsertRateSQL = `
INSERT INTO hotel_discounts (hotel_id, rate)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  rate       = VALUES(rate),
  updated_at = CURRENT_TIMESTAMP
`

const truncateFromSQL = `DELETE FROM hotel_discounts WHERE hotel_id >= ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Ordered by id so rows map straight onto table indexes.
const loadRatesSQL = `
SELECT hotel_id, rate
FROM hotel_discounts
ORDER BY hotel_id
`
