package kv

const schemaSQL = `
CREATE TABLE IF NOT EXISTS slots (
    key         TEXT PRIMARY KEY,
    value       BLOB NOT NULL,
    updated_at  TEXT NOT NULL
);
`
