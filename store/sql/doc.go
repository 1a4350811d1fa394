// Package sqlstore persists resources as JSON documents in a single
// resource_documents table through bun. SQLite and Postgres are supported;
// filters on body fields are rendered per dialect.
package sqlstore
