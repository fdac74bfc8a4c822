// Package favorites keeps the user's saved statistics.
//
// The list is stored under the "favorites" key of a localstore.Store as a
// JSON array of statista.Item and is read and written as a whole. Duplicate
// entries are allowed; Remove drops every entry sharing an identifier.
//
// Mutations hold a process-wide mutex and run inside one write transaction,
// so two concurrent Add calls both land.
//
// Service is the entry point for views. It reads through the query cache
// under query.FavoritesKey and invalidates that key after every successful
// write.
package favorites
