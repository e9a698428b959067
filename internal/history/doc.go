// Package history persists the ordered role/content records of a chat
// session.
//
// Two backends share the Store interface: a JSON file (the default, a
// human-readable array of {"role", "content"} objects) and a SQLite database
// selected when the path ends in .db, .sqlite or .sqlite3. Both load and save
// the whole sequence at once. Load never fails; problems are logged and an
// empty history is returned.
package history
