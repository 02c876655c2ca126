// Package history keeps the list of saved drawings.
//
// The ledger lives in a directory (default "drawings") next to the PNG files
// it describes, as a JSON array in history.json. Records are kept oldest
// first; Recent returns the tail of that list.
//
// Every Add and Delete rewrites history.json in place. There is no journal,
// so a crash during a write can leave a truncated file that Open then refuses
// to parse.
package history
