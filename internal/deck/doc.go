// Package deck holds the cards a user can play.
//
// A Deck is an in-memory list of cards, newest first. Content is trimmed
// on the way in and blank content is rejected. Decks can be seeded from a
// YAML deck file or from plain text files, one card per file. A Deck
// marshals back to the YAML form; writing it anywhere is up to the caller.
package deck
