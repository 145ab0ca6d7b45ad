// Package models defines the client-side domain types shared by the stores,
// the API executor and the terminal consumer: User, Skill, ExchangeRequest,
// their mutation inputs and list filters, plus the decoding helpers that turn
// the server's JSON envelopes into these types.
//
// The server identifies documents with "_id" (occasionally "id") and returns
// references either as a bare id string or as a populated object. Decoding
// accepts both shapes; the id is always recorded and the populated summary is
// kept when present.
package models
