// Package vendas keeps the books of a small retail business: its clients, the
// products it holds in stock, the sales it makes and the payments it receives.
//
// The data set is a single JSON document. A Ledger loads it from a Store at
// startup and owns it from then on:
//   - Every change goes through a Ledger operation (AddClient, RecordSale,
//     RecordPayment, ...), which validates the input, applies it to a copy of
//     the data, saves the copy and only then makes it current. A failure at
//     any step leaves the data as it was.
//   - Operations are serialized, so that stock can never be oversold and a
//     payment can never exceed what the client owes.
//
// Balances are never stored. TotalSales, ClientBalance, TopClientsByRevenue and
// the other report functions recompute them from the sales and payments of a
// Snapshot.
//
// This package is the foundation of the `vendas` command line tool and of its
// web interface.
package vendas
