// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

/*
Package orders places orders and keeps users' preference profiles in step
with them.

Placing an order is one logical transaction: the order rows and the
preference merge either both persist or neither does. With the DuckDB
preference backend the merge runs inside the order's SQL transaction
(TxMerger). With the badger and memory backends the merge runs through the
recommend.Updater before the order transaction commits; a failed commit
after a successful merge is repaired by retrying with the same order ID,
which the store's applied-order marker makes a no-op.

After a successful placement an orders.placed event is published. Publish
failures are logged and never fail the request.
*/
package orders
