// Package order holds the read view of a customer order as the fulfillment engine
// sees it: its type, payment mode, lanes, lines and fulfillment status.
//
// Orders enter the engine in CREATED status through the accept order command.
// Their details never change afterwards. The engine only advances the fulfillment
// status (ALLOCATED once a reservation is confirmed) and records the promise delay
// that allocation hopping introduced.
package order
