// Package kernel holds the value objects shared by every aggregate of the
// fulfillment engine: UUID identifiers and Indian postal pincodes.
//
// Both are immutable and guard-constructed; their zero values fail Validate.
package kernel
