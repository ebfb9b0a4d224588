// Package services implements the fulfillment decision engine: pure planning
// services that decide where inventory is pulled from, when an order is promised,
// how picking work is batched and which carrier ships it.
//
// The services are:
//   - ZoneClassifier: pincode pair to delivery zone and base transit days
//   - ServiceabilityResolver: pincode, route and order validation against the catalog
//   - SLACalculator and ComplianceTracker: promise dates, milestones and compliance
//   - AllocationPlanner: per-line warehouse sourcing with bounded hopping
//   - TransporterSelector: weighted carrier scoring
//   - PicklistOptimizer: pick batch generation per strategy
//
// Configuration tables are passed in at construction; none of the services keeps
// package-level state. Business outcomes (not serviceable, short on stock) are
// returned as values, never as errors.
package services
