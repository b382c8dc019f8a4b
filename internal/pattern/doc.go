// Package pattern models one diffraction-pattern observation and compares observations.
//
// A Pattern holds three canonically sorted lists: kinematic (Kikuchi) lines, HOLZ lines
// and diffracted-beam disks. Geometry is compared with a fixed absolute tolerance
// (Tolerance) while canonical ordering uses exact comparison, so sort order and
// equality are independent contracts. Equality between patterns never depends on the
// stored order: it is derived from two directional differences both being empty.
//
// Values in this package are immutable once constructed and safe to share between
// goroutines without synchronization.
package pattern
