// Package jump owns trajectory segmentation and jump physics.
//
// Responsibilities: extracting per-landmark vertical trajectories from a
// pose track, splitting a trajectory into grounded / airborne / grounded
// phases, screening the airborne fit for physical plausibility, and turning
// the airborne interval into jump height and launch velocity.
// Key types: Trajectory, Split, SegmentFit, Interval, Record, Analyzer.
//
// Two interval finders implement the same IntervalFinder contract:
// ExhaustiveFinder scans every (launch, landing) pair for the minimum
// piecewise linear/quadratic/linear residual, and PeakFinder bounds a
// parabola around the most prominent apex in one pass.
//
// Image y grows downward, so a genuine jump shows up as a quadratic with a
// positive leading coefficient. All frame numbers are the detector's frame
// indices, not slice offsets.
//
// No I/O happens here; callers supply decoded tracks and consume Records.
package jump
