// Package timeline defines the entity model for the editing engine.
//
// This package contains type definitions, validation rules, and the
// structured error type. All other internal packages import timeline;
// timeline imports nothing internal. This keeps the entity layer
// foundational with no circular dependencies.
//
// Key design constraints:
//   - Clip intervals are half-open [Start, Start+Duration) in seconds
//   - Track order values are unique per project (z-order, lower drawn first)
//   - Takes are exclusively owned by their dialogue clip, never shared
//   - Speaker references from clips are weak and may dangle
package timeline
