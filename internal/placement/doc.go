// Package placement implements clip placement rules: overlap checking,
// ripple shifting, and interactive drag sessions.
//
// Everything here is pure computation over timeline entities. The
// package never mutates project state; callers apply the returned
// geometry through validated project operations.
package placement
